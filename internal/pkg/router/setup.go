package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/watchhubtv/watchhub/internal/pkg/token"
)

type Router interface {
	InstallRouter(app *fiber.App)
}

// InstallRouter registers the full API surface. The token store backs the
// bearer auth middleware installed ahead of every route group.
func InstallRouter(app *fiber.App, store *token.Store) {
	setup(app, NewApiRouter(store))
}

func setup(app *fiber.App, router ...Router) {
	for _, r := range router {
		r.InstallRouter(app)
	}
}
