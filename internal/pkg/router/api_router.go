package router

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"github.com/watchhubtv/watchhub/app/controllers"
	"github.com/watchhubtv/watchhub/internal/pkg/env"
	"github.com/watchhubtv/watchhub/internal/pkg/middleware"
	"github.com/watchhubtv/watchhub/internal/pkg/token"
)

type ApiRouter struct {
	tokenStore *token.Store
}

func NewApiRouter(store *token.Store) *ApiRouter {
	return &ApiRouter{tokenStore: store}
}

func (h ApiRouter) InstallRouter(app *fiber.App) {
	app.Use(cors.New(cors.Config{
		AllowOrigins: env.GetEnv("CORS_ALLOW_ORIGINS", "*"),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, PUT, DELETE, OPTIONS",
	}))
	app.Use(middleware.UserContextMiddleware(h.tokenStore))

	api := app.Group("/api", limiter.New(limiter.Config{
		Max:        120,
		Expiration: 1 * time.Minute,
		Storage:    newLimiterStorage(),
	}))
	api.Get("/", func(ctx *fiber.Ctx) error {
		return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
			"message": "WatchHub API",
		})
	})

	v1 := api.Group("/v1")
	v1.Get("/health", func(ctx *fiber.Ctx) error {
		return ctx.JSON(fiber.Map{"status": "ok"})
	})

	// Auth
	auth := v1.Group("/auth")
	auth.Post("/register", controllers.HandleRegister)
	auth.Get("/activate", controllers.HandleActivate)
	auth.Post("/login", controllers.HandleLogin)
	auth.Post("/forgot-password", controllers.HandleForgotPassword)
	auth.Post("/reset-password", controllers.HandleResetPassword)
	auth.Post("/logout", middleware.RequireAuth, controllers.HandleLogout)
	auth.Get("/me", middleware.RequireAuth, controllers.HandleGetMe)

	// Plans and billing
	v1.Get("/plans", controllers.HandleListPlans)

	billing := v1.Group("/billing", middleware.RequireAuth)
	billing.Get("/subscriptions", controllers.HandleListSubscriptions)
	billing.Post("/subscriptions", controllers.HandleCreateSubscription)
	billing.Get("/subscriptions/check", controllers.HandleCheckSubscription)
	billing.Post("/subscriptions/confirm", controllers.HandleConfirmSubscription)
	billing.Post("/subscriptions/cancel", controllers.HandleCancelSubscription)
	billing.Get("/subscribers/me", controllers.HandleGetSubscriber)
	billing.Get("/payment-methods", controllers.HandleListPaymentMethods)
	billing.Post("/payment-methods", controllers.HandleAddPaymentMethod)
	billing.Put("/payment-methods/:id/default", controllers.HandleSetDefaultPaymentMethod)
	billing.Delete("/payment-methods/:id", controllers.HandleDeletePaymentMethod)

	// Catalog: browsing is public, playback detail requires entitlement
	movies := v1.Group("/movies")
	movies.Get("/", controllers.HandleBrowseCatalog)
	movies.Get("/trending", controllers.HandleTrending)
	movies.Get("/search", controllers.HandleSearchCatalog)
	movies.Get("/:id", middleware.RequireSubscription, controllers.HandleGetMovie)
	movies.Get("/:id/stream", middleware.RequireSubscription, controllers.HandleGetStream)
	movies.Post("/:id/view", middleware.RequireSubscription, controllers.HandleRecordView)

	// Token check for the video edge, no session required
	v1.Get("/stream/verify", controllers.HandleVerifyStream)

	// Viewing profiles
	profiles := v1.Group("/profiles", middleware.RequireAuth)
	profiles.Get("/", controllers.HandleListProfiles)
	profiles.Post("/", controllers.HandleCreateProfile)
	profiles.Put("/:id", controllers.HandleUpdateProfile)
	profiles.Delete("/:id", controllers.HandleDeleteProfile)

	// Playback progress
	progress := v1.Group("/progress", middleware.RequireSubscription)
	progress.Post("/", controllers.HandleSaveProgress)
	progress.Get("/:profileID/continue-watching", controllers.HandleContinueWatching)
	progress.Get("/:profileID/:videoID", controllers.HandleGetProgress)
	progress.Delete("/:profileID/:videoID", controllers.HandleDeleteProgress)

	// Notifications
	notifications := v1.Group("/notifications", middleware.RequireAuth)
	notifications.Get("/", controllers.HandleListNotifications)
	notifications.Put("/read-all", controllers.HandleMarkAllNotificationsRead)
	notifications.Put("/:id/read", controllers.HandleMarkNotificationRead)
	notifications.Delete("/:id", controllers.HandleDeleteNotification)

	// Watchlist
	watchlist := v1.Group("/watchlist", middleware.RequireAuth)
	watchlist.Get("/", controllers.HandleGetWatchlist)
	watchlist.Post("/", controllers.HandleAddToWatchlist)
	watchlist.Delete("/:imdbID", controllers.HandleRemoveFromWatchlist)

	// Admin
	admin := v1.Group("/admin", middleware.RequireAdmin)
	admin.Get("/metrics", controllers.HandleAdminMetrics)
	admin.Get("/users", controllers.HandleAdminListUsers)
	admin.Get("/subscriptions", controllers.HandleAdminListSubscriptions)
	admin.Post("/movies", controllers.HandleAdminCreateMovie)
	admin.Put("/movies/:id", controllers.HandleAdminUpdateMovie)
	admin.Delete("/movies/:id", controllers.HandleAdminDeleteMovie)
	admin.Get("/queues", controllers.HandleAdminQueueStats)
}
