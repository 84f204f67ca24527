package main

import (
	"fmt"
	"log"
	"os"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/basicauth"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/watchhubtv/watchhub/app/controllers"
	"github.com/watchhubtv/watchhub/app/repository"
	"github.com/watchhubtv/watchhub/internal/pkg/cache"
	"github.com/watchhubtv/watchhub/internal/pkg/config"
	"github.com/watchhubtv/watchhub/internal/pkg/database"
	"github.com/watchhubtv/watchhub/internal/pkg/env"
	"github.com/watchhubtv/watchhub/internal/pkg/jobqueue"
	"github.com/watchhubtv/watchhub/internal/pkg/omdb"
	"github.com/watchhubtv/watchhub/internal/pkg/paypal"
	"github.com/watchhubtv/watchhub/internal/pkg/router"
	"github.com/watchhubtv/watchhub/internal/pkg/subscriptions"
	"github.com/watchhubtv/watchhub/internal/pkg/token"
)

func main() {
	app := NewApplication()
	err := app.Listen(fmt.Sprintf("%s:%s", env.GetEnv("APP_HOST", "localhost"), env.GetEnv("APP_PORT", "4000")))
	log.Fatal(err)
}

func NewApplication() *fiber.App {
	env.SetupEnvFile()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("configuration error: %v", err)
	}

	database.SetupDatabase()
	cache.SetupCache()
	repository.InitializeFactory(database.GetDB())

	// Wire the subscription lifecycle service and its consumers
	store := token.NewStore()
	provider := paypal.NewClient(cfg.PayPal)
	subscriptionSvc := subscriptions.NewServiceFromDB(database.GetDB(), provider)
	controllers.SetTokenStore(store)
	controllers.SetSubscriptionService(subscriptionSvc)
	controllers.SetOMDbClient(omdb.NewClient(cfg.OMDb))
	jobqueue.SetSubscriptionService(subscriptionSvc)

	// Background reconcile and expiry jobs
	jobqueue.GetManager().Start()

	// Define possible base paths
	basePaths := []string{
		"./",        // Current directory
		"../../",    // From cmd/watchhub to project root
		"../../../", // Fallback
	}

	// Find the correct base path
	basePath := ""
	for _, path := range basePaths {
		if _, err := os.Stat(path + "public"); !os.IsNotExist(err) {
			basePath = path
			break
		}
	}

	if basePath == "" {
		panic("Could not find project root directory")
	}

	// init fiber app
	app := fiber.New(fiber.Config{
		AppName: "WatchHub API",
	})

	// recovery and logging
	app.Use(recover.New(), logger.New())

	// fiber metrics
	app.Get("/metrics", basicauth.New(basicauth.Config{
		Users: map[string]string{
			env.GetEnv("METRICS_USER", "admin"): env.GetEnv("METRICS_PASSWORD", "changeme"),
		},
	}), monitor.New())

	// SWAGGER / OPENAPI
	openAPICfg := swagger.Config{
		BasePath: "/docs/api/",
		FilePath: basePath + "public/docs/v1/openapi.yml",
		Path:     "v1",
	}
	app.Use(swagger.New(openAPICfg))

	// ROUTER
	router.InstallRouter(app, store)

	return app
}
