package main

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"salescast/config"
	"salescast/database"
	"salescast/handlers"
	"salescast/insight"
	"salescast/middleware"
	"salescast/routes"
)

// newServer builds the Fiber app with middleware and routes.
func newServer(cfg *config.Config, store database.FileStore, summarizer insight.Summarizer) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "salescast",
		BodyLimit:    (cfg.MaxUploadMB + 1) << 20,
		ErrorHandler: errorHandler,
	})

	metrics := middleware.NewMetrics()

	app.Use(recover.New())
	app.Use(cors.New())
	app.Use(middleware.RequestLogger())
	app.Use(metrics.Handler())

	h := handlers.New(store, cfg, summarizer, metrics)
	routes.SetupRoutes(app, h, []byte(cfg.JWTSecret), metrics)

	return app
}

func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal server error"

	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		message = fe.Message
	}
	return c.Status(code).JSON(fiber.Map{"success": false, "message": message})
}
