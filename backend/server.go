// Package backend assembles the ParallelMe REST API.
package backend

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"

	"github.com/parallelme/parallelme/backend/handlers"
	"github.com/parallelme/parallelme/backend/middleware"
)

// NewApp builds the Fiber application with global middleware and routes.
func NewApp(webApp *handlers.WebApp) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "ParallelMe API",
		ServerHeader:          "ParallelMe",
		ErrorHandler:          middleware.CustomErrorHandler,
		DisableStartupMessage: !webApp.Config.Debug,
	})

	// Global middleware
	app.Use(recover.New(recover.Config{EnableStackTrace: webApp.Config.Debug}))
	app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	app.Use(middleware.SecurityHeaders())
	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))
	app.Use(middleware.CORS(webApp.Config))
	app.Use(middleware.LoggingMiddleware())

	setupRoutes(app, webApp)
	return app
}

// setupRoutes configures all application routes
func setupRoutes(app *fiber.App, webApp *handlers.WebApp) {
	app.Get("/health", handlers.HealthCheck(webApp))

	api := app.Group("/api")

	limit, window := webApp.Config.AuthRateLimit()
	auth := api.Group("/auth")
	auth.Post("/register", middleware.RateLimit(limit, window), handlers.Register(webApp))
	auth.Post("/login", middleware.RateLimit(limit, window), handlers.Login(webApp))
	auth.Get("/me", middleware.AuthRequired(webApp), handlers.Me(webApp))

	personas := api.Group("/personas", middleware.AuthRequired(webApp))
	personas.Post("/", handlers.CreatePersona(webApp))
	personas.Get("/me", handlers.GetPersona(webApp))
	personas.Put("/me", handlers.UpdatePersona(webApp))
	personas.Delete("/me", handlers.DeletePersona(webApp))

	quests := api.Group("/quests", middleware.AuthRequired(webApp))
	quests.Get("/", handlers.ListQuests(webApp))
	quests.Get("/completed", handlers.CompletedQuests(webApp))
	quests.Get("/stats", handlers.QuestStats(webApp))
	quests.Post("/unlock", handlers.UnlockQuests(webApp))
	quests.Post("/:id/start", handlers.StartQuest(webApp))
	quests.Put("/:id/complete", handlers.CompleteQuest(webApp))

	stories := api.Group("/stories", middleware.AuthRequired(webApp))
	stories.Get("/", handlers.ListStories(webApp))
	stories.Post("/quest-snippet", handlers.QuestSnippet(webApp))
	stories.Post("/batch-chapter", handlers.BatchChapter(webApp))
	stories.Post("/export", handlers.ExportJourney(webApp))

	// Global handler for unmatched routes
	app.Use(func(c *fiber.Ctx) error {
		slog.Warn("No route matched for request",
			slog.String("method", c.Method()),
			slog.String("path", c.Path()),
			slog.String("ip", c.IP()),
		)
		return handlers.NotFound()(c)
	})
}
