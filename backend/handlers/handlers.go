package handlers

import (
	"context"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/parallelme/parallelme/backend/config"
	webmodels "github.com/parallelme/parallelme/backend/models"
	"github.com/parallelme/parallelme/backend/utils"
	"github.com/parallelme/parallelme/parallelme/services"
)

// Pinger reports store connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// WebApp represents the web application with all dependencies
type WebApp struct {
	Config   *config.WebAppConfig
	DB       Pinger
	Auth     *services.AuthService
	Personas *services.PersonaService
	Quests   *services.QuestService
	Stories  *services.StoryService
	Version  string
	Commit   string
}

func HealthCheck(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		health := webmodels.NewHealthCheck(webApp.Version, webApp.Commit)

		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		if err := webApp.DB.Ping(ctx); err != nil {
			slog.Warn("Health check: database unreachable", slog.String("error", err.Error()))
			health.AddComponent("database", "unhealthy", "unreachable")
		} else {
			health.AddComponent("database", "healthy", "")
		}

		if health.Status != "healthy" {
			return utils.SendJSON(c, fiber.StatusServiceUnavailable, &webmodels.APIResponse{
				Success:   false,
				Message:   "Service unhealthy",
				Data:      health,
				Timestamp: time.Now(),
			})
		}
		return utils.SendSuccess(c, health, "Health check successful")
	}
}

// NotFound handles unmatched routes
func NotFound() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return utils.SendNotFound(c, "Route "+c.Method()+" "+c.Path()+" not found")
	}
}

// withUser runs fn with the authenticated user. Routes using it sit behind
// the auth middleware, so a missing user is a wiring error reported as 401.
func withUser(fn func(c *fiber.Ctx, userID primitive.ObjectID) error) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok := utils.UserID(c)
		if !ok {
			return utils.SendUnauthorized(c, "Authentication required")
		}
		return fn(c, userID)
	}
}
