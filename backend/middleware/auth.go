package middleware

import (
	"log/slog"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/parallelme/parallelme/backend/handlers"
	"github.com/parallelme/parallelme/backend/utils"
)

// AuthRequired middleware ensures the request carries a valid bearer token
func AuthRequired(webApp *handlers.WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, ok := bearerToken(c.Get(fiber.HeaderAuthorization))
		if !ok {
			slog.Debug("Auth required: no bearer token", slog.String("path", c.Path()))
			return utils.SendUnauthorized(c, "Access token is required")
		}

		userID, err := webApp.Auth.ParseToken(token)
		if err != nil {
			slog.Debug("Auth required: invalid token", slog.String("error", err.Error()))
			return utils.SendAppError(c, err)
		}

		// Store user in context
		c.Locals(utils.LocalUserID, userID)
		return c.Next()
	}
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
