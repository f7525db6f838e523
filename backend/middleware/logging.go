package middleware

import (
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/parallelme/parallelme/backend/utils"
	"github.com/parallelme/parallelme/parallelme/logger"
)

// LoggingMiddleware logs HTTP requests in a structured format
func LoggingMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			// The error handler has not run yet; report what it will send.
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status, _ = utils.StatusOf(err)
			}
		}

		attrs := []any{
			slog.String("request_id", utils.RequestID(c)),
			slog.String("ip", utils.GetIPAddress(c)),
			slog.Int("size", len(c.Response().Body())),
		}
		if userID, ok := utils.UserID(c); ok {
			attrs = append(attrs, slog.String("user_id", userID.Hex()))
		}
		if err != nil {
			attrs = append(attrs, slog.String("error", err.Error()))
		}

		logger.LogRequest(c.Method(), c.Path(), status, time.Since(start), attrs...)
		return err
	}
}
