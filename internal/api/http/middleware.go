package httpapi

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// RequestLogger assigns each request a uuid id, exposes it as
// X-Request-Id, and logs the request outcome through zerolog.
func RequestLogger(log zerolog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		requestID := uuid.NewString()
		c.Set("X-Request-Id", requestID)

		start := time.Now()
		err := c.Next()
		if err != nil {
			// Render the error here so the logged status matches the response.
			if handleErr := c.App().ErrorHandler(c, err); handleErr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
			err = nil
		}

		log.Info().
			Str("request_id", requestID).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", c.Response().StatusCode()).
			Dur("duration", time.Since(start)).
			Msg("request completed")

		return err
	}
}
