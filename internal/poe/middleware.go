package poe

import (
	"crypto/subtle"
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type localsKey int

const requestIDKey localsKey = iota

// RequestID tags every request with an id, reusing an inbound X-Request-ID.
func RequestID() fiber.Handler {
	return func(c fiber.Ctx) error {
		id := c.Get(fiber.HeaderXRequestID)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(fiber.HeaderXRequestID, id)
		c.Locals(requestIDKey, id)
		return c.Next()
	}
}

// BearerAuth rejects requests whose Authorization header does not carry the
// shared secret as a bearer token.
func BearerAuth(secret string) fiber.Handler {
	return func(c fiber.Ctx) error {
		scheme, token, ok := strings.Cut(strings.TrimSpace(c.Get(fiber.HeaderAuthorization)), " ")
		token = strings.TrimSpace(token)
		if !ok || !strings.EqualFold(scheme, "Bearer") || secret == "" ||
			subtle.ConstantTimeCompare([]byte(token), []byte(secret)) != 1 {
			logger := requestLogger(c)
			logger.Error().
				Str("path", c.Path()).
				Str("method", c.Method()).
				Msg("Unauthorized request")
			return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{Error: "Unauthorized"})
		}
		return c.Next()
	}
}

func requestLogger(c fiber.Ctx) *zerolog.Logger {
	id, _ := c.Locals(requestIDKey).(string)
	logger := log.With().Str("request_id", id).Logger()
	return &logger
}
