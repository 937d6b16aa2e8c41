package poe

import (
	"time"

	"github.com/chris/taskrelay/internal/llm"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/logger"
)

type HTTPServerDependencies struct {
	Runner       Runner
	Model        string
	Tools        []llm.Tool
	AccessKey    string
	QueryTimeout time.Duration
}

func NewHTTPServer(deps HTTPServerDependencies) *fiber.App {
	router := fiber.New(fiber.Config{
		AppName: "taskrelay",
	})

	router.Use(RequestID())
	router.Use(logger.New())

	h := NewHandler(deps.Runner, deps.Model, deps.Tools, deps.QueryTimeout)

	// Health check endpoint (no authentication required)
	router.Get("/", h.Health)
	router.Post("/", BearerAuth(deps.AccessKey), h.Bot)

	return router
}
