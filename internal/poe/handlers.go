package poe

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/chris/taskrelay/internal/agent"
	"github.com/chris/taskrelay/internal/llm"
	"github.com/gofiber/fiber/v3"
)

// Runner answers a conversation. *agent.Agent is the production implementation.
type Runner interface {
	Run(ctx context.Context, turns []agent.Turn) (string, error)
}

type Handler struct {
	runner       Runner
	settings     SettingsResponse
	queryTimeout time.Duration
}

func NewHandler(runner Runner, model string, tools []llm.Tool, queryTimeout time.Duration) *Handler {
	return &Handler{
		runner:       runner,
		settings:     SettingsResponse{Model: model, Tools: tools},
		queryTimeout: queryTimeout,
	}
}

func (h *Handler) Health(c fiber.Ctx) error {
	return c.JSON(StatusResponse{Status: "healthy"})
}

// Bot routes an authenticated webhook call by its type.
func (h *Handler) Bot(c fiber.Ctx) error {
	logger := requestLogger(c)

	var env envelope
	if err := json.Unmarshal(c.Body(), &env); err != nil {
		logger.Warn().Err(err).Msg("Malformed request body")
		return badRequest(c, "Invalid request body")
	}
	if env.Type == "" {
		return badRequest(c, "Request type is required")
	}

	logger.Info().Str("type", env.Type).Int("bytes", len(c.Body())).Msg("Received request")

	switch env.Type {
	case TypeSettings:
		return c.JSON(h.settings)

	case TypeQuery:
		var req QueryRequest
		if err := json.Unmarshal(c.Body(), &req); err != nil {
			logger.Warn().Err(err).Msg("Malformed query body")
			return badRequest(c, "Invalid query body")
		}
		if len(req.Query) == 0 {
			return badRequest(c, "Query must contain at least one message")
		}
		return h.query(c, req)

	case TypeReportError:
		var req ReportErrorRequest
		if err := json.Unmarshal(c.Body(), &req); err != nil {
			return badRequest(c, "Invalid report_error body")
		}
		msg := req.Message
		if msg == "" {
			msg = "No message"
		}
		logger.Warn().Str("message", msg).RawJSON("metadata", rawOrNull(req.Metadata)).Msg("Received error report")
		return c.JSON(StatusResponse{Status: "acknowledged"})

	default:
		return c.JSON(StatusResponse{Status: "unknown_request_type"})
	}
}

// query runs the agent to completion before writing anything, so a failure
// never follows partial text.
func (h *Handler) query(c fiber.Ctx, req QueryRequest) error {
	logger := requestLogger(c)

	ctx := logger.WithContext(c.RequestCtx())
	if h.queryTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.queryTimeout)
		defer cancel()
	}

	start := time.Now()
	text, err := h.run(ctx, req.Turns())
	if err != nil {
		logger.Error().Err(err).Dur("elapsed", time.Since(start)).Msg("Error during query handling")
	} else {
		logger.Info().Int("chars", len(text)).Dur("elapsed", time.Since(start)).Msg("Sending response")
	}

	c.Set(fiber.HeaderContentType, MediaTypeEventStream)
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set(fiber.HeaderConnection, "keep-alive")
	return c.Status(fiber.StatusOK).Send(Format(text, err))
}

func (h *Handler) run(ctx context.Context, turns []agent.Turn) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic in query handling: %v", r)
		}
	}()
	return h.runner.Run(ctx, turns)
}

func badRequest(c fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: msg})
}

func rawOrNull(b json.RawMessage) []byte {
	if len(b) == 0 {
		return []byte("null")
	}
	return b
}
