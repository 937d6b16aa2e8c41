package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"unicode/utf8"

	"github.com/chris/taskrelay/internal/llm"
	"github.com/rs/zerolog"
)

const (
	DefaultMaxToolRounds = 6

	NoTextFallback    = "Sorry, I didn't get a final response from the model."
	MaxRoundsFallback = "I hit the maximum number of tool calls before finishing. Please try again."
)

// ToolDispatcher executes a single tool call.
type ToolDispatcher interface {
	Dispatch(ctx context.Context, name string, input json.RawMessage) (json.RawMessage, error)
}

type Options struct {
	Instruction   string
	Tools         []llm.Tool
	MaxToolRounds int
}

type Agent struct {
	client      llm.Client
	dispatcher  ToolDispatcher
	instruction string
	tools       []llm.Tool
	maxRounds   int
}

func New(client llm.Client, dispatcher ToolDispatcher, opts Options) *Agent {
	if opts.MaxToolRounds <= 0 {
		opts.MaxToolRounds = DefaultMaxToolRounds
	}
	if opts.Tools == nil {
		opts.Tools = llm.TaskTools()
	}
	return &Agent{
		client:      client,
		dispatcher:  dispatcher,
		instruction: opts.Instruction,
		tools:       opts.Tools,
		maxRounds:   opts.MaxToolRounds,
	}
}

// Run bridges the platform history, runs the tool-calling loop, and returns
// the final text. Tool failures are fed back to the model; only model
// failures are returned as errors.
func (a *Agent) Run(ctx context.Context, turns []Turn) (string, error) {
	logger := zerolog.Ctx(ctx)
	messages := ToModelMessages(a.instruction, turns)
	toolTokens := llm.EstimateToolsTokens(a.tools)

	for round := 0; ; round++ {
		logger.Debug().
			Int("round", round).
			Int("messages", len(messages)).
			Int("est_tokens", llm.EstimateMessagesTokens(messages)+toolTokens).
			Msg("calling model")

		resp, err := a.client.Chat(ctx, messages, a.tools)
		if err != nil {
			return "", fmt.Errorf("llm chat: %w", err)
		}

		uses := resp.ToolUses()
		logger.Debug().
			Int("round", round).
			Str("stop_reason", string(resp.StopReason)).
			Int("tool_calls", len(uses)).
			Msg("model responded")

		// No tool calls, so this is the final answer
		if resp.StopReason != llm.StopToolUse || len(uses) == 0 {
			if text, ok := resp.Text(); ok {
				return text, nil
			}
			logger.Warn().Str("stop_reason", string(resp.StopReason)).Msg("model response had no text")
			return NoTextFallback, nil
		}

		if round >= a.maxRounds {
			logger.Warn().Int("max_rounds", a.maxRounds).Msg("tool round limit reached")
			return MaxRoundsFallback, nil
		}

		// Execute each tool call in order; results go back as one user turn.
		results := make([]llm.Block, 0, len(uses))
		for _, tu := range uses {
			results = append(results, a.executeTool(ctx, tu))
		}

		messages = append(messages,
			resp.Message(),
			llm.Message{Role: llm.RoleUser, Content: results},
		)
	}
}

func (a *Agent) executeTool(ctx context.Context, tu llm.ToolUseBlock) llm.ToolResultBlock {
	logger := zerolog.Ctx(ctx)

	out, err := a.dispatcher.Dispatch(ctx, tu.Name, tu.Input)
	if err != nil {
		logger.Error().Err(err).Str("tool", tu.Name).Msg("tool failed")
		b, _ := json.Marshal(map[string]string{"error": err.Error()}) // string map; marshal cannot fail
		return llm.ToolResultBlock{ToolUseID: tu.ID, Content: string(b), IsError: true}
	}

	logger.Info().Str("tool", tu.Name).Str("result", truncate(string(out), 200)).Msg("tool executed")
	return llm.ToolResultBlock{ToolUseID: tu.ID, Content: string(out)}
}

// truncate cuts s to at most n bytes without splitting a rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n] + "..."
}
