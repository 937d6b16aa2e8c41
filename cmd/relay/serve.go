package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/chris/taskrelay/config"
	"github.com/chris/taskrelay/internal/agent"
	"github.com/chris/taskrelay/internal/airtable"
	"github.com/chris/taskrelay/internal/llm"
	"github.com/chris/taskrelay/internal/poe"
	"github.com/gofiber/fiber/v3"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the bot webhook (default)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe()
		},
	}
}

func runServe() error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	instruction, err := llm.LoadSystemPrompt(cfg.SystemPromptFile)
	if err != nil {
		return err
	}

	client, err := llm.NewClient(llm.ProviderConfig{
		Provider:  cfg.LLMProvider,
		APIKey:    cfg.APIKey(),
		AuthToken: cfg.AnthropicToken,
		BaseURL:   cfg.LLMBaseURL(),
		Model:     cfg.LLMModel,
		MaxTokens: cfg.MaxTokens,
		Timeout:   cfg.HTTPTimeout,
	})
	if err != nil {
		return fmt.Errorf("creating LLM client: %w", err)
	}

	store := airtable.NewClient(airtable.Config{
		APIKey:  cfg.AirtableKey,
		BaseID:  cfg.AirtableBaseID,
		BaseURL: cfg.AirtableBaseURL,
		Timeout: cfg.HTTPTimeout,
	})

	tools := llm.TaskTools()
	ag := agent.New(client, agent.NewDispatcher(store), agent.Options{
		Instruction:   instruction,
		Tools:         tools,
		MaxToolRounds: cfg.MaxToolRounds,
	})

	server := poe.NewHTTPServer(poe.HTTPServerDependencies{
		Runner:       ag,
		Model:        cfg.LLMModel,
		Tools:        tools,
		AccessKey:    cfg.PoeServerKey,
		QueryTimeout: cfg.QueryTimeout,
	})

	log.Info().
		Str("port", cfg.Port).
		Str("provider", cfg.LLMProvider).
		Str("model", cfg.LLMModel).
		Str("airtable_base", cfg.AirtableBaseID).
		Int("max_tool_rounds", cfg.MaxToolRounds).
		Msg("Starting relay")

	if err := server.Listen(":"+cfg.Port, fiber.ListenConfig{
		GracefulContext:       ctx,
		DisableStartupMessage: true,
	}); err != nil {
		log.Error().Err(err).Msg("HTTP server failed")
		return err
	}

	log.Info().Msg("Relay stopped")
	return nil
}
