package main

import (
	"encoding/json"
	"os"

	"github.com/chris/taskrelay/config"
	"github.com/chris/taskrelay/internal/llm"
	"github.com/chris/taskrelay/internal/poe"
	"github.com/spf13/cobra"
)

func newToolsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "tools",
		Short: "Print the settings response the bot advertises",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(poe.SettingsResponse{Model: cfg.LLMModel, Tools: llm.TaskTools()})
		},
	}
}
