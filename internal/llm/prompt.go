package llm

import (
	"fmt"
	"os"
	"strings"
)

// DefaultSystemPrompt is used when no prompt file is configured. Deployments
// are expected to supply their own instruction through SYSTEM_PROMPT_FILE.
const DefaultSystemPrompt = `You are a friendly, gentle task assistant backed by an Airtable base.

Tasks live in the "GPT master list" table; use the "Current tasks only" view.
Daily mood, energy, availability and events live in the "Daily Context" table.

Guidelines:
- Before answering about tasks, call list_current_tasks. Never use stale data.
- When the user wants to change an existing task, reuse a Record ID from the conversation if there is one; otherwise call get_task_by_name first, then update_task. Never create a duplicate task.
- Only include fields you have new values for when updating. Field names are case-sensitive and must match Airtable exactly.
- Log mood, energy, availability or events with createDailyContext, with "Entry Timestamp" in UTC ISO 8601.
- Keep replies short and encouraging.`

// LoadSystemPrompt reads the instruction from path, or returns the default
// when path is empty.
func LoadSystemPrompt(path string) (string, error) {
	if path == "" {
		return DefaultSystemPrompt, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading system prompt: %w", err)
	}
	prompt := strings.TrimSpace(string(b))
	if prompt == "" {
		return "", fmt.Errorf("system prompt file %s is empty", path)
	}
	return prompt, nil
}
