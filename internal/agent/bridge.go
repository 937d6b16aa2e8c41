package agent

import "github.com/chris/taskrelay/internal/llm"

// Turn is one platform message as received on the webhook.
type Turn struct {
	Role    string
	Content string
}

// ToModelMessages converts platform history into model turns. The
// instruction always becomes the first (user) turn; roles other than user,
// assistant and bot are dropped. History is neither deduplicated nor
// truncated.
func ToModelMessages(instruction string, turns []Turn) []llm.Message {
	messages := make([]llm.Message, 0, len(turns)+1)
	messages = append(messages, llm.UserText(instruction))
	for _, t := range turns {
		switch t.Role {
		case "user":
			messages = append(messages, llm.UserText(t.Content))
		case "assistant", "bot":
			messages = append(messages, llm.AssistantText(t.Content))
		}
	}
	return messages
}
