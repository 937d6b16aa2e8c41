package llm

import "encoding/json"

// charsPerToken is a rough English-text average; real tokenizers vary.
const charsPerToken = 4

// EstimateTokens returns a rough token count for a string.
func EstimateTokens(s string) int {
	if len(s) == 0 {
		return 0
	}
	return (len(s) + charsPerToken - 1) / charsPerToken // round up
}

// EstimateMessageTokens returns the estimated token count for a single
// message, including per-message and per-block framing.
func EstimateMessageTokens(m Message) int {
	tokens := 4 // role tokens, delimiters
	for _, b := range m.Content {
		switch b := b.(type) {
		case TextBlock:
			tokens += EstimateTokens(b.Text)
		case ToolUseBlock:
			tokens += EstimateTokens(b.ID) + EstimateTokens(b.Name) + EstimateTokens(string(b.Input)) + 4
		case ToolResultBlock:
			tokens += EstimateTokens(b.ToolUseID) + EstimateTokens(b.Content) + 2
		}
	}
	return tokens
}

// EstimateMessagesTokens returns the total estimated tokens for a slice of messages.
func EstimateMessagesTokens(messages []Message) int {
	total := 0
	for _, m := range messages {
		total += EstimateMessageTokens(m)
	}
	return total
}

// EstimateToolsTokens returns the estimated tokens for tool definitions,
// which are sent as JSON with every request.
func EstimateToolsTokens(tools []Tool) int {
	total := 0
	for _, t := range tools {
		total += EstimateTokens(t.Name)
		total += EstimateTokens(t.Description)
		if schema, err := json.Marshal(t.InputSchema); err == nil {
			total += EstimateTokens(string(schema))
		}
		total += 10 // per-tool framing
	}
	return total
}
