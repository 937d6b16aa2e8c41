package llm

import (
	"context"
	"encoding/json"
)

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// StopReason is the model's signal for why it stopped generating.
type StopReason string

const (
	StopEndTurn      StopReason = "end_turn"
	StopToolUse      StopReason = "tool_use"
	StopMaxTokens    StopReason = "max_tokens"
	StopStopSequence StopReason = "stop_sequence"
)

type Message struct {
	Role    Role
	Content []Block
}

// Block is one content block of a message. The set of implementations is
// closed: TextBlock, ToolUseBlock and ToolResultBlock.
type Block interface {
	isBlock()
}

type TextBlock struct {
	Text string
}

type ToolUseBlock struct {
	ID    string
	Name  string
	Input json.RawMessage
}

type ToolResultBlock struct {
	ToolUseID string
	Content   string
	IsError   bool
}

func (TextBlock) isBlock()       {}
func (ToolUseBlock) isBlock()    {}
func (ToolResultBlock) isBlock() {}

// UserText builds a single-block user message.
func UserText(text string) Message {
	return Message{Role: RoleUser, Content: []Block{TextBlock{Text: text}}}
}

// AssistantText builds a single-block assistant message.
func AssistantText(text string) Message {
	return Message{Role: RoleAssistant, Content: []Block{TextBlock{Text: text}}}
}

type Response struct {
	StopReason StopReason
	Content    []Block
}

// ToolUses returns the tool-use blocks of the response in order.
func (r *Response) ToolUses() []ToolUseBlock {
	var uses []ToolUseBlock
	for _, b := range r.Content {
		if tu, ok := b.(ToolUseBlock); ok {
			uses = append(uses, tu)
		}
	}
	return uses
}

// Text returns the first non-empty text block.
func (r *Response) Text() (string, bool) {
	for _, b := range r.Content {
		if tb, ok := b.(TextBlock); ok && tb.Text != "" {
			return tb.Text, true
		}
	}
	return "", false
}

// Message converts the response into an assistant turn, blocks unchanged.
func (r *Response) Message() Message {
	content := make([]Block, len(r.Content))
	copy(content, r.Content)
	return Message{Role: RoleAssistant, Content: content}
}

type Tool struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	InputSchema map[string]any `json:"input_schema"`
}

type Client interface {
	Chat(ctx context.Context, messages []Message, tools []Tool) (*Response, error)
}
