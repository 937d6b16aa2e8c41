package llm

import (
	"encoding/json"
	"testing"
)

func TestEstimateTokens(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  int
	}{
		{"empty", "", 0},
		{"short", "hi", 1},
		{"exactly four chars", "test", 1},
		{"five chars rounds up", "hello", 2},
		{"typical sentence", "The quick brown fox jumps over the lazy dog.", 11},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EstimateTokens(tt.input)
			if got != tt.want {
				t.Errorf("EstimateTokens(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestEstimateMessageTokens(t *testing.T) {
	tests := []struct {
		name string
		msg  Message
		want int
	}{
		{
			name: "simple user message",
			msg:  UserText("hello"),
			want: 4 + 2, // overhead + "hello"
		},
		{
			name: "empty message",
			msg:  Message{Role: RoleAssistant},
			want: 4, // just overhead
		},
		{
			name: "message with tool use",
			msg: Message{Role: RoleAssistant, Content: []Block{
				ToolUseBlock{ID: "tu_1", Name: "listCurrentTasks", Input: json.RawMessage(`{}`)},
			}},
			// overhead(4) + id(1) + name(4) + input(1) + framing(4)
			want: 4 + 1 + 4 + 1 + 4,
		},
		{
			name: "tool result message",
			msg: Message{Role: RoleUser, Content: []Block{
				ToolResultBlock{ToolUseID: "tu_1", Content: `{"records":[]}`},
			}},
			// overhead(4) + id(1) + content(4) + framing(2)
			want: 4 + 1 + 4 + 2,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EstimateMessageTokens(tt.msg)
			if got != tt.want {
				t.Errorf("EstimateMessageTokens() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestEstimateMessagesTokens(t *testing.T) {
	messages := []Message{UserText("hello"), AssistantText("hi there")}
	got := EstimateMessagesTokens(messages)
	// msg1: 4+2=6, msg2: 4+2=6
	want := 12
	if got != want {
		t.Errorf("EstimateMessagesTokens() = %d, want %d", got, want)
	}
}

func TestEstimateToolsTokens_TaskTools(t *testing.T) {
	got := EstimateToolsTokens(TaskTools())
	if got < 50 || got > 2000 {
		t.Errorf("EstimateToolsTokens(TaskTools()) = %d, expected between 50 and 2000", got)
	}
}
