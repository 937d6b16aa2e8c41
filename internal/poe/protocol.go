// Package poe serves the bot webhook: settings discovery, queries answered as
// server-sent events, and error reports.
package poe

import (
	"encoding/json"

	"github.com/chris/taskrelay/internal/agent"
	"github.com/chris/taskrelay/internal/llm"
)

const (
	TypeQuery       = "query"
	TypeSettings    = "settings"
	TypeReportError = "report_error"
)

// envelope is decoded first so that only the fields a request type needs are
// validated.
type envelope struct {
	Type string `json:"type"`
}

type ProtocolMessage struct {
	Role        string `json:"role"`
	Content     string `json:"content"`
	ContentType string `json:"content_type,omitempty"`
	MessageID   string `json:"message_id,omitempty"`
}

type QueryRequest struct {
	Version        string            `json:"version,omitempty"`
	Type           string            `json:"type"`
	Query          []ProtocolMessage `json:"query"`
	UserID         string            `json:"user_id,omitempty"`
	ConversationID string            `json:"conversation_id,omitempty"`
	MessageID      string            `json:"message_id,omitempty"`
}

// Turns converts the query history for the agent, order preserved.
func (r QueryRequest) Turns() []agent.Turn {
	turns := make([]agent.Turn, len(r.Query))
	for i, m := range r.Query {
		turns[i] = agent.Turn{Role: m.Role, Content: m.Content}
	}
	return turns
}

type ReportErrorRequest struct {
	Version  string          `json:"version,omitempty"`
	Type     string          `json:"type"`
	Message  string          `json:"message"`
	Metadata json.RawMessage `json:"metadata,omitempty"`
}

type SettingsResponse struct {
	Model string     `json:"model"`
	Tools []llm.Tool `json:"tools"`
}

type StatusResponse struct {
	Status string `json:"status"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
