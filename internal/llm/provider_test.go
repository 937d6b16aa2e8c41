package llm

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestNewClient_UnknownProvider(t *testing.T) {
	_, err := NewClient(ProviderConfig{Provider: "bedrock"})
	if err == nil {
		t.Fatal("expected error for unknown provider")
	}
}

func TestNewClient_OllamaDefaults(t *testing.T) {
	c, err := NewClient(ProviderConfig{Provider: "ollama"})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	oc, ok := c.(*OpenAIClient)
	if !ok {
		t.Fatalf("expected *OpenAIClient, got %T", c)
	}
	if oc.model != DefaultOllamaModel {
		t.Errorf("model = %q, want %q", oc.model, DefaultOllamaModel)
	}
}

func TestNewClient_OllamaUsesBaseURL(t *testing.T) {
	var gotAuth, gotModel string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("path = %q, want /chat/completions", r.URL.Path)
		}
		gotAuth = r.Header.Get("Authorization")
		body, _ := io.ReadAll(r.Body)
		var req struct {
			Model string `json:"model"`
		}
		_ = json.Unmarshal(body, &req)
		gotModel = req.Model

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"c1","object":"chat.completion","created":1,"model":"llama3.1",
			"choices":[{"index":0,"finish_reason":"stop","message":{"role":"assistant","content":"hi"}}]}`))
	}))
	defer srv.Close()

	c, err := NewClient(ProviderConfig{Provider: "ollama", BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	resp, err := c.Chat(context.Background(), []Message{UserText("hello")}, nil)
	if err != nil {
		t.Fatalf("Chat: %v", err)
	}

	if gotAuth != "Bearer ollama" {
		t.Errorf("Authorization = %q, want %q", gotAuth, "Bearer ollama")
	}
	if gotModel != DefaultOllamaModel {
		t.Errorf("model = %q, want %q", gotModel, DefaultOllamaModel)
	}
	if text, _ := resp.Text(); text != "hi" {
		t.Errorf("text = %q, want %q", text, "hi")
	}
}

func TestNewClient_AnthropicAuthToken(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"msg_1","type":"message","role":"assistant","model":"m","stop_reason":"end_turn",
			"content":[{"type":"text","text":"ok"}],"usage":{"input_tokens":1,"output_tokens":1}}`))
	}))
	defer srv.Close()

	c, err := NewClient(ProviderConfig{Provider: "anthropic", AuthToken: "oauth-token", BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	if _, err := c.Chat(context.Background(), []Message{UserText("hello")}, nil); err != nil {
		t.Fatalf("Chat: %v", err)
	}
	if gotAuth != "Bearer oauth-token" {
		t.Errorf("Authorization = %q, want %q", gotAuth, "Bearer oauth-token")
	}
}
