package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

var ErrMissingSecret = errors.New("missing required secret")

type Config struct {
	Port string

	LLMProvider    string // anthropic, openai, ollama
	AnthropicKey   string
	AnthropicToken string // OAuth token, used instead of AnthropicKey
	OpenAIKey      string
	OllamaBaseURL  string
	LLMModel       string
	MaxTokens      int

	AirtableKey     string
	AirtableBaseID  string
	AirtableBaseURL string

	PoeServerKey string

	MaxToolRounds    int
	HTTPTimeout      time.Duration
	QueryTimeout     time.Duration
	SystemPromptFile string
}

func Load() (*Config, error) {
	_ = godotenv.Load() // ignore error if no .env

	maxTokens, err := envInt("LLM_MAX_TOKENS", 1024)
	if err != nil {
		return nil, err
	}
	maxRounds, err := envInt("MAX_TOOL_ROUNDS", 6)
	if err != nil {
		return nil, err
	}
	httpTimeout, err := envDuration("HTTP_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, err
	}
	queryTimeout, err := envDuration("QUERY_TIMEOUT", 2*time.Minute)
	if err != nil {
		return nil, err
	}

	provider := envOr("LLM_PROVIDER", "anthropic")
	defaultModel := "claude-3-5-haiku-20241022"
	switch provider {
	case "openai":
		defaultModel = "gpt-4o"
	case "ollama":
		defaultModel = "llama3.1"
	}

	return &Config{
		Port:             envOr("PORT", "8080"),
		LLMProvider:      provider,
		AnthropicKey:     os.Getenv("ANTHROPIC_API_KEY"),
		AnthropicToken:   os.Getenv("ANTHROPIC_AUTH_TOKEN"),
		OpenAIKey:        os.Getenv("OPENAI_API_KEY"),
		OllamaBaseURL:    envOr("OLLAMA_BASE_URL", "http://localhost:11434/v1"),
		LLMModel:         envOr("LLM_MODEL", defaultModel),
		MaxTokens:        maxTokens,
		AirtableKey:      os.Getenv("AIRTABLE_API_KEY"),
		AirtableBaseID:   envOr("AIRTABLE_BASE_ID", "appP1dhBLhPtqoapz"),
		AirtableBaseURL:  envOr("AIRTABLE_API_URL", "https://api.airtable.com"),
		PoeServerKey:     os.Getenv("POE_SERVER_KEY"),
		MaxToolRounds:    maxRounds,
		HTTPTimeout:      httpTimeout,
		QueryTimeout:     queryTimeout,
		SystemPromptFile: os.Getenv("SYSTEM_PROMPT_FILE"),
	}, nil
}

// Validate reports the first missing secret or out-of-range setting.
func (c *Config) Validate() error {
	switch c.LLMProvider {
	case "anthropic":
		if c.AnthropicKey == "" && c.AnthropicToken == "" {
			return fmt.Errorf("%w: ANTHROPIC_API_KEY or ANTHROPIC_AUTH_TOKEN", ErrMissingSecret)
		}
	case "openai":
		if c.OpenAIKey == "" {
			return fmt.Errorf("%w: OPENAI_API_KEY", ErrMissingSecret)
		}
	case "ollama":
		// local server, no key
	default:
		return fmt.Errorf("unknown LLM provider: %s", c.LLMProvider)
	}
	if c.AirtableKey == "" {
		return fmt.Errorf("%w: AIRTABLE_API_KEY", ErrMissingSecret)
	}
	if c.PoeServerKey == "" {
		return fmt.Errorf("%w: POE_SERVER_KEY", ErrMissingSecret)
	}
	if c.MaxToolRounds < 1 {
		return fmt.Errorf("MAX_TOOL_ROUNDS must be at least 1, got %d", c.MaxToolRounds)
	}
	if c.MaxTokens < 1 {
		return fmt.Errorf("LLM_MAX_TOKENS must be at least 1, got %d", c.MaxTokens)
	}
	return nil
}

// APIKey returns the key for the configured LLM provider.
func (c *Config) APIKey() string {
	switch c.LLMProvider {
	case "openai":
		return c.OpenAIKey
	case "ollama":
		return "ollama"
	}
	return c.AnthropicKey
}

// LLMBaseURL returns the endpoint override for the configured provider, if any.
func (c *Config) LLMBaseURL() string {
	if c.LLMProvider == "ollama" {
		return c.OllamaBaseURL
	}
	return ""
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("parsing %s: %w", key, err)
	}
	return n, nil
}

func envDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("parsing %s: %w", key, err)
	}
	return d, nil
}
