package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/packages/param"
)

type OpenAIClient struct {
	client    openai.Client
	model     string
	maxTokens int64
}

func NewOpenAIClient(cfg ProviderConfig, extra ...option.RequestOption) *OpenAIClient {
	var opts []option.RequestOption
	if cfg.APIKey != "" {
		opts = append(opts, option.WithAPIKey(cfg.APIKey))
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	if cfg.Timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(cfg.Timeout))
	}
	opts = append(opts, extra...)

	model := cfg.Model
	if model == "" {
		model = string(openai.ChatModelGPT4o)
	}
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}
	return &OpenAIClient{client: openai.NewClient(opts...), model: model, maxTokens: int64(maxTokens)}
}

func (c *OpenAIClient) Chat(ctx context.Context, messages []Message, tools []Tool) (*Response, error) {
	oaiTools := make([]openai.ChatCompletionToolUnionParam, len(tools))
	for i, t := range tools {
		oaiTools[i] = openai.ChatCompletionFunctionTool(openai.FunctionDefinitionParam{
			Name:        t.Name,
			Description: openai.String(t.Description),
			Parameters:  openai.FunctionParameters(t.InputSchema),
		})
	}

	oaiMsgs, err := toOpenAIMessages(messages)
	if err != nil {
		return nil, err
	}

	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:               openai.ChatModel(c.model),
		Messages:            oaiMsgs,
		Tools:               oaiTools,
		MaxCompletionTokens: openai.Int(c.maxTokens),
	})
	if err != nil {
		return nil, fmt.Errorf("openai chat: %w", err)
	}

	if len(resp.Choices) == 0 {
		return &Response{StopReason: StopEndTurn}, nil
	}

	choice := resp.Choices[0]
	result := &Response{StopReason: openAIStopReason(string(choice.FinishReason))}
	if choice.Message.Content != "" {
		result.Content = append(result.Content, TextBlock{Text: choice.Message.Content})
	}

	for _, tc := range choice.Message.ToolCalls {
		ftc := tc.AsFunction()
		args := ftc.Function.Arguments
		if strings.TrimSpace(args) == "" {
			args = "{}"
		}
		result.Content = append(result.Content, ToolUseBlock{
			ID:    ftc.ID,
			Name:  ftc.Function.Name,
			Input: json.RawMessage(args),
		})
	}

	return result, nil
}

// toOpenAIMessages flattens block messages into chat completion messages.
// Tool results become one tool message each, in order.
func toOpenAIMessages(messages []Message) ([]openai.ChatCompletionMessageParamUnion, error) {
	var out []openai.ChatCompletionMessageParamUnion
	for i, m := range messages {
		var texts []string
		var toolCalls []openai.ChatCompletionMessageToolCallUnionParam

		for _, b := range m.Content {
			switch b := b.(type) {
			case TextBlock:
				texts = append(texts, b.Text)
			case ToolUseBlock:
				if m.Role != RoleAssistant {
					return nil, fmt.Errorf("message %d: tool use outside an assistant turn", i)
				}
				toolCalls = append(toolCalls, openai.ChatCompletionMessageToolCallUnionParam{
					OfFunction: &openai.ChatCompletionMessageFunctionToolCallParam{
						ID: b.ID,
						Function: openai.ChatCompletionMessageFunctionToolCallFunctionParam{
							Name:      b.Name,
							Arguments: string(b.Input),
						},
					},
				})
			case ToolResultBlock:
				out = append(out, openai.ToolMessage(b.Content, b.ToolUseID))
			default:
				return nil, fmt.Errorf("message %d: unsupported content block %T", i, b)
			}
		}

		text := strings.Join(texts, "\n\n")
		switch m.Role {
		case RoleUser:
			if len(texts) > 0 {
				out = append(out, openai.UserMessage(text))
			}
		case RoleAssistant:
			if len(toolCalls) > 0 {
				out = append(out, openai.ChatCompletionMessageParamUnion{
					OfAssistant: &openai.ChatCompletionAssistantMessageParam{
						Content: openai.ChatCompletionAssistantMessageParamContentUnion{
							OfString: param.NewOpt(text),
						},
						ToolCalls: toolCalls,
					},
				})
			} else {
				out = append(out, openai.AssistantMessage(text))
			}
		default:
			return nil, fmt.Errorf("message %d: unsupported role %q", i, m.Role)
		}
	}
	return out, nil
}

func openAIStopReason(finish string) StopReason {
	switch finish {
	case "tool_calls":
		return StopToolUse
	case "length":
		return StopMaxTokens
	default:
		return StopEndTurn
	}
}
