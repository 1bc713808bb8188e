package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	mcptypes "github.com/mark3labs/mcp-go/mcp"
	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"stackchat/model"
)

// OpenAIProvider implements the Provider interface using OpenAI's official
// Go SDK.
type OpenAIProvider struct {
	client      openai.Client
	model       string
	baseURL     string
	apiKey      string
	temperature float64
}

// NewOpenAIProvider creates a new OpenAI provider instance.
// Returns an error if the API key is missing.
func NewOpenAIProvider(baseURL, apiKey, modelName string, temperature float64) (*OpenAIProvider, error) {
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}
	if apiKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}
	if modelName == "" {
		modelName = "gpt-4o-mini"
	}
	if temperature <= 0 {
		temperature = defaultTemperature
	}

	client := openai.NewClient(
		option.WithBaseURL(baseURL),
		option.WithAPIKey(apiKey),
	)

	return &OpenAIProvider{
		client:      client,
		model:       modelName,
		baseURL:     baseURL,
		apiKey:      apiKey,
		temperature: temperature,
	}, nil
}

// Chat implements Provider.Chat with a single non-streaming request.
func (p *OpenAIProvider) Chat(ctx context.Context, messages []model.ChatMessage, tools []mcptypes.Tool) (*model.Reply, error) {
	params := openai.ChatCompletionNewParams{
		Messages:    convertToOpenAIMessages(messages),
		Model:       openai.ChatModel(p.model),
		Temperature: openai.Float(p.temperature),
	}

	if len(tools) > 0 {
		params.Tools = ConvertToolsToOpenAIFormat(tools)
	}

	resp, err := p.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, categorize(err, openaiStatus(err))
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("%w: response contained no choices", ErrUnexpectedFormat)
	}

	choice := resp.Choices[0]
	reply := &model.Reply{
		Text:       choice.Message.Content,
		StopReason: string(choice.FinishReason),
	}

	for _, call := range choice.Message.ToolCalls {
		reply.ToolCalls = append(reply.ToolCalls, model.ToolCall{
			ID:        call.ID,
			Name:      call.Function.Name,
			Arguments: ParseToolArguments(call.Function.Arguments),
		})
	}

	return reply, nil
}

// GetModel implements Provider.GetModel.
func (p *OpenAIProvider) GetModel() string {
	return p.model
}

// SetModel implements Provider.SetModel.
func (p *OpenAIProvider) SetModel(modelName string) {
	p.model = modelName
}

// Ping implements Provider.Ping by attempting to list models.
func (p *OpenAIProvider) Ping(ctx context.Context) error {
	_, err := p.client.Models.List(ctx)
	if err != nil {
		return fmt.Errorf("OpenAI ping failed: %w", categorize(err, openaiStatus(err)))
	}
	return nil
}

// convertToOpenAIMessages converts history entries to OpenAI format. OpenAI
// keeps tool calls on the assistant message and pairs each "tool" entry to
// its request by tool_call_id, so no merging is needed.
func convertToOpenAIMessages(messages []model.ChatMessage) []openai.ChatCompletionMessageParamUnion {
	openaiMsgs := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages))

	for _, msg := range messages {
		switch msg.Role {
		case "system":
			openaiMsgs = append(openaiMsgs, openai.SystemMessage(msg.Content))

		case "user":
			openaiMsgs = append(openaiMsgs, openai.UserMessage(msg.Content))

		case "assistant":
			if len(msg.ToolCalls) == 0 {
				openaiMsgs = append(openaiMsgs, openai.AssistantMessage(msg.Content))
				continue
			}

			assistantMsg := openai.ChatCompletionAssistantMessageParam{
				ToolCalls: make([]openai.ChatCompletionMessageToolCallUnionParam, 0, len(msg.ToolCalls)),
			}
			if msg.Content != "" {
				assistantMsg.Content.OfString = openai.String(msg.Content)
			}
			for _, call := range msg.ToolCalls {
				argsJSON, err := json.Marshal(call.Arguments)
				if err != nil {
					argsJSON = []byte("{}")
				}
				assistantMsg.ToolCalls = append(assistantMsg.ToolCalls,
					openai.ChatCompletionMessageToolCallUnionParam{
						OfFunction: &openai.ChatCompletionMessageFunctionToolCallParam{
							ID: call.ID,
							Function: openai.ChatCompletionMessageFunctionToolCallFunctionParam{
								Name:      call.Name,
								Arguments: string(argsJSON),
							},
						},
					},
				)
			}
			openaiMsgs = append(openaiMsgs, openai.ChatCompletionMessageParamUnion{
				OfAssistant: &assistantMsg,
			})

		case "tool":
			openaiMsgs = append(openaiMsgs, openai.ToolMessage(msg.Content, msg.ToolCallID))

		default:
			openaiMsgs = append(openaiMsgs, openai.UserMessage(msg.Content))
		}
	}

	return openaiMsgs
}

// openaiStatus extracts the HTTP status code from an SDK error.
func openaiStatus(err error) int {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}
