package provider

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/google/uuid"
	mcptypes "github.com/mark3labs/mcp-go/mcp"
	"github.com/ollama/ollama/api"

	"stackchat/model"
)

// OllamaProvider implements the Provider interface against a local or remote
// Ollama server. No API key is needed.
type OllamaProvider struct {
	client      *api.Client
	model       string
	baseURL     string
	temperature float64
}

// NewOllamaProvider creates a new Ollama provider instance.
// baseURL defaults to "http://localhost:11434" when empty.
func NewOllamaProvider(baseURL, modelName string, temperature float64) (*OllamaProvider, error) {
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}
	if modelName == "" {
		modelName = "llama3.1:latest"
	}
	if temperature <= 0 {
		temperature = defaultTemperature
	}

	parsedURL, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid Ollama URL %q: %w", baseURL, err)
	}

	return &OllamaProvider{
		client:      api.NewClient(parsedURL, http.DefaultClient),
		model:       modelName,
		baseURL:     baseURL,
		temperature: temperature,
	}, nil
}

// Chat implements Provider.Chat with a single non-streaming request.
//
// Ollama tool calls carry no IDs, so IDs are synthesized here to keep the
// request/result pairing the orchestrator relies on.
func (p *OllamaProvider) Chat(ctx context.Context, messages []model.ChatMessage, tools []mcptypes.Tool) (*model.Reply, error) {
	stream := false
	req := &api.ChatRequest{
		Model:    p.model,
		Messages: convertToOllamaMessages(messages),
		Stream:   &stream,
		Options:  map[string]any{"temperature": p.temperature},
	}

	if len(tools) > 0 {
		req.Tools = ConvertToolsToOllama(tools)
	}

	var reply model.Reply
	err := p.client.Chat(ctx, req, func(resp api.ChatResponse) error {
		reply.Text += resp.Message.Content
		if resp.DoneReason != "" {
			reply.StopReason = resp.DoneReason
		}
		for _, call := range resp.Message.ToolCalls {
			reply.ToolCalls = append(reply.ToolCalls, model.ToolCall{
				ID:        "call_" + uuid.New().String(),
				Name:      call.Function.Name,
				Arguments: call.Function.Arguments,
			})
		}
		return nil
	})
	if err != nil {
		return nil, categorize(err, 0)
	}

	return &reply, nil
}

// GetModel implements Provider.GetModel.
func (p *OllamaProvider) GetModel() string {
	return p.model
}

// SetModel implements Provider.SetModel.
func (p *OllamaProvider) SetModel(modelName string) {
	p.model = modelName
}

// Ping implements Provider.Ping with a lightweight list call.
func (p *OllamaProvider) Ping(ctx context.Context) error {
	if _, err := p.client.List(ctx); err != nil {
		return fmt.Errorf("Ollama server not reachable at %s: %w", p.baseURL, err)
	}
	return nil
}

// convertToOllamaMessages converts history entries to Ollama format. Ollama
// pairs tool results positionally rather than by ID, so result entries keep
// their order and drop the synthesized call ID.
func convertToOllamaMessages(messages []model.ChatMessage) []api.Message {
	ollamaMsgs := make([]api.Message, 0, len(messages))

	for _, msg := range messages {
		switch msg.Role {
		case "assistant":
			apiMsg := api.Message{Role: "assistant", Content: msg.Content}
			for _, call := range msg.ToolCalls {
				apiMsg.ToolCalls = append(apiMsg.ToolCalls, api.ToolCall{
					Function: api.ToolCallFunction{
						Name:      call.Name,
						Arguments: call.Arguments,
					},
				})
			}
			ollamaMsgs = append(ollamaMsgs, apiMsg)

		case "tool":
			ollamaMsgs = append(ollamaMsgs, api.Message{
				Role:    "tool",
				Content: msg.Content,
			})

		default:
			// system and user map directly
			ollamaMsgs = append(ollamaMsgs, api.Message{
				Role:    msg.Role,
				Content: msg.Content,
			})
		}
	}

	return ollamaMsgs
}
