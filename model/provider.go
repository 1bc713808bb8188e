package model

import (
	"context"

	mcptypes "github.com/mark3labs/mcp-go/mcp"
)

// ChatMessage is one provider-agnostic history entry. The LLM capability is
// stateless across calls, so the full history (plus the tool catalog) is
// resent on every request.
//
// Role is "system", "user", "assistant" or "tool". Assistant entries that
// requested tool invocations carry ToolCalls; "tool" entries carry the
// result for the call identified by ToolCallID.
type ChatMessage struct {
	Role       string
	Content    string
	ToolCalls  []ToolCall
	ToolCallID string
	IsError    bool
}

// ToolCall is a provider-agnostic tool invocation request extracted from an
// LLM response.
type ToolCall struct {
	ID        string
	Name      string
	Arguments map[string]any
}

// Reply is the outcome of a single LLM capability call: either final text,
// or one or more tool invocation requests (the tool-use item need not be the
// first content item, so providers scan all of them).
type Reply struct {
	Text       string
	ToolCalls  []ToolCall
	StopReason string
}

// Provider abstracts LLM capability implementations (Anthropic, OpenAI,
// Ollama) using provider-agnostic types from the model layer.
//
// This interface lives in the model package (not provider) to avoid import
// cycles: provider implementations import model, and the orchestrator uses
// the interface without importing the provider package.
type Provider interface {
	// Chat sends the history plus tool catalog and returns the reply.
	Chat(ctx context.Context, messages []ChatMessage, tools []mcptypes.Tool) (*Reply, error)

	// GetModel returns the currently selected model name.
	GetModel() string

	// SetModel changes the active model.
	SetModel(model string)

	// Ping checks if the provider is reachable.
	Ping(ctx context.Context) error
}
