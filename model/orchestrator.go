package model

import (
	"context"
	"errors"
	"fmt"

	mcptypes "github.com/mark3labs/mcp-go/mcp"

	"stackchat/config"
)

// ErrToolLoopExceeded is returned when a single turn requests more tool
// invocations than the configured hop bound allows.
var ErrToolLoopExceeded = errors.New("tool invocation limit exceeded")

// SourceFallback marks tool results built from synthetic data while the
// backend was unreachable.
const SourceFallback = "fallback"

// ToolResult is the provider-agnostic outcome of one tool invocation.
// Source is "" for live backend data and SourceFallback for synthetic data
// produced while the backend was unreachable.
type ToolResult struct {
	OK     bool
	Text   string
	Source string
}

// ToolExecutor dispatches a named tool invocation against the backend.
type ToolExecutor interface {
	Invoke(ctx context.Context, name string, args map[string]any) (*ToolResult, error)
}

// Orchestrator drives one user turn: it sends the running history plus the
// tool catalog to the LLM capability, executes any requested tool against
// the executor, folds the result back into history and re-queries until the
// model produces a plain-text answer.
//
// The tool exchange is an explicit bounded loop, not recursion: MaxToolHops
// caps the number of tool invocations per turn so a model that keeps asking
// for tools cannot spin forever.
type Orchestrator struct {
	Provider     Provider
	Executor     ToolExecutor
	Catalog      []mcptypes.Tool
	SystemPrompt string
	MaxToolHops  int
}

// NewOrchestrator wires an orchestrator with the default hop bound.
func NewOrchestrator(provider Provider, executor ToolExecutor, catalog []mcptypes.Tool) *Orchestrator {
	return &Orchestrator{
		Provider:    provider,
		Executor:    executor,
		Catalog:     catalog,
		MaxToolHops: 10,
	}
}

// SendTurn runs one complete turn. It appends userText as a user entry,
// loops through any tool exchanges and returns the final assistant text
// together with the history entries produced by the turn (user entry,
// tool request/result pairs, final assistant entry).
//
// Tool-level failures never abort the turn: the error text is folded into
// history as the tool result so the model can recover or explain. Only LLM
// capability failures (and the hop bound) end the turn in error.
func (o *Orchestrator) SendTurn(ctx context.Context, userText string, history []ChatMessage) (string, []ChatMessage, error) {
	working := make([]ChatMessage, 0, len(history)+2)
	if o.SystemPrompt != "" {
		working = append(working, ChatMessage{Role: "system", Content: o.SystemPrompt})
	}
	working = append(working, history...)
	working = append(working, ChatMessage{Role: "user", Content: userText})

	maxHops := o.MaxToolHops
	if maxHops <= 0 {
		maxHops = 10
	}

	for hop := 0; ; hop++ {
		reply, err := o.Provider.Chat(ctx, working, o.Catalog)
		if err != nil {
			return "", working, err
		}

		if len(reply.ToolCalls) == 0 {
			working = append(working, ChatMessage{Role: "assistant", Content: reply.Text})
			return reply.Text, working, nil
		}

		if hop >= maxHops {
			if config.DebugLog != nil {
				config.DebugLog.Printf("Tool hop bound (%d) reached, aborting turn", maxHops)
			}
			return "", working, fmt.Errorf("%w after %d hops", ErrToolLoopExceeded, maxHops)
		}

		// The assistant's tool request entry goes into history first; each
		// result entry must immediately follow it, tagged with the same call
		// ID, or the capability cannot pair the exchange on the next send.
		working = append(working, ChatMessage{
			Role:      "assistant",
			Content:   reply.Text,
			ToolCalls: reply.ToolCalls,
		})

		for _, call := range reply.ToolCalls {
			working = append(working, o.executeCall(ctx, call))
		}
	}
}

// executeCall invokes one tool and folds the outcome into a history entry.
func (o *Orchestrator) executeCall(ctx context.Context, call ToolCall) ChatMessage {
	if config.DebugLog != nil {
		config.DebugLog.Printf("Executing tool call %s (%s)", call.Name, call.ID)
	}

	result, err := o.Executor.Invoke(ctx, call.Name, call.Arguments)
	if err != nil {
		if config.DebugLog != nil {
			config.DebugLog.Printf("Tool %s failed: %v", call.Name, err)
		}
		return ChatMessage{
			Role:       "tool",
			Content:    fmt.Sprintf("Error executing %s: %v", call.Name, err),
			ToolCallID: call.ID,
			IsError:    true,
		}
	}

	content := result.Text
	if content == "" {
		content = "Tool executed successfully (no output)"
	}

	if config.DebugLog != nil {
		config.DebugLog.Printf("Tool %s result: %d chars (source=%q)", call.Name, len(content), result.Source)
	}

	return ChatMessage{
		Role:       "tool",
		Content:    content,
		ToolCallID: call.ID,
	}
}
