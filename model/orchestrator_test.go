package model

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	mcptypes "github.com/mark3labs/mcp-go/mcp"
)

// scriptedProvider replays a fixed reply sequence and records every history
// it was sent.
type scriptedProvider struct {
	replies   []*Reply
	err       error
	histories [][]ChatMessage
}

func (p *scriptedProvider) Chat(_ context.Context, messages []ChatMessage, _ []mcptypes.Tool) (*Reply, error) {
	p.histories = append(p.histories, append([]ChatMessage(nil), messages...))
	if p.err != nil {
		return nil, p.err
	}
	if len(p.replies) == 0 {
		return &Reply{Text: "exhausted"}, nil
	}
	reply := p.replies[0]
	p.replies = p.replies[1:]
	return reply, nil
}

func (p *scriptedProvider) GetModel() string { return "scripted" }
func (p *scriptedProvider) SetModel(string) {}
func (p *scriptedProvider) Ping(context.Context) error { return nil }

// loopProvider always requests another tool invocation.
type loopProvider struct {
	calls int
}

func (p *loopProvider) Chat(context.Context, []ChatMessage, []mcptypes.Tool) (*Reply, error) {
	p.calls++
	return &Reply{ToolCalls: []ToolCall{{ID: fmt.Sprintf("call_%d", p.calls), Name: "health"}}}, nil
}

func (p *loopProvider) GetModel() string { return "loop" }
func (p *loopProvider) SetModel(string) {}
func (p *loopProvider) Ping(context.Context) error { return nil }

type fakeExecutor struct {
	result  *ToolResult
	err     error
	invoked []string
}

func (f *fakeExecutor) Invoke(_ context.Context, name string, _ map[string]any) (*ToolResult, error) {
	f.invoked = append(f.invoked, name)
	if f.err != nil {
		return nil, f.err
	}
	if f.result != nil {
		return f.result, nil
	}
	return &ToolResult{OK: true, Text: "ok"}, nil
}

func TestSendTurnPlainAnswer(t *testing.T) {
	provider := &scriptedProvider{replies: []*Reply{{Text: "Hello there."}}}
	executor := &fakeExecutor{}
	o := NewOrchestrator(provider, executor, nil)
	o.SystemPrompt = "You manage SaaS data."

	final, history, err := o.SendTurn(context.Background(), "hi", nil)
	if err != nil {
		t.Fatalf("SendTurn failed: %v", err)
	}
	if final != "Hello there." {
		t.Errorf("final: got %q", final)
	}
	if len(executor.invoked) != 0 {
		t.Errorf("executor invoked without tool calls: %v", executor.invoked)
	}

	wantRoles := []string{"system", "user", "assistant"}
	if len(history) != len(wantRoles) {
		t.Fatalf("history length: got %d, want %d", len(history), len(wantRoles))
	}
	for i, role := range wantRoles {
		if history[i].Role != role {
			t.Errorf("history[%d] role: got %q, want %q", i, history[i].Role, role)
		}
	}
}

func TestSendTurnToolExchange(t *testing.T) {
	provider := &scriptedProvider{replies: []*Reply{
		{ToolCalls: []ToolCall{{ID: "call_1", Name: "list_users", Arguments: map[string]any{"limit": 10.0}}}},
		{Text: "There are 3 users."},
	}}
	executor := &fakeExecutor{result: &ToolResult{OK: true, Text: "user data"}}
	o := NewOrchestrator(provider, executor, nil)

	final, history, err := o.SendTurn(context.Background(), "show users", nil)
	if err != nil {
		t.Fatalf("SendTurn failed: %v", err)
	}
	if final != "There are 3 users." {
		t.Errorf("final: got %q", final)
	}
	if len(executor.invoked) != 1 || executor.invoked[0] != "list_users" {
		t.Errorf("invocations: got %v", executor.invoked)
	}

	// user, assistant tool request, tool result, final assistant
	if len(history) != 4 {
		t.Fatalf("history length: got %d, want 4", len(history))
	}

	request := history[1]
	if request.Role != "assistant" || len(request.ToolCalls) != 1 || request.ToolCalls[0].ID != "call_1" {
		t.Errorf("tool request entry: %+v", request)
	}

	result := history[2]
	if result.Role != "tool" {
		t.Errorf("result role: got %q", result.Role)
	}
	if result.ToolCallID != request.ToolCalls[0].ID {
		t.Errorf("result call ID %q does not pair with request %q", result.ToolCallID, request.ToolCalls[0].ID)
	}
	if result.Content != "user data" || result.IsError {
		t.Errorf("result entry: %+v", result)
	}

	// The second request must carry the folded exchange.
	if len(provider.histories) != 2 {
		t.Fatalf("provider called %d times, want 2", len(provider.histories))
	}
	second := provider.histories[1]
	if second[len(second)-1].Role != "tool" {
		t.Errorf("second request does not end with the tool result: %+v", second[len(second)-1])
	}
}

func TestSendTurnToolErrorFolded(t *testing.T) {
	provider := &scriptedProvider{replies: []*Reply{
		{ToolCalls: []ToolCall{{ID: "call_1", Name: "list_users"}}},
		{Text: "I could not fetch the users."},
	}}
	executor := &fakeExecutor{err: errors.New("backend exploded")}
	o := NewOrchestrator(provider, executor, nil)

	final, history, err := o.SendTurn(context.Background(), "show users", nil)
	if err != nil {
		t.Fatalf("tool failure must not abort the turn: %v", err)
	}
	if final != "I could not fetch the users." {
		t.Errorf("final: got %q", final)
	}

	result := history[2]
	if !result.IsError {
		t.Error("failed tool result not flagged as error")
	}
	if !strings.Contains(result.Content, "Error executing list_users") {
		t.Errorf("error not folded into content: %q", result.Content)
	}
}

func TestSendTurnEmptyToolOutput(t *testing.T) {
	provider := &scriptedProvider{replies: []*Reply{
		{ToolCalls: []ToolCall{{ID: "call_1", Name: "health"}}},
		{Text: "All good."},
	}}
	executor := &fakeExecutor{result: &ToolResult{OK: true, Text: ""}}
	o := NewOrchestrator(provider, executor, nil)

	_, history, err := o.SendTurn(context.Background(), "ping", nil)
	if err != nil {
		t.Fatalf("SendTurn failed: %v", err)
	}
	if history[2].Content != "Tool executed successfully (no output)" {
		t.Errorf("empty output placeholder: got %q", history[2].Content)
	}
}

func TestSendTurnHopBound(t *testing.T) {
	provider := &loopProvider{}
	executor := &fakeExecutor{}
	o := NewOrchestrator(provider, executor, nil)
	o.MaxToolHops = 2

	_, _, err := o.SendTurn(context.Background(), "loop forever", nil)
	if !errors.Is(err, ErrToolLoopExceeded) {
		t.Fatalf("got %v, want ErrToolLoopExceeded", err)
	}
	if len(executor.invoked) != 2 {
		t.Errorf("executor invoked %d times, want exactly the hop bound", len(executor.invoked))
	}
}

func TestSendTurnProviderError(t *testing.T) {
	provider := &scriptedProvider{err: errors.New("rate limited")}
	o := NewOrchestrator(provider, &fakeExecutor{}, nil)

	_, _, err := o.SendTurn(context.Background(), "hi", nil)
	if err == nil || !strings.Contains(err.Error(), "rate limited") {
		t.Errorf("provider error not surfaced: %v", err)
	}
}

func TestSendTurnCarriesHistory(t *testing.T) {
	provider := &scriptedProvider{replies: []*Reply{{Text: "answer"}}}
	o := NewOrchestrator(provider, &fakeExecutor{}, nil)

	prior := []ChatMessage{
		{Role: "user", Content: "earlier question"},
		{Role: "assistant", Content: "earlier answer"},
	}

	_, _, err := o.SendTurn(context.Background(), "follow-up", prior)
	if err != nil {
		t.Fatalf("SendTurn failed: %v", err)
	}

	sent := provider.histories[0]
	if len(sent) != 3 {
		t.Fatalf("sent history length: got %d, want 3", len(sent))
	}
	if sent[0].Content != "earlier question" || sent[2].Content != "follow-up" {
		t.Errorf("history order: %+v", sent)
	}
}

func TestFlattenHistorySkipsToolEntries(t *testing.T) {
	messages := []Message{
		NewUserMessage("hi"),
		NewAssistantMessage("result text", []ContentBlock{
			{Kind: BlockText, Text: "lead"},
			{Kind: BlockComponent, Component: &ComponentPayload{Type: "UserTable"}},
		}),
	}

	history := FlattenHistory(messages)
	if len(history) != 2 {
		t.Fatalf("got %d entries, want 2", len(history))
	}
	if history[1].Content != "lead" {
		t.Errorf("component block leaked into history: %q", history[1].Content)
	}
}
