package provider

import (
	"testing"

	"github.com/anthropics/anthropic-sdk-go"

	"stackchat/model"
)

func TestConvertToAnthropicMessagesSkipsEmptyAssistant(t *testing.T) {
	msgs, system := convertToAnthropicMessages([]model.ChatMessage{
		{Role: "user", Content: "hi"},
		{Role: "assistant", Content: ""},
		{Role: "user", Content: "still there?"},
	})

	if len(system) != 0 {
		t.Errorf("got %d system blocks, want 0", len(system))
	}
	// The empty assistant entry would become an empty text block, which the
	// API rejects; it must not appear in the converted history.
	if len(msgs) != 2 {
		t.Fatalf("got %d messages, want 2", len(msgs))
	}
	for i, m := range msgs {
		if m.Role != anthropic.MessageParamRoleUser {
			t.Errorf("message %d: role %q, want user", i, m.Role)
		}
	}
}

func TestConvertToAnthropicMessagesKeepsToolOnlyAssistant(t *testing.T) {
	msgs, _ := convertToAnthropicMessages([]model.ChatMessage{
		{Role: "user", Content: "list users"},
		{
			Role: "assistant",
			ToolCalls: []model.ToolCall{
				{ID: "call_1", Name: "list_users", Arguments: map[string]any{}},
			},
		},
		{Role: "tool", Content: "result", ToolCallID: "call_1"},
	})

	// user, assistant tool request, merged tool-result user message
	if len(msgs) != 3 {
		t.Fatalf("got %d messages, want 3", len(msgs))
	}
	if msgs[1].Role != anthropic.MessageParamRoleAssistant {
		t.Errorf("message 1: role %q, want assistant", msgs[1].Role)
	}
	if len(msgs[1].Content) != 1 {
		t.Errorf("tool-only assistant message has %d blocks, want 1", len(msgs[1].Content))
	}
}
