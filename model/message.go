package model

import (
	"time"

	"github.com/google/uuid"
)

// BlockKind discriminates the content block union.
type BlockKind string

const (
	BlockText      BlockKind = "text"
	BlockComponent BlockKind = "component"
)

// ComponentPayload is a self-describing UI component definition produced by
// tools and recovered by the classifier. Props carry both data and
// presentation directives (columns, layout toggles, style classes) so the
// renderer needs no type-specific knowledge beyond dispatch on Type.
type ComponentPayload struct {
	Type     string             `json:"type"`
	Props    map[string]any     `json:"props"`
	Children []ComponentPayload `json:"children,omitempty"`
}

// ContentBlock is one classified segment of an assistant turn: either plain
// text or a renderable component.
type ContentBlock struct {
	Kind      BlockKind
	Text      string
	Component *ComponentPayload
}

// Message represents a chat message in the conversation.
// Messages are appended, never mutated; a full clear is the only removal.
type Message struct {
	ID        string
	Role      string // "user" or "assistant"
	Content   string // raw text as produced/typed
	Blocks    []ContentBlock
	Rendered  string // cached rendered markdown for text content
	Timestamp time.Time
}

// NewUserMessage creates a user message with a fresh ID.
func NewUserMessage(content string) Message {
	return Message{
		ID:        uuid.New().String(),
		Role:      "user",
		Content:   content,
		Timestamp: time.Now(),
	}
}

// NewAssistantMessage creates an assistant message with a fresh ID.
func NewAssistantMessage(content string, blocks []ContentBlock) Message {
	return Message{
		ID:        uuid.New().String(),
		Role:      "assistant",
		Content:   content,
		Blocks:    blocks,
		Timestamp: time.Now(),
	}
}

// FlattenText returns the text-only view of a message. Structured component
// blocks are skipped; a component-only message flattens to a placeholder so
// the turn still appears in provider history.
func (m Message) FlattenText() string {
	if len(m.Blocks) == 0 {
		return m.Content
	}

	var parts []string
	for _, block := range m.Blocks {
		if block.Kind == BlockText && block.Text != "" {
			parts = append(parts, block.Text)
		}
	}

	if len(parts) == 0 {
		return "Component rendered"
	}

	out := parts[0]
	for _, p := range parts[1:] {
		out += " " + p
	}
	return out
}

// FlattenHistory converts UI messages to the role/content history sent to
// the LLM capability. Rebuilt on every turn, never stored separately.
func FlattenHistory(messages []Message) []ChatMessage {
	history := make([]ChatMessage, 0, len(messages))
	for _, msg := range messages {
		if msg.Role != "user" && msg.Role != "assistant" {
			continue
		}
		history = append(history, ChatMessage{
			Role:    msg.Role,
			Content: msg.FlattenText(),
		})
	}
	return history
}
