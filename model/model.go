package model

import (
	"stackchat/config"
)

// Model holds the core application data and business logic state
type Model struct {
	// Core dependencies
	Config       *config.Config
	Provider     Provider
	Orchestrator *Orchestrator

	// Application data
	Messages []Message

	// Runtime state (not UI)
	TurnInFlight bool
	LastUserText string // last submitted user text, kept for retry
	Quitting     bool

	// Application metadata
	Version string
	License string
}

// NewModel creates a new Model with the given configuration
func NewModel(cfg *config.Config, provider Provider, orchestrator *Orchestrator, version, license string) *Model {
	orchestrator.SystemPrompt = cfg.DefaultSystemPrompt
	orchestrator.MaxToolHops = cfg.MaxToolHops

	return &Model{
		Config:       cfg,
		Provider:     provider,
		Orchestrator: orchestrator,
		Messages:     []Message{},
		Version:      version,
		License:      license,
	}
}

// ClearMessages resets the conversation. The only way messages are ever
// removed.
func (m *Model) ClearMessages() {
	m.Messages = []Message{}
	m.LastUserText = ""
}
