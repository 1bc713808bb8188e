package model

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"stackchat/config"
)

// turnTimeout bounds one complete turn including all tool hops.
const turnTimeout = 120 * time.Second

// SendTurn runs one conversation turn in a background command. The user
// message must already be appended to m.Messages; the flattened history sent
// to the orchestrator excludes it so the orchestrator can add its own entry.
func (m *Model) SendTurn(userText string) tea.Cmd {
	orchestrator := m.Orchestrator

	// Flatten everything before the just-appended user message.
	prior := m.Messages
	if len(prior) > 0 && prior[len(prior)-1].Role == "user" {
		prior = prior[:len(prior)-1]
	}
	history := FlattenHistory(prior)

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), turnTimeout)
		defer cancel()

		if config.DebugLog != nil {
			config.DebugLog.Printf("Turn started: %d history entries, input %d chars", len(history), len(userText))
		}

		start := time.Now()
		finalText, _, err := orchestrator.SendTurn(ctx, userText, history)
		elapsed := time.Since(start)

		if err != nil {
			if config.DebugLog != nil {
				config.DebugLog.Printf("Turn failed after %v: %v", elapsed, err)
			}
			return TurnErrorMsg{Err: err, UserText: userText}
		}

		if config.DebugLog != nil {
			config.DebugLog.Printf("Turn complete after %v: %d chars", elapsed, len(finalText))
		}

		return TurnCompleteMsg{FinalText: finalText}
	}
}

// PingBackend probes provider reachability at startup so connectivity
// problems surface before the first turn.
func (m *Model) PingBackend() tea.Cmd {
	provider := m.Provider
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return BackendPingMsg{Err: provider.Ping(ctx)}
	}
}
