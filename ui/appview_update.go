package ui

import (
	"errors"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"stackchat/classify"
	appmodel "stackchat/model"
	"stackchat/provider"
)

func (a AppView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return a.handleResize(msg)

	case tea.KeyMsg:
		return a.handleKey(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		a.loadingSpinner, cmd = a.loadingSpinner.Update(msg)
		if a.dataModel.TurnInFlight {
			a.updateViewportContent(false)
		}
		return a, cmd

	case appmodel.TurnCompleteMsg:
		return a.handleTurnComplete(msg)

	case appmodel.TurnErrorMsg:
		return a.handleTurnError(msg)

	case appmodel.MarkdownRenderedMsg:
		if msg.MessageIndex >= 0 && msg.MessageIndex < len(a.dataModel.Messages) {
			a.dataModel.Messages[msg.MessageIndex].Rendered = msg.Rendered
			a.updateViewportContent(true)
		}
		return a, nil

	case appmodel.CopiedToClipboardMsg:
		if msg.Err != nil {
			a.statusNote = "Copy failed"
		} else {
			a.statusNote = "Copied to clipboard"
		}
		return a, nil

	case appmodel.BackendPingMsg:
		if msg.Err != nil {
			a.statusNote = "Backend unreachable; tool data will use fallback"
		}
		return a, nil
	}

	var cmd tea.Cmd
	a.viewport, cmd = a.viewport.Update(msg)
	return a, cmd
}

func (a AppView) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	a.width = msg.Width
	a.height = msg.Height

	headerHeight := 2
	footerHeight := a.textarea.Height() + 2
	a.viewport.Width = msg.Width
	a.viewport.Height = max(msg.Height-headerHeight-footerHeight, 1)
	a.textarea.SetWidth(msg.Width - 2)

	a.ready = true
	a.updateViewportContent(true)
	return a, nil
}

func (a AppView) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		a.dataModel.Quitting = true
		return a, tea.Quit
	}

	if a.apiKeySetup != nil {
		return a.handleAPIKeySetupKey(msg)
	}

	if a.showHelp {
		switch msg.String() {
		case "esc", "alt+h", "q":
			a.showHelp = false
		}
		return a, nil
	}

	if a.focusedTable != "" {
		return a.handleTableKey(msg)
	}

	switch msg.String() {
	case "enter":
		return a.handleSend()

	case "ctrl+l":
		a.dataModel.ClearMessages()
		a.tables = map[string]*UserTable{}
		a.focusedTable = ""
		a.errorBanner = ""
		a.updateViewportContent(true)
		return a, nil

	case "ctrl+y":
		text := a.lastAssistantText()
		if text == "" {
			return a, nil
		}
		return a, func() tea.Msg {
			return appmodel.CopiedToClipboardMsg{Err: clipboard.WriteAll(text)}
		}

	case "alt+h":
		a.showHelp = true
		return a, nil

	case "ctrl+r":
		return a.handleRetry()

	case "esc":
		a.errorBanner = ""
		a.statusNote = ""
		return a, nil

	case "pgup", "pgdown", "home", "end":
		var cmd tea.Cmd
		a.viewport, cmd = a.viewport.Update(msg)
		return a, cmd

	case "tab":
		if key := a.latestTableKey(); key != "" {
			a.focusedTable = key
			a.tables[key].focused = true
			a.textarea.Blur()
			a.updateViewportContent(false)
		}
		return a, nil
	}

	var cmd tea.Cmd
	a.textarea, cmd = a.textarea.Update(msg)
	return a, cmd
}

func (a AppView) handleAPIKeySetupKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "enter" {
		keyValue := strings.TrimSpace(a.apiKeySetup.input.Value())
		if keyValue == "" {
			a.apiKeySetup.errMsg = "API key must not be empty"
			return a, nil
		}

		prov, err := a.apiKeySetup.Submit(keyValue)
		if err != nil {
			a.apiKeySetup.errMsg = err.Error()
			return a, nil
		}

		a.dataModel.Provider = prov
		a.dataModel.Orchestrator.Provider = prov
		a.apiKeySetup = nil
		a.updateViewportContent(true)
		return a, a.dataModel.PingBackend()
	}

	var cmd tea.Cmd
	a.apiKeySetup.input, cmd = a.apiKeySetup.input.Update(msg)
	return a, cmd
}

// handleTableKey routes keys to the focused table: column selection, sort
// cycling and search.
func (a AppView) handleTableKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	table := a.tables[a.focusedTable]
	if table == nil {
		a.focusedTable = ""
		return a, nil
	}

	if table.searching {
		switch msg.String() {
		case "esc", "enter":
			table.searching = false
			table.searchInput.Blur()
		default:
			var cmd tea.Cmd
			table.searchInput, cmd = table.searchInput.Update(msg)
			a.updateViewportContent(false)
			return a, cmd
		}
		a.updateViewportContent(false)
		return a, nil
	}

	switch msg.String() {
	case "esc", "tab":
		table.focused = false
		a.focusedTable = ""
		a.textarea.Focus()

	case "left", "h":
		if table.selectedCol > 0 {
			table.selectedCol--
		}

	case "right", "l":
		if table.selectedCol < len(table.columns)-1 {
			table.selectedCol++
		}

	case "enter", "s":
		table.CycleSort(table.selectedCol)

	case "/":
		table.searching = true
		table.searchInput.Focus()
	}

	a.updateViewportContent(false)
	return a, nil
}

func (a AppView) handleSend() (tea.Model, tea.Cmd) {
	if a.dataModel.TurnInFlight {
		return a, nil
	}

	text := strings.TrimSpace(a.textarea.Value())
	if text == "" {
		return a, nil
	}

	userMsg := appmodel.NewUserMessage(text)
	userMsg.Rendered = text
	a.dataModel.Messages = append(a.dataModel.Messages, userMsg)
	a.dataModel.LastUserText = text
	a.dataModel.TurnInFlight = true
	a.errorBanner = ""
	a.statusNote = ""
	a.textarea.Reset()

	a.updateViewportContent(true)

	return a, tea.Batch(a.dataModel.SendTurn(text), a.loadingSpinner.Tick)
}

// handleRetry replays the last user message after a fatal turn error. The
// original user entry is still in history, so only the turn restarts.
func (a AppView) handleRetry() (tea.Model, tea.Cmd) {
	if a.errorBanner == "" || a.dataModel.TurnInFlight || a.dataModel.LastUserText == "" {
		return a, nil
	}

	a.errorBanner = ""
	a.dataModel.TurnInFlight = true
	a.updateViewportContent(true)

	return a, tea.Batch(a.dataModel.SendTurn(a.dataModel.LastUserText), a.loadingSpinner.Tick)
}

// handleTurnComplete classifies the final text into content blocks, builds
// the assistant message and kicks off async markdown rendering for prose.
func (a AppView) handleTurnComplete(msg appmodel.TurnCompleteMsg) (tea.Model, tea.Cmd) {
	a.dataModel.TurnInFlight = false

	blocks := classify.Classify(msg.FinalText)
	assistantMsg := appmodel.NewAssistantMessage(msg.FinalText, blocks)
	a.dataModel.Messages = append(a.dataModel.Messages, assistantMsg)

	var cmd tea.Cmd
	if len(blocks) == 1 && blocks[0].Kind == appmodel.BlockText {
		// Pure prose renders asynchronously; until then the raw text shows
		assistantMsg.Rendered = msg.FinalText
		a.dataModel.Messages[len(a.dataModel.Messages)-1] = assistantMsg
		cmd = a.renderMarkdownAsync(len(a.dataModel.Messages)-1, msg.FinalText)
	}

	a.textarea.Focus()
	a.updateViewportContent(true)
	return a, cmd
}

func (a AppView) handleTurnError(msg appmodel.TurnErrorMsg) (tea.Model, tea.Cmd) {
	a.dataModel.TurnInFlight = false
	a.dataModel.LastUserText = msg.UserText

	if errors.Is(msg.Err, appmodel.ErrToolLoopExceeded) {
		a.errorBanner = "The model kept requesting tools without answering. Please try rephrasing."
	} else {
		a.errorBanner = provider.UserMessage(msg.Err)
	}

	a.textarea.Focus()
	a.updateViewportContent(true)
	return a, nil
}
