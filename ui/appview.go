package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	appmodel "stackchat/model"
)

// APIKeySetup is the first-run credential entry state. submit stores the
// key and constructs the provider; on success the chat view takes over.
type APIKeySetup struct {
	ProviderName string
	Submit       func(key string) (appmodel.Provider, error)

	input  textinput.Model
	errMsg string
}

// NewAPIKeySetup creates the credential entry state for a provider that
// has no stored API key yet.
func NewAPIKeySetup(providerName string, submit func(key string) (appmodel.Provider, error)) *APIKeySetup {
	input := textinput.New()
	input.Prompt = "API key: "
	input.EchoMode = textinput.EchoPassword
	input.EchoCharacter = '*'
	input.CharLimit = 256
	input.Focus()

	return &APIKeySetup{
		ProviderName: providerName,
		Submit:       submit,
		input:        input,
	}
}

type AppView struct {
	// Reference to core data model
	dataModel *appmodel.Model

	// UI components
	viewport viewport.Model
	textarea textarea.Model

	// Window state
	width  int
	height int
	ready  bool

	showHelp bool

	// Loading spinner (bubbles/spinner)
	loadingSpinner spinner.Model

	// Fatal-turn error banner; empty when no error is showing
	errorBanner string

	// Transient status note (clipboard result, backend probe outcome)
	statusNote string

	// First-run API key entry; nil once a provider exists
	apiKeySetup *APIKeySetup

	// Interaction state per rendered table component, keyed by message ID
	// and block index; survives re-renders so search/sort state sticks
	tables map[string]*UserTable

	// Key of the table currently receiving keys, "" when the textarea has
	// focus
	focusedTable string
}

func NewAppView(dataModel *appmodel.Model, apiKeySetup *APIKeySetup) AppView {
	ta := textarea.New()
	ta.Placeholder = "Ask about your users, apps and assignments..."
	ta.Focus()
	ta.CharLimit = 0
	ta.ShowLineNumbers = false
	ta.SetHeight(3)
	ta.SetWidth(80)

	// Alt+Enter for newline; Enter sends (handled separately)
	ta.KeyMap.InsertNewline = key.NewBinding(key.WithKeys("alt+enter"))

	ta.SetPromptFunc(2, func(lineIdx int) string {
		if lineIdx == 0 {
			return "> "
		}
		return "| "
	})

	vp := viewport.New(0, 0)

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return AppView{
		dataModel:      dataModel,
		textarea:       ta,
		viewport:       vp,
		loadingSpinner: sp,
		apiKeySetup:    apiKeySetup,
		tables:         map[string]*UserTable{},
	}
}

func (a AppView) Init() tea.Cmd {
	cmds := []tea.Cmd{
		textarea.Blink,
		a.loadingSpinner.Tick,
	}

	if a.dataModel.Provider != nil {
		cmds = append(cmds, a.dataModel.PingBackend())
	}

	return tea.Batch(cmds...)
}

func (a AppView) View() string {
	if !a.ready {
		return "Loading stackchat..."
	}

	if a.apiKeySetup != nil {
		return a.renderAPIKeySetup()
	}

	if a.showHelp {
		return renderHelpModal(a.width, a.height)
	}

	// Title bar
	title := AssistantStyle.Render("stackchat") +
		TitleStyle.Render(fmt.Sprintf(" - %s", a.dataModel.Provider.GetModel()))
	if a.dataModel.TurnInFlight {
		title += DimStyle.Render(fmt.Sprintf("  %s thinking...", a.loadingSpinner.View()))
	}

	viewportView := a.viewport.View()

	var banner string
	if a.errorBanner != "" {
		banner = ErrorBannerStyle.Width(a.width - 2).Render(
			ErrorStyle.Render("Error: ") + a.errorBanner + "\n" +
				FormatFooter("Ctrl+R", "Retry", "Esc", "Dismiss"),
		)
	}

	inputView := a.textarea.View()

	statusBar := StatusStyle.Render(FormatFooter(
		"Enter", "Send",
		"Alt+Enter", "New Line",
		"Tab", "Table",
		"Ctrl+Y", "Copy",
		"Ctrl+L", "Clear",
		"Alt+H", "Help",
		"Ctrl+C", "Quit",
	))
	if a.statusNote != "" {
		statusBar += "  " + DimStyle.Render(a.statusNote)
	}

	parts := []string{title, "", viewportView}
	if banner != "" {
		parts = append(parts, banner)
	}
	parts = append(parts, inputView, statusBar)

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (a AppView) renderAPIKeySetup() string {
	content := TitleStyle.Render("Welcome to stackchat") + "\n\n" +
		fmt.Sprintf("An API key is required for the %s provider.\n", a.apiKeySetup.ProviderName) +
		"It will be stored encrypted in your data directory.\n\n" +
		a.apiKeySetup.input.View() + "\n"

	if a.apiKeySetup.errMsg != "" {
		content += "\n" + ErrorStyle.Render(a.apiKeySetup.errMsg) + "\n"
	}

	content += "\n" + FormatFooter("Enter", "Save", "Ctrl+C", "Quit")

	box := CardStyle.Width(min(a.width-4, 64)).Render(content)
	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, box)
}

// lastAssistantText returns the flattened text of the most recent assistant
// message, used by the clipboard copy binding.
func (a AppView) lastAssistantText() string {
	for i := len(a.dataModel.Messages) - 1; i >= 0; i-- {
		if a.dataModel.Messages[i].Role == "assistant" {
			return a.dataModel.Messages[i].FlattenText()
		}
	}
	return ""
}

// latestTableKey returns the key of the most recently rendered table in the
// conversation, or "" when none exists.
func (a AppView) latestTableKey() string {
	for i := len(a.dataModel.Messages) - 1; i >= 0; i-- {
		msg := a.dataModel.Messages[i]
		for b := len(msg.Blocks) - 1; b >= 0; b-- {
			if msg.Blocks[b].Kind == appmodel.BlockComponent {
				key := tableKey(msg.ID, b)
				if _, ok := a.tables[key]; ok {
					return key
				}
			}
		}
	}
	return ""
}

func tableKey(messageID string, blockIdx int) string {
	return fmt.Sprintf("%s/%d", messageID, blockIdx)
}
