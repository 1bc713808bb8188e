package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type helpEntry struct {
	keys string
	desc string
}

var helpSections = []struct {
	title   string
	entries []helpEntry
}{
	{
		title: "Chat",
		entries: []helpEntry{
			{"Enter", "Send message"},
			{"Alt+Enter", "Insert newline"},
			{"Ctrl+Y", "Copy last answer to clipboard"},
			{"Ctrl+L", "Clear conversation"},
			{"Ctrl+R", "Retry after an error"},
			{"Esc", "Dismiss error banner"},
		},
	},
	{
		title: "Tables",
		entries: []helpEntry{
			{"Tab", "Focus the latest table / return to input"},
			{"←/→", "Select column"},
			{"Enter", "Cycle sort: ascending, descending, off"},
			{"/", "Search within the table"},
			{"Esc", "Leave search / unfocus table"},
		},
	},
	{
		title: "General",
		entries: []helpEntry{
			{"Alt+H", "Toggle this help"},
			{"PgUp/PgDn", "Scroll conversation"},
			{"Ctrl+C", "Quit"},
		},
	},
}

// renderHelpModal draws the full-screen keybinding reference.
func renderHelpModal(width, height int) string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render("Keyboard Shortcuts") + "\n")

	for _, section := range helpSections {
		b.WriteString("\n" + AssistantStyle.Render(section.title) + "\n")
		for _, entry := range section.entries {
			b.WriteString("  " + SelectedStyle.Render(padKey(entry.keys)) + " " + entry.desc + "\n")
		}
	}

	b.WriteString("\n" + FormatFooter("Esc", "Close"))

	box := CardStyle.Width(min(width-4, 60)).Render(b.String())
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box)
}

func padKey(s string) string {
	const keyWidth = 12
	if len(s) >= keyWidth {
		return s
	}
	return s + strings.Repeat(" ", keyWidth-len(s))
}
