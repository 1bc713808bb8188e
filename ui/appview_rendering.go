package ui

import (
	"fmt"
	"strings"

	appmodel "stackchat/model"
)

// updateViewportContent re-renders the whole conversation into the viewport.
func (a *AppView) updateViewportContent(gotoBottom bool) {
	if a.viewport.Width == 0 {
		return
	}

	var content string
	if len(a.dataModel.Messages) == 0 {
		content = a.renderWelcome()
	} else {
		var b strings.Builder
		for i := range a.dataModel.Messages {
			b.WriteString(a.renderMessage(&a.dataModel.Messages[i]))
			b.WriteString("\n")
		}
		content = b.String()
	}

	if a.dataModel.TurnInFlight {
		content += "\n" + DimStyle.Render(fmt.Sprintf("%s thinking...", a.loadingSpinner.View()))
	}

	a.viewport.SetContent(content)
	if gotoBottom {
		a.viewport.GotoBottom()
	}
}

func (a *AppView) renderMessage(msg *appmodel.Message) string {
	timestamp := DimStyle.Render(msg.Timestamp.Format("[15:04]"))

	if msg.Role == "user" {
		header := timestamp + " " + UserStyle.Render("You")
		return header + "\n" + formatUserMessage(msg.Content) + "\n"
	}

	header := timestamp + " " + AssistantStyle.Render("Assistant")

	// Prose-only messages use the async-rendered markdown cache.
	if len(msg.Blocks) == 0 || (len(msg.Blocks) == 1 && msg.Blocks[0].Kind == appmodel.BlockText) {
		body := msg.Rendered
		if body == "" {
			body = msg.Content
		}
		return header + "\n" + body + "\n"
	}

	// Mixed turns render block by block: short lead text inline, component
	// payloads through the component renderer with sticky per-table state.
	var b strings.Builder
	b.WriteString(header + "\n")
	for i, block := range msg.Blocks {
		switch block.Kind {
		case appmodel.BlockText:
			if block.Text != "" {
				b.WriteString(renderMarkdown(block.Text, a.viewport.Width) + "\n")
			}
		case appmodel.BlockComponent:
			b.WriteString(a.RenderComponent(block.Component, tableKey(msg.ID, i), a.viewport.Width) + "\n")
		}
	}
	return b.String()
}

// formatUserMessage prefixes each line with a green bar, matching the
// visual weight of code block frames.
func formatUserMessage(content string) string {
	lines := strings.Split(content, "\n")
	for i, line := range lines {
		lines[i] = UserStyle.Render("┃ ") + line
	}
	return strings.Join(lines, "\n")
}

func (a *AppView) renderWelcome() string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render("Welcome to stackchat") + "\n\n")
	b.WriteString("Chat with an assistant that can look up and manage the users,\n")
	b.WriteString("apps and assignments in your directory.\n\n")

	b.WriteString(DimStyle.Render("Try asking:") + "\n")
	for _, prompt := range []string{
		"Show me all users",
		"Which apps are in the communication category?",
		"Assign jane.smith@example.com to Figma as an Editor",
		"What is john.doe@example.com assigned to?",
	} {
		b.WriteString("  " + AssistantStyle.Render("•") + " " + prompt + "\n")
	}

	b.WriteString("\n" + DimStyle.Render("Press Alt+H for keyboard shortcuts."))

	return CardStyle.Width(min(a.viewport.Width-2, 70)).Render(b.String())
}
