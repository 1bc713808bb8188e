package ui

import (
	"fmt"
	"strings"

	appmodel "stackchat/model"
)

// RenderComponent draws one component payload. Dispatch is keyed on the
// payload's Type; the set of renderable kinds is closed, with unrecognized
// types degrading to a visible placeholder rather than a crash.
func (a *AppView) RenderComponent(payload *appmodel.ComponentPayload, key string, width int) string {
	if payload == nil {
		return ""
	}

	switch payload.Type {
	case "UserTable":
		table := a.tables[key]
		if table == nil {
			table = NewUserTable(payload)
			a.tables[key] = table
		}
		return table.Render(width)

	case "Card":
		return renderCard(a, payload, key, width)

	case "Text":
		text, _ := payload.Props["text"].(string)
		return text

	default:
		return DimStyle.Render(fmt.Sprintf("[Unknown component: %s]", payload.Type))
	}
}

// renderCard frames a titled panel and renders any children inside it.
func renderCard(a *AppView, payload *appmodel.ComponentPayload, key string, width int) string {
	var b strings.Builder

	if title, ok := payload.Props["title"].(string); ok && title != "" {
		b.WriteString(TitleStyle.Render(title) + "\n")
	}
	if text, ok := payload.Props["text"].(string); ok && text != "" {
		b.WriteString(text + "\n")
	}

	for i := range payload.Children {
		childKey := fmt.Sprintf("%s/%d", key, i)
		b.WriteString(a.RenderComponent(&payload.Children[i], childKey, width-4))
		b.WriteString("\n")
	}

	return CardStyle.Width(width - 2).Render(strings.TrimSuffix(b.String(), "\n"))
}
