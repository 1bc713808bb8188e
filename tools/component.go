package tools

import (
	"encoding/json"
	"fmt"

	"stackchat/model"
	"stackchat/store"
)

// userTableColumns is the column descriptor shipped inside every UserTable
// payload. The renderer applies it generically; nothing about these columns
// is hard-coded downstream.
func userTableColumns() []map[string]any {
	return []map[string]any{
		{"key": "name", "label": "Name", "sortable": true, "searchable": true, "width": "auto"},
		{"key": "email", "label": "Email", "sortable": true, "searchable": true, "width": "auto"},
		{"key": "role", "label": "Role", "sortable": true, "searchable": true, "width": "auto"},
		{"key": "team", "label": "Team", "sortable": true, "searchable": true, "width": "auto"},
		{"key": "group", "label": "Group", "sortable": true, "searchable": true, "width": "auto"},
		{"key": "appsCount", "label": "Apps", "sortable": true, "searchable": false, "width": "auto"},
		{"key": "startDate", "label": "Start Date", "sortable": true, "searchable": false, "width": "auto"},
	}
}

// BuildUserTablePayload wraps user rows in a self-describing UserTable
// component. The payload carries the full presentation contract (columns,
// layout toggles, cell renderers, style classes) so the renderer needs no
// type-specific knowledge beyond dispatch on Type.
func BuildUserTablePayload(users []store.User, search, source string) model.ComponentPayload {
	title := "Users"
	if search != "" {
		title = fmt.Sprintf("Users matching %q", search)
	}
	if source == model.SourceFallback {
		title = "Users (Mock Data)"
	}

	props := map[string]any{
		"users":             users,
		"title":             title,
		"searchPlaceholder": "Search users...",
		"styling": map[string]any{
			"classes": map[string]any{
				"container":    "w-full overflow-hidden border rounded-lg bg-background shadow-sm",
				"tableHeader":  "bg-table-header text-table-header-foreground",
				"tableRow":     "border-b transition-colors hover:bg-muted/50",
				"resultsCount": "text-sm text-muted-foreground",
				"badge":        "text-xs",
			},
			"layout": map[string]any{
				"showSearch":        true,
				"showSorting":       true,
				"showResultsCount":  true,
				"showBorders":       true,
				"rounded":           true,
				"searchPlaceholder": "Search users...",
				"emptyStateMessage": "No results found",
			},
			"columns": userTableColumns(),
			"cellRenderers": map[string]any{
				"role":      map[string]any{"type": "badge", "variant": "secondary"},
				"appsCount": map[string]any{"type": "badge", "variant": "outline"},
				"team":      map[string]any{"type": "text"},
				"group":     map[string]any{"type": "text"},
				"startDate": map[string]any{"type": "text"},
			},
		},
	}

	if source != "" {
		props["source"] = source
	}

	return model.ComponentPayload{
		Type:  "UserTable",
		Props: props,
	}
}

// marshalPayload serializes a component payload as indented JSON so it
// survives transport as an opaque string and can be pattern-matched
// downstream by the classifier.
func marshalPayload(payload model.ComponentPayload) (string, error) {
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal component payload: %w", err)
	}
	return string(data), nil
}

// marshalIndented serializes any value as indented JSON for textual tool
// results.
func marshalIndented(v any) (string, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal result: %w", err)
	}
	return string(data), nil
}
