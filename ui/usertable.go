package ui

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/mattn/go-runewidth"

	appmodel "stackchat/model"
)

// Sort direction cycle per column: none, ascending, descending, back to none.
const (
	sortNone = iota
	sortAsc
	sortDesc
)

// Column is one table column descriptor, taken from the payload's column
// configuration rather than hard-coded.
type Column struct {
	Key        string
	Label      string
	Sortable   bool
	Searchable bool
}

// UserTable holds the local, ephemeral interaction state of one rendered
// table component: search query and sort selection. Filtering and sorting
// are recomputed from the original row set on every change, never
// cumulative.
type UserTable struct {
	title        string
	emptyMessage string
	source       string
	columns      []Column
	rows         []map[string]any

	searchInput textinput.Model
	searching   bool

	selectedCol int
	sortCol     int
	sortDir     int

	focused bool
}

// defaultColumns serves payloads that carry no column configuration, such
// as tables mined from free text by the classifier.
func defaultColumns() []Column {
	return []Column{
		{Key: "name", Label: "Name", Sortable: true, Searchable: true},
		{Key: "email", Label: "Email", Sortable: true, Searchable: true},
		{Key: "role", Label: "Role", Sortable: true, Searchable: true},
		{Key: "status", Label: "Status", Sortable: true, Searchable: true},
	}
}

// NewUserTable builds table state from a UserTable component payload.
func NewUserTable(payload *appmodel.ComponentPayload) *UserTable {
	t := &UserTable{
		title:        "Users",
		emptyMessage: "No results found",
		columns:      defaultColumns(),
		sortCol:      -1,
	}

	if title, ok := payload.Props["title"].(string); ok && title != "" {
		t.title = title
	}
	if source, ok := payload.Props["source"].(string); ok {
		t.source = source
	}

	placeholder := "Search users..."
	if p, ok := payload.Props["searchPlaceholder"].(string); ok && p != "" {
		placeholder = p
	}

	if styling, ok := payload.Props["styling"].(map[string]any); ok {
		if layout, ok := styling["layout"].(map[string]any); ok {
			if msg, ok := layout["emptyStateMessage"].(string); ok && msg != "" {
				t.emptyMessage = msg
			}
			if p, ok := layout["searchPlaceholder"].(string); ok && p != "" {
				placeholder = p
			}
		}
		if cols := parseColumns(styling["columns"]); len(cols) > 0 {
			t.columns = cols
		}
	}

	t.rows = parseRows(payload.Props["users"])

	input := textinput.New()
	input.Prompt = "/ "
	input.Placeholder = placeholder
	input.CharLimit = 100
	t.searchInput = input

	return t
}

func parseColumns(v any) []Column {
	items, ok := v.([]any)
	if !ok {
		return nil
	}

	var columns []Column
	for _, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		key, _ := m["key"].(string)
		if key == "" {
			continue
		}
		label, _ := m["label"].(string)
		if label == "" {
			label = key
		}
		sortable, _ := m["sortable"].(bool)
		searchable, _ := m["searchable"].(bool)
		columns = append(columns, Column{Key: key, Label: label, Sortable: sortable, Searchable: searchable})
	}
	return columns
}

func parseRows(v any) []map[string]any {
	switch rows := v.(type) {
	case []any:
		var result []map[string]any
		for _, row := range rows {
			if m, ok := row.(map[string]any); ok {
				result = append(result, m)
			}
		}
		return result
	case []map[string]any:
		return rows
	}
	return nil
}

// CycleSort advances the sort state of a column: selecting the current sort
// column cycles its direction, selecting another column starts it ascending.
func (t *UserTable) CycleSort(col int) {
	if col < 0 || col >= len(t.columns) || !t.columns[col].Sortable {
		return
	}

	if t.sortCol != col {
		t.sortCol = col
		t.sortDir = sortAsc
		return
	}

	t.sortDir = (t.sortDir + 1) % 3
	if t.sortDir == sortNone {
		t.sortCol = -1
	}
}

// VisibleRows recomputes the filtered, sorted row set from the original
// rows.
func (t *UserTable) VisibleRows() []map[string]any {
	rows := t.rows

	if query := strings.ToLower(strings.TrimSpace(t.searchInput.Value())); query != "" {
		var filtered []map[string]any
		for _, row := range rows {
			for _, col := range t.columns {
				if !col.Searchable {
					continue
				}
				if strings.Contains(strings.ToLower(cellString(row[col.Key])), query) {
					filtered = append(filtered, row)
					break
				}
			}
		}
		rows = filtered
	}

	if t.sortCol >= 0 && t.sortDir != sortNone {
		key := t.columns[t.sortCol].Key
		sorted := make([]map[string]any, len(rows))
		copy(sorted, rows)
		sort.SliceStable(sorted, func(i, j int) bool {
			less := cellLess(sorted[i][key], sorted[j][key])
			if t.sortDir == sortDesc {
				return !less && !cellEqual(sorted[i][key], sorted[j][key])
			}
			return less
		})
		rows = sorted
	}

	return rows
}

// cellString stringifies a cell value for display and searching. JSON
// numbers arrive as float64; integral values print without a fraction.
func cellString(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		if val == float64(int64(val)) {
			return strconv.FormatInt(int64(val), 10)
		}
		return strconv.FormatFloat(val, 'f', -1, 64)
	case int:
		return strconv.Itoa(val)
	case bool:
		return strconv.FormatBool(val)
	default:
		return fmt.Sprintf("%v", val)
	}
}

func cellLess(a, b any) bool {
	af, aok := cellNumber(a)
	bf, bok := cellNumber(b)
	if aok && bok {
		return af < bf
	}
	return strings.ToLower(cellString(a)) < strings.ToLower(cellString(b))
}

func cellEqual(a, b any) bool {
	return !cellLess(a, b) && !cellLess(b, a)
}

func cellNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	}
	return 0, false
}

// Render draws the table at the given width: title, search line, header
// with sort indicators, rows, and a results count.
func (t *UserTable) Render(width int) string {
	if width < 20 {
		width = 80
	}

	rows := t.VisibleRows()

	var b strings.Builder

	title := TitleStyle.Render(t.title)
	if t.source == appmodel.SourceFallback {
		title += " " + DimStyle.Render("(fallback data)")
	}
	b.WriteString(title + "\n")

	if t.focused || t.searchInput.Value() != "" {
		b.WriteString(t.searchInput.View() + "\n")
	}

	colWidth := (width - 4) / max(len(t.columns), 1)
	if colWidth < 6 {
		colWidth = 6
	}

	var header strings.Builder
	for i, col := range t.columns {
		label := col.Label
		if i == t.sortCol {
			switch t.sortDir {
			case sortAsc:
				label += " ▲"
			case sortDesc:
				label += " ▼"
			}
		}
		cell := padCell(label, colWidth)
		if t.focused && i == t.selectedCol {
			cell = SelectedStyle.Render(cell)
		} else {
			cell = TableHeaderStyle.Render(cell)
		}
		header.WriteString(cell)
	}
	b.WriteString(header.String() + "\n")
	b.WriteString(DimStyle.Render(strings.Repeat("─", min(width-4, colWidth*len(t.columns)))) + "\n")

	if len(rows) == 0 {
		b.WriteString(DimStyle.Render(t.emptyMessage) + "\n")
	}

	for _, row := range rows {
		var line strings.Builder
		for _, col := range t.columns {
			line.WriteString(padCell(cellString(row[col.Key]), colWidth))
		}
		b.WriteString(line.String() + "\n")
	}

	b.WriteString(DimStyle.Render(fmt.Sprintf("%d of %d users", len(rows), len(t.rows))))

	if t.focused {
		b.WriteString("\n" + FormatFooter("←/→", "Column", "Enter", "Sort", "/", "Search", "Esc", "Back"))
	}

	return TableBorderStyle.Width(width - 2).Render(b.String())
}

// padCell truncates or pads a cell value to the column width, rune-aware so
// wide characters keep the grid aligned.
func padCell(s string, width int) string {
	s = runewidth.Truncate(s, width-1, "…")
	return runewidth.FillRight(s, width)
}
