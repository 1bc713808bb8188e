package ui

import (
	"strings"
	"testing"

	appmodel "stackchat/model"
)

func testPayload() *appmodel.ComponentPayload {
	return &appmodel.ComponentPayload{
		Type: "UserTable",
		Props: map[string]any{
			"users": []any{
				map[string]any{"name": "Bob", "email": "bob@example.com", "role": "Developer", "status": "active", "appsCount": float64(3)},
				map[string]any{"name": "alice", "email": "alice@example.com", "role": "Designer", "status": "inactive", "appsCount": float64(1)},
				map[string]any{"name": "Carol", "email": "carol@example.com", "role": "Manager", "status": "active", "appsCount": float64(2)},
			},
		},
	}
}

func names(rows []map[string]any) []string {
	out := make([]string, len(rows))
	for i, row := range rows {
		out[i], _ = row["name"].(string)
	}
	return out
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestCycleSortTriState(t *testing.T) {
	table := NewUserTable(testPayload())

	original := []string{"Bob", "alice", "Carol"}
	if got := names(table.VisibleRows()); !equalStrings(got, original) {
		t.Fatalf("initial order: got %v", got)
	}

	// First press: ascending, case-insensitive.
	table.CycleSort(0)
	if got := names(table.VisibleRows()); !equalStrings(got, []string{"alice", "Bob", "Carol"}) {
		t.Errorf("ascending: got %v", got)
	}

	// Second press: descending.
	table.CycleSort(0)
	if got := names(table.VisibleRows()); !equalStrings(got, []string{"Carol", "Bob", "alice"}) {
		t.Errorf("descending: got %v", got)
	}

	// Third press: back to the original order.
	table.CycleSort(0)
	if got := names(table.VisibleRows()); !equalStrings(got, original) {
		t.Errorf("reset: got %v", got)
	}
	if table.sortCol != -1 {
		t.Errorf("sortCol not cleared: %d", table.sortCol)
	}
}

func TestCycleSortSwitchColumnResets(t *testing.T) {
	table := NewUserTable(testPayload())

	table.CycleSort(0)
	table.CycleSort(0) // name descending
	table.CycleSort(1) // switch to email

	if table.sortCol != 1 || table.sortDir != sortAsc {
		t.Errorf("switching columns must start ascending: col=%d dir=%d", table.sortCol, table.sortDir)
	}
	if got := names(table.VisibleRows()); !equalStrings(got, []string{"alice", "Bob", "Carol"}) {
		t.Errorf("email ascending: got %v", got)
	}
}

func TestCycleSortIgnoresUnsortable(t *testing.T) {
	payload := testPayload()
	payload.Props["styling"] = map[string]any{
		"columns": []any{
			map[string]any{"key": "name", "label": "Name", "sortable": false, "searchable": true},
		},
	}
	table := NewUserTable(payload)

	table.CycleSort(0)
	if table.sortCol != -1 {
		t.Errorf("unsortable column accepted sort: col=%d", table.sortCol)
	}
}

func TestNumericSort(t *testing.T) {
	payload := testPayload()
	payload.Props["styling"] = map[string]any{
		"columns": []any{
			map[string]any{"key": "name", "label": "Name", "sortable": true, "searchable": true},
			map[string]any{"key": "appsCount", "label": "Apps", "sortable": true, "searchable": false},
		},
	}
	table := NewUserTable(payload)

	table.CycleSort(1)
	if got := names(table.VisibleRows()); !equalStrings(got, []string{"alice", "Carol", "Bob"}) {
		t.Errorf("numeric ascending: got %v", got)
	}
}

func TestSearchFilters(t *testing.T) {
	table := NewUserTable(testPayload())

	table.searchInput.SetValue("ALI")
	if got := names(table.VisibleRows()); !equalStrings(got, []string{"alice"}) {
		t.Errorf("case-insensitive search: got %v", got)
	}

	// Clearing the query restores the full set; filtering is never cumulative.
	table.searchInput.SetValue("")
	if got := table.VisibleRows(); len(got) != 3 {
		t.Errorf("cleared search: got %d rows", len(got))
	}

	table.searchInput.SetValue("designer")
	if got := names(table.VisibleRows()); !equalStrings(got, []string{"alice"}) {
		t.Errorf("search across columns: got %v", got)
	}
}

func TestSearchSkipsUnsearchableColumns(t *testing.T) {
	payload := testPayload()
	payload.Props["styling"] = map[string]any{
		"columns": []any{
			map[string]any{"key": "name", "label": "Name", "sortable": true, "searchable": true},
			map[string]any{"key": "appsCount", "label": "Apps", "sortable": true, "searchable": false},
		},
	}
	table := NewUserTable(payload)

	table.searchInput.SetValue("3")
	if got := table.VisibleRows(); len(got) != 0 {
		t.Errorf("unsearchable column matched: %v", names(got))
	}
}

func TestSearchThenSort(t *testing.T) {
	table := NewUserTable(testPayload())

	table.searchInput.SetValue("active")
	table.CycleSort(0)

	got := names(table.VisibleRows())
	if !equalStrings(got, []string{"alice", "Bob", "Carol"}) {
		t.Errorf("filtered+sorted: got %v", got)
	}
}

func TestRenderCountsAndFallbackMarker(t *testing.T) {
	payload := testPayload()
	payload.Props["source"] = appmodel.SourceFallback
	payload.Props["title"] = "Users (Mock Data)"
	table := NewUserTable(payload)
	table.searchInput.SetValue("bob")

	out := table.Render(80)
	if !strings.Contains(out, "1 of 3 users") {
		t.Errorf("missing results count: %s", out)
	}
	if !strings.Contains(out, "fallback data") {
		t.Errorf("missing fallback marker: %s", out)
	}
}

func TestParseRowsShapes(t *testing.T) {
	fromMaps := parseRows([]map[string]any{{"name": "x"}})
	if len(fromMaps) != 1 {
		t.Errorf("typed slice: got %d rows", len(fromMaps))
	}

	fromAny := parseRows([]any{map[string]any{"name": "x"}, "not a row"})
	if len(fromAny) != 1 {
		t.Errorf("mixed slice: got %d rows", len(fromAny))
	}

	if parseRows(nil) != nil {
		t.Error("nil input must yield nil rows")
	}
}
