package tools

import (
	"testing"
)

func TestCatalogNames(t *testing.T) {
	want := []string{
		"health",
		"list_users",
		"list_apps",
		"assign_user_to_app",
		"list_user_assignments",
		"create_user",
	}

	got := Names()
	if len(got) != len(want) {
		t.Fatalf("got %d tools, want %d", len(got), len(want))
	}
	for i, name := range want {
		if got[i] != name {
			t.Errorf("tool %d: got %q, want %q", i, got[i], name)
		}
	}
}

func TestIsRegistered(t *testing.T) {
	for _, name := range Names() {
		if !IsRegistered(name) {
			t.Errorf("IsRegistered(%q) = false", name)
		}
	}
	if IsRegistered("delete_everything") {
		t.Error("IsRegistered accepted an unknown name")
	}
}

func TestCatalogSchemas(t *testing.T) {
	byName := map[string]int{}
	for i, tool := range Catalog() {
		byName[tool.Name] = i
	}

	assign := Catalog()[byName["assign_user_to_app"]]
	required := map[string]bool{}
	for _, r := range assign.InputSchema.Required {
		required[r] = true
	}
	if !required["user_email"] || !required["app_name"] {
		t.Errorf("assign_user_to_app required: got %v", assign.InputSchema.Required)
	}

	status, ok := assign.InputSchema.Properties["status"].(map[string]any)
	if !ok {
		t.Fatal("assign_user_to_app has no status property")
	}
	enum, _ := status["enum"].([]any)
	if len(enum) != 2 || enum[0] != "active" || enum[1] != "revoked" {
		t.Errorf("status enum: got %v", enum)
	}

	listUsers := Catalog()[byName["list_users"]]
	limit, ok := listUsers.InputSchema.Properties["limit"].(map[string]any)
	if !ok {
		t.Fatal("list_users has no limit property")
	}
	if limit["minimum"] != 1 || limit["maximum"] != 100 || limit["default"] != 25 {
		t.Errorf("limit bounds: got %v", limit)
	}

	createUser := Catalog()[byName["create_user"]]
	startDate, ok := createUser.InputSchema.Properties["start_date"].(map[string]any)
	if !ok {
		t.Fatal("create_user has no start_date property")
	}
	if startDate["pattern"] != `^\d{4}-\d{2}-\d{2}$` {
		t.Errorf("start_date pattern: got %v", startDate["pattern"])
	}
}
