package provider

import (
	"testing"

	mcptypes "github.com/mark3labs/mcp-go/mcp"
)

func sampleTools() []mcptypes.Tool {
	return []mcptypes.Tool{
		{
			Name:        "list_users",
			Description: "Return users (optionally filtered by name)",
			InputSchema: mcptypes.ToolInputSchema{
				Type: "object",
				Properties: map[string]any{
					"search": map[string]any{
						"type":        "string",
						"description": "Optional search term",
					},
					"limit": map[string]any{
						"type":        "integer",
						"description": "Maximum number of users",
					},
				},
			},
		},
		{
			Name:        "assign_user_to_app",
			Description: "Creates or updates an assignment",
			InputSchema: mcptypes.ToolInputSchema{
				Type: "object",
				Properties: map[string]any{
					"status": map[string]any{
						"type": "string",
						"enum": []any{"active", "revoked"},
					},
				},
				Required: []string{"user_email", "app_name"},
			},
		},
	}
}

func TestConvertToolsToAnthropicFormat(t *testing.T) {
	result := ConvertToolsToAnthropicFormat(sampleTools())

	if len(result) != 2 {
		t.Fatalf("got %d tools, want 2", len(result))
	}

	first := result[0].OfTool
	if first == nil {
		t.Fatal("first tool union has no tool variant")
	}
	if first.Name != "list_users" {
		t.Errorf("name: got %q", first.Name)
	}
	if first.Description.Value != "Return users (optionally filtered by name)" {
		t.Errorf("description: got %q", first.Description.Value)
	}
	if _, ok := first.InputSchema.Properties.(map[string]any)["search"]; !ok {
		t.Error("input schema lost the search property")
	}

	second := result[1].OfTool
	if len(second.InputSchema.Required) != 2 {
		t.Errorf("required: got %v", second.InputSchema.Required)
	}

	if ConvertToolsToAnthropicFormat(nil) != nil {
		t.Error("empty catalog must convert to nil")
	}
}

func TestConvertToolsToOpenAIFormat(t *testing.T) {
	result := ConvertToolsToOpenAIFormat(sampleTools())

	if len(result) != 2 {
		t.Fatalf("got %d tools, want 2", len(result))
	}

	fn := result[0].OfFunction
	if fn == nil {
		t.Fatal("first tool union has no function variant")
	}
	if fn.Function.Name != "list_users" {
		t.Errorf("name: got %q", fn.Function.Name)
	}
	if fn.Function.Parameters["type"] != "object" {
		t.Errorf("parameters type: got %v", fn.Function.Parameters["type"])
	}

	second := result[1].OfFunction
	required, _ := second.Function.Parameters["required"].([]string)
	if len(required) != 2 {
		t.Errorf("required: got %v", second.Function.Parameters["required"])
	}
}

func TestConvertToolsToOllama(t *testing.T) {
	result := ConvertToolsToOllama(sampleTools())

	if len(result) != 2 {
		t.Fatalf("got %d tools, want 2", len(result))
	}

	first := result[0]
	if first.Type != "function" || first.Function.Name != "list_users" {
		t.Errorf("envelope: %+v", first)
	}

	search, ok := first.Function.Parameters.Properties["search"]
	if !ok {
		t.Fatal("search property missing")
	}
	if len(search.Type) != 1 || search.Type[0] != "string" {
		t.Errorf("search type: got %v", search.Type)
	}
	if search.Description != "Optional search term" {
		t.Errorf("search description: got %q", search.Description)
	}

	status := result[1].Function.Parameters.Properties["status"]
	if len(status.Enum) != 2 {
		t.Errorf("status enum: got %v", status.Enum)
	}
}

func TestParseToolArguments(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want map[string]any
	}{
		{"valid object", `{"limit": 10, "search": "jane"}`, map[string]any{"limit": float64(10), "search": "jane"}},
		{"empty object", `{}`, map[string]any{}},
		{"invalid json", `{not json`, map[string]any{}},
		{"empty string", ``, map[string]any{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseToolArguments(tt.in)
			if got == nil {
				t.Fatal("got nil map")
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for k, v := range tt.want {
				if got[k] != v {
					t.Errorf("key %q: got %v, want %v", k, got[k], v)
				}
			}
		})
	}
}
