package tools

import (
	mcptypes "github.com/mark3labs/mcp-go/mcp"
)

// catalog is the fixed set of operations advertised to the LLM. Defined once
// at process start and shared read-only; the orchestrator resends it on
// every request because the LLM capability is stateless across calls.
var catalog = []mcptypes.Tool{
	{
		Name:        "health",
		Description: "Simple status ping to check if the backend is running",
		InputSchema: mcptypes.ToolInputSchema{
			Type:       "object",
			Properties: map[string]any{},
		},
	},
	{
		Name:        "list_users",
		Description: "Return users (optionally filtered by name)",
		InputSchema: mcptypes.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"search": map[string]any{
					"type":        "string",
					"description": "Optional search term to filter users by name",
				},
				"limit": map[string]any{
					"type":        "integer",
					"description": "Maximum number of users to return (1-100)",
					"minimum":     1,
					"maximum":     100,
					"default":     25,
				},
			},
		},
	},
	{
		Name:        "list_apps",
		Description: "Return apps (optionally by category)",
		InputSchema: mcptypes.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"category": map[string]any{
					"type":        "string",
					"description": "Optional category to filter apps",
				},
				"limit": map[string]any{
					"type":        "integer",
					"description": "Maximum number of apps to return (1-100)",
					"minimum":     1,
					"maximum":     100,
					"default":     25,
				},
			},
		},
	},
	{
		Name:        "assign_user_to_app",
		Description: "Creates or updates a user→app assignment",
		InputSchema: mcptypes.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"user_email": map[string]any{
					"type":        "string",
					"format":      "email",
					"description": "Email of the user to assign",
				},
				"app_name": map[string]any{
					"type":        "string",
					"description": "Name of the app to assign the user to",
				},
				"role_in_app": map[string]any{
					"type":        "string",
					"description": "Role of the user in the app",
					"default":     "Member",
				},
				"license_type": map[string]any{
					"type":        "string",
					"description": "Type of license for the user",
					"default":     "Seat",
				},
				"access_level": map[string]any{
					"type":        "string",
					"description": "Access level for the user",
					"default":     "Default",
				},
				"status": map[string]any{
					"type":        "string",
					"enum":        []any{"active", "revoked"},
					"description": "Status of the assignment",
					"default":     "active",
				},
			},
			Required: []string{"user_email", "app_name"},
		},
	},
	{
		Name:        "list_user_assignments",
		Description: "Apps assigned to a user",
		InputSchema: mcptypes.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"user_email": map[string]any{
					"type":        "string",
					"format":      "email",
					"description": "Email of the user to get assignments for",
				},
			},
			Required: []string{"user_email"},
		},
	},
	{
		Name:        "create_user",
		Description: "Create a new user in the 'users' table",
		InputSchema: mcptypes.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"name": map[string]any{
					"type":        "string",
					"description": "Full name of the user",
					"minLength":   1,
				},
				"email": map[string]any{
					"type":        "string",
					"format":      "email",
					"description": "Email address of the user",
				},
				"job_role": map[string]any{
					"type":        "string",
					"description": "Job role of the user",
				},
				"start_date": map[string]any{
					"type":        "string",
					"pattern":     `^\d{4}-\d{2}-\d{2}$`,
					"description": "Start date in YYYY-MM-DD format",
				},
				"group": map[string]any{
					"type":        "string",
					"description": "Group the user belongs to",
				},
				"team": map[string]any{
					"type":        "string",
					"description": "Team the user belongs to",
				},
			},
			Required: []string{"name", "email"},
		},
	},
}

// Catalog returns the ordered tool definitions. Total: it cannot fail and
// always returns the same set.
func Catalog() []mcptypes.Tool {
	return catalog
}

// Names returns the registered tool names in catalog order.
func Names() []string {
	names := make([]string, len(catalog))
	for i, tool := range catalog {
		names[i] = tool.Name
	}
	return names
}

// IsRegistered reports whether name belongs to the catalog.
func IsRegistered(name string) bool {
	for _, tool := range catalog {
		if tool.Name == name {
			return true
		}
	}
	return false
}
