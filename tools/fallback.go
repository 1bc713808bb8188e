package tools

import (
	"fmt"
	"time"

	"stackchat/model"
	"stackchat/store"
)

// Deterministic mock payloads served when the backend is unreachable. They
// are structurally identical to live results so the orchestration loop never
// stalls on total backend unavailability; every one carries the fallback
// source marker so callers can tell synthetic data from real.

func fallbackUsers() []store.User {
	return []store.User{
		{
			ID: "1", Name: "John Doe", Email: "john@example.com",
			Role: "Developer", Status: "active", LastActive: "Unknown",
			Team: "Engineering", Group: "Backend", StartDate: "2024-01-15",
		},
		{
			ID: "2", Name: "Jane Smith", Email: "jane@example.com",
			Role: "Designer", Status: "active", LastActive: "Unknown",
			Team: "Design", Group: "UI/UX", StartDate: "2024-02-01",
		},
	}
}

func fallbackResult(name string, args map[string]any) (*model.ToolResult, error) {
	switch name {
	case "health":
		text, err := marshalIndented(map[string]any{
			"ok":      true,
			"time":    time.Now().UTC().Format(time.RFC3339),
			"backend": "unreachable",
			"source":  model.SourceFallback,
		})
		if err != nil {
			return nil, err
		}
		return &model.ToolResult{OK: true, Text: text, Source: model.SourceFallback}, nil

	case "list_users":
		search, _ := args["search"].(string)
		payload := BuildUserTablePayload(fallbackUsers(), search, model.SourceFallback)
		text, err := marshalPayload(payload)
		if err != nil {
			return nil, err
		}
		return &model.ToolResult{
			OK:     true,
			Text:   "Here are the users in your system:\n\n" + text,
			Source: model.SourceFallback,
		}, nil

	case "list_apps":
		text, err := marshalIndented([]map[string]any{
			{"id": 1, "name": "Slack", "category": "Communication", "vendor": "Slack Technologies", "tier": "Pro", "source": model.SourceFallback},
			{"id": 2, "name": "Figma", "category": "Design", "vendor": "Figma Inc", "tier": "Professional", "source": model.SourceFallback},
		})
		if err != nil {
			return nil, err
		}
		return &model.ToolResult{OK: true, Text: text, Source: model.SourceFallback}, nil

	case "assign_user_to_app":
		userEmail, _ := args["user_email"].(string)
		appName, _ := args["app_name"].(string)
		text, err := marshalIndented(map[string]any{
			"success": true,
			"message": fmt.Sprintf("User %s assigned to %s", userEmail, appName),
			"assignment": map[string]any{
				"user_email":  userEmail,
				"app_name":    appName,
				"role_in_app": stringOrDefault(args, "role_in_app", "Member"),
				"status":      stringOrDefault(args, "status", "active"),
			},
			"source": model.SourceFallback,
		})
		if err != nil {
			return nil, err
		}
		return &model.ToolResult{OK: true, Text: text, Source: model.SourceFallback}, nil

	case "list_user_assignments":
		userEmail, _ := args["user_email"].(string)
		text, err := marshalIndented([]map[string]any{
			{
				"app_name":     "Slack",
				"role_in_app":  "Member",
				"license_type": "Seat",
				"status":       "active",
				"assigned_on":  "2024-01-15",
				"email":        userEmail,
				"source":       model.SourceFallback,
			},
		})
		if err != nil {
			return nil, err
		}
		return &model.ToolResult{OK: true, Text: text, Source: model.SourceFallback}, nil

	case "create_user":
		text, err := marshalIndented(map[string]any{
			"success": true,
			"user": map[string]any{
				"id":         1000,
				"name":       args["name"],
				"email":      args["email"],
				"job_role":   args["job_role"],
				"start_date": args["start_date"],
				"group":      args["group"],
				"team":       args["team"],
				"created_at": time.Now().UTC().Format(time.RFC3339),
			},
			"source": model.SourceFallback,
		})
		if err != nil {
			return nil, err
		}
		return &model.ToolResult{OK: true, Text: text, Source: model.SourceFallback}, nil
	}

	return nil, fmt.Errorf("%w: %s", ErrUnknownTool, name)
}

func stringOrDefault(args map[string]any, key, def string) string {
	if v, ok := args[key].(string); ok && v != "" {
		return v
	}
	return def
}
