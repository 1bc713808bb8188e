package tools

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"stackchat/model"
	"stackchat/store"
)

func liveExecutor(t *testing.T) *Executor {
	t.Helper()
	st := store.New(filepath.Join(t.TempDir(), "test.db"))
	t.Cleanup(func() { st.Close() })
	if err := st.Seed(context.Background()); err != nil {
		t.Fatalf("seed failed: %v", err)
	}
	return NewExecutor(st)
}

// unreachableExecutor wires an executor to a store whose path cannot be
// created, forcing every backend call onto the fallback path.
func unreachableExecutor(t *testing.T) *Executor {
	t.Helper()
	blocker := filepath.Join(t.TempDir(), "blocker")
	if err := os.WriteFile(blocker, []byte("x"), 0600); err != nil {
		t.Fatalf("failed to create blocker file: %v", err)
	}
	return NewExecutor(store.New(filepath.Join(blocker, "nested", "test.db")))
}

func TestInvokeUnknownTool(t *testing.T) {
	e := liveExecutor(t)

	_, err := e.Invoke(context.Background(), "list_userz", nil)
	if !errors.Is(err, ErrUnknownTool) {
		t.Fatalf("got %v, want ErrUnknownTool", err)
	}
	if !strings.Contains(err.Error(), "list_users") {
		t.Errorf("error carries no suggestion: %v", err)
	}
}

func TestInvokeLimitValidation(t *testing.T) {
	e := liveExecutor(t)
	ctx := context.Background()

	tests := []struct {
		name      string
		limit     any
		wantError bool
	}{
		{"fractional rejected", 2.5, true},
		{"string rejected", "10", true},
		{"integral float accepted", float64(10), false},
		{"out of range clamped", float64(500), false},
		{"negative clamped", float64(-3), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.Invoke(ctx, "list_users", map[string]any{"limit": tt.limit})

			if tt.wantError {
				var verr *ValidationError
				if !errors.As(err, &verr) {
					t.Errorf("got %v, want ValidationError", err)
				}
				return
			}
			if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestInvokeCreateUserValidation(t *testing.T) {
	e := liveExecutor(t)
	ctx := context.Background()

	tests := []struct {
		name  string
		args  map[string]any
		param string
	}{
		{"missing email", map[string]any{"name": "X"}, "email"},
		{"malformed email", map[string]any{"name": "X", "email": "not-an-email"}, "email"},
		{"empty name", map[string]any{"name": "", "email": "x@example.com"}, "name"},
		{"bad start date", map[string]any{"name": "X", "email": "x@example.com", "start_date": "03/01/2024"}, "start_date"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.Invoke(ctx, "create_user", tt.args)

			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("got %v, want ValidationError", err)
			}
			if verr.Param != tt.param {
				t.Errorf("param: got %q, want %q", verr.Param, tt.param)
			}
		})
	}
}

func TestInvokeCreateUserDuplicate(t *testing.T) {
	e := liveExecutor(t)
	ctx := context.Background()

	args := map[string]any{"name": "New Person", "email": "new@example.com"}
	if _, err := e.Invoke(ctx, "create_user", args); err != nil {
		t.Fatalf("first create failed: %v", err)
	}

	_, err := e.Invoke(ctx, "create_user", args)
	if !errors.Is(err, ErrDuplicateEntity) {
		t.Errorf("got %v, want ErrDuplicateEntity", err)
	}
}

func TestInvokeAssignStatusEnum(t *testing.T) {
	e := liveExecutor(t)

	_, err := e.Invoke(context.Background(), "assign_user_to_app", map[string]any{
		"user_email": "john@example.com",
		"app_name":   "Slack",
		"status":     "paused",
	})

	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("got %v, want ValidationError", err)
	}
	if verr.Param != "status" {
		t.Errorf("param: got %q, want %q", verr.Param, "status")
	}
}

func TestInvokeAssignUnknownUser(t *testing.T) {
	e := liveExecutor(t)

	_, err := e.Invoke(context.Background(), "assign_user_to_app", map[string]any{
		"user_email": "ghost@example.com",
		"app_name":   "Slack",
	})

	var berr *BackendError
	if !errors.As(err, &berr) {
		t.Fatalf("got %v, want BackendError", err)
	}
	if !errors.Is(err, store.ErrUserNotFound) {
		t.Errorf("got %v, want wrapped ErrUserNotFound", err)
	}
}

func TestInvokeListUsersResultShape(t *testing.T) {
	e := liveExecutor(t)

	result, err := e.Invoke(context.Background(), "list_users", nil)
	if err != nil {
		t.Fatalf("Invoke failed: %v", err)
	}

	const prefix = "Here are the users in your system:\n\n"
	if !strings.HasPrefix(result.Text, prefix) {
		t.Fatalf("result text missing lead-in: %q", result.Text[:min(len(result.Text), 60)])
	}
	if result.Source != "" {
		t.Errorf("live result tagged with source %q", result.Source)
	}

	var payload model.ComponentPayload
	if err := json.Unmarshal([]byte(strings.TrimPrefix(result.Text, prefix)), &payload); err != nil {
		t.Fatalf("result payload is not valid JSON: %v", err)
	}
	if payload.Type != "UserTable" {
		t.Errorf("payload type: got %q, want %q", payload.Type, "UserTable")
	}

	users, ok := payload.Props["users"].([]any)
	if !ok || len(users) != 3 {
		t.Errorf("payload users: got %v", payload.Props["users"])
	}
	if _, ok := payload.Props["styling"].(map[string]any); !ok {
		t.Error("payload carries no styling descriptor")
	}
}

func TestInvokeAssignRoundTrip(t *testing.T) {
	e := liveExecutor(t)
	ctx := context.Background()

	result, err := e.Invoke(ctx, "assign_user_to_app", map[string]any{
		"user_email":  "ada@example.com",
		"app_name":    "GitHub",
		"role_in_app": "Maintainer",
	})
	if err != nil {
		t.Fatalf("assign failed: %v", err)
	}
	if !strings.Contains(result.Text, "Maintainer") {
		t.Errorf("assignment result missing role: %s", result.Text)
	}

	listed, err := e.Invoke(ctx, "list_user_assignments", map[string]any{
		"user_email": "ada@example.com",
	})
	if err != nil {
		t.Fatalf("list_user_assignments failed: %v", err)
	}
	if !strings.Contains(listed.Text, "GitHub") {
		t.Errorf("assignments missing GitHub: %s", listed.Text)
	}
}

func TestFallbackOnUnreachableBackend(t *testing.T) {
	e := unreachableExecutor(t)
	ctx := context.Background()

	tests := []struct {
		name string
		tool string
		args map[string]any
	}{
		{"health", "health", nil},
		{"list_users", "list_users", nil},
		{"list_apps", "list_apps", nil},
		{"assign", "assign_user_to_app", map[string]any{"user_email": "a@b.co", "app_name": "Slack"}},
		{"assignments", "list_user_assignments", map[string]any{"user_email": "a@b.co"}},
		{"create", "create_user", map[string]any{"name": "X", "email": "x@example.com"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := e.Invoke(ctx, tt.tool, tt.args)
			if err != nil {
				t.Fatalf("fallback path errored: %v", err)
			}
			if result.Source != model.SourceFallback {
				t.Errorf("source: got %q, want %q", result.Source, model.SourceFallback)
			}
			if !strings.Contains(result.Text, model.SourceFallback) {
				t.Errorf("fallback payload carries no source marker: %s", result.Text)
			}
		})
	}
}

// Validation still runs before the backend is consulted, so an unreachable
// store never masks bad arguments.
func TestValidationPrecedesFallback(t *testing.T) {
	e := unreachableExecutor(t)

	_, err := e.Invoke(context.Background(), "create_user", map[string]any{
		"name":  "X",
		"email": "not-an-email",
	})

	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Errorf("got %v, want ValidationError", err)
	}
}
