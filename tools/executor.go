package tools

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/sahilm/fuzzy"

	"stackchat/config"
	"stackchat/model"
	"stackchat/store"
)

var (
	emailRe     = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	startDateRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
)

// Executor dispatches tool invocations against the backend datastore. On
// transport-level store failures it serves deterministic fallback payloads
// tagged with the fallback source marker instead of failing the call.
type Executor struct {
	store *store.Store
}

// NewExecutor creates an executor bound to the given datastore handle.
func NewExecutor(st *store.Store) *Executor {
	return &Executor{store: st}
}

// Invoke validates and runs one tool call. Unknown names, validation
// problems and domain conflicts return errors (folded into the conversation
// by the orchestrator); backend unreachability degrades to fallback data.
func (e *Executor) Invoke(ctx context.Context, name string, args map[string]any) (*model.ToolResult, error) {
	if args == nil {
		args = map[string]any{}
	}

	if !IsRegistered(name) {
		if suggestion := closestToolName(name); suggestion != "" {
			return nil, fmt.Errorf("%w: %s (did you mean %q?)", ErrUnknownTool, name, suggestion)
		}
		return nil, fmt.Errorf("%w: %s", ErrUnknownTool, name)
	}

	switch name {
	case "health":
		return e.health(ctx)
	case "list_users":
		return e.listUsers(ctx, args)
	case "list_apps":
		return e.listApps(ctx, args)
	case "assign_user_to_app":
		return e.assignUserToApp(ctx, args)
	case "list_user_assignments":
		return e.listUserAssignments(ctx, args)
	case "create_user":
		return e.createUser(ctx, args)
	}

	return nil, fmt.Errorf("%w: %s", ErrUnknownTool, name)
}

func (e *Executor) health(ctx context.Context) (*model.ToolResult, error) {
	if err := e.store.Ping(ctx); err != nil {
		return e.fallback(ctx, "health", nil, err)
	}

	text, err := marshalIndented(map[string]any{
		"ok":      true,
		"time":    time.Now().UTC().Format(time.RFC3339),
		"backend": "connected",
	})
	if err != nil {
		return nil, err
	}
	return &model.ToolResult{OK: true, Text: text}, nil
}

func (e *Executor) listUsers(ctx context.Context, args map[string]any) (*model.ToolResult, error) {
	search, err := optionalString("list_users", args, "search")
	if err != nil {
		return nil, err
	}
	limit, err := limitArg("list_users", args)
	if err != nil {
		return nil, err
	}

	users, err := e.store.ListUsers(ctx, search, limit)
	if err != nil {
		return e.fallback(ctx, "list_users", args, err)
	}
	if users == nil {
		users = []store.User{}
	}

	payload := BuildUserTablePayload(users, search, "")
	text, err := marshalPayload(payload)
	if err != nil {
		return nil, err
	}

	return &model.ToolResult{
		OK:   true,
		Text: "Here are the users in your system:\n\n" + text,
	}, nil
}

func (e *Executor) listApps(ctx context.Context, args map[string]any) (*model.ToolResult, error) {
	category, err := optionalString("list_apps", args, "category")
	if err != nil {
		return nil, err
	}
	limit, err := limitArg("list_apps", args)
	if err != nil {
		return nil, err
	}

	apps, err := e.store.ListApps(ctx, category, limit)
	if err != nil {
		return e.fallback(ctx, "list_apps", args, err)
	}
	if apps == nil {
		apps = []store.App{}
	}

	text, err := marshalIndented(apps)
	if err != nil {
		return nil, err
	}
	return &model.ToolResult{OK: true, Text: text}, nil
}

func (e *Executor) assignUserToApp(ctx context.Context, args map[string]any) (*model.ToolResult, error) {
	userEmail, err := requiredEmail("assign_user_to_app", args, "user_email")
	if err != nil {
		return nil, err
	}
	appName, err := requiredString("assign_user_to_app", args, "app_name")
	if err != nil {
		return nil, err
	}

	roleInApp := stringOrDefault(args, "role_in_app", "Member")
	licenseType := stringOrDefault(args, "license_type", "Seat")
	accessLevel := stringOrDefault(args, "access_level", "Default")
	status := stringOrDefault(args, "status", "active")
	if status != "active" && status != "revoked" {
		return nil, &ValidationError{
			Tool: "assign_user_to_app", Param: "status",
			Reason: fmt.Sprintf("must be active or revoked, got %q", status),
		}
	}

	assignment, err := e.store.UpsertAssignment(ctx, userEmail, appName, roleInApp, licenseType, accessLevel, status)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) || errors.Is(err, store.ErrAppNotFound) {
			return nil, &BackendError{Tool: "assign_user_to_app", Err: err}
		}
		return e.fallback(ctx, "assign_user_to_app", args, err)
	}

	text, err := marshalIndented(assignment)
	if err != nil {
		return nil, err
	}
	return &model.ToolResult{OK: true, Text: text}, nil
}

func (e *Executor) listUserAssignments(ctx context.Context, args map[string]any) (*model.ToolResult, error) {
	userEmail, err := requiredEmail("list_user_assignments", args, "user_email")
	if err != nil {
		return nil, err
	}

	assignments, err := e.store.ListAssignments(ctx, userEmail)
	if err != nil {
		return e.fallback(ctx, "list_user_assignments", args, err)
	}
	if assignments == nil {
		assignments = []store.UserAssignment{}
	}

	text, err := marshalIndented(assignments)
	if err != nil {
		return nil, err
	}
	return &model.ToolResult{OK: true, Text: text}, nil
}

func (e *Executor) createUser(ctx context.Context, args map[string]any) (*model.ToolResult, error) {
	name, err := requiredString("create_user", args, "name")
	if err != nil {
		return nil, err
	}
	email, err := requiredEmail("create_user", args, "email")
	if err != nil {
		return nil, err
	}

	jobRole, err := optionalString("create_user", args, "job_role")
	if err != nil {
		return nil, err
	}
	startDate, err := optionalString("create_user", args, "start_date")
	if err != nil {
		return nil, err
	}
	if startDate != "" && !startDateRe.MatchString(startDate) {
		return nil, &ValidationError{
			Tool: "create_user", Param: "start_date",
			Reason: fmt.Sprintf("must be YYYY-MM-DD, got %q", startDate),
		}
	}
	group, err := optionalString("create_user", args, "group")
	if err != nil {
		return nil, err
	}
	team, err := optionalString("create_user", args, "team")
	if err != nil {
		return nil, err
	}

	created, err := e.store.CreateUser(ctx, store.NewUser{
		Name: name, Email: email,
		JobRole: jobRole, StartDate: startDate, Group: group, Team: team,
	})
	if err != nil {
		if errors.Is(err, store.ErrDuplicateEmail) {
			return nil, fmt.Errorf("%w: a user with that email already exists", ErrDuplicateEntity)
		}
		return e.fallback(ctx, "create_user", args, err)
	}

	text, err := marshalIndented(map[string]any{
		"success": true,
		"user":    created,
	})
	if err != nil {
		return nil, err
	}
	return &model.ToolResult{OK: true, Text: text}, nil
}

// fallback serves the deterministic mock payload for a tool after a
// transport-level store failure.
func (e *Executor) fallback(_ context.Context, name string, args map[string]any, cause error) (*model.ToolResult, error) {
	if config.DebugLog != nil {
		config.DebugLog.Printf("Backend call for %s failed, serving fallback data: %v", name, cause)
	}
	return fallbackResult(name, args)
}

// closestToolName suggests the registered name nearest to an unknown one.
func closestToolName(name string) string {
	matches := fuzzy.Find(name, Names())
	if len(matches) == 0 {
		return ""
	}
	return matches[0].Str
}

func requiredString(tool string, args map[string]any, param string) (string, error) {
	v, ok := args[param]
	if !ok || v == nil {
		return "", &ValidationError{Tool: tool, Param: param, Reason: "required parameter is missing"}
	}
	s, ok := v.(string)
	if !ok {
		return "", &ValidationError{Tool: tool, Param: param, Reason: fmt.Sprintf("must be a string, got %T", v)}
	}
	if s == "" {
		return "", &ValidationError{Tool: tool, Param: param, Reason: "must not be empty"}
	}
	return s, nil
}

func optionalString(tool string, args map[string]any, param string) (string, error) {
	v, ok := args[param]
	if !ok || v == nil {
		return "", nil
	}
	s, ok := v.(string)
	if !ok {
		return "", &ValidationError{Tool: tool, Param: param, Reason: fmt.Sprintf("must be a string, got %T", v)}
	}
	return s, nil
}

func requiredEmail(tool string, args map[string]any, param string) (string, error) {
	s, err := requiredString(tool, args, param)
	if err != nil {
		return "", err
	}
	if !emailRe.MatchString(s) {
		return "", &ValidationError{Tool: tool, Param: param, Reason: fmt.Sprintf("malformed email address %q", s)}
	}
	return s, nil
}

// limitArg extracts the limit parameter. JSON numbers arrive as float64;
// fractional or non-numeric values are rejected, out-of-range integers are
// clamped to [1,100].
func limitArg(tool string, args map[string]any) (int, error) {
	v, ok := args["limit"]
	if !ok || v == nil {
		return 25, nil
	}

	var limit int
	switch n := v.(type) {
	case float64:
		if n != float64(int(n)) {
			return 0, &ValidationError{Tool: tool, Param: "limit", Reason: fmt.Sprintf("must be an integer, got %v", n)}
		}
		limit = int(n)
	case int:
		limit = n
	default:
		return 0, &ValidationError{Tool: tool, Param: "limit", Reason: fmt.Sprintf("must be an integer, got %T", v)}
	}

	return store.ClampLimit(limit), nil
}
