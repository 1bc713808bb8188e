package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"
)

// queryRower is the subset of *sql.DB the natural-key lookups need.
type queryRower interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Assignment is one user→app assignment row.
type Assignment struct {
	UserID      int64  `json:"user_id"`
	AppID       int64  `json:"app_id"`
	RoleInApp   string `json:"role_in_app"`
	LicenseType string `json:"license_type"`
	AccessLevel string `json:"access_level"`
	Status      string `json:"status"`
	AssignedOn  string `json:"assigned_on"`
}

// UserAssignment is one assignment expanded with user and app attributes,
// the shape list_user_assignments reports.
type UserAssignment struct {
	AppName     string `json:"app_name"`
	RoleInApp   string `json:"role_in_app"`
	LicenseType string `json:"license_type"`
	Status      string `json:"status"`
	AssignedOn  string `json:"assigned_on"`
	Email       string `json:"email"`
	Team        string `json:"team,omitempty"`
	Group       string `json:"group,omitempty"`
}

// UpsertAssignment creates or updates the assignment for (user, app),
// resolving both natural keys first. The pair is the composite primary key,
// so repeating an assignment updates it in place.
func (s *Store) UpsertAssignment(ctx context.Context, userEmail, appName, roleInApp, licenseType, accessLevel, status string) (*Assignment, error) {
	db, err := s.ensure()
	if err != nil {
		return nil, err
	}

	userID, err := s.userIDByEmail(ctx, db, userEmail)
	if err != nil {
		return nil, err
	}

	appID, err := s.appIDByName(ctx, db, appName)
	if err != nil {
		return nil, err
	}

	assignedOn := time.Now().Format("2006-01-02")

	_, err = db.ExecContext(ctx,
		`INSERT INTO user_app_assignments (user_id, app_id, role_in_app, license_type, access_level, status, assigned_on)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(user_id, app_id) DO UPDATE SET
		   role_in_app = excluded.role_in_app,
		   license_type = excluded.license_type,
		   access_level = excluded.access_level,
		   status = excluded.status`,
		userID, appID, roleInApp, licenseType, accessLevel, status, assignedOn,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert assignment: %w", err)
	}

	assignment := &Assignment{
		UserID:      userID,
		AppID:       appID,
		RoleInApp:   roleInApp,
		LicenseType: licenseType,
		AccessLevel: accessLevel,
		Status:      status,
		AssignedOn:  assignedOn,
	}

	// Report the stored assigned_on, which an update leaves untouched.
	row := db.QueryRowContext(ctx,
		`SELECT assigned_on FROM user_app_assignments WHERE user_id = ? AND app_id = ?`,
		userID, appID,
	)
	if err := row.Scan(&assignment.AssignedOn); err != nil {
		return nil, fmt.Errorf("failed to read assignment: %w", err)
	}

	return assignment, nil
}

// ListAssignments returns the apps assigned to a user, newest first. The
// email natural key is matched lowercased, the same as userIDByEmail.
func (s *Store) ListAssignments(ctx context.Context, userEmail string) ([]UserAssignment, error) {
	db, err := s.ensure()
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx,
		`SELECT ap.name, a.role_in_app, a.license_type, a.status, a.assigned_on,
		        u.email, u.team, u."group"
		 FROM user_app_assignments a
		 JOIN users u ON u.id = a.user_id
		 JOIN apps ap ON ap.id = a.app_id
		 WHERE u.email = ?
		 ORDER BY a.assigned_on DESC`,
		strings.ToLower(userEmail),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query assignments: %w", err)
	}
	defer rows.Close()

	var assignments []UserAssignment
	for rows.Next() {
		var (
			ua          UserAssignment
			team, group sql.NullString
		)
		if err := rows.Scan(&ua.AppName, &ua.RoleInApp, &ua.LicenseType, &ua.Status, &ua.AssignedOn, &ua.Email, &team, &group); err != nil {
			return nil, fmt.Errorf("failed to scan assignment row: %w", err)
		}
		ua.Team = team.String
		ua.Group = group.String
		assignments = append(assignments, ua)
	}

	return assignments, rows.Err()
}
