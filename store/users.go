package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// User is one row of the users table enriched with its assignment count,
// shaped for the table component (defaults applied, never-null strings).
type User struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Role       string `json:"role"`
	Status     string `json:"status"`
	LastActive string `json:"lastActive"`
	Team       string `json:"team"`
	Group      string `json:"group"`
	StartDate  string `json:"startDate"`
	AppsCount  int    `json:"appsCount"`
}

// NewUser carries the create_user parameters. Name and Email are required;
// the rest may be empty.
type NewUser struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	JobRole   string `json:"job_role,omitempty"`
	StartDate string `json:"start_date,omitempty"`
	Group     string `json:"group,omitempty"`
	Team      string `json:"team,omitempty"`
}

// ListUsers returns up to limit users, optionally filtered by a
// case-insensitive name substring, each enriched with its assignment count.
func (s *Store) ListUsers(ctx context.Context, search string, limit int) ([]User, error) {
	db, err := s.ensure()
	if err != nil {
		return nil, err
	}

	limit = ClampLimit(limit)

	query := `
		SELECT u.id, u.name, u.email, u.job_role, u.start_date, u."group", u.team,
		       COUNT(a.app_id) AS apps_count
		FROM users u
		LEFT JOIN user_app_assignments a ON a.user_id = u.id`
	args := []any{}

	if search != "" {
		query += ` WHERE u.name LIKE ? COLLATE NOCASE`
		args = append(args, "%"+search+"%")
	}

	query += ` GROUP BY u.id ORDER BY u.id LIMIT ?`
	args = append(args, limit)

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	var users []User
	for rows.Next() {
		var (
			id                              int64
			name, email                     string
			jobRole, startDate, group, team sql.NullString
			appsCount                       int
		)
		if err := rows.Scan(&id, &name, &email, &jobRole, &startDate, &group, &team, &appsCount); err != nil {
			return nil, fmt.Errorf("failed to scan user row: %w", err)
		}

		users = append(users, User{
			ID:         fmt.Sprintf("%d", id),
			Name:       name,
			Email:      email,
			Role:       orDefault(jobRole, "User"),
			Status:     "active",
			LastActive: "Unknown",
			Team:       orDefault(team, "N/A"),
			Group:      orDefault(group, "N/A"),
			StartDate:  orDefault(startDate, "N/A"),
			AppsCount:  appsCount,
		})
	}

	return users, rows.Err()
}

// CreateUser inserts a new user. Email is stored lowercased; inserting an
// existing email returns ErrDuplicateEmail.
func (s *Store) CreateUser(ctx context.Context, u NewUser) (*User, error) {
	db, err := s.ensure()
	if err != nil {
		return nil, err
	}

	email := strings.ToLower(u.Email)

	result, err := db.ExecContext(ctx,
		`INSERT INTO users (name, email, job_role, start_date, "group", team)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		u.Name, email, nullable(u.JobRole), nullable(u.StartDate), nullable(u.Group), nullable(u.Team),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to read new user id: %w", err)
	}

	created := &User{
		ID:         fmt.Sprintf("%d", id),
		Name:       u.Name,
		Email:      email,
		Role:       u.JobRole,
		Status:     "active",
		LastActive: "Unknown",
		Team:       u.Team,
		Group:      u.Group,
		StartDate:  u.StartDate,
	}
	if created.Role == "" {
		created.Role = "User"
	}
	return created, nil
}

// userIDByEmail resolves a user's natural key to its internal identifier.
func (s *Store) userIDByEmail(ctx context.Context, db queryRower, email string) (int64, error) {
	var id int64
	err := db.QueryRowContext(ctx, `SELECT id FROM users WHERE email = ?`, strings.ToLower(email)).Scan(&id)
	if err == sql.ErrNoRows {
		return 0, fmt.Errorf("%w: %s", ErrUserNotFound, email)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to look up user: %w", err)
	}
	return id, nil
}

func orDefault(s sql.NullString, def string) string {
	if s.Valid && s.String != "" {
		return s.String
	}
	return def
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
