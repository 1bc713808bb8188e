package store

import (
	"context"
	"database/sql"
	"fmt"
)

// App is one row of the apps table.
type App struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Category    string `json:"category,omitempty"`
	Vendor      string `json:"vendor,omitempty"`
	Tier        string `json:"tier,omitempty"`
	OwnerTeam   string `json:"owner_team,omitempty"`
	SSORequired bool   `json:"sso_required"`
	Status      string `json:"status"`
}

// ListApps returns up to limit apps, optionally filtered by exact category.
func (s *Store) ListApps(ctx context.Context, category string, limit int) ([]App, error) {
	db, err := s.ensure()
	if err != nil {
		return nil, err
	}

	limit = ClampLimit(limit)

	query := `SELECT id, name, category, vendor, tier, owner_team, sso_required, status FROM apps`
	args := []any{}

	if category != "" {
		query += ` WHERE category = ?`
		args = append(args, category)
	}

	query += ` ORDER BY id LIMIT ?`
	args = append(args, limit)

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query apps: %w", err)
	}
	defer rows.Close()

	var apps []App
	for rows.Next() {
		var (
			app                               App
			category, vendor, tier, ownerTeam sql.NullString
			ssoRequired                       int
		)
		if err := rows.Scan(&app.ID, &app.Name, &category, &vendor, &tier, &ownerTeam, &ssoRequired, &app.Status); err != nil {
			return nil, fmt.Errorf("failed to scan app row: %w", err)
		}
		app.Category = category.String
		app.Vendor = vendor.String
		app.Tier = tier.String
		app.OwnerTeam = ownerTeam.String
		app.SSORequired = ssoRequired != 0
		apps = append(apps, app)
	}

	return apps, rows.Err()
}

// appIDByName resolves an app's natural key to its internal identifier.
func (s *Store) appIDByName(ctx context.Context, db queryRower, name string) (int64, error) {
	var id int64
	err := db.QueryRowContext(ctx, `SELECT id FROM apps WHERE name = ?`, name).Scan(&id)
	if err == sql.ErrNoRows {
		return 0, fmt.Errorf("%w: %s", ErrAppNotFound, name)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to look up app: %w", err)
	}
	return id, nil
}
