package store

import (
	"context"
	"fmt"
)

// Seed loads a small demo dataset (users, apps, a few assignments) so the
// table views have something to show against a fresh database. It is a
// no-op when the users table already has rows.
func (s *Store) Seed(ctx context.Context) error {
	db, err := s.ensure()
	if err != nil {
		return err
	}

	var count int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&count); err != nil {
		return fmt.Errorf("failed to check seed state: %w", err)
	}
	if count > 0 {
		return nil
	}

	users := []NewUser{
		{Name: "John Doe", Email: "john@example.com", JobRole: "Developer", StartDate: "2024-01-15", Group: "Backend", Team: "Engineering"},
		{Name: "Jane Smith", Email: "jane@example.com", JobRole: "Designer", StartDate: "2024-02-01", Group: "UI/UX", Team: "Design"},
		{Name: "Ada Park", Email: "ada@example.com", JobRole: "Product Manager", StartDate: "2023-11-06", Group: "Platform", Team: "Product"},
	}
	for _, u := range users {
		if _, err := s.CreateUser(ctx, u); err != nil {
			return fmt.Errorf("failed to seed user %s: %w", u.Email, err)
		}
	}

	apps := []App{
		{Name: "Slack", Category: "Communication", Vendor: "Slack Technologies", Tier: "Pro", OwnerTeam: "IT", Status: "active"},
		{Name: "Figma", Category: "Design", Vendor: "Figma Inc", Tier: "Professional", OwnerTeam: "Design", SSORequired: true, Status: "active"},
		{Name: "GitHub", Category: "Development", Vendor: "GitHub Inc", Tier: "Enterprise", OwnerTeam: "Engineering", SSORequired: true, Status: "active"},
	}
	for _, a := range apps {
		_, err := db.ExecContext(ctx,
			`INSERT INTO apps (name, category, vendor, tier, owner_team, sso_required, status)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			a.Name, a.Category, a.Vendor, a.Tier, a.OwnerTeam, boolToInt(a.SSORequired), a.Status,
		)
		if err != nil {
			return fmt.Errorf("failed to seed app %s: %w", a.Name, err)
		}
	}

	seedAssignments := []struct{ email, app string }{
		{"john@example.com", "Slack"},
		{"john@example.com", "GitHub"},
		{"jane@example.com", "Figma"},
	}
	for _, sa := range seedAssignments {
		if _, err := s.UpsertAssignment(ctx, sa.email, sa.app, "Member", "Seat", "Default", "active"); err != nil {
			return fmt.Errorf("failed to seed assignment %s -> %s: %w", sa.email, sa.app, err)
		}
	}

	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
