package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS actions (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL DEFAULT '',
		location TEXT NOT NULL DEFAULT '',
		description TEXT NOT NULL DEFAULT '',
		start_date DATE,
		end_date DATE,
		quarter TEXT NOT NULL DEFAULT '',
		departments TEXT[] NOT NULL DEFAULT '{}',
		professional_families TEXT[] NOT NULL DEFAULT '{}',
		selected_groups TEXT[] NOT NULL DEFAULT '{}',
		objectives TEXT[] NOT NULL DEFAULT '{}',
		student_participants INTEGER NOT NULL DEFAULT 0,
		teacher_participants INTEGER NOT NULL DEFAULT 0,
		rating INTEGER NOT NULL DEFAULT 0,
		comments TEXT NOT NULL DEFAULT '',
		created_by TEXT NOT NULL DEFAULT '',
		network TEXT NOT NULL DEFAULT '',
		center TEXT NOT NULL DEFAULT '',
		image_url TEXT,
		document_url TEXT,
		document_name TEXT,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_actions_network ON actions (network)`,
	`CREATE INDEX IF NOT EXISTS idx_actions_center ON actions (center)`,
	`CREATE TABLE IF NOT EXISTS report_jobs (
		id TEXT PRIMARY KEY,
		params JSONB NOT NULL,
		status TEXT NOT NULL,
		progress INTEGER NOT NULL DEFAULT 0,
		result_url TEXT,
		created_by TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL,
		finished_at TIMESTAMPTZ,
		error_message TEXT
	)`,
}

// EnsureSchema creates the tables used by the Postgres stores when missing.
func EnsureSchema(ctx context.Context, db *sqlx.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}
