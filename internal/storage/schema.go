// Package storage handles all database operations for the timing board.
package storage

import (
	"database/sql"
	"fmt"
)

// InitSchema creates all required tables and indexes.
// This is idempotent - safe to call multiple times.
func InitSchema(db *sql.DB) error {
	// Enable foreign key constraints
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	ddlStatements := []string{
		// zones table: one row per tracked map zone. last_claimed_at is the
		// only field mutated after creation.
		`CREATE TABLE IF NOT EXISTS zones (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			description TEXT NOT NULL,
			photo_url TEXT NOT NULL,
			last_claimed_at TIMESTAMP NOT NULL,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,

		// Default listing is chronological by creation.
		`CREATE INDEX IF NOT EXISTS idx_zones_created ON zones(created_at)`,

		// profiles table: user accounts with role and bcrypt password hash.
		`CREATE TABLE IF NOT EXISTS profiles (
			id TEXT PRIMARY KEY,
			email TEXT NOT NULL UNIQUE,
			role TEXT NOT NULL DEFAULT 'user' CHECK (role IN ('admin', 'user')),
			password_hash TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,

		// Index on email for sign-in lookups
		`CREATE INDEX IF NOT EXISTS idx_profiles_email ON profiles(email)`,
	}

	for _, stmt := range ddlStatements {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to execute DDL: %w", err)
		}
	}

	return nil
}
