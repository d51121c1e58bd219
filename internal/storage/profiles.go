package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// CreateProfile inserts a user account with a pre-hashed password.
// Returns ErrDuplicate if the email is already registered.
func (s *SQLiteStorage) CreateProfile(ctx context.Context, email, passwordHash string, role Role) (*Profile, error) {
	p := &Profile{
		ID:        uuid.New().String(),
		Email:     email,
		Role:      role,
		CreatedAt: time.Now().UTC(),
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO profiles (id, email, role, password_hash, created_at) VALUES (?, ?, ?, ?, ?)",
		p.ID, p.Email, string(p.Role), passwordHash, p.CreatedAt)
	if err != nil {
		// Check if this is a UNIQUE constraint violation.
		// The extended error code for UNIQUE constraint is 2067.
		var sqliteErr *sqlite.Error
		if errors.As(err, &sqliteErr) {
			if sqliteErr.Code() == 2067 || (sqliteErr.Code()&0xFF) == sqlite3.SQLITE_CONSTRAINT {
				return nil, ErrDuplicate
			}
		}
		return nil, fmt.Errorf("failed to create profile: %w", err)
	}

	return p, nil
}

// GetProfile retrieves a profile by user ID.
// Returns ErrNotFound if the profile doesn't exist.
func (s *SQLiteStorage) GetProfile(ctx context.Context, id string) (*Profile, error) {
	var p Profile
	var role string

	err := s.db.QueryRowContext(ctx,
		"SELECT id, email, role, created_at FROM profiles WHERE id = ?",
		id).
		Scan(&p.ID, &p.Email, &role, &p.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	p.Role = Role(role)
	return &p, nil
}

// GetCredentialByEmail retrieves a profile and its password hash for
// sign-in. Returns ErrNotFound if the email is not registered.
func (s *SQLiteStorage) GetCredentialByEmail(ctx context.Context, email string) (*Profile, string, error) {
	var p Profile
	var role, passwordHash string

	err := s.db.QueryRowContext(ctx,
		"SELECT id, email, role, password_hash, created_at FROM profiles WHERE email = ?",
		email).
		Scan(&p.ID, &p.Email, &role, &passwordHash, &p.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, "", ErrNotFound
		}
		return nil, "", fmt.Errorf("failed to get credential: %w", err)
	}

	p.Role = Role(role)
	return &p, passwordHash, nil
}

// ListProfiles returns all user accounts, newest first (for the admin panel).
// Returns empty slice if no profiles exist.
func (s *SQLiteStorage) ListProfiles(ctx context.Context) ([]*Profile, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, email, role, created_at FROM profiles ORDER BY created_at DESC")
	if err != nil {
		return nil, fmt.Errorf("failed to query profiles: %w", err)
	}
	defer rows.Close() //nolint:errcheck

	var profiles []*Profile
	for rows.Next() {
		var p Profile
		var role string
		if err := rows.Scan(&p.ID, &p.Email, &role, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan profile row: %w", err)
		}
		p.Role = Role(role)
		profiles = append(profiles, &p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating profiles: %w", err)
	}

	if profiles == nil {
		profiles = make([]*Profile, 0)
	}

	return profiles, nil
}

// SetProfileRole updates a user's role.
// Returns ErrNoPermission when zero rows are affected.
func (s *SQLiteStorage) SetProfileRole(ctx context.Context, id string, role Role) error {
	if !role.Valid() {
		return fmt.Errorf("invalid role: %q", role)
	}

	result, err := s.db.ExecContext(ctx,
		"UPDATE profiles SET role = ? WHERE id = ?",
		string(role), id)
	if err != nil {
		return fmt.Errorf("failed to set profile role: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrNoPermission
	}

	return nil
}
