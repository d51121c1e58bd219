package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/davisrp/timingboard/internal/notify"
)

// ListZones returns all zones ordered by creation time, oldest first.
// Returns an empty slice if no zones exist.
func (s *SQLiteStorage) ListZones(ctx context.Context) ([]*Zone, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, title, description, photo_url, last_claimed_at, created_at FROM zones ORDER BY created_at ASC")
	if err != nil {
		return nil, fmt.Errorf("failed to query zones: %w", err)
	}
	defer rows.Close() //nolint:errcheck

	var zones []*Zone
	for rows.Next() {
		var z Zone
		if err := rows.Scan(&z.ID, &z.Title, &z.Description, &z.PhotoURL, &z.LastClaimedAt, &z.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan zone row: %w", err)
		}
		zones = append(zones, &z)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating zones: %w", err)
	}

	// Return empty slice instead of nil
	if zones == nil {
		zones = make([]*Zone, 0)
	}

	return zones, nil
}

// GetZone retrieves a single zone by ID.
// Returns ErrNotFound if the zone doesn't exist.
func (s *SQLiteStorage) GetZone(ctx context.Context, id string) (*Zone, error) {
	var z Zone

	err := s.db.QueryRowContext(ctx,
		"SELECT id, title, description, photo_url, last_claimed_at, created_at FROM zones WHERE id = ?",
		id).
		Scan(&z.ID, &z.Title, &z.Description, &z.PhotoURL, &z.LastClaimedAt, &z.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get zone: %w", err)
	}

	return &z, nil
}

// CreateZone inserts a new zone row. The store assigns the ID and the
// creation instant; lastClaimedAt comes from the caller and must be set.
func (s *SQLiteStorage) CreateZone(ctx context.Context, title, description, photoURL string, lastClaimedAt time.Time) (*Zone, error) {
	z := &Zone{
		ID:            uuid.New().String(),
		Title:         title,
		Description:   description,
		PhotoURL:      photoURL,
		LastClaimedAt: lastClaimedAt.UTC(),
		CreatedAt:     time.Now().UTC(),
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO zones (id, title, description, photo_url, last_claimed_at, created_at) VALUES (?, ?, ?, ?, ?, ?)",
		z.ID, z.Title, z.Description, z.PhotoURL, z.LastClaimedAt, z.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create zone: %w", err)
	}

	s.publish(notify.OpInsert, z.ID)
	return z, nil
}

// UpdateZoneClaim overwrites last_claimed_at for exactly one zone.
// Returns ErrNoPermission when zero rows are affected.
func (s *SQLiteStorage) UpdateZoneClaim(ctx context.Context, id string, lastClaimedAt time.Time) error {
	result, err := s.db.ExecContext(ctx,
		"UPDATE zones SET last_claimed_at = ? WHERE id = ?",
		lastClaimedAt.UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to update zone claim: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrNoPermission
	}

	s.publish(notify.OpUpdate, id)
	return nil
}

// DeleteZone removes a zone by ID. A delete that affects zero rows is
// reported as ErrNoPermission, not as success.
func (s *SQLiteStorage) DeleteZone(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM zones WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete zone: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrNoPermission
	}

	s.publish(notify.OpDelete, id)
	return nil
}
