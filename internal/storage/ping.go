package storage

import (
	"context"
	"fmt"
)

// Ping verifies database connectivity with a lightweight "SELECT 1".
// Used by the /ready endpoint; much cheaper than listing zones.
func (s *SQLiteStorage) Ping(ctx context.Context) error {
	var result int
	if err := s.db.QueryRowContext(ctx, "SELECT 1").Scan(&result); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}
	if result != 1 {
		return fmt.Errorf("database ping returned unexpected result: %d", result)
	}
	return nil
}
