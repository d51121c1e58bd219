package storage

import (
	"database/sql"
	"fmt"

	"github.com/davisrp/timingboard/internal/notify"
)

// Notifier receives a change event after every successful zones-table
// mutation. A nil Notifier disables publication.
type Notifier interface {
	Publish(ev notify.Event)
}

// SQLiteStorage implements the Storage interface using SQLite.
type SQLiteStorage struct {
	db       *sql.DB
	notifier Notifier
}

// New creates a new SQLiteStorage instance.
// The dbPath is the file path for the SQLite database (or ":memory:" for tests).
// notifier may be nil when change notifications are not needed.
func New(dbPath string, notifier Notifier) (*SQLiteStorage, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := InitSchema(db); err != nil {
		_ = db.Close() //nolint:errcheck
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	// Enable WAL mode for better concurrent access support
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		_ = db.Close() //nolint:errcheck
		return nil, fmt.Errorf("failed to set WAL mode: %w", err)
	}

	// Set busy timeout to wait for locks instead of failing immediately (5 seconds)
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		_ = db.Close() //nolint:errcheck
		return nil, fmt.Errorf("failed to set busy timeout: %w", err)
	}

	// modernc.org/sqlite requires a single connection for in-process file
	// databases to avoid "database is locked" errors
	db.SetMaxOpenConns(1)

	return &SQLiteStorage{db: db, notifier: notifier}, nil
}

// publish forwards a zones-table change event when a notifier is attached.
func (s *SQLiteStorage) publish(op notify.Op, zoneID string) {
	if s.notifier != nil {
		s.notifier.Publish(notify.Event{Op: op, ZoneID: zoneID})
	}
}

// Close closes the database connection.
func (s *SQLiteStorage) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
