// Package storage provides types and interfaces for SQLite persistence operations.
package storage

import (
	"context"
	"time"
)

// Storage defines the interface for SQLite persistence operations.
type Storage interface {
	// Zone operations
	ListZones(ctx context.Context) ([]*Zone, error)
	GetZone(ctx context.Context, id string) (*Zone, error)
	CreateZone(ctx context.Context, title, description, photoURL string, lastClaimedAt time.Time) (*Zone, error)
	UpdateZoneClaim(ctx context.Context, id string, lastClaimedAt time.Time) error
	DeleteZone(ctx context.Context, id string) error

	// Profile operations
	CreateProfile(ctx context.Context, email, passwordHash string, role Role) (*Profile, error)
	GetProfile(ctx context.Context, id string) (*Profile, error)
	GetCredentialByEmail(ctx context.Context, email string) (*Profile, string, error)
	ListProfiles(ctx context.Context) ([]*Profile, error)
	SetProfileRole(ctx context.Context, id string, role Role) error

	// Lifecycle
	Ping(ctx context.Context) error
	Close() error
}
