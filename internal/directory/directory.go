// Package directory maintains the in-memory zone list and the operations
// the board exposes on it.
//
// The directory never patches its collection incrementally: any change
// notification triggers a full reload from the store, and the last reload to
// complete wins. That brute-force re-sync is a deliberate simplicity choice
// for this human-paced workload.
package directory

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/davisrp/timingboard/internal/metrics"
	"github.com/davisrp/timingboard/internal/notify"
	"github.com/davisrp/timingboard/internal/storage"
)

// DefaultPhotoURL is substituted when a zone is created without an image.
const DefaultPhotoURL = "https://placehold.co/400x300?text=zone"

// Validation errors, rejected before any store call is attempted.
var (
	// ErrDescriptionRequired indicates a zone was submitted without location detail.
	ErrDescriptionRequired = errors.New("directory: description is required")
	// ErrClaimTimeRequired indicates a zone was submitted without a claim instant.
	ErrClaimTimeRequired = errors.New("directory: claim timestamp is required")
)

// Store is the subset of storage operations the directory needs.
type Store interface {
	ListZones(ctx context.Context) ([]*storage.Zone, error)
	CreateZone(ctx context.Context, title, description, photoURL string, lastClaimedAt time.Time) (*storage.Zone, error)
	UpdateZoneClaim(ctx context.Context, id string, lastClaimedAt time.Time) error
	DeleteZone(ctx context.Context, id string) error
}

// Directory holds the ordered zone collection and re-synchronizes it on
// demand or on external change notification.
type Directory struct {
	store  Store
	logger *slog.Logger

	mu    sync.RWMutex
	zones []*storage.Zone
}

// New creates a Directory with an empty collection. Call Reload (or start
// Run) to populate it.
func New(store Store, logger *slog.Logger) *Directory {
	if logger == nil {
		logger = slog.Default()
	}
	return &Directory{store: store, logger: logger}
}

// Reload replaces the entire collection with the store's current zone set,
// ordered oldest first. A store failure is logged and leaves the previous
// in-memory collection untouched; the error is also returned so the
// initiating caller can surface it.
func (d *Directory) Reload(ctx context.Context) error {
	zones, err := d.store.ListZones(ctx)
	if err != nil {
		d.logger.Error("zone reload failed", "error", err)
		metrics.RecordZoneReload("error")
		return fmt.Errorf("reload zones: %w", err)
	}
	metrics.RecordZoneReload("ok")

	d.mu.Lock()
	d.zones = zones
	d.mu.Unlock()
	return nil
}

// Run reloads once, then reloads again on every change event until ctx is
// cancelled or the event channel closes. Which row changed is irrelevant;
// every event means "re-fetch everything".
func (d *Directory) Run(ctx context.Context, events <-chan notify.Event) {
	if err := d.Reload(ctx); err != nil {
		// Already logged; the next event retries.
		_ = err
	}

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			d.logger.Debug("zone change notification", "op", string(ev.Op), "zone_id", ev.ZoneID)
			if err := d.Reload(ctx); err != nil {
				_ = err
			}
		}
	}
}

// Zones returns a snapshot of the current collection in store order.
func (d *Directory) Zones() []*storage.Zone {
	d.mu.RLock()
	defer d.mu.RUnlock()

	out := make([]*storage.Zone, len(d.zones))
	copy(out, d.zones)
	return out
}

// Filter returns the zones whose title or description contains query as a
// case-insensitive substring, preserving order. An empty query returns the
// full collection unchanged.
func (d *Directory) Filter(query string) []*storage.Zone {
	zones := d.Zones()
	if query == "" {
		return zones
	}

	q := strings.ToLower(query)
	var out []*storage.Zone
	for _, z := range zones {
		if strings.Contains(strings.ToLower(z.Title), q) ||
			strings.Contains(strings.ToLower(z.Description), q) {
			out = append(out, z)
		}
	}
	return out
}

// Group is one presentational section of zones sharing a title.
type Group struct {
	// Key is the uppercased title shared by the group's zones.
	Key string
	// Zones keeps the records in their filtered order.
	Zones []*storage.Zone
}

// GroupByTitle partitions an already-filtered sequence into ordered groups
// keyed by uppercased title. Group order follows first appearance; records
// keep their order within each group. Purely presentational.
func GroupByTitle(zones []*storage.Zone) []Group {
	index := make(map[string]int)
	var groups []Group

	for _, z := range zones {
		key := strings.ToUpper(z.Title)
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, Group{Key: key})
		}
		groups[i].Zones = append(groups[i].Zones, z)
	}
	return groups
}

// CreateZone validates the input and delegates to the store. The local
// collection is not mutated here; the store's change notification drives the
// subsequent reload. On validation failure no store call is made.
func (d *Directory) CreateZone(ctx context.Context, title, description, photoURL string, claimedAt time.Time) (*storage.Zone, error) {
	if strings.TrimSpace(description) == "" {
		return nil, ErrDescriptionRequired
	}
	if claimedAt.IsZero() {
		return nil, ErrClaimTimeRequired
	}
	if photoURL == "" {
		photoURL = DefaultPhotoURL
	}

	z, err := d.store.CreateZone(ctx, title, description, photoURL, claimedAt)
	if err != nil {
		return nil, fmt.Errorf("create zone: %w", err)
	}
	return z, nil
}

// RecordClaim overwrites one zone's last claim instant. Authorization is the
// store's concern: an update the caller may not perform comes back as
// storage.ErrNoPermission.
func (d *Directory) RecordClaim(ctx context.Context, zoneID string, newClaimedAt time.Time) error {
	if newClaimedAt.IsZero() {
		return ErrClaimTimeRequired
	}
	if err := d.store.UpdateZoneClaim(ctx, zoneID, newClaimedAt); err != nil {
		return fmt.Errorf("record claim: %w", err)
	}
	return nil
}

// DeleteZone removes a zone. A zero-rows-affected delete surfaces as
// storage.ErrNoPermission, distinct from transport failures.
func (d *Directory) DeleteZone(ctx context.Context, zoneID string) error {
	if err := d.store.DeleteZone(ctx, zoneID); err != nil {
		return fmt.Errorf("delete zone: %w", err)
	}
	return nil
}
