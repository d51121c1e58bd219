// Package cooldown computes zone contest state from claim timestamps.
//
// A zone stays locked for a fixed 12-hour window after its last recorded
// claim. Everything here is a pure function of two instants; callers supply
// the current time so results are reproducible in tests.
package cooldown

import (
	"context"
	"fmt"
	"time"
)

// Window is the fixed lockout duration after a claim. It is not
// configurable per zone.
const Window = 12 * time.Hour

// Status describes a zone's contest state at a given instant.
type Status struct {
	// ExpiresAt is lastClaimedAt + Window.
	ExpiresAt time.Time

	// Expired is true strictly after ExpiresAt. At the exact boundary
	// instant the zone is still locked.
	Expired bool
}

// At computes the contest state for a claim timestamp at the given instant.
// A lastClaimedAt in the future is not clamped or rejected; it simply yields
// a longer-than-window remaining time.
func At(lastClaimedAt, now time.Time) Status {
	expiresAt := lastClaimedAt.Add(Window)
	return Status{
		ExpiresAt: expiresAt,
		Expired:   now.After(expiresAt),
	}
}

// Remaining renders the time left until expiry as "HH:MM:SS", each field
// zero-padded to two digits. Hours grow beyond two digits for very large
// remainders. Whole seconds, floored. Once the window has passed the result
// is pinned to "00:00:00"; it never goes negative.
func Remaining(lastClaimedAt, now time.Time) string {
	secondsLeft := int64(At(lastClaimedAt, now).ExpiresAt.Sub(now) / time.Second)
	if secondsLeft <= 0 {
		return "00:00:00"
	}

	hours := secondsLeft / 3600
	minutes := (secondsLeft % 3600) / 60
	seconds := secondsLeft % 60
	return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, seconds)
}

// Tick is invoked once per countdown refresh with a freshly derived state.
type Tick func(status Status, remaining string)

// Countdown re-derives the display for a fixed claim timestamp once per
// second and hands it to fn. It owns no domain state: every tick recomputes
// from (lastClaimedAt, time.Now()). Returns when ctx is cancelled.
//
// fn runs on the countdown goroutine's cadence; a slow fn delays the next
// tick rather than stacking invocations.
func Countdown(ctx context.Context, lastClaimedAt time.Time, fn Tick) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			fn(At(lastClaimedAt, now), Remaining(lastClaimedAt, now))
		}
	}
}
