package storage

import "time"

// Role is a user's access level. Roles are binary: admins manage zones,
// users only view.
type Role string

const (
	// RoleAdmin can create zones, record claims, delete zones, and manage roles.
	RoleAdmin Role = "admin"
	// RoleUser can only view zone status.
	RoleUser Role = "user"
)

// Valid reports whether r is one of the two known roles.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleUser
}

// Zone is one tracked map zone. LastClaimedAt is the sole mutable domain
// field; it is set at creation and overwritten by every recorded claim, so
// it is never the zero time once the row exists.
type Zone struct {
	ID            string
	Title         string
	Description   string
	PhotoURL      string
	LastClaimedAt time.Time
	CreatedAt     time.Time
}

// Profile is a user account as exposed to the application. The password
// hash lives in the same row but is only reachable through the credential
// lookups, never through Profile.
type Profile struct {
	ID        string
	Email     string
	Role      Role
	CreatedAt time.Time
}
