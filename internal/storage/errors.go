package storage

import "errors"

var (
	// ErrNotFound is returned when a requested row does not exist.
	ErrNotFound = errors.New("resource not found")

	// ErrDuplicate is returned when attempting to create a resource that already exists.
	ErrDuplicate = errors.New("resource already exists")

	// ErrNoPermission is returned when a mutation is accepted by the store
	// but affects zero rows: the row either never existed or the caller is
	// not allowed to touch it. Kept distinct from transport failures so
	// callers surface a permission condition instead of silently succeeding.
	ErrNoPermission = errors.New("no permission: zero rows affected")
)
