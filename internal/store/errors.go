package store

import "errors"

// Sentinel errors returned by backend methods to signal well-known failure
// conditions. Callers should use [errors.Is] to match against these values.
var (
	// ErrNotFound is returned when a read targets an object or the vault
	// metadata that has never been written or was deleted. For collection
	// loads this condition is legitimate and recovered by the engine as an
	// empty collection.
	ErrNotFound = errors.New("object not found")

	// ErrVersionConflict is returned when an optimistic write check fails:
	// the stored container changed since the mutation cycle loaded it,
	// meaning a concurrent writer got there first. The mutation must be
	// retried from a fresh load.
	ErrVersionConflict = errors.New("container version conflict occurred")

	// ErrInvalidName is returned when a collection name, category, or
	// object name is empty or would escape the vault's key space (path
	// separators, "..").
	ErrInvalidName = errors.New("invalid object name")
)
