package service

import "errors"

// Sentinel errors returned by the vault facade. Callers should use
// [errors.Is] to match against these values. Authentication failures on a
// specific container surface as [crypto.ErrAuthenticationFailed], wrapped
// with the container's identity; storage misses surface as
// [store.ErrNotFound].
var (
	// ErrWrongPassword is returned by Unlock when the supplied password
	// fails the vault's key check.
	ErrWrongPassword = errors.New("wrong master password")

	// ErrLocked is returned by every engine operation attempted while no
	// session is unlocked.
	ErrLocked = errors.New("vault is locked")

	// ErrAlreadyInitialized is returned by Init when the target vault
	// already carries metadata. Re-initializing would orphan every
	// existing container, so it is refused.
	ErrAlreadyInitialized = errors.New("vault is already initialized")

	// ErrNotInitialized is returned by Unlock when no vault metadata
	// exists yet; the caller must Init first.
	ErrNotInitialized = errors.New("vault is not initialized")

	// ErrLegacyUnavailable is returned when an operation targets a legacy
	// filename-only document reference. Such references predate blob
	// storage and own no retrievable bytes; the data is permanently
	// unavailable and no decrypt is attempted.
	ErrLegacyUnavailable = errors.New("legacy attachment data unavailable")

	// ErrThumbnailUnsupported is returned by thumbnail regeneration for
	// attachment types without cheap rasterization. The absence of a
	// thumbnail is advisory and never blocks access to the blob itself.
	ErrThumbnailUnsupported = errors.New("attachment type does not support thumbnails")
)
