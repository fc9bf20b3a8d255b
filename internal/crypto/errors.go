package crypto

import "errors"

// Sentinel errors returned by the cipher. Callers should use [errors.Is] to
// match against these values.
var (
	// ErrAuthenticationFailed is returned when opening an encrypted
	// container fails its authentication check: the ciphertext or tag was
	// tampered with, truncated, or sealed under a different key. The
	// plaintext is never partially returned in this case.
	ErrAuthenticationFailed = errors.New("container authentication failed")

	// ErrInvalidKey is returned when key material of the wrong length is
	// supplied to a seal or open operation.
	ErrInvalidKey = errors.New("invalid key length")
)
