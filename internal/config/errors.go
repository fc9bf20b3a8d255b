package config

import "errors"

// ErrUnknownBackend is returned when Vault.Backend names a persistence
// backend the engine does not provide.
var ErrUnknownBackend = errors.New("unknown vault backend")
