package config

import "fmt"

// validate checks the merged configuration for values the engine cannot
// act on. An empty Backend is valid and resolves to the files backend.
func (c *StructuredConfig) validate() error {
	switch c.Vault.Backend {
	case "", BackendFiles, BackendSQLite:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownBackend, c.Vault.Backend)
	}

	return nil
}
