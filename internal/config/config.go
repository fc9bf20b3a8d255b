// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

// Backend names accepted by [Vault.Backend].
const (
	BackendFiles  = "files"
	BackendSQLite = "sqlite"
)

// StructuredConfig is the top-level configuration container for the
// go-life-vault application. It aggregates all sub-configurations and is
// populated by merging values from environment variables, command-line
// flags, and an optional JSON file.
//
// Struct tags:
//   - envPrefix — prefix applied to all nested env tag lookups (caarlos0/env).
//   - env       — direct environment variable name for scalar fields.
type StructuredConfig struct {
	// Vault holds the storage location and backend selection.
	Vault Vault `envPrefix:"VAULT_"`

	// Crypto holds the Argon2id tuning used when initializing a new
	// vault. Existing vaults always unlock with their recorded values.
	Crypto Crypto `envPrefix:"CRYPTO_"`

	// Thumbnails holds preview-generation settings.
	Thumbnails Thumbnails `envPrefix:"THUMBNAILS_"`

	// JSONFilePath is the optional path to a JSON configuration file.
	// When non-empty, the file is parsed and merged on top of the values
	// already loaded from environment variables and flags.
	// Populated via the CONFIG environment variable or the -c / -config flag.
	JSONFilePath string `env:"CONFIG"`
}

// Vault groups the settings that locate the encrypted store.
type Vault struct {
	// Dir is the vault directory (files backend) or the directory holding
	// the vault database file (sqlite backend).
	// Env: VAULT_DIR
	Dir string `env:"DIR"`

	// Backend selects the persistence backend: "files" (one encrypted
	// container per file, the default) or "sqlite" (one database file).
	// Env: VAULT_BACKEND
	Backend string `env:"BACKEND"`
}

// Crypto holds the Argon2id parameters applied to newly created vaults.
// Zero values select the engine defaults.
type Crypto struct {
	// ArgonTime is the Argon2id time cost (iterations).
	// Env: CRYPTO_ARGON_TIME
	ArgonTime uint32 `env:"ARGON_TIME"`

	// ArgonMemory is the Argon2id memory cost in KiB.
	// Env: CRYPTO_ARGON_MEMORY
	ArgonMemory uint32 `env:"ARGON_MEMORY"`

	// ArgonThreads is the Argon2id parallelism.
	// Env: CRYPTO_ARGON_THREADS
	ArgonThreads uint8 `env:"ARGON_THREADS"`
}

// Thumbnails holds preview-generation settings. Zero values select the
// engine defaults (256 px longest edge, JPEG quality 80).
type Thumbnails struct {
	// MaxEdge is the longest edge of generated previews in pixels.
	// Env: THUMBNAILS_MAX_EDGE
	MaxEdge int `env:"MAX_EDGE"`

	// Quality is the JPEG quality used when encoding previews.
	// Env: THUMBNAILS_QUALITY
	Quality int `env:"QUALITY"`
}

// GetStructuredConfig loads, merges, and validates the application
// configuration from all available sources in the following priority order
// (last source wins for non-zero fields):
//  1. Environment variables
//  2. Explicit overrides (command-line flag values bound by the CLI)
//  3. JSON file (path resolved from sources 1 and 2)
//
// overrides may be nil when no flag values are in play.
//
// Returns a fully populated *StructuredConfig or an error if any source
// fails to load or the final config fails validation.
func GetStructuredConfig(overrides *StructuredConfig) (*StructuredConfig, error) {
	return newConfigBuilder().
		withEnv().
		withOverrides(overrides).
		withJSON().
		build()
}
