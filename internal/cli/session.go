// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package cli

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/MKhiriev/go-life-vault/internal/config"
	"github.com/MKhiriev/go-life-vault/internal/logger"
	"github.com/MKhiriev/go-life-vault/internal/service"
	"github.com/MKhiriev/go-life-vault/internal/store"
)

// sqliteFileName is the database file created inside the vault directory
// when the sqlite backend is selected.
const sqliteFileName = "vault.db"

// loadConfig merges environment variables, the persistent root flags, and
// an optional JSON file into the effective configuration.
func loadConfig() (*config.StructuredConfig, error) {
	overrides := &config.StructuredConfig{JSONFilePath: flagConfig}
	overrides.Vault.Dir = flagDir
	overrides.Vault.Backend = flagBackend

	cfg, err := config.GetStructuredConfig(overrides)
	if err != nil {
		return nil, err
	}
	if cfg.Vault.Dir == "" {
		return nil, fmt.Errorf("vault directory is not set: pass --dir or set VAULT_DIR")
	}
	return cfg, nil
}

// newBackend opens the persistence backend the configuration selects.
func newBackend(ctx context.Context, cfg *config.StructuredConfig, log *logger.Logger) (store.Backend, error) {
	switch cfg.Vault.Backend {
	case config.BackendSQLite:
		return store.NewSQLiteBackend(ctx, filepath.Join(cfg.Vault.Dir, sqliteFileName), log)
	default: // empty resolves to files
		return store.NewFSBackend(cfg.Vault.Dir, log)
	}
}

// openVault wires config, logger, backend, and engine into a locked
// session handle. The caller owns the returned vault and must Close it.
func openVault(ctx context.Context) (*service.Vault, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	log := logger.NewFileLogger("cli")

	backend, err := newBackend(ctx, cfg, log)
	if err != nil {
		return nil, fmt.Errorf("open backend: %w", err)
	}

	vault := service.New(backend, service.Options{
		ThumbnailMaxEdge: cfg.Thumbnails.MaxEdge,
		ThumbnailQuality: cfg.Thumbnails.Quality,
		ArgonTime:        cfg.Crypto.ArgonTime,
		ArgonMemory:      cfg.Crypto.ArgonMemory,
		ArgonThreads:     cfg.Crypto.ArgonThreads,
	}, log)
	return vault, nil
}

// openUnlockedVault opens the vault and unlocks it with a password read
// from the terminal.
func openUnlockedVault(ctx context.Context) (*service.Vault, error) {
	vault, err := openVault(ctx)
	if err != nil {
		return nil, err
	}

	password, err := promptPassword("Master password: ")
	if err != nil {
		vault.Close()
		return nil, err
	}

	if err := vault.Unlock(ctx, password); err != nil {
		vault.Close()
		return nil, err
	}
	return vault, nil
}
