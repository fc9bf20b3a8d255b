// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/MKhiriev/go-life-vault/internal/crypto"
	"github.com/MKhiriev/go-life-vault/internal/logger"
	"github.com/MKhiriev/go-life-vault/internal/store"
	"github.com/MKhiriev/go-life-vault/models"
)

// canaryPlaintext is the constant sealed into the vault metadata at
// initialization. Unlock opens it to tell a wrong password apart from a
// later per-container authentication failure.
const canaryPlaintext = "go-life-vault key check v1"

// Options tunes engine behavior. Zero values select engine defaults.
type Options struct {
	// ThumbnailMaxEdge is the longest edge of generated previews in
	// pixels. Zero selects the default of 256.
	ThumbnailMaxEdge int

	// ThumbnailQuality is the JPEG quality for generated previews.
	// Zero selects the default of 80.
	ThumbnailQuality int

	// ArgonTime, ArgonMemory (KiB), and ArgonThreads tune key derivation
	// for newly initialized vaults. Existing vaults always unlock with
	// the parameters recorded in their metadata.
	ArgonTime    uint32
	ArgonMemory  uint32
	ArgonThreads uint8
}

func (o Options) withDefaults() Options {
	if o.ThumbnailMaxEdge <= 0 {
		o.ThumbnailMaxEdge = 256
	}
	if o.ThumbnailQuality <= 0 {
		o.ThumbnailQuality = 80
	}
	return o
}

// Vault is the session handle composing the engine: key management, the
// cipher, and the encrypted object store behind the [CollectionStore] and
// [DocumentService] contracts. It is an explicit value — never a hidden
// singleton — so multiple isolated vaults can coexist in one process.
//
// The master key is the only long-lived shared state: it is set by Unlock,
// read by every operation, and zeroed synchronously by Lock.
type Vault struct {
	backend  store.Backend
	cipher   *crypto.Cipher
	keychain *crypto.Keychain
	opts     Options
	logger   *logger.Logger

	// keyMu guards the session key; every operation reads it under RLock
	// and Lock/Unlock take the write side.
	keyMu sync.RWMutex
	key   crypto.MasterKey

	// collections serializes mutations per collection name, closing the
	// lost-update race between two concurrent load-modify-reseal cycles.
	collections namedLocks
}

var (
	_ CollectionStore = (*Vault)(nil)
	_ DocumentService = (*Vault)(nil)
)

// New constructs a locked [Vault] over the given backend. Call Init for a
// brand-new vault or Unlock for an existing one.
func New(backend store.Backend, opts Options, log *logger.Logger) *Vault {
	opts = opts.withDefaults()

	keychain := crypto.NewKeychain()
	if opts.ArgonTime > 0 && opts.ArgonMemory > 0 && opts.ArgonThreads > 0 {
		keychain = crypto.NewKeychainWithParams(opts.ArgonTime, opts.ArgonMemory, opts.ArgonThreads)
	}

	return &Vault{
		backend:  backend,
		cipher:   crypto.NewCipher(),
		keychain: keychain,
		opts:     opts,
		logger:   log,
	}
}

// Init creates the vault: generates a salt, derives the master key from
// password, seals the key-check canary, and persists the metadata record.
// The session is left unlocked. Initializing an existing vault is refused.
func (v *Vault) Init(ctx context.Context, password string) error {
	if _, err := v.backend.ReadMeta(ctx); err == nil {
		return ErrAlreadyInitialized
	} else if !errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("read vault meta: %w", err)
	}

	salt, err := v.keychain.GenerateSalt()
	if err != nil {
		return fmt.Errorf("generate salt: %w", err)
	}

	key := v.keychain.DeriveKey(password, salt)
	canary, err := v.cipher.Seal([]byte(canaryPlaintext), key)
	if err != nil {
		key.Zero()
		return fmt.Errorf("seal key check: %w", err)
	}

	meta := models.VaultMeta{
		Salt:         salt,
		ArgonTime:    v.keychain.Time(),
		ArgonMemory:  v.keychain.Memory(),
		ArgonThreads: v.keychain.Threads(),
		Canary:       canary,
		CreatedAt:    time.Now().UTC(),
	}
	if err := v.backend.WriteMeta(ctx, meta); err != nil {
		key.Zero()
		return fmt.Errorf("write vault meta: %w", err)
	}

	v.keyMu.Lock()
	v.key = key
	v.keyMu.Unlock()

	v.logger.Info().Msg("vault initialized")
	return nil
}

// Unlock derives the master key from password and the stored salt and
// verifies it against the vault's key-check canary. On success the session
// holds the key until Lock. A failed check returns [ErrWrongPassword].
//
// Vaults written before the canary existed (zero canary in the metadata)
// accept any password here; a wrong one then surfaces as an authentication
// failure on the first container read.
func (v *Vault) Unlock(ctx context.Context, password string) error {
	meta, err := v.backend.ReadMeta(ctx)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrNotInitialized
		}
		return fmt.Errorf("read vault meta: %w", err)
	}

	keychain := crypto.NewKeychainWithParams(meta.ArgonTime, meta.ArgonMemory, meta.ArgonThreads)
	key := keychain.DeriveKey(password, meta.Salt)

	if !meta.Canary.IsZero() {
		if _, err := v.cipher.Open(meta.Canary, key); err != nil {
			key.Zero()
			return ErrWrongPassword
		}
	}

	v.keyMu.Lock()
	if v.key != nil {
		v.key.Zero()
	}
	v.key = key
	v.keyMu.Unlock()

	v.logger.Debug().Msg("vault unlocked")
	return nil
}

// Lock zeroes the in-memory key material and ends the session. Components
// holding the key by reference observe zeroes immediately; no stale copy
// survives across a lock/unlock boundary.
func (v *Vault) Lock() {
	v.keyMu.Lock()
	if v.key != nil {
		v.key.Zero()
		v.key = nil
	}
	v.keyMu.Unlock()

	v.logger.Debug().Msg("vault locked")
}

// Close locks the vault and releases the backend.
func (v *Vault) Close() error {
	v.Lock()
	return v.backend.Close()
}

// sessionKey returns the active master key by reference, or [ErrLocked].
func (v *Vault) sessionKey() (crypto.MasterKey, error) {
	v.keyMu.RLock()
	defer v.keyMu.RUnlock()
	if v.key == nil {
		return nil, ErrLocked
	}
	return v.key, nil
}

// newObjectID returns a fresh opaque identifier for a blob or thumbnail.
// UUIDv7 keeps ids roughly time-ordered on disk; v4 is the fallback when
// the monotonic source fails.
func newObjectID() string {
	v7, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return v7.String()
}

// namedLocks hands out one mutex per name, creating it on first use. It
// implements the single-writer queue per collection.
type namedLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func (n *namedLocks) get(name string) *sync.Mutex {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.locks == nil {
		n.locks = make(map[string]*sync.Mutex)
	}
	lock, ok := n.locks[name]
	if !ok {
		lock = &sync.Mutex{}
		n.locks[name] = lock
	}
	return lock
}
