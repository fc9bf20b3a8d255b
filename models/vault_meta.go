package models

import "time"

// VaultMeta is the single unencrypted record stored alongside the vault. It
// holds everything needed to re-derive the master key on unlock: the key
// derivation salt (not secret), the Argon2id tuning parameters the vault was
// created with, and an optional key-check canary.
//
// The canary is a small constant sealed with the master key at vault
// creation. Unlock opens it to distinguish a wrong password from a later
// per-container authentication failure. Vaults written before the canary
// existed have a zero canary; unlocking those accepts any password and a
// wrong one surfaces as AuthenticationFailed on the first container read.
type VaultMeta struct {
	// Salt is the 16-byte key-derivation salt, stored in the clear.
	Salt []byte `json:"salt"`

	// Argon2id parameters used when this vault was created. Persisted so
	// that a vault created under older tuning still unlocks after the
	// defaults change.
	ArgonTime    uint32 `json:"argonTime"`
	ArgonMemory  uint32 `json:"argonMemory"`
	ArgonThreads uint8  `json:"argonThreads"`

	// Canary is the key-check container, zero for pre-canary vaults.
	Canary EncryptedContainer `json:"canary"`

	// CreatedAt records when the vault was initialized.
	CreatedAt time.Time `json:"createdAt"`
}
