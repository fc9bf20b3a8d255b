// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

import (
	"crypto/rand"
	"io"

	"golang.org/x/crypto/argon2"
)

// MasterKey is the symmetric key material for one unlocked session. It is
// derived from the master password, exists only in process memory, and is
// wiped on lock. Components receive it by reference for the duration of an
// operation and never persist it.
type MasterKey []byte

// Zero overwrites the key material in place. After Zero returns the key is
// unusable; any component that retained the slice sees zeroes.
func (k MasterKey) Zero() {
	for i := range k {
		k[i] = 0
	}
}

// Keychain derives master keys from passwords. It holds no key material
// itself, only the Argon2id tuning parameters.
type Keychain struct {
	// Argon2id tuning parameters. Stored in the struct so they can be
	// adjusted per deployment target (e.g. mobile vs. desktop) and so a
	// vault created under older tuning derives with its recorded values.
	argonTime    uint32
	argonMemory  uint32
	argonThreads uint8
	argonKeyLen  uint32
}

// NewKeychain constructs a [Keychain] with the Argon2id parameters
// recommended by OWASP (2024):
//   - time cost:   1 iteration
//   - memory cost: 64 MiB
//   - parallelism: 4 threads
//   - key length:  32 bytes (256 bits)
func NewKeychain() *Keychain {
	return &Keychain{
		argonTime:    1,
		argonMemory:  64 * 1024, // 64 MiB
		argonThreads: 4,
		argonKeyLen:  32, // 256 bits
	}
}

// NewKeychainWithParams constructs a [Keychain] using explicit Argon2id
// parameters, typically the values recorded in an existing vault's metadata.
func NewKeychainWithParams(time, memory uint32, threads uint8) *Keychain {
	return &Keychain{
		argonTime:    time,
		argonMemory:  memory,
		argonThreads: threads,
		argonKeyLen:  32,
	}
}

// Time returns the configured Argon2id time cost.
func (k *Keychain) Time() uint32 { return k.argonTime }

// Memory returns the configured Argon2id memory cost in KiB.
func (k *Keychain) Memory() uint32 { return k.argonMemory }

// Threads returns the configured Argon2id parallelism.
func (k *Keychain) Threads() uint8 { return k.argonThreads }

// GenerateSalt reads 16 random bytes from the OS CSPRNG and returns them as
// the key-derivation salt. The salt is not secret — it is stored in the
// clear next to the vault — it only ensures equal passwords derive distinct
// keys. Returns an error if the random read fails.
func (k *Keychain) GenerateSalt() ([]byte, error) {
	salt := make([]byte, 16)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return nil, err
	}
	return salt, nil
}

// DeriveKey derives a 256-bit [MasterKey] from password and salt using
// Argon2id with the parameters stored in the receiver. Derivation is
// deterministic for equal inputs and deliberately slow and memory-hard so
// that brute-forcing stolen ciphertext is expensive.
func (k *Keychain) DeriveKey(password string, salt []byte) MasterKey {
	return argon2.IDKey(
		[]byte(password),
		salt,
		k.argonTime,
		k.argonMemory,
		k.argonThreads,
		k.argonKeyLen,
	)
}
