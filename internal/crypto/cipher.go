// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"fmt"
	"io"

	"github.com/MKhiriev/go-life-vault/models"
)

// Cipher performs authenticated symmetric encryption of arbitrary byte
// payloads using AES-256-GCM. It is stateless: the key is supplied per
// operation and a fresh nonce is generated on every seal, so nonce reuse
// under a given key is structurally impossible.
type Cipher struct{}

// NewCipher constructs a [Cipher].
func NewCipher() *Cipher {
	return &Cipher{}
}

// Seal encrypts plaintext under key and returns a self-contained
// [models.EncryptedContainer]. The GCM output is split into ciphertext and
// the trailing 16-byte authentication tag so that each part is addressable
// in the stored form. Returns an error if the key length is not 32 bytes or
// the random nonce read fails.
func (c *Cipher) Seal(plaintext []byte, key MasterKey) (models.EncryptedContainer, error) {
	gcm, err := newGCM(key)
	if err != nil {
		return models.EncryptedContainer{}, err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return models.EncryptedContainer{}, fmt.Errorf("generate nonce: %w", err)
	}

	sealed := gcm.Seal(nil, nonce, plaintext, nil)

	// gcm.Seal appends the tag to the ciphertext; split it back out.
	tagStart := len(sealed) - gcm.Overhead()
	return models.EncryptedContainer{
		Nonce:      nonce,
		Ciphertext: sealed[:tagStart],
		Tag:        sealed[tagStart:],
	}, nil
}

// Open decrypts a container sealed by [Cipher.Seal] and verifies its
// authentication tag. Any tampering — a flipped bit in the nonce,
// ciphertext, or tag, a truncated container, or a container sealed under a
// different key — fails with [ErrAuthenticationFailed]; corrupted plaintext
// is never returned.
func (c *Cipher) Open(container models.EncryptedContainer, key MasterKey) ([]byte, error) {
	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	if len(container.Nonce) != gcm.NonceSize() || len(container.Tag) != gcm.Overhead() {
		return nil, ErrAuthenticationFailed
	}

	sealed := make([]byte, 0, len(container.Ciphertext)+len(container.Tag))
	sealed = append(sealed, container.Ciphertext...)
	sealed = append(sealed, container.Tag...)

	plaintext, err := gcm.Open(nil, container.Nonce, sealed, nil)
	if err != nil {
		return nil, ErrAuthenticationFailed
	}

	return plaintext, nil
}

func newGCM(key MasterKey) (cipher.AEAD, error) {
	if len(key) != 32 {
		return nil, fmt.Errorf("%w: %d bytes, want 32", ErrInvalidKey, len(key))
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("create cipher: %w", err)
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("create gcm: %w", err)
	}

	return gcm, nil
}
