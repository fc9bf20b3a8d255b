package crypto

import (
	"bytes"
	"errors"
	"testing"

	"github.com/MKhiriev/go-life-vault/models"
)

func testKey(b byte) MasterKey {
	return MasterKey(bytes.Repeat([]byte{b}, 32))
}

func TestSealOpen_RoundTrip(t *testing.T) {
	c := NewCipher()
	key := testKey(0x2A)

	payloads := [][]byte{
		[]byte("hello vault"),
		{},
		bytes.Repeat([]byte{0xFF}, 1<<16), // multi-block payload
	}

	for _, plaintext := range payloads {
		container, err := c.Seal(plaintext, key)
		if err != nil {
			t.Fatalf("Seal error: %v", err)
		}

		got, err := c.Open(container, key)
		if err != nil {
			t.Fatalf("Open error: %v", err)
		}
		if !bytes.Equal(got, plaintext) {
			t.Fatalf("round-trip mismatch: got %d bytes, want %d", len(got), len(plaintext))
		}
	}
}

func TestSeal_FreshNoncePerCall(t *testing.T) {
	c := NewCipher()
	key := testKey(0x11)

	c1, err := c.Seal([]byte("same plaintext"), key)
	if err != nil {
		t.Fatalf("Seal error: %v", err)
	}
	c2, err := c.Seal([]byte("same plaintext"), key)
	if err != nil {
		t.Fatalf("Seal error: %v", err)
	}

	if bytes.Equal(c1.Nonce, c2.Nonce) {
		t.Fatalf("expected distinct nonces for two seals under the same key")
	}
	if bytes.Equal(c1.Ciphertext, c2.Ciphertext) {
		t.Fatalf("expected distinct ciphertexts for distinct nonces")
	}
}

func TestOpen_TamperDetection(t *testing.T) {
	c := NewCipher()
	key := testKey(0x07)

	container, err := c.Seal([]byte("integrity matters"), key)
	if err != nil {
		t.Fatalf("Seal error: %v", err)
	}

	flip := func(src []byte, i int) []byte {
		out := append([]byte(nil), src...)
		out[i] ^= 0x01
		return out
	}

	cases := map[string]models.EncryptedContainer{
		"flipped ciphertext bit": {Nonce: container.Nonce, Ciphertext: flip(container.Ciphertext, 0), Tag: container.Tag},
		"flipped tag bit":        {Nonce: container.Nonce, Ciphertext: container.Ciphertext, Tag: flip(container.Tag, 3)},
		"flipped nonce bit":      {Nonce: flip(container.Nonce, 0), Ciphertext: container.Ciphertext, Tag: container.Tag},
		"truncated ciphertext":   {Nonce: container.Nonce, Ciphertext: container.Ciphertext[:len(container.Ciphertext)-1], Tag: container.Tag},
		"missing tag":            {Nonce: container.Nonce, Ciphertext: container.Ciphertext},
		"empty container":        {},
	}

	for name, tampered := range cases {
		if _, err := c.Open(tampered, key); !errors.Is(err, ErrAuthenticationFailed) {
			t.Fatalf("%s: Open error = %v, want ErrAuthenticationFailed", name, err)
		}
	}
}

func TestOpen_WrongKeyRejected(t *testing.T) {
	c := NewCipher()

	container, err := c.Seal([]byte("sealed under k1"), testKey(0x01))
	if err != nil {
		t.Fatalf("Seal error: %v", err)
	}

	if _, err := c.Open(container, testKey(0x02)); !errors.Is(err, ErrAuthenticationFailed) {
		t.Fatalf("Open with wrong key error = %v, want ErrAuthenticationFailed", err)
	}
}

func TestSeal_RejectsInvalidKeyLength(t *testing.T) {
	c := NewCipher()

	if _, err := c.Seal([]byte("x"), MasterKey("short")); !errors.Is(err, ErrInvalidKey) {
		t.Fatalf("Seal error = %v, want ErrInvalidKey", err)
	}
	if _, err := c.Open(models.EncryptedContainer{}, MasterKey("short")); !errors.Is(err, ErrInvalidKey) {
		t.Fatalf("Open error = %v, want ErrInvalidKey", err)
	}
}
