package models

// EncryptedContainer is the at-rest form of every encrypted payload in the
// vault: a whole collection, a single document blob, or a thumbnail.
//
// The container is self-contained: the nonce travels with the ciphertext and
// the authentication tag is kept as a separate field so tampering with any
// part of the stored object is detectable on decrypt. All three fields are
// raw bytes; encoding/json serializes them as base64 strings, matching the
// base64 blob idiom used for every encrypted value in the store.
type EncryptedContainer struct {
	// Nonce is the per-operation random nonce. A fresh nonce is generated
	// on every seal; nonce reuse under the same key never occurs.
	Nonce []byte `json:"nonce"`

	// Ciphertext is the encrypted payload without the authentication tag.
	Ciphertext []byte `json:"ciphertext"`

	// Tag is the 16-byte GCM authentication tag covering the ciphertext.
	Tag []byte `json:"tag"`
}

// IsZero reports whether the container carries no data at all. A zero
// container is used as the "absent" value, e.g. a vault metadata record
// written before a key-check canary existed.
func (c EncryptedContainer) IsZero() bool {
	return len(c.Nonce) == 0 && len(c.Ciphertext) == 0 && len(c.Tag) == 0
}

// VersionedContainer pairs an [EncryptedContainer] with a monotonically
// increasing version number. The version is the optimistic write check for
// collection containers: a mutation cycle that loaded version N may only
// replace the stored object if it is still at version N. Objects that are
// replaced wholesale (documents, thumbnails) carry version 0, which opts out
// of the check.
type VersionedContainer struct {
	Version   int64              `json:"version"`
	Container EncryptedContainer `json:"container"`
}
