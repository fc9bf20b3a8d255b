package store

import (
	"context"

	"github.com/MKhiriev/go-life-vault/models"
)

// ObjectKind distinguishes the three families of encrypted objects the
// vault persists. Each kind occupies its own key space.
type ObjectKind string

const (
	// KindCollection is a whole record collection, one container per name.
	KindCollection ObjectKind = "collection"

	// KindDocument is a single attachment blob, one container per
	// (category, document id).
	KindDocument ObjectKind = "document"

	// KindThumbnail is a derived preview artifact, one container per
	// (category, thumbnail id).
	KindThumbnail ObjectKind = "thumbnail"
)

// ObjectKey addresses one encrypted object in a backend. Collections have an
// empty Category; documents and thumbnails are scoped by the category they
// were saved under.
type ObjectKey struct {
	Kind     ObjectKind
	Category string
	Name     string
}

// Backend is the persistence primitive beneath the vault engine: an
// addressable set of encrypted containers plus one unencrypted metadata
// record. Implementations must guarantee that Write is all-or-nothing — a
// cancelled or failed write never leaves a partially-written object visible —
// and that Delete is idempotent.
//
// Writes carry an optimistic version check: a [models.VersionedContainer]
// with Version N replaces the stored object only if it currently sits at
// version N-1 (or does not exist, for N == 1). Version 0 opts out and
// overwrites unconditionally; documents and thumbnails use it because they
// are replaced wholesale, never read-modified.
type Backend interface {
	// ReadMeta loads the unencrypted vault metadata. Returns ErrNotFound
	// if the vault has never been initialized.
	ReadMeta(ctx context.Context) (models.VaultMeta, error)

	// WriteMeta persists the vault metadata atomically.
	WriteMeta(ctx context.Context, meta models.VaultMeta) error

	// Read loads one encrypted object. Returns ErrNotFound if the key has
	// never been written or was deleted.
	Read(ctx context.Context, key ObjectKey) (models.VersionedContainer, error)

	// Write stages the container and atomically replaces the stored
	// object, subject to the version check described above. Returns
	// ErrVersionConflict if the stored version moved since load.
	Write(ctx context.Context, key ObjectKey, container models.VersionedContainer) error

	// Delete removes one object. Deleting an absent key is success.
	Delete(ctx context.Context, key ObjectKey) error

	// List returns the names of all objects of the given kind and
	// category, in unspecified order.
	List(ctx context.Context, kind ObjectKind, category string) ([]string, error)

	// Close releases backend resources.
	Close() error
}
