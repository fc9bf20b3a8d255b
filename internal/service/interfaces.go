package service

import (
	"context"
	"time"

	"github.com/MKhiriev/go-life-vault/models"
)

// CollectionStore is the contract UI panels use for record CRUD. Records
// are opaque JSON values; the whole collection is one encrypted container,
// decrypted fully on load and re-encrypted fully on every mutation.
type CollectionStore interface {
	// Get loads a collection in insertion order. A never-before-written
	// collection is an empty one, not an error. A container that fails
	// authentication surfaces a distinct cannot-decrypt error.
	Get(ctx context.Context, name string) ([]models.Record, error)

	// Add appends a record and reseals the collection.
	Add(ctx context.Context, name string, record models.Record) error

	// Update replaces the record whose id matches. A missing id is a
	// no-op: the caller already lacks the thing it meant to affect.
	Update(ctx context.Context, name, id string, record models.Record) error

	// Delete removes the record whose id matches, cascading to every blob
	// and thumbnail the record references. A missing id is a no-op.
	Delete(ctx context.Context, name, id string) error
}

// DocumentService is the contract UI panels use for attachments: encrypted
// blobs saved and loaded individually, decoupled from record load, plus the
// derived thumbnail artifacts.
type DocumentService interface {
	// SaveDocument encrypts data as its own blob under (category, fresh
	// id) and returns the lightweight reference the caller embeds in its
	// record. The record stays small; bytes are never inlined.
	SaveDocument(ctx context.Context, category, filename, mimeType string, data []byte, uploadedAt time.Time) (models.DocumentReference, error)

	// LoadDocument fetches and decrypts one blob on demand. Blob bytes
	// are read only here, never during collection load.
	LoadDocument(ctx context.Context, category string, ref models.DocumentReference) ([]byte, string, error)

	// DeleteDocument permanently removes the blob and its thumbnail.
	// Idempotent: deleting a reference twice succeeds both times.
	DeleteDocument(ctx context.Context, category string, ref models.DocumentReference) error

	// DeleteDocuments removes a batch of references, continuing past
	// individual failures and reporting them joined.
	DeleteDocuments(ctx context.Context, category string, refs []models.DocumentReference) error

	// RegenerateThumbnail derives (or re-derives) the preview artifact
	// for a supported attachment and returns the reference updated with
	// its thumbnail id. Idempotent: regeneration overwrites the prior
	// artifact in place.
	RegenerateThumbnail(ctx context.Context, category string, ref models.DocumentReference) (models.DocumentReference, error)

	// RegenerateThumbnails is the batch form of RegenerateThumbnail,
	// run on a bounded worker pool. References without a rasterizable
	// type are skipped rather than failed.
	RegenerateThumbnails(ctx context.Context, category string, refs []models.DocumentReference) ([]models.DocumentReference, error)

	// LoadThumbnail fetches one preview artifact. Absence is reported as
	// store.ErrNotFound and must degrade to a generic icon, never fail
	// the surrounding view.
	LoadThumbnail(ctx context.Context, category, thumbnailID string) ([]byte, error)
}
