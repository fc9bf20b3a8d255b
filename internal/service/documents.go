package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/go-life-vault/internal/crypto"
	"github.com/MKhiriev/go-life-vault/internal/store"
	"github.com/MKhiriev/go-life-vault/models"
)

// blobEnvelope is the plaintext form of one stored attachment: the raw
// bytes together with their declared content type, so a blob is
// self-describing without consulting the record that references it.
type blobEnvelope struct {
	MIMEType string `json:"mimeType"`
	Data     []byte `json:"data"`
}

// SaveDocument implements [DocumentService].
func (v *Vault) SaveDocument(ctx context.Context, category, filename, mimeType string, data []byte, uploadedAt time.Time) (models.DocumentReference, error) {
	key, err := v.sessionKey()
	if err != nil {
		return models.DocumentReference{}, err
	}

	if uploadedAt.IsZero() {
		uploadedAt = time.Now().UTC()
	}

	ref := models.DocumentReference{
		ID:         newObjectID(),
		Filename:   filename,
		MIMEType:   mimeType,
		UploadDate: uploadedAt,
	}

	plaintext, err := json.Marshal(blobEnvelope{MIMEType: mimeType, Data: data})
	if err != nil {
		return models.DocumentReference{}, fmt.Errorf("encode blob: %w", err)
	}

	container, err := v.cipher.Seal(plaintext, key)
	if err != nil {
		return models.DocumentReference{}, fmt.Errorf("seal blob: %w", err)
	}

	objectKey := store.ObjectKey{Kind: store.KindDocument, Category: category, Name: ref.ID}
	if err := v.backend.Write(ctx, objectKey, models.VersionedContainer{Container: container}); err != nil {
		return models.DocumentReference{}, fmt.Errorf("store blob %q: %w", ref.ID, err)
	}

	v.logger.Debug().
		Str("category", category).
		Str("document", ref.ID).
		Int("size", len(data)).
		Msg("document saved")
	return ref, nil
}

// LoadDocument implements [DocumentService]. The blob is fetched and
// decrypted only here, on explicit request; collection loads never touch
// blob bytes. Returns the raw bytes and the stored MIME type.
func (v *Vault) LoadDocument(ctx context.Context, category string, ref models.DocumentReference) ([]byte, string, error) {
	if ref.IsLegacy() {
		return nil, "", fmt.Errorf("%q: %w", ref.Filename, ErrLegacyUnavailable)
	}

	key, err := v.sessionKey()
	if err != nil {
		return nil, "", err
	}

	objectKey := store.ObjectKey{Kind: store.KindDocument, Category: category, Name: ref.ID}
	vc, err := v.backend.Read(ctx, objectKey)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, "", fmt.Errorf("document %q: %w", ref.ID, store.ErrNotFound)
		}
		return nil, "", fmt.Errorf("load blob %q: %w", ref.ID, err)
	}

	plaintext, err := v.cipher.Open(vc.Container, key)
	if err != nil {
		if errors.Is(err, crypto.ErrAuthenticationFailed) {
			return nil, "", fmt.Errorf(
				"cannot decrypt document %q — wrong password or corrupted store: %w", ref.ID, err)
		}
		return nil, "", err
	}

	var envelope blobEnvelope
	if err := json.Unmarshal(plaintext, &envelope); err != nil {
		return nil, "", fmt.Errorf("decode blob %q: %w", ref.ID, err)
	}
	return envelope.Data, envelope.MIMEType, nil
}

// DeleteDocument implements [DocumentService]. The blob and, when present,
// its thumbnail are removed permanently. Deleting an already-gone reference
// succeeds; legacy references own no bytes and are a no-op.
func (v *Vault) DeleteDocument(ctx context.Context, category string, ref models.DocumentReference) error {
	if ref.IsLegacy() {
		return nil
	}

	if err := v.backend.Delete(ctx, store.ObjectKey{Kind: store.KindDocument, Category: category, Name: ref.ID}); err != nil {
		return fmt.Errorf("delete blob %q: %w", ref.ID, err)
	}

	if ref.HasThumbnail() {
		if err := v.backend.Delete(ctx, store.ObjectKey{Kind: store.KindThumbnail, Category: category, Name: ref.ThumbnailID}); err != nil {
			return fmt.Errorf("delete thumbnail %q: %w", ref.ThumbnailID, err)
		}
	}

	v.logger.Debug().
		Str("category", category).
		Str("document", ref.ID).
		Msg("document deleted")
	return nil
}

// DeleteDocuments implements [DocumentService]. Every reference is
// attempted; failures are joined rather than aborting the batch.
func (v *Vault) DeleteDocuments(ctx context.Context, category string, refs []models.DocumentReference) error {
	var errs []error
	for _, ref := range refs {
		if err := v.DeleteDocument(ctx, category, ref); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
