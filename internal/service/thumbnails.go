package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-life-vault/internal/crypto"
	"github.com/MKhiriev/go-life-vault/internal/store"
	"github.com/MKhiriev/go-life-vault/internal/workers"
	"github.com/MKhiriev/go-life-vault/models"
)

// regenWorkers caps how many thumbnails are rasterized at once during a
// batch regeneration.
const regenWorkers = 4

// RegenerateThumbnail implements [DocumentService]. Generation is explicit:
// nothing transitions a reference out of the no-thumbnail state except this
// call, so the rasterization cost is paid only when the caller asks for it
// (or retries after a prior failure). Regeneration reuses the existing
// thumbnail id when one is set, overwriting the prior artifact in place.
func (v *Vault) RegenerateThumbnail(ctx context.Context, category string, ref models.DocumentReference) (models.DocumentReference, error) {
	if ref.IsLegacy() {
		return ref, fmt.Errorf("%q: %w", ref.Filename, ErrLegacyUnavailable)
	}

	key, err := v.sessionKey()
	if err != nil {
		return ref, err
	}

	data, mimeType, err := v.LoadDocument(ctx, category, ref)
	if err != nil {
		return ref, err
	}

	preview, err := renderPreview(data, mimeType, v.opts.ThumbnailMaxEdge, v.opts.ThumbnailQuality)
	if err != nil {
		return ref, err
	}

	if !ref.HasThumbnail() {
		ref.ThumbnailID = newObjectID()
	}

	container, err := v.cipher.Seal(preview, key)
	if err != nil {
		return ref, fmt.Errorf("seal thumbnail: %w", err)
	}

	objectKey := store.ObjectKey{Kind: store.KindThumbnail, Category: category, Name: ref.ThumbnailID}
	if err := v.backend.Write(ctx, objectKey, models.VersionedContainer{Container: container}); err != nil {
		return ref, fmt.Errorf("store thumbnail %q: %w", ref.ThumbnailID, err)
	}

	v.logger.Debug().
		Str("category", category).
		Str("document", ref.ID).
		Str("thumbnail", ref.ThumbnailID).
		Msg("thumbnail regenerated")
	return ref, nil
}

// RegenerateThumbnails re-derives previews for a batch of references on a
// bounded worker pool. References that cannot have a preview (legacy, or a
// type the rasterizer does not support) are skipped, not failed; remaining
// failures are reported joined. The returned slice carries the updated
// references in input order.
func (v *Vault) RegenerateThumbnails(ctx context.Context, category string, refs []models.DocumentReference) ([]models.DocumentReference, error) {
	updated := make([]models.DocumentReference, len(refs))
	copy(updated, refs)
	errs := make([]error, len(refs))

	tasks := make([]workers.Task, len(refs))
	for i := range refs {
		i := i
		tasks[i] = func() {
			ref, err := v.RegenerateThumbnail(ctx, category, refs[i])
			if err != nil {
				if errors.Is(err, ErrThumbnailUnsupported) || errors.Is(err, ErrLegacyUnavailable) {
					return
				}
				errs[i] = fmt.Errorf("thumbnail for %q: %w", refs[i].Filename, err)
				return
			}
			updated[i] = ref
		}
	}

	workers.NewPool(regenWorkers).Run(tasks)
	return updated, errors.Join(errs...)
}

// LoadThumbnail implements [DocumentService]. A missing artifact is
// reported as [store.ErrNotFound]; callers degrade to a generic icon and
// never fail the surrounding view over it.
func (v *Vault) LoadThumbnail(ctx context.Context, category, thumbnailID string) ([]byte, error) {
	if thumbnailID == "" {
		return nil, store.ErrNotFound
	}

	key, err := v.sessionKey()
	if err != nil {
		return nil, err
	}

	vc, err := v.backend.Read(ctx, store.ObjectKey{Kind: store.KindThumbnail, Category: category, Name: thumbnailID})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("load thumbnail %q: %w", thumbnailID, err)
	}

	preview, err := v.cipher.Open(vc.Container, key)
	if err != nil {
		if errors.Is(err, crypto.ErrAuthenticationFailed) {
			return nil, fmt.Errorf(
				"cannot decrypt thumbnail %q — wrong password or corrupted store: %w", thumbnailID, err)
		}
		return nil, err
	}
	return preview, nil
}
