package service

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-life-vault/internal/store"
	"github.com/MKhiriev/go-life-vault/models"
)

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 0x40, A: 0xFF})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestVault_RegenerateThumbnailForImage(t *testing.T) {
	v := newUnlockedVault(t, newTestBackend(t), "pw")
	ctx := context.Background()

	ref, err := v.SaveDocument(ctx, "photos", "holiday.png", "image/png", encodePNG(t, 1000, 500), time.Time{})
	require.NoError(t, err)
	assert.False(t, ref.HasThumbnail(), "no thumbnail before an explicit regenerate")

	updated, err := v.RegenerateThumbnail(ctx, "photos", ref)
	require.NoError(t, err)
	require.True(t, updated.HasThumbnail())
	assert.Equal(t, ref.ID, updated.ID, "regeneration must not touch the blob id")

	preview, err := v.LoadThumbnail(ctx, "photos", updated.ThumbnailID)
	require.NoError(t, err)

	img, err := jpeg.Decode(bytes.NewReader(preview))
	require.NoError(t, err, "thumbnails are stored as JPEG")
	assert.Equal(t, 256, img.Bounds().Dx(), "longest edge scaled to the configured max")
	assert.Equal(t, 128, img.Bounds().Dy(), "aspect ratio preserved")
}

func TestVault_RegenerateThumbnailIsIdempotent(t *testing.T) {
	backend := newTestBackend(t)
	v := newUnlockedVault(t, backend, "pw")
	ctx := context.Background()

	ref, err := v.SaveDocument(ctx, "photos", "pic.png", "image/png", encodePNG(t, 400, 400), time.Time{})
	require.NoError(t, err)

	first, err := v.RegenerateThumbnail(ctx, "photos", ref)
	require.NoError(t, err)
	second, err := v.RegenerateThumbnail(ctx, "photos", first)
	require.NoError(t, err)

	assert.Equal(t, first.ThumbnailID, second.ThumbnailID,
		"regeneration overwrites the prior artifact under the same id")

	names, err := backend.List(ctx, store.KindThumbnail, "photos")
	require.NoError(t, err)
	assert.Len(t, names, 1, "exactly one stored artifact after two regenerations")
}

func TestVault_RegenerateThumbnailUnsupportedType(t *testing.T) {
	v := newUnlockedVault(t, newTestBackend(t), "pw")
	ctx := context.Background()

	ref, err := v.SaveDocument(ctx, "education", "cert.pdf", "application/pdf", []byte("%PDF-1.4"), time.Time{})
	require.NoError(t, err)

	updated, err := v.RegenerateThumbnail(ctx, "education", ref)
	assert.ErrorIs(t, err, ErrThumbnailUnsupported)
	assert.False(t, updated.HasThumbnail(), "unsupported types simply have no thumbnail")
}

func TestVault_RegenerateThumbnailLegacyReference(t *testing.T) {
	v := newUnlockedVault(t, newTestBackend(t), "pw")

	legacy := models.DocumentReference{Filename: "scan.jpg"}
	_, err := v.RegenerateThumbnail(context.Background(), "property", legacy)
	assert.ErrorIs(t, err, ErrLegacyUnavailable)
}

func TestVault_RegenerateThumbnailsBatch(t *testing.T) {
	backend := newTestBackend(t)
	v := newUnlockedVault(t, backend, "pw")
	ctx := context.Background()

	photo, err := v.SaveDocument(ctx, "property", "house.png", "image/png", encodePNG(t, 800, 600), time.Time{})
	require.NoError(t, err)
	pdf, err := v.SaveDocument(ctx, "property", "deed.pdf", "application/pdf", []byte("%PDF-1.4"), time.Time{})
	require.NoError(t, err)
	legacy := models.DocumentReference{Filename: "old-scan.jpg"}

	updated, err := v.RegenerateThumbnails(ctx, "property", []models.DocumentReference{photo, pdf, legacy})
	require.NoError(t, err, "unsupported and legacy references are skipped, not failed")
	require.Len(t, updated, 3)

	assert.True(t, updated[0].HasThumbnail())
	assert.False(t, updated[1].HasThumbnail(), "pdf stays without a preview")
	assert.False(t, updated[2].HasThumbnail(), "legacy reference is untouched")

	names, err := backend.List(ctx, store.KindThumbnail, "property")
	require.NoError(t, err)
	assert.Len(t, names, 1)
}

func TestVault_RegenerateThumbnailsReportsRealFailures(t *testing.T) {
	v := newUnlockedVault(t, newTestBackend(t), "pw")
	ctx := context.Background()

	// A reference whose blob was never stored is a real failure, not a skip.
	missing := models.DocumentReference{ID: "no-such-blob", Filename: "ghost.png"}
	_, err := v.RegenerateThumbnails(ctx, "property", []models.DocumentReference{missing})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ghost.png")
}

func TestVault_LoadThumbnailAbsenceIsNotFound(t *testing.T) {
	v := newUnlockedVault(t, newTestBackend(t), "pw")
	ctx := context.Background()

	_, err := v.LoadThumbnail(ctx, "photos", "")
	assert.ErrorIs(t, err, store.ErrNotFound, "empty thumbnail id degrades, never fails the view")

	_, err = v.LoadThumbnail(ctx, "photos", "never-generated")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestVault_DeleteDocumentRemovesThumbnail(t *testing.T) {
	v := newUnlockedVault(t, newTestBackend(t), "pw")
	ctx := context.Background()

	ref, err := v.SaveDocument(ctx, "photos", "pic.png", "image/png", encodePNG(t, 300, 200), time.Time{})
	require.NoError(t, err)
	ref, err = v.RegenerateThumbnail(ctx, "photos", ref)
	require.NoError(t, err)

	require.NoError(t, v.DeleteDocument(ctx, "photos", ref))

	_, err = v.LoadThumbnail(ctx, "photos", ref.ThumbnailID)
	assert.ErrorIs(t, err, store.ErrNotFound, "deleting the document removes its thumbnail too")
}

func TestRenderPreview_SmallImageKeptWholeButReencoded(t *testing.T) {
	preview, err := renderPreview(encodePNG(t, 64, 48), "image/png", 256, 80)
	require.NoError(t, err)

	img, err := jpeg.Decode(bytes.NewReader(preview))
	require.NoError(t, err)
	assert.Equal(t, 64, img.Bounds().Dx())
	assert.Equal(t, 48, img.Bounds().Dy())
}

func TestRenderPreview_CorruptImageFails(t *testing.T) {
	_, err := renderPreview([]byte("not an image"), "image/png", 256, 80)
	assert.Error(t, err)
}
