package models

import "time"

// DocumentReference is the lightweight pointer to an attachment that callers
// embed into their records instead of the attachment's raw bytes. It is
// issued by the document service on save and is immutable afterwards, with
// one exception: ThumbnailID may be set later by an explicit thumbnail
// regeneration.
type DocumentReference struct {
	// ID is the opaque blob identifier, generated on save. An empty ID on a
	// reference that still carries a filename marks a legacy reference whose
	// bytes were never migrated into the vault.
	ID string `json:"id"`

	// Filename is the original name of the uploaded file, kept for display
	// and download purposes only; it has no addressing role.
	Filename string `json:"filename"`

	// MIMEType is the declared content type of the attachment. Optional;
	// when empty the type is inferred from the filename extension where a
	// consumer needs one.
	MIMEType string `json:"mimeType,omitempty"`

	// UploadDate records when the attachment entered the vault.
	UploadDate time.Time `json:"uploadDate"`

	// ThumbnailID addresses the derived preview artifact, when one has been
	// generated. Empty means no thumbnail exists; viewers fall back to a
	// generic icon.
	ThumbnailID string `json:"thumbnailId,omitempty"`
}

// IsLegacy reports whether the reference predates blob storage: it names a
// file but owns no retrievable bytes. Legacy references are permanently
// unrecoverable and are reported as such instead of attempting a decrypt
// that can only fail.
func (r DocumentReference) IsLegacy() bool {
	return r.ID == "" && r.Filename != ""
}

// HasThumbnail reports whether a preview artifact has been generated for
// this reference.
func (r DocumentReference) HasThumbnail() bool {
	return r.ThumbnailID != ""
}
