package models

import (
	"encoding/json"
	"time"
)

// Record is one application-defined entry in a collection. The engine treats
// record shape as opaque JSON with two exceptions: every record must carry a
// stable "id" field, and fields shaped like a [DocumentReference] are
// meaningful for cascade delete. Everything else (budget amounts, vehicle
// registrations, ...) belongs to the caller.
type Record json.RawMessage

// MarshalJSON implements json.Marshaler by emitting the raw bytes verbatim.
func (r Record) MarshalJSON() ([]byte, error) {
	return json.RawMessage(r).MarshalJSON()
}

// UnmarshalJSON implements json.Unmarshaler by capturing the raw bytes.
func (r *Record) UnmarshalJSON(data []byte) error {
	return (*json.RawMessage)(r).UnmarshalJSON(data)
}

// ID extracts the record's stable identifier. Returns "" if the record has
// no "id" field or is not a JSON object.
func (r Record) ID() string {
	var probe struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(r, &probe); err != nil {
		return ""
	}
	return probe.ID
}

// Collection is an ordered set of records sharing one name. The whole
// collection is the unit of encryption: it is decrypted fully on load and
// re-encrypted fully on every mutation. Insertion order is preserved.
type Collection struct {
	Name    string   `json:"name"`
	Records []Record `json:"records"`
}

// IndexOf returns the position of the record with the given id, or -1.
func (c *Collection) IndexOf(id string) int {
	for i, rec := range c.Records {
		if rec.ID() == id {
			return i
		}
	}
	return -1
}

// ExtractDocumentReferences walks a record's JSON value and collects every
// field shaped like a [DocumentReference]. This is the single schema hook
// the engine applies to otherwise-opaque records; it exists so that deleting
// a record can cascade to the blobs and thumbnails the record owns.
//
// An object counts as reference-shaped when it carries both a "filename"
// and an "uploadDate" key. That shape also matches legacy filename-only
// references (empty "id"), which the cascade path skips because they own no
// bytes. Nested objects and arrays are scanned recursively, so references
// held in sub-structures or lists are found as well.
func ExtractDocumentReferences(rec Record) []DocumentReference {
	var value any
	if err := json.Unmarshal(rec, &value); err != nil {
		return nil
	}

	var refs []DocumentReference
	collectRefs(value, &refs)
	return refs
}

func collectRefs(value any, refs *[]DocumentReference) {
	switch v := value.(type) {
	case map[string]any:
		if ref, ok := asDocumentReference(v); ok {
			*refs = append(*refs, ref)
			return
		}
		for _, nested := range v {
			collectRefs(nested, refs)
		}
	case []any:
		for _, nested := range v {
			collectRefs(nested, refs)
		}
	}
}

func asDocumentReference(obj map[string]any) (DocumentReference, bool) {
	filename, hasFilename := obj["filename"].(string)
	rawDate, hasDate := obj["uploadDate"]
	if !hasFilename || !hasDate || filename == "" {
		return DocumentReference{}, false
	}

	ref := DocumentReference{Filename: filename}
	if id, ok := obj["id"].(string); ok {
		ref.ID = id
	}
	if mime, ok := obj["mimeType"].(string); ok {
		ref.MIMEType = mime
	}
	if thumb, ok := obj["thumbnailId"].(string); ok {
		ref.ThumbnailID = thumb
	}
	if s, ok := rawDate.(string); ok {
		if t, err := time.Parse(time.RFC3339, s); err == nil {
			ref.UploadDate = t
		} else if t, err := time.Parse("2006-01-02", s); err == nil {
			ref.UploadDate = t
		}
	}
	return ref, true
}
