package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecord_ID(t *testing.T) {
	assert.Equal(t, "42", Record(`{"id":"42","name":"Rent"}`).ID())
	assert.Empty(t, Record(`{"name":"no id"}`).ID())
	assert.Empty(t, Record(`[1,2,3]`).ID(), "non-object records have no id")
	assert.Empty(t, Record(`not json`).ID())
}

func TestCollection_IndexOf(t *testing.T) {
	c := Collection{
		Name: "budget_items",
		Records: []Record{
			Record(`{"id":"a"}`),
			Record(`{"id":"b"}`),
		},
	}

	assert.Equal(t, 1, c.IndexOf("b"))
	assert.Equal(t, -1, c.IndexOf("missing"))
}

func TestExtractDocumentReferences_TopLevelField(t *testing.T) {
	rec := Record(`{
		"id": "entry-1",
		"institution": "Open University",
		"certificate": {
			"id": "doc-1",
			"filename": "cert.pdf",
			"mimeType": "application/pdf",
			"uploadDate": "2024-01-01T00:00:00Z",
			"thumbnailId": "thumb-1"
		}
	}`)

	refs := ExtractDocumentReferences(rec)
	require.Len(t, refs, 1)
	assert.Equal(t, "doc-1", refs[0].ID)
	assert.Equal(t, "cert.pdf", refs[0].Filename)
	assert.Equal(t, "thumb-1", refs[0].ThumbnailID)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), refs[0].UploadDate)
}

func TestExtractDocumentReferences_NestedAndListed(t *testing.T) {
	rec := Record(`{
		"id": "v1",
		"registration": {
			"papers": {"id": "doc-a", "filename": "v5c.pdf", "uploadDate": "2023-06-15"}
		},
		"history": [
			{"id": "doc-b", "filename": "mot-2023.pdf", "uploadDate": "2023-03-01"},
			{"id": "doc-c", "filename": "mot-2024.pdf", "uploadDate": "2024-03-01"}
		]
	}`)

	refs := ExtractDocumentReferences(rec)
	ids := make([]string, 0, len(refs))
	for _, ref := range refs {
		ids = append(ids, ref.ID)
	}
	assert.ElementsMatch(t, []string{"doc-a", "doc-b", "doc-c"}, ids)
}

func TestExtractDocumentReferences_LegacyShapeIsFound(t *testing.T) {
	rec := Record(`{
		"id": "p1",
		"deed": {"id": "", "filename": "deed-scan.jpg", "uploadDate": "2019-01-01"}
	}`)

	refs := ExtractDocumentReferences(rec)
	require.Len(t, refs, 1)
	assert.True(t, refs[0].IsLegacy())
}

func TestExtractDocumentReferences_PlainFieldsIgnored(t *testing.T) {
	rec := Record(`{
		"id": "b1",
		"name": "Rent",
		"amount": "1200",
		"note": {"text": "due on the 1st"}
	}`)

	assert.Empty(t, ExtractDocumentReferences(rec))
}

func TestRecord_JSONRoundTrip(t *testing.T) {
	original := Record(`{"id":"1","name":"Rent"}`)

	encoded, err := json.Marshal(struct {
		Rec Record `json:"rec"`
	}{Rec: original})
	require.NoError(t, err)

	var decoded struct {
		Rec Record `json:"rec"`
	}
	require.NoError(t, json.Unmarshal(encoded, &decoded))
	assert.JSONEq(t, string(original), string(decoded.Rec))
}
