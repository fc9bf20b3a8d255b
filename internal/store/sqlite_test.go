package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-life-vault/internal/logger"
	"github.com/MKhiriev/go-life-vault/models"
)

func newTestSQLiteBackend(t *testing.T) (*sqliteBackend, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return newSQLiteBackendFromDB(db, logger.Nop()), mock
}

func TestSQLiteBackend_ReadHit(t *testing.T) {
	b, mock := newTestSQLiteBackend(t)

	rows := sqlmock.NewRows([]string{"version", "nonce", "ciphertext", "tag"}).
		AddRow(int64(3), []byte("nonce-bytes!"), []byte{0xAA}, make([]byte, 16))
	mock.ExpectQuery(regexp.QuoteMeta(sqliteSelectObject)).
		WithArgs("collection", "", "budget_items").
		WillReturnRows(rows)

	got, err := b.Read(context.Background(), ObjectKey{Kind: KindCollection, Name: "budget_items"})
	require.NoError(t, err)
	assert.Equal(t, int64(3), got.Version)
	assert.Equal(t, []byte{0xAA}, got.Container.Ciphertext)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLiteBackend_ReadMiss(t *testing.T) {
	b, mock := newTestSQLiteBackend(t)

	mock.ExpectQuery(regexp.QuoteMeta(sqliteSelectObject)).
		WithArgs("document", "education", "missing").
		WillReturnError(sql.ErrNoRows)

	_, err := b.Read(context.Background(), ObjectKey{Kind: KindDocument, Category: "education", Name: "missing"})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLiteBackend_WriteVersionedHappyPath(t *testing.T) {
	b, mock := newTestSQLiteBackend(t)
	vc := testContainer(0x01, 2)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(sqliteSelectVersion)).
		WithArgs("collection", "", "vehicles").
		WillReturnRows(sqlmock.NewRows([]string{"version"}).AddRow(int64(1)))
	mock.ExpectExec(regexp.QuoteMeta(sqliteUpsertObject)).
		WithArgs("collection", "", "vehicles", vc.Version,
			vc.Container.Nonce, vc.Container.Ciphertext, vc.Container.Tag).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := b.Write(context.Background(), ObjectKey{Kind: KindCollection, Name: "vehicles"}, vc)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLiteBackend_WriteVersionConflict(t *testing.T) {
	b, mock := newTestSQLiteBackend(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(sqliteSelectVersion)).
		WithArgs("collection", "", "vehicles").
		WillReturnRows(sqlmock.NewRows([]string{"version"}).AddRow(int64(5)))
	mock.ExpectRollback()

	err := b.Write(context.Background(), ObjectKey{Kind: KindCollection, Name: "vehicles"}, testContainer(0x01, 2))
	assert.ErrorIs(t, err, ErrVersionConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLiteBackend_WriteUnversionedSkipsCheck(t *testing.T) {
	b, mock := newTestSQLiteBackend(t)
	vc := testContainer(0x09, 0)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(sqliteUpsertObject)).
		WithArgs("thumbnail", "photos", "thumb-1", vc.Version,
			vc.Container.Nonce, vc.Container.Ciphertext, vc.Container.Tag).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := b.Write(context.Background(), ObjectKey{Kind: KindThumbnail, Category: "photos", Name: "thumb-1"}, vc)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLiteBackend_DeleteIsIdempotent(t *testing.T) {
	b, mock := newTestSQLiteBackend(t)

	deleteSQL := regexp.QuoteMeta(sqliteDeleteObject)
	mock.ExpectExec(deleteSQL).
		WithArgs("document", "education", "doc-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(deleteSQL).
		WithArgs("document", "education", "doc-1").
		WillReturnResult(sqlmock.NewResult(0, 0)) // already gone

	key := ObjectKey{Kind: KindDocument, Category: "education", Name: "doc-1"}
	require.NoError(t, b.Delete(context.Background(), key))
	require.NoError(t, b.Delete(context.Background(), key))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLiteBackend_List(t *testing.T) {
	b, mock := newTestSQLiteBackend(t)

	mock.ExpectQuery(regexp.QuoteMeta(sqliteListObjects)).
		WithArgs("document", "property").
		WillReturnRows(sqlmock.NewRows([]string{"name"}).AddRow("a").AddRow("b"))

	names, err := b.List(context.Background(), KindDocument, "property")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, names)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLiteBackend_MetaRoundTrip(t *testing.T) {
	b, mock := newTestSQLiteBackend(t)

	meta := models.VaultMeta{Salt: []byte("0123456789abcdef"), ArgonTime: 1, ArgonMemory: 64 * 1024, ArgonThreads: 4}
	payload, err := json.Marshal(meta)
	require.NoError(t, err)

	mock.ExpectExec(regexp.QuoteMeta(sqliteUpsertMeta)).
		WithArgs(payload).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta(sqliteSelectMeta)).
		WillReturnRows(sqlmock.NewRows([]string{"payload"}).AddRow(payload))

	require.NoError(t, b.WriteMeta(context.Background(), meta))

	got, err := b.ReadMeta(context.Background())
	require.NoError(t, err)
	assert.Equal(t, meta.Salt, got.Salt)
	assert.NoError(t, mock.ExpectationsWereMet())
}
