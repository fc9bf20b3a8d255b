package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/MKhiriev/go-life-vault/internal/logger"
	"github.com/MKhiriev/go-life-vault/migrations"
	"github.com/MKhiriev/go-life-vault/models"
)

// sqliteBackend stores the whole vault in a single SQLite database file:
// one row per encrypted object plus one metadata row. It implements the
// same key space and write semantics as the filesystem backend and exists
// for deployments that prefer a single portable vault file over a
// directory tree.
type sqliteBackend struct {
	db     *sql.DB
	logger *logger.Logger
}

// SQL statements used by the backend. Kept as package constants so the
// sqlmock tests assert against the exact text.
const (
	sqliteSelectObject  = `SELECT version, nonce, ciphertext, tag FROM objects WHERE kind = ? AND category = ? AND name = ?`
	sqliteSelectVersion = `SELECT version FROM objects WHERE kind = ? AND category = ? AND name = ?`
	sqliteUpsertObject  = `INSERT INTO objects (kind, category, name, version, nonce, ciphertext, tag) VALUES (?, ?, ?, ?, ?, ?, ?) ON CONFLICT(kind, category, name) DO UPDATE SET version = excluded.version, nonce = excluded.nonce, ciphertext = excluded.ciphertext, tag = excluded.tag`
	sqliteDeleteObject  = `DELETE FROM objects WHERE kind = ? AND category = ? AND name = ?`
	sqliteListObjects   = `SELECT name FROM objects WHERE kind = ? AND category = ?`
	sqliteSelectMeta    = `SELECT payload FROM meta WHERE id = 1`
	sqliteUpsertMeta    = `INSERT INTO meta (id, payload) VALUES (1, ?) ON CONFLICT(id) DO UPDATE SET payload = excluded.payload`
)

// NewSQLiteBackend opens (or creates) the vault database at dsn and ensures
// the schema exists.
func NewSQLiteBackend(ctx context.Context, dsn string, log *logger.Logger) (Backend, error) {
	conn, err := sql.Open("sqlite3", dsn)
	if err != nil {
		log.Err(err).Str("func", "NewSQLiteBackend").Msg("error opening database")
		return nil, fmt.Errorf("open vault database: %w", err)
	}

	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		log.Err(err).Str("func", "NewSQLiteBackend").Msg("error connecting database (ping)")
		return nil, fmt.Errorf("ping vault database: %w", err)
	}

	if err := migrations.Migrate(conn); err != nil {
		conn.Close()
		return nil, fmt.Errorf("create vault schema: %w", err)
	}
	log.Debug().Str("func", "NewSQLiteBackend").Msg("connected to vault database")

	return &sqliteBackend{db: conn, logger: log}, nil
}

// newSQLiteBackendFromDB wraps an existing *sql.DB without touching the
// schema (for tests).
func newSQLiteBackendFromDB(db *sql.DB, log *logger.Logger) *sqliteBackend {
	return &sqliteBackend{db: db, logger: log}
}

// ReadMeta implements [Backend].
func (b *sqliteBackend) ReadMeta(ctx context.Context) (models.VaultMeta, error) {
	var payload []byte
	err := b.db.QueryRowContext(ctx, sqliteSelectMeta).Scan(&payload)
	if err == sql.ErrNoRows {
		return models.VaultMeta{}, ErrNotFound
	}
	if err != nil {
		return models.VaultMeta{}, fmt.Errorf("read vault meta: %w", err)
	}

	var meta models.VaultMeta
	if err := json.Unmarshal(payload, &meta); err != nil {
		return models.VaultMeta{}, fmt.Errorf("decode vault meta: %w", err)
	}
	return meta, nil
}

// WriteMeta implements [Backend].
func (b *sqliteBackend) WriteMeta(ctx context.Context, meta models.VaultMeta) error {
	payload, err := json.Marshal(meta)
	if err != nil {
		return fmt.Errorf("encode vault meta: %w", err)
	}

	_, err = b.db.ExecContext(ctx, sqliteUpsertMeta, payload)
	if err != nil {
		return fmt.Errorf("write vault meta: %w", err)
	}
	return nil
}

// Read implements [Backend].
func (b *sqliteBackend) Read(ctx context.Context, key ObjectKey) (models.VersionedContainer, error) {
	if err := validateKey(key); err != nil {
		return models.VersionedContainer{}, err
	}

	var vc models.VersionedContainer
	err := b.db.QueryRowContext(ctx, sqliteSelectObject, string(key.Kind), key.Category, key.Name).Scan(
		&vc.Version, &vc.Container.Nonce, &vc.Container.Ciphertext, &vc.Container.Tag,
	)
	if err == sql.ErrNoRows {
		return models.VersionedContainer{}, ErrNotFound
	}
	if err != nil {
		return models.VersionedContainer{}, fmt.Errorf("read container: %w", err)
	}
	return vc, nil
}

// Write implements [Backend]. The version check and the replace run in one
// transaction so a concurrent writer on the same database observes either
// the old row or the new one, never a mix.
func (b *sqliteBackend) Write(ctx context.Context, key ObjectKey, container models.VersionedContainer) error {
	if err := validateKey(key); err != nil {
		return err
	}

	tx, err := b.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if container.Version > 0 {
		var current int64
		err := tx.QueryRowContext(ctx, sqliteSelectVersion, string(key.Kind), key.Category, key.Name).Scan(&current)
		switch {
		case err == sql.ErrNoRows:
			if container.Version != 1 {
				return ErrVersionConflict
			}
		case err != nil:
			return fmt.Errorf("read current version: %w", err)
		default:
			if current != container.Version-1 {
				return ErrVersionConflict
			}
		}
	}

	_, err = tx.ExecContext(ctx, sqliteUpsertObject,
		string(key.Kind), key.Category, key.Name,
		container.Version, container.Container.Nonce,
		container.Container.Ciphertext, container.Container.Tag)
	if err != nil {
		return fmt.Errorf("write container: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit container write: %w", err)
	}

	b.logger.Debug().
		Str("kind", string(key.Kind)).
		Str("category", key.Category).
		Str("name", key.Name).
		Int64("version", container.Version).
		Msg("container written")
	return nil
}

// Delete implements [Backend]. Removing an absent row is success.
func (b *sqliteBackend) Delete(ctx context.Context, key ObjectKey) error {
	if err := validateKey(key); err != nil {
		return err
	}

	_, err := b.db.ExecContext(ctx, sqliteDeleteObject, string(key.Kind), key.Category, key.Name)
	if err != nil {
		return fmt.Errorf("delete container: %w", err)
	}
	return nil
}

// List implements [Backend].
func (b *sqliteBackend) List(ctx context.Context, kind ObjectKind, category string) ([]string, error) {
	rows, err := b.db.QueryContext(ctx, sqliteListObjects, string(kind), category)
	if err != nil {
		return nil, fmt.Errorf("list containers: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan container name: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate container names: %w", err)
	}
	return names, nil
}

// Close implements [Backend].
func (b *sqliteBackend) Close() error {
	return b.db.Close()
}

func validateKey(key ObjectKey) error {
	if err := validateName(key.Name); err != nil {
		return err
	}
	if key.Kind != KindCollection {
		return validateName(key.Category)
	}
	return nil
}
