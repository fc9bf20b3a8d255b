package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/renameio"

	"github.com/MKhiriev/go-life-vault/internal/logger"
	"github.com/MKhiriev/go-life-vault/models"
)

const (
	metaFileName   = "vault.json"
	containerExt   = ".vault"
	collectionsDir = "collections"
	documentsDir   = "documents"
	thumbnailsDir  = "thumbnails"
)

// fsBackend is the default [Backend]: one file per encrypted object under
// the vault directory, plus the unencrypted vault.json metadata record.
//
// Layout:
//
//	<root>/vault.json
//	<root>/collections/<name>.vault
//	<root>/documents/<category>/<id>.vault
//	<root>/thumbnails/<category>/<id>.vault
//
// Every write is staged to a temporary file and atomically renamed into
// place, so a crash or cancellation mid-write never leaves a partial
// container visible.
type fsBackend struct {
	root   string
	logger *logger.Logger
}

// NewFSBackend constructs a filesystem [Backend] rooted at dir, creating
// the directory if needed.
func NewFSBackend(dir string, log *logger.Logger) (Backend, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create vault dir: %w", err)
	}
	return &fsBackend{root: dir, logger: log}, nil
}

// ReadMeta implements [Backend].
func (b *fsBackend) ReadMeta(ctx context.Context) (models.VaultMeta, error) {
	if err := ctx.Err(); err != nil {
		return models.VaultMeta{}, err
	}

	data, err := os.ReadFile(filepath.Join(b.root, metaFileName))
	if err != nil {
		if os.IsNotExist(err) {
			return models.VaultMeta{}, ErrNotFound
		}
		return models.VaultMeta{}, fmt.Errorf("read vault meta: %w", err)
	}

	var meta models.VaultMeta
	if err := json.Unmarshal(data, &meta); err != nil {
		return models.VaultMeta{}, fmt.Errorf("decode vault meta: %w", err)
	}
	return meta, nil
}

// WriteMeta implements [Backend].
func (b *fsBackend) WriteMeta(ctx context.Context, meta models.VaultMeta) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	payload, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return fmt.Errorf("encode vault meta: %w", err)
	}
	if err := renameio.WriteFile(filepath.Join(b.root, metaFileName), payload, 0o600); err != nil {
		return fmt.Errorf("write vault meta: %w", err)
	}
	return nil
}

// Read implements [Backend].
func (b *fsBackend) Read(ctx context.Context, key ObjectKey) (models.VersionedContainer, error) {
	if err := ctx.Err(); err != nil {
		return models.VersionedContainer{}, err
	}

	path, err := b.objectPath(key)
	if err != nil {
		return models.VersionedContainer{}, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return models.VersionedContainer{}, ErrNotFound
		}
		return models.VersionedContainer{}, fmt.Errorf("read container: %w", err)
	}

	var vc models.VersionedContainer
	if err := json.Unmarshal(data, &vc); err != nil {
		return models.VersionedContainer{}, fmt.Errorf("decode container: %w", err)
	}
	return vc, nil
}

// Write implements [Backend]. For versioned writes the current stored
// version is checked first; the service layer already serializes mutations
// per collection, so the check here is the safety net against a second
// process on the same vault directory.
func (b *fsBackend) Write(ctx context.Context, key ObjectKey, container models.VersionedContainer) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	path, err := b.objectPath(key)
	if err != nil {
		return err
	}

	if container.Version > 0 {
		current, err := b.Read(ctx, key)
		switch {
		case err == nil:
			if current.Version != container.Version-1 {
				return ErrVersionConflict
			}
		case err == ErrNotFound:
			if container.Version != 1 {
				return ErrVersionConflict
			}
		default:
			return err
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create container dir: %w", err)
	}

	payload, err := json.Marshal(container)
	if err != nil {
		return fmt.Errorf("encode container: %w", err)
	}
	if err := renameio.WriteFile(path, payload, 0o600); err != nil {
		return fmt.Errorf("write container: %w", err)
	}

	b.logger.Debug().
		Str("kind", string(key.Kind)).
		Str("category", key.Category).
		Str("name", key.Name).
		Int64("version", container.Version).
		Msg("container written")
	return nil
}

// Delete implements [Backend]. Removing an absent object is success.
func (b *fsBackend) Delete(ctx context.Context, key ObjectKey) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	path, err := b.objectPath(key)
	if err != nil {
		return err
	}

	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete container: %w", err)
	}
	return nil
}

// List implements [Backend].
func (b *fsBackend) List(ctx context.Context, kind ObjectKind, category string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	dir, err := b.kindDir(kind, category)
	if err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("list containers: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), containerExt) {
			continue
		}
		names = append(names, strings.TrimSuffix(entry.Name(), containerExt))
	}
	return names, nil
}

// Close implements [Backend]. The filesystem backend holds no resources.
func (b *fsBackend) Close() error {
	return nil
}

func (b *fsBackend) objectPath(key ObjectKey) (string, error) {
	dir, err := b.kindDir(key.Kind, key.Category)
	if err != nil {
		return "", err
	}
	if err := validateName(key.Name); err != nil {
		return "", err
	}
	return filepath.Join(dir, key.Name+containerExt), nil
}

func (b *fsBackend) kindDir(kind ObjectKind, category string) (string, error) {
	switch kind {
	case KindCollection:
		return filepath.Join(b.root, collectionsDir), nil
	case KindDocument:
		if err := validateName(category); err != nil {
			return "", err
		}
		return filepath.Join(b.root, documentsDir, category), nil
	case KindThumbnail:
		if err := validateName(category); err != nil {
			return "", err
		}
		return filepath.Join(b.root, thumbnailsDir, category), nil
	default:
		return "", fmt.Errorf("%w: unknown kind %q", ErrInvalidName, kind)
	}
}

// validateName rejects names that are empty or would escape the vault's key
// space when used as a path element.
func validateName(name string) error {
	if name == "" || name == "." || name == ".." ||
		strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}
