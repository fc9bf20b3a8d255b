package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-life-vault/internal/crypto"
	"github.com/MKhiriev/go-life-vault/internal/store"
	"github.com/MKhiriev/go-life-vault/models"
)

// Get implements [CollectionStore].
func (v *Vault) Get(ctx context.Context, name string) ([]models.Record, error) {
	key, err := v.sessionKey()
	if err != nil {
		return nil, err
	}

	collection, _, err := v.loadCollection(ctx, name, key)
	if err != nil {
		return nil, err
	}
	return collection.Records, nil
}

// Add implements [CollectionStore].
func (v *Vault) Add(ctx context.Context, name string, record models.Record) error {
	if !json.Valid(record) {
		return fmt.Errorf("record is not valid JSON")
	}

	return v.mutateCollection(ctx, name, func(c *models.Collection) bool {
		c.Records = append(c.Records, record)
		return true
	})
}

// Update implements [CollectionStore]. A record whose id is not present is
// a no-op, not an error.
func (v *Vault) Update(ctx context.Context, name, id string, record models.Record) error {
	if !json.Valid(record) {
		return fmt.Errorf("record is not valid JSON")
	}

	return v.mutateCollection(ctx, name, func(c *models.Collection) bool {
		i := c.IndexOf(id)
		if i < 0 {
			return false
		}
		c.Records[i] = record
		return true
	})
}

// Delete implements [CollectionStore]. Before the record is removed, its
// document references are extracted and every owned blob and thumbnail is
// deleted, so no orphaned ciphertext outlives the record. Blob failures are
// logged and do not abort the record delete. A missing id is a no-op.
func (v *Vault) Delete(ctx context.Context, name, id string) error {
	return v.mutateCollection(ctx, name, func(c *models.Collection) bool {
		i := c.IndexOf(id)
		if i < 0 {
			return false
		}

		// Documents are stored under the collection's name as category.
		for _, ref := range models.ExtractDocumentReferences(c.Records[i]) {
			if err := v.DeleteDocument(ctx, name, ref); err != nil {
				v.logger.Warn().Err(err).
					Str("collection", name).
					Str("record", id).
					Str("document", ref.ID).
					Msg("cascade delete of attachment failed")
			}
		}

		c.Records = append(c.Records[:i], c.Records[i+1:]...)
		return true
	})
}

// loadCollection reads and decrypts one collection. A never-written
// collection is returned empty at version 0.
func (v *Vault) loadCollection(ctx context.Context, name string, key crypto.MasterKey) (models.Collection, int64, error) {
	objectKey := store.ObjectKey{Kind: store.KindCollection, Name: name}

	vc, err := v.backend.Read(ctx, objectKey)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return models.Collection{Name: name}, 0, nil
		}
		return models.Collection{}, 0, fmt.Errorf("load collection %q: %w", name, err)
	}

	plaintext, err := v.cipher.Open(vc.Container, key)
	if err != nil {
		if errors.Is(err, crypto.ErrAuthenticationFailed) {
			return models.Collection{}, 0, fmt.Errorf(
				"cannot decrypt collection %q — wrong password or corrupted store: %w", name, err)
		}
		return models.Collection{}, 0, err
	}

	var collection models.Collection
	if err := json.Unmarshal(plaintext, &collection); err != nil {
		return models.Collection{}, 0, fmt.Errorf("decode collection %q: %w", name, err)
	}
	return collection, vc.Version, nil
}

// mutateCollection runs one full load–modify–reseal–replace cycle under the
// collection's single-writer lock. The write carries the next version so a
// second process racing on the same store is rejected with a version
// conflict instead of silently losing the first update. mutate reports
// whether anything changed; an unchanged collection is not rewritten.
func (v *Vault) mutateCollection(ctx context.Context, name string, mutate func(*models.Collection) bool) error {
	sessionKey, err := v.sessionKey()
	if err != nil {
		return err
	}

	lock := v.collections.get(name)
	lock.Lock()
	defer lock.Unlock()

	collection, version, err := v.loadCollection(ctx, name, sessionKey)
	if err != nil {
		return err
	}

	if !mutate(&collection) {
		return nil
	}

	plaintext, err := json.Marshal(collection)
	if err != nil {
		return fmt.Errorf("encode collection %q: %w", name, err)
	}

	container, err := v.cipher.Seal(plaintext, sessionKey)
	if err != nil {
		return fmt.Errorf("seal collection %q: %w", name, err)
	}

	err = v.backend.Write(ctx, store.ObjectKey{Kind: store.KindCollection, Name: name}, models.VersionedContainer{
		Version:   version + 1,
		Container: container,
	})
	if err != nil {
		return fmt.Errorf("store collection %q: %w", name, err)
	}
	return nil
}

// GetAs loads a collection and decodes every record into T. It is the typed
// boundary for callers with a schema per collection; the engine itself keeps
// treating records as opaque JSON.
func GetAs[T any](ctx context.Context, v *Vault, name string) ([]T, error) {
	records, err := v.Get(ctx, name)
	if err != nil {
		return nil, err
	}

	items := make([]T, 0, len(records))
	for _, rec := range records {
		var item T
		if err := json.Unmarshal(rec, &item); err != nil {
			return nil, fmt.Errorf("decode record %q in %q: %w", rec.ID(), name, err)
		}
		items = append(items, item)
	}
	return items, nil
}

// AddItem encodes item and appends it to the collection.
func AddItem[T any](ctx context.Context, v *Vault, name string, item T) error {
	raw, err := json.Marshal(item)
	if err != nil {
		return fmt.Errorf("encode record: %w", err)
	}
	return v.Add(ctx, name, models.Record(raw))
}

// UpdateItem encodes item and replaces the record whose id matches.
func UpdateItem[T any](ctx context.Context, v *Vault, name, id string, item T) error {
	raw, err := json.Marshal(item)
	if err != nil {
		return fmt.Errorf("encode record: %w", err)
	}
	return v.Update(ctx, name, id, models.Record(raw))
}
