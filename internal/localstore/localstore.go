// Package localstore is the collaborator used when no collection service is
// configured. The whole collection is kept as one JSON array under a fixed
// settings key, read once at Open and rewritten after every mutation.
package localstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/erazemk/ornate/internal/filter"
	"github.com/erazemk/ornate/internal/model"
	"github.com/erazemk/ornate/internal/store"
)

// StorageKey is the settings key holding the serialized collection.
const StorageKey = "jewelryCollection"

// Store is a local, single-process collaborator.
type Store struct {
	db  *sql.DB
	now func() time.Time

	mu    sync.Mutex
	items []model.JewelryItem
}

// Open loads the persisted collection from db.
func Open(ctx context.Context, db *sql.DB) (*Store, error) {
	raw, ok, err := store.GetSetting(ctx, db, StorageKey)
	if err != nil {
		return nil, fmt.Errorf("reading local collection: %w", err)
	}

	s := &Store{db: db, now: time.Now}
	if ok && raw != "" {
		if err := json.Unmarshal([]byte(raw), &s.items); err != nil {
			return nil, fmt.Errorf("decoding local collection: %w", err)
		}
	}
	return s, nil
}

// ListAll returns the entire collection.
func (s *Store) ListAll(_ context.Context) ([]model.JewelryItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return filter.Evaluate(s.items, model.SearchFilters{}), nil
}

// Search evaluates f against the collection.
func (s *Store) Search(_ context.Context, f model.SearchFilters) ([]model.JewelryItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return filter.Evaluate(s.items, f), nil
}

// Create assigns a timestamp-derived id and creation time, then persists.
func (s *Store) Create(ctx context.Context, it model.JewelryItem) (model.JewelryItem, error) {
	if err := it.Validate(); err != nil {
		return model.JewelryItem{}, err
	}
	id, err := uuid.NewV7()
	if err != nil {
		return model.JewelryItem{}, fmt.Errorf("generating id: %w", err)
	}

	it = it.Clone()
	it.ID = id.String()
	it.CreatedAt = s.now().UTC()

	s.mu.Lock()
	defer s.mu.Unlock()

	next := append(slices.Clip(s.items), it)
	if err := s.persist(ctx, next); err != nil {
		return model.JewelryItem{}, err
	}
	s.items = next
	return it.Clone(), nil
}

// Update replaces the record keyed by id. The id and creation time are kept.
func (s *Store) Update(ctx context.Context, id string, it model.JewelryItem) (model.JewelryItem, error) {
	if err := it.Validate(); err != nil {
		return model.JewelryItem{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := slices.IndexFunc(s.items, func(x model.JewelryItem) bool { return x.ID == id })
	if i < 0 {
		return model.JewelryItem{}, fmt.Errorf("updating %s: %w", id, model.ErrNotFound)
	}

	it = it.Clone()
	it.ID = id
	it.CreatedAt = s.items[i].CreatedAt

	next := slices.Clone(s.items)
	next[i] = it
	if err := s.persist(ctx, next); err != nil {
		return model.JewelryItem{}, err
	}
	s.items = next
	return it.Clone(), nil
}

func (s *Store) persist(ctx context.Context, items []model.JewelryItem) error {
	if items == nil {
		items = []model.JewelryItem{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encoding local collection: %w", err)
	}
	if err := store.PutSetting(ctx, s.db, StorageKey, string(data)); err != nil {
		return fmt.Errorf("%w: %v", model.ErrCollaboratorUnavailable, err)
	}
	return nil
}
