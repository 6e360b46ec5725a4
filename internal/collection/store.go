// Package collection holds the session's jewellery collection: the
// authoritative set as last synchronized with the collaborator and the
// filtered view derived from it.
//
// Overlapping calls are not serialized against each other. Each operation
// applies its result when its collaborator call returns, so a slower call
// can overwrite the effect of a faster one (last response wins). The mutex
// only keeps individual state swaps atomic.
package collection

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"github.com/erazemk/ornate/internal/filter"
	"github.com/erazemk/ornate/internal/model"
)

// Collaborator is the source of truth the store synchronizes with: the
// remote collection service or the local fallback.
type Collaborator interface {
	ListAll(ctx context.Context) ([]model.JewelryItem, error)
	Search(ctx context.Context, f model.SearchFilters) ([]model.JewelryItem, error)
	Create(ctx context.Context, it model.JewelryItem) (model.JewelryItem, error)
	Update(ctx context.Context, id string, it model.JewelryItem) (model.JewelryItem, error)
}

// FilterMode selects where searches are evaluated.
type FilterMode uint8

const (
	// FilterLocal evaluates filters in-process against the authoritative set.
	FilterLocal FilterMode = iota + 1
	// FilterRemote delegates filtering to the collaborator's search.
	FilterRemote
)

func (m FilterMode) String() string {
	switch m {
	case FilterLocal:
		return "local"
	case FilterRemote:
		return "remote"
	}
	return fmt.Sprintf("FilterMode(%d)", uint8(m))
}

// ParseFilterMode parses "local" or "remote".
func ParseFilterMode(s string) (FilterMode, error) {
	switch {
	case strings.EqualFold(s, "local"):
		return FilterLocal, nil
	case strings.EqualFold(s, "remote"):
		return FilterRemote, nil
	}
	return 0, fmt.Errorf("unknown filter mode %q", s)
}

// State is a point-in-time copy of the store.
type State struct {
	Items   []model.JewelryItem
	View    []model.JewelryItem
	Filters model.SearchFilters
	Loading bool
	Error   string
}

// Store is the single mutation point for the collection.
type Store struct {
	collab Collaborator
	mode   FilterMode

	mu      sync.Mutex
	items   []model.JewelryItem
	view    []model.JewelryItem
	filters model.SearchFilters
	pending int
	errMsg  string
}

// New creates an empty store. Call Load to populate it.
func New(collab Collaborator, mode FilterMode) *Store {
	if mode != FilterRemote {
		mode = FilterLocal
	}
	return &Store{collab: collab, mode: mode}
}

// Mode reports how filters are evaluated.
func (s *Store) Mode() FilterMode { return s.mode }

// Load replaces the authoritative set with the collaborator's collection and
// resets the filtered view to equal it. On failure nothing changes.
func (s *Store) Load(ctx context.Context) error {
	s.begin()
	items, err := s.collab.ListAll(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending--
	if err != nil {
		return s.fail("loading collection", fmt.Errorf("loading collection: %w", err))
	}

	s.items = unique(items)
	s.view = cloneAll(s.items)
	s.filters = model.SearchFilters{}
	return nil
}

// unique copies items, keeping the first record for each id.
func unique(items []model.JewelryItem) []model.JewelryItem {
	out := make([]model.JewelryItem, 0, len(items))
	seen := make(map[string]bool, len(items))
	for i := range items {
		if seen[items[i].ID] {
			slog.Warn("dropping duplicate record", "id", items[i].ID)
			continue
		}
		seen[items[i].ID] = true
		out = append(out, items[i].Clone())
	}
	return out
}

// ApplyFilters replaces the filtered view with the items matching f. The
// authoritative set is never touched. On failure the view is unchanged.
func (s *Store) ApplyFilters(ctx context.Context, f model.SearchFilters) error {
	f.SearchQuery = strings.TrimSpace(f.SearchQuery)

	if s.mode == FilterLocal {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.view = filter.Evaluate(s.items, f)
		s.filters = f
		return nil
	}

	s.begin()
	found, err := s.collab.Search(ctx, f)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending--
	if err != nil {
		return s.fail("searching collection", fmt.Errorf("searching collection: %w", err))
	}

	s.view = s.resolve(found)
	s.filters = f
	return nil
}

// resolve maps remote search results onto the authoritative records,
// keeping the collaborator's order and dropping ids not held locally.
func (s *Store) resolve(found []model.JewelryItem) []model.JewelryItem {
	byID := make(map[string]int, len(s.items))
	for i := range s.items {
		byID[s.items[i].ID] = i
	}

	view := make([]model.JewelryItem, 0, len(found))
	seen := make(map[string]bool, len(found))
	for _, it := range found {
		i, ok := byID[it.ID]
		if !ok || seen[it.ID] {
			continue
		}
		seen[it.ID] = true
		view = append(view, s.items[i].Clone())
	}
	return view
}

// AddItem validates it, submits it for creation and appends the canonical
// record to the authoritative set. In local mode the view is re-derived from
// the active filters; in remote mode the record is appended to the view,
// since only the collaborator can say whether it matches. Validation
// failures never reach the collaborator.
func (s *Store) AddItem(ctx context.Context, it model.JewelryItem) (model.JewelryItem, error) {
	if err := it.Validate(); err != nil {
		s.mu.Lock()
		defer s.mu.Unlock()
		return model.JewelryItem{}, s.fail("adding item", err)
	}

	s.begin()
	created, err := s.collab.Create(ctx, it.Clone())

	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending--
	if err != nil {
		return model.JewelryItem{}, s.fail("adding item", fmt.Errorf("adding item: %w", err))
	}

	s.items = append(slices.Clip(s.items), created.Clone())
	if s.mode == FilterLocal {
		s.view = filter.Evaluate(s.items, s.filters)
	} else {
		s.view = append(slices.Clip(s.view), created.Clone())
	}
	return created.Clone(), nil
}

// EditItem submits a full replacement for the record keyed by id and swaps
// the returned record in place. In local mode the view is then re-derived
// from the active filters, so the record may enter or leave it; in remote
// mode it is replaced where it stands. An id not held locally fails with
// model.ErrNotFound before any collaborator call.
func (s *Store) EditItem(ctx context.Context, id string, patch model.JewelryItem) (model.JewelryItem, error) {
	s.mu.Lock()
	known := indexOf(s.items, id) >= 0
	if !known {
		defer s.mu.Unlock()
		return model.JewelryItem{}, s.fail("editing item", fmt.Errorf("editing %s: %w", id, model.ErrNotFound))
	}
	if err := patch.Validate(); err != nil {
		defer s.mu.Unlock()
		return model.JewelryItem{}, s.fail("editing item", err)
	}
	s.pending++
	s.mu.Unlock()

	updated, err := s.collab.Update(ctx, id, patch.Clone())

	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending--
	if err != nil {
		return model.JewelryItem{}, s.fail("editing item", fmt.Errorf("editing %s: %w", id, err))
	}

	if i := indexOf(s.items, id); i >= 0 {
		items := slices.Clone(s.items)
		items[i] = updated.Clone()
		s.items = items
	}
	switch {
	case s.mode == FilterLocal:
		s.view = filter.Evaluate(s.items, s.filters)
	case indexOf(s.view, id) >= 0:
		view := slices.Clone(s.view)
		view[indexOf(view, id)] = updated.Clone()
		s.view = view
	}
	return updated.Clone(), nil
}

// Snapshot returns copies of the current state.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return State{
		Items:   cloneAll(s.items),
		View:    cloneAll(s.view),
		Filters: s.filters,
		Loading: s.pending > 0,
		Error:   s.errMsg,
	}
}

// Get returns the authoritative record for id.
func (s *Store) Get(id string) (model.JewelryItem, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := indexOf(s.items, id); i >= 0 {
		return s.items[i].Clone(), true
	}
	return model.JewelryItem{}, false
}

// DismissError clears the error banner.
func (s *Store) DismissError() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errMsg = ""
}

func (s *Store) begin() {
	s.mu.Lock()
	s.pending++
	s.mu.Unlock()
}

// fail records err for the banner and returns it. Callers hold s.mu.
func (s *Store) fail(op string, err error) error {
	s.errMsg = model.UserMessage(err)
	slog.Warn(op+" failed", "error", err)
	return err
}

func indexOf(items []model.JewelryItem, id string) int {
	return slices.IndexFunc(items, func(it model.JewelryItem) bool { return it.ID == id })
}

func cloneAll(items []model.JewelryItem) []model.JewelryItem {
	out := make([]model.JewelryItem, len(items))
	for i := range items {
		out[i] = items[i].Clone()
	}
	return out
}
