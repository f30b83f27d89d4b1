// Package history keeps the newest-first log of past requests.
// The whole list is rewritten to the backend on every mutation.
package history

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/bitrise-io/ai-verse-processor/logger"
)

const (
	// Key is the backend key holding the serialized list
	Key = "app_history"
	// SelectedKey is the backend key holding the selected item id
	SelectedKey = "app_history_selected"
)

// ErrItemNotFound is returned when an id is not in the history
var ErrItemNotFound = errors.New("history item not found")

// Store owns the in-memory history and its persisted mirror
type Store struct {
	backend Backend

	mu       sync.RWMutex
	items    []Item
	selected string
}

func NewStore(backend Backend) *Store {
	return &Store{
		backend: backend,
		items:   []Item{},
	}
}

// Load reads the persisted history. Malformed data resets to an empty history
// instead of failing; only backend errors are returned.
func (s *Store) Load(ctx context.Context) error {
	items, err := s.loadItems(ctx)
	if err != nil {
		return err
	}

	selected, err := s.backend.Get(ctx, SelectedKey)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("failed to load history selection: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = items
	s.selected = ""
	if id := string(selected); id != "" && indexOf(items, id) >= 0 {
		s.selected = id
	}

	logger.Debugf("Loaded %d history items", len(items))
	return nil
}

func (s *Store) loadItems(ctx context.Context) ([]Item, error) {
	data, err := s.backend.Get(ctx, Key)
	if errors.Is(err, ErrNotFound) {
		return []Item{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load history: %w", err)
	}

	var items []Item
	if err := json.Unmarshal(data, &items); err != nil {
		logger.Warnf("Stored history is malformed, starting with an empty history: %v", err)
		return []Item{}, nil
	}
	if items == nil {
		items = []Item{}
	}
	return items, nil
}

// Append adds item as the newest entry and persists the whole list
func (s *Store) Append(ctx context.Context, item Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := append([]Item{item}, s.items...)
	if err := s.persistLocked(ctx, items); err != nil {
		return err
	}
	s.items = items
	return nil
}

// Clear removes every item and the selection
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.persistLocked(ctx, []Item{}); err != nil {
		return err
	}
	s.items = []Item{}
	if err := s.persistSelectedLocked(ctx, ""); err != nil {
		return err
	}
	s.selected = ""
	return nil
}

// Select marks the item with id as the current one
func (s *Store) Select(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if indexOf(s.items, id) < 0 {
		return fmt.Errorf("%w: %s", ErrItemNotFound, id)
	}
	if err := s.persistSelectedLocked(ctx, id); err != nil {
		return err
	}
	s.selected = id
	return nil
}

// List returns a copy of the items, newest first
func (s *Store) List() []Item {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return append([]Item{}, s.items...)
}

// Len returns the number of items
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.items)
}

// Get looks up an item by id
func (s *Store) Get(id string) (Item, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if i := indexOf(s.items, id); i >= 0 {
		return s.items[i], true
	}
	return Item{}, false
}

// Selected returns the selected item, if any
func (s *Store) Selected() (Item, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.selected == "" {
		return Item{}, false
	}
	if i := indexOf(s.items, s.selected); i >= 0 {
		return s.items[i], true
	}
	return Item{}, false
}

// SelectedID returns the id of the selected item or an empty string
func (s *Store) SelectedID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.selected
}

// Close releases the backend
func (s *Store) Close() error {
	return s.backend.Close()
}

func (s *Store) persistLocked(ctx context.Context, items []Item) error {
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("failed to encode history: %w", err)
	}
	if err := s.backend.Set(ctx, Key, data); err != nil {
		return fmt.Errorf("failed to persist history: %w", err)
	}
	return nil
}

func (s *Store) persistSelectedLocked(ctx context.Context, id string) error {
	if err := s.backend.Set(ctx, SelectedKey, []byte(id)); err != nil {
		return fmt.Errorf("failed to persist history selection: %w", err)
	}
	return nil
}

func indexOf(items []Item, id string) int {
	for i := range items {
		if items[i].ID == id {
			return i
		}
	}
	return -1
}
