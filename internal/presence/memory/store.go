package memory

import (
	"cmp"
	"context"
	"slices"
	"sync"

	"github.com/mcoot/rpserver-go/internal/model"
	"github.com/mcoot/rpserver-go/internal/presence"
)

// Store is an in-process presence.Store
type Store struct {
	mu      sync.RWMutex
	entries map[model.CharacterID]presence.Entry
}

// New creates an empty store
func New() *Store {
	return &Store{entries: make(map[model.CharacterID]presence.Entry)}
}

var _ presence.Store = (*Store)(nil)

func (s *Store) MarkOnline(_ context.Context, entry presence.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[entry.CharacterID] = entry
	return nil
}

func (s *Store) MarkOffline(_ context.Context, id model.CharacterID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, id)
	return nil
}

func (s *Store) Get(_ context.Context, id model.CharacterID) (*presence.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.entries[id]
	if !ok {
		return nil, presence.ErrNotOnline
	}
	return &entry, nil
}

func (s *Store) List(_ context.Context) ([]presence.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]presence.Entry, 0, len(s.entries))
	for _, e := range s.entries {
		out = append(out, e)
	}
	slices.SortFunc(out, func(a, b presence.Entry) int {
		return cmp.Compare(a.CharacterID, b.CharacterID)
	})
	return out, nil
}

func (s *Store) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	clear(s.entries)
	return nil
}

func (s *Store) Close() error {
	return nil
}
