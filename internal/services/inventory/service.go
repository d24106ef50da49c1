package inventory

import (
	"context"
	"log/slog"
	"sync"

	"github.com/mcoot/rpserver-go/internal/model"
)

// Service keeps one bag per character for the lifetime of the process
type Service struct {
	mu     sync.Mutex
	bags   map[model.CharacterID]*Bag
	logger *slog.Logger
}

// New creates an inventory service
func New(logger *slog.Logger) *Service {
	return &Service{
		bags:   make(map[model.CharacterID]*Bag),
		logger: logger.With(slog.String("component", "inventory")),
	}
}

// LoadInventoryForCharacter returns the character's bag, creating an empty
// one on first use
func (s *Service) LoadInventoryForCharacter(_ context.Context, id model.CharacterID) (model.Inventory, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if bag, ok := s.bags[id]; ok {
		return bag, nil
	}
	bag := NewBag()
	s.bags[id] = bag
	s.logger.Debug("inventory created", slog.Int64("character_id", int64(id)))
	return bag, nil
}
