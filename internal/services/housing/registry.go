// Package housing tracks which characters own or rent which houses.
package housing

import (
	"context"
	"sync"

	"github.com/mcoot/rpserver-go/internal/model"
)

// Checker answers whether a character may use a house as its spawn point
type Checker interface {
	IsOwnerOrRenter(ctx context.Context, character model.CharacterID, house model.HouseID) (bool, error)
}

// Registry is an in-memory ownership and tenancy table
type Registry struct {
	mu      sync.RWMutex
	owners  map[model.HouseID]model.CharacterID
	renters map[model.HouseID]map[model.CharacterID]struct{}
}

// Ensure Registry implements Checker
var _ Checker = (*Registry)(nil)

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{
		owners:  make(map[model.HouseID]model.CharacterID),
		renters: make(map[model.HouseID]map[model.CharacterID]struct{}),
	}
}

// SetOwner records the owner of a house
func (r *Registry) SetOwner(house model.HouseID, owner model.CharacterID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.owners[house] = owner
}

// AddRenter records a tenant of a house
func (r *Registry) AddRenter(house model.HouseID, renter model.CharacterID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.renters[house] == nil {
		r.renters[house] = make(map[model.CharacterID]struct{})
	}
	r.renters[house][renter] = struct{}{}
}

// RemoveRenter ends a tenancy
func (r *Registry) RemoveRenter(house model.HouseID, renter model.CharacterID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.renters[house], renter)
}

func (r *Registry) IsOwnerOrRenter(_ context.Context, character model.CharacterID, house model.HouseID) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if owner, ok := r.owners[house]; ok && owner == character {
		return true, nil
	}
	_, renting := r.renters[house][character]
	return renting, nil
}
