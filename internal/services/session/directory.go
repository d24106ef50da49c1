package session

import (
	"cmp"
	"slices"

	"github.com/mcoot/rpserver-go/internal/model"
)

// Location tells whether a character is in play or only in storage
type Location int

const (
	Persisted Location = iota
	Active
)

// Lookup is the single online/offline decision for a character id. When
// Location is Active, Character is set.
type Lookup struct {
	Location  Location
	ID        model.CharacterID
	Character *model.Character
}

// Lookup resolves a character id against the active sessions
func (m *Manager) Lookup(id model.CharacterID) Lookup {
	if c := m.GetCharacterWithID(id); c != nil {
		return Lookup{Location: Active, ID: id, Character: c}
	}
	return Lookup{Location: Persisted, ID: id}
}

// GetActiveCharacters returns every active character ordered by id
func (m *Manager) GetActiveCharacters() []*model.Character {
	out := make([]*model.Character, 0, len(m.sessions))
	for _, s := range m.sessions {
		if s.HasCharacter() {
			out = append(out, s.Character)
		}
	}
	slices.SortFunc(out, func(a, b *model.Character) int {
		return cmp.Compare(a.ID(), b.ID())
	})
	return out
}

func (m *Manager) findActive(match func(*model.Character) bool) *model.Character {
	for _, s := range m.sessions {
		if s.HasCharacter() && match(s.Character) {
			return s.Character
		}
	}
	return nil
}

// GetCharacterWithID returns the active character with the id, or nil
func (m *Manager) GetCharacterWithID(id model.CharacterID) *model.Character {
	return m.findActive(func(c *model.Character) bool { return c.ID() == id })
}

// GetCharacterWithName returns the active character with the full name, or nil
func (m *Manager) GetCharacterWithName(fullName string) *model.Character {
	return m.findActive(func(c *model.Character) bool { return c.FullName() == fullName })
}

// GetCharacterWithPhoneNumber returns the active character with the number, or nil
func (m *Manager) GetCharacterWithPhoneNumber(number string) *model.Character {
	return m.findActive(func(c *model.Character) bool { return c.PhoneNumber() == number })
}

// IsCharacterWithIDOnline reports whether the character is active
func (m *Manager) IsCharacterWithIDOnline(id model.CharacterID) bool {
	return m.Lookup(id).Location == Active
}

// GetCharactersInDistance returns active characters within distance of
// point, boundary included
func (m *Manager) GetCharactersInDistance(point model.Vector3, distance float64) []*model.Character {
	var out []*model.Character
	for _, c := range m.GetActiveCharacters() {
		if c.Position().DistanceTo(point) <= distance {
			out = append(out, c)
		}
	}
	return out
}

// GetCharactersInRadiusOfCharacter returns active characters within radius
// of the character, the character itself included
func (m *Manager) GetCharactersInRadiusOfCharacter(character *model.Character, radius float64) []*model.Character {
	return m.GetCharactersInDistance(character.Position(), radius)
}
