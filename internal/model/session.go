package model

import "time"

// Session binds a connected actor to its logged-in account
type Session struct {
	Account   *Account
	Actor     Actor
	Character *Character // nil until a character is selected
	StartedAt time.Time
}

// HasCharacter reports whether a character has been selected
func (s *Session) HasCharacter() bool {
	return s.Character != nil
}
