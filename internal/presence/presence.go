// Package presence mirrors which characters are currently in play so that
// processes outside the session loop (admin API, CLI) can read it.
package presence

import (
	"context"
	"errors"
	"time"

	"github.com/mcoot/rpserver-go/internal/model"
)

// ErrNotOnline is returned by Get for characters without an entry
var ErrNotOnline = errors.New("character is not online")

// Entry describes one character in play
type Entry struct {
	CharacterID model.CharacterID `json:"character_id"`
	AccountID   model.AccountID   `json:"account_id"`
	FullName    string            `json:"full_name"`
	PhoneNumber string            `json:"phone_number"`
	Since       time.Time         `json:"since"`
}

// Store holds the online set. Writes come only from the session loop.
type Store interface {
	MarkOnline(ctx context.Context, entry Entry) error
	MarkOffline(ctx context.Context, id model.CharacterID) error
	Get(ctx context.Context, id model.CharacterID) (*Entry, error)
	// List returns entries ordered by character id
	List(ctx context.Context) ([]Entry, error)
	// Clear drops every entry; called once at startup
	Clear(ctx context.Context) error
	Close() error
}
