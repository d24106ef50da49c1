// Package session owns the live session registry: connected actors, their
// logged-in accounts and active characters. Manager is not safe for
// concurrent use; every call must come from the dispatch loop.
package session

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mcoot/rpserver-go/internal/dependencies/clock"
	"github.com/mcoot/rpserver-go/internal/dependencies/random"
	"github.com/mcoot/rpserver-go/internal/model"
	"github.com/mcoot/rpserver-go/internal/presence"
	"github.com/mcoot/rpserver-go/internal/services/auth"
	"github.com/mcoot/rpserver-go/internal/services/housing"
	"github.com/mcoot/rpserver-go/internal/services/selector"
	"github.com/mcoot/rpserver-go/internal/storage"
)

// Config holds session manager settings
type Config struct {
	StartMoney    int
	MaxCharacters int
}

// DefaultConfig returns the default session settings
func DefaultConfig() Config {
	return Config{
		StartMoney:    1000,
		MaxCharacters: 5,
	}
}

// InventoryLoader hands out a character's inventory
type InventoryLoader interface {
	LoadInventoryForCharacter(ctx context.Context, id model.CharacterID) (model.Inventory, error)
}

// Deps are the manager's collaborators
type Deps struct {
	Storage   storage.Storage
	Auth      *auth.Service
	Inventory InventoryLoader
	Housing   housing.Checker
	Presence  presence.Store
	Clock     clock.Clock
	Random    random.Random
	Logger    *slog.Logger
}

// Manager drives the connect, login, selection and disconnect flow
type Manager struct {
	storage   storage.Storage
	auth      *auth.Service
	inventory InventoryLoader
	housing   housing.Checker
	presence  presence.Store
	clock     clock.Clock
	random    random.Random
	logger    *slog.Logger
	cfg       Config

	selector *selector.Selector

	// connected holds every actor between connect and disconnect
	connected map[model.ActorID]model.Actor
	// sessions holds logged-in actors only
	sessions map[model.ActorID]*model.Session

	accountIDs sequence[model.AccountID]
	messageIDs sequence[model.TextMessageID]

	cameras   []model.CameraPosition
	observers observers
}

// New creates a manager. Init must run before any other call.
func New(deps Deps, cfg Config) *Manager {
	logger := deps.Logger.With(slog.String("component", "session"))
	m := &Manager{
		storage:   deps.Storage,
		auth:      deps.Auth,
		inventory: deps.Inventory,
		housing:   deps.Housing,
		presence:  deps.Presence,
		clock:     deps.Clock,
		random:    deps.Random,
		logger:    logger,
		cfg:       cfg,
		connected: make(map[model.ActorID]model.Actor),
		sessions:  make(map[model.ActorID]*model.Session),
		cameras:   startCameraPositions(),
	}
	m.selector = selector.New(deps.Storage, deps.Random, m, selector.Config{StartMoney: cfg.StartMoney}, deps.Logger)
	return m
}

// Init seeds the id sequences from the store, loads the creation models and
// phone numbers in use and clears stale presence entries
func (m *Manager) Init(ctx context.Context) error {
	accountMax, ok, err := m.storage.MaxAccountID(ctx)
	if err != nil {
		return fmt.Errorf("seed account id: %w", err)
	}
	m.accountIDs.seed(accountMax, ok)

	messageMax, ok, err := m.storage.MaxTextMessageID(ctx)
	if err != nil {
		return fmt.Errorf("seed text message id: %w", err)
	}
	m.messageIDs.seed(messageMax, ok)

	if err := m.selector.Init(ctx); err != nil {
		return err
	}

	if err := m.presence.Clear(ctx); err != nil {
		return fmt.Errorf("clear presence: %w", err)
	}

	m.logger.Info("session manager initialised",
		slog.Int64("next_account_id", int64(m.accountIDs.peek())),
		slog.Int64("next_text_message_id", int64(m.messageIDs.peek())),
		slog.Int64("next_character_id", int64(m.selector.NextCharacterID())))
	return nil
}

// NextTextMessageID returns the id the next delivered message will get
func (m *Manager) NextTextMessageID() model.TextMessageID {
	return m.messageIDs.peek()
}

// NextAccountID returns the id the next registered account will get
func (m *Manager) NextAccountID() model.AccountID {
	return m.accountIDs.peek()
}

// sequence hands out strictly increasing ids starting after the store's
// maximum. It relies on the dispatch loop for exclusion.
type sequence[T ~int64] struct {
	next T
}

func (s *sequence[T]) seed(top T, ok bool) {
	s.next = 0
	if ok {
		s.next = top + 1
	}
}

func (s *sequence[T]) peek() T {
	return s.next
}

func (s *sequence[T]) take() T {
	id := s.next
	s.next++
	return id
}
