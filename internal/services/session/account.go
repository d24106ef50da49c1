package session

import (
	"context"
	"errors"
	"log/slog"

	"github.com/mcoot/rpserver-go/internal/model"
	"github.com/mcoot/rpserver-go/internal/services/auth"
)

// HandlePlayerConnect parks a new actor at the login camera. Actors without
// an account are sent to the account creation menu.
func (m *Manager) HandlePlayerConnect(ctx context.Context, actor model.Actor) error {
	m.connected[actor.ID()] = actor
	m.setStartCameraMode(actor, true)

	exists, err := m.storage.AccountExists(ctx, actor.Name())
	if err != nil {
		return err
	}
	if !exists {
		actor.TriggerEvent(model.EventOpenCreateAccountMenu, actor.Name())
	}

	m.logger.Info("actor connected",
		slog.String("actor_id", string(actor.ID())),
		slog.String("name", actor.Name()),
		slog.Bool("has_account", exists))
	return nil
}

// RequestCreateAccount registers an account under the actor's identity and
// moves straight to character selection
func (m *Manager) RequestCreateAccount(ctx context.Context, actor model.Actor, password string) error {
	exists, err := m.storage.AccountExists(ctx, actor.Name())
	if err != nil {
		return err
	}
	if exists {
		return model.ErrAccountExists
	}

	if err := auth.ValidatePassword(password); err != nil {
		actor.SendNotification(passwordNotices[err])
		return err
	}

	hash, err := m.auth.HashPassword(password)
	if err != nil {
		return err
	}

	account := &model.Account{
		ID:           m.accountIDs.peek(),
		Name:         actor.Name(),
		PasswordHash: hash,
	}
	if err := m.storage.InsertAccount(ctx, account); err != nil {
		return err
	}
	m.accountIDs.take()

	session := m.addSession(account, actor)
	actor.TriggerEvent(model.EventCloseCreateAccountMenu)
	m.setStartCameraMode(actor, false)
	m.selector.Open(session, nil)

	m.logger.Info("account created",
		slog.Int64("account_id", int64(account.ID)),
		slog.String("name", account.Name))
	return nil
}

// HandlePlayerLogin authenticates the actor against its stored account and
// opens character selection with every owned character fully loaded
func (m *Manager) HandlePlayerLogin(ctx context.Context, actor model.Actor, password string) error {
	if m.IsPlayerLoggedIn(actor) {
		actor.SendChatMessage(noticeAlreadyLoggedIn)
		return model.ErrAlreadyLoggedIn
	}

	account, err := m.storage.GetAccountByName(ctx, actor.Name())
	if err != nil {
		if errors.Is(err, model.ErrAccountNotFound) {
			return model.ErrNoAccount
		}
		return err
	}

	if !m.auth.VerifyPassword(account.PasswordHash, password) {
		actor.SendChatMessage(noticeWrongPassword)
		m.logger.Info("login rejected", slog.String("name", actor.Name()))
		return model.ErrWrongPassword
	}

	// One live session per account, whichever actor holds it
	if held := m.sessionForAccount(account.ID); held != nil {
		actor.SendChatMessage(noticeAlreadyLoggedIn)
		m.logger.Info("login rejected, account in use",
			slog.Int64("account_id", int64(account.ID)),
			slog.String("holder", string(held.Actor.ID())))
		return model.ErrAlreadyLoggedIn
	}

	characters, err := m.loadCharactersForAccount(ctx, account.ID)
	if err != nil {
		return err
	}

	session := m.addSession(account, actor)
	m.setStartCameraMode(actor, false)
	m.selector.Open(session, characters)

	m.logger.Info("account logged in",
		slog.Int64("account_id", int64(account.ID)),
		slog.Int("characters", len(characters)))
	return nil
}

// IsPlayerLoggedIn reports whether the actor has a session
func (m *Manager) IsPlayerLoggedIn(actor model.Actor) bool {
	_, ok := m.sessions[actor.ID()]
	return ok
}

// SessionForActor returns the actor's session, or nil
func (m *Manager) SessionForActor(actor model.Actor) *model.Session {
	return m.sessions[actor.ID()]
}

func (m *Manager) sessionForAccount(id model.AccountID) *model.Session {
	for _, s := range m.sessions {
		if s.Account.ID == id {
			return s
		}
	}
	return nil
}

// Sessions returns every logged-in session
func (m *Manager) Sessions() []*model.Session {
	out := make([]*model.Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		out = append(out, s)
	}
	return out
}

func (m *Manager) addSession(account *model.Account, actor model.Actor) *model.Session {
	session := &model.Session{
		Account:   account,
		Actor:     actor,
		StartedAt: m.clock.Now(),
	}
	m.sessions[actor.ID()] = session
	return session
}
