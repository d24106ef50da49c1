package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mcoot/rpserver-go/internal/model"
	"github.com/mcoot/rpserver-go/internal/presence"
	"github.com/mcoot/rpserver-go/internal/services/selector"
)

// Ensure Manager hydrates characters for the selector
var _ selector.Loader = (*Manager)(nil)

// LoadCharacter builds a character from its record with inventory, inbox
// and contacts loaded
func (m *Manager) LoadCharacter(ctx context.Context, rec model.CharacterRecord) (*model.Character, error) {
	inv, err := m.inventory.LoadInventoryForCharacter(ctx, rec.ID)
	if err != nil {
		return nil, fmt.Errorf("load inventory for %d: %w", rec.ID, err)
	}

	character := model.NewCharacter(rec, m.selector.GenderForModel(rec.Model), inv, m, m)

	msgs, err := m.storage.LoadTextMessagesForNumber(ctx, rec.PhoneNumber)
	if err != nil {
		return nil, err
	}
	character.Phone().LoadMessages(msgs)

	contacts, err := m.storage.LoadContactsForCharacter(ctx, rec.ID)
	if err != nil {
		return nil, err
	}
	character.Phone().LoadContacts(contacts)

	return character, nil
}

func (m *Manager) loadCharactersForAccount(ctx context.Context, account model.AccountID) ([]*model.Character, error) {
	recs, err := m.storage.LoadCharactersForAccount(ctx, account)
	if err != nil {
		return nil, err
	}

	characters := make([]*model.Character, 0, len(recs))
	for _, rec := range recs {
		c, err := m.LoadCharacter(ctx, rec)
		if err != nil {
			return nil, err
		}
		characters = append(characters, c)
	}
	return characters, nil
}

// RequestCreateCharacterMenu opens the creation menu for a logged-in actor
func (m *Manager) RequestCreateCharacterMenu(_ context.Context, actor model.Actor) error {
	session := m.sessions[actor.ID()]
	if session == nil {
		return model.ErrNotLoggedIn
	}
	m.selector.OpenCreationMenu(session)
	return nil
}

// RequestCreateCharacter creates a character for the actor's account. The
// per-account cap only produces a warning.
func (m *Manager) RequestCreateCharacter(ctx context.Context, actor model.Actor, firstName, lastName, modelName string) (*model.Character, error) {
	session := m.sessions[actor.ID()]
	if session == nil {
		return nil, model.ErrNotLoggedIn
	}

	count, err := m.storage.CountCharactersForAccount(ctx, session.Account.ID)
	if err != nil {
		return nil, err
	}

	character, err := m.selector.Create(ctx, session, firstName, lastName, modelName)
	switch {
	case err == nil:
	case errors.Is(err, model.ErrFirstNameLength), errors.Is(err, model.ErrLastNameLength):
		actor.SendNotification(nameNotices[err])
		return nil, err
	case errors.Is(err, model.ErrCharacterNameExists):
		first, last := selector.NormalizeName(firstName), selector.NormalizeName(lastName)
		actor.SendNotification(fmt.Sprintf(noticeCharacterExists, first, last))
		return nil, err
	default:
		return nil, err
	}

	if m.cfg.MaxCharacters > 0 && count > m.cfg.MaxCharacters {
		actor.SendNotification(fmt.Sprintf(noticeCharacterCap, m.cfg.MaxCharacters))
		m.logger.Warn("character cap exceeded",
			slog.Int64("account_id", int64(session.Account.ID)),
			slog.Int("characters", count+1))
	}
	return character, nil
}

// RequestSelectCharacter makes the named character the session's active one
func (m *Manager) RequestSelectCharacter(ctx context.Context, actor model.Actor, fullName string) (*model.Character, error) {
	session := m.sessions[actor.ID()]
	if session == nil {
		return nil, model.ErrNotLoggedIn
	}

	for _, c := range m.selector.Characters(session.Account.ID) {
		if c.FullName() == selector.NormalizeName(fullName) && m.GetCharacterWithID(c.ID()) != nil {
			return nil, model.ErrCharacterActive
		}
	}

	character, err := m.selector.Select(session, fullName)
	if err != nil {
		return nil, err
	}

	entry := presence.Entry{
		CharacterID: character.ID(),
		AccountID:   session.Account.ID,
		FullName:    character.FullName(),
		PhoneNumber: character.PhoneNumber(),
		Since:       m.clock.Now(),
	}
	if err := m.presence.MarkOnline(ctx, entry); err != nil {
		m.logger.Warn("presence update failed",
			slog.Int64("character_id", int64(character.ID())),
			slog.String("error", err.Error()))
	}

	m.logger.Info("character selected",
		slog.Int64("character_id", int64(character.ID())),
		slog.String("name", character.FullName()))
	return character, nil
}

// IsClientUsingCharacter reports whether the actor is logged in with an
// active character
func (m *Manager) IsClientUsingCharacter(actor model.Actor) bool {
	session := m.sessions[actor.ID()]
	return session != nil && session.HasCharacter()
}

// ActiveCharacterForActor returns the actor's active character
func (m *Manager) ActiveCharacterForActor(actor model.Actor) (*model.Character, error) {
	session := m.sessions[actor.ID()]
	if session == nil || !session.HasCharacter() {
		return nil, model.ErrNoActiveCharacter
	}
	return session.Character, nil
}
