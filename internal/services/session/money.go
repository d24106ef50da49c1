package session

import (
	"context"
	"log/slog"

	"github.com/mcoot/rpserver-go/internal/model"
)

// Ensure Manager persists money for characters
var _ model.MoneyWriter = (*Manager)(nil)

// UpdateCharacterMoney writes a balance to storage
func (m *Manager) UpdateCharacterMoney(ctx context.Context, id model.CharacterID, money int) error {
	return m.storage.UpdateCharacterMoney(ctx, id, money)
}

// UpdateMoneyForCharacterWithID sets a character's balance whether or not
// it is in play
func (m *Manager) UpdateMoneyForCharacterWithID(ctx context.Context, id model.CharacterID, money int) error {
	l := m.Lookup(id)
	if l.Location == Active {
		return l.Character.SetMoney(ctx, money, true)
	}
	return m.storage.UpdateCharacterMoney(ctx, id, money)
}

// AddMoneyForCharacterWithID adds amount (which may be negative) to a
// character's balance and returns the new balance
func (m *Manager) AddMoneyForCharacterWithID(ctx context.Context, id model.CharacterID, amount int) (int, error) {
	l := m.Lookup(id)
	if l.Location == Active {
		money := l.Character.Money() + amount
		return money, l.Character.SetMoney(ctx, money, true)
	}

	current, err := m.storage.GetCharacterMoney(ctx, id)
	if err != nil {
		return 0, err
	}
	money := current + amount
	return money, m.storage.UpdateCharacterMoney(ctx, id, money)
}

// UpdateJobForCharacterWithID changes a character's job in memory when in
// play and always in storage
func (m *Manager) UpdateJobForCharacterWithID(ctx context.Context, id model.CharacterID, job model.JobID) error {
	if l := m.Lookup(id); l.Location == Active {
		l.Character.SetJob(job)
	}
	return m.storage.UpdateCharacterJob(ctx, id, job)
}

// SendNotificationToCharacterWithID notifies the character if it is in play
// and reports whether it was
func (m *Manager) SendNotificationToCharacterWithID(id model.CharacterID, message string) bool {
	l := m.Lookup(id)
	if l.Location != Active {
		return false
	}
	l.Character.SendNotification(message)
	return true
}

// SetCharacterSpawnHouse makes a house the spawn point of the actor's
// active character. Characters that neither own nor rent the house are
// left unchanged.
func (m *Manager) SetCharacterSpawnHouse(ctx context.Context, actor model.Actor, house model.HouseID) error {
	character, err := m.ActiveCharacterForActor(actor)
	if err != nil {
		return err
	}

	ok, err := m.housing.IsOwnerOrRenter(ctx, character.ID(), house)
	if err != nil {
		return err
	}
	if !ok {
		return model.ErrNotHouseOccupant
	}

	if err := m.storage.UpdateCharacterSpawnHouse(ctx, character.ID(), house); err != nil {
		return err
	}
	character.SetSpawnHouse(house)
	m.logger.Info("spawn house set",
		slog.Int64("character_id", int64(character.ID())),
		slog.Int("house_id", int(house)))
	return nil
}
