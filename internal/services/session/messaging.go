package session

import (
	"context"
	"fmt"
	"log/slog"
	"unicode/utf8"

	"github.com/mcoot/rpserver-go/internal/model"
)

// Ensure Manager routes sent messages
var _ model.MessageDeliverer = (*Manager)(nil)

// TrySendTextMessage validates and sends a text from the actor's active
// character
func (m *Manager) TrySendTextMessage(ctx context.Context, actor model.Actor, receiver, body string) error {
	character, err := m.ActiveCharacterForActor(actor)
	if err != nil {
		return err
	}

	switch {
	case len(receiver) != model.PhoneNumberLength:
		actor.SendNotification(noticeTextNumberLength)
		return model.ErrPhoneNumberLength
	case body == "":
		actor.SendNotification(noticeTextEmpty)
		return model.ErrEmptyMessage
	case !model.IsDigits(receiver):
		actor.SendNotification(noticeTextNumberDigits)
		return model.ErrPhoneNumberDigits
	}

	if err := character.Phone().SendMessage(ctx, receiver, body, m.clock.Now()); err != nil {
		return err
	}
	actor.SendNotification(noticeMessageSent)
	return nil
}

// DeliverTextMessageToNumber delivers a message in memory when the
// receiver is in play, stores it when the number belongs to a character
// that is not, and drops it otherwise. Exactly one id is consumed per call.
func (m *Manager) DeliverTextMessageToNumber(ctx context.Context, msg model.TextMessage) error {
	msg.ID = m.messageIDs.take()

	if receiver := m.GetCharacterWithPhoneNumber(msg.ReceiverNumber); receiver != nil {
		receiver.Phone().ReceiveMessage(msg)
		m.logger.Debug("text message delivered",
			slog.Int64("message_id", int64(msg.ID)),
			slog.Int64("character_id", int64(receiver.ID())))
		return nil
	}

	exists, err := m.storage.CharacterExistsWithPhoneNumber(ctx, msg.ReceiverNumber)
	if err != nil {
		return err
	}
	if !exists {
		m.logger.Debug("text message dropped", slog.Int64("message_id", int64(msg.ID)))
		return nil
	}

	if err := m.storage.InsertTextMessage(ctx, msg); err != nil {
		return err
	}
	m.logger.Debug("text message stored", slog.Int64("message_id", int64(msg.ID)))
	return nil
}

// TryAddNewContact validates and stores a contact for the actor's active
// character
func (m *Manager) TryAddNewContact(ctx context.Context, actor model.Actor, name, number string) error {
	character, err := m.ActiveCharacterForActor(actor)
	if err != nil {
		return err
	}

	switch {
	case name == "":
		actor.SendChatMessage(noticeContactNameEmpty)
		return model.ErrContactNameEmpty
	case len(number) != model.PhoneNumberLength:
		actor.SendChatMessage(noticeContactNumber)
		return model.ErrPhoneNumberLength
	case utf8.RuneCountInString(name) > model.MaxContactNameLength:
		actor.SendChatMessage(noticeContactNameLength)
		return model.ErrContactNameTooLong
	case character.Phone().HasContactForNumber(number):
		actor.SendNotification(fmt.Sprintf(noticeContactExists, number))
		return model.ErrContactExists
	}

	contact := model.Contact{Name: name, Number: number}
	if err := m.storage.InsertContact(ctx, character.ID(), contact); err != nil {
		return err
	}
	character.Phone().AddContact(contact)
	return nil
}

// TryDeleteContact removes a contact from the actor's active character
func (m *Manager) TryDeleteContact(ctx context.Context, actor model.Actor, number string) error {
	character, err := m.ActiveCharacterForActor(actor)
	if err != nil {
		return err
	}
	if !character.Phone().HasContactForNumber(number) {
		return model.ErrContactNotFound
	}

	if err := m.storage.DeleteContact(ctx, character.ID(), number); err != nil {
		return err
	}
	character.Phone().RemoveContact(number)
	return nil
}

// TryDeleteTextMessage removes a received message from the actor's active
// character
func (m *Manager) TryDeleteTextMessage(ctx context.Context, actor model.Actor, id model.TextMessageID) error {
	character, err := m.ActiveCharacterForActor(actor)
	if err != nil {
		return err
	}
	if !character.Phone().HasTextMessageWithID(id) {
		return model.ErrTextMessageNotFound
	}

	if err := m.storage.DeleteTextMessage(ctx, id); err != nil {
		return err
	}
	character.Phone().RemoveTextMessage(id)
	return nil
}
