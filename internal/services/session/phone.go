package session

import (
	"context"

	"github.com/mcoot/rpserver-go/internal/model"
)

// SetPlayerUsingPhone takes the phone out in the active character's hand
func (m *Manager) SetPlayerUsingPhone(actor model.Actor) error {
	character, err := m.ActiveCharacterForActor(actor)
	if err != nil {
		return err
	}
	character.Phone().SetPhoneUsing()
	return nil
}

// SetPlayerPhoneCalling holds the phone to the active character's ear
func (m *Manager) SetPlayerPhoneCalling(actor model.Actor) error {
	character, err := m.ActiveCharacterForActor(actor)
	if err != nil {
		return err
	}
	character.Phone().SetPhoneCalling()
	return nil
}

// SetPlayerPhoneOut puts the active character's phone away
func (m *Manager) SetPlayerPhoneOut(actor model.Actor) error {
	character, err := m.ActiveCharacterForActor(actor)
	if err != nil {
		return err
	}
	character.Phone().SetPhoneNotUsing()
	return nil
}

// TryStartPhoneCall rings the active character holding number
func (m *Manager) TryStartPhoneCall(_ context.Context, actor model.Actor, number string) error {
	caller, err := m.ActiveCharacterForActor(actor)
	if err != nil {
		return err
	}

	callee := m.GetCharacterWithPhoneNumber(number)
	if callee == nil {
		return model.ErrNumberUnavailable
	}
	return caller.Phone().Call(callee.Phone())
}

// TryAcceptPhoneCall picks up a ringing call
func (m *Manager) TryAcceptPhoneCall(actor model.Actor) error {
	character, err := m.ActiveCharacterForActor(actor)
	if err != nil {
		return err
	}
	return character.Phone().PickupCall()
}

// TryHangupPhoneCall ends the active character's call
func (m *Manager) TryHangupPhoneCall(actor model.Actor) error {
	character, err := m.ActiveCharacterForActor(actor)
	if err != nil {
		return err
	}
	return character.Phone().HangUpCall()
}
