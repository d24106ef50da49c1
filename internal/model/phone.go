package model

import (
	"context"
	"time"
)

// MessageTimeLayout is how message timestamps are shown to clients
const MessageTimeLayout = "2006-01-02 15:04"

// CallState is the phone UI state of a character
type CallState int

const (
	CallStateIdle CallState = iota
	CallStatePhoneOut
	CallStateCalling
)

func (s CallState) String() string {
	switch s {
	case CallStatePhoneOut:
		return "phone_out"
	case CallStateCalling:
		return "calling"
	default:
		return "idle"
	}
}

// Animation flags understood by the client
const (
	AnimFlagLoop                 = 1 << 0
	AnimFlagOnlyAnimateUpperBody = 1 << 4
	AnimFlagAllowPlayerControl   = 1 << 5
)

const phoneAnimFlags = AnimFlagAllowPlayerControl | AnimFlagLoop | AnimFlagOnlyAnimateUpperBody

// MessageDeliverer routes a sent message to its receiver
type MessageDeliverer interface {
	DeliverTextMessageToNumber(ctx context.Context, msg TextMessage) error
}

// Phone is a character's messaging endpoint: inbox, address book and call
// state. The store is not touched here; callers persist contact and message
// changes before applying them.
type Phone struct {
	owner     *Character
	number    string
	messages  []TextMessage
	contacts  []Contact
	state     CallState
	deliverer MessageDeliverer

	// peer is the other side of a ringing or connected call
	peer     *Phone
	ringing  bool
	outgoing bool
}

func newPhone(owner *Character, number string, deliverer MessageDeliverer) *Phone {
	return &Phone{
		owner:     owner,
		number:    number,
		deliverer: deliverer,
	}
}

// Number returns the phone number
func (p *Phone) Number() string {
	return p.number
}

// State returns the current call state
func (p *Phone) State() CallState {
	return p.state
}

// Messages returns the inbox in arrival order
func (p *Phone) Messages() []TextMessage {
	out := make([]TextMessage, len(p.messages))
	copy(out, p.messages)
	return out
}

// Contacts returns the address book in insertion order
func (p *Phone) Contacts() []Contact {
	out := make([]Contact, len(p.contacts))
	copy(out, p.contacts)
	return out
}

// LoadMessages appends stored messages without notifying the client
func (p *Phone) LoadMessages(msgs []TextMessage) {
	p.messages = append(p.messages, msgs...)
}

// LoadContacts appends stored contacts without notifying the client
func (p *Phone) LoadContacts(contacts []Contact) {
	p.contacts = append(p.contacts, contacts...)
}

// Messaging

// SendMessage hands a message to the delivery routine
func (p *Phone) SendMessage(ctx context.Context, receiver, body string, at time.Time) error {
	return p.deliverer.DeliverTextMessageToNumber(ctx, TextMessage{
		SenderNumber:   p.number,
		ReceiverNumber: receiver,
		Time:           at,
		Body:           body,
	})
}

// ReceiveMessage appends an incoming message and notifies the client
func (p *Phone) ReceiveMessage(msg TextMessage) {
	p.messages = append(p.messages, msg)
	p.owner.TriggerEvent(EventReceiveTextMessage,
		int64(msg.ID), msg.SenderNumber, msg.Body, msg.Time.Format(MessageTimeLayout))
}

// HasTextMessageWithID reports whether the inbox holds the message
func (p *Phone) HasTextMessageWithID(id TextMessageID) bool {
	return p.messageIndex(id) >= 0
}

// RemoveTextMessage drops a message from the inbox
func (p *Phone) RemoveTextMessage(id TextMessageID) bool {
	i := p.messageIndex(id)
	if i < 0 {
		return false
	}
	p.messages = append(p.messages[:i], p.messages[i+1:]...)
	p.owner.TriggerEvent(EventRemoveTextMessage, int64(id))
	return true
}

func (p *Phone) messageIndex(id TextMessageID) int {
	for i, m := range p.messages {
		if m.ID == id {
			return i
		}
	}
	return -1
}

// Contacts

// HasContactForNumber reports whether the address book has the number
func (p *Phone) HasContactForNumber(number string) bool {
	return p.contactIndex(number) >= 0
}

// ContactName returns the name stored for a number
func (p *Phone) ContactName(number string) (string, bool) {
	i := p.contactIndex(number)
	if i < 0 {
		return "", false
	}
	return p.contacts[i].Name, true
}

// AddContact appends an address book entry and notifies the client
func (p *Phone) AddContact(c Contact) {
	p.contacts = append(p.contacts, c)
	p.owner.TriggerEvent(EventAddContact, c.Name, c.Number)
}

// RemoveContact drops the entry for a number
func (p *Phone) RemoveContact(number string) bool {
	i := p.contactIndex(number)
	if i < 0 {
		return false
	}
	p.contacts = append(p.contacts[:i], p.contacts[i+1:]...)
	p.owner.TriggerEvent(EventRemoveContact, number)
	return true
}

func (p *Phone) contactIndex(number string) int {
	for i, c := range p.contacts {
		if c.Number == number {
			return i
		}
	}
	return -1
}

// Call state

// SetPhoneUsing takes the phone out
func (p *Phone) SetPhoneUsing() {
	p.setState(CallStatePhoneOut)
	p.owner.PlayAnimation(phoneAnimFlags, p.animDict(), "cellphone_text_read_base")
}

// SetPhoneCalling puts the phone to the ear
func (p *Phone) SetPhoneCalling() {
	p.setState(CallStateCalling)
	p.owner.PlayAnimation(phoneAnimFlags, p.animDict(), "cellphone_call_listen_base")
}

// SetPhoneNotUsing puts the phone away
func (p *Phone) SetPhoneNotUsing() {
	p.setState(CallStateIdle)
	p.owner.StopAnimation()
}

func (p *Phone) setState(s CallState) {
	p.state = s
	p.owner.TriggerEvent(EventSetPhoneState, int(s))
}

func (p *Phone) animDict() string {
	if p.owner.Gender() == GenderFemale {
		return "cellphone@female"
	}
	return "cellphone@"
}

// InCall reports whether the phone is ringing or connected
func (p *Phone) InCall() bool {
	return p.peer != nil
}

// Call rings another phone
func (p *Phone) Call(callee *Phone) error {
	if callee == nil || callee == p || callee.peer != nil || p.peer != nil {
		return ErrNumberUnavailable
	}
	p.peer, callee.peer = callee, p
	p.ringing, callee.ringing = true, true
	p.outgoing, callee.outgoing = true, false
	p.SetPhoneCalling()

	caller := p.number
	if name, ok := callee.ContactName(p.number); ok {
		caller = name
	}
	callee.owner.TriggerEvent(EventIncomingCall, p.number, caller)
	return nil
}

// PickupCall accepts a ringing call
func (p *Phone) PickupCall() error {
	if p.peer == nil || !p.ringing || p.outgoing {
		return ErrNoCall
	}
	peer := p.peer
	p.ringing, peer.ringing = false, false
	p.SetPhoneCalling()
	p.owner.TriggerEvent(EventCallStarted, peer.number)
	peer.owner.TriggerEvent(EventCallStarted, p.number)
	return nil
}

// HangUpCall ends a ringing or connected call on both sides
func (p *Phone) HangUpCall() error {
	if p.peer == nil {
		return ErrNoCall
	}
	peer := p.peer
	p.peer, peer.peer = nil, nil
	p.ringing, peer.ringing = false, false
	p.outgoing, peer.outgoing = false, false
	for _, side := range []*Phone{p, peer} {
		side.SetPhoneNotUsing()
		side.owner.TriggerEvent(EventCallEnded)
	}
	return nil
}
