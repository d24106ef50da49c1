package model

import "time"

// PhoneNumberLength is the exact number of digits in a phone number
const PhoneNumberLength = 7

// MaxContactNameLength bounds a contact's display name
const MaxContactNameLength = 12

// TextMessageID identifies a text message. Allocated once per delivery and
// never reused.
type TextMessageID int64

// TextMessage is a short message between two phone numbers
type TextMessage struct {
	ID             TextMessageID
	SenderNumber   string
	ReceiverNumber string
	Time           time.Time
	Body           string
}

// Contact is an address book entry
type Contact struct {
	Name   string
	Number string
}

// IsPhoneNumber reports whether s is exactly PhoneNumberLength ASCII digits
func IsPhoneNumber(s string) bool {
	return len(s) == PhoneNumberLength && IsDigits(s)
}

// IsDigits reports whether s is non-empty and only ASCII digits
func IsDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
