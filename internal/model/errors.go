package model

import (
	"errors"
	"fmt"
)

// Error categories. Concrete errors wrap one of these so callers can branch
// on either the specific failure or its category.
var (
	ErrValidation     = errors.New("validation failed")
	ErrAuthentication = errors.New("authentication failed")
	ErrConsistency    = errors.New("consistency violation")
)

var (
	// Account errors
	ErrAccountNotFound   = errors.New("account not found")
	ErrAccountExists     = fmt.Errorf("%w: account already exists", ErrConsistency)
	ErrAlreadyLoggedIn   = fmt.Errorf("%w: already logged in", ErrConsistency)
	ErrNotLoggedIn       = fmt.Errorf("%w: not logged in", ErrConsistency)
	ErrWrongPassword     = fmt.Errorf("%w: wrong password", ErrAuthentication)
	ErrNoAccount         = fmt.Errorf("%w: no account", ErrAuthentication)
	ErrInsufficientAdmin = fmt.Errorf("%w: account has no admin privileges", ErrAuthentication)
	ErrPasswordCharset   = fmt.Errorf("%w: password may only contain letters and digits", ErrValidation)
	ErrPasswordTooLong   = fmt.Errorf("%w: password too long", ErrValidation)
	ErrPasswordTooShort  = fmt.Errorf("%w: password too short", ErrValidation)

	// Character errors
	ErrCharacterNotFound     = errors.New("character not found")
	ErrCharacterNotActive    = errors.New("character is not active")
	ErrPhoneNumbersExhausted = errors.New("no phone numbers left to allocate")
	ErrNoActiveCharacter     = fmt.Errorf("%w: no active character", ErrConsistency)
	ErrCharacterActive       = fmt.Errorf("%w: character already selected", ErrConsistency)
	ErrFirstNameLength       = fmt.Errorf("%w: first name length", ErrValidation)
	ErrLastNameLength        = fmt.Errorf("%w: last name length", ErrValidation)
	ErrModelNotAllowed       = fmt.Errorf("%w: model not allowed", ErrValidation)
	ErrCharacterNameExists   = fmt.Errorf("%w: character name exists", ErrValidation)

	// Messaging errors
	ErrContactNotFound     = errors.New("contact not found")
	ErrTextMessageNotFound = errors.New("text message not found")
	ErrNumberUnavailable   = errors.New("number is not available")
	ErrNoCall              = errors.New("no call in progress")
	ErrPhoneNumberLength   = fmt.Errorf("%w: phone number length", ErrValidation)
	ErrPhoneNumberDigits   = fmt.Errorf("%w: phone number must be digits", ErrValidation)
	ErrEmptyMessage        = fmt.Errorf("%w: empty text message", ErrValidation)
	ErrContactNameEmpty    = fmt.Errorf("%w: empty contact name", ErrValidation)
	ErrContactNameTooLong  = fmt.Errorf("%w: contact name too long", ErrValidation)
	ErrContactExists       = fmt.Errorf("%w: contact exists", ErrValidation)

	// Housing errors
	ErrNotHouseOccupant = errors.New("character does not own or rent the house")
)
