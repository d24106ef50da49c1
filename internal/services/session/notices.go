package session

import "github.com/mcoot/rpserver-go/internal/model"

// User-facing notice texts
const (
	noticeAlreadyLoggedIn   = "You are already logged in!"
	noticeWrongPassword     = "Wrong password!"
	noticePasswordCharset   = "Password can only contain characters and numerals!"
	noticePasswordTooLong   = "Password is not allowed to be longer than 20 characters!"
	noticePasswordTooShort  = "Password has to be at least 6 characters long!"
	noticeFirstNameLength   = "First name has to be between 3 and 8 characters long!"
	noticeLastNameLength    = "Last name has to be between 2 and 10 characters long!"
	noticeCharacterExists   = "Character with name \"%s %s\" exists already"
	noticeCharacterCap      = "Only %d characters are allowed!"
	noticeTextNumberLength  = "Phone number has to be 7 digits long"
	noticeTextEmpty         = "Text message content is not allowed to be empty"
	noticeTextNumberDigits  = "Phone number can contain only numbers"
	noticeMessageSent       = "Message sent!"
	noticeContactNameEmpty  = "Contact name can't be empty!"
	noticeContactNumber     = "Phone number has to be 7 digits long!"
	noticeContactNameLength = "Name can't be longer than 12 characters!"
	noticeContactExists     = "You already have a contact for number %s"
)

var passwordNotices = map[error]string{
	model.ErrPasswordCharset:  noticePasswordCharset,
	model.ErrPasswordTooLong:  noticePasswordTooLong,
	model.ErrPasswordTooShort: noticePasswordTooShort,
}

var nameNotices = map[error]string{
	model.ErrFirstNameLength: noticeFirstNameLength,
	model.ErrLastNameLength:  noticeLastNameLength,
}
