package model

// AccountID identifies an account
type AccountID int64

// Account is a login identity keyed by the connecting actor's identity string
type Account struct {
	ID           AccountID
	Name         string
	PasswordHash string // bcrypt hash
	AdminLevel   int
}

// IsAdmin reports whether the account carries any administrative privilege
func (a *Account) IsAdmin() bool {
	return a.AdminLevel > 0
}
