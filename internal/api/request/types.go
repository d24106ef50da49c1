// Package request holds admin API request bodies. Each body validates its
// own required fields.
package request

import "errors"

// AdminLoginRequest is the request body for an admin login
type AdminLoginRequest struct {
	Name     string `json:"name"`
	Password string `json:"password"`
}

// Validate checks required fields
func (r AdminLoginRequest) Validate() error {
	if r.Name == "" {
		return errors.New("name is required")
	}
	if r.Password == "" {
		return errors.New("password is required")
	}
	return nil
}

// SetMoneyRequest is the request body for setting a balance
type SetMoneyRequest struct {
	Money *int `json:"money"`
}

// Validate checks required fields
func (r SetMoneyRequest) Validate() error {
	if r.Money == nil {
		return errors.New("money is required")
	}
	return nil
}

// AddMoneyRequest is the request body for adding to a balance. Amount may
// be negative.
type AddMoneyRequest struct {
	Amount *int `json:"amount"`
}

// Validate checks required fields
func (r AddMoneyRequest) Validate() error {
	if r.Amount == nil {
		return errors.New("amount is required")
	}
	return nil
}

// SetJobRequest is the request body for changing a character's job
type SetJobRequest struct {
	Job *int `json:"job"`
}

// Validate checks required fields
func (r SetJobRequest) Validate() error {
	if r.Job == nil {
		return errors.New("job is required")
	}
	return nil
}

// NotifyRequest is the request body for notifying a character
type NotifyRequest struct {
	Message string `json:"message"`
}

// Validate checks required fields
func (r NotifyRequest) Validate() error {
	if r.Message == "" {
		return errors.New("message is required")
	}
	return nil
}
