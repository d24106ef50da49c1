package query

import (
	"errors"
	"fmt"
)

var (
	// ErrQuery matches every error returned by Execute
	ErrQuery = errors.New("query failed")
	// ErrUnboundParameter means a placeholder had no bound value
	ErrUnboundParameter = errors.New("unbound parameter")
	// ErrNotRead means a row sequence was requested for a write statement
	ErrNotRead = errors.New("statement is not a read")
)

// Error describes a failed statement
type Error struct {
	Kind      Kind
	Statement string
	Err       error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s query %q: %v", e.Kind, e.Statement, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is makes every *Error match ErrQuery
func (e *Error) Is(target error) bool {
	return target == ErrQuery
}
