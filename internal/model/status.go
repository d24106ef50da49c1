package model

// StatusEffect is a transient condition applied to a character
type StatusEffect int

const (
	StatusHandcuffed StatusEffect = iota
)
