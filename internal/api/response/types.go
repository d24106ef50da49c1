package response

import (
	"time"

	"github.com/mcoot/rpserver-go/internal/model"
	"github.com/mcoot/rpserver-go/internal/presence"
	"github.com/mcoot/rpserver-go/internal/services/auth"
)

// Account represents the authenticated admin in API responses
type Account struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	AdminLevel int    `json:"admin_level"`
}

// LoginResponse is the response for the admin login endpoint
type LoginResponse struct {
	Account   Account   `json:"account"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// LoginResponseFromClaims creates a LoginResponse from issued claims
func LoginResponseFromClaims(token string, c *auth.Claims) LoginResponse {
	return LoginResponse{
		Account: Account{
			ID:         int64(c.AccountID),
			Name:       c.Name,
			AdminLevel: c.AdminLevel,
		},
		Token:     token,
		ExpiresAt: c.ExpiresAt.Time,
	}
}

// Character represents a character in API responses
type Character struct {
	ID          int64  `json:"id"`
	AccountID   int64  `json:"account_id"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	FullName    string `json:"full_name"`
	Model       string `json:"model"`
	Faction     int    `json:"faction"`
	Job         int    `json:"job"`
	Money       int    `json:"money"`
	PhoneNumber string `json:"phone_number"`
	SpawnHouse  int    `json:"spawn_house"`
	Online      bool   `json:"online"`
}

// CharacterFromRecord converts a persisted character record
func CharacterFromRecord(r model.CharacterRecord, online bool) Character {
	return Character{
		ID:          int64(r.ID),
		AccountID:   int64(r.AccountID),
		FirstName:   r.FirstName,
		LastName:    r.LastName,
		FullName:    r.FullName(),
		Model:       r.Model,
		Faction:     int(r.FactionID),
		Job:         int(r.JobID),
		Money:       r.Money,
		PhoneNumber: r.PhoneNumber,
		SpawnHouse:  int(r.SpawnHouseID),
		Online:      online,
	}
}

// CharacterFromModel converts an in-play character
func CharacterFromModel(c *model.Character) Character {
	return CharacterFromRecord(c.Record(), true)
}

// OnlineCharacter represents one presence entry
type OnlineCharacter struct {
	CharacterID int64     `json:"character_id"`
	AccountID   int64     `json:"account_id"`
	FullName    string    `json:"full_name"`
	PhoneNumber string    `json:"phone_number"`
	Since       time.Time `json:"since"`
}

// OnlineResponse lists the characters currently in play
type OnlineResponse struct {
	Characters []OnlineCharacter `json:"characters"`
}

// OnlineResponseFromEntries converts presence entries
func OnlineResponseFromEntries(entries []presence.Entry) OnlineResponse {
	out := make([]OnlineCharacter, len(entries))
	for i, e := range entries {
		out[i] = OnlineCharacter{
			CharacterID: int64(e.CharacterID),
			AccountID:   int64(e.AccountID),
			FullName:    e.FullName,
			PhoneNumber: e.PhoneNumber,
			Since:       e.Since,
		}
	}
	return OnlineResponse{Characters: out}
}

// MoneyResponse reports a character's balance after a change
type MoneyResponse struct {
	CharacterID int64 `json:"character_id"`
	Money       int   `json:"money"`
}

// NotifyResponse reports whether a notification reached the character
type NotifyResponse struct {
	Delivered bool `json:"delivered"`
}
