package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
}

// NewOutput creates a new Output formatter
func NewOutput(format string) *Output {
	return &Output{format: format}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintError outputs an error
func (o *Output) PrintError(err error) {
	if o.format == "json" {
		errData := map[string]any{
			"error": map[string]string{
				"message": err.Error(),
			},
		}
		data, _ := json.Marshal(errData)
		fmt.Fprintln(os.Stderr, string(data))
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Println(string(data))
	} else {
		fmt.Println(msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case LoginResult:
		o.printLoginResult(v)
	case Character:
		o.printCharacter(v)
	case OnlineResult:
		o.printOnline(v)
	case MoneyResult:
		fmt.Printf("Character %d balance: $%d\n", v.CharacterID, v.Money)
	case NotifyResult:
		if v.Delivered {
			fmt.Println("Notification delivered")
		} else {
			fmt.Println("Character is not in play; notification dropped")
		}
	case HealthResult:
		fmt.Printf("Status: %s (%d online)\n", v.Status, v.Online)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// Account response type (matches API)
type Account struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	AdminLevel int    `json:"admin_level"`
}

// LoginResult is the admin login response
type LoginResult struct {
	Account   Account   `json:"account"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Character response type
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

// OnlineCharacter response type
type OnlineCharacter struct {
	CharacterID int64     `json:"character_id"`
	AccountID   int64     `json:"account_id"`
	FullName    string    `json:"full_name"`
	PhoneNumber string    `json:"phone_number"`
	Since       time.Time `json:"since"`
}

// OnlineResult response type
type OnlineResult struct {
	Characters []OnlineCharacter `json:"characters"`
}

// MoneyResult response type
type MoneyResult struct {
	CharacterID int64 `json:"character_id"`
	Money       int   `json:"money"`
}

// NotifyResult response type
type NotifyResult struct {
	Delivered bool `json:"delivered"`
}

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
	Online int    `json:"online"`
}

func (o *Output) printLoginResult(l LoginResult) {
	fmt.Printf("Logged in as %s (admin level %d)\n", l.Account.Name, l.Account.AdminLevel)
	fmt.Printf("Token expires: %s\n", l.ExpiresAt.Local().Format(time.RFC1123))
}

func (o *Output) printCharacter(c Character) {
	status := "offline"
	if c.Online {
		status = "online"
	}
	fmt.Printf("Character: %s (%d) - %s\n", c.FullName, c.ID, status)
	fmt.Printf("Account: %d\n", c.AccountID)
	fmt.Printf("Model: %s\n", c.Model)
	fmt.Printf("Phone: %s\n", c.PhoneNumber)
	fmt.Printf("Money: $%d\n", c.Money)
	if c.Job >= 0 {
		fmt.Printf("Job: %d\n", c.Job)
	}
	if c.SpawnHouse >= 0 {
		fmt.Printf("Spawn House: %d\n", c.SpawnHouse)
	}
}

func (o *Output) printOnline(r OnlineResult) {
	fmt.Printf("Online (%d):\n", len(r.Characters))
	for _, c := range r.Characters {
		fmt.Printf("  - %s (%d) phone %s since %s\n",
			c.FullName, c.CharacterID, c.PhoneNumber, c.Since.Local().Format(time.Kitchen))
	}
}
