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

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Println(string(data))
	} else {
		fmt.Println(msg)
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

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case User:
		o.printUser(v)
	case AuthResult:
		o.printAuthResult(v)
	case RegisterResult:
		o.printRegisterResult(v)
	case ConfirmResult:
		o.printConfirmResult(v)
	case Game:
		o.printGame(v)
	case CreateGameResult:
		o.printCreateGameResult(v)
	case HealthResult:
		o.printHealthResult(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// User response type (matches API)
type User struct {
	ID            int64     `json:"id"`
	Username      string    `json:"username"`
	Email         string    `json:"email"`
	Enabled       bool      `json:"enabled"`
	Administrator bool      `json:"administrator"`
	RegisteredAt  time.Time `json:"registered_at"`
}

// AuthResult combines user and token
type AuthResult struct {
	User         User   `json:"user"`
	SessionToken string `json:"session_token"`
}

// RegisterResult response type
type RegisterResult struct {
	UserID int64 `json:"user_id"`
}

// ConfirmResult response type
type ConfirmResult struct {
	Confirmed bool `json:"confirmed"`
}

// Game response type
type Game struct {
	ID             int64      `json:"id"`
	Name           string     `json:"name"`
	Description    string     `json:"description"`
	MaximumPlayers int        `json:"maximum_players"`
	MasterID       int64      `json:"master_id"`
	Phase          string     `json:"phase"`
	CreatedAt      time.Time  `json:"created_at"`
	ArchivedAt     *time.Time `json:"archived_at,omitempty"`
}

// CreateGameResult response type
type CreateGameResult struct {
	GameID int64 `json:"game_id"`
}

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
}

func (o *Output) printUser(u User) {
	fmt.Printf("User: %s (%d)\n", u.Username, u.ID)
	fmt.Printf("Email: %s\n", u.Email)
	fmt.Printf("Enabled: %s\n", yesNo(u.Enabled))
	fmt.Printf("Administrator: %s\n", yesNo(u.Administrator))
	fmt.Printf("Registered: %s\n", u.RegisteredAt.Format(time.RFC3339))
}

func (o *Output) printAuthResult(a AuthResult) {
	o.printUser(a.User)
	fmt.Printf("Token: %s\n", a.SessionToken)
}

func (o *Output) printRegisterResult(r RegisterResult) {
	fmt.Printf("Registered user %d\n", r.UserID)
	fmt.Println("Check the account's email for the confirmation link")
}

func (o *Output) printConfirmResult(c ConfirmResult) {
	if c.Confirmed {
		fmt.Println("Registration confirmed")
	} else {
		fmt.Println("Confirmation failed: token unknown, used, or expired")
	}
}

func (o *Output) printGame(g Game) {
	fmt.Printf("Game: %s (%d)\n", g.Name, g.ID)
	fmt.Printf("Phase: %s\n", g.Phase)
	fmt.Printf("Description: %s\n", g.Description)
	fmt.Printf("Maximum Players: %d\n", g.MaximumPlayers)
	fmt.Printf("Master: %d\n", g.MasterID)
	fmt.Printf("Created: %s\n", g.CreatedAt.Format(time.RFC3339))
	if g.ArchivedAt != nil {
		fmt.Printf("Archived: %s\n", g.ArchivedAt.Format(time.RFC3339))
	}
}

func (o *Output) printCreateGameResult(r CreateGameResult) {
	fmt.Printf("Created game %d\n", r.GameID)
}

func (o *Output) printHealthResult(h HealthResult) {
	fmt.Printf("Status: %s\n", h.Status)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
