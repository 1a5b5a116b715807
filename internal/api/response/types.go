package response

import (
	"time"

	"github.com/mkarsten/tablehost/internal/model"
	"github.com/mkarsten/tablehost/internal/services/user"
)

// User represents a user in API responses. The password hash and
// confirmation token never leave the service.
type User struct {
	ID            int64     `json:"id"`
	Username      string    `json:"username"`
	Email         string    `json:"email"`
	Enabled       bool      `json:"enabled"`
	Administrator bool      `json:"administrator"`
	RegisteredAt  time.Time `json:"registered_at"`
}

// UserFromModel converts a model.User to a response User
func UserFromModel(u *model.User) User {
	return User{
		ID:            int64(u.ID),
		Username:      string(u.Username),
		Email:         string(u.Email),
		Enabled:       u.Enabled,
		Administrator: u.Administrator,
		RegisteredAt:  u.RegisteredAt,
	}
}

// RegisterResponse is the response after registering a user
type RegisterResponse struct {
	UserID int64 `json:"user_id"`
}

// ConfirmResponse is the response for a confirmation attempt
type ConfirmResponse struct {
	Confirmed bool `json:"confirmed"`
}

// AuthResponse is the response for authentication endpoints
type AuthResponse struct {
	User         User   `json:"user"`
	SessionToken string `json:"session_token"`
}

// AuthResponseFromSession creates an AuthResponse from a session
func AuthResponseFromSession(s *user.Session) AuthResponse {
	return AuthResponse{
		User:         UserFromModel(&s.User),
		SessionToken: s.Token,
	}
}

// Game represents a game in API responses
type Game struct {
	ID             int64      `json:"id"`
	Name           string     `json:"name"`
	Description    string     `json:"description"`
	MaximumPlayers int        `json:"maximum_players"`
	MasterID       int64      `json:"master_id"`
	Phase          string     `json:"phase"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
	ArchivedAt     *time.Time `json:"archived_at,omitempty"`
}

// GameFromModel converts a model.Game to a response Game
func GameFromModel(g *model.Game) Game {
	var archivedAt *time.Time
	if !g.ArchivedAt.IsZero() {
		t := g.ArchivedAt
		archivedAt = &t
	}
	return Game{
		ID:             int64(g.ID),
		Name:           string(g.Name),
		Description:    string(g.Description),
		MaximumPlayers: int(g.MaximumPlayers),
		MasterID:       int64(g.MasterID),
		Phase:          string(g.Phase),
		CreatedAt:      g.CreatedAt,
		UpdatedAt:      g.UpdatedAt,
		ArchivedAt:     archivedAt,
	}
}

// CreateGameResponse is the response after creating a game
type CreateGameResponse struct {
	GameID int64 `json:"game_id"`
}
