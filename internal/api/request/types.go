package request

// RegisterRequest is the request body for registering a user
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest is the request body for logging in
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// CreateGameRequest is the request body for creating a game
type CreateGameRequest struct {
	Name           string `json:"name"`
	Description    string `json:"description"`
	MaximumPlayers int    `json:"maximum_players"`
}

// RenameGameRequest is the request body for renaming a recruiting game
type RenameGameRequest struct {
	Name string `json:"name"`
}
