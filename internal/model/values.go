package model

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// ValidationError reports a value that was rejected at construction.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// UserID uniquely identifies a user. Identities are allocated by storage,
// never generated by the aggregate.
type UserID int64

// NewUserID validates that the identifier is positive
func NewUserID(id int64) (UserID, error) {
	if id <= 0 {
		return 0, &ValidationError{Field: "user id", Reason: "must be positive"}
	}
	return UserID(id), nil
}

// GameID uniquely identifies a game across all lifecycle phases
type GameID int64

// NewGameID validates that the identifier is positive
func NewGameID(id int64) (GameID, error) {
	if id <= 0 {
		return 0, &ValidationError{Field: "game id", Reason: "must be positive"}
	}
	return GameID(id), nil
}

const (
	// UsernameMinLength and UsernameMaxLength bound the login name
	UsernameMinLength = 3
	UsernameMaxLength = 30
)

// Username is a unique, immutable login name
type Username string

// NewUsername validates the username length bounds
func NewUsername(raw string) (Username, error) {
	trimmed := strings.TrimSpace(raw)
	if n := utf8.RuneCountInString(trimmed); n < UsernameMinLength || n > UsernameMaxLength {
		return "", &ValidationError{
			Field:  "username",
			Reason: fmt.Sprintf("must be %d-%d characters", UsernameMinLength, UsernameMaxLength),
		}
	}
	return Username(trimmed), nil
}

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// Email is a validated email address
type Email string

// NewEmail validates the address format
func NewEmail(raw string) (Email, error) {
	trimmed := strings.TrimSpace(raw)
	if !emailPattern.MatchString(trimmed) {
		return "", &ValidationError{Field: "email", Reason: "malformed address"}
	}
	return Email(trimmed), nil
}

// PasswordHash is the one-way hash of a password. The raw password is never
// stored and cannot be recovered from it.
type PasswordHash string

// NewPasswordHash validates that the hash is present
func NewPasswordHash(raw string) (PasswordHash, error) {
	if raw == "" {
		return "", &ValidationError{Field: "password hash", Reason: "must not be empty"}
	}
	return PasswordHash(raw), nil
}

// ConfirmationToken is a single-use random credential proving control of the
// registered email address. The zero value marks a consumed token.
type ConfirmationToken string

// NewConfirmationToken validates that the token is present
func NewConfirmationToken(raw string) (ConfirmationToken, error) {
	if raw == "" {
		return "", &ValidationError{Field: "confirmation token", Reason: "must not be empty"}
	}
	return ConfirmationToken(raw), nil
}

// NameMaxLength bounds a game name
const NameMaxLength = 100

// Name is a game's display name, unique among recruiting and active games
type Name string

// NewName validates the name bounds
func NewName(raw string) (Name, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", &ValidationError{Field: "name", Reason: "must not be empty"}
	}
	if utf8.RuneCountInString(trimmed) > NameMaxLength {
		return "", &ValidationError{
			Field:  "name",
			Reason: fmt.Sprintf("must be at most %d characters", NameMaxLength),
		}
	}
	return Name(trimmed), nil
}

// DescriptionMaxLength bounds a game description
const DescriptionMaxLength = 1000

// Description is a game's free-form description
type Description string

// NewDescription validates the description bounds
func NewDescription(raw string) (Description, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", &ValidationError{Field: "description", Reason: "must not be empty"}
	}
	if utf8.RuneCountInString(trimmed) > DescriptionMaxLength {
		return "", &ValidationError{
			Field:  "description",
			Reason: fmt.Sprintf("must be at most %d characters", DescriptionMaxLength),
		}
	}
	return Description(trimmed), nil
}

// MaximumPlayersBound is the upper bound on a game's player cap
const MaximumPlayersBound = 100

// MaximumPlayers is the player cap for a game session
type MaximumPlayers int

// NewMaximumPlayers validates the cap range
func NewMaximumPlayers(n int) (MaximumPlayers, error) {
	if n < 1 || n > MaximumPlayersBound {
		return 0, &ValidationError{
			Field:  "maximum players",
			Reason: fmt.Sprintf("must be 1-%d", MaximumPlayersBound),
		}
	}
	return MaximumPlayers(n), nil
}
