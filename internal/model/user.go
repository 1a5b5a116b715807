package model

import "time"

// User represents one registrant. A user is created disabled with a fresh
// confirmation token and becomes enabled when the email is confirmed within
// the validity window (or when bootstrapped by InitializeUsers).
type User struct {
	ID                UserID
	Username          Username // immutable after creation
	Email             Email
	PasswordHash      PasswordHash
	ConfirmationToken ConfirmationToken // empty once confirmation has been consumed
	RegisteredAt      time.Time
	Enabled           bool
	Administrator     bool
	UpdatedAt         time.Time
}

// NewUser creates a disabled user holding a fresh confirmation token
func NewUser(id UserID, username Username, email Email, hash PasswordHash, token ConfirmationToken, registeredAt time.Time) *User {
	return &User{
		ID:                id,
		Username:          username,
		Email:             email,
		PasswordHash:      hash,
		ConfirmationToken: token,
		RegisteredAt:      registeredAt,
		Enabled:           false,
		Administrator:     false,
		UpdatedAt:         registeredAt,
	}
}

// Confirm enables the user and consumes the confirmation token
func (u *User) Confirm(now time.Time) {
	u.Enabled = true
	u.ConfirmationToken = ""
	u.UpdatedAt = now
}

// Enable turns the account on without touching the confirmation token
func (u *User) Enable(now time.Time) {
	u.Enabled = true
	u.UpdatedAt = now
}

// PromoteToAdministrator grants administrator privilege. The transition is
// one-way; there is no demotion.
func (u *User) PromoteToAdministrator(now time.Time) {
	u.Administrator = true
	u.UpdatedAt = now
}

// Confirmed reports whether the confirmation token has been consumed
func (u *User) Confirmed() bool {
	return u.ConfirmationToken == ""
}
