package model

import "errors"

// Common errors used across the application
var (
	// User errors
	ErrUserNotFound     = errors.New("user not found")
	ErrUsernameConflict = errors.New("username already belongs to another user")

	// Game errors
	ErrGameNotFound      = errors.New("game not found")
	ErrGameNotRecruiting = errors.New("game is not recruiting")
	ErrGameArchived      = errors.New("game is already archived")
)
