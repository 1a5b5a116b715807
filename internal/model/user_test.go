package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewUserStartsDisabledWithToken(t *testing.T) {
	registeredAt := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	u := NewUser(UserID(1), "alice", "alice@example.com", "hash", "token", registeredAt)

	assert.False(t, u.Enabled)
	assert.False(t, u.Administrator)
	assert.False(t, u.Confirmed())
	assert.Equal(t, registeredAt, u.RegisteredAt)
}

func TestConfirmConsumesToken(t *testing.T) {
	registeredAt := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	u := NewUser(UserID(1), "alice", "alice@example.com", "hash", "token", registeredAt)

	u.Confirm(registeredAt.Add(time.Hour))

	assert.True(t, u.Enabled)
	assert.True(t, u.Confirmed())
	assert.Empty(t, u.ConfirmationToken)
}

func TestEnableKeepsTokenForAudit(t *testing.T) {
	registeredAt := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	u := NewUser(UserID(1), "alice", "alice@example.com", "hash", "token", registeredAt)

	u.Enable(registeredAt.Add(time.Hour))

	assert.True(t, u.Enabled)
	assert.Equal(t, ConfirmationToken("token"), u.ConfirmationToken)
}

func TestPromoteToAdministrator(t *testing.T) {
	registeredAt := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	u := NewUser(UserID(1), "alice", "alice@example.com", "hash", "token", registeredAt)

	u.PromoteToAdministrator(registeredAt.Add(time.Hour))
	assert.True(t, u.Administrator)
}
