package model

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUsernameBounds(t *testing.T) {
	_, err := NewUsername("ab")
	assert.Error(t, err)

	_, err = NewUsername(strings.Repeat("x", 31))
	assert.Error(t, err)

	username, err := NewUsername("  alice  ")
	require.NoError(t, err)
	assert.Equal(t, Username("alice"), username)
}

func TestNewUsernameBoundsCountCharacters(t *testing.T) {
	// 30 multi-byte runes is within bounds even though it is 60 bytes
	username, err := NewUsername(strings.Repeat("ü", 30))
	require.NoError(t, err)
	assert.Equal(t, Username(strings.Repeat("ü", 30)), username)

	_, err = NewUsername(strings.Repeat("ü", 31))
	assert.Error(t, err)
}

func TestNewNameBoundsCountCharacters(t *testing.T) {
	_, err := NewName(strings.Repeat("ü", NameMaxLength))
	require.NoError(t, err)

	_, err = NewName(strings.Repeat("ü", NameMaxLength+1))
	assert.Error(t, err)

	_, err = NewDescription(strings.Repeat("ü", DescriptionMaxLength))
	require.NoError(t, err)

	_, err = NewDescription(strings.Repeat("ü", DescriptionMaxLength+1))
	assert.Error(t, err)
}

func TestNewUsernameValidationErrorNamesField(t *testing.T) {
	_, err := NewUsername("ab")
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "username", verr.Field)
}

func TestNewEmailRejectsMalformedAddresses(t *testing.T) {
	for _, raw := range []string{"", "alice", "alice@", "@example.com", "a b@example.com"} {
		_, err := NewEmail(raw)
		assert.Error(t, err, "expected %q to be rejected", raw)
	}

	email, err := NewEmail("alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, Email("alice@example.com"), email)
}

func TestNewMaximumPlayersRange(t *testing.T) {
	_, err := NewMaximumPlayers(0)
	assert.Error(t, err)

	_, err = NewMaximumPlayers(MaximumPlayersBound + 1)
	assert.Error(t, err)

	mp, err := NewMaximumPlayers(6)
	require.NoError(t, err)
	assert.Equal(t, MaximumPlayers(6), mp)
}

func TestNewNameAndDescriptionRequireContent(t *testing.T) {
	_, err := NewName("   ")
	assert.Error(t, err)

	_, err = NewDescription("")
	assert.Error(t, err)

	name, err := NewName("Winter Campaign")
	require.NoError(t, err)
	assert.Equal(t, Name("Winter Campaign"), name)
}

func TestNewIDsMustBePositive(t *testing.T) {
	_, err := NewUserID(0)
	assert.Error(t, err)

	_, err = NewGameID(-3)
	assert.Error(t, err)

	id, err := NewGameID(7)
	require.NoError(t, err)
	assert.Equal(t, GameID(7), id)
}
