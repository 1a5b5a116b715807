package redis

import (
	"fmt"

	"github.com/mkarsten/tablehost/internal/model"
)

// Key prefix for all data owned by this application
const keyPrefix = "tablehost"

// userKey returns the Redis key for a User
func userKey(id model.UserID) string {
	return fmt.Sprintf("%s:user:%d", keyPrefix, id)
}

// usernameIndexKey returns the Redis key for the username -> user_id index
func usernameIndexKey(username model.Username) string {
	return fmt.Sprintf("%s:idx:username:%s", keyPrefix, username)
}

// tokenIndexKey returns the Redis key for the confirmation_token -> user_id index
func tokenIndexKey(token model.ConfirmationToken) string {
	return fmt.Sprintf("%s:idx:confirmation_token:%s", keyPrefix, token)
}

// userIDCounterKey returns the Redis key of the user identity counter
func userIDCounterKey() string {
	return fmt.Sprintf("%s:counter:user_id", keyPrefix)
}

// gameIDCounterKey returns the Redis key of the game identity counter
func gameIDCounterKey() string {
	return fmt.Sprintf("%s:counter:game_id", keyPrefix)
}

// gameKey returns the Redis key for a Game in a given lifecycle partition
func gameKey(phase model.Phase, id model.GameID) string {
	return fmt.Sprintf("%s:game:%s:%d", keyPrefix, phase, id)
}

// gameNameIndexKey returns the Redis key for the per-partition name -> game_id index
func gameNameIndexKey(phase model.Phase, name model.Name) string {
	return fmt.Sprintf("%s:idx:game_name:%s:%s", keyPrefix, phase, name)
}
