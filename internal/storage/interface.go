package storage

import (
	"context"

	"github.com/mkarsten/tablehost/internal/model"
)

// Storage defines the interface for data persistence. Games are partitioned
// by lifecycle phase; an identity exists in at most one partition at a time.
type Storage interface {
	// User operations
	NextUserID(ctx context.Context) (model.UserID, error)
	SaveUser(ctx context.Context, user *model.User) error
	GetUser(ctx context.Context, id model.UserID) (*model.User, error)
	GetUserByUsername(ctx context.Context, username model.Username) (*model.User, error)
	GetUserByConfirmationToken(ctx context.Context, token model.ConfirmationToken) (*model.User, error)

	// Game operations
	NextGameID(ctx context.Context) (model.GameID, error)
	// SaveGame writes the game into the partition named by its Phase
	SaveGame(ctx context.Context, game *model.Game) error
	// GetGame looks up a live (recruiting or active) game by id
	GetGame(ctx context.Context, id model.GameID) (*model.Game, error)
	GetGameInPhase(ctx context.Context, id model.GameID, phase model.Phase) (*model.Game, error)
	GetGameByName(ctx context.Context, name model.Name, phase model.Phase) (*model.Game, error)
	// GameNameInUse reports whether the name is taken by a live game
	GameNameInUse(ctx context.Context, name model.Name) (bool, error)
	// MoveGame atomically removes the game's identity from the `from`
	// partition and stores the given aggregate in its own phase partition.
	// Returns model.ErrGameNotFound when the identity is no longer present
	// in `from`, so a concurrent move of the same game succeeds exactly once.
	MoveGame(ctx context.Context, game *model.Game, from model.Phase) error
}
