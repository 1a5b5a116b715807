package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mkarsten/tablehost/internal/model"
)

type StorageSuite struct {
	suite.Suite
	storage *Storage
	ctx     context.Context
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.storage = New()
	s.ctx = context.Background()
}

func (s *StorageSuite) newUser(id model.UserID, username model.Username, token model.ConfirmationToken) *model.User {
	return model.NewUser(id, username, "test@example.com", "hash", token, time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC))
}

func (s *StorageSuite) newGame(id model.GameID, name model.Name) *model.Game {
	return model.NewRecruitingGame(id, name, "a description", 5, 1, time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC))
}

// User tests

func (s *StorageSuite) TestNextUserIDAllocatesSequentially() {
	first, err := s.storage.NextUserID(s.ctx)
	s.Require().NoError(err)
	second, err := s.storage.NextUserID(s.ctx)
	s.Require().NoError(err)

	s.Equal(model.UserID(1), first)
	s.Equal(model.UserID(2), second)
}

func (s *StorageSuite) TestSaveAndGetUser() {
	user := s.newUser(1, "alice", "token-1")
	s.Require().NoError(s.storage.SaveUser(s.ctx, user))

	retrieved, err := s.storage.GetUser(s.ctx, 1)
	s.Require().NoError(err)
	s.Equal(user.Username, retrieved.Username)
}

func (s *StorageSuite) TestGetUserNotFound() {
	_, err := s.storage.GetUser(s.ctx, 99)
	s.ErrorIs(err, model.ErrUserNotFound)
}

func (s *StorageSuite) TestGetUserByUsername() {
	user := s.newUser(1, "alice", "token-1")
	s.Require().NoError(s.storage.SaveUser(s.ctx, user))

	retrieved, err := s.storage.GetUserByUsername(s.ctx, "alice")
	s.Require().NoError(err)
	s.Equal(user.ID, retrieved.ID)

	_, err = s.storage.GetUserByUsername(s.ctx, "nobody")
	s.ErrorIs(err, model.ErrUserNotFound)
}

func (s *StorageSuite) TestSaveUserRejectsClaimedUsername() {
	s.Require().NoError(s.storage.SaveUser(s.ctx, s.newUser(1, "alice", "token-1")))

	err := s.storage.SaveUser(s.ctx, s.newUser(2, "alice", "token-2"))
	s.ErrorIs(err, model.ErrUsernameConflict)

	// The loser must leave no record behind
	_, err = s.storage.GetUser(s.ctx, 2)
	s.ErrorIs(err, model.ErrUserNotFound)
	_, err = s.storage.GetUserByConfirmationToken(s.ctx, "token-2")
	s.ErrorIs(err, model.ErrUserNotFound)

	// Re-saving the owner is not a conflict
	s.NoError(s.storage.SaveUser(s.ctx, s.newUser(1, "alice", "token-1")))
}

func (s *StorageSuite) TestGetUserByConfirmationToken() {
	user := s.newUser(1, "alice", "token-1")
	s.Require().NoError(s.storage.SaveUser(s.ctx, user))

	retrieved, err := s.storage.GetUserByConfirmationToken(s.ctx, "token-1")
	s.Require().NoError(err)
	s.Equal(user.ID, retrieved.ID)
}

func (s *StorageSuite) TestConsumedTokenLeavesNoIndexEntry() {
	user := s.newUser(1, "alice", "token-1")
	s.Require().NoError(s.storage.SaveUser(s.ctx, user))

	user.Confirm(user.RegisteredAt.Add(time.Hour))
	s.Require().NoError(s.storage.SaveUser(s.ctx, user))

	_, err := s.storage.GetUserByConfirmationToken(s.ctx, "token-1")
	s.ErrorIs(err, model.ErrUserNotFound)
}

// Game tests

func (s *StorageSuite) TestNextGameIDAllocatesSequentially() {
	first, err := s.storage.NextGameID(s.ctx)
	s.Require().NoError(err)
	second, err := s.storage.NextGameID(s.ctx)
	s.Require().NoError(err)

	s.Equal(model.GameID(1), first)
	s.Equal(model.GameID(2), second)
}

func (s *StorageSuite) TestSaveAndGetGame() {
	game := s.newGame(1, "Winter Campaign")
	s.Require().NoError(s.storage.SaveGame(s.ctx, game))

	retrieved, err := s.storage.GetGame(s.ctx, 1)
	s.Require().NoError(err)
	s.Equal(game.Name, retrieved.Name)
	s.Equal(model.PhaseRecruiting, retrieved.Phase)
}

func (s *StorageSuite) TestGetGameNotFound() {
	_, err := s.storage.GetGame(s.ctx, 42)
	s.ErrorIs(err, model.ErrGameNotFound)
}

func (s *StorageSuite) TestGetGameDoesNotSeeArchived() {
	game := s.newGame(1, "Winter Campaign")
	archived, err := game.Archive(game.CreatedAt.Add(time.Hour))
	s.Require().NoError(err)
	s.Require().NoError(s.storage.SaveGame(s.ctx, archived))

	_, err = s.storage.GetGame(s.ctx, 1)
	s.ErrorIs(err, model.ErrGameNotFound)

	retrieved, err := s.storage.GetGameInPhase(s.ctx, 1, model.PhaseArchived)
	s.Require().NoError(err)
	s.Equal(game.ID, retrieved.ID)
}

func (s *StorageSuite) TestGetGameByName() {
	game := s.newGame(1, "Winter Campaign")
	s.Require().NoError(s.storage.SaveGame(s.ctx, game))

	retrieved, err := s.storage.GetGameByName(s.ctx, "Winter Campaign", model.PhaseRecruiting)
	s.Require().NoError(err)
	s.Equal(game.ID, retrieved.ID)

	_, err = s.storage.GetGameByName(s.ctx, "Winter Campaign", model.PhaseArchived)
	s.ErrorIs(err, model.ErrGameNotFound)
}

func (s *StorageSuite) TestGameNameInUse() {
	inUse, err := s.storage.GameNameInUse(s.ctx, "Winter Campaign")
	s.Require().NoError(err)
	s.False(inUse)

	s.Require().NoError(s.storage.SaveGame(s.ctx, s.newGame(1, "Winter Campaign")))

	inUse, err = s.storage.GameNameInUse(s.ctx, "Winter Campaign")
	s.Require().NoError(err)
	s.True(inUse)
}

func (s *StorageSuite) TestArchivedNameDoesNotBlockReuse() {
	game := s.newGame(1, "Winter Campaign")
	archived, err := game.Archive(game.CreatedAt.Add(time.Hour))
	s.Require().NoError(err)
	s.Require().NoError(s.storage.SaveGame(s.ctx, archived))

	inUse, err := s.storage.GameNameInUse(s.ctx, "Winter Campaign")
	s.Require().NoError(err)
	s.False(inUse)
}

func (s *StorageSuite) TestMoveGame() {
	game := s.newGame(1, "Winter Campaign")
	s.Require().NoError(s.storage.SaveGame(s.ctx, game))

	archived, err := game.Archive(game.CreatedAt.Add(time.Hour))
	s.Require().NoError(err)
	s.Require().NoError(s.storage.MoveGame(s.ctx, archived, model.PhaseRecruiting))

	_, err = s.storage.GetGame(s.ctx, 1)
	s.ErrorIs(err, model.ErrGameNotFound)

	retrieved, err := s.storage.GetGameInPhase(s.ctx, 1, model.PhaseArchived)
	s.Require().NoError(err)
	s.Equal(model.PhaseArchived, retrieved.Phase)
}

func (s *StorageSuite) TestMoveGameFailsWhenSourceGone() {
	game := s.newGame(1, "Winter Campaign")
	s.Require().NoError(s.storage.SaveGame(s.ctx, game))

	archived, err := game.Archive(game.CreatedAt.Add(time.Hour))
	s.Require().NoError(err)
	s.Require().NoError(s.storage.MoveGame(s.ctx, archived, model.PhaseRecruiting))

	// Second move of the same identity fails: the source record is gone
	err = s.storage.MoveGame(s.ctx, archived, model.PhaseRecruiting)
	s.ErrorIs(err, model.ErrGameNotFound)
}
