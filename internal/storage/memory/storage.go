package memory

import (
	"context"
	"sync"

	"github.com/mkarsten/tablehost/internal/model"
	"github.com/mkarsten/tablehost/internal/storage"
)

// Storage is an in-memory implementation of the storage interface
type Storage struct {
	mu sync.RWMutex

	nextUserID int64
	nextGameID int64

	users         map[model.UserID]*model.User
	usernameIndex map[model.Username]model.UserID
	tokenIndex    map[model.ConfirmationToken]model.UserID

	// One map per lifecycle partition
	games map[model.Phase]map[model.GameID]*model.Game
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		users:         make(map[model.UserID]*model.User),
		usernameIndex: make(map[model.Username]model.UserID),
		tokenIndex:    make(map[model.ConfirmationToken]model.UserID),
		games: map[model.Phase]map[model.GameID]*model.Game{
			model.PhaseRecruiting: {},
			model.PhaseActive:     {},
			model.PhaseArchived:   {},
		},
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// User operations

func (s *Storage) NextUserID(ctx context.Context) (model.UserID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextUserID++
	return model.UserID(s.nextUserID), nil
}

func (s *Storage) SaveUser(ctx context.Context, user *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// The username index is the uniqueness constraint; a save that would
	// steal another user's name loses the race here.
	if id, ok := s.usernameIndex[user.Username]; ok && id != user.ID {
		return model.ErrUsernameConflict
	}

	// Drop any token index entry left over from a previous save
	for token, id := range s.tokenIndex {
		if id == user.ID {
			delete(s.tokenIndex, token)
		}
	}

	s.users[user.ID] = user
	s.usernameIndex[user.Username] = user.ID
	if user.ConfirmationToken != "" {
		s.tokenIndex[user.ConfirmationToken] = user.ID
	}
	return nil
}

func (s *Storage) GetUser(ctx context.Context, id model.UserID) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.users[id]
	if !ok {
		return nil, model.ErrUserNotFound
	}
	return user, nil
}

func (s *Storage) GetUserByUsername(ctx context.Context, username model.Username) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.usernameIndex[username]
	if !ok {
		return nil, model.ErrUserNotFound
	}
	user, ok := s.users[id]
	if !ok {
		return nil, model.ErrUserNotFound
	}
	return user, nil
}

func (s *Storage) GetUserByConfirmationToken(ctx context.Context, token model.ConfirmationToken) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.tokenIndex[token]
	if !ok {
		return nil, model.ErrUserNotFound
	}
	user, ok := s.users[id]
	if !ok {
		return nil, model.ErrUserNotFound
	}
	return user, nil
}

// Game operations

func (s *Storage) NextGameID(ctx context.Context) (model.GameID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextGameID++
	return model.GameID(s.nextGameID), nil
}

func (s *Storage) SaveGame(ctx context.Context, game *model.Game) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.games[game.Phase][game.ID] = game
	return nil
}

func (s *Storage) GetGame(ctx context.Context, id model.GameID) (*model.Game, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, phase := range []model.Phase{model.PhaseRecruiting, model.PhaseActive} {
		if game, ok := s.games[phase][id]; ok {
			return game, nil
		}
	}
	return nil, model.ErrGameNotFound
}

func (s *Storage) GetGameInPhase(ctx context.Context, id model.GameID, phase model.Phase) (*model.Game, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	game, ok := s.games[phase][id]
	if !ok {
		return nil, model.ErrGameNotFound
	}
	return game, nil
}

func (s *Storage) GetGameByName(ctx context.Context, name model.Name, phase model.Phase) (*model.Game, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, game := range s.games[phase] {
		if game.Name == name {
			return game, nil
		}
	}
	return nil, model.ErrGameNotFound
}

func (s *Storage) GameNameInUse(ctx context.Context, name model.Name) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, phase := range []model.Phase{model.PhaseRecruiting, model.PhaseActive} {
		for _, game := range s.games[phase] {
			if game.Name == name {
				return true, nil
			}
		}
	}
	return false, nil
}

func (s *Storage) MoveGame(ctx context.Context, game *model.Game, from model.Phase) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.games[from][game.ID]; !ok {
		return model.ErrGameNotFound
	}
	delete(s.games[from], game.ID)
	s.games[game.Phase][game.ID] = game
	return nil
}
