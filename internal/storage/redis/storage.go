package redis

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mkarsten/tablehost/internal/model"
	"github.com/mkarsten/tablehost/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &Storage{
		client: client,
		cfg:    cfg,
	}, nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// User operations

func (s *Storage) NextUserID(ctx context.Context) (model.UserID, error) {
	id, err := s.client.Incr(ctx, userIDCounterKey()).Result()
	if err != nil {
		return 0, err
	}
	return model.UserID(id), nil
}

func (s *Storage) SaveUser(ctx context.Context, user *model.User) error {
	data, err := json.Marshal(user)
	if err != nil {
		return err
	}

	nameKey := usernameIndexKey(user.Username)

	// Watch the username index so concurrent registrations of the same
	// name cannot both succeed; the loser retries and finds the name
	// already claimed.
	for {
		err := s.client.Watch(ctx, func(tx *redis.Tx) error {
			claimed, err := tx.Get(ctx, nameKey).Result()
			if err != nil && !errors.Is(err, redis.Nil) {
				return err
			}
			if err == nil {
				id, err := strconv.ParseInt(claimed, 10, 64)
				if err != nil {
					return err
				}
				if model.UserID(id) != user.ID {
					return model.ErrUsernameConflict
				}
			}

			// A consumed token must stop resolving, so look up the
			// previously stored token before overwriting the record.
			var staleToken model.ConfirmationToken
			if existing, err := s.getUser(ctx, user.ID); err == nil {
				if existing.ConfirmationToken != "" && existing.ConfirmationToken != user.ConfirmationToken {
					staleToken = existing.ConfirmationToken
				}
			} else if !errors.Is(err, model.ErrUserNotFound) {
				return err
			}

			_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
				pipe.Set(ctx, userKey(user.ID), data, 0)
				pipe.Set(ctx, nameKey, int64(user.ID), 0)
				if staleToken != "" {
					pipe.Del(ctx, tokenIndexKey(staleToken))
				}
				if user.ConfirmationToken != "" {
					pipe.Set(ctx, tokenIndexKey(user.ConfirmationToken), int64(user.ID), 0)
				}
				return nil
			})
			return err
		}, nameKey)

		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return err
	}
}

func (s *Storage) GetUser(ctx context.Context, id model.UserID) (*model.User, error) {
	return s.getUser(ctx, id)
}

func (s *Storage) getUser(ctx context.Context, id model.UserID) (*model.User, error) {
	data, err := s.client.Get(ctx, userKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrUserNotFound
		}
		return nil, err
	}

	var user model.User
	if err := json.Unmarshal(data, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *Storage) GetUserByUsername(ctx context.Context, username model.Username) (*model.User, error) {
	idStr, err := s.client.Get(ctx, usernameIndexKey(username)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrUserNotFound
		}
		return nil, err
	}

	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		return nil, err
	}
	return s.getUser(ctx, model.UserID(id))
}

func (s *Storage) GetUserByConfirmationToken(ctx context.Context, token model.ConfirmationToken) (*model.User, error) {
	idStr, err := s.client.Get(ctx, tokenIndexKey(token)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrUserNotFound
		}
		return nil, err
	}

	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		return nil, err
	}
	return s.getUser(ctx, model.UserID(id))
}

// Game operations

func (s *Storage) NextGameID(ctx context.Context) (model.GameID, error) {
	id, err := s.client.Incr(ctx, gameIDCounterKey()).Result()
	if err != nil {
		return 0, err
	}
	return model.GameID(id), nil
}

func (s *Storage) SaveGame(ctx context.Context, game *model.Game) error {
	data, err := json.Marshal(game)
	if err != nil {
		return err
	}

	// A rename must drop the old name index entry
	var staleName model.Name
	if existing, err := s.getGameInPhase(ctx, game.ID, game.Phase); err == nil {
		if existing.Name != game.Name {
			staleName = existing.Name
		}
	} else if !errors.Is(err, model.ErrGameNotFound) {
		return err
	}

	pipe := s.client.Pipeline()
	pipe.Set(ctx, gameKey(game.Phase, game.ID), data, 0)
	if staleName != "" {
		pipe.Del(ctx, gameNameIndexKey(game.Phase, staleName))
	}
	pipe.Set(ctx, gameNameIndexKey(game.Phase, game.Name), int64(game.ID), 0)
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetGame(ctx context.Context, id model.GameID) (*model.Game, error) {
	for _, phase := range []model.Phase{model.PhaseRecruiting, model.PhaseActive} {
		game, err := s.getGameInPhase(ctx, id, phase)
		if err == nil {
			return game, nil
		}
		if !errors.Is(err, model.ErrGameNotFound) {
			return nil, err
		}
	}
	return nil, model.ErrGameNotFound
}

func (s *Storage) GetGameInPhase(ctx context.Context, id model.GameID, phase model.Phase) (*model.Game, error) {
	return s.getGameInPhase(ctx, id, phase)
}

func (s *Storage) getGameInPhase(ctx context.Context, id model.GameID, phase model.Phase) (*model.Game, error) {
	data, err := s.client.Get(ctx, gameKey(phase, id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrGameNotFound
		}
		return nil, err
	}

	var game model.Game
	if err := json.Unmarshal(data, &game); err != nil {
		return nil, err
	}
	return &game, nil
}

func (s *Storage) GetGameByName(ctx context.Context, name model.Name, phase model.Phase) (*model.Game, error) {
	idStr, err := s.client.Get(ctx, gameNameIndexKey(phase, name)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrGameNotFound
		}
		return nil, err
	}

	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		return nil, err
	}
	return s.getGameInPhase(ctx, model.GameID(id), phase)
}

func (s *Storage) GameNameInUse(ctx context.Context, name model.Name) (bool, error) {
	exists, err := s.client.Exists(ctx,
		gameNameIndexKey(model.PhaseRecruiting, name),
		gameNameIndexKey(model.PhaseActive, name),
	).Result()
	if err != nil {
		return false, err
	}
	return exists > 0, nil
}

func (s *Storage) MoveGame(ctx context.Context, game *model.Game, from model.Phase) error {
	srcKey := gameKey(from, game.ID)

	// Watch the source record so two concurrent moves of the same game
	// cannot both succeed; the loser retries, finds the source gone, and
	// reports not found.
	for {
		err := s.client.Watch(ctx, func(tx *redis.Tx) error {
			srcData, err := tx.Get(ctx, srcKey).Bytes()
			if err != nil {
				if errors.Is(err, redis.Nil) {
					return model.ErrGameNotFound
				}
				return err
			}

			var src model.Game
			if err := json.Unmarshal(srcData, &src); err != nil {
				return err
			}

			data, err := json.Marshal(game)
			if err != nil {
				return err
			}

			_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
				pipe.Del(ctx, srcKey)
				pipe.Del(ctx, gameNameIndexKey(from, src.Name))
				pipe.Set(ctx, gameKey(game.Phase, game.ID), data, 0)
				pipe.Set(ctx, gameNameIndexKey(game.Phase, game.Name), int64(game.ID), 0)
				return nil
			})
			return err
		}, srcKey)

		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return err
	}
}
