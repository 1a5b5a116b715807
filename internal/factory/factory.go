package factory

import (
	"errors"
	"io"
	"log/slog"

	"github.com/mkarsten/tablehost/internal/dependencies/clock"
	"github.com/mkarsten/tablehost/internal/dependencies/hasher"
	"github.com/mkarsten/tablehost/internal/dependencies/mailer"
	"github.com/mkarsten/tablehost/internal/dependencies/random"
	"github.com/mkarsten/tablehost/internal/services/game"
	"github.com/mkarsten/tablehost/internal/services/user"
	"github.com/mkarsten/tablehost/internal/storage"
	"github.com/mkarsten/tablehost/internal/storage/memory"
	redisstorage "github.com/mkarsten/tablehost/internal/storage/redis"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock  clock.Clock
	Random random.Random
	Hasher hasher.Hasher
	Mailer mailer.Mailer

	// Services
	UserService *user.Service
	GameService *game.Service
}

// Config holds configuration for the application factory
type Config struct {
	// UserConfig holds configuration for the user service (optional)
	// If zero value, defaults to user.DefaultConfig()
	UserConfig user.Config
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory" or "redis")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
	// Mailer delivers outbound email (optional)
	// If nil, emails are written to the log
	Mailer mailer.Mailer
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	// Create storage based on type
	var store storage.Storage
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		store = memory.New()
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		store = redisStore
	default:
		return nil, errors.New("invalid StorageType: must be 'memory' or 'redis'")
	}

	mail := cfg.Mailer
	if mail == nil {
		mail = mailer.NewLogMailer(logger)
	}

	return newWithDependencies(store, clock.New(), random.New(), hasher.New(), mail, cfg.UserConfig, logger), nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(
	store storage.Storage,
	clk clock.Clock,
	rnd random.Random,
	hash hasher.Hasher,
	mail mailer.Mailer,
	userCfg user.Config,
	logger *slog.Logger,
) *App {
	userService := user.New(store, clk, rnd, hash, mail, userCfg, logger)
	gameService := game.New(store, clk, logger)

	return &App{
		Storage:     store,
		Clock:       clk,
		Random:      rnd,
		Hasher:      hash,
		Mailer:      mail,
		UserService: userService,
		GameService: gameService,
	}
}
