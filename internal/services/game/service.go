package game

import (
	"context"
	"errors"
	"log/slog"

	"github.com/mkarsten/tablehost/internal/dependencies/clock"
	"github.com/mkarsten/tablehost/internal/model"
	"github.com/mkarsten/tablehost/internal/storage"
)

// Errors
var (
	ErrGameNameTaken  = errors.New("game name already taken")
	ErrMasterDisabled = errors.New("game master account is not enabled")
)

// Service orchestrates the game lifecycle: creation in the recruiting phase,
// promotion to active, and archival into the permanent record.
type Service struct {
	storage storage.Storage
	clock   clock.Clock
	logger  *slog.Logger
}

// New creates a new game Service
func New(storage storage.Storage, clock clock.Clock, logger *slog.Logger) *Service {
	return &Service{
		storage: storage,
		clock:   clock,
		logger:  logger,
	}
}

// CreateGame carries the fields of a game creation request
type CreateGame struct {
	Name           string
	Description    string
	MaximumPlayers int
	MasterID       model.UserID
}

// CreateGame validates the request and persists a new recruiting game. The
// name must be free among recruiting and active games; archived names may be
// reused. The master must be an existing, enabled user.
func (s *Service) CreateGame(ctx context.Context, req CreateGame) (model.GameID, error) {
	name, err := model.NewName(req.Name)
	if err != nil {
		return 0, err
	}
	description, err := model.NewDescription(req.Description)
	if err != nil {
		return 0, err
	}
	maxPlayers, err := model.NewMaximumPlayers(req.MaximumPlayers)
	if err != nil {
		return 0, err
	}

	master, err := s.storage.GetUser(ctx, req.MasterID)
	if err != nil {
		return 0, err
	}
	if !master.Enabled {
		return 0, ErrMasterDisabled
	}

	inUse, err := s.storage.GameNameInUse(ctx, name)
	if err != nil {
		return 0, err
	}
	if inUse {
		return 0, ErrGameNameTaken
	}

	id, err := s.storage.NextGameID(ctx)
	if err != nil {
		return 0, err
	}

	game := model.NewRecruitingGame(id, name, description, maxPlayers, master.ID, s.clock.Now())
	if err := s.storage.SaveGame(ctx, game); err != nil {
		return 0, err
	}

	s.logger.Info("game created",
		slog.Int64("game_id", int64(id)),
		slog.String("name", string(name)),
		slog.Int64("master_id", int64(master.ID)),
	)
	return id, nil
}

// GetGame returns a live (recruiting or active) game by ID
func (s *Service) GetGame(ctx context.Context, id model.GameID) (*model.Game, error) {
	return s.storage.GetGame(ctx, id)
}

// FindRecruitingGameByName returns the recruiting game with the given name
func (s *Service) FindRecruitingGameByName(ctx context.Context, rawName string) (*model.Game, error) {
	name, err := model.NewName(rawName)
	if err != nil {
		return nil, err
	}
	return s.storage.GetGameByName(ctx, name, model.PhaseRecruiting)
}

// FindArchivedGameByName returns the archived game with the given name
func (s *Service) FindArchivedGameByName(ctx context.Context, rawName string) (*model.Game, error) {
	name, err := model.NewName(rawName)
	if err != nil {
		return nil, err
	}
	return s.storage.GetGameByName(ctx, name, model.PhaseArchived)
}

// RenameGame replaces a recruiting game's name. Games that have started or
// been archived report ErrGameNotRecruiting; the new name must be free among
// recruiting and active games.
func (s *Service) RenameGame(ctx context.Context, id model.GameID, rawName string) error {
	name, err := model.NewName(rawName)
	if err != nil {
		return err
	}

	game, err := s.storage.GetGame(ctx, id)
	if err != nil {
		return err
	}

	if name != game.Name {
		inUse, err := s.storage.GameNameInUse(ctx, name)
		if err != nil {
			return err
		}
		if inUse {
			return ErrGameNameTaken
		}
	}

	if err := game.Rename(name, s.clock.Now()); err != nil {
		return err
	}
	return s.storage.SaveGame(ctx, game)
}

// StartGame promotes a recruiting game to active. The game keeps its identity
// and attributes; only the phase changes.
func (s *Service) StartGame(ctx context.Context, id model.GameID) error {
	game, err := s.storage.GetGameInPhase(ctx, id, model.PhaseRecruiting)
	if err != nil {
		if errors.Is(err, model.ErrGameNotFound) {
			// The game may exist outside the recruiting phase
			if _, liveErr := s.storage.GetGame(ctx, id); liveErr == nil {
				return model.ErrGameNotRecruiting
			}
		}
		return err
	}

	active, err := game.Activate(s.clock.Now())
	if err != nil {
		return err
	}

	if err := s.storage.MoveGame(ctx, active, model.PhaseRecruiting); err != nil {
		return err
	}

	s.logger.Info("game started", slog.Int64("game_id", int64(id)))
	return nil
}

// ArchiveGame moves a live game into the permanent archive. The removal from
// the live partition and the insertion into the archive are a single atomic
// step; a concurrent archival of the same game fails with ErrGameNotFound.
func (s *Service) ArchiveGame(ctx context.Context, id model.GameID) error {
	game, err := s.storage.GetGame(ctx, id)
	if err != nil {
		return err
	}

	archived, err := game.Archive(s.clock.Now())
	if err != nil {
		return err
	}

	if err := s.storage.MoveGame(ctx, archived, game.Phase); err != nil {
		return err
	}

	s.logger.Info("game archived",
		slog.Int64("game_id", int64(id)),
		slog.String("from_phase", string(game.Phase)),
	)
	return nil
}
