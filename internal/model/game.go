package model

import "time"

// Phase is a game's lifecycle phase. A game identity is present in exactly
// one phase partition at any time.
type Phase string

const (
	PhaseRecruiting Phase = "recruiting" // Open for players, may be renamed
	PhaseActive     Phase = "active"     // Session in play
	PhaseArchived   Phase = "archived"   // Permanent historical record
)

// Game represents a game session in any lifecycle phase. The three
// representations of the original design share this structure; the Phase tag
// selects which operations apply.
type Game struct {
	ID             GameID
	Name           Name
	Description    Description
	MaximumPlayers MaximumPlayers
	MasterID       UserID
	Phase          Phase
	CreatedAt      time.Time
	UpdatedAt      time.Time
	ArchivedAt     time.Time // zero until archived
}

// NewRecruitingGame creates a game in the recruiting phase. The identity must
// already have been allocated by storage.
func NewRecruitingGame(id GameID, name Name, description Description, maxPlayers MaximumPlayers, masterID UserID, now time.Time) *Game {
	return &Game{
		ID:             id,
		Name:           name,
		Description:    description,
		MaximumPlayers: maxPlayers,
		MasterID:       masterID,
		Phase:          PhaseRecruiting,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// Rename replaces the game's name. Only recruiting games may be renamed.
func (g *Game) Rename(name Name, now time.Time) error {
	if g.Phase != PhaseRecruiting {
		return ErrGameNotRecruiting
	}
	g.Name = name
	g.UpdatedAt = now
	return nil
}

// Activate produces the active-phase form of a recruiting game. The source
// is not mutated; moving between storage partitions is the workflow's job.
func (g *Game) Activate(now time.Time) (*Game, error) {
	if g.Phase != PhaseRecruiting {
		return nil, ErrGameNotRecruiting
	}
	active := *g
	active.Phase = PhaseActive
	active.UpdatedAt = now
	return &active, nil
}

// Archive produces the archived form of the game, carrying the same identity
// and attributes. Archived games are immutable and never transition further.
func (g *Game) Archive(now time.Time) (*Game, error) {
	if g.Phase == PhaseArchived {
		return nil, ErrGameArchived
	}
	archived := *g
	archived.Phase = PhaseArchived
	archived.UpdatedAt = now
	archived.ArchivedAt = now
	return &archived, nil
}
