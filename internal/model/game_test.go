package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGame(t *testing.T) *Game {
	t.Helper()
	name, err := NewName("The Long Road")
	require.NoError(t, err)
	desc, err := NewDescription("A slow-burn campaign")
	require.NoError(t, err)
	mp, err := NewMaximumPlayers(5)
	require.NoError(t, err)
	return NewRecruitingGame(GameID(1), name, desc, mp, UserID(9), time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC))
}

func TestNewRecruitingGameStartsRecruiting(t *testing.T) {
	g := newTestGame(t)
	assert.Equal(t, PhaseRecruiting, g.Phase)
	assert.True(t, g.ArchivedAt.IsZero())
}

func TestRenameOnlyWhileRecruiting(t *testing.T) {
	g := newTestGame(t)
	now := g.CreatedAt.Add(time.Hour)

	newName, err := NewName("The Longer Road")
	require.NoError(t, err)
	require.NoError(t, g.Rename(newName, now))
	assert.Equal(t, newName, g.Name)

	active, err := g.Activate(now)
	require.NoError(t, err)
	assert.ErrorIs(t, active.Rename(newName, now), ErrGameNotRecruiting)
}

func TestActivatePreservesIdentityAndAttributes(t *testing.T) {
	g := newTestGame(t)
	now := g.CreatedAt.Add(time.Hour)

	active, err := g.Activate(now)
	require.NoError(t, err)

	assert.Equal(t, PhaseActive, active.Phase)
	assert.Equal(t, g.ID, active.ID)
	assert.Equal(t, g.Name, active.Name)
	assert.Equal(t, g.MasterID, active.MasterID)
	// Source aggregate is untouched
	assert.Equal(t, PhaseRecruiting, g.Phase)

	_, err = active.Activate(now)
	assert.ErrorIs(t, err, ErrGameNotRecruiting)
}

func TestArchiveFromEitherLivePhase(t *testing.T) {
	g := newTestGame(t)
	now := g.CreatedAt.Add(2 * time.Hour)

	archived, err := g.Archive(now)
	require.NoError(t, err)
	assert.Equal(t, PhaseArchived, archived.Phase)
	assert.Equal(t, g.ID, archived.ID)
	assert.Equal(t, now, archived.ArchivedAt)

	active, err := g.Activate(now)
	require.NoError(t, err)
	archivedFromActive, err := active.Archive(now)
	require.NoError(t, err)
	assert.Equal(t, PhaseArchived, archivedFromActive.Phase)

	_, err = archived.Archive(now)
	assert.ErrorIs(t, err, ErrGameArchived)
}
