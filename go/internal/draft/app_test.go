package draft_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/kmartin31/fastbreak/go/internal/draft"
	"github.com/kmartin31/fastbreak/go/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStartDraft(t *testing.T) {
	fx := newFixture(t, 3, flexPositions(30))
	ctx := context.Background()

	d := fx.startDraft(t)
	assert.Equal(t, models.DraftStatusActive, d.Status)
	assert.Equal(t, 1, d.CurrentRound)
	assert.Equal(t, 0, d.CurrentPickIndex)
	assert.Equal(t, 60, d.TimerSeconds)
	assert.Equal(t, 60, d.SecondsRemaining)

	require.Len(t, d.TeamOrder, 3)
	for i, team := range fx.teams {
		assert.Equal(t, team.ID, d.TeamOrder[i], "order follows team creation order")
	}

	t.Run("league drafts at most once", func(t *testing.T) {
		_, err := fx.app.StartDraft(ctx, fx.league.ID, fx.commissioner)
		assert.ErrorIs(t, err, draft.ErrWrongState)
	})

	t.Run("commissioner only", func(t *testing.T) {
		fx2 := newFixture(t, 2, flexPositions(20))
		_, err := fx2.app.StartDraft(ctx, fx2.league.ID, uuid.New())
		assert.ErrorIs(t, err, draft.ErrUnauthorized)
	})

	t.Run("unknown league", func(t *testing.T) {
		_, err := fx.app.StartDraft(ctx, uuid.New(), fx.commissioner)
		assert.ErrorIs(t, err, draft.ErrNotFound)
	})
}

func TestStartDraftRejectsBadTeamCount(t *testing.T) {
	for _, n := range []int{0, 1, 5} {
		fx := newFixture(t, n, flexPositions(10))
		_, err := fx.app.StartDraft(context.Background(), fx.league.ID, fx.commissioner)
		assert.ErrorIs(t, err, draft.ErrInvalidConfiguration, "team count %d", n)
	}
}

func TestPauseResume(t *testing.T) {
	fx := newFixture(t, 2, flexPositions(20))
	ctx := context.Background()
	d := fx.startDraft(t)

	paused, err := fx.app.PauseDraft(ctx, d.ID, fx.commissioner)
	require.NoError(t, err)
	assert.Equal(t, models.DraftStatusPaused, paused.Status)

	// The same pick rejected while paused succeeds after resume.
	teamID := d.TeamOrder[0]
	playerID := fx.players[0].ID
	req := draft.MakePickRequest{DraftID: d.ID, TeamID: teamID, PlayerID: playerID, ActorID: fx.commissioner}

	_, _, err = fx.app.MakePick(ctx, req)
	assert.ErrorIs(t, err, draft.ErrNotActive)

	resumed, err := fx.app.ResumeDraft(ctx, d.ID, fx.commissioner)
	require.NoError(t, err)
	assert.Equal(t, models.DraftStatusActive, resumed.Status)

	_, _, err = fx.app.MakePick(ctx, req)
	assert.NoError(t, err)
}

func TestPauseResumeWrongState(t *testing.T) {
	fx := newFixture(t, 2, flexPositions(20))
	ctx := context.Background()
	d := fx.startDraft(t)

	_, err := fx.app.ResumeDraft(ctx, d.ID, fx.commissioner)
	assert.ErrorIs(t, err, draft.ErrWrongState, "resume requires a paused draft")

	_, err = fx.app.PauseDraft(ctx, d.ID, fx.commissioner)
	require.NoError(t, err)
	_, err = fx.app.PauseDraft(ctx, d.ID, fx.commissioner)
	assert.ErrorIs(t, err, draft.ErrWrongState, "pause requires an active draft")
}

func TestPauseRequiresCommissioner(t *testing.T) {
	fx := newFixture(t, 2, flexPositions(20))
	d := fx.startDraft(t)

	_, err := fx.app.PauseDraft(context.Background(), d.ID, uuid.New())
	assert.ErrorIs(t, err, draft.ErrUnauthorized)
}

func TestResumeKeepsRemainingClock(t *testing.T) {
	fx := newFixture(t, 2, flexPositions(20))
	ctx := context.Background()
	d := fx.startDraft(t)

	_, err := fx.app.Tick(ctx, d.ID, 25)
	require.NoError(t, err)

	_, err = fx.app.PauseDraft(ctx, d.ID, fx.commissioner)
	require.NoError(t, err)
	resumed, err := fx.app.ResumeDraft(ctx, d.ID, fx.commissioner)
	require.NoError(t, err)

	assert.Equal(t, 35, resumed.SecondsRemaining, "pause freezes the clock, resume does not reset it")
}

func TestUpdateTimer(t *testing.T) {
	fx := newFixture(t, 2, flexPositions(20))
	ctx := context.Background()
	d := fx.startDraft(t)

	for _, seconds := range []int{5, 400} {
		_, err := fx.app.UpdateTimer(ctx, d.ID, fx.commissioner, seconds)
		assert.ErrorIs(t, err, draft.ErrInvalidConfiguration, "timer %d", seconds)
	}

	updated, err := fx.app.UpdateTimer(ctx, d.ID, fx.commissioner, 120)
	require.NoError(t, err)
	assert.Equal(t, 120, updated.TimerSeconds)
	assert.Equal(t, 60, updated.SecondsRemaining, "current turn keeps its clock")

	// The new allotment takes effect when the next pick advances the turn.
	fx.makeLegalPick(t, d.ID)
	after, err := fx.app.GetDraft(ctx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, 120, after.SecondsRemaining)
}

func TestGetDraftState(t *testing.T) {
	fx := newFixture(t, 2, flexPositions(20))
	ctx := context.Background()
	d := fx.startDraft(t)

	fx.makeLegalPick(t, d.ID)
	fx.makeLegalPick(t, d.ID)

	view, err := fx.app.GetDraftState(ctx, d.ID)
	require.NoError(t, err)
	require.Len(t, view.Picks, 2)

	assert.Equal(t, "team 1", view.Picks[0].TeamName)
	assert.Equal(t, "player 1", view.Picks[0].PlayerName)
	assert.Equal(t, models.PositionGuardForward, view.Picks[0].Position)
	assert.Equal(t, 1, view.Picks[0].PickNumber)
	assert.Equal(t, "team 2", view.Picks[1].TeamName)

	// Round 2 reverses: team 2 picks again.
	require.NotNil(t, view.CurrentTeamID)
	assert.Equal(t, fx.teams[1].ID, *view.CurrentTeamID)
}
