package draft_test

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/kmartin31/fastbreak/go/internal/draft"
	"github.com/kmartin31/fastbreak/go/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMakePickWrongTurn(t *testing.T) {
	fx := newFixture(t, 2, flexPositions(20))
	ctx := context.Background()
	d := fx.startDraft(t)

	// Team 2 is not on the clock for the first pick.
	_, _, err := fx.app.MakePick(ctx, draft.MakePickRequest{
		DraftID:  d.ID,
		TeamID:   fx.teams[1].ID,
		PlayerID: fx.players[0].ID,
		ActorID:  fx.commissioner,
	})
	assert.ErrorIs(t, err, draft.ErrWrongTurn)
}

func TestMakePickAlreadyDrafted(t *testing.T) {
	fx := newFixture(t, 2, flexPositions(20))
	ctx := context.Background()
	d := fx.startDraft(t)

	pick := fx.makeLegalPick(t, d.ID)

	_, _, err := fx.app.MakePick(ctx, draft.MakePickRequest{
		DraftID:  d.ID,
		TeamID:   fx.currentTeam(t, d.ID),
		PlayerID: pick.PlayerID,
		ActorID:  fx.commissioner,
	})
	assert.ErrorIs(t, err, draft.ErrAlreadyDrafted)
}

func TestMakePickUnknownPlayer(t *testing.T) {
	fx := newFixture(t, 2, flexPositions(20))
	d := fx.startDraft(t)

	_, _, err := fx.app.MakePick(context.Background(), draft.MakePickRequest{
		DraftID:  d.ID,
		TeamID:   fx.teams[0].ID,
		PlayerID: uuid.New(),
		ActorID:  fx.commissioner,
	})
	assert.ErrorIs(t, err, draft.ErrNotFound)
}

func TestMakePickInfeasible(t *testing.T) {
	// Eighteen forwards drafted first leave both teams with nine forwards
	// and one pick each; two guards and two spare forwards remain.
	var positions []models.Position
	for i := 0; i < 18; i++ {
		positions = append(positions, models.PositionForward)
	}
	positions = append(positions,
		models.PositionGuard, models.PositionGuard,
		models.PositionForward, models.PositionForward)
	fx := newFixture(t, 2, positions)
	ctx := context.Background()
	d := fx.startDraft(t)

	// Both teams take forwards through round nine.
	for i := 0; i < 18; i++ {
		fx.makeLegalPick(t, d.ID)
	}

	current, err := fx.app.GetDraft(ctx, d.ID)
	require.NoError(t, err)
	require.Equal(t, 10, current.CurrentRound)

	// Another forward would strand a guard slot forever; a guard keeps the
	// minimum reachable.
	teamID := fx.currentTeam(t, d.ID)
	_, _, err = fx.app.MakePick(ctx, draft.MakePickRequest{
		DraftID:  d.ID,
		TeamID:   teamID,
		PlayerID: fx.players[20].ID,
		ActorID:  fx.commissioner,
	})
	assert.ErrorIs(t, err, draft.ErrInfeasiblePick)

	_, _, err = fx.app.MakePick(ctx, draft.MakePickRequest{
		DraftID:  d.ID,
		TeamID:   teamID,
		PlayerID: fx.players[18].ID,
		ActorID:  fx.commissioner,
	})
	assert.NoError(t, err)
}

func TestDraftCompletion(t *testing.T) {
	fx := newFixture(t, 2, flexPositions(25))
	ctx := context.Background()
	d := fx.startDraft(t)

	total := d.TotalPicks()
	require.Equal(t, 20, total)

	for i := 0; i < total; i++ {
		before, err := fx.app.GetDraft(ctx, d.ID)
		require.NoError(t, err)
		assert.Equal(t, models.DraftStatusActive, before.Status, "pick %d", i+1)

		pick := fx.makeLegalPick(t, d.ID)
		assert.Equal(t, i+1, pick.PickNumber)
	}

	completed, err := fx.app.GetDraft(ctx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, models.DraftStatusCompleted, completed.Status)
	assert.Equal(t, 0, completed.SecondsRemaining)
	_, ok := draft.CurrentTeamID(completed)
	assert.False(t, ok)

	picks, err := fx.store.ListPicks(ctx, d.ID)
	require.NoError(t, err)
	require.Len(t, picks, total)

	// Every team ends with exactly five starters satisfying the positional
	// minimums.
	for _, team := range fx.teams {
		roster, err := fx.store.TeamRoster(ctx, d.ID, team.ID)
		require.NoError(t, err)
		require.Len(t, roster, models.DraftRounds)

		starters := 0
		guards, fcs := 0, 0
		for _, slot := range roster {
			if slot.IsStarter {
				starters++
				if slot.Position.IsGuard() {
					guards++
				}
				if slot.Position.IsForwardCenter() {
					fcs++
				}
			}
		}
		assert.Equal(t, 5, starters)
		assert.GreaterOrEqual(t, guards, 2)
		assert.GreaterOrEqual(t, fcs, 1)
	}

	t.Run("no pick after completion", func(t *testing.T) {
		available, err := fx.store.ListAvailablePlayers(ctx, d.ID)
		require.NoError(t, err)
		_, _, err = fx.app.MakePick(ctx, draft.MakePickRequest{
			DraftID:  d.ID,
			TeamID:   fx.teams[0].ID,
			PlayerID: available[0].ID,
			ActorID:  fx.commissioner,
		})
		assert.ErrorIs(t, err, draft.ErrNotActive)
	})
}

func TestConcurrentPicksOneWinner(t *testing.T) {
	fx := newFixture(t, 2, flexPositions(20))
	ctx := context.Background()
	d := fx.startDraft(t)
	teamID := fx.teams[0].ID

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, _, errs[i] = fx.app.MakePick(ctx, draft.MakePickRequest{
				DraftID:  d.ID,
				TeamID:   teamID,
				PlayerID: fx.players[i].ID,
				ActorID:  fx.commissioner,
			})
		}(i)
	}
	wg.Wait()

	winners := 0
	for _, err := range errs {
		if err == nil {
			winners++
		} else {
			assert.ErrorIs(t, err, draft.ErrWrongTurn, "race loser observes the committed turn")
		}
	}
	assert.Equal(t, 1, winners, "exactly one pick commits for the turn")

	picks, err := fx.store.ListPicks(ctx, d.ID)
	require.NoError(t, err)
	assert.Len(t, picks, 1)
}
