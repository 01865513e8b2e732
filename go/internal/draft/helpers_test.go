package draft_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/kmartin31/fastbreak/go/internal/draft"
	"github.com/kmartin31/fastbreak/go/internal/draft/memstore"
	"github.com/kmartin31/fastbreak/go/internal/models"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	store        *memstore.Store
	app          *draft.App
	clock        *clockwork.FakeClock
	league       models.League
	teams        []models.Team
	commissioner uuid.UUID
	players      []models.Player
}

// seqID builds a uuid whose byte order matches n, so available-player
// ordering is predictable in tests.
func seqID(n byte) uuid.UUID {
	var id uuid.UUID
	id[0] = n
	id[15] = 1
	return id
}

// newFixture seeds a league with teamCount teams and one player per given
// position, ids ascending in list order.
func newFixture(t *testing.T, teamCount int, positions []models.Position) *fixture {
	t.Helper()

	clock := clockwork.NewFakeClock()
	store := memstore.New(clock)

	commissioner := uuid.New()
	league := models.League{
		ID:             uuid.New(),
		Name:           "test league",
		CommissionerID: commissioner,
		DraftTimerSec:  60,
		Status:         models.LeagueStatusActive,
		Season:         "2026",
	}
	store.AddLeague(league)

	teams := make([]models.Team, teamCount)
	for i := range teams {
		teams[i] = models.Team{
			ID:       uuid.New(),
			LeagueID: league.ID,
			Name:     fmt.Sprintf("team %d", i+1),
			OwnerID:  uuid.New(),
		}
		store.AddTeam(teams[i])
	}

	players := make([]models.Player, len(positions))
	for i, pos := range positions {
		players[i] = models.Player{
			ID:       seqID(byte(i + 1)),
			FullName: fmt.Sprintf("player %d", i+1),
			Position: pos,
		}
		store.AddPlayer(players[i])
	}

	app := draft.NewApp(store, store, store, draft.NewFirstAvailableStrategy(), nil, nil, clock)
	return &fixture{
		store:        store,
		app:          app,
		clock:        clock,
		league:       league,
		teams:        teams,
		commissioner: commissioner,
		players:      players,
	}
}

// flexPositions returns n dual-eligible players so feasibility pruning and
// strict starter minimums are always satisfiable.
func flexPositions(n int) []models.Position {
	positions := make([]models.Position, n)
	for i := range positions {
		positions[i] = models.PositionGuardForward
	}
	return positions
}

func (fx *fixture) startDraft(t *testing.T) *models.Draft {
	t.Helper()
	d, err := fx.app.StartDraft(context.Background(), fx.league.ID, fx.commissioner)
	require.NoError(t, err)
	return d
}

// currentTeam resolves the team on the clock, failing the test on a
// completed draft.
func (fx *fixture) currentTeam(t *testing.T, draftID uuid.UUID) uuid.UUID {
	t.Helper()
	d, err := fx.app.GetDraft(context.Background(), draftID)
	require.NoError(t, err)
	teamID, ok := draft.CurrentTeamID(d)
	require.True(t, ok, "draft has no current team")
	return teamID
}

// makeLegalPick submits the first available player for the team on the clock.
func (fx *fixture) makeLegalPick(t *testing.T, draftID uuid.UUID) *models.Pick {
	t.Helper()
	ctx := context.Background()

	available, err := fx.store.ListAvailablePlayers(ctx, draftID)
	require.NoError(t, err)
	require.NotEmpty(t, available)

	pick, _, err := fx.app.MakePick(ctx, draft.MakePickRequest{
		DraftID:  draftID,
		TeamID:   fx.currentTeam(t, draftID),
		PlayerID: available[0].ID,
		ActorID:  fx.commissioner,
	})
	require.NoError(t, err)
	return pick
}
