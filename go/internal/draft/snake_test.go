package draft

import (
	"testing"

	"github.com/google/uuid"
	"github.com/kmartin31/fastbreak/go/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestOrder(n int) []uuid.UUID {
	ids := make([]uuid.UUID, n)
	for i := range ids {
		ids[i] = uuid.New()
	}
	return ids
}

func TestBuildTeamOrder(t *testing.T) {
	cases := []struct {
		name    string
		teams   []uuid.UUID
		wantErr bool
	}{
		{name: "two teams", teams: newTestOrder(2)},
		{name: "three teams", teams: newTestOrder(3)},
		{name: "four teams", teams: newTestOrder(4)},
		{name: "one team rejected", teams: newTestOrder(1), wantErr: true},
		{name: "five teams rejected", teams: newTestOrder(5), wantErr: true},
		{name: "empty rejected", teams: nil, wantErr: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			order, err := BuildTeamOrder(tc.teams)
			if tc.wantErr {
				require.ErrorIs(t, err, ErrInvalidConfiguration)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.teams, order)
		})
	}
}

func TestBuildTeamOrderRejectsDuplicates(t *testing.T) {
	id := uuid.New()
	_, err := BuildTeamOrder([]uuid.UUID{id, uuid.New(), id})
	require.ErrorIs(t, err, ErrInvalidConfiguration)
}

func TestCurrentTeamIDSnakeParity(t *testing.T) {
	order := newTestOrder(4)
	d := &models.Draft{
		Status:       models.DraftStatusActive,
		CurrentRound: 1,
		TeamOrder:    order,
		TimerSeconds: 60,
	}

	// Round 1 forward, round 2 backward, round 3 forward again.
	want := []uuid.UUID{
		order[0], order[1], order[2], order[3],
		order[3], order[2], order[1], order[0],
		order[0], order[1], order[2], order[3],
	}
	for i, expected := range want {
		got, ok := CurrentTeamID(d)
		require.True(t, ok, "turn %d", i)
		assert.Equal(t, expected, got, "turn %d", i)
		advancePick(d, d.TimerSeconds)
	}
}

func TestCurrentTeamIDAfterCompletion(t *testing.T) {
	d := &models.Draft{
		Status:       models.DraftStatusCompleted,
		CurrentRound: models.DraftRounds + 1,
		TeamOrder:    newTestOrder(2),
	}
	_, ok := CurrentTeamID(d)
	assert.False(t, ok)
}

func TestAdvancePick(t *testing.T) {
	d := &models.Draft{
		Status:           models.DraftStatusActive,
		CurrentRound:     1,
		CurrentPickIndex: 2,
		SecondsRemaining: 7,
		TeamOrder:        newTestOrder(3),
	}

	advancePick(d, 45)
	assert.Equal(t, 2, d.CurrentRound, "index overflow rolls into the next round")
	assert.Equal(t, 0, d.CurrentPickIndex)
	assert.Equal(t, 45, d.SecondsRemaining, "clock resets to the per-pick allotment")

	advancePick(d, 45)
	assert.Equal(t, 2, d.CurrentRound)
	assert.Equal(t, 1, d.CurrentPickIndex)
}

func TestCheckFeasibility(t *testing.T) {
	roster := func(positions ...models.Position) []models.RosterSlot {
		slots := make([]models.RosterSlot, len(positions))
		for i, p := range positions {
			slots[i] = models.RosterSlot{PlayerID: uuid.New(), Position: p}
		}
		return slots
	}

	cases := []struct {
		name      string
		round     int
		roster    []models.RosterSlot
		candidate models.Position
		wantErr   bool
	}{
		{
			name:      "early rounds are unconstrained",
			round:     1,
			roster:    nil,
			candidate: models.PositionCenter,
		},
		{
			name:      "guard candidate always narrows the deficit",
			round:     9,
			roster:    roster("F", "F", "F", "F", "F", "F", "F", "F"),
			candidate: models.PositionGuard,
		},
		{
			name:      "round nine still has room to recover two guard slots",
			round:     9,
			roster:    roster("F", "F", "F", "F", "F", "F", "F", "F"),
			candidate: models.PositionForward,
		},
		{
			name:      "guard candidate covers the last remaining deficit",
			round:     10,
			roster:    roster("G", "F", "F", "F", "F", "F", "F", "F", "F"),
			candidate: models.PositionGuard,
		},
		{
			name:      "final pick rejected when two guard slots stay unfilled",
			round:     10,
			roster:    roster("F", "F", "F", "F", "F", "F", "F", "F", "F"),
			candidate: models.PositionForward,
			wantErr:   true,
		},
		{
			name:      "dual eligibility counts toward both groups",
			round:     10,
			roster:    roster("G", "F", "F", "F", "F", "F", "F", "F", "F"),
			candidate: models.PositionGuardForward,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d := &models.Draft{CurrentRound: tc.round}
			err := checkFeasibility(d, tc.roster, tc.candidate)
			if tc.wantErr {
				require.ErrorIs(t, err, ErrInfeasiblePick)
			} else {
				require.NoError(t, err)
			}
		})
	}
}
