package draft

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/kmartin31/fastbreak/go/internal/models"
)

// BuildTeamOrder computes the canonical draft order from a league's teams,
// given in a stable order (team creation order). The returned slice is the
// single source of truth for turn resolution: even rounds are derived by
// reversing it arithmetically, never by storing a second copy.
func BuildTeamOrder(teamIDs []uuid.UUID) ([]uuid.UUID, error) {
	n := len(teamIDs)
	if n < models.MinDraftTeams || n > models.MaxDraftTeams {
		return nil, fmt.Errorf("%w: league has %d teams, need between %d and %d",
			ErrInvalidConfiguration, n, models.MinDraftTeams, models.MaxDraftTeams)
	}

	seen := make(map[uuid.UUID]bool, n)
	order := make([]uuid.UUID, n)
	for i, id := range teamIDs {
		if seen[id] {
			return nil, fmt.Errorf("%w: duplicate team %s in draft order", ErrInvalidConfiguration, id)
		}
		seen[id] = true
		order[i] = id
	}
	return order, nil
}

// CurrentTeamID resolves the team authorized to make the next pick. Odd
// rounds walk TeamOrder forward, even rounds walk it backward (snake
// reversal). Returns false when the draft is completed.
func CurrentTeamID(d *models.Draft) (uuid.UUID, bool) {
	n := d.TeamCount()
	if d.Status == models.DraftStatusCompleted || d.CurrentRound > models.DraftRounds || n == 0 {
		return uuid.Nil, false
	}
	if d.CurrentRound%2 == 1 {
		return d.TeamOrder[d.CurrentPickIndex], true
	}
	return d.TeamOrder[n-1-d.CurrentPickIndex], true
}

// advancePick moves the draft to the next turn and resets the pick clock.
// The caller decides whether round overflow means completion.
func advancePick(d *models.Draft, timerSeconds int) {
	d.CurrentPickIndex++
	if d.CurrentPickIndex >= d.TeamCount() {
		d.CurrentRound++
		d.CurrentPickIndex = 0
	}
	d.SecondsRemaining = timerSeconds
}
