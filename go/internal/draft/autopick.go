package draft

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/kmartin31/fastbreak/go/internal/models"
	"github.com/rs/zerolog/log"
)

// Strategy chooses the player for a forced pick. FirstAvailableStrategy is a
// deliberate placeholder (the lowest-id undrafted player); a real ranking
// strategy plugs in here, never into the state machine.
type Strategy interface {
	// SelectPlayer chooses from the remaining candidates, which arrive
	// ascending by player id and never empty.
	SelectPlayer(ctx context.Context, d *models.Draft, available []models.Player) (uuid.UUID, error)
}

// FirstAvailableStrategy picks the first undrafted player.
type FirstAvailableStrategy struct{}

// NewFirstAvailableStrategy returns the placeholder auto-pick strategy.
func NewFirstAvailableStrategy() *FirstAvailableStrategy {
	return &FirstAvailableStrategy{}
}

// SelectPlayer implements Strategy.
func (s *FirstAvailableStrategy) SelectPlayer(ctx context.Context, d *models.Draft, available []models.Player) (uuid.UUID, error) {
	return available[0].ID, nil
}

// AutoPick forces a pick for the team on the clock. Candidates rejected by
// feasibility pruning (or drafted in a race) are skipped and the strategy is
// asked again; losing the whole turn to a concurrent human pick is benign.
func (a *App) AutoPick(ctx context.Context, draftID uuid.UUID) error {
	d, err := a.store.GetDraft(ctx, draftID)
	if err != nil {
		return fmt.Errorf("draft not found: %w", err)
	}
	if d.Status != models.DraftStatusActive {
		return nil
	}
	teamID, ok := CurrentTeamID(d)
	if !ok {
		return nil
	}

	available, err := a.store.ListAvailablePlayers(ctx, draftID)
	if err != nil {
		return fmt.Errorf("failed to list available players: %w", err)
	}

	for len(available) > 0 {
		playerID, err := a.strategy.SelectPlayer(ctx, d, available)
		if err != nil {
			return fmt.Errorf("auto-pick strategy failed: %w", err)
		}

		_, _, err = a.MakePick(ctx, MakePickRequest{
			DraftID:  draftID,
			TeamID:   teamID,
			PlayerID: playerID,
			ActorID:  SystemActorID,
			IsAuto:   true,
		})
		switch {
		case err == nil:
			log.Info().
				Str("draft_id", draftID.String()).
				Str("team_id", teamID.String()).
				Str("player_id", playerID.String()).
				Msg("auto-pick committed")
			return nil

		case errors.Is(err, ErrInfeasiblePick), errors.Is(err, ErrAlreadyDrafted):
			available = withoutPlayer(available, playerID)

		case errors.Is(err, ErrWrongTurn), errors.Is(err, ErrNotActive):
			// Lost the race to a human pick or a pause. Nothing to do.
			log.Debug().Err(err).Str("draft_id", draftID.String()).Msg("auto-pick lost race")
			return nil

		default:
			return fmt.Errorf("auto-pick failed: %w", err)
		}
	}

	return fmt.Errorf("no draftable player available for draft %s", draftID)
}

func withoutPlayer(players []models.Player, id uuid.UUID) []models.Player {
	out := players[:0]
	for _, p := range players {
		if p.ID != id {
			out = append(out, p)
		}
	}
	return out
}
