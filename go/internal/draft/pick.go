package draft

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/kmartin31/fastbreak/go/internal/draft/events"
	"github.com/kmartin31/fastbreak/go/internal/lineup"
	"github.com/kmartin31/fastbreak/go/internal/models"
	"github.com/rs/zerolog/log"
)

// MakePick validates and commits one pick. The read, the validation, and the
// writes run as a single atomic unit under the per-draft lock, so a human
// pick and a timer-triggered auto-pick racing on the same turn cannot both
// succeed: the loser observes the post-commit state and fails with
// ErrWrongTurn or ErrAlreadyDrafted.
func (a *App) MakePick(ctx context.Context, req MakePickRequest) (*models.Pick, *models.Draft, error) {
	player, err := a.players.GetPlayer(ctx, req.PlayerID)
	if err != nil {
		return nil, nil, fmt.Errorf("player not found: %w", err)
	}
	if !player.Position.Valid() {
		return nil, nil, fmt.Errorf("%w: player %s has unknown position %q",
			ErrInvalidConfiguration, player.ID, player.Position)
	}

	var (
		pick      models.Pick
		updated   models.Draft
		completed bool
	)
	err = a.store.UpdateDraft(ctx, req.DraftID, func(tx DraftTx) error {
		d := tx.Draft()
		if d.Status != models.DraftStatusActive {
			return fmt.Errorf("%w: draft is %s", ErrNotActive, d.Status)
		}

		// Turn ownership is checked at commit time for auto-picks too: a
		// stale auto-pick that lost a race must not commit for the wrong turn.
		current, ok := CurrentTeamID(d)
		if !ok || req.TeamID != current {
			return fmt.Errorf("%w: team %s, current team %s", ErrWrongTurn, req.TeamID, current)
		}

		taken, err := tx.HasPick(req.PlayerID)
		if err != nil {
			return fmt.Errorf("failed to check existing pick: %w", err)
		}
		if taken {
			return fmt.Errorf("%w: player %s", ErrAlreadyDrafted, req.PlayerID)
		}

		roster, err := tx.TeamRoster(req.TeamID)
		if err != nil {
			return fmt.Errorf("failed to load team roster: %w", err)
		}
		if err := checkFeasibility(d, roster, player.Position); err != nil {
			return err
		}

		prior, err := tx.CountPicks()
		if err != nil {
			return fmt.Errorf("failed to count picks: %w", err)
		}

		pick = models.Pick{
			ID:         uuid.New(),
			DraftID:    req.DraftID,
			TeamID:     req.TeamID,
			PlayerID:   req.PlayerID,
			Round:      d.CurrentRound,
			PickNumber: prior + 1,
			IsAuto:     req.IsAuto,
			PickedAt:   a.clock.Now(),
		}
		if err := tx.InsertPick(pick); err != nil {
			return fmt.Errorf("failed to insert pick: %w", err)
		}
		if err := tx.InsertRosterSlot(models.RosterSlot{
			TeamID:   req.TeamID,
			PlayerID: req.PlayerID,
			Position: player.Position,
		}); err != nil {
			return fmt.Errorf("failed to insert roster slot: %w", err)
		}

		advancePick(d, d.TimerSeconds)

		if d.CurrentRound > models.DraftRounds {
			// Starters must exist before "completed" becomes observable, so
			// assignment runs inside the completing transaction.
			d.Status = models.DraftStatusCompleted
			d.SecondsRemaining = 0
			if err := assignAllStarters(tx, d); err != nil {
				return err
			}
			completed = true
		}

		updated = *d
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	log.Info().
		Str("draft_id", req.DraftID.String()).
		Str("team_id", req.TeamID.String()).
		Str("player_id", req.PlayerID.String()).
		Int("pick_number", pick.PickNumber).
		Bool("is_auto", req.IsAuto).
		Msg("pick committed")

	a.record(ctx, "make_pick", &updated, req.ActorID, map[string]string{
		"player_id":   req.PlayerID.String(),
		"team_id":     req.TeamID.String(),
		"pick_number": fmt.Sprint(pick.PickNumber),
	})

	a.publish(ctx, req.DraftID, events.TypePickMade, events.PickMadePayload{
		PickID:     pick.ID.String(),
		TeamID:     pick.TeamID.String(),
		TeamName:   a.teamName(ctx, updated.LeagueID, pick.TeamID),
		PlayerID:   pick.PlayerID.String(),
		PlayerName: player.FullName,
		Position:   string(player.Position),
		Round:      pick.Round,
		PickNumber: pick.PickNumber,
		IsAuto:     pick.IsAuto,
		MadeAt:     pick.PickedAt,
	})
	if completed {
		log.Info().Str("draft_id", req.DraftID.String()).Int("total_picks", updated.TotalPicks()).
			Msg("draft completed, starters assigned")
		a.publish(ctx, req.DraftID, events.TypeDraftCompleted, events.DraftCompletedPayload{
			CompletedAt: a.clock.Now(),
			TotalPicks:  updated.TotalPicks(),
		})
	}

	return &pick, &updated, nil
}

// checkFeasibility prunes picks that would make the five-starter positional
// minimums mathematically unreachable by the end of the draft. It is not a
// per-pick positional rule: any pick that leaves a path to 2 guard-eligible
// and 1 forward/center-eligible starters is allowed. The candidate counts
// toward the held totals, and the current turn counts toward the remaining
// picks.
func checkFeasibility(d *models.Draft, roster []models.RosterSlot, candidate models.Position) error {
	guardsHeld, fcHeld := 0, 0
	for _, s := range roster {
		if s.Position.IsGuard() {
			guardsHeld++
		}
		if s.Position.IsForwardCenter() {
			fcHeld++
		}
	}
	if candidate.IsGuard() {
		guardsHeld++
	}
	if candidate.IsForwardCenter() {
		fcHeld++
	}

	guardsNeeded := max(0, lineup.MinGuards-guardsHeld)
	fcNeeded := max(0, lineup.MinForwardCenters-fcHeld)
	remaining := (models.DraftRounds - d.CurrentRound) + 1

	if remaining < guardsNeeded+fcNeeded {
		return fmt.Errorf("%w: %d picks remain, %d guard and %d forward/center slots unfilled",
			ErrInfeasiblePick, remaining, guardsNeeded, fcNeeded)
	}
	return nil
}

// assignAllStarters runs the starter assignment engine once per team inside
// the completing transaction.
func assignAllStarters(tx DraftTx, d *models.Draft) error {
	for _, teamID := range d.TeamOrder {
		roster, err := tx.TeamRoster(teamID)
		if err != nil {
			return fmt.Errorf("failed to load roster for starters: %w", err)
		}

		slots := make([]lineup.Slot, len(roster))
		for i, s := range roster {
			slots[i] = lineup.Slot{PlayerID: s.PlayerID, Position: s.Position}
		}

		starters := lineup.AssignStarters(slots)
		if starters == nil {
			// Fewer than five players: leave the team without starters.
			continue
		}
		if err := tx.SetStarters(teamID, starters); err != nil {
			return fmt.Errorf("failed to set starters for team %s: %w", teamID, err)
		}
	}
	return nil
}

func (a *App) teamName(ctx context.Context, leagueID, teamID uuid.UUID) string {
	teams, err := a.leagues.ListTeams(ctx, leagueID)
	if err != nil {
		return ""
	}
	for _, t := range teams {
		if t.ID == teamID {
			return t.Name
		}
	}
	return ""
}
