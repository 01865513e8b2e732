// Package draft implements the draft coordination engine: snake-order turn
// resolution, pick validation, the clock/auto-pick driver, and starter
// assignment at completion. Everything else (league/team/profile CRUD,
// waivers, analytics, transport) lives behind the narrow collaborator
// interfaces in types.go.
package draft

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/kmartin31/fastbreak/go/internal/audit"
	"github.com/kmartin31/fastbreak/go/internal/broadcast"
	"github.com/kmartin31/fastbreak/go/internal/draft/events"
	"github.com/kmartin31/fastbreak/go/internal/models"
	"github.com/rs/zerolog/log"
)

// App handles draft business logic.
type App struct {
	store     Store
	leagues   LeagueRepository
	players   PlayerRepository
	strategy  Strategy
	publisher broadcast.Publisher
	recorder  audit.Recorder
	clock     clockwork.Clock
}

// NewApp creates a new draft App.
func NewApp(store Store, leagues LeagueRepository, players PlayerRepository, strategy Strategy,
	publisher broadcast.Publisher, recorder audit.Recorder, clock clockwork.Clock) *App {
	return &App{
		store:     store,
		leagues:   leagues,
		players:   players,
		strategy:  strategy,
		publisher: publisher,
		recorder:  recorder,
		clock:     clock,
	}
}

// StartDraft creates and activates the draft for a league. Commissioner-only;
// a league drafts at most once.
func (a *App) StartDraft(ctx context.Context, leagueID, actorID uuid.UUID) (*models.Draft, error) {
	league, err := a.requireCommissioner(ctx, leagueID, actorID)
	if err != nil {
		return nil, err
	}

	if existing, err := a.store.GetDraftByLeague(ctx, leagueID); err == nil && existing != nil {
		return nil, fmt.Errorf("%w: league %s already has a %s draft", ErrWrongState, leagueID, existing.Status)
	} else if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("failed to check existing draft: %w", err)
	}

	teams, err := a.leagues.ListTeams(ctx, leagueID)
	if err != nil {
		return nil, fmt.Errorf("failed to list league teams: %w", err)
	}
	teamIDs := make([]uuid.UUID, len(teams))
	for i, t := range teams {
		teamIDs[i] = t.ID
	}

	order, err := BuildTeamOrder(teamIDs)
	if err != nil {
		return nil, err
	}

	timer := league.DraftTimerSec
	if timer == 0 {
		timer = models.DefaultTimerSeconds
	}
	if timer < models.MinTimerSeconds || timer > models.MaxTimerSeconds {
		return nil, fmt.Errorf("%w: league timer %ds outside [%d,%d]",
			ErrInvalidConfiguration, timer, models.MinTimerSeconds, models.MaxTimerSeconds)
	}

	now := a.clock.Now()
	draft := &models.Draft{
		ID:               uuid.New(),
		LeagueID:         leagueID,
		Status:           models.DraftStatusActive,
		CurrentRound:     1,
		CurrentPickIndex: 0,
		SecondsRemaining: timer,
		TimerSeconds:     timer,
		TeamOrder:        order,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := a.store.CreateDraft(ctx, draft); err != nil {
		return nil, fmt.Errorf("failed to create draft: %w", err)
	}

	log.Info().
		Str("draft_id", draft.ID.String()).
		Str("league_id", leagueID.String()).
		Int("teams", len(order)).
		Msg("draft started")

	a.record(ctx, "start_draft", draft, actorID, nil)

	teamOrder := make([]string, len(order))
	for i, id := range order {
		teamOrder[i] = id.String()
	}
	a.publish(ctx, draft.ID, events.TypeDraftStarted, events.DraftStartedPayload{
		LeagueID:     leagueID.String(),
		TeamOrder:    teamOrder,
		TimerSeconds: timer,
		TotalRounds:  models.DraftRounds,
		TotalPicks:   draft.TotalPicks(),
		StartedAt:    now,
	})

	return draft, nil
}

// PauseDraft pauses an active draft, freezing its pick clock. Commissioner-only.
func (a *App) PauseDraft(ctx context.Context, draftID, actorID uuid.UUID) (*models.Draft, error) {
	draft, err := a.transition(ctx, draftID, actorID, models.DraftStatusActive, models.DraftStatusPaused)
	if err != nil {
		return nil, err
	}

	a.record(ctx, "pause_draft", draft, actorID, nil)
	a.publish(ctx, draftID, events.TypeDraftPaused, events.DraftPausedPayload{
		PausedAt: a.clock.Now(),
		Reason:   "commissioner pause",
	})
	return draft, nil
}

// ResumeDraft resumes a paused draft with whatever clock it paused on.
// Commissioner-only.
func (a *App) ResumeDraft(ctx context.Context, draftID, actorID uuid.UUID) (*models.Draft, error) {
	draft, err := a.transition(ctx, draftID, actorID, models.DraftStatusPaused, models.DraftStatusActive)
	if err != nil {
		return nil, err
	}

	a.record(ctx, "resume_draft", draft, actorID, nil)
	a.publish(ctx, draftID, events.TypeDraftResumed, events.DraftResumedPayload{
		ResumedAt: a.clock.Now(),
	})
	return draft, nil
}

// UpdateTimer changes the per-pick allotment for a draft. The new value takes
// effect when the next pick advances the clock. Commissioner-only.
func (a *App) UpdateTimer(ctx context.Context, draftID, actorID uuid.UUID, seconds int) (*models.Draft, error) {
	if seconds < models.MinTimerSeconds || seconds > models.MaxTimerSeconds {
		return nil, fmt.Errorf("%w: timer %ds outside [%d,%d]",
			ErrInvalidConfiguration, seconds, models.MinTimerSeconds, models.MaxTimerSeconds)
	}

	current, err := a.store.GetDraft(ctx, draftID)
	if err != nil {
		return nil, fmt.Errorf("draft not found: %w", err)
	}
	if _, err := a.requireCommissioner(ctx, current.LeagueID, actorID); err != nil {
		return nil, err
	}

	var updated models.Draft
	err = a.store.UpdateDraft(ctx, draftID, func(tx DraftTx) error {
		d := tx.Draft()
		if d.Status == models.DraftStatusCompleted {
			return fmt.Errorf("%w: draft is completed", ErrWrongState)
		}
		d.TimerSeconds = seconds
		updated = *d
		return nil
	})
	if err != nil {
		return nil, err
	}

	a.record(ctx, "update_timer", &updated, actorID, map[string]string{"timer_seconds": fmt.Sprint(seconds)})
	a.publish(ctx, draftID, events.TypeTimerUpdated, events.TimerUpdatedPayload{
		TimerSeconds: seconds,
		UpdatedAt:    a.clock.Now(),
	})
	return &updated, nil
}

// GetDraft retrieves a draft by ID.
func (a *App) GetDraft(ctx context.Context, id uuid.UUID) (*models.Draft, error) {
	draft, err := a.store.GetDraft(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get draft: %w", err)
	}
	return draft, nil
}

// GetDraftState returns the full draft view: the draft, the acting team, and
// the ordered pick list with resolved team and player names.
func (a *App) GetDraftState(ctx context.Context, draftID uuid.UUID) (*DraftView, error) {
	draft, err := a.store.GetDraft(ctx, draftID)
	if err != nil {
		return nil, fmt.Errorf("failed to get draft: %w", err)
	}

	picks, err := a.store.ListPicks(ctx, draftID)
	if err != nil {
		return nil, fmt.Errorf("failed to list picks: %w", err)
	}

	teams, err := a.leagues.ListTeams(ctx, draft.LeagueID)
	if err != nil {
		return nil, fmt.Errorf("failed to list league teams: %w", err)
	}
	teamNames := make(map[uuid.UUID]string, len(teams))
	for _, t := range teams {
		teamNames[t.ID] = t.Name
	}

	view := &DraftView{
		Draft: *draft,
		Picks: make([]PickView, 0, len(picks)),
	}
	if teamID, ok := CurrentTeamID(draft); ok {
		view.CurrentTeamID = &teamID
	}

	for _, p := range picks {
		pv := PickView{Pick: p, TeamName: teamNames[p.TeamID]}
		player, err := a.players.GetPlayer(ctx, p.PlayerID)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve player %s: %w", p.PlayerID, err)
		}
		pv.PlayerName = player.FullName
		pv.Position = player.Position
		view.Picks = append(view.Picks, pv)
	}

	return view, nil
}

// transition moves a draft from one status to another under the per-draft
// lock, enforcing commissioner authorization first.
func (a *App) transition(ctx context.Context, draftID, actorID uuid.UUID, from, to models.DraftStatus) (*models.Draft, error) {
	current, err := a.store.GetDraft(ctx, draftID)
	if err != nil {
		return nil, fmt.Errorf("draft not found: %w", err)
	}
	if _, err := a.requireCommissioner(ctx, current.LeagueID, actorID); err != nil {
		return nil, err
	}

	var updated models.Draft
	err = a.store.UpdateDraft(ctx, draftID, func(tx DraftTx) error {
		d := tx.Draft()
		// Status is re-checked under the lock: a concurrent transition loses here.
		if d.Status != from {
			return fmt.Errorf("%w: draft is %s, need %s", ErrWrongState, d.Status, from)
		}
		d.Status = to
		updated = *d
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("draft_id", draftID.String()).
		Str("from", string(from)).
		Str("to", string(to)).
		Msg("draft status changed")
	return &updated, nil
}

func (a *App) requireCommissioner(ctx context.Context, leagueID, actorID uuid.UUID) (*models.League, error) {
	league, err := a.leagues.GetLeague(ctx, leagueID)
	if err != nil {
		return nil, fmt.Errorf("league not found: %w", err)
	}
	if actorID != league.CommissionerID {
		return nil, fmt.Errorf("%w: actor %s, league %s", ErrUnauthorized, actorID, leagueID)
	}
	return league, nil
}

// record writes an audit entry for a successful mutating call. Best-effort by
// contract: the recorder cannot fail the operation.
func (a *App) record(ctx context.Context, op string, d *models.Draft, actorID uuid.UUID, detail map[string]string) {
	if a.recorder == nil {
		return
	}
	a.recorder.Record(ctx, audit.Entry{
		Operation: op,
		DraftID:   d.ID,
		LeagueID:  d.LeagueID,
		ActorID:   actorID,
		At:        a.clock.Now(),
		Detail:    detail,
	})
}

// publish fans out an event after a successful commit. Failures are logged,
// never returned: publication is outside the commit's critical path.
func (a *App) publish(ctx context.Context, draftID uuid.UUID, typ events.Type, payload any) {
	if a.publisher == nil {
		return
	}

	view, err := a.GetDraftState(ctx, draftID)
	if err != nil {
		log.Warn().Err(err).Str("draft_id", draftID.String()).Str("event", string(typ)).
			Msg("failed to build draft view for event")
		return
	}
	draftJSON, err := json.Marshal(view)
	if err != nil {
		log.Warn().Err(err).Str("draft_id", draftID.String()).Msg("failed to marshal draft view")
		return
	}

	var data json.RawMessage
	if payload != nil {
		data, err = json.Marshal(payload)
		if err != nil {
			log.Warn().Err(err).Str("draft_id", draftID.String()).Msg("failed to marshal event payload")
			return
		}
	}

	env := events.Envelope{
		ID:        uuid.New().String(),
		DraftID:   draftID.String(),
		Type:      typ,
		Timestamp: a.clock.Now(),
		Draft:     draftJSON,
		Data:      data,
	}
	raw, err := json.Marshal(env)
	if err != nil {
		log.Warn().Err(err).Str("draft_id", draftID.String()).Msg("failed to marshal event envelope")
		return
	}

	if err := a.publisher.Publish(ctx, events.Topic(draftID), raw); err != nil {
		log.Warn().Err(err).Str("draft_id", draftID.String()).Str("event", string(typ)).
			Msg("event publish failed")
	}
}
