package draft

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/kmartin31/fastbreak/go/internal/models"
)

// MakePickRequest carries a pick submission. IsAuto is set only by the
// clock/auto-pick driver, never by transport handlers.
type MakePickRequest struct {
	DraftID  uuid.UUID `json:"draft_id"`
	TeamID   uuid.UUID `json:"team_id"`
	PlayerID uuid.UUID `json:"player_id"`
	ActorID  uuid.UUID `json:"actor_id"`
	IsAuto   bool      `json:"is_auto"`
}

// PickView is a pick joined with resolved team and player names.
type PickView struct {
	models.Pick
	TeamName   string          `json:"team_name"`
	PlayerName string          `json:"player_name"`
	Position   models.Position `json:"position"`
}

// DraftView is the full externally visible state of a draft, as served to
// clients and carried on every outbound event.
type DraftView struct {
	Draft         models.Draft `json:"draft"`
	CurrentTeamID *uuid.UUID   `json:"current_team_id,omitempty"`
	Picks         []PickView   `json:"picks"`
}

// SystemActorID identifies the clock driver on auto-picks and stale-draft
// pauses in audit records.
var SystemActorID = uuid.Nil

// Store is what the draft engine needs from persistence. Drafts are
// independent: implementations must scope locking per draft, never globally.
type Store interface {
	CreateDraft(ctx context.Context, d *models.Draft) error
	GetDraft(ctx context.Context, id uuid.UUID) (*models.Draft, error)
	GetDraftByLeague(ctx context.Context, leagueID uuid.UUID) (*models.Draft, error)

	// UpdateDraft runs fn against the draft row under an exclusive per-draft
	// lock. Every write made through the DraftTx commits atomically with the
	// draft row itself, or not at all when fn errors.
	UpdateDraft(ctx context.Context, draftID uuid.UUID, fn func(tx DraftTx) error) error

	ListPicks(ctx context.Context, draftID uuid.UUID) ([]models.Pick, error)
	ListActiveDraftIDs(ctx context.Context) ([]uuid.UUID, error)
	ListStaleActiveDraftIDs(ctx context.Context, updatedBefore time.Time) ([]uuid.UUID, error)

	// ListAvailablePlayers returns players without a pick in the draft,
	// ascending by player id.
	ListAvailablePlayers(ctx context.Context, draftID uuid.UUID) ([]models.Player, error)
}

// DraftTx is the atomic mutation surface handed to Store.UpdateDraft
// callbacks. Draft() is the working copy: mutations to it persist on commit.
type DraftTx interface {
	Draft() *models.Draft
	CountPicks() (int, error)
	HasPick(playerID uuid.UUID) (bool, error)
	InsertPick(p models.Pick) error
	InsertRosterSlot(s models.RosterSlot) error

	// TeamRoster returns the team's slots ascending by pick number.
	TeamRoster(teamID uuid.UUID) ([]models.RosterSlot, error)
	SetStarters(teamID uuid.UUID, playerIDs []uuid.UUID) error
}

// LeagueRepository defines what the engine needs from the leagues collaborator.
type LeagueRepository interface {
	GetLeague(ctx context.Context, id uuid.UUID) (*models.League, error)
	// ListTeams returns the league's teams in creation order.
	ListTeams(ctx context.Context, leagueID uuid.UUID) ([]models.Team, error)
}

// PlayerRepository defines what the engine needs from the player catalog.
type PlayerRepository interface {
	GetPlayer(ctx context.Context, id uuid.UUID) (*models.Player, error)
}
