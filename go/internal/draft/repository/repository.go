// Package repository is the PostgreSQL implementation of the draft engine's
// persistence interfaces, backed by pgx. UpdateDraft holds a row-level lock on
// the draft for the life of the callback, which is what gives concurrent pick
// submissions their one-winner semantics.
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kmartin31/fastbreak/go/internal/draft"
	"github.com/kmartin31/fastbreak/go/internal/models"
)

type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const draftColumns = `id, league_id, status, current_round, current_pick_index,
	seconds_remaining, timer_seconds, team_order, created_at, updated_at`

func (r *Repository) CreateDraft(ctx context.Context, d *models.Draft) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO drafts (id, league_id, status, current_round, current_pick_index,
			seconds_remaining, timer_seconds, team_order, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		d.ID, d.LeagueID, d.Status, d.CurrentRound, d.CurrentPickIndex,
		d.SecondsRemaining, d.TimerSeconds, d.TeamOrder, d.CreatedAt, d.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create draft: %w", err)
	}
	return nil
}

func (r *Repository) GetDraft(ctx context.Context, id uuid.UUID) (*models.Draft, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+draftColumns+` FROM drafts WHERE id = $1`, id)
	return scanDraft(row)
}

func (r *Repository) GetDraftByLeague(ctx context.Context, leagueID uuid.UUID) (*models.Draft, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+draftColumns+` FROM drafts WHERE league_id = $1`, leagueID)
	return scanDraft(row)
}

// UpdateDraft locks the draft row FOR UPDATE, runs fn against the loaded
// draft, and commits the draft row plus all staged writes atomically.
func (r *Repository) UpdateDraft(ctx context.Context, draftID uuid.UUID, fn func(tx draft.DraftTx) error) error {
	pgTx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer pgTx.Rollback(ctx)

	row := pgTx.QueryRow(ctx, `SELECT `+draftColumns+` FROM drafts WHERE id = $1 FOR UPDATE`, draftID)
	d, err := scanDraft(row)
	if err != nil {
		return err
	}

	if err := fn(&draftTx{tx: pgTx, ctx: ctx, draft: d}); err != nil {
		return err
	}

	_, err = pgTx.Exec(ctx, `
		UPDATE drafts
		SET status = $2, current_round = $3, current_pick_index = $4,
			seconds_remaining = $5, timer_seconds = $6, updated_at = now()
		WHERE id = $1`,
		d.ID, d.Status, d.CurrentRound, d.CurrentPickIndex, d.SecondsRemaining, d.TimerSeconds)
	if err != nil {
		return fmt.Errorf("failed to update draft: %w", err)
	}

	if err := pgTx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit draft update: %w", err)
	}
	return nil
}

func (r *Repository) ListPicks(ctx context.Context, draftID uuid.UUID) ([]models.Pick, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, draft_id, team_id, player_id, round, pick_number, is_auto, picked_at
		FROM picks WHERE draft_id = $1 ORDER BY pick_number`, draftID)
	if err != nil {
		return nil, fmt.Errorf("failed to list picks: %w", err)
	}
	defer rows.Close()

	var picks []models.Pick
	for rows.Next() {
		var p models.Pick
		if err := rows.Scan(&p.ID, &p.DraftID, &p.TeamID, &p.PlayerID,
			&p.Round, &p.PickNumber, &p.IsAuto, &p.PickedAt); err != nil {
			return nil, fmt.Errorf("failed to scan pick: %w", err)
		}
		picks = append(picks, p)
	}
	return picks, rows.Err()
}

func (r *Repository) ListActiveDraftIDs(ctx context.Context) ([]uuid.UUID, error) {
	return r.listIDs(ctx, `SELECT id FROM drafts WHERE status = $1`, models.DraftStatusActive)
}

func (r *Repository) ListStaleActiveDraftIDs(ctx context.Context, updatedBefore time.Time) ([]uuid.UUID, error) {
	return r.listIDs(ctx, `SELECT id FROM drafts WHERE status = $1 AND updated_at < $2`,
		models.DraftStatusActive, updatedBefore)
}

func (r *Repository) listIDs(ctx context.Context, query string, args ...any) ([]uuid.UUID, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list drafts: %w", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan draft id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *Repository) ListAvailablePlayers(ctx context.Context, draftID uuid.UUID) ([]models.Player, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT p.id, p.full_name, p.position
		FROM players p
		WHERE NOT EXISTS (
			SELECT 1 FROM picks k WHERE k.draft_id = $1 AND k.player_id = p.id
		)
		ORDER BY p.id`, draftID)
	if err != nil {
		return nil, fmt.Errorf("failed to list available players: %w", err)
	}
	defer rows.Close()

	var players []models.Player
	for rows.Next() {
		var p models.Player
		if err := rows.Scan(&p.ID, &p.FullName, &p.Position); err != nil {
			return nil, fmt.Errorf("failed to scan player: %w", err)
		}
		players = append(players, p)
	}
	return players, rows.Err()
}

func (r *Repository) GetLeague(ctx context.Context, id uuid.UUID) (*models.League, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, name, commissioner_id, draft_timer_sec, status, season, created_at, updated_at
		FROM leagues WHERE id = $1`, id)

	var l models.League
	err := row.Scan(&l.ID, &l.Name, &l.CommissionerID, &l.DraftTimerSec,
		&l.Status, &l.Season, &l.CreatedAt, &l.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("league %s: %w", id, draft.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get league: %w", err)
	}
	return &l, nil
}

func (r *Repository) ListTeams(ctx context.Context, leagueID uuid.UUID) ([]models.Team, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, league_id, name, owner_id, created_at
		FROM teams WHERE league_id = $1 ORDER BY created_at, id`, leagueID)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}
	defer rows.Close()

	var teams []models.Team
	for rows.Next() {
		var t models.Team
		if err := rows.Scan(&t.ID, &t.LeagueID, &t.Name, &t.OwnerID, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan team: %w", err)
		}
		teams = append(teams, t)
	}
	return teams, rows.Err()
}

func (r *Repository) GetPlayer(ctx context.Context, id uuid.UUID) (*models.Player, error) {
	row := r.pool.QueryRow(ctx, `SELECT id, full_name, position FROM players WHERE id = $1`, id)

	var p models.Player
	err := row.Scan(&p.ID, &p.FullName, &p.Position)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("player %s: %w", id, draft.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get player: %w", err)
	}
	return &p, nil
}

func scanDraft(row pgx.Row) (*models.Draft, error) {
	var d models.Draft
	err := row.Scan(&d.ID, &d.LeagueID, &d.Status, &d.CurrentRound, &d.CurrentPickIndex,
		&d.SecondsRemaining, &d.TimerSeconds, &d.TeamOrder, &d.CreatedAt, &d.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("draft: %w", draft.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan draft: %w", err)
	}
	return &d, nil
}

// draftTx runs inside the FOR UPDATE transaction opened by UpdateDraft.
type draftTx struct {
	tx    pgx.Tx
	ctx   context.Context
	draft *models.Draft
}

func (t *draftTx) Draft() *models.Draft { return t.draft }

func (t *draftTx) CountPicks() (int, error) {
	var n int
	err := t.tx.QueryRow(t.ctx, `SELECT COUNT(*) FROM picks WHERE draft_id = $1`, t.draft.ID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count picks: %w", err)
	}
	return n, nil
}

func (t *draftTx) HasPick(playerID uuid.UUID) (bool, error) {
	var exists bool
	err := t.tx.QueryRow(t.ctx, `
		SELECT EXISTS (SELECT 1 FROM picks WHERE draft_id = $1 AND player_id = $2)`,
		t.draft.ID, playerID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check pick: %w", err)
	}
	return exists, nil
}

func (t *draftTx) InsertPick(p models.Pick) error {
	_, err := t.tx.Exec(t.ctx, `
		INSERT INTO picks (id, draft_id, team_id, player_id, round, pick_number, is_auto, picked_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		p.ID, p.DraftID, p.TeamID, p.PlayerID, p.Round, p.PickNumber, p.IsAuto, p.PickedAt)
	if err != nil {
		return fmt.Errorf("failed to insert pick: %w", err)
	}
	return nil
}

func (t *draftTx) InsertRosterSlot(s models.RosterSlot) error {
	_, err := t.tx.Exec(t.ctx, `
		INSERT INTO roster_slots (team_id, player_id, position, is_starter)
		VALUES ($1, $2, $3, $4)`,
		s.TeamID, s.PlayerID, s.Position, s.IsStarter)
	if err != nil {
		return fmt.Errorf("failed to insert roster slot: %w", err)
	}
	return nil
}

func (t *draftTx) TeamRoster(teamID uuid.UUID) ([]models.RosterSlot, error) {
	rows, err := t.tx.Query(t.ctx, `
		SELECT rs.team_id, rs.player_id, rs.position, rs.is_starter
		FROM roster_slots rs
		JOIN picks p ON p.draft_id = $1 AND p.team_id = rs.team_id AND p.player_id = rs.player_id
		WHERE rs.team_id = $2
		ORDER BY p.pick_number`, t.draft.ID, teamID)
	if err != nil {
		return nil, fmt.Errorf("failed to load team roster: %w", err)
	}
	defer rows.Close()

	var slots []models.RosterSlot
	for rows.Next() {
		var s models.RosterSlot
		if err := rows.Scan(&s.TeamID, &s.PlayerID, &s.Position, &s.IsStarter); err != nil {
			return nil, fmt.Errorf("failed to scan roster slot: %w", err)
		}
		slots = append(slots, s)
	}
	return slots, rows.Err()
}

func (t *draftTx) SetStarters(teamID uuid.UUID, playerIDs []uuid.UUID) error {
	_, err := t.tx.Exec(t.ctx, `
		UPDATE roster_slots SET is_starter = (player_id = ANY($2)) WHERE team_id = $1`,
		teamID, playerIDs)
	if err != nil {
		return fmt.Errorf("failed to set starters: %w", err)
	}
	return nil
}
