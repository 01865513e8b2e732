// Package memstore is an in-memory implementation of the draft engine's
// persistence interfaces, used by tests and local development. It honors the
// same locking contract as the SQL store: one exclusive lock per draft, so
// concurrent drafts never contend.
package memstore

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/kmartin31/fastbreak/go/internal/draft"
	"github.com/kmartin31/fastbreak/go/internal/models"
)

// Store implements draft.Store, draft.LeagueRepository, and
// draft.PlayerRepository over process memory.
type Store struct {
	clock clockwork.Clock

	mu       sync.RWMutex
	drafts   map[uuid.UUID]*draftRecord
	byLeague map[uuid.UUID]uuid.UUID
	leagues  map[uuid.UUID]models.League
	teams    map[uuid.UUID][]models.Team
	players  map[uuid.UUID]models.Player
}

type draftRecord struct {
	mu    sync.Mutex
	draft models.Draft
	picks []models.Pick
	// slots holds each team's roster in pick order.
	slots map[uuid.UUID][]models.RosterSlot
	// picked indexes player IDs already drafted.
	picked map[uuid.UUID]bool
}

// New creates an empty store. The clock stamps UpdatedAt on every commit.
func New(clock clockwork.Clock) *Store {
	return &Store{
		clock:    clock,
		drafts:   make(map[uuid.UUID]*draftRecord),
		byLeague: make(map[uuid.UUID]uuid.UUID),
		leagues:  make(map[uuid.UUID]models.League),
		teams:    make(map[uuid.UUID][]models.Team),
		players:  make(map[uuid.UUID]models.Player),
	}
}

// AddLeague seeds a league.
func (s *Store) AddLeague(l models.League) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.leagues[l.ID] = l
}

// AddTeam seeds a team; creation order is list order.
func (s *Store) AddTeam(t models.Team) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.teams[t.LeagueID] = append(s.teams[t.LeagueID], t)
}

// AddPlayer seeds a player into the catalog.
func (s *Store) AddPlayer(p models.Player) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.players[p.ID] = p
}

func (s *Store) CreateDraft(_ context.Context, d *models.Draft) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.drafts[d.ID]; ok {
		return fmt.Errorf("draft %s already exists", d.ID)
	}
	if _, ok := s.byLeague[d.LeagueID]; ok {
		return fmt.Errorf("league %s already has a draft", d.LeagueID)
	}

	s.drafts[d.ID] = &draftRecord{
		draft:  cloneDraft(*d),
		slots:  make(map[uuid.UUID][]models.RosterSlot),
		picked: make(map[uuid.UUID]bool),
	}
	s.byLeague[d.LeagueID] = d.ID
	return nil
}

func (s *Store) GetDraft(_ context.Context, id uuid.UUID) (*models.Draft, error) {
	rec, err := s.record(id)
	if err != nil {
		return nil, err
	}
	rec.mu.Lock()
	defer rec.mu.Unlock()
	d := cloneDraft(rec.draft)
	return &d, nil
}

func (s *Store) GetDraftByLeague(ctx context.Context, leagueID uuid.UUID) (*models.Draft, error) {
	s.mu.RLock()
	id, ok := s.byLeague[leagueID]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("no draft for league %s: %w", leagueID, draft.ErrNotFound)
	}
	return s.GetDraft(ctx, id)
}

// UpdateDraft stages all writes against copies and applies them only when fn
// succeeds, matching the SQL store's transaction semantics.
func (s *Store) UpdateDraft(_ context.Context, draftID uuid.UUID, fn func(tx draft.DraftTx) error) error {
	rec, err := s.record(draftID)
	if err != nil {
		return err
	}

	rec.mu.Lock()
	defer rec.mu.Unlock()

	working := cloneDraft(rec.draft)
	tx := &draftTx{rec: rec, draft: &working}
	if err := fn(tx); err != nil {
		return err
	}

	working.UpdatedAt = s.clock.Now()
	rec.draft = working
	rec.picks = append(rec.picks, tx.newPicks...)
	for _, slot := range tx.newSlots {
		rec.slots[slot.TeamID] = append(rec.slots[slot.TeamID], slot)
		rec.picked[slot.PlayerID] = true
	}
	for teamID, starters := range tx.starters {
		team := rec.slots[teamID]
		for i := range team {
			team[i].IsStarter = starters[team[i].PlayerID]
		}
	}
	return nil
}

func (s *Store) ListPicks(_ context.Context, draftID uuid.UUID) ([]models.Pick, error) {
	rec, err := s.record(draftID)
	if err != nil {
		return nil, err
	}
	rec.mu.Lock()
	defer rec.mu.Unlock()
	out := make([]models.Pick, len(rec.picks))
	copy(out, rec.picks)
	return out, nil
}

func (s *Store) ListActiveDraftIDs(_ context.Context) ([]uuid.UUID, error) {
	return s.listActive(func(d models.Draft) bool {
		return d.Status == models.DraftStatusActive
	})
}

func (s *Store) ListStaleActiveDraftIDs(_ context.Context, updatedBefore time.Time) ([]uuid.UUID, error) {
	return s.listActive(func(d models.Draft) bool {
		return d.Status == models.DraftStatusActive && d.UpdatedAt.Before(updatedBefore)
	})
}

func (s *Store) listActive(match func(models.Draft) bool) ([]uuid.UUID, error) {
	s.mu.RLock()
	recs := make([]*draftRecord, 0, len(s.drafts))
	for _, rec := range s.drafts {
		recs = append(recs, rec)
	}
	s.mu.RUnlock()

	var ids []uuid.UUID
	for _, rec := range recs {
		rec.mu.Lock()
		if match(rec.draft) {
			ids = append(ids, rec.draft.ID)
		}
		rec.mu.Unlock()
	}
	return ids, nil
}

func (s *Store) ListAvailablePlayers(_ context.Context, draftID uuid.UUID) ([]models.Player, error) {
	rec, err := s.record(draftID)
	if err != nil {
		return nil, err
	}

	rec.mu.Lock()
	taken := make(map[uuid.UUID]bool, len(rec.picked))
	for id := range rec.picked {
		taken[id] = true
	}
	rec.mu.Unlock()

	s.mu.RLock()
	available := make([]models.Player, 0, len(s.players))
	for id, p := range s.players {
		if !taken[id] {
			available = append(available, p)
		}
	}
	s.mu.RUnlock()

	sort.Slice(available, func(i, j int) bool {
		return bytes.Compare(available[i].ID[:], available[j].ID[:]) < 0
	})
	return available, nil
}

func (s *Store) GetLeague(_ context.Context, id uuid.UUID) (*models.League, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	l, ok := s.leagues[id]
	if !ok {
		return nil, fmt.Errorf("league %s: %w", id, draft.ErrNotFound)
	}
	return &l, nil
}

func (s *Store) ListTeams(_ context.Context, leagueID uuid.UUID) ([]models.Team, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	teams := s.teams[leagueID]
	out := make([]models.Team, len(teams))
	copy(out, teams)
	return out, nil
}

func (s *Store) GetPlayer(_ context.Context, id uuid.UUID) (*models.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.players[id]
	if !ok {
		return nil, fmt.Errorf("player %s: %w", id, draft.ErrNotFound)
	}
	return &p, nil
}

// TeamRoster reads a team's committed slots outside a transaction, for tests.
func (s *Store) TeamRoster(_ context.Context, draftID, teamID uuid.UUID) ([]models.RosterSlot, error) {
	rec, err := s.record(draftID)
	if err != nil {
		return nil, err
	}
	rec.mu.Lock()
	defer rec.mu.Unlock()
	out := make([]models.RosterSlot, len(rec.slots[teamID]))
	copy(out, rec.slots[teamID])
	return out, nil
}

func (s *Store) record(id uuid.UUID) (*draftRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.drafts[id]
	if !ok {
		return nil, fmt.Errorf("draft %s: %w", id, draft.ErrNotFound)
	}
	return rec, nil
}

func cloneDraft(d models.Draft) models.Draft {
	order := make([]uuid.UUID, len(d.TeamOrder))
	copy(order, d.TeamOrder)
	d.TeamOrder = order
	return d
}

// draftTx stages writes; the store applies them after fn returns nil. The
// caller already holds the record's lock, so reads see committed state plus
// this transaction's own staged writes.
type draftTx struct {
	rec      *draftRecord
	draft    *models.Draft
	newPicks []models.Pick
	newSlots []models.RosterSlot
	starters map[uuid.UUID]map[uuid.UUID]bool
}

func (tx *draftTx) Draft() *models.Draft { return tx.draft }

func (tx *draftTx) CountPicks() (int, error) {
	return len(tx.rec.picks) + len(tx.newPicks), nil
}

func (tx *draftTx) HasPick(playerID uuid.UUID) (bool, error) {
	if tx.rec.picked[playerID] {
		return true, nil
	}
	for _, p := range tx.newPicks {
		if p.PlayerID == playerID {
			return true, nil
		}
	}
	return false, nil
}

func (tx *draftTx) InsertPick(p models.Pick) error {
	tx.newPicks = append(tx.newPicks, p)
	return nil
}

func (tx *draftTx) InsertRosterSlot(slot models.RosterSlot) error {
	tx.newSlots = append(tx.newSlots, slot)
	return nil
}

func (tx *draftTx) TeamRoster(teamID uuid.UUID) ([]models.RosterSlot, error) {
	var out []models.RosterSlot
	out = append(out, tx.rec.slots[teamID]...)
	for _, slot := range tx.newSlots {
		if slot.TeamID == teamID {
			out = append(out, slot)
		}
	}
	return out, nil
}

func (tx *draftTx) SetStarters(teamID uuid.UUID, playerIDs []uuid.UUID) error {
	if tx.starters == nil {
		tx.starters = make(map[uuid.UUID]map[uuid.UUID]bool)
	}
	set := make(map[uuid.UUID]bool, len(playerIDs))
	for _, id := range playerIDs {
		set[id] = true
	}
	tx.starters[teamID] = set
	return nil
}
