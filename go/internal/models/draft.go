package models

import (
	"github.com/google/uuid"
	"time"
)

// DraftStatus defines the status of a draft.
type DraftStatus string

const (
	DraftStatusActive    DraftStatus = "ACTIVE"
	DraftStatusPaused    DraftStatus = "PAUSED"
	DraftStatusCompleted DraftStatus = "COMPLETED"
)

// DraftRounds is the fixed number of rounds in every draft.
const DraftRounds = 10

// Team count bounds for a draftable league.
const (
	MinDraftTeams = 2
	MaxDraftTeams = 4
)

// Timer bounds in seconds for the per-pick clock.
const (
	MinTimerSeconds     = 10
	MaxTimerSeconds     = 300
	DefaultTimerSeconds = 60
)

// Draft represents a draft instance. A draft only exists once started; it is
// created ACTIVE and COMPLETED is terminal.
type Draft struct {
	ID               uuid.UUID   `json:"id"`
	LeagueID         uuid.UUID   `json:"league_id"`
	Status           DraftStatus `json:"status"`
	CurrentRound     int         `json:"current_round"`      // 1..DraftRounds+1 (DraftRounds+1 = just completed)
	CurrentPickIndex int         `json:"current_pick_index"` // 0..len(TeamOrder)-1 while not completed
	SecondsRemaining int         `json:"seconds_remaining"`
	TimerSeconds     int         `json:"timer_seconds"` // per-pick allotment, reset on every advance
	TeamOrder        []uuid.UUID `json:"team_order"`    // canonical order; snake parity is computed, never stored
	CreatedAt        time.Time   `json:"created_at"`
	UpdatedAt        time.Time   `json:"updated_at"`
}

// TeamCount returns the number of teams drafting.
func (d *Draft) TeamCount() int {
	return len(d.TeamOrder)
}

// TotalPicks returns the number of picks a full draft commits.
func (d *Draft) TotalPicks() int {
	return len(d.TeamOrder) * DraftRounds
}
