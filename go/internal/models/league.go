package models

import (
	"github.com/google/uuid"
	"time"
)

// LeagueStatus defines the status of a league.
type LeagueStatus string

const (
	LeagueStatusPending   LeagueStatus = "PENDING"
	LeagueStatusActive    LeagueStatus = "ACTIVE"
	LeagueStatusCompleted LeagueStatus = "COMPLETED"
)

// League represents a fantasy basketball league.
type League struct {
	ID             uuid.UUID    `json:"id"`
	Name           string       `json:"name"`
	CommissionerID uuid.UUID    `json:"commissioner_id"`
	DraftTimerSec  int          `json:"draft_timer_sec"` // default per-pick clock for this league's draft
	Status         LeagueStatus `json:"status"`
	Season         string       `json:"season"`
	CreatedAt      time.Time    `json:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at"`
}

// Team represents a fantasy team within a league. Draft order derives from
// team creation order.
type Team struct {
	ID        uuid.UUID `json:"id"`
	LeagueID  uuid.UUID `json:"league_id"`
	Name      string    `json:"name"`
	OwnerID   uuid.UUID `json:"owner_id"`
	CreatedAt time.Time `json:"created_at"`
}
