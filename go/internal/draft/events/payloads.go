// Package events holds the outbound event envelope and payload types shared
// between the draft engine, the broadcast layer, and the gateway.
package events

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Type identifies an outbound draft event.
type Type string

const (
	TypeDraftStarted   Type = "draft_started"
	TypePickMade       Type = "pick_made"
	TypeDraftPaused    Type = "draft_paused"
	TypeDraftResumed   Type = "draft_resumed"
	TypeTimerUpdated   Type = "timer_updated"
	TypeDraftCompleted Type = "draft_completed"
)

// Envelope is the wire shape of every draft event. Draft carries the full
// serialized draft view; Data carries the event-specific payload.
type Envelope struct {
	ID        string          `json:"id"`
	DraftID   string          `json:"draft_id"`
	Type      Type            `json:"type"`
	Timestamp time.Time       `json:"timestamp"`
	Draft     json.RawMessage `json:"draft"`
	Data      json.RawMessage `json:"data,omitempty"`
}

// Topic returns the broadcast topic for a draft's event stream.
func Topic(draftID uuid.UUID) string {
	return "draft." + draftID.String()
}

// DraftStartedPayload is the payload for a draft_started event.
type DraftStartedPayload struct {
	LeagueID     string    `json:"league_id"`
	TeamOrder    []string  `json:"team_order"`
	TimerSeconds int       `json:"timer_seconds"`
	TotalRounds  int       `json:"total_rounds"`
	TotalPicks   int       `json:"total_picks"`
	StartedAt    time.Time `json:"started_at"`
}

// PickMadePayload is the payload for a pick_made event.
type PickMadePayload struct {
	PickID     string    `json:"pick_id"`
	TeamID     string    `json:"team_id"`
	TeamName   string    `json:"team_name"`
	PlayerID   string    `json:"player_id"`
	PlayerName string    `json:"player_name"`
	Position   string    `json:"position"`
	Round      int       `json:"round"`
	PickNumber int       `json:"pick_number"`
	IsAuto     bool      `json:"is_auto"`
	MadeAt     time.Time `json:"made_at"`
}

// DraftPausedPayload is the payload for a draft_paused event.
type DraftPausedPayload struct {
	PausedAt time.Time `json:"paused_at"`
	Reason   string    `json:"reason"`
}

// DraftResumedPayload is the payload for a draft_resumed event.
type DraftResumedPayload struct {
	ResumedAt time.Time `json:"resumed_at"`
}

// TimerUpdatedPayload is the payload for a timer_updated event.
type TimerUpdatedPayload struct {
	TimerSeconds int       `json:"timer_seconds"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// DraftCompletedPayload is the payload for a draft_completed event.
type DraftCompletedPayload struct {
	CompletedAt time.Time `json:"completed_at"`
	TotalPicks  int       `json:"total_picks"`
}
