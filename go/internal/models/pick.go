package models

import (
	"github.com/google/uuid"
	"time"
)

// Pick represents a committed selection in a draft. Picks are append-only:
// once committed they are never updated or deleted.
type Pick struct {
	ID         uuid.UUID `json:"id"`
	DraftID    uuid.UUID `json:"draft_id"`
	TeamID     uuid.UUID `json:"team_id"`
	PlayerID   uuid.UUID `json:"player_id"`
	Round      int       `json:"round"`
	PickNumber int       `json:"pick_number"` // global within the draft, strictly increasing from 1
	IsAuto     bool      `json:"is_auto"`
	PickedAt   time.Time `json:"picked_at"`
}
