package models

import (
	"github.com/google/uuid"
)

// RosterSlot represents a player held by a fantasy team. One slot is created
// for every committed pick; IsStarter is the only field that mutates after
// creation.
type RosterSlot struct {
	TeamID    uuid.UUID `json:"team_id"`
	PlayerID  uuid.UUID `json:"player_id"`
	Position  Position  `json:"position"`
	IsStarter bool      `json:"is_starter"`
}
