package models

import (
	"strings"

	"github.com/google/uuid"
)

// Position is a primitive position code (G, F, C) or a hyphenated dual code
// (G-F, F-C) meaning membership in both named groups.
type Position string

const (
	PositionGuard         Position = "G"
	PositionForward       Position = "F"
	PositionCenter        Position = "C"
	PositionGuardForward  Position = "G-F"
	PositionForwardCenter Position = "F-C"
)

// Valid reports whether p is one of the recognized position codes.
func (p Position) Valid() bool {
	switch p {
	case PositionGuard, PositionForward, PositionCenter, PositionGuardForward, PositionForwardCenter:
		return true
	}
	return false
}

// IsGuard reports whether the position names the guard group.
func (p Position) IsGuard() bool {
	for _, code := range strings.Split(string(p), "-") {
		if code == "G" {
			return true
		}
	}
	return false
}

// IsForwardCenter reports whether the position names the forward or center group.
func (p Position) IsForwardCenter() bool {
	for _, code := range strings.Split(string(p), "-") {
		if code == "F" || code == "C" {
			return true
		}
	}
	return false
}

// Player represents a basketball player in the external catalog. Reference
// data only: the draft engine never mutates players.
type Player struct {
	ID       uuid.UUID `json:"id"`
	FullName string    `json:"full_name"`
	Position Position  `json:"position"`
}
