package draft

import "errors"

// Request-local failures returned to callers. All are recoverable by the
// caller and never fatal to the process; the transport layer maps them to
// status codes. Compare with errors.Is — mutating operations wrap these with
// context.
var (
	ErrNotFound             = errors.New("not found")
	ErrUnauthorized         = errors.New("actor is not the league commissioner")
	ErrNotActive            = errors.New("draft is not active")
	ErrWrongState           = errors.New("draft is not in the required state")
	ErrWrongTurn            = errors.New("not this team's turn")
	ErrAlreadyDrafted       = errors.New("player already drafted")
	ErrInfeasiblePick       = errors.New("pick would make positional requirements unsatisfiable")
	ErrInvalidConfiguration = errors.New("invalid draft configuration")
)
