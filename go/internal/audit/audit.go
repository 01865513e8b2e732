// Package audit records successful mutating operations. Recording is
// best-effort: a failed or missing audit sink must never fail the operation
// it describes.
package audit

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Entry describes one successful mutating operation.
type Entry struct {
	Operation string
	DraftID   uuid.UUID
	LeagueID  uuid.UUID
	ActorID   uuid.UUID
	At        time.Time
	Detail    map[string]string
}

// Recorder is the audit collaborator interface.
type Recorder interface {
	Record(ctx context.Context, e Entry)
}

// LogRecorder writes audit entries as structured log lines.
type LogRecorder struct {
	logger zerolog.Logger
}

// NewLogRecorder creates a Recorder backed by the given logger.
func NewLogRecorder(logger zerolog.Logger) *LogRecorder {
	return &LogRecorder{logger: logger}
}

// Record writes one audit line.
func (r *LogRecorder) Record(ctx context.Context, e Entry) {
	evt := r.logger.Info().
		Str("audit_op", e.Operation).
		Str("draft_id", e.DraftID.String()).
		Str("actor_id", e.ActorID.String()).
		Time("at", e.At)
	if e.LeagueID != uuid.Nil {
		evt = evt.Str("league_id", e.LeagueID.String())
	}
	for k, v := range e.Detail {
		evt = evt.Str(k, v)
	}
	evt.Msg("audit")
}
