package broadcast

import (
	"context"

	"github.com/rs/zerolog/log"
)

// Fanout publishes to every target and swallows individual failures. It backs
// the engine's fire-and-forget publication contract: one slow or broken sink
// must not fail the others, and never the caller.
type Fanout struct {
	targets []Publisher
}

// NewFanout composes publishers behind a single Publisher.
func NewFanout(targets ...Publisher) *Fanout {
	return &Fanout{targets: targets}
}

// Publish delivers data to all targets. Always returns nil; target failures
// are logged.
func (f *Fanout) Publish(ctx context.Context, topic string, data []byte) error {
	for _, t := range f.targets {
		if err := t.Publish(ctx, topic, data); err != nil {
			log.Warn().Err(err).Str("topic", topic).Msg("event publish failed")
		}
	}
	return nil
}
