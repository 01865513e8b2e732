package draft_test

import (
	"context"
	"testing"
	"time"

	"github.com/kmartin31/fastbreak/go/internal/draft"
	"github.com/kmartin31/fastbreak/go/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchedulerExpiresClockAndAutoPicks(t *testing.T) {
	fx := newFixture(t, 2, flexPositions(25))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d := fx.startDraft(t)

	// One tick covers the whole allotment, so the first advance forces an
	// auto-pick.
	scheduler := draft.NewScheduler(fx.app, fx.clock, draft.SchedulerConfig{
		TickInterval:  60 * time.Second,
		SweepInterval: 24 * time.Hour,
		StaleAfter:    24 * time.Hour,
		NumWorkers:    1,
	})

	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = scheduler.Run(ctx)
	}()

	// Wait for both tickers to arm before advancing.
	fx.clock.BlockUntil(2)
	fx.clock.Advance(60 * time.Second)

	require.Eventually(t, func() bool {
		picks, err := fx.store.ListPicks(context.Background(), d.ID)
		return err == nil && len(picks) == 1
	}, 2*time.Second, 10*time.Millisecond, "expired clock forces an auto-pick")

	picks, err := fx.store.ListPicks(context.Background(), d.ID)
	require.NoError(t, err)
	assert.True(t, picks[0].IsAuto)
	assert.Equal(t, d.TeamOrder[0], picks[0].TeamID)

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("scheduler did not shut down")
	}
}

func TestSchedulerSweepPausesStaleDraft(t *testing.T) {
	fx := newFixture(t, 2, flexPositions(25))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d := fx.startDraft(t)

	// Tick interval far beyond the sweep so only the sweep fires.
	scheduler := draft.NewScheduler(fx.app, fx.clock, draft.SchedulerConfig{
		TickInterval:  24 * time.Hour,
		SweepInterval: time.Minute,
		StaleAfter:    30 * time.Second,
		NumWorkers:    1,
	})

	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = scheduler.Run(ctx)
	}()

	fx.clock.BlockUntil(2)
	fx.clock.Advance(time.Minute)

	require.Eventually(t, func() bool {
		current, err := fx.app.GetDraft(context.Background(), d.ID)
		return err == nil && current.Status == models.DraftStatusPaused
	}, 2*time.Second, 10*time.Millisecond, "stale draft auto-paused by the sweep")

	cancel()
	<-done
}
