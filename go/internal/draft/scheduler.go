package draft

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/kmartin31/fastbreak/go/internal/draft/events"
	"github.com/kmartin31/fastbreak/go/internal/models"
	"github.com/rs/zerolog/log"
)

// SchedulerConfig holds the clock driver's tunables.
type SchedulerConfig struct {
	TickInterval  time.Duration // per-draft clock decrement interval
	SweepInterval time.Duration // stale-draft sweep interval
	StaleAfter    time.Duration // active drafts untouched this long get auto-paused
	NumWorkers    int
}

// DefaultSchedulerConfig returns the production defaults.
func DefaultSchedulerConfig() SchedulerConfig {
	return SchedulerConfig{
		TickInterval:  time.Second,
		SweepInterval: time.Minute,
		StaleAfter:    time.Hour,
		NumWorkers:    4,
	}
}

// Scheduler is the clock/auto-pick driver. On every tick it ages the clock of
// each active draft through the same engine entry points a human pick uses,
// forcing an auto-pick when a clock expires. A slower sweep auto-pauses
// drafts whose rows have gone stale, as a safety net against a stuck clock.
type Scheduler struct {
	app        *App
	clock      clockwork.Clock
	cfg        SchedulerConfig
	instanceID string // short ID for logging

	workCh chan uuid.UUID

	// Track in-flight work so a slow draft is never ticked twice concurrently.
	inFlight   map[uuid.UUID]bool
	inFlightMu sync.Mutex
}

// NewScheduler creates a clock driver over the given engine.
func NewScheduler(app *App, clock clockwork.Clock, cfg SchedulerConfig) *Scheduler {
	if cfg.NumWorkers <= 0 {
		cfg.NumWorkers = DefaultSchedulerConfig().NumWorkers
	}
	return &Scheduler{
		app:        app,
		clock:      clock,
		cfg:        cfg,
		instanceID: uuid.New().String()[:8],
		workCh:     make(chan uuid.UUID, cfg.NumWorkers*2),
		inFlight:   make(map[uuid.UUID]bool),
	}
}

// Run drives ticks and sweeps until ctx is cancelled.
func (s *Scheduler) Run(ctx context.Context) error {
	log.Info().
		Str("instance", s.instanceID).
		Int("workers", s.cfg.NumWorkers).
		Dur("tick_interval", s.cfg.TickInterval).
		Msg("draft scheduler started")

	var wg sync.WaitGroup
	workerCtx, cancelWorkers := context.WithCancel(ctx)

	for i := 0; i < s.cfg.NumWorkers; i++ {
		wg.Add(1)
		go s.worker(workerCtx, &wg, i)
	}
	defer func() {
		cancelWorkers()
		close(s.workCh)
		wg.Wait()
		log.Info().Str("instance", s.instanceID).Msg("all workers shut down")
	}()

	ticker := s.clock.NewTicker(s.cfg.TickInterval)
	defer ticker.Stop()
	sweeper := s.clock.NewTicker(s.cfg.SweepInterval)
	defer sweeper.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info().Str("instance", s.instanceID).Msg("scheduler shutting down")
			return nil
		case <-ticker.Chan():
			if err := s.dispatchTicks(ctx); err != nil {
				log.Error().Err(err).Str("instance", s.instanceID).Msg("tick dispatch failed")
			}
		case <-sweeper.Chan():
			if err := s.app.PauseStaleDrafts(ctx, s.cfg.StaleAfter); err != nil {
				log.Error().Err(err).Str("instance", s.instanceID).Msg("stale sweep failed")
			}
		}
	}
}

// dispatchTicks queues every active draft for one clock decrement, skipping
// drafts a worker is still processing.
func (s *Scheduler) dispatchTicks(ctx context.Context) error {
	ids, err := s.app.ListActiveDraftIDs(ctx)
	if err != nil {
		return fmt.Errorf("failed to list active drafts: %w", err)
	}

	for _, draftID := range ids {
		s.inFlightMu.Lock()
		if s.inFlight[draftID] {
			s.inFlightMu.Unlock()
			continue
		}
		s.inFlight[draftID] = true
		s.inFlightMu.Unlock()

		select {
		case <-ctx.Done():
			s.clearInFlight(draftID)
			return nil
		case s.workCh <- draftID:
		}
	}
	return nil
}

func (s *Scheduler) worker(ctx context.Context, wg *sync.WaitGroup, workerID int) {
	defer wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case draftID, ok := <-s.workCh:
			if !ok {
				return
			}
			if err := s.tickDraft(ctx, draftID); err != nil {
				log.Error().
					Err(err).
					Str("draft_id", draftID.String()).
					Str("instance", s.instanceID).
					Int("worker_id", workerID).
					Msg("draft tick failed")
			}
			s.clearInFlight(draftID)
		}
	}
}

func (s *Scheduler) tickDraft(ctx context.Context, draftID uuid.UUID) error {
	expired, err := s.app.Tick(ctx, draftID, int(s.cfg.TickInterval/time.Second))
	if err != nil {
		return err
	}
	if !expired {
		return nil
	}
	return s.app.AutoPick(ctx, draftID)
}

func (s *Scheduler) clearInFlight(draftID uuid.UUID) {
	s.inFlightMu.Lock()
	delete(s.inFlight, draftID)
	s.inFlightMu.Unlock()
}

// ListActiveDraftIDs exposes the active set to the scheduler.
func (a *App) ListActiveDraftIDs(ctx context.Context) ([]uuid.UUID, error) {
	return a.store.ListActiveDraftIDs(ctx)
}

// Tick ages one draft's pick clock by the elapsed interval and reports
// whether it expired. Pausing between the active listing and the lock is
// tolerated: the decrement is skipped.
func (a *App) Tick(ctx context.Context, draftID uuid.UUID, elapsedSeconds int) (bool, error) {
	expired := false
	err := a.store.UpdateDraft(ctx, draftID, func(tx DraftTx) error {
		d := tx.Draft()
		if d.Status != models.DraftStatusActive {
			return nil
		}
		d.SecondsRemaining -= elapsedSeconds
		if d.SecondsRemaining <= 0 {
			expired = true
		}
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("failed to tick draft: %w", err)
	}
	return expired, nil
}

// PauseStaleDrafts auto-pauses active drafts whose rows have not been touched
// within staleAfter. With a healthy clock driver every active draft is
// touched on each tick, so only a stuck clock leaves rows stale.
func (a *App) PauseStaleDrafts(ctx context.Context, staleAfter time.Duration) error {
	cutoff := a.clock.Now().Add(-staleAfter)
	ids, err := a.store.ListStaleActiveDraftIDs(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("failed to list stale drafts: %w", err)
	}

	for _, draftID := range ids {
		var updated models.Draft
		err := a.store.UpdateDraft(ctx, draftID, func(tx DraftTx) error {
			d := tx.Draft()
			if d.Status != models.DraftStatusActive {
				return nil
			}
			d.Status = models.DraftStatusPaused
			updated = *d
			return nil
		})
		if err != nil {
			log.Error().Err(err).Str("draft_id", draftID.String()).Msg("failed to pause stale draft")
			continue
		}
		if updated.Status != models.DraftStatusPaused {
			continue
		}

		log.Warn().Str("draft_id", draftID.String()).Msg("auto-paused stale draft")
		a.record(ctx, "pause_stale_draft", &updated, SystemActorID, nil)
		a.publish(ctx, draftID, events.TypeDraftPaused, events.DraftPausedPayload{
			PausedAt: a.clock.Now(),
			Reason:   "stale draft auto-pause",
		})
	}
	return nil
}
