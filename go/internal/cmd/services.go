package main

import (
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jonboulle/clockwork"
	"github.com/kmartin31/fastbreak/go/internal/audit"
	"github.com/kmartin31/fastbreak/go/internal/broadcast"
	"github.com/kmartin31/fastbreak/go/internal/draft"
	"github.com/kmartin31/fastbreak/go/internal/draft/repository"
	"github.com/kmartin31/fastbreak/go/internal/gateway"
	"github.com/rs/zerolog/log"
)

type Services struct {
	Draft     *draft.App
	Scheduler *draft.Scheduler
	Gateway   *gateway.Handler

	nats *broadcast.NATSPublisher
}

// setupServices wires the dependency chain: repository, broadcast, engine,
// scheduler, gateway.
func setupServices(pool *pgxpool.Pool, config *Config) *Services {
	clock := clockwork.NewRealClock()
	repo := repository.NewRepository(pool)

	bus := broadcast.NewBus()
	publishers := []broadcast.Publisher{bus}

	var natsPub *broadcast.NATSPublisher
	if config.NATS.Enabled {
		var err error
		natsPub, err = broadcast.ConnectNATS(config.NATS.URL, config.NATS.SubjectPrefix)
		if err != nil {
			log.Error().Err(err).Str("url", config.NATS.URL).
				Msg("NATS unavailable, continuing with in-process broadcast only")
		} else {
			publishers = append(publishers, natsPub)
		}
	}

	app := draft.NewApp(
		repo, repo, repo,
		draft.NewFirstAvailableStrategy(),
		broadcast.NewFanout(publishers...),
		audit.NewLogRecorder(log.With().Str("component", "audit").Logger()),
		clock,
	)

	scheduler := draft.NewScheduler(app, clock, draft.SchedulerConfig{
		TickInterval:  config.tickInterval(),
		SweepInterval: config.sweepInterval(),
		StaleAfter:    config.staleAfter(),
		NumWorkers:    config.Scheduler.NumWorkers,
	})

	gwConfig := gateway.DefaultConnectionConfig()
	gwConfig.PingInterval = time.Duration(config.Gateway.PingIntervalSeconds) * time.Second
	gwConfig.ReadTimeout = time.Duration(config.Gateway.ReadTimeoutSeconds) * time.Second
	manager := gateway.NewConnectionManager(bus, gwConfig)

	return &Services{
		Draft:     app,
		Scheduler: scheduler,
		Gateway:   gateway.NewHandler(manager),
		nats:      natsPub,
	}
}

// Close releases external connections.
func (s *Services) Close() {
	if s.nats != nil {
		s.nats.Close()
	}
}
