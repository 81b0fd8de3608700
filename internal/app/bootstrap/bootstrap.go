package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	electionservice "quorum/contexts/election-administration/election-service"
	electionpostgres "quorum/contexts/election-administration/election-service/adapters/postgres"
	workerapp "quorum/contexts/election-administration/election-service/application/workers"
	voterdirectory "quorum/contexts/identity-access/voter-directory"
	directorypostgres "quorum/contexts/identity-access/voter-directory/adapters/postgres"
	"quorum/internal/platform/config"
	"quorum/internal/platform/db"
	"quorum/internal/platform/httpserver"
	"quorum/internal/platform/messaging"
)

// Package bootstrap is the composition root.
// Keep construction/wiring here so module code stays framework-agnostic.

type APIApp struct {
	server   *httpserver.Server
	postgres *db.Postgres
	logger   *slog.Logger
}

type WorkerApp struct {
	postgres      *db.Postgres
	sweeper       workerapp.StatusSweeper
	outboxRelay   workerapp.OutboxRelay
	auditRecorder workerapp.AuditRecorder
	sweepEnabled  bool
	relayEnabled  bool
	pollInterval  time.Duration
	logger        *slog.Logger
}

func BuildAPI() (*APIApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "api")
	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		return nil, errors.New("POSTGRES_DSN is required")
	}

	pg, err := db.Connect(cfg.PostgresDSN)
	if err != nil {
		return nil, err
	}

	electionRepo := electionpostgres.NewRepository(pg.DB, logger)
	electionModule := electionservice.NewModule(electionservice.Dependencies{
		Elections:      electionRepo,
		Positions:      electionRepo,
		Candidates:     electionRepo,
		Ballots:        electionRepo,
		Voters:         electionRepo,
		Audit:          electionRepo,
		Idempotency:    electionRepo,
		Outbox:         electionRepo,
		Clock:          electionpostgres.SystemClock{},
		IDGenerator:    electionpostgres.UUIDGenerator{},
		IdempotencyTTL: 7 * 24 * time.Hour,
		Logger:         logger,
	})

	directoryRepo := directorypostgres.NewRepository(pg.DB, logger)
	directoryModule := voterdirectory.NewModule(voterdirectory.Dependencies{
		Voters: directoryRepo,
		Logger: logger,
	})

	server := httpserver.New(electionModule, directoryModule, logger, normalizeAddr(cfg.HTTPPort))
	return &APIApp{
		server:   server,
		postgres: pg,
		logger:   logger,
	}, nil
}

func BuildWorker() (*WorkerApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "worker")
	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		return nil, errors.New("POSTGRES_DSN is required")
	}

	pg, err := db.Connect(cfg.PostgresDSN)
	if err != nil {
		return nil, err
	}

	kafka, err := messaging.NewKafka(cfg.KafkaBrokers, logger)
	if err != nil {
		return nil, err
	}

	repo := electionpostgres.NewRepository(pg.DB, logger)
	return &WorkerApp{
		postgres: pg,
		sweeper: workerapp.StatusSweeper{
			Elections: repo,
			Clock:     electionpostgres.SystemClock{},
			BatchSize: 100,
			Logger:    logger,
		},
		outboxRelay: workerapp.OutboxRelay{
			Outbox:    repo,
			Publisher: kafka,
			Clock:     electionpostgres.SystemClock{},
			BatchSize: 100,
			Logger:    logger,
		},
		auditRecorder: workerapp.AuditRecorder{
			Subscriber: kafka,
			Audit:      repo,
			Dedup:      repo,
			IDs:        electionpostgres.UUIDGenerator{},
			Clock:      electionpostgres.SystemClock{},
			DedupTTL:   7 * 24 * time.Hour,
			Disabled:   !cfg.EnableAuditRecorder,
			Logger:     logger,
		},
		sweepEnabled: cfg.EnableStatusSweeper,
		relayEnabled: cfg.EnableOutboxRelay,
		pollInterval: 2 * time.Second,
		logger:       logger,
	}, nil
}

func (a *APIApp) Run(_ context.Context) error {
	if a.logger != nil {
		a.logger.Info("api app started",
			"event", "bootstrap_api_started",
			"module", "internal/app/bootstrap",
			"layer", "platform",
		)
	}
	return a.server.Start()
}

func (a *APIApp) Close() error {
	if a.postgres != nil {
		return a.postgres.Close()
	}
	return nil
}

func (w *WorkerApp) Run(ctx context.Context) error {
	if err := w.auditRecorder.Start(ctx); err != nil {
		return err
	}

	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	w.logger.Info("worker app started",
		"event", "bootstrap_worker_started",
		"module", "internal/app/bootstrap",
		"layer", "platform",
		"poll_interval", w.pollInterval.String(),
	)

	for {
		if w.sweepEnabled {
			if err := w.sweeper.RunOnce(ctx); err != nil {
				return err
			}
		}
		if w.relayEnabled {
			if err := w.outboxRelay.RunOnce(ctx); err != nil {
				return err
			}
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func (w *WorkerApp) Close() error {
	if w.postgres != nil {
		return w.postgres.Close()
	}
	return nil
}

func normalizeAddr(port string) string {
	value := strings.TrimSpace(port)
	if value == "" {
		return ":8080"
	}
	if strings.HasPrefix(value, ":") {
		return value
	}
	return ":" + value
}
