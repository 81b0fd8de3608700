package workers

import (
	"context"
	"log/slog"
	"time"

	application "quorum/contexts/election-administration/election-service/application"
	"quorum/contexts/election-administration/election-service/ports"
)

// StatusSweeper re-derives election statuses from their date windows so that
// statuses stay correct even when nobody is reading election lists.
type StatusSweeper struct {
	Elections ports.ElectionRepository
	Clock     ports.Clock
	BatchSize int
	Logger    *slog.Logger
}

func (j StatusSweeper) RunOnce(ctx context.Context) error {
	logger := application.ResolveLogger(j.Logger)
	now := time.Now().UTC()
	if j.Clock != nil {
		now = j.Clock.Now().UTC()
	}

	limit := j.BatchSize
	if limit <= 0 {
		limit = 100
	}

	transitions, err := j.Elections.SyncElectionStatuses(ctx, now, limit)
	if err != nil {
		logger.Error("election status sweep failed",
			"event", "election_status_sweep_failed",
			"module", "election-administration/election-service",
			"layer", "worker",
			"error", err.Error(),
		)
		return err
	}
	if len(transitions) > 0 {
		logger.Info("election status sweep completed",
			"event", "election_status_sweep_completed",
			"module", "election-administration/election-service",
			"layer", "worker",
			"transition_count", len(transitions),
		)
	}
	return nil
}
