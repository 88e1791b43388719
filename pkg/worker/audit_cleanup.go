package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/odontoapp/clinic-api/internal/repository"
)

// AuditCleanupWorker prunes audit log entries past the retention window.
type AuditCleanupWorker struct {
	repo          repository.AuditRepository
	retentionDays int
	interval      time.Duration
	logger        *zerolog.Logger
}

func NewAuditCleanupWorker(repo repository.AuditRepository, retentionDays int, interval time.Duration, logger *zerolog.Logger) *AuditCleanupWorker {
	return &AuditCleanupWorker{
		repo:          repo,
		retentionDays: retentionDays,
		interval:      interval,
		logger:        logger,
	}
}

func (w *AuditCleanupWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			cutoff := time.Now().AddDate(0, 0, -w.retentionDays)
			deleted, err := w.repo.DeleteBefore(ctx, cutoff)
			if err != nil {
				w.logger.Error().Err(err).Msg("audit cleanup failed")
				continue
			}
			if deleted > 0 {
				w.logger.Info().Int64("deleted", deleted).Time("cutoff", cutoff).Msg("audit logs pruned")
			}
		}
	}
}
