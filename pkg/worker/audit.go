package worker

import (
	"context"
	"time"

	"github.com/plantaohub/oncall-api/internal/repository"
	"github.com/plantaohub/oncall-api/pkg/logger"
)

const defaultSweepInterval = 24 * time.Hour

// AuditRetention deletes audit events older than the configured retention
// window. Disabled when retention is zero.
type AuditRetention struct {
	repo      repository.AuditRepository
	logger    *logger.Logger
	retention time.Duration
	interval  time.Duration
}

func NewAuditRetention(repo repository.AuditRepository, log *logger.Logger,
	retention, interval time.Duration) *AuditRetention {
	if interval <= 0 {
		interval = defaultSweepInterval
	}
	return &AuditRetention{
		repo:      repo,
		logger:    log,
		retention: retention,
		interval:  interval,
	}
}

// Start runs the sweep loop until ctx is cancelled.
func (r *AuditRetention) Start(ctx context.Context) {
	if r.retention <= 0 {
		r.logger.Info("audit retention disabled")
		return
	}

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.logger.Info("audit retention started", "retention", r.retention.String())
	for {
		select {
		case <-ctx.Done():
			r.logger.Info("audit retention stopped")
			return
		case <-ticker.C:
			r.sweep(ctx)
		}
	}
}

func (r *AuditRetention) sweep(ctx context.Context) {
	cutoff := time.Now().Add(-r.retention)
	removed, err := r.repo.DeleteBefore(ctx, cutoff)
	if err != nil {
		r.logger.Error(err, "audit retention sweep failed")
		return
	}
	if removed > 0 {
		r.logger.Info("audit retention sweep completed", "removed", removed)
	}
}
