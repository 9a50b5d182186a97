// Package worker hosts the background loops: outbox publication and audit
// retention.
package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/plantaohub/oncall-api/internal/model"
	"github.com/plantaohub/oncall-api/internal/repository"
	"github.com/plantaohub/oncall-api/pkg/logger"
	"github.com/plantaohub/oncall-api/pkg/messaging"
	"github.com/plantaohub/oncall-api/pkg/metrics"
)

const (
	defaultPollInterval = 5 * time.Second
	defaultBatchSize    = 100
	maxRetries          = 5
)

// OutboxProcessor polls pending outbox events and publishes them to the
// message broker. Events that keep failing stay FAILED after maxRetries and
// are left for manual inspection.
type OutboxProcessor struct {
	repo     repository.OutboxRepository
	broker   messaging.Broker
	logger   *logger.Logger
	metrics  *metrics.Metrics
	interval time.Duration
	batch    int
}

func NewOutboxProcessor(repo repository.OutboxRepository, broker messaging.Broker,
	log *logger.Logger, m *metrics.Metrics, interval time.Duration, batchSize int) *OutboxProcessor {
	if interval <= 0 {
		interval = defaultPollInterval
	}
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}
	return &OutboxProcessor{
		repo:     repo,
		broker:   broker,
		logger:   log,
		metrics:  m,
		interval: interval,
		batch:    batchSize,
	}
}

// Start runs the polling loop until ctx is cancelled.
func (p *OutboxProcessor) Start(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.logger.Info("outbox processor started", "interval", p.interval.String())
	for {
		select {
		case <-ctx.Done():
			p.logger.Info("outbox processor stopped")
			return
		case <-ticker.C:
			if err := p.processBatch(ctx); err != nil {
				p.logger.Error(err, "outbox batch failed")
			}
		}
	}
}

func (p *OutboxProcessor) processBatch(ctx context.Context) error {
	events, err := p.repo.GetPendingEvents(ctx, p.batch)
	if err != nil {
		return err
	}

	for _, event := range events {
		start := time.Now()
		err := p.publish(ctx, event)
		p.metrics.OutboxProcessingLatency.Observe(time.Since(start).Seconds())

		if err != nil {
			p.metrics.OutboxEventsFailed.Inc()
			p.logger.Error(err, "failed to publish outbox event",
				"event_id", event.ID.String(), "event_type", event.EventType, "retry_count", event.RetryCount)

			msg := err.Error()
			status := model.OutboxStatusFailed
			if event.RetryCount+1 < maxRetries {
				status = model.OutboxStatusPending
			}
			if uerr := p.repo.UpdateStatus(ctx, event.ID, status, &msg); uerr != nil {
				p.logger.Error(uerr, "failed to mark outbox event failed", "event_id", event.ID.String())
			}
			continue
		}

		p.metrics.OutboxEventsProcessed.Inc()
		if uerr := p.repo.UpdateStatus(ctx, event.ID, model.OutboxStatusProcessed, nil); uerr != nil {
			p.logger.Error(uerr, "failed to mark outbox event processed", "event_id", event.ID.String())
		}
	}
	return nil
}

func (p *OutboxProcessor) publish(ctx context.Context, event *model.OutboxEvent) error {
	msg := messaging.Message{
		Type:    event.EventType,
		Payload: json.RawMessage(event.Payload),
	}
	return p.broker.Publish(ctx, messaging.Channel(event.EventType), msg)
}
