// Package audit implements the audit recorder: every mutating business
// operation emits an audit intent, and a consumer goroutine persists it.
// Recording is best-effort by design; a full queue or a failed write is
// logged and counted but never propagated to the caller, so the primary
// operation can never fail or roll back because of its audit trail.
package audit

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/plantaohub/oncall-api/internal/model"
	"github.com/plantaohub/oncall-api/internal/repository"
	apperrors "github.com/plantaohub/oncall-api/pkg/errors"
	"github.com/plantaohub/oncall-api/pkg/logger"
	"github.com/plantaohub/oncall-api/pkg/metrics"
)

const defaultQueueSize = 256

// Entry is an audit intent emitted by a business operation.
type Entry struct {
	Actor    *model.Actor
	Entity   string
	EntityID string
	Action   model.AuditAction
	Before   interface{}
	After    interface{}
}

// Recorder is the inbound contract the business services depend on.
type Recorder interface {
	Record(ctx context.Context, entry Entry)
}

type Service struct {
	repo    repository.AuditRepository
	logger  *logger.Logger
	metrics *metrics.Metrics

	queue     chan *model.AuditEvent
	done      chan struct{}
	closeOnce sync.Once

	// writeTimeout bounds each persistence attempt; the request context may
	// already be gone by the time the consumer picks the event up.
	writeTimeout time.Duration
}

func NewService(repo repository.AuditRepository, log *logger.Logger, m *metrics.Metrics, queueSize int) *Service {
	if queueSize <= 0 {
		queueSize = defaultQueueSize
	}
	s := &Service{
		repo:         repo,
		logger:       log,
		metrics:      m,
		queue:        make(chan *model.AuditEvent, queueSize),
		done:         make(chan struct{}),
		writeTimeout: 5 * time.Second,
	}
	go s.consume()
	return s
}

// Record enqueues one audit event. Non-blocking: when the queue is full the
// event is dropped and counted, never the caller stalled.
func (s *Service) Record(ctx context.Context, entry Entry) {
	event := &model.AuditEvent{
		ID:        uuid.New(),
		Entity:    entry.Entity,
		EntityID:  entry.EntityID,
		Action:    entry.Action,
		Before:    sanitizeSnapshot(entry.Before),
		After:     sanitizeSnapshot(entry.After),
		CreatedAt: time.Now(),
	}
	if entry.Actor != nil {
		actorID := entry.Actor.ID
		event.ActorID = &actorID
		event.HospitalID = entry.Actor.HospitalID
		event.SourceIP = entry.Actor.SourceIP
	}

	select {
	case s.queue <- event:
		s.metrics.AuditQueueSize.Inc()
	default:
		s.metrics.AuditEventsDropped.Inc()
		s.logger.Warn("audit queue full, event dropped",
			"entity", entry.Entity, "entity_id", entry.EntityID, "action", string(entry.Action))
	}
}

func (s *Service) consume() {
	defer close(s.done)

	for event := range s.queue {
		s.metrics.AuditQueueSize.Dec()

		ctx, cancel := context.WithTimeout(context.Background(), s.writeTimeout)
		err := s.repo.Create(ctx, event)
		cancel()

		if err != nil {
			s.metrics.AuditWriteFailures.Inc()
			s.logger.Error(err, "failed to persist audit event",
				"entity", event.Entity, "entity_id", event.EntityID, "action", string(event.Action))
			continue
		}
		s.metrics.AuditEventsRecorded.Inc()
	}
}

// Close stops accepting events and blocks until the queue drains.
func (s *Service) Close() {
	s.closeOnce.Do(func() {
		close(s.queue)
	})
	<-s.done
}

// Get returns a single audit event. Restricted to system admins.
func (s *Service) Get(ctx context.Context, actor *model.Actor, id uuid.UUID) (*model.AuditEvent, error) {
	if !actor.IsSystemAdmin() {
		return nil, apperrors.Forbidden("only system admins may read the audit trail")
	}

	event, err := s.repo.Get(ctx, id)
	if err != nil {
		if err == repository.ErrNotFound {
			return nil, apperrors.NotFound("audit event", err)
		}
		return nil, apperrors.Internal(err)
	}
	return event, nil
}

// List returns audit events matching the filters. Restricted to system admins.
func (s *Service) List(ctx context.Context, actor *model.Actor, filters *model.AuditFilters) ([]*model.AuditEvent, error) {
	if !actor.IsSystemAdmin() {
		return nil, apperrors.Forbidden("only system admins may read the audit trail")
	}

	events, err := s.repo.List(ctx, filters)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return events, nil
}
