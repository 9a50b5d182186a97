package memory

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/plantaohub/oncall-api/internal/model"
	"github.com/plantaohub/oncall-api/internal/repository"
)

type auditRepository struct{ s *Store }

func NewAuditRepository(s *Store) repository.AuditRepository {
	return &auditRepository{s: s}
}

func (r *auditRepository) Create(ctx context.Context, event *model.AuditEvent) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	stored := *event
	r.s.auditEvents[event.ID] = &stored
	return nil
}

func (r *auditRepository) Get(ctx context.Context, id uuid.UUID) (*model.AuditEvent, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	event, ok := r.s.auditEvents[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := *event
	return &out, nil
}

func (r *auditRepository) List(ctx context.Context, filters *model.AuditFilters) ([]*model.AuditEvent, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var out []*model.AuditEvent
	for _, event := range r.s.auditEvents {
		if filters != nil {
			if filters.Entity != nil && event.Entity != *filters.Entity {
				continue
			}
			if filters.Action != nil && event.Action != *filters.Action {
				continue
			}
			if filters.ActorID != nil && (event.ActorID == nil || *event.ActorID != *filters.ActorID) {
				continue
			}
			if filters.HospitalID != nil && (event.HospitalID == nil || *event.HospitalID != *filters.HospitalID) {
				continue
			}
			if filters.Since != nil && event.CreatedAt.Before(*filters.Since) {
				continue
			}
			if filters.Until != nil && event.CreatedAt.After(*filters.Until) {
				continue
			}
		}
		copied := *event
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *auditRepository) DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var removed int64
	for id, event := range r.s.auditEvents {
		if event.CreatedAt.Before(cutoff) {
			delete(r.s.auditEvents, id)
			removed++
		}
	}
	return removed, nil
}

type outboxRepository struct{ s *Store }

func NewOutboxRepository(s *Store) repository.OutboxRepository {
	return &outboxRepository{s: s}
}

func (r *outboxRepository) Create(ctx context.Context, event *model.OutboxEvent) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	if event.Status == "" {
		event.Status = model.OutboxStatusPending
	}
	event.CreatedAt = time.Now()
	event.UpdatedAt = event.CreatedAt

	stored := *event
	r.s.outboxEvents[event.ID] = &stored
	return nil
}

func (r *outboxRepository) GetPendingEvents(ctx context.Context, limit int) ([]*model.OutboxEvent, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var out []*model.OutboxEvent
	for _, event := range r.s.outboxEvents {
		if event.Status != model.OutboxStatusPending {
			continue
		}
		copied := *event
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *outboxRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status model.OutboxStatus, errMsg *string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	event, ok := r.s.outboxEvents[id]
	if !ok {
		return repository.ErrNotFound
	}
	event.Status = status
	event.ErrorMessage = errMsg
	now := time.Now()
	event.ProcessedAt = &now
	event.UpdatedAt = now
	if errMsg != nil {
		event.RetryCount++
	}
	return nil
}
