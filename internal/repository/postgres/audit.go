package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/plantaohub/oncall-api/internal/model"
)

func (r *auditRepository) Create(ctx context.Context, event *model.AuditEvent) error {
	const query = `
		INSERT INTO audit_events (
			id, actor_id, hospital_id, entity, entity_id, action,
			before, after, source_ip, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := r.GetDB().ExecContext(ctx, query,
		event.ID,
		event.ActorID,
		event.HospitalID,
		event.Entity,
		event.EntityID,
		event.Action,
		event.Before,
		event.After,
		event.SourceIP,
		event.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create audit event: %w", err)
	}
	return nil
}

func (r *auditRepository) Get(ctx context.Context, id uuid.UUID) (*model.AuditEvent, error) {
	const query = `SELECT * FROM audit_events WHERE id = $1`

	var event model.AuditEvent
	if err := r.GetDB().GetContext(ctx, &event, query, id); err != nil {
		return nil, mapError(err)
	}
	return &event, nil
}

func (r *auditRepository) List(ctx context.Context, filters *model.AuditFilters) ([]*model.AuditEvent, error) {
	query := `SELECT * FROM audit_events WHERE 1=1`
	var args []interface{}

	if filters != nil {
		if filters.Entity != nil {
			args = append(args, *filters.Entity)
			query += fmt.Sprintf(" AND entity = $%d", len(args))
		}
		if filters.Action != nil {
			args = append(args, *filters.Action)
			query += fmt.Sprintf(" AND action = $%d", len(args))
		}
		if filters.ActorID != nil {
			args = append(args, *filters.ActorID)
			query += fmt.Sprintf(" AND actor_id = $%d", len(args))
		}
		if filters.HospitalID != nil {
			args = append(args, *filters.HospitalID)
			query += fmt.Sprintf(" AND hospital_id = $%d", len(args))
		}
		if filters.Since != nil {
			args = append(args, *filters.Since)
			query += fmt.Sprintf(" AND created_at >= $%d", len(args))
		}
		if filters.Until != nil {
			args = append(args, *filters.Until)
			query += fmt.Sprintf(" AND created_at <= $%d", len(args))
		}
	}

	query += " ORDER BY created_at DESC"

	var events []*model.AuditEvent
	if err := r.GetDB().SelectContext(ctx, &events, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list audit events: %w", err)
	}
	return events, nil
}

func (r *auditRepository) DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	const query = `DELETE FROM audit_events WHERE created_at < $1`

	result, err := r.GetDB().ExecContext(ctx, query, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to delete old audit events: %w", err)
	}
	return result.RowsAffected()
}
