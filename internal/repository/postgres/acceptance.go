package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/plantaohub/oncall-api/internal/model"
	"github.com/plantaohub/oncall-api/internal/repository"
)

const insertAcceptance = `
	INSERT INTO acceptances (
		id, shift_id, clinician_id, license, day, start_time, end_time,
		status, rejection_reason, created_at, updated_at
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
`

const activeAcceptanceExists = `
	SELECT EXISTS (
		SELECT 1 FROM acceptances
		WHERE shift_id = $1 AND status IN ('PENDING', 'APPROVED')
	)
`

// CreateWithProjections applies the acceptance insert, both history
// projections and the outbox event in one transaction. The at-most-one-active
// check runs inside the same transaction so two clinicians racing for a shift
// cannot both get through.
func (r *acceptanceRepository) CreateWithProjections(ctx context.Context,
	acceptance *model.Acceptance, managerRow *model.ManagerHistory,
	clinicianRow *model.ClinicianHistory, event *model.OutboxEvent) error {

	return r.WithTx(ctx, func(tx *sqlx.Tx) error {
		var active bool
		if err := sqlx.GetContext(ctx, tx, &active, activeAcceptanceExists, acceptance.ShiftID); err != nil {
			return fmt.Errorf("failed to check active acceptances: %w", err)
		}
		if active {
			return repository.ErrActiveAcceptance
		}

		now := time.Now()

		id, err := r.NextID(ctx, tx, counterAcceptance)
		if err != nil {
			return fmt.Errorf("failed to assign acceptance id: %w", err)
		}
		acceptance.ID = id
		acceptance.CreatedAt = now
		acceptance.UpdatedAt = now

		if _, err := tx.ExecContext(ctx, insertAcceptance,
			acceptance.ID,
			acceptance.ShiftID,
			acceptance.ClinicianID,
			acceptance.License,
			acceptance.Day,
			acceptance.StartTime,
			acceptance.EndTime,
			acceptance.Status,
			acceptance.RejectionReason,
			acceptance.CreatedAt,
			acceptance.UpdatedAt,
		); err != nil {
			return mapError(err)
		}

		managerRow.AcceptanceID = acceptance.ID
		clinicianRow.AcceptanceID = acceptance.ID

		if err := insertManagerHistory(ctx, tx, &r.BaseRepository, managerRow, now); err != nil {
			return err
		}
		if err := insertClinicianHistory(ctx, tx, &r.BaseRepository, clinicianRow, now); err != nil {
			return err
		}

		if event != nil {
			if err := insertOutboxEvent(ctx, tx, event, now); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *acceptanceRepository) Get(ctx context.Context, id int64) (*model.Acceptance, error) {
	const query = `SELECT * FROM acceptances WHERE id = $1`

	var acceptance model.Acceptance
	if err := r.GetDB().GetContext(ctx, &acceptance, query, id); err != nil {
		return nil, mapError(err)
	}
	return &acceptance, nil
}

func (r *acceptanceRepository) List(ctx context.Context, filters *model.AcceptanceFilters) ([]*model.Acceptance, error) {
	query := `SELECT * FROM acceptances WHERE 1=1`
	var args []interface{}

	if filters != nil {
		if filters.ClinicianID != nil {
			args = append(args, *filters.ClinicianID)
			query += fmt.Sprintf(" AND clinician_id = $%d", len(args))
		}
		if filters.ShiftID != nil {
			args = append(args, *filters.ShiftID)
			query += fmt.Sprintf(" AND shift_id = $%d", len(args))
		}
		if filters.Status != nil {
			args = append(args, *filters.Status)
			query += fmt.Sprintf(" AND status = $%d", len(args))
		}
	}

	query += " ORDER BY created_at DESC"

	var acceptances []*model.Acceptance
	if err := r.GetDB().SelectContext(ctx, &acceptances, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list acceptances: %w", err)
	}
	return acceptances, nil
}

func (r *acceptanceRepository) Update(ctx context.Context, acceptance *model.Acceptance) error {
	const query = `
		UPDATE acceptances
		SET status = $1, rejection_reason = $2, updated_at = $3
		WHERE id = $4
	`
	acceptance.UpdatedAt = time.Now()

	result, err := r.GetDB().ExecContext(ctx, query,
		acceptance.Status,
		acceptance.RejectionReason,
		acceptance.UpdatedAt,
		acceptance.ID,
	)
	if err != nil {
		return mapError(err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *acceptanceRepository) Delete(ctx context.Context, id int64) error {
	const query = `DELETE FROM acceptances WHERE id = $1`

	result, err := r.GetDB().ExecContext(ctx, query, id)
	if err != nil {
		return mapError(err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *acceptanceRepository) HasActive(ctx context.Context, shiftID int64) (bool, error) {
	var active bool
	if err := r.GetDB().GetContext(ctx, &active, activeAcceptanceExists, shiftID); err != nil {
		return false, fmt.Errorf("failed to check active acceptances: %w", err)
	}
	return active, nil
}
