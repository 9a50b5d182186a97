package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/plantaohub/oncall-api/internal/model"
	"github.com/plantaohub/oncall-api/internal/repository"
)

func (r *shiftRepository) Create(ctx context.Context, shift *model.Shift) error {
	const query = `
		INSERT INTO shifts (
			id, hospital_id, manager_id, title, description, day,
			start_time, end_time, required_role, type, value, status,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`
	return r.WithTx(ctx, func(tx *sqlx.Tx) error {
		id, err := r.NextID(ctx, tx, counterShift)
		if err != nil {
			return fmt.Errorf("failed to assign shift id: %w", err)
		}
		shift.ID = id
		shift.CreatedAt = time.Now()
		shift.UpdatedAt = shift.CreatedAt

		_, err = tx.ExecContext(ctx, query,
			shift.ID,
			shift.HospitalID,
			shift.ManagerID,
			shift.Title,
			shift.Description,
			shift.Day,
			shift.StartTime,
			shift.EndTime,
			shift.RequiredRole,
			shift.Type,
			shift.Value,
			shift.Status,
			shift.CreatedAt,
			shift.UpdatedAt,
		)
		return mapError(err)
	})
}

func (r *shiftRepository) Get(ctx context.Context, id int64) (*model.Shift, error) {
	const query = `SELECT * FROM shifts WHERE id = $1`

	var shift model.Shift
	if err := r.GetDB().GetContext(ctx, &shift, query, id); err != nil {
		return nil, mapError(err)
	}
	return &shift, nil
}

func (r *shiftRepository) List(ctx context.Context, filters *model.ShiftFilters) ([]*model.Shift, error) {
	query := `SELECT * FROM shifts WHERE 1=1`
	var args []interface{}

	if filters != nil {
		if filters.HospitalID != nil {
			args = append(args, *filters.HospitalID)
			query += fmt.Sprintf(" AND hospital_id = $%d", len(args))
		}
		if filters.ManagerID != nil {
			args = append(args, *filters.ManagerID)
			query += fmt.Sprintf(" AND manager_id = $%d", len(args))
		}
		if filters.Status != nil {
			args = append(args, *filters.Status)
			query += fmt.Sprintf(" AND status = $%d", len(args))
		}
	}

	query += " ORDER BY created_at DESC"

	var shifts []*model.Shift
	if err := r.GetDB().SelectContext(ctx, &shifts, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list shifts: %w", err)
	}
	return shifts, nil
}

func (r *shiftRepository) Update(ctx context.Context, shift *model.Shift) error {
	const query = `
		UPDATE shifts
		SET hospital_id = $1, title = $2, description = $3, day = $4,
			start_time = $5, end_time = $6, required_role = $7, type = $8,
			value = $9, status = $10, updated_at = $11
		WHERE id = $12
	`
	shift.UpdatedAt = time.Now()

	result, err := r.GetDB().ExecContext(ctx, query,
		shift.HospitalID,
		shift.Title,
		shift.Description,
		shift.Day,
		shift.StartTime,
		shift.EndTime,
		shift.RequiredRole,
		shift.Type,
		shift.Value,
		shift.Status,
		shift.UpdatedAt,
		shift.ID,
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

func (r *shiftRepository) Delete(ctx context.Context, id int64) error {
	const query = `DELETE FROM shifts WHERE id = $1`

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
