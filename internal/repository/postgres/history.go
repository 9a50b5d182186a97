package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/plantaohub/oncall-api/internal/model"
	"github.com/plantaohub/oncall-api/internal/repository"
)

const insertManagerHistoryQuery = `
	INSERT INTO manager_history (
		id, shift_id, acceptance_id, license, day, start_time, end_time,
		status, note, created_at, updated_at
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
`

const insertClinicianHistoryQuery = `
	INSERT INTO clinician_history (
		id, hospital_id, shift_id, acceptance_id, license, day, start_time,
		end_time, status, note, created_at, updated_at
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
`

// insertManagerHistory assigns an id and writes the row using the supplied
// executor so projection inserts can join the acceptance transaction.
func insertManagerHistory(ctx context.Context, q sqlx.ExtContext, base *BaseRepository, row *model.ManagerHistory, now time.Time) error {
	id, err := base.NextID(ctx, q, counterManagerHistory)
	if err != nil {
		return fmt.Errorf("failed to assign manager history id: %w", err)
	}
	row.ID = id
	row.CreatedAt = now
	row.UpdatedAt = now

	_, err = q.ExecContext(ctx, insertManagerHistoryQuery,
		row.ID,
		row.ShiftID,
		row.AcceptanceID,
		row.License,
		row.Day,
		row.StartTime,
		row.EndTime,
		row.Status,
		row.Note,
		row.CreatedAt,
		row.UpdatedAt,
	)
	return mapError(err)
}

func insertClinicianHistory(ctx context.Context, q sqlx.ExtContext, base *BaseRepository, row *model.ClinicianHistory, now time.Time) error {
	id, err := base.NextID(ctx, q, counterClinicianHistory)
	if err != nil {
		return fmt.Errorf("failed to assign clinician history id: %w", err)
	}
	row.ID = id
	row.CreatedAt = now
	row.UpdatedAt = now

	_, err = q.ExecContext(ctx, insertClinicianHistoryQuery,
		row.ID,
		row.HospitalID,
		row.ShiftID,
		row.AcceptanceID,
		row.License,
		row.Day,
		row.StartTime,
		row.EndTime,
		row.Status,
		row.Note,
		row.CreatedAt,
		row.UpdatedAt,
	)
	return mapError(err)
}

func (r *managerHistoryRepository) Create(ctx context.Context, row *model.ManagerHistory) error {
	return r.WithTx(ctx, func(tx *sqlx.Tx) error {
		return insertManagerHistory(ctx, tx, &r.BaseRepository, row, time.Now())
	})
}

func (r *managerHistoryRepository) Get(ctx context.Context, id int64) (*model.ManagerHistory, error) {
	const query = `SELECT * FROM manager_history WHERE id = $1`

	var row model.ManagerHistory
	if err := r.GetDB().GetContext(ctx, &row, query, id); err != nil {
		return nil, mapError(err)
	}
	return &row, nil
}

func (r *managerHistoryRepository) List(ctx context.Context, filters *model.HistoryFilters) ([]*model.ManagerHistory, error) {
	query := `SELECT * FROM manager_history WHERE 1=1`
	var args []interface{}
	query, args = appendHistoryFilters(query, args, filters)
	query += " ORDER BY created_at DESC"

	var rows []*model.ManagerHistory
	if err := r.GetDB().SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list manager history: %w", err)
	}
	return rows, nil
}

func (r *managerHistoryRepository) Update(ctx context.Context, row *model.ManagerHistory) error {
	const query = `
		UPDATE manager_history
		SET status = $1, note = $2, updated_at = $3
		WHERE id = $4
	`
	row.UpdatedAt = time.Now()

	result, err := r.GetDB().ExecContext(ctx, query, row.Status, row.Note, row.UpdatedAt, row.ID)
	if err != nil {
		return mapError(err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *clinicianHistoryRepository) Create(ctx context.Context, row *model.ClinicianHistory) error {
	return r.WithTx(ctx, func(tx *sqlx.Tx) error {
		return insertClinicianHistory(ctx, tx, &r.BaseRepository, row, time.Now())
	})
}

func (r *clinicianHistoryRepository) Get(ctx context.Context, id int64) (*model.ClinicianHistory, error) {
	const query = `SELECT * FROM clinician_history WHERE id = $1`

	var row model.ClinicianHistory
	if err := r.GetDB().GetContext(ctx, &row, query, id); err != nil {
		return nil, mapError(err)
	}
	return &row, nil
}

func (r *clinicianHistoryRepository) List(ctx context.Context, filters *model.HistoryFilters) ([]*model.ClinicianHistory, error) {
	query := `SELECT * FROM clinician_history WHERE 1=1`
	var args []interface{}
	query, args = appendHistoryFilters(query, args, filters)
	query += " ORDER BY created_at DESC"

	var rows []*model.ClinicianHistory
	if err := r.GetDB().SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list clinician history: %w", err)
	}
	return rows, nil
}

func (r *clinicianHistoryRepository) ListByLicense(ctx context.Context, license string) ([]*model.ClinicianHistory, error) {
	const query = `SELECT * FROM clinician_history WHERE license = $1 ORDER BY created_at DESC`

	var rows []*model.ClinicianHistory
	if err := r.GetDB().SelectContext(ctx, &rows, query, license); err != nil {
		return nil, fmt.Errorf("failed to list clinician history by license: %w", err)
	}
	return rows, nil
}

func (r *clinicianHistoryRepository) Update(ctx context.Context, row *model.ClinicianHistory) error {
	const query = `
		UPDATE clinician_history
		SET status = $1, note = $2, updated_at = $3
		WHERE id = $4
	`
	row.UpdatedAt = time.Now()

	result, err := r.GetDB().ExecContext(ctx, query, row.Status, row.Note, row.UpdatedAt, row.ID)
	if err != nil {
		return mapError(err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func appendHistoryFilters(query string, args []interface{}, filters *model.HistoryFilters) (string, []interface{}) {
	if filters == nil {
		return query, args
	}
	if filters.License != nil {
		args = append(args, *filters.License)
		query += fmt.Sprintf(" AND license = $%d", len(args))
	}
	if filters.ShiftID != nil {
		args = append(args, *filters.ShiftID)
		query += fmt.Sprintf(" AND shift_id = $%d", len(args))
	}
	if filters.AcceptanceID != nil {
		args = append(args, *filters.AcceptanceID)
		query += fmt.Sprintf(" AND acceptance_id = $%d", len(args))
	}
	return query, args
}
