package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/plantaohub/oncall-api/internal/model"
	"github.com/plantaohub/oncall-api/internal/repository"
)

func (r *hospitalRepository) Create(ctx context.Context, hospital *model.Hospital) error {
	const query = `
		INSERT INTO hospitals (
			id, name, tax_id, address, email, subdomain, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	return r.WithTx(ctx, func(tx *sqlx.Tx) error {
		id, err := r.NextID(ctx, tx, counterHospital)
		if err != nil {
			return fmt.Errorf("failed to assign hospital id: %w", err)
		}
		hospital.ID = id
		hospital.CreatedAt = time.Now()
		hospital.UpdatedAt = hospital.CreatedAt

		_, err = tx.ExecContext(ctx, query,
			hospital.ID,
			hospital.Name,
			hospital.TaxID,
			hospital.Address,
			hospital.Email,
			hospital.Subdomain,
			hospital.CreatedAt,
			hospital.UpdatedAt,
		)
		return mapError(err)
	})
}

func (r *hospitalRepository) Get(ctx context.Context, id int64) (*model.Hospital, error) {
	const query = `SELECT * FROM hospitals WHERE id = $1`

	var hospital model.Hospital
	if err := r.GetDB().GetContext(ctx, &hospital, query, id); err != nil {
		return nil, mapError(err)
	}
	return &hospital, nil
}

func (r *hospitalRepository) GetByEmail(ctx context.Context, email string) (*model.Hospital, error) {
	const query = `SELECT * FROM hospitals WHERE email = $1`

	var hospital model.Hospital
	if err := r.GetDB().GetContext(ctx, &hospital, query, email); err != nil {
		return nil, mapError(err)
	}
	return &hospital, nil
}

func (r *hospitalRepository) GetByTaxID(ctx context.Context, taxID string) (*model.Hospital, error) {
	const query = `SELECT * FROM hospitals WHERE tax_id = $1`

	var hospital model.Hospital
	if err := r.GetDB().GetContext(ctx, &hospital, query, taxID); err != nil {
		return nil, mapError(err)
	}
	return &hospital, nil
}

func (r *hospitalRepository) List(ctx context.Context) ([]*model.Hospital, error) {
	const query = `SELECT * FROM hospitals ORDER BY created_at DESC`

	var hospitals []*model.Hospital
	if err := r.GetDB().SelectContext(ctx, &hospitals, query); err != nil {
		return nil, fmt.Errorf("failed to list hospitals: %w", err)
	}
	return hospitals, nil
}

func (r *hospitalRepository) Update(ctx context.Context, hospital *model.Hospital) error {
	const query = `
		UPDATE hospitals
		SET name = $1, tax_id = $2, address = $3, email = $4, subdomain = $5, updated_at = $6
		WHERE id = $7
	`
	hospital.UpdatedAt = time.Now()

	result, err := r.GetDB().ExecContext(ctx, query,
		hospital.Name,
		hospital.TaxID,
		hospital.Address,
		hospital.Email,
		hospital.Subdomain,
		hospital.UpdatedAt,
		hospital.ID,
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

func (r *hospitalRepository) Delete(ctx context.Context, id int64) error {
	const query = `DELETE FROM hospitals WHERE id = $1`

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
