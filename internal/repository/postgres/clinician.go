package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/plantaohub/oncall-api/internal/model"
	"github.com/plantaohub/oncall-api/internal/repository"
)

func (r *clinicianRepository) Create(ctx context.Context, clinician *model.Clinician) error {
	const query = `
		INSERT INTO clinicians (
			id, license, name, email, password_hash, specialty, active,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	return r.WithTx(ctx, func(tx *sqlx.Tx) error {
		id, err := r.NextID(ctx, tx, counterClinician)
		if err != nil {
			return fmt.Errorf("failed to assign clinician id: %w", err)
		}
		clinician.ID = id
		clinician.CreatedAt = time.Now()
		clinician.UpdatedAt = clinician.CreatedAt

		_, err = tx.ExecContext(ctx, query,
			clinician.ID,
			clinician.License,
			clinician.Name,
			clinician.Email,
			clinician.PasswordHash,
			clinician.Specialty,
			clinician.Active,
			clinician.CreatedAt,
			clinician.UpdatedAt,
		)
		return mapError(err)
	})
}

func (r *clinicianRepository) Get(ctx context.Context, id int64) (*model.Clinician, error) {
	const query = `SELECT * FROM clinicians WHERE id = $1`

	var clinician model.Clinician
	if err := r.GetDB().GetContext(ctx, &clinician, query, id); err != nil {
		return nil, mapError(err)
	}
	return &clinician, nil
}

func (r *clinicianRepository) GetByLicense(ctx context.Context, license string) (*model.Clinician, error) {
	const query = `SELECT * FROM clinicians WHERE license = $1`

	var clinician model.Clinician
	if err := r.GetDB().GetContext(ctx, &clinician, query, license); err != nil {
		return nil, mapError(err)
	}
	return &clinician, nil
}

func (r *clinicianRepository) GetByEmail(ctx context.Context, email string) (*model.Clinician, error) {
	const query = `SELECT * FROM clinicians WHERE email = $1`

	var clinician model.Clinician
	if err := r.GetDB().GetContext(ctx, &clinician, query, email); err != nil {
		return nil, mapError(err)
	}
	return &clinician, nil
}

func (r *clinicianRepository) List(ctx context.Context) ([]*model.Clinician, error) {
	const query = `SELECT * FROM clinicians ORDER BY created_at DESC`

	var clinicians []*model.Clinician
	if err := r.GetDB().SelectContext(ctx, &clinicians, query); err != nil {
		return nil, fmt.Errorf("failed to list clinicians: %w", err)
	}
	return clinicians, nil
}

func (r *clinicianRepository) Update(ctx context.Context, clinician *model.Clinician) error {
	const query = `
		UPDATE clinicians
		SET license = $1, name = $2, email = $3, password_hash = $4,
			specialty = $5, active = $6, updated_at = $7
		WHERE id = $8
	`
	clinician.UpdatedAt = time.Now()

	result, err := r.GetDB().ExecContext(ctx, query,
		clinician.License,
		clinician.Name,
		clinician.Email,
		clinician.PasswordHash,
		clinician.Specialty,
		clinician.Active,
		clinician.UpdatedAt,
		clinician.ID,
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

func (r *clinicianRepository) Delete(ctx context.Context, id int64) error {
	const query = `DELETE FROM clinicians WHERE id = $1`

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
