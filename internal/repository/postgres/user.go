package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/plantaohub/oncall-api/internal/model"
	"github.com/plantaohub/oncall-api/internal/repository"
)

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	const query = `
		INSERT INTO users (
			id, hospital_id, name, email, password_hash, role, phone, active,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	return r.WithTx(ctx, func(tx *sqlx.Tx) error {
		id, err := r.NextID(ctx, tx, counterUser)
		if err != nil {
			return fmt.Errorf("failed to assign user id: %w", err)
		}
		user.ID = id
		user.CreatedAt = time.Now()
		user.UpdatedAt = user.CreatedAt

		_, err = tx.ExecContext(ctx, query,
			user.ID,
			user.HospitalID,
			user.Name,
			user.Email,
			user.PasswordHash,
			user.Role,
			user.Phone,
			user.Active,
			user.CreatedAt,
			user.UpdatedAt,
		)
		return mapError(err)
	})
}

func (r *userRepository) Get(ctx context.Context, id int64) (*model.User, error) {
	const query = `SELECT * FROM users WHERE id = $1`

	var user model.User
	if err := r.GetDB().GetContext(ctx, &user, query, id); err != nil {
		return nil, mapError(err)
	}
	return &user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	const query = `SELECT * FROM users WHERE email = $1`

	var user model.User
	if err := r.GetDB().GetContext(ctx, &user, query, email); err != nil {
		return nil, mapError(err)
	}
	return &user, nil
}

func (r *userRepository) GetByRole(ctx context.Context, role model.Role) ([]*model.User, error) {
	const query = `SELECT * FROM users WHERE role = $1 ORDER BY id ASC`

	var users []*model.User
	if err := r.GetDB().SelectContext(ctx, &users, query, role); err != nil {
		return nil, fmt.Errorf("failed to list users by role: %w", err)
	}
	return users, nil
}

func (r *userRepository) List(ctx context.Context) ([]*model.User, error) {
	const query = `SELECT * FROM users ORDER BY created_at DESC`

	var users []*model.User
	if err := r.GetDB().SelectContext(ctx, &users, query); err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

func (r *userRepository) Update(ctx context.Context, user *model.User) error {
	const query = `
		UPDATE users
		SET hospital_id = $1, name = $2, email = $3, password_hash = $4,
			role = $5, phone = $6, active = $7, updated_at = $8
		WHERE id = $9
	`
	user.UpdatedAt = time.Now()

	result, err := r.GetDB().ExecContext(ctx, query,
		user.HospitalID,
		user.Name,
		user.Email,
		user.PasswordHash,
		user.Role,
		user.Phone,
		user.Active,
		user.UpdatedAt,
		user.ID,
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

func (r *userRepository) Delete(ctx context.Context, id int64) error {
	const query = `DELETE FROM users WHERE id = $1`

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
