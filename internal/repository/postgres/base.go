package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/plantaohub/oncall-api/internal/repository"
)

// BaseRepository provides common functionality for all repositories
type BaseRepository struct {
	db *sqlx.DB
}

// NewBaseRepository creates a new base repository
func NewBaseRepository(db *sqlx.DB) BaseRepository {
	return BaseRepository{db: db}
}

// GetDB returns the database instance
func (r *BaseRepository) GetDB() *sqlx.DB {
	return r.db
}

// WithTx executes a function within a transaction
func (r *BaseRepository) WithTx(ctx context.Context, fn func(*sqlx.Tx) error) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit()
}

// NextID atomically assigns the next sequential id for the given entity from
// the entity_counters table. The upsert-returning form is a single statement,
// so concurrent writers cannot observe the same value; counters are durable
// and never reused after deletes.
func (r *BaseRepository) NextID(ctx context.Context, q sqlx.ExtContext, entity string) (int64, error) {
	const query = `
		INSERT INTO entity_counters (entity, value)
		VALUES ($1, 1)
		ON CONFLICT (entity) DO UPDATE SET value = entity_counters.value + 1
		RETURNING value
	`
	var id int64
	if err := sqlx.GetContext(ctx, q, &id, query, entity); err != nil {
		return 0, err
	}
	return id, nil
}

// mapError translates driver-level failures into repository sentinels.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return repository.ErrNotFound
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return repository.ErrDuplicate
	}
	return err
}
