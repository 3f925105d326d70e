package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/andeanmarket/catalog-service/internal/model"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) Create(ctx context.Context, run *model.SyncRun) error {
	query := `
        INSERT INTO sync_runs (
            id, type, status, categories_synced, products_synced, variations_synced,
            error_count, error_details, started_at, finished_at
        )
        VALUES (
            :id, :type, :status, :categories_synced, :products_synced, :variations_synced,
            :error_count, :error_details, :started_at, :finished_at
        )
    `
	_, err := r.DB.NamedExecContext(ctx, query, run)
	return err
}

// Finish writes the terminal state. The status guard keeps terminal rows
// immutable even if a run is finished twice by mistake.
func (r *PGRepository) Finish(ctx context.Context, run *model.SyncRun) error {
	query := `
        UPDATE sync_runs SET
            status = :status,
            categories_synced = :categories_synced,
            products_synced = :products_synced,
            variations_synced = :variations_synced,
            error_count = :error_count,
            error_details = :error_details,
            finished_at = :finished_at
        WHERE id = :id AND status = 'started'
    `
	_, err := r.DB.NamedExecContext(ctx, query, run)
	return err
}

func (r *PGRepository) GetByID(ctx context.Context, id string) (*model.SyncRun, error) {
	var run model.SyncRun
	err := r.DB.GetContext(ctx, &run, `SELECT * FROM sync_runs WHERE id = $1 LIMIT 1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &run, nil
}

func (r *PGRepository) ListRecent(ctx context.Context, limit int) ([]model.SyncRun, error) {
	var runs []model.SyncRun
	err := r.DB.SelectContext(ctx, &runs, `
        SELECT * FROM sync_runs ORDER BY started_at DESC LIMIT $1
    `, limit)
	return runs, err
}
