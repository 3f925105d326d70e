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

func (r *PGRepository) GetMarginsByCategoryIDs(ctx context.Context, categoryIDs []string) (map[string]model.CategoryMargin, error) {
	if len(categoryIDs) == 0 {
		return map[string]model.CategoryMargin{}, nil
	}

	query, args, err := sqlx.In(`SELECT * FROM category_margins WHERE category_id IN (?)`, categoryIDs)
	if err != nil {
		return nil, err
	}

	var margins []model.CategoryMargin
	if err := r.DB.SelectContext(ctx, &margins, r.DB.Rebind(query), args...); err != nil {
		return nil, err
	}

	byCategory := make(map[string]model.CategoryMargin, len(margins))
	for _, m := range margins {
		byCategory[m.CategoryID] = m
	}
	return byCategory, nil
}

func (r *PGRepository) GetActiveDefaultMargin(ctx context.Context) (*model.DefaultMargin, error) {
	var margin model.DefaultMargin
	err := r.DB.GetContext(ctx, &margin, `
        SELECT * FROM default_margins WHERE is_active ORDER BY updated_at DESC LIMIT 1
    `)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &margin, nil
}

func (r *PGRepository) UpsertCategoryMargin(ctx context.Context, m *model.CategoryMargin) error {
	query := `
        INSERT INTO category_margins (
            id, category_id, percentage, multiplier, use_multiplier, is_active, notes, created_at, updated_at
        )
        VALUES (:id, :category_id, :percentage, :multiplier, :use_multiplier, :is_active, :notes, :created_at, :updated_at)
        ON CONFLICT (category_id) DO UPDATE SET
            percentage = EXCLUDED.percentage,
            multiplier = EXCLUDED.multiplier,
            use_multiplier = EXCLUDED.use_multiplier,
            is_active = EXCLUDED.is_active,
            notes = EXCLUDED.notes,
            updated_at = EXCLUDED.updated_at
    `
	_, err := r.DB.NamedExecContext(ctx, query, m)
	return err
}

// SetDefaultMargin deactivates any previous default and inserts the new one,
// keeping the singleton-style "at most one active" shape.
func (r *PGRepository) SetDefaultMargin(ctx context.Context, m *model.DefaultMargin) error {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `UPDATE default_margins SET is_active = FALSE WHERE is_active`); err != nil {
		return err
	}

	query := `
        INSERT INTO default_margins (id, percentage, multiplier, use_multiplier, is_active, notes, created_at, updated_at)
        VALUES (:id, :percentage, :multiplier, :use_multiplier, :is_active, :notes, :created_at, :updated_at)
    `
	if _, err := tx.NamedExecContext(ctx, query, m); err != nil {
		return err
	}

	return tx.Commit()
}
