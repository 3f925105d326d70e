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

func (r *PGRepository) GetCached(ctx context.Context, contentType string, objectID int64, targetLang string) (string, bool, error) {
	var text string
	err := r.DB.GetContext(ctx, &text, `
        SELECT translated_text FROM translated_entries
        WHERE content_type = $1 AND object_id = $2 AND target_lang = $3
        LIMIT 1
    `, contentType, objectID, targetLang)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		return "", false, err
	}
	return text, true, nil
}

func (r *PGRepository) GetEntry(ctx context.Context, contentType string, objectID int64, targetLang string) (*model.TranslatedEntry, error) {
	var entry model.TranslatedEntry
	err := r.DB.GetContext(ctx, &entry, `
        SELECT * FROM translated_entries
        WHERE content_type = $1 AND object_id = $2 AND target_lang = $3
        LIMIT 1
    `, contentType, objectID, targetLang)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &entry, nil
}

func (r *PGRepository) Upsert(ctx context.Context, entry *model.TranslatedEntry) error {
	query := `
        INSERT INTO translated_entries (
            id, content_type, object_id, source_lang, target_lang,
            source_text, translated_text, engine, verified, created_at, updated_at
        )
        VALUES (
            :id, :content_type, :object_id, :source_lang, :target_lang,
            :source_text, :translated_text, :engine, :verified, :created_at, :updated_at
        )
        ON CONFLICT (content_type, object_id, target_lang) DO UPDATE SET
            source_lang = EXCLUDED.source_lang,
            source_text = EXCLUDED.source_text,
            translated_text = EXCLUDED.translated_text,
            engine = EXCLUDED.engine,
            verified = EXCLUDED.verified,
            updated_at = EXCLUDED.updated_at
    `
	_, err := r.DB.NamedExecContext(ctx, query, entry)
	return err
}

func (r *PGRepository) ListByContentType(ctx context.Context, contentType, targetLang string) ([]model.TranslatedEntry, error) {
	var entries []model.TranslatedEntry
	err := r.DB.SelectContext(ctx, &entries, `
        SELECT * FROM translated_entries
        WHERE content_type = $1 AND target_lang = $2
        ORDER BY object_id
    `, contentType, targetLang)
	return entries, err
}
