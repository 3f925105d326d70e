package translate

import (
	"context"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/andeanmarket/catalog-service/config"
	"github.com/andeanmarket/catalog-service/internal/catalog"
	"github.com/andeanmarket/catalog-service/internal/model"
	"github.com/andeanmarket/catalog-service/pkg/logger"
)

// FillStats summarizes one batch-fill run.
type FillStats struct {
	Translated int `json:"translated"`
	Skipped    int `json:"skipped"`
	Errors     int `json:"errors"`
}

// Filler populates the translation cache from the local store. Fills are
// idempotent: existing entries are skipped unless force is set, and every
// per-field failure is absorbed into the stats instead of aborting the batch.
type Filler struct {
	cache      CacheRepository
	store      catalog.Repository
	engine     Engine
	logger     logger.Logger
	sourceLang string
	targetLang string
	maxDesc    int
}

func NewFiller(cache CacheRepository, store catalog.Repository, engine Engine, cfg *config.TranslationConfig, log logger.Logger) *Filler {
	return &Filler{
		cache:      cache,
		store:      store,
		engine:     engine,
		logger:     log,
		sourceLang: cfg.SourceLang,
		targetLang: cfg.TargetLang,
		maxDesc:    cfg.MaxDescription,
	}
}

// FillAll walks every category and published product. For a product the name
// is always filled before its descriptions so progress logs read in a stable
// order.
func (f *Filler) FillAll(ctx context.Context, force bool) (*FillStats, error) {
	stats := &FillStats{}

	categories, err := f.store.ListCategories(ctx)
	if err != nil {
		return stats, err
	}
	for _, c := range categories {
		f.fillField(ctx, stats, model.ContentTypeCategoryName, c.RemoteID, c.Name, force)
	}

	page := 1
	const perPage = 200
	for {
		result, err := f.store.ListPublishedProducts(ctx, 0, page, perPage)
		if err != nil {
			return stats, err
		}
		for _, p := range result.Products {
			f.fillField(ctx, stats, model.ContentTypeProductName, p.RemoteID, p.Name, force)
			f.fillField(ctx, stats, model.ContentTypeProductShortDesc, p.RemoteID, p.ShortDescription, force)
			f.fillField(ctx, stats, model.ContentTypeProductDescription, p.RemoteID, p.Description, force)
		}
		if len(result.Products) < perPage {
			break
		}
		page++
	}

	f.logger.Info("translation batch fill finished",
		zap.Int("translated", stats.Translated),
		zap.Int("skipped", stats.Skipped),
		zap.Int("errors", stats.Errors))
	return stats, nil
}

// FillOne translates a single field and upserts its cache entry. Free-text
// content gets its source language detected; catalog fields are always
// authored in the configured source language.
func (f *Filler) FillOne(ctx context.Context, contentType string, objectID int64, sourceText string, force bool) error {
	stats := &FillStats{}
	f.fillField(ctx, stats, contentType, objectID, sourceText, force)
	if stats.Errors > 0 {
		return errFillFailed
	}
	return nil
}

func (f *Filler) fillField(ctx context.Context, stats *FillStats, contentType string, objectID int64, raw string, force bool) {
	if raw == "" {
		stats.Skipped++
		return
	}

	// HTML policy: names lose their markup entirely and the stripped text is
	// persisted as source; descriptions persist the markup-bearing original
	// while only extracted plain text is translated.
	source := raw
	translatable := raw
	if model.IsNameContent(contentType) {
		source = StripTags(raw)
		translatable = source
	} else {
		translatable = ExtractText(raw)
	}

	// Overlong descriptions are skipped wholesale to bound batch latency.
	// The threshold counts characters, not bytes, so accented text is not
	// penalized by its UTF-8 encoding.
	if f.maxDesc > 0 && utf8.RuneCountInString(translatable) > f.maxDesc {
		stats.Skipped++
		return
	}

	if !force {
		_, found, err := f.cache.GetCached(ctx, contentType, objectID, f.targetLang)
		if err != nil {
			f.logger.Warn("translation cache lookup failed",
				zap.String("content_type", contentType), zap.Int64("object_id", objectID), zap.Error(err))
			stats.Errors++
			return
		}
		if found {
			stats.Skipped++
			return
		}
	}

	sourceLang := f.sourceLang
	if contentType == model.ContentTypeFreeText {
		sourceLang = DetectLanguage(translatable, f.sourceLang)
	}

	translated, err := f.engine.Translate(ctx, translatable, sourceLang, f.targetLang)
	if err != nil {
		f.logger.Warn("translation failed",
			zap.String("content_type", contentType), zap.Int64("object_id", objectID), zap.Error(err))
		stats.Errors++
		return
	}

	now := time.Now()
	entry := &model.TranslatedEntry{
		ID:             uuid.New().String(),
		ContentType:    contentType,
		ObjectID:       objectID,
		SourceLang:     sourceLang,
		TargetLang:     f.targetLang,
		SourceText:     source,
		TranslatedText: translated,
		Engine:         f.engine.Name(),
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := f.cache.Upsert(ctx, entry); err != nil {
		f.logger.Warn("translation cache write failed",
			zap.String("content_type", contentType), zap.Int64("object_id", objectID), zap.Error(err))
		stats.Errors++
		return
	}
	stats.Translated++
}

// RepairMarkupAll re-cleans translator-mangled tags on description entries
// without touching the engine. Fills translate extracted plain text, so rows
// written by fillField carry no markup; the pass targets entries imported
// from earlier pipelines that sent the raw HTML through the translator.
func (f *Filler) RepairMarkupAll(ctx context.Context) (int, error) {
	repaired := 0
	for _, contentType := range []string{model.ContentTypeProductShortDesc, model.ContentTypeProductDescription} {
		entries, err := f.cache.ListByContentType(ctx, contentType, f.targetLang)
		if err != nil {
			return repaired, err
		}
		for i := range entries {
			entry := entries[i]
			fixed := RepairMarkup(entry.TranslatedText)
			if fixed == entry.TranslatedText {
				continue
			}
			entry.TranslatedText = fixed
			entry.UpdatedAt = time.Now()
			if err := f.cache.Upsert(ctx, &entry); err != nil {
				f.logger.Warn("markup repair write failed",
					zap.String("content_type", contentType), zap.Int64("object_id", entry.ObjectID), zap.Error(err))
				continue
			}
			repaired++
		}
	}
	return repaired, nil
}
