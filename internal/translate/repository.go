package translate

import (
	"context"

	"github.com/andeanmarket/catalog-service/internal/model"
)

// CacheRepository is the durable translation cache. Entries are written only
// by the batch filler or an explicit re-translate; readers fall back to the
// untranslated source on a miss; the cache is never a hard dependency.
type CacheRepository interface {
	GetCached(ctx context.Context, contentType string, objectID int64, targetLang string) (string, bool, error)
	GetEntry(ctx context.Context, contentType string, objectID int64, targetLang string) (*model.TranslatedEntry, error)
	Upsert(ctx context.Context, entry *model.TranslatedEntry) error
	ListByContentType(ctx context.Context, contentType, targetLang string) ([]model.TranslatedEntry, error)
}
