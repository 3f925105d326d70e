package catalog

import (
	"context"
	"time"

	"github.com/andeanmarket/catalog-service/internal/catalog/dto"
)

// ResponseCache is the warm cache consulted by the read operations. Misses
// are never errors: readers recompute live and re-warm the slot.
type ResponseCache interface {
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

// UseCase exposes the localized read operations served to the storefront.
type UseCase interface {
	GetLocalizedProductPage(ctx context.Context, categoryRemoteID int64, page, perPage int, lang, currency string) (*dto.LocalizedProductPage, error)
	GetLocalizedProductDetail(ctx context.Context, remoteID int64, lang, currency string, includeRealtimeStock bool) (*dto.LocalizedProductDetail, error)
	ListLocalizedCategories(ctx context.Context, lang string) ([]dto.LocalizedCategory, error)
	GetCategoryTree(ctx context.Context, lang string) ([]dto.CategoryNode, error)
	GetOrganizedCategories(ctx context.Context, lang string) ([]dto.ThemeGroup, error)
	GetCatalogStats(ctx context.Context) (*CatalogStats, error)
}
