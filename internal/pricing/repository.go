package pricing

import (
	"context"

	"github.com/andeanmarket/catalog-service/internal/model"
)

// MarginRepository stores operator-managed margin records. Margin rows are
// independent of sync and written only through these operations.
type MarginRepository interface {
	GetMarginsByCategoryIDs(ctx context.Context, categoryIDs []string) (map[string]model.CategoryMargin, error)
	GetActiveDefaultMargin(ctx context.Context) (*model.DefaultMargin, error)
	UpsertCategoryMargin(ctx context.Context, m *model.CategoryMargin) error
	SetDefaultMargin(ctx context.Context, m *model.DefaultMargin) error
}
