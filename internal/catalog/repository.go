package catalog

import (
	"context"

	"github.com/andeanmarket/catalog-service/internal/model"
)

// StockPriceUpdate carries the fields written by the lightweight
// stock-and-price refresh.
type StockPriceUpdate struct {
	RemoteID      int64
	Price         float64
	RegularPrice  float64
	SalePrice     float64
	OnSale        bool
	StockStatus   string
	StockQuantity *int
	ManageStock   bool
}

// ProductPage is one page of a paged product listing plus the total count.
type ProductPage struct {
	Products []model.Product
	Total    int
}

// Repository is the local catalog store. Catalog rows are written only by the
// sync engine; everything else reads.
type Repository interface {
	// Sync writes. Upserts are keyed on remote id with full field replacement.
	UpsertCategory(ctx context.Context, c *model.Category) error
	ResolveCategoryParents(ctx context.Context) (resolved int, skipped []int64, err error)
	UpsertProduct(ctx context.Context, p *model.Product) error
	ReplaceProductCategories(ctx context.Context, productID string, remoteCategoryIDs []int64) error
	ReplaceProductImages(ctx context.Context, productID string, images []model.ProductImage) error
	UpsertVariation(ctx context.Context, v *model.ProductVariation) error
	UpdateStockAndPrice(ctx context.Context, u *StockPriceUpdate) error

	// Reads.
	ListCategories(ctx context.Context) ([]model.Category, error)
	GetCategoryByRemoteID(ctx context.Context, remoteID int64) (*model.Category, error)
	ListPublishedProducts(ctx context.Context, categoryRemoteID int64, page, perPage int) (*ProductPage, error)
	GetProductByRemoteID(ctx context.Context, remoteID int64) (*model.Product, error)
	ListVariableProducts(ctx context.Context) ([]model.Product, error)
	ListPublishedRemoteIDs(ctx context.Context) ([]int64, error)
	LoadProductRelations(ctx context.Context, products []model.Product) ([]model.Product, error)
	ListVariations(ctx context.Context, productID string) ([]model.ProductVariation, error)
	CountVariations(ctx context.Context, productID string) (int, error)
	TopCategories(ctx context.Context, limit int) ([]model.Category, error)
	Stats(ctx context.Context) (*CatalogStats, error)
}

// CatalogStats is the aggregate view served by the stats endpoint.
type CatalogStats struct {
	Categories     int     `db:"categories" json:"categories"`
	Products       int     `db:"products" json:"products"`
	Published      int     `db:"published" json:"published"`
	Variations     int     `db:"variations" json:"variations"`
	OnSale         int     `db:"on_sale" json:"on_sale"`
	AveragePrice   float64 `db:"average_price" json:"average_price"`
	TranslatedRows int     `db:"translated_rows" json:"translated_rows"`
}
