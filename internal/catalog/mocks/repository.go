package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/andeanmarket/catalog-service/internal/catalog"
	"github.com/andeanmarket/catalog-service/internal/model"
)

// Repository is a hand-written testify mock of catalog.Repository.
type Repository struct {
	mock.Mock
}

var _ catalog.Repository = (*Repository)(nil)

func (m *Repository) UpsertCategory(ctx context.Context, c *model.Category) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *Repository) ResolveCategoryParents(ctx context.Context) (int, []int64, error) {
	args := m.Called(ctx)
	var skipped []int64
	if v := args.Get(1); v != nil {
		skipped = v.([]int64)
	}
	return args.Int(0), skipped, args.Error(2)
}

func (m *Repository) UpsertProduct(ctx context.Context, p *model.Product) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *Repository) ReplaceProductCategories(ctx context.Context, productID string, remoteCategoryIDs []int64) error {
	args := m.Called(ctx, productID, remoteCategoryIDs)
	return args.Error(0)
}

func (m *Repository) ReplaceProductImages(ctx context.Context, productID string, images []model.ProductImage) error {
	args := m.Called(ctx, productID, images)
	return args.Error(0)
}

func (m *Repository) UpsertVariation(ctx context.Context, v *model.ProductVariation) error {
	args := m.Called(ctx, v)
	return args.Error(0)
}

func (m *Repository) UpdateStockAndPrice(ctx context.Context, u *catalog.StockPriceUpdate) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *Repository) ListCategories(ctx context.Context) ([]model.Category, error) {
	args := m.Called(ctx)
	var categories []model.Category
	if v := args.Get(0); v != nil {
		categories = v.([]model.Category)
	}
	return categories, args.Error(1)
}

func (m *Repository) GetCategoryByRemoteID(ctx context.Context, remoteID int64) (*model.Category, error) {
	args := m.Called(ctx, remoteID)
	var c *model.Category
	if v := args.Get(0); v != nil {
		c = v.(*model.Category)
	}
	return c, args.Error(1)
}

func (m *Repository) ListPublishedProducts(ctx context.Context, categoryRemoteID int64, page, perPage int) (*catalog.ProductPage, error) {
	args := m.Called(ctx, categoryRemoteID, page, perPage)
	var p *catalog.ProductPage
	if v := args.Get(0); v != nil {
		p = v.(*catalog.ProductPage)
	}
	return p, args.Error(1)
}

func (m *Repository) GetProductByRemoteID(ctx context.Context, remoteID int64) (*model.Product, error) {
	args := m.Called(ctx, remoteID)
	var p *model.Product
	if v := args.Get(0); v != nil {
		p = v.(*model.Product)
	}
	return p, args.Error(1)
}

func (m *Repository) ListVariableProducts(ctx context.Context) ([]model.Product, error) {
	args := m.Called(ctx)
	var products []model.Product
	if v := args.Get(0); v != nil {
		products = v.([]model.Product)
	}
	return products, args.Error(1)
}

func (m *Repository) ListPublishedRemoteIDs(ctx context.Context) ([]int64, error) {
	args := m.Called(ctx)
	var ids []int64
	if v := args.Get(0); v != nil {
		ids = v.([]int64)
	}
	return ids, args.Error(1)
}

func (m *Repository) LoadProductRelations(ctx context.Context, products []model.Product) ([]model.Product, error) {
	args := m.Called(ctx, products)
	var loaded []model.Product
	if v := args.Get(0); v != nil {
		loaded = v.([]model.Product)
	}
	return loaded, args.Error(1)
}

func (m *Repository) ListVariations(ctx context.Context, productID string) ([]model.ProductVariation, error) {
	args := m.Called(ctx, productID)
	var variations []model.ProductVariation
	if v := args.Get(0); v != nil {
		variations = v.([]model.ProductVariation)
	}
	return variations, args.Error(1)
}

func (m *Repository) CountVariations(ctx context.Context, productID string) (int, error) {
	args := m.Called(ctx, productID)
	return args.Int(0), args.Error(1)
}

func (m *Repository) TopCategories(ctx context.Context, limit int) ([]model.Category, error) {
	args := m.Called(ctx, limit)
	var categories []model.Category
	if v := args.Get(0); v != nil {
		categories = v.([]model.Category)
	}
	return categories, args.Error(1)
}

func (m *Repository) Stats(ctx context.Context) (*catalog.CatalogStats, error) {
	args := m.Called(ctx)
	var stats *catalog.CatalogStats
	if v := args.Get(0); v != nil {
		stats = v.(*catalog.CatalogStats)
	}
	return stats, args.Error(1)
}
