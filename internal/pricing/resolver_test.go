package pricing

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/andeanmarket/catalog-service/internal/model"
	"github.com/andeanmarket/catalog-service/pkg/logger"
)

type mockMarginRepository struct {
	mock.Mock
}

func (m *mockMarginRepository) GetMarginsByCategoryIDs(ctx context.Context, categoryIDs []string) (map[string]model.CategoryMargin, error) {
	args := m.Called(ctx, categoryIDs)
	var margins map[string]model.CategoryMargin
	if v := args.Get(0); v != nil {
		margins = v.(map[string]model.CategoryMargin)
	}
	return margins, args.Error(1)
}

func (m *mockMarginRepository) GetActiveDefaultMargin(ctx context.Context) (*model.DefaultMargin, error) {
	args := m.Called(ctx)
	var def *model.DefaultMargin
	if v := args.Get(0); v != nil {
		def = v.(*model.DefaultMargin)
	}
	return def, args.Error(1)
}

func (m *mockMarginRepository) UpsertCategoryMargin(ctx context.Context, margin *model.CategoryMargin) error {
	args := m.Called(ctx, margin)
	return args.Error(0)
}

func (m *mockMarginRepository) SetDefaultMargin(ctx context.Context, margin *model.DefaultMargin) error {
	args := m.Called(ctx, margin)
	return args.Error(0)
}

func categoriesWithIDs(ids ...string) []model.Category {
	out := make([]model.Category, 0, len(ids))
	for _, id := range ids {
		c := model.Category{}
		c.ID = id
		out = append(out, c)
	}
	return out
}

func TestResolve_CategoryPercentage(t *testing.T) {
	repo := new(mockMarginRepository)
	repo.On("GetMarginsByCategoryIDs", mock.Anything, []string{"cat-1"}).
		Return(map[string]model.CategoryMargin{
			"cat-1": {Percentage: 30, IsActive: true},
		}, nil)

	r := NewResolver(repo, logger.NewNop())
	got := r.Resolve(context.Background(), 100, categoriesWithIDs("cat-1"))

	assert.InDelta(t, 130.0, got, 1e-9)
	repo.AssertExpectations(t)
}

func TestResolve_CategoryMultiplier(t *testing.T) {
	repo := new(mockMarginRepository)
	repo.On("GetMarginsByCategoryIDs", mock.Anything, mock.Anything).
		Return(map[string]model.CategoryMargin{
			"cat-1": {Multiplier: 1.3, UseMultiplier: true, IsActive: true},
		}, nil)

	r := NewResolver(repo, logger.NewNop())
	got := r.Resolve(context.Background(), 100, categoriesWithIDs("cat-1"))

	assert.InDelta(t, 130.0, got, 1e-9)
}

func TestResolve_FirstCategoryInStoredOrderWins(t *testing.T) {
	repo := new(mockMarginRepository)
	repo.On("GetMarginsByCategoryIDs", mock.Anything, []string{"cat-1", "cat-2"}).
		Return(map[string]model.CategoryMargin{
			"cat-1": {Percentage: 10, IsActive: true},
			"cat-2": {Percentage: 50, IsActive: true},
		}, nil)

	r := NewResolver(repo, logger.NewNop())
	got := r.Resolve(context.Background(), 100, categoriesWithIDs("cat-1", "cat-2"))

	assert.InDelta(t, 110.0, got, 1e-9)
}

func TestResolve_InactiveCategoryFallsToDefault(t *testing.T) {
	repo := new(mockMarginRepository)
	repo.On("GetMarginsByCategoryIDs", mock.Anything, mock.Anything).
		Return(map[string]model.CategoryMargin{
			"cat-1": {Percentage: 30, IsActive: false},
		}, nil)
	repo.On("GetActiveDefaultMargin", mock.Anything).
		Return(&model.DefaultMargin{Percentage: 20, IsActive: true}, nil)

	r := NewResolver(repo, logger.NewNop())
	got := r.Resolve(context.Background(), 100, categoriesWithIDs("cat-1"))

	assert.InDelta(t, 120.0, got, 1e-9)
	repo.AssertExpectations(t)
}

func TestResolve_NoMarginsReturnsRaw(t *testing.T) {
	repo := new(mockMarginRepository)
	repo.On("GetMarginsByCategoryIDs", mock.Anything, mock.Anything).
		Return(map[string]model.CategoryMargin{}, nil)
	repo.On("GetActiveDefaultMargin", mock.Anything).Return(nil, nil)

	r := NewResolver(repo, logger.NewNop())
	got := r.Resolve(context.Background(), 99.5, categoriesWithIDs("cat-1"))

	assert.InDelta(t, 99.5, got, 1e-9)
}

func TestResolve_NoCategoriesUsesDefault(t *testing.T) {
	repo := new(mockMarginRepository)
	repo.On("GetActiveDefaultMargin", mock.Anything).
		Return(&model.DefaultMargin{Percentage: 25, IsActive: true}, nil)

	r := NewResolver(repo, logger.NewNop())
	got := r.Resolve(context.Background(), 200, nil)

	assert.InDelta(t, 250.0, got, 1e-9)
}

func TestResolve_StoreErrorServesRawPrice(t *testing.T) {
	repo := new(mockMarginRepository)
	repo.On("GetMarginsByCategoryIDs", mock.Anything, mock.Anything).
		Return(nil, errors.New("connection refused"))

	r := NewResolver(repo, logger.NewNop())
	got := r.Resolve(context.Background(), 100, categoriesWithIDs("cat-1"))

	assert.InDelta(t, 100.0, got, 1e-9)
}

func TestRoundHalfAwayFromZero(t *testing.T) {
	tests := []struct {
		name     string
		value    float64
		decimals int
		want     float64
	}{
		{"integral half up", 12.5, 0, 13},
		{"integral down", 12.4, 0, 12},
		{"two decimals half up", 0.025, 2, 0.03},
		{"two decimals down", 0.0324, 2, 0.03},
		{"negative half away", -12.5, 0, -13},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, RoundHalfAwayFromZero(tt.value, tt.decimals), 1e-9)
		})
	}
}
