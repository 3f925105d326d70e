package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/andeanmarket/catalog-service/internal/catalog"
	"github.com/andeanmarket/catalog-service/internal/catalog/dto"
	"github.com/andeanmarket/catalog-service/pkg/logger"
)

type mockUseCase struct {
	mock.Mock
}

func (m *mockUseCase) GetLocalizedProductPage(ctx context.Context, categoryRemoteID int64, page, perPage int, lang, currency string) (*dto.LocalizedProductPage, error) {
	args := m.Called(ctx, categoryRemoteID, page, perPage, lang, currency)
	var result *dto.LocalizedProductPage
	if v := args.Get(0); v != nil {
		result = v.(*dto.LocalizedProductPage)
	}
	return result, args.Error(1)
}

func (m *mockUseCase) GetLocalizedProductDetail(ctx context.Context, remoteID int64, lang, currency string, includeRealtimeStock bool) (*dto.LocalizedProductDetail, error) {
	args := m.Called(ctx, remoteID, lang, currency, includeRealtimeStock)
	var result *dto.LocalizedProductDetail
	if v := args.Get(0); v != nil {
		result = v.(*dto.LocalizedProductDetail)
	}
	return result, args.Error(1)
}

func (m *mockUseCase) ListLocalizedCategories(ctx context.Context, lang string) ([]dto.LocalizedCategory, error) {
	args := m.Called(ctx, lang)
	var result []dto.LocalizedCategory
	if v := args.Get(0); v != nil {
		result = v.([]dto.LocalizedCategory)
	}
	return result, args.Error(1)
}

func (m *mockUseCase) GetCategoryTree(ctx context.Context, lang string) ([]dto.CategoryNode, error) {
	args := m.Called(ctx, lang)
	var result []dto.CategoryNode
	if v := args.Get(0); v != nil {
		result = v.([]dto.CategoryNode)
	}
	return result, args.Error(1)
}

func (m *mockUseCase) GetOrganizedCategories(ctx context.Context, lang string) ([]dto.ThemeGroup, error) {
	args := m.Called(ctx, lang)
	var result []dto.ThemeGroup
	if v := args.Get(0); v != nil {
		result = v.([]dto.ThemeGroup)
	}
	return result, args.Error(1)
}

func (m *mockUseCase) GetCatalogStats(ctx context.Context) (*catalog.CatalogStats, error) {
	args := m.Called(ctx)
	var result *catalog.CatalogStats
	if v := args.Get(0); v != nil {
		result = v.(*catalog.CatalogStats)
	}
	return result, args.Error(1)
}

func newTestHandler(uc catalog.UseCase) *Handler {
	return NewHandler(uc, nil, nil, nil, "es", "COP", logger.NewNop())
}

func TestListProducts_DefaultsAndParams(t *testing.T) {
	uc := new(mockUseCase)
	uc.On("GetLocalizedProductPage", mock.Anything, int64(7), 2, 12, "en", "USD").
		Return(&dto.LocalizedProductPage{Page: 2, PerPage: 12, Lang: "en", Currency: "USD"}, nil)

	h := newTestHandler(uc)
	req := httptest.NewRequest(http.MethodGet, "/products?category=7&page=2&per_page=12&lang=en&currency=USD", nil)
	rec := httptest.NewRecorder()
	h.Routes().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var body dto.LocalizedProductPage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "USD", body.Currency)
	uc.AssertExpectations(t)
}

func TestListProducts_MissingLocaleFallsBackToDefaults(t *testing.T) {
	uc := new(mockUseCase)
	uc.On("GetLocalizedProductPage", mock.Anything, int64(0), 1, 20, "es", "COP").
		Return(&dto.LocalizedProductPage{}, nil)

	h := newTestHandler(uc)
	req := httptest.NewRequest(http.MethodGet, "/products", nil)
	rec := httptest.NewRecorder()
	h.Routes().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	uc.AssertExpectations(t)
}

func TestGetProduct_InvalidID(t *testing.T) {
	h := newTestHandler(new(mockUseCase))
	req := httptest.NewRequest(http.MethodGet, "/products/not-a-number", nil)
	rec := httptest.NewRecorder()
	h.Routes().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetProduct_NotFound(t *testing.T) {
	uc := new(mockUseCase)
	uc.On("GetLocalizedProductDetail", mock.Anything, int64(99), "es", "COP", false).
		Return(nil, catalog.ErrProductNotFound)

	h := newTestHandler(uc)
	req := httptest.NewRequest(http.MethodGet, "/products/99", nil)
	rec := httptest.NewRecorder()
	h.Routes().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetProduct_RealtimeStockFlag(t *testing.T) {
	uc := new(mockUseCase)
	uc.On("GetLocalizedProductDetail", mock.Anything, int64(42), "es", "COP", true).
		Return(&dto.LocalizedProductDetail{RemoteID: 42}, nil)

	h := newTestHandler(uc)
	req := httptest.NewRequest(http.MethodGet, "/products/42?realtime_stock=true", nil)
	rec := httptest.NewRecorder()
	h.Routes().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	uc.AssertExpectations(t)
}

func TestStats_InternalErrorIsGeneric(t *testing.T) {
	uc := new(mockUseCase)
	uc.On("GetCatalogStats", mock.Anything).Return(nil, assert.AnError)

	h := newTestHandler(uc)
	req := httptest.NewRequest(http.MethodGet, "/stats", nil)
	rec := httptest.NewRecorder()
	h.Routes().ServeHTTP(rec, req)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	// Error payloads never leak internals.
	assert.Equal(t, "failed to load stats", body["error"])
}

func TestRunSync_UnknownTypeRejected(t *testing.T) {
	h := newTestHandler(new(mockUseCase))
	req := httptest.NewRequest(http.MethodPost, "/admin/sync", jsonBody(t, map[string]string{"type": "everything"}))
	rec := httptest.NewRecorder()
	h.Routes().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func jsonBody(t *testing.T, v interface{}) *bytes.Reader {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewReader(data)
}
