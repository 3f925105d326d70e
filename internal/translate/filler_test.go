package translate

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/andeanmarket/catalog-service/config"
	"github.com/andeanmarket/catalog-service/internal/catalog"
	"github.com/andeanmarket/catalog-service/internal/catalog/mocks"
	"github.com/andeanmarket/catalog-service/internal/model"
	"github.com/andeanmarket/catalog-service/pkg/logger"
)

type mockCacheRepository struct {
	mock.Mock
}

func (m *mockCacheRepository) GetCached(ctx context.Context, contentType string, objectID int64, targetLang string) (string, bool, error) {
	args := m.Called(ctx, contentType, objectID, targetLang)
	return args.String(0), args.Bool(1), args.Error(2)
}

func (m *mockCacheRepository) GetEntry(ctx context.Context, contentType string, objectID int64, targetLang string) (*model.TranslatedEntry, error) {
	args := m.Called(ctx, contentType, objectID, targetLang)
	var entry *model.TranslatedEntry
	if v := args.Get(0); v != nil {
		entry = v.(*model.TranslatedEntry)
	}
	return entry, args.Error(1)
}

func (m *mockCacheRepository) Upsert(ctx context.Context, entry *model.TranslatedEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *mockCacheRepository) ListByContentType(ctx context.Context, contentType, targetLang string) ([]model.TranslatedEntry, error) {
	args := m.Called(ctx, contentType, targetLang)
	var entries []model.TranslatedEntry
	if v := args.Get(0); v != nil {
		entries = v.([]model.TranslatedEntry)
	}
	return entries, args.Error(1)
}

type mockEngine struct {
	mock.Mock
}

func (m *mockEngine) Translate(ctx context.Context, text, source, target string) (string, error) {
	args := m.Called(ctx, text, source, target)
	return args.String(0), args.Error(1)
}

func (m *mockEngine) Name() string { return "mock" }

func testTranslationConfig() *config.TranslationConfig {
	return &config.TranslationConfig{
		SourceLang:     "es",
		TargetLang:     "en",
		MaxDescription: 5000,
	}
}

func TestFillOne_TranslatesAndUpserts(t *testing.T) {
	cache := new(mockCacheRepository)
	engine := new(mockEngine)
	cache.On("GetCached", mock.Anything, model.ContentTypeProductName, int64(42), "en").
		Return("", false, nil)
	engine.On("Translate", mock.Anything, "Cafetera italiana", "es", "en").
		Return("Italian coffee maker", nil)
	cache.On("Upsert", mock.Anything, mock.MatchedBy(func(e *model.TranslatedEntry) bool {
		return e.ContentType == model.ContentTypeProductName &&
			e.ObjectID == 42 &&
			e.SourceText == "Cafetera italiana" &&
			e.TranslatedText == "Italian coffee maker" &&
			e.SourceLang == "es" && e.TargetLang == "en"
	})).Return(nil)

	f := NewFiller(cache, nil, engine, testTranslationConfig(), logger.NewNop())
	err := f.FillOne(context.Background(), model.ContentTypeProductName, 42, "Cafetera italiana", false)

	require.NoError(t, err)
	cache.AssertExpectations(t)
	engine.AssertExpectations(t)
}

func TestFillOne_ExistingEntrySkippedUnlessForced(t *testing.T) {
	cache := new(mockCacheRepository)
	engine := new(mockEngine)
	cache.On("GetCached", mock.Anything, model.ContentTypeProductName, int64(42), "en").
		Return("Italian coffee maker", true, nil)

	f := NewFiller(cache, nil, engine, testTranslationConfig(), logger.NewNop())
	err := f.FillOne(context.Background(), model.ContentTypeProductName, 42, "Cafetera italiana", false)

	require.NoError(t, err)
	engine.AssertNotCalled(t, "Translate", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestFillOne_ForceRetranslates(t *testing.T) {
	cache := new(mockCacheRepository)
	engine := new(mockEngine)
	engine.On("Translate", mock.Anything, "Cafetera italiana", "es", "en").
		Return("Italian coffee maker", nil)
	cache.On("Upsert", mock.Anything, mock.Anything).Return(nil)

	f := NewFiller(cache, nil, engine, testTranslationConfig(), logger.NewNop())
	err := f.FillOne(context.Background(), model.ContentTypeProductName, 42, "Cafetera italiana", true)

	require.NoError(t, err)
	// Force bypasses the existence check entirely.
	cache.AssertNotCalled(t, "GetCached", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestFillOne_NameMarkupStrippedBeforeTranslation(t *testing.T) {
	cache := new(mockCacheRepository)
	engine := new(mockEngine)
	cache.On("GetCached", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return("", false, nil)
	engine.On("Translate", mock.Anything, "Cafetera italiana", "es", "en").
		Return("Italian coffee maker", nil)
	cache.On("Upsert", mock.Anything, mock.MatchedBy(func(e *model.TranslatedEntry) bool {
		return e.SourceText == "Cafetera italiana"
	})).Return(nil)

	f := NewFiller(cache, nil, engine, testTranslationConfig(), logger.NewNop())
	err := f.FillOne(context.Background(), model.ContentTypeProductName, 42, "<strong>Cafetera</strong> italiana", false)

	require.NoError(t, err)
	cache.AssertExpectations(t)
}

func TestFillOne_DescriptionKeepsMarkupAsSource(t *testing.T) {
	raw := "<p>Hecha de aluminio.</p>"
	cache := new(mockCacheRepository)
	engine := new(mockEngine)
	cache.On("GetCached", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return("", false, nil)
	engine.On("Translate", mock.Anything, "Hecha de aluminio.", "es", "en").
		Return("Made of aluminum.", nil)
	cache.On("Upsert", mock.Anything, mock.MatchedBy(func(e *model.TranslatedEntry) bool {
		return e.SourceText == raw
	})).Return(nil)

	f := NewFiller(cache, nil, engine, testTranslationConfig(), logger.NewNop())
	err := f.FillOne(context.Background(), model.ContentTypeProductDescription, 42, raw, false)

	require.NoError(t, err)
	cache.AssertExpectations(t)
}

func TestFillOne_EngineErrorReported(t *testing.T) {
	cache := new(mockCacheRepository)
	engine := new(mockEngine)
	cache.On("GetCached", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return("", false, nil)
	engine.On("Translate", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return("", errors.New("engine unavailable"))

	f := NewFiller(cache, nil, engine, testTranslationConfig(), logger.NewNop())
	err := f.FillOne(context.Background(), model.ContentTypeProductName, 42, "Cafetera", false)

	assert.Error(t, err)
}

func TestFillOne_OverlongDescriptionSkipped(t *testing.T) {
	cfg := testTranslationConfig()
	cfg.MaxDescription = 10
	cache := new(mockCacheRepository)
	engine := new(mockEngine)

	f := NewFiller(cache, nil, engine, cfg, logger.NewNop())
	err := f.FillOne(context.Background(), model.ContentTypeProductDescription, 42, "Una descripción bastante larga", false)

	require.NoError(t, err)
	engine.AssertNotCalled(t, "Translate", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestFillOne_LengthThresholdCountsCharactersNotBytes(t *testing.T) {
	cfg := testTranslationConfig()
	// 11 characters but 12 UTF-8 bytes; a byte-based check would skip it.
	cfg.MaxDescription = 11
	cache := new(mockCacheRepository)
	engine := new(mockEngine)
	cache.On("GetCached", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return("", false, nil)
	engine.On("Translate", mock.Anything, "descripción", "es", "en").
		Return("description", nil)
	cache.On("Upsert", mock.Anything, mock.Anything).Return(nil)

	f := NewFiller(cache, nil, engine, cfg, logger.NewNop())
	err := f.FillOne(context.Background(), model.ContentTypeProductDescription, 42, "descripción", false)

	require.NoError(t, err)
	engine.AssertExpectations(t)
}

func TestFillAll_WalksCategoriesAndProducts(t *testing.T) {
	store := new(mocks.Repository)
	store.On("ListCategories", mock.Anything).Return([]model.Category{
		{RemoteID: 7, Name: "Hogar"},
	}, nil)
	store.On("ListPublishedProducts", mock.Anything, int64(0), 1, 200).Return(&catalog.ProductPage{
		Products: []model.Product{
			{RemoteID: 42, Name: "Cafetera", ShortDescription: "Corta", Description: "Larga"},
		},
		Total: 1,
	}, nil)

	cache := new(mockCacheRepository)
	cache.On("GetCached", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return("", false, nil)
	cache.On("Upsert", mock.Anything, mock.Anything).Return(nil)

	engine := new(mockEngine)
	engine.On("Translate", mock.Anything, mock.Anything, "es", "en").Return("translated", nil)

	f := NewFiller(cache, store, engine, testTranslationConfig(), logger.NewNop())
	stats, err := f.FillAll(context.Background(), false)

	require.NoError(t, err)
	// Category name + product name + short description + description.
	assert.Equal(t, 4, stats.Translated)
	assert.Equal(t, 0, stats.Skipped)
	assert.Equal(t, 0, stats.Errors)
	store.AssertExpectations(t)
}

func TestRepairMarkupAll_RewritesOnlyMangledEntries(t *testing.T) {
	cache := new(mockCacheRepository)
	cache.On("ListByContentType", mock.Anything, model.ContentTypeProductShortDesc, "en").
		Return([]model.TranslatedEntry{
			{ObjectID: 1, TranslatedText: "< p>broken</p>"},
			{ObjectID: 2, TranslatedText: "<p>fine</p>"},
		}, nil)
	cache.On("ListByContentType", mock.Anything, model.ContentTypeProductDescription, "en").
		Return(nil, nil)
	cache.On("Upsert", mock.Anything, mock.MatchedBy(func(e *model.TranslatedEntry) bool {
		return e.ObjectID == 1 && e.TranslatedText == "<p>broken</p>"
	})).Return(nil)

	f := NewFiller(cache, nil, new(mockEngine), testTranslationConfig(), logger.NewNop())
	repaired, err := f.RepairMarkupAll(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, repaired)
	cache.AssertExpectations(t)
}
