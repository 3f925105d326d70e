package syncer

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/andeanmarket/catalog-service/internal/catalog"
	"github.com/andeanmarket/catalog-service/internal/model"
	"github.com/andeanmarket/catalog-service/internal/remote"
	"github.com/andeanmarket/catalog-service/pkg/logger"
)

// SyncResult is what every public sync operation returns. Per-record failures
// are aggregated into ErrorCount/Errors; a phase-level failure additionally
// surfaces as the returned error.
type SyncResult struct {
	RunID            string      `json:"run_id"`
	Status           string      `json:"status"`
	CategoriesSynced int         `json:"categories_synced"`
	ProductsSynced   int         `json:"products_synced"`
	VariationsSynced int         `json:"variations_synced"`
	ErrorCount       int         `json:"error_count"`
	Errors           *BatchError `json:"-"`
}

// Engine mirrors the supplier catalog into the local store. It is the only
// writer of catalog rows. Sync is best-effort and re-entrant: upserts are
// keyed on remote ids, so re-running after a partial failure is safe.
type Engine struct {
	client   remote.CatalogClient
	store    catalog.Repository
	runs     RunRepository
	logger   logger.Logger
	pageSize int
}

func NewEngine(client remote.CatalogClient, store catalog.Repository, runs RunRepository, pageSize int, log logger.Logger) *Engine {
	if pageSize <= 0 {
		pageSize = 100
	}
	return &Engine{
		client:   client,
		store:    store,
		runs:     runs,
		logger:   log,
		pageSize: pageSize,
	}
}

// SyncAll runs the three phases in their fixed order: categories are fully
// upserted and parent-resolved before products, and variations never run
// before products.
func (e *Engine) SyncAll(ctx context.Context) (*SyncResult, error) {
	run, err := e.startRun(ctx, model.SyncTypeFull)
	if err != nil {
		return nil, err
	}
	batch := &BatchError{}
	result := &SyncResult{RunID: run.ID, Errors: batch}

	count, err := e.syncCategoriesPhase(ctx, batch)
	result.CategoriesSynced = count
	if err != nil {
		return e.finishFailed(ctx, run, result, batch, fmt.Errorf("category phase: %w", err))
	}

	count, err = e.syncProductsPhase(ctx, batch)
	result.ProductsSynced = count
	if err != nil {
		return e.finishFailed(ctx, run, result, batch, fmt.Errorf("product phase: %w", err))
	}

	count, err = e.syncVariationsPhase(ctx, batch)
	result.VariationsSynced = count
	if err != nil {
		return e.finishFailed(ctx, run, result, batch, fmt.Errorf("variation phase: %w", err))
	}

	return e.finishCompleted(ctx, run, result, batch), nil
}

// SyncCategories runs only the category phase under its own run record.
func (e *Engine) SyncCategories(ctx context.Context) (*SyncResult, error) {
	run, err := e.startRun(ctx, model.SyncTypeCategoriesOnly)
	if err != nil {
		return nil, err
	}
	batch := &BatchError{}
	result := &SyncResult{RunID: run.ID, Errors: batch}

	count, err := e.syncCategoriesPhase(ctx, batch)
	result.CategoriesSynced = count
	if err != nil {
		return e.finishFailed(ctx, run, result, batch, err)
	}
	return e.finishCompleted(ctx, run, result, batch), nil
}

// SyncProducts runs only the product phase under its own run record.
func (e *Engine) SyncProducts(ctx context.Context) (*SyncResult, error) {
	run, err := e.startRun(ctx, model.SyncTypeProductsOnly)
	if err != nil {
		return nil, err
	}
	batch := &BatchError{}
	result := &SyncResult{RunID: run.ID, Errors: batch}

	count, err := e.syncProductsPhase(ctx, batch)
	result.ProductsSynced = count
	if err != nil {
		return e.finishFailed(ctx, run, result, batch, err)
	}
	return e.finishCompleted(ctx, run, result, batch), nil
}

// SyncVariations runs only the variation phase under its own run record.
func (e *Engine) SyncVariations(ctx context.Context) (*SyncResult, error) {
	run, err := e.startRun(ctx, model.SyncTypeVariationsOnly)
	if err != nil {
		return nil, err
	}
	batch := &BatchError{}
	result := &SyncResult{RunID: run.ID, Errors: batch}

	count, err := e.syncVariationsPhase(ctx, batch)
	result.VariationsSynced = count
	if err != nil {
		return e.finishFailed(ctx, run, result, batch, err)
	}
	return e.finishCompleted(ctx, run, result, batch), nil
}

// SyncStockAndPrices re-fetches only price and stock fields for the given
// remote ids; an empty set means every published product. Meant to run far
// more often than a full sync.
func (e *Engine) SyncStockAndPrices(ctx context.Context, remoteIDs []int64) (*SyncResult, error) {
	run, err := e.startRun(ctx, model.SyncTypeIncremental)
	if err != nil {
		return nil, err
	}
	batch := &BatchError{}
	result := &SyncResult{RunID: run.ID, Errors: batch}

	if len(remoteIDs) == 0 {
		remoteIDs, err = e.store.ListPublishedRemoteIDs(ctx)
		if err != nil {
			return e.finishFailed(ctx, run, result, batch, err)
		}
	}

	for _, remoteID := range remoteIDs {
		rec, err := e.client.GetProductByID(ctx, remoteID)
		if err != nil {
			batch.Add("product", remoteID, err)
			continue
		}
		update := &catalog.StockPriceUpdate{
			RemoteID:      rec.ID,
			Price:         parsePrice(rec.Price),
			RegularPrice:  parsePrice(rec.RegularPrice),
			SalePrice:     parsePrice(rec.SalePrice),
			OnSale:        rec.OnSale,
			StockStatus:   rec.StockStatus,
			StockQuantity: rec.StockQuantity,
			ManageStock:   rec.ManageStock,
		}
		if err := e.store.UpdateStockAndPrice(ctx, update); err != nil {
			batch.Add("product", remoteID, err)
			continue
		}
		result.ProductsSynced++
	}

	return e.finishCompleted(ctx, run, result, batch), nil
}

func (e *Engine) syncCategoriesPhase(ctx context.Context, batch *BatchError) (int, error) {
	synced := 0
	now := time.Now()

	for page := 1; ; page++ {
		records, err := e.client.ListCategories(ctx, page, e.pageSize)
		if err != nil {
			return synced, err
		}
		for i := range records {
			rec := records[i]
			if err := e.store.UpsertCategory(ctx, mapCategory(&rec, now)); err != nil {
				batch.Add("category", rec.ID, err)
				continue
			}
			synced++
		}
		// A short page marks the end of the feed.
		if len(records) < e.pageSize {
			break
		}
	}

	// Second pass: parents may appear after children in the paginated feed.
	resolved, skipped, err := e.store.ResolveCategoryParents(ctx)
	if err != nil {
		return synced, err
	}
	if len(skipped) > 0 {
		e.logger.Warn("categories reference parents never seen in the feed",
			zap.Int64s("remote_ids", skipped))
	}
	e.logger.Info("category sync phase done",
		zap.Int("synced", synced), zap.Int("parents_resolved", resolved))
	return synced, nil
}

func (e *Engine) syncProductsPhase(ctx context.Context, batch *BatchError) (int, error) {
	synced := 0
	now := time.Now()

	for page := 1; ; page++ {
		records, err := e.client.ListProducts(ctx, page, e.pageSize, 0)
		if err != nil {
			return synced, err
		}
		for i := range records {
			rec := records[i]
			product := mapProduct(&rec, now)
			if err := e.store.UpsertProduct(ctx, product); err != nil {
				batch.Add("product", rec.ID, err)
				continue
			}

			remoteCategoryIDs := make([]int64, 0, len(rec.Categories))
			for _, c := range rec.Categories {
				remoteCategoryIDs = append(remoteCategoryIDs, c.ID)
			}
			if err := e.store.ReplaceProductCategories(ctx, product.ID, remoteCategoryIDs); err != nil {
				batch.Add("product", rec.ID, fmt.Errorf("replacing categories: %w", err))
			}
			if err := e.store.ReplaceProductImages(ctx, product.ID, mapImages(product.ID, rec.Images)); err != nil {
				batch.Add("product", rec.ID, fmt.Errorf("replacing images: %w", err))
			}
			synced++
		}
		if len(records) < e.pageSize {
			break
		}
	}

	e.logger.Info("product sync phase done", zap.Int("synced", synced))
	return synced, nil
}

func (e *Engine) syncVariationsPhase(ctx context.Context, batch *BatchError) (int, error) {
	products, err := e.store.ListVariableProducts(ctx)
	if err != nil {
		return 0, err
	}

	synced := 0
	now := time.Now()
	for _, product := range products {
		for page := 1; ; page++ {
			records, err := e.client.ListVariations(ctx, product.RemoteID, page, e.pageSize)
			if err != nil {
				batch.Add("product", product.RemoteID, fmt.Errorf("listing variations: %w", err))
				break
			}
			for i := range records {
				rec := records[i]
				if err := e.store.UpsertVariation(ctx, mapVariation(product.ID, &rec, now)); err != nil {
					batch.Add("variation", rec.ID, err)
					continue
				}
				synced++
			}
			if len(records) < e.pageSize {
				break
			}
		}
	}

	e.logger.Info("variation sync phase done", zap.Int("synced", synced))
	return synced, nil
}

func (e *Engine) startRun(ctx context.Context, syncType string) (*model.SyncRun, error) {
	run := &model.SyncRun{
		ID:        uuid.New().String(),
		Type:      syncType,
		Status:    model.SyncStatusStarted,
		StartedAt: time.Now(),
	}
	if err := e.runs.Create(ctx, run); err != nil {
		return nil, fmt.Errorf("creating sync run: %w", err)
	}
	e.logger.Info("sync run started", zap.String("run_id", run.ID), zap.String("type", syncType))
	return run, nil
}

func (e *Engine) finishCompleted(ctx context.Context, run *model.SyncRun, result *SyncResult, batch *BatchError) *SyncResult {
	status := model.SyncStatusSuccess
	if batch.Len() > 0 {
		status = model.SyncStatusPartial
	}
	e.finishRun(ctx, run, result, batch, status, "")
	return result
}

func (e *Engine) finishFailed(ctx context.Context, run *model.SyncRun, result *SyncResult, batch *BatchError, cause error) (*SyncResult, error) {
	e.finishRun(ctx, run, result, batch, model.SyncStatusFailed, cause.Error())
	return result, cause
}

func (e *Engine) finishRun(ctx context.Context, run *model.SyncRun, result *SyncResult, batch *BatchError, status, failure string) {
	now := time.Now()
	details := batch.Details()
	if failure != "" {
		if details != "" {
			details = failure + "\n" + details
		} else {
			details = failure
		}
	}

	run.Status = status
	run.CategoriesSynced = result.CategoriesSynced
	run.ProductsSynced = result.ProductsSynced
	run.VariationsSynced = result.VariationsSynced
	run.ErrorCount = batch.Len()
	run.ErrorDetails = details
	run.FinishedAt = &now

	result.Status = status
	result.ErrorCount = batch.Len()

	if err := e.runs.Finish(ctx, run); err != nil {
		e.logger.Error("failed to finish sync run", zap.String("run_id", run.ID), zap.Error(err))
	}
	e.logger.Info("sync run finished",
		zap.String("run_id", run.ID),
		zap.String("status", status),
		zap.Int("categories", run.CategoriesSynced),
		zap.Int("products", run.ProductsSynced),
		zap.Int("variations", run.VariationsSynced),
		zap.Int("errors", run.ErrorCount),
		zap.Duration("duration", run.Duration()))
}
