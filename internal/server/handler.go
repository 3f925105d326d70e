package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/andeanmarket/catalog-service/internal/catalog"
	"github.com/andeanmarket/catalog-service/internal/model"
	"github.com/andeanmarket/catalog-service/internal/syncer"
	"github.com/andeanmarket/catalog-service/internal/translate"
	"github.com/andeanmarket/catalog-service/internal/warmup"
	"github.com/andeanmarket/catalog-service/pkg/logger"
)

// Handler exposes the storefront read endpoints and the admin operations.
type Handler struct {
	uc              catalog.UseCase
	sync            *syncer.Engine
	filler          *translate.Filler
	scheduler       *warmup.Scheduler
	logger          logger.Logger
	defaultLang     string
	defaultCurrency string
}

func NewHandler(
	uc catalog.UseCase,
	sync *syncer.Engine,
	filler *translate.Filler,
	scheduler *warmup.Scheduler,
	defaultLang, defaultCurrency string,
	log logger.Logger,
) *Handler {
	return &Handler{
		uc:              uc,
		sync:            sync,
		filler:          filler,
		scheduler:       scheduler,
		logger:          log,
		defaultLang:     defaultLang,
		defaultCurrency: defaultCurrency,
	}
}

func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/products", h.listProducts)
	r.Get("/products/{id}", h.getProduct)
	r.Get("/categories", h.listCategories)
	r.Get("/categories/tree", h.categoryTree)
	r.Get("/categories/organized", h.organizedCategories)
	r.Get("/stats", h.stats)

	r.Route("/admin", func(r chi.Router) {
		r.Post("/sync", h.runSync)
		r.Post("/sync/stock", h.runStockSync)
		r.Post("/translate", h.runTranslate)
		r.Post("/warmup", h.runWarmup)
	})

	return r
}

func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	lang, currency := h.locale(r)
	categoryID := queryInt64(r, "category", 0)
	page := queryInt(r, "page", 1)
	perPage := queryInt(r, "per_page", 20)

	result, err := h.uc.GetLocalizedProductPage(r.Context(), categoryID, page, perPage, lang, currency)
	if err != nil {
		h.logger.Error("product page failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to load products")
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) getProduct(w http.ResponseWriter, r *http.Request) {
	remoteID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid product id")
		return
	}
	lang, currency := h.locale(r)
	realtime := r.URL.Query().Get("realtime_stock") == "true"

	detail, err := h.uc.GetLocalizedProductDetail(r.Context(), remoteID, lang, currency, realtime)
	if err != nil {
		if errors.Is(err, catalog.ErrProductNotFound) {
			writeError(w, http.StatusNotFound, "product not found")
			return
		}
		h.logger.Error("product detail failed", zap.Int64("remote_id", remoteID), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to load product")
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

func (h *Handler) listCategories(w http.ResponseWriter, r *http.Request) {
	lang, _ := h.locale(r)
	categories, err := h.uc.ListLocalizedCategories(r.Context(), lang)
	if err != nil {
		h.logger.Error("category list failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to load categories")
		return
	}
	writeJSON(w, http.StatusOK, categories)
}

func (h *Handler) categoryTree(w http.ResponseWriter, r *http.Request) {
	lang, _ := h.locale(r)
	tree, err := h.uc.GetCategoryTree(r.Context(), lang)
	if err != nil {
		h.logger.Error("category tree failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to load categories")
		return
	}
	writeJSON(w, http.StatusOK, tree)
}

func (h *Handler) organizedCategories(w http.ResponseWriter, r *http.Request) {
	lang, _ := h.locale(r)
	groups, err := h.uc.GetOrganizedCategories(r.Context(), lang)
	if err != nil {
		h.logger.Error("organized categories failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to load categories")
		return
	}
	writeJSON(w, http.StatusOK, groups)
}

func (h *Handler) stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.uc.GetCatalogStats(r.Context())
	if err != nil {
		h.logger.Error("stats failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to load stats")
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

type syncRequest struct {
	Type string `json:"type"`
}

func (h *Handler) runSync(w http.ResponseWriter, r *http.Request) {
	var req syncRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
	}

	var (
		result *syncer.SyncResult
		err    error
	)
	switch req.Type {
	case "", model.SyncTypeFull:
		result, err = h.sync.SyncAll(r.Context())
	case model.SyncTypeCategoriesOnly:
		result, err = h.sync.SyncCategories(r.Context())
	case model.SyncTypeProductsOnly:
		result, err = h.sync.SyncProducts(r.Context())
	case model.SyncTypeVariationsOnly:
		result, err = h.sync.SyncVariations(r.Context())
	default:
		writeError(w, http.StatusBadRequest, "unknown sync type")
		return
	}
	if err != nil {
		h.logger.Error("sync failed", zap.String("type", req.Type), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "sync failed")
		return
	}
	writeJSON(w, http.StatusOK, result)
}

type stockSyncRequest struct {
	RemoteIDs []int64 `json:"remote_ids"`
}

func (h *Handler) runStockSync(w http.ResponseWriter, r *http.Request) {
	var req stockSyncRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
	}

	result, err := h.sync.SyncStockAndPrices(r.Context(), req.RemoteIDs)
	if err != nil {
		h.logger.Error("stock sync failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "stock sync failed")
		return
	}
	writeJSON(w, http.StatusOK, result)
}

type translateRequest struct {
	Force bool `json:"force"`
}

func (h *Handler) runTranslate(w http.ResponseWriter, r *http.Request) {
	var req translateRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
	}

	stats, err := h.filler.FillAll(r.Context(), req.Force)
	if err != nil {
		h.logger.Error("translation fill failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "translation fill failed")
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (h *Handler) runWarmup(w http.ResponseWriter, r *http.Request) {
	results := h.scheduler.WarmupAll(r.Context())
	if results == nil {
		writeJSON(w, http.StatusConflict, map[string]string{"status": "warmup already in progress"})
		return
	}
	writeJSON(w, http.StatusOK, results)
}

func (h *Handler) locale(r *http.Request) (lang, currency string) {
	lang = r.URL.Query().Get("lang")
	if lang == "" {
		lang = h.defaultLang
	}
	currency = r.URL.Query().Get("currency")
	if currency == "" {
		currency = h.defaultCurrency
	}
	return lang, currency
}

func queryInt(r *http.Request, name string, def int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return v
}

func queryInt64(r *http.Request, name string, def int64) int64 {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return def
	}
	return v
}

func writeJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}
