package usecase

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/andeanmarket/catalog-service/internal/catalog"
	"github.com/andeanmarket/catalog-service/internal/catalog/dto"
	"github.com/andeanmarket/catalog-service/internal/currency"
	"github.com/andeanmarket/catalog-service/internal/model"
	"github.com/andeanmarket/catalog-service/internal/pricing"
	"github.com/andeanmarket/catalog-service/internal/remote"
	"github.com/andeanmarket/catalog-service/internal/translate"
	"github.com/andeanmarket/catalog-service/pkg/logger"
)

// Service assembles localized read responses: store query, translation cache
// lookup (raw text on miss), margin resolution, then currency conversion,
// always in that order.
type Service struct {
	repo         catalog.Repository
	translations translate.CacheRepository
	resolver     *pricing.Resolver
	converter    *currency.Converter
	client       remote.CatalogClient
	cache        catalog.ResponseCache
	logger       logger.Logger
	sourceLang   string
	themes       map[string][]int64
	cacheTTL     time.Duration
}

func NewService(
	repo catalog.Repository,
	translations translate.CacheRepository,
	resolver *pricing.Resolver,
	converter *currency.Converter,
	client remote.CatalogClient,
	cache catalog.ResponseCache,
	sourceLang string,
	themes map[string][]int64,
	cacheTTL time.Duration,
	log logger.Logger,
) *Service {
	return &Service{
		repo:         repo,
		translations: translations,
		resolver:     resolver,
		converter:    converter,
		client:       client,
		cache:        cache,
		logger:       log,
		sourceLang:   sourceLang,
		themes:       themes,
		cacheTTL:     cacheTTL,
	}
}

func (s *Service) GetLocalizedProductPage(ctx context.Context, categoryRemoteID int64, page, perPage int, lang, currencyCode string) (*dto.LocalizedProductPage, error) {
	if page < 1 {
		page = 1
	}
	if perPage <= 0 {
		perPage = 20
	}

	cacheKey := productPageKey(categoryRemoteID, page, perPage, lang, currencyCode)
	var cached dto.LocalizedProductPage
	if found, err := s.cacheGet(ctx, cacheKey, &cached); err == nil && found {
		return &cached, nil
	}

	result, err := s.buildProductPage(ctx, categoryRemoteID, page, perPage, lang, currencyCode)
	if err != nil {
		return nil, err
	}

	s.cacheSet(ctx, cacheKey, result)
	return result, nil
}

func (s *Service) buildProductPage(ctx context.Context, categoryRemoteID int64, page, perPage int, lang, currencyCode string) (*dto.LocalizedProductPage, error) {
	pageData, err := s.repo.ListPublishedProducts(ctx, categoryRemoteID, page, perPage)
	if err != nil {
		return nil, err
	}
	products, err := s.repo.LoadProductRelations(ctx, pageData.Products)
	if err != nil {
		return nil, err
	}

	items := make([]dto.LocalizedProduct, 0, len(products))
	for i := range products {
		p := &products[i]
		item := dto.LocalizedProduct{
			RemoteID:         p.RemoteID,
			Name:             s.translated(ctx, model.ContentTypeProductName, p.RemoteID, p.Name, lang),
			Slug:             p.Slug,
			Type:             p.Type,
			ShortDescription: s.translated(ctx, model.ContentTypeProductShortDesc, p.RemoteID, p.ShortDescription, lang),
			OnSale:           p.OnSale,
			Currency:         currencyCode,
			StockStatus:      p.StockStatus,
		}
		item.Price, item.RegularPrice, item.SalePrice = s.sellPrices(ctx, p, currencyCode)
		if len(p.Images) > 0 {
			item.ImageURL = p.Images[0].URL
		}
		if len(p.Categories) > 0 {
			c := p.Categories[0]
			item.CategoryName = s.translated(ctx, model.ContentTypeCategoryName, c.RemoteID, c.Name, lang)
		}
		if p.Type == model.ProductTypeVariable {
			count, err := s.repo.CountVariations(ctx, p.ID)
			if err != nil {
				s.logger.Warn("variation count failed", zap.Int64("remote_id", p.RemoteID), zap.Error(err))
			}
			item.VariationCount = count
		}
		items = append(items, item)
	}

	return &dto.LocalizedProductPage{
		Items:    items,
		Total:    pageData.Total,
		Page:     page,
		PerPage:  perPage,
		Lang:     lang,
		Currency: currencyCode,
	}, nil
}

func (s *Service) GetLocalizedProductDetail(ctx context.Context, remoteID int64, lang, currencyCode string, includeRealtimeStock bool) (*dto.LocalizedProductDetail, error) {
	p, err := s.repo.GetProductByRemoteID(ctx, remoteID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, catalog.ErrProductNotFound
	}

	if includeRealtimeStock {
		// Live stock is best-effort; the stored snapshot is the fallback.
		if rec, err := s.client.GetProductByID(ctx, remoteID); err != nil {
			s.logger.Warn("realtime stock fetch failed, serving stored values",
				zap.Int64("remote_id", remoteID), zap.Error(err))
		} else {
			p.StockStatus = rec.StockStatus
			p.StockQuantity = rec.StockQuantity
			p.ManageStock = rec.ManageStock
		}
	}

	detail := &dto.LocalizedProductDetail{
		RemoteID:         p.RemoteID,
		Name:             s.translated(ctx, model.ContentTypeProductName, p.RemoteID, p.Name, lang),
		Slug:             p.Slug,
		Permalink:        p.Permalink,
		Type:             p.Type,
		ShortDescription: s.translated(ctx, model.ContentTypeProductShortDesc, p.RemoteID, p.ShortDescription, lang),
		Description:      s.translated(ctx, model.ContentTypeProductDescription, p.RemoteID, p.Description, lang),
		OnSale:           p.OnSale,
		Currency:         currencyCode,
		StockStatus:      p.StockStatus,
		StockQuantity:    p.StockQuantity,
		RatingAverage:    p.RatingAverage,
		RatingCount:      p.RatingCount,
		Lang:             lang,
	}
	detail.Price, detail.RegularPrice, detail.SalePrice = s.sellPrices(ctx, p, currencyCode)

	for _, img := range p.Images {
		detail.Images = append(detail.Images, dto.ProductImageView{URL: img.URL, Alt: img.Alt, Position: img.Position})
	}
	for _, c := range p.Categories {
		detail.Categories = append(detail.Categories, s.localizedCategory(ctx, &c, lang))
	}

	if p.Type == model.ProductTypeVariable {
		detail.Attributes = flattenAttributes(p.Attributes)
		variations, err := s.repo.ListVariations(ctx, p.ID)
		if err != nil {
			return nil, err
		}
		for i := range variations {
			v := &variations[i]
			lv := dto.LocalizedVariation{
				RemoteID:      v.RemoteID,
				Attributes:    v.Attributes,
				OnSale:        v.OnSale,
				StockStatus:   v.StockStatus,
				StockQuantity: v.StockQuantity,
				ImageURL:      v.ImageURL,
			}
			lv.Price = s.converter.Convert(ctx, s.resolver.Resolve(ctx, v.Price, p.Categories), currencyCode)
			lv.RegularPrice = s.converter.Convert(ctx, s.resolver.Resolve(ctx, v.RegularPrice, p.Categories), currencyCode)
			lv.SalePrice = s.converter.Convert(ctx, s.resolver.Resolve(ctx, v.SalePrice, p.Categories), currencyCode)
			detail.Variations = append(detail.Variations, lv)
		}
	}

	return detail, nil
}

func (s *Service) ListLocalizedCategories(ctx context.Context, lang string) ([]dto.LocalizedCategory, error) {
	cacheKey := fmt.Sprintf("warm:categories:%s", lang)
	var cached []dto.LocalizedCategory
	if found, err := s.cacheGet(ctx, cacheKey, &cached); err == nil && found {
		return cached, nil
	}

	categories, err := s.buildCategoryList(ctx, lang)
	if err != nil {
		return nil, err
	}
	s.cacheSet(ctx, cacheKey, categories)
	return categories, nil
}

func (s *Service) buildCategoryList(ctx context.Context, lang string) ([]dto.LocalizedCategory, error) {
	categories, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.LocalizedCategory, 0, len(categories))
	for i := range categories {
		out = append(out, s.localizedCategory(ctx, &categories[i], lang))
	}
	return out, nil
}

func (s *Service) GetCategoryTree(ctx context.Context, lang string) ([]dto.CategoryNode, error) {
	categories, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, err
	}

	childrenOf := make(map[string][]*model.Category)
	var roots []*model.Category
	for i := range categories {
		c := &categories[i]
		if c.ParentID != nil {
			childrenOf[*c.ParentID] = append(childrenOf[*c.ParentID], c)
			continue
		}
		roots = append(roots, c)
	}

	var build func(c *model.Category) dto.CategoryNode
	build = func(c *model.Category) dto.CategoryNode {
		node := dto.CategoryNode{LocalizedCategory: s.localizedCategory(ctx, c, lang)}
		for _, child := range childrenOf[c.ID] {
			node.Children = append(node.Children, build(child))
		}
		return node
	}

	out := make([]dto.CategoryNode, 0, len(roots))
	for _, r := range roots {
		out = append(out, build(r))
	}
	return out, nil
}

func (s *Service) GetOrganizedCategories(ctx context.Context, lang string) ([]dto.ThemeGroup, error) {
	cacheKey := fmt.Sprintf("warm:organized:%s", lang)
	var cached []dto.ThemeGroup
	if found, err := s.cacheGet(ctx, cacheKey, &cached); err == nil && found {
		return cached, nil
	}

	groups, err := s.buildOrganizedCategories(ctx, lang)
	if err != nil {
		return nil, err
	}
	s.cacheSet(ctx, cacheKey, groups)
	return groups, nil
}

func (s *Service) buildOrganizedCategories(ctx context.Context, lang string) ([]dto.ThemeGroup, error) {
	categories, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	byRemoteID := make(map[int64]*model.Category, len(categories))
	for i := range categories {
		byRemoteID[categories[i].RemoteID] = &categories[i]
	}

	themeNames := make([]string, 0, len(s.themes))
	for name := range s.themes {
		themeNames = append(themeNames, name)
	}
	sort.Strings(themeNames)

	groups := make([]dto.ThemeGroup, 0, len(themeNames))
	for _, name := range themeNames {
		group := dto.ThemeGroup{Theme: name}
		for _, remoteID := range s.themes[name] {
			// Categories absent from the allow-list are simply omitted here;
			// they stay reachable through the flat list.
			c, ok := byRemoteID[remoteID]
			if !ok {
				continue
			}
			group.Categories = append(group.Categories, s.localizedCategory(ctx, c, lang))
		}
		groups = append(groups, group)
	}
	return groups, nil
}

func (s *Service) GetCatalogStats(ctx context.Context) (*catalog.CatalogStats, error) {
	const cacheKey = "warm:stats"
	var cached catalog.CatalogStats
	if found, err := s.cacheGet(ctx, cacheKey, &cached); err == nil && found {
		return &cached, nil
	}

	stats, err := s.repo.Stats(ctx)
	if err != nil {
		return nil, err
	}
	s.cacheSet(ctx, cacheKey, stats)
	return stats, nil
}

// Warm* methods recompute fresh payloads bypassing the cache and rewrite the
// corresponding slot. Driven by the warmup scheduler.

func (s *Service) WarmCategoryList(ctx context.Context, lang string) error {
	categories, err := s.buildCategoryList(ctx, lang)
	if err != nil {
		return err
	}
	return s.cache.Set(ctx, fmt.Sprintf("warm:categories:%s", lang), categories, s.cacheTTL)
}

func (s *Service) WarmOrganizedCategories(ctx context.Context, lang string) error {
	groups, err := s.buildOrganizedCategories(ctx, lang)
	if err != nil {
		return err
	}
	return s.cache.Set(ctx, fmt.Sprintf("warm:organized:%s", lang), groups, s.cacheTTL)
}

func (s *Service) WarmStats(ctx context.Context) error {
	stats, err := s.repo.Stats(ctx)
	if err != nil {
		return err
	}
	return s.cache.Set(ctx, "warm:stats", stats, s.cacheTTL)
}

// WarmTopCategoryProducts refreshes the first page of the top-K categories.
func (s *Service) WarmTopCategoryProducts(ctx context.Context, topK, perPage int, lang, currencyCode string) error {
	top, err := s.repo.TopCategories(ctx, topK)
	if err != nil {
		return err
	}
	for _, c := range top {
		page, err := s.buildProductPage(ctx, c.RemoteID, 1, perPage, lang, currencyCode)
		if err != nil {
			return fmt.Errorf("warming category %d: %w", c.RemoteID, err)
		}
		key := productPageKey(c.RemoteID, 1, perPage, lang, currencyCode)
		if err := s.cache.Set(ctx, key, page, s.cacheTTL); err != nil {
			return err
		}
	}
	return nil
}

// sellPrices runs the raw price fields through margin resolution and currency
// conversion. Conversion always comes after the margin, never before.
func (s *Service) sellPrices(ctx context.Context, p *model.Product, currencyCode string) (price, regular, sale float64) {
	price = s.converter.Convert(ctx, s.resolver.Resolve(ctx, p.Price, p.Categories), currencyCode)
	regular = s.converter.Convert(ctx, s.resolver.Resolve(ctx, p.RegularPrice, p.Categories), currencyCode)
	sale = s.converter.Convert(ctx, s.resolver.Resolve(ctx, p.SalePrice, p.Categories), currencyCode)
	return price, regular, sale
}

// translated falls back to the raw source text on any miss or error; the
// translation cache is an optimization, never a hard dependency.
func (s *Service) translated(ctx context.Context, contentType string, objectID int64, raw, lang string) string {
	if raw == "" || lang == "" || lang == s.sourceLang {
		return raw
	}
	text, found, err := s.translations.GetCached(ctx, contentType, objectID, lang)
	if err != nil {
		s.logger.Warn("translation cache read failed",
			zap.String("content_type", contentType), zap.Int64("object_id", objectID), zap.Error(err))
		return raw
	}
	if !found {
		return raw
	}
	return text
}

func (s *Service) localizedCategory(ctx context.Context, c *model.Category, lang string) dto.LocalizedCategory {
	return dto.LocalizedCategory{
		RemoteID:     c.RemoteID,
		Name:         s.translated(ctx, model.ContentTypeCategoryName, c.RemoteID, c.Name, lang),
		Slug:         c.Slug,
		Description:  c.Description,
		ProductCount: c.ProductCount,
		ImageURL:     c.ImageURL,
	}
}

func (s *Service) cacheGet(ctx context.Context, key string, dest interface{}) (bool, error) {
	if s.cache == nil {
		return false, nil
	}
	found, err := s.cache.Get(ctx, key, dest)
	if err != nil {
		s.logger.Warn("response cache read failed", zap.String("key", key), zap.Error(err))
		return false, err
	}
	return found, nil
}

func (s *Service) cacheSet(ctx context.Context, key string, value interface{}) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, key, value, s.cacheTTL); err != nil {
		s.logger.Warn("response cache write failed", zap.String("key", key), zap.Error(err))
	}
}

func productPageKey(categoryRemoteID int64, page, perPage int, lang, currencyCode string) string {
	return fmt.Sprintf("warm:products:%d:%d:%d:%s:%s", categoryRemoteID, page, perPage, lang, currencyCode)
}

func flattenAttributes(attrs model.AttributeList) map[string][]string {
	if len(attrs) == 0 {
		return nil
	}
	out := make(map[string][]string, len(attrs))
	for _, a := range attrs {
		out[a.Name] = a.Options
	}
	return out
}
