package pricing

import (
	"context"
	"math"

	"go.uber.org/zap"

	"github.com/andeanmarket/catalog-service/internal/model"
	"github.com/andeanmarket/catalog-service/pkg/logger"
)

// Resolver converts a raw supplier price into a sell price. The chain is:
// first active margin among the product's categories in stored order, then
// the active default margin, then the raw price unchanged. It never fails:
// a store error downgrades to the raw price with a warning.
type Resolver struct {
	repo   MarginRepository
	logger logger.Logger
}

func NewResolver(repo MarginRepository, log logger.Logger) *Resolver {
	return &Resolver{repo: repo, logger: log}
}

func (r *Resolver) Resolve(ctx context.Context, raw float64, categories []model.Category) float64 {
	if len(categories) == 0 {
		return r.resolveDefault(ctx, raw)
	}

	categoryIDs := make([]string, 0, len(categories))
	for _, c := range categories {
		categoryIDs = append(categoryIDs, c.ID)
	}

	margins, err := r.repo.GetMarginsByCategoryIDs(ctx, categoryIDs)
	if err != nil {
		r.logger.Warn("margin lookup failed, serving raw price", zap.Error(err))
		return raw
	}

	for _, c := range categories {
		if m, ok := margins[c.ID]; ok && m.IsActive {
			return applyMargin(raw, m.Percentage, m.Multiplier, m.UseMultiplier)
		}
	}

	return r.resolveDefault(ctx, raw)
}

func (r *Resolver) resolveDefault(ctx context.Context, raw float64) float64 {
	def, err := r.repo.GetActiveDefaultMargin(ctx)
	if err != nil {
		r.logger.Warn("default margin lookup failed, serving raw price", zap.Error(err))
		return raw
	}
	if def == nil {
		return raw
	}
	return applyMargin(raw, def.Percentage, def.Multiplier, def.UseMultiplier)
}

// applyMargin keeps full float precision; rounding happens only at display.
func applyMargin(raw, percentage, multiplier float64, useMultiplier bool) float64 {
	if useMultiplier {
		return raw * multiplier
	}
	return raw * (1 + percentage/100)
}

// RoundHalfAwayFromZero is the display rounding policy for money values.
func RoundHalfAwayFromZero(v float64, decimals int) float64 {
	shift := math.Pow(10, float64(decimals))
	return math.Round(v*shift) / shift
}
