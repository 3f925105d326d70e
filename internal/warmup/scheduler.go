package warmup

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/andeanmarket/catalog-service/pkg/logger"
)

// Warmer recomputes a cached response payload and rewrites its cache slot.
type Warmer interface {
	WarmCategoryList(ctx context.Context, lang string) error
	WarmOrganizedCategories(ctx context.Context, lang string) error
	WarmStats(ctx context.Context) error
	WarmTopCategoryProducts(ctx context.Context, topK, perPage int, lang, currencyCode string) error
}

// Scheduler re-warms the response caches on a fixed interval so storefront
// reads rarely hit a cold slot. The interval must stay below the cache TTL.
type Scheduler struct {
	warmer        Warmer
	logger        logger.Logger
	interval      time.Duration
	languages     []string
	currencies    []string
	topCategories int
	topProducts   int

	running sync.Mutex
	stop    chan struct{}
	done    chan struct{}
	started bool
}

type SchedulerConfig struct {
	Interval      time.Duration
	Languages     []string
	Currencies    []string
	TopCategories int
	TopProducts   int
}

func NewScheduler(warmer Warmer, cfg SchedulerConfig, log logger.Logger) *Scheduler {
	interval := cfg.Interval
	if interval <= 0 {
		interval = 50 * time.Minute
	}
	return &Scheduler{
		warmer:        warmer,
		logger:        log,
		interval:      interval,
		languages:     cfg.Languages,
		currencies:    cfg.Currencies,
		topCategories: cfg.TopCategories,
		topProducts:   cfg.TopProducts,
		stop:          make(chan struct{}),
		done:          make(chan struct{}),
	}
}

// Start launches the warmup loop. It warms once immediately, then on every
// tick. Safe to call once; Stop waits for the loop to exit.
func (s *Scheduler) Start(ctx context.Context) {
	if s.started {
		return
	}
	s.started = true

	go func() {
		defer close(s.done)

		s.runOnce(ctx)

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-s.stop:
				return
			case <-ticker.C:
				s.runOnce(ctx)
			}
		}
	}()
}

func (s *Scheduler) Stop() {
	if !s.started {
		return
	}
	close(s.stop)
	<-s.done
}

func (s *Scheduler) runOnce(ctx context.Context) {
	results := s.WarmupAll(ctx)
	if results == nil {
		return
	}
	failed := 0
	for _, ok := range results {
		if !ok {
			failed++
		}
	}
	s.logger.Info("warmup cycle finished",
		zap.Int("tasks", len(results)),
		zap.Int("failed", failed))
}

// WarmupAll runs every warm task once and reports per-task success. If a
// previous run is still in flight the overlapping run is dropped and nil is
// returned.
func (s *Scheduler) WarmupAll(ctx context.Context) map[string]bool {
	if !s.running.TryLock() {
		s.logger.Warn("warmup already in progress, skipping run")
		return nil
	}
	defer s.running.Unlock()

	results := make(map[string]bool)

	results["catalog_stats"] = s.run(ctx, "catalog_stats", s.warmer.WarmStats)

	for _, lang := range s.languages {
		lang := lang
		results["category_list:"+lang] = s.run(ctx, "category_list:"+lang, func(ctx context.Context) error {
			return s.warmer.WarmCategoryList(ctx, lang)
		})
		results["organized_categories:"+lang] = s.run(ctx, "organized_categories:"+lang, func(ctx context.Context) error {
			return s.warmer.WarmOrganizedCategories(ctx, lang)
		})
		for _, cur := range s.currencies {
			cur := cur
			name := "top_category_products:" + lang + ":" + cur
			results[name] = s.run(ctx, name, func(ctx context.Context) error {
				return s.warmer.WarmTopCategoryProducts(ctx, s.topCategories, s.topProducts, lang, cur)
			})
		}
	}

	return results
}

func (s *Scheduler) run(ctx context.Context, name string, task func(context.Context) error) bool {
	if err := task(ctx); err != nil {
		s.logger.Warn("warmup task failed", zap.String("task", name), zap.Error(err))
		return false
	}
	return true
}
