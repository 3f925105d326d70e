package warmup

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andeanmarket/catalog-service/pkg/logger"
)

type fakeWarmer struct {
	mu        sync.Mutex
	calls     []string
	statsErr  error
	blockOn   chan struct{}
	unblockOn chan struct{}
}

func (f *fakeWarmer) record(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, name)
}

func (f *fakeWarmer) WarmCategoryList(ctx context.Context, lang string) error {
	f.record("categories:" + lang)
	return nil
}

func (f *fakeWarmer) WarmOrganizedCategories(ctx context.Context, lang string) error {
	f.record("organized:" + lang)
	return nil
}

func (f *fakeWarmer) WarmStats(ctx context.Context) error {
	if f.blockOn != nil {
		close(f.blockOn)
		<-f.unblockOn
	}
	f.record("stats")
	return f.statsErr
}

func (f *fakeWarmer) WarmTopCategoryProducts(ctx context.Context, topK, perPage int, lang, currencyCode string) error {
	f.record("top:" + lang + ":" + currencyCode)
	return nil
}

func testSchedulerConfig() SchedulerConfig {
	return SchedulerConfig{
		Languages:     []string{"es", "en"},
		Currencies:    []string{"COP", "USD"},
		TopCategories: 5,
		TopProducts:   12,
	}
}

func TestWarmupAll_RunsEveryTask(t *testing.T) {
	warmer := &fakeWarmer{}
	s := NewScheduler(warmer, testSchedulerConfig(), logger.NewNop())

	results := s.WarmupAll(context.Background())

	require.NotNil(t, results)
	// stats + 2 langs * (categories + organized + 2 currencies).
	assert.Len(t, results, 9)
	for task, ok := range results {
		assert.True(t, ok, task)
	}
	assert.Contains(t, warmer.calls, "top:en:USD")
	assert.Contains(t, warmer.calls, "categories:es")
}

func TestWarmupAll_TaskFailureReportedNotFatal(t *testing.T) {
	warmer := &fakeWarmer{statsErr: errors.New("db down")}
	s := NewScheduler(warmer, testSchedulerConfig(), logger.NewNop())

	results := s.WarmupAll(context.Background())

	require.NotNil(t, results)
	assert.False(t, results["catalog_stats"])
	assert.True(t, results["category_list:es"])
}

func TestStart_ZeroIntervalFallsBackToDefault(t *testing.T) {
	warmer := &fakeWarmer{}
	cfg := testSchedulerConfig()
	cfg.Interval = 0
	s := NewScheduler(warmer, cfg, logger.NewNop())

	assert.Equal(t, 50*time.Minute, s.interval)

	s.Start(context.Background())
	s.Stop()

	// The immediate warm pass still ran before the loop exited.
	assert.Contains(t, warmer.calls, "stats")
}

func TestWarmupAll_OverlappingRunDropped(t *testing.T) {
	warmer := &fakeWarmer{
		blockOn:   make(chan struct{}),
		unblockOn: make(chan struct{}),
	}
	s := NewScheduler(warmer, testSchedulerConfig(), logger.NewNop())

	firstDone := make(chan map[string]bool)
	go func() {
		firstDone <- s.WarmupAll(context.Background())
	}()

	// Wait until the first run holds the lock, then try to overlap.
	<-warmer.blockOn
	warmer.blockOn = nil
	overlapping := s.WarmupAll(context.Background())
	assert.Nil(t, overlapping)

	close(warmer.unblockOn)
	first := <-firstDone
	require.NotNil(t, first)
	assert.Len(t, first, 9)
}
