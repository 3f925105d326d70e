package currency

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/andeanmarket/catalog-service/config"
	"github.com/andeanmarket/catalog-service/pkg/logger"
)

type stubRateSource struct {
	rate  float64
	err   error
	calls int
}

func (s *stubRateSource) FetchRate(ctx context.Context) (float64, error) {
	s.calls++
	return s.rate, s.err
}

func testExchangeConfig() *config.ExchangeConfig {
	return &config.ExchangeConfig{
		TTL:             time.Hour,
		FallbackRate:    0.00025,
		NativeCurrency:  "COP",
		ForeignCurrency: "USD",
	}
}

func TestConvert_NativeRoundsToWholeUnits(t *testing.T) {
	source := &stubRateSource{rate: 0.00026}
	c := NewConverter(testExchangeConfig(), source, logger.NewNop())

	assert.InDelta(t, 1000.0, c.Convert(context.Background(), 1000.4, "COP"), 1e-9)
	assert.InDelta(t, 1001.0, c.Convert(context.Background(), 1000.5, "COP"), 1e-9)
	// Native conversion never touches the rate source.
	assert.Equal(t, 0, source.calls)
}

func TestConvert_ForeignAppliesRateAndTwoDecimals(t *testing.T) {
	source := &stubRateSource{rate: 0.00026}
	c := NewConverter(testExchangeConfig(), source, logger.NewNop())

	got := c.Convert(context.Background(), 130000, "USD")

	assert.InDelta(t, 33.8, got, 1e-9)
	assert.Equal(t, 1, source.calls)
}

func TestConvert_UnknownCurrencyTreatedAsNative(t *testing.T) {
	source := &stubRateSource{rate: 0.00026}
	c := NewConverter(testExchangeConfig(), source, logger.NewNop())

	assert.InDelta(t, 1500.0, c.Convert(context.Background(), 1500.2, "EUR"), 1e-9)
	assert.Equal(t, 0, source.calls)
}

func TestRate_CachedWithinTTL(t *testing.T) {
	source := &stubRateSource{rate: 0.00026}
	c := NewConverter(testExchangeConfig(), source, logger.NewNop())

	first := c.Rate(context.Background())
	second := c.Rate(context.Background())

	assert.InDelta(t, 0.00026, first, 1e-12)
	assert.InDelta(t, 0.00026, second, 1e-12)
	assert.Equal(t, 1, source.calls)
}

func TestRate_SourceFailureServesFallbackAndRetries(t *testing.T) {
	source := &stubRateSource{err: errors.New("timeout")}
	c := NewConverter(testExchangeConfig(), source, logger.NewNop())

	assert.InDelta(t, 0.00025, c.Rate(context.Background()), 1e-12)
	assert.InDelta(t, 0.00025, c.Rate(context.Background()), 1e-12)
	// The failed fetch does not fill the slot, so every call retries.
	assert.Equal(t, 2, source.calls)

	source.err = nil
	source.rate = 0.00027
	assert.InDelta(t, 0.00027, c.Rate(context.Background()), 1e-12)
}

func TestRate_RefreshesAfterTTL(t *testing.T) {
	cfg := testExchangeConfig()
	cfg.TTL = time.Nanosecond
	source := &stubRateSource{rate: 0.00026}
	c := NewConverter(cfg, source, logger.NewNop())

	c.Rate(context.Background())
	time.Sleep(time.Millisecond)
	c.Rate(context.Background())

	assert.Equal(t, 2, source.calls)
}
