package currency

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/andeanmarket/catalog-service/config"
	"github.com/andeanmarket/catalog-service/internal/pricing"
	"github.com/andeanmarket/catalog-service/pkg/logger"
)

// RateSource fetches the native→foreign exchange rate once.
type RateSource interface {
	FetchRate(ctx context.Context) (float64, error)
}

// HTTPRateSource reads the rate from an open exchange-rate API responding
// with {"rates": {"USD": 0.00026, ...}}.
type HTTPRateSource struct {
	url      string
	currency string
	client   *http.Client
}

func NewHTTPRateSource(cfg *config.ExchangeConfig) *HTTPRateSource {
	return &HTTPRateSource{
		url:      cfg.SourceURL,
		currency: cfg.ForeignCurrency,
		client:   &http.Client{Timeout: 30 * time.Second},
	}
}

func (s *HTTPRateSource) FetchRate(ctx context.Context) (float64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return 0, err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("exchange rate request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("exchange rate source: unexpected status code: %s", resp.Status)
	}

	var payload struct {
		Rates map[string]float64 `json:"rates"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return 0, fmt.Errorf("exchange rate source: decoding response: %w", err)
	}

	rate, ok := payload.Rates[s.currency]
	if !ok || rate <= 0 {
		return 0, fmt.Errorf("exchange rate source: no usable rate for %s", s.currency)
	}
	return rate, nil
}

// Converter renders margin-adjusted prices in the caller's currency. The rate
// lives in a single process-wide slot with a TTL; when the source is
// unreachable the configured fallback constant is served, never an error.
type Converter struct {
	source   RateSource
	logger   logger.Logger
	native   string
	foreign  string
	ttl      time.Duration
	fallback float64

	mu        sync.Mutex
	rate      float64
	fetchedAt time.Time
}

func NewConverter(cfg *config.ExchangeConfig, source RateSource, log logger.Logger) *Converter {
	return &Converter{
		source:   source,
		logger:   log,
		native:   cfg.NativeCurrency,
		foreign:  cfg.ForeignCurrency,
		ttl:      cfg.TTL,
		fallback: cfg.FallbackRate,
	}
}

// Convert applies the display rounding policy: the native currency has zero
// decimal places, the foreign currency two. Unknown currencies are treated as
// native. Conversion always runs after margin resolution, never before.
func (c *Converter) Convert(ctx context.Context, amount float64, target string) float64 {
	if target != c.foreign {
		return pricing.RoundHalfAwayFromZero(amount, 0)
	}
	return pricing.RoundHalfAwayFromZero(amount*c.Rate(ctx), 2)
}

// Rate returns the cached rate, refreshing it once the TTL lapses.
func (c *Converter) Rate(ctx context.Context) float64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.rate > 0 && time.Since(c.fetchedAt) < c.ttl {
		return c.rate
	}

	rate, err := c.source.FetchRate(ctx)
	if err != nil {
		// The slot is left unset so the next call retries the source.
		c.logger.Warn("exchange rate fetch failed, using fallback rate",
			zap.Error(err), zap.Float64("fallback", c.fallback))
		return c.fallback
	}

	c.rate = rate
	c.fetchedAt = time.Now()
	return c.rate
}

// Native reports the catalog's native currency code.
func (c *Converter) Native() string { return c.native }

// Foreign reports the supported foreign currency code.
func (c *Converter) Foreign() string { return c.foreign }
