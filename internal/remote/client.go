package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"golang.org/x/time/rate"

	"github.com/andeanmarket/catalog-service/config"
)

// CatalogClient is the read-side of the supplier's catalog API.
type CatalogClient interface {
	ListCategories(ctx context.Context, page, perPage int) ([]CategoryRecord, error)
	ListProducts(ctx context.Context, page, perPage int, categoryID int64) ([]ProductRecord, error)
	ListVariations(ctx context.Context, productID int64, page, perPage int) ([]VariationRecord, error)
	GetProductByID(ctx context.Context, remoteID int64) (*ProductRecord, error)
}

// HTTPClient talks to a WooCommerce-style REST API with basic auth. Every
// request passes the rate limiter first so sync bursts cannot hammer the
// supplier.
type HTTPClient struct {
	baseURL        string
	consumerKey    string
	consumerSecret string
	client         *http.Client
	limiter        *rate.Limiter
}

func NewHTTPClient(cfg *config.CatalogAPIConfig) *HTTPClient {
	rps := cfg.RequestsPerSec
	if rps <= 0 {
		rps = 5
	}
	return &HTTPClient{
		baseURL:        cfg.BaseURL,
		consumerKey:    cfg.ConsumerKey,
		consumerSecret: cfg.ConsumerSecret,
		client:         &http.Client{Timeout: cfg.Timeout},
		limiter:        rate.NewLimiter(rate.Limit(rps), int(rps)),
	}
}

func (c *HTTPClient) ListCategories(ctx context.Context, page, perPage int) ([]CategoryRecord, error) {
	var records []CategoryRecord
	params := url.Values{}
	params.Set("page", strconv.Itoa(page))
	params.Set("per_page", strconv.Itoa(perPage))
	if err := c.getJSON(ctx, "/products/categories", params, &records); err != nil {
		return nil, err
	}
	return records, nil
}

func (c *HTTPClient) ListProducts(ctx context.Context, page, perPage int, categoryID int64) ([]ProductRecord, error) {
	var records []ProductRecord
	params := url.Values{}
	params.Set("page", strconv.Itoa(page))
	params.Set("per_page", strconv.Itoa(perPage))
	if categoryID > 0 {
		params.Set("category", strconv.FormatInt(categoryID, 10))
	}
	if err := c.getJSON(ctx, "/products", params, &records); err != nil {
		return nil, err
	}
	return records, nil
}

func (c *HTTPClient) ListVariations(ctx context.Context, productID int64, page, perPage int) ([]VariationRecord, error) {
	var records []VariationRecord
	params := url.Values{}
	params.Set("page", strconv.Itoa(page))
	params.Set("per_page", strconv.Itoa(perPage))
	path := fmt.Sprintf("/products/%d/variations", productID)
	if err := c.getJSON(ctx, path, params, &records); err != nil {
		return nil, err
	}
	return records, nil
}

func (c *HTTPClient) GetProductByID(ctx context.Context, remoteID int64) (*ProductRecord, error) {
	var record ProductRecord
	path := fmt.Sprintf("/products/%d", remoteID)
	if err := c.getJSON(ctx, path, nil, &record); err != nil {
		return nil, err
	}
	return &record, nil
}

func (c *HTTPClient) getJSON(ctx context.Context, path string, params url.Values, out interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	reqURL := c.baseURL + path
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return err
	}
	req.SetBasicAuth(c.consumerKey, c.consumerSecret)
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("catalog api request %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("catalog api %s: unexpected status code: %s", path, resp.Status)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("catalog api %s: decoding response: %w", path, err)
	}
	return nil
}
