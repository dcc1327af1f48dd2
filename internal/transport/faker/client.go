// Package faker is the outbound client for the remote product catalog
// (a fakerapi.it-style provider). The core treats the provider as
// opaque: no retries, no caching, failures surface as a single
// sentinel the view layer turns into an error flag.
package faker

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/kiosk-labs/storefront/internal/domain"
	"github.com/kiosk-labs/storefront/internal/metrics"
)

// PageAll requests the full catalog instead of a single page.
const PageAll = 0

// Client fetches products over HTTP.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	pageSize    int
	allQuantity int
	logger      *zap.Logger
}

// Config holds the catalog provider settings.
type Config struct {
	BaseURL     string
	PageSize    int
	AllQuantity int
	Timeout     time.Duration
	Logger      *zap.Logger
}

// NewClient creates a catalog client.
func NewClient(cfg *Config) *Client {
	pageSize := cfg.PageSize
	if pageSize <= 0 {
		pageSize = 12
	}
	allQuantity := cfg.AllQuantity
	if allQuantity <= 0 {
		allQuantity = 1000
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		httpClient:  &http.Client{Timeout: timeout},
		baseURL:     cfg.BaseURL,
		pageSize:    pageSize,
		allQuantity: allQuantity,
		logger:      logger,
	}
}

// productsResponse is the provider envelope.
type productsResponse struct {
	Data []domain.Product `json:"data"`
}

// Products implements browse.CatalogProvider. page >= 1 fetches a
// fixed-size page; PageAll fetches the full catalog in one request.
func (c *Client) Products(ctx context.Context, page int) ([]domain.Product, error) {
	q := url.Values{}
	if page == PageAll {
		q.Set("_quantity", strconv.Itoa(c.allQuantity))
	} else {
		q.Set("_quantity", strconv.Itoa(c.pageSize))
		q.Set("_page", strconv.Itoa(page))
	}
	reqURL := c.baseURL + "/products?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("build catalog request: %w", err)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	duration := time.Since(start)

	if err != nil {
		metrics.CatalogRequestsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("catalog request failed: %w: %w", err, domain.ErrCatalogUnavailable)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		metrics.CatalogRequestsTotal.WithLabelValues("error").Inc()
		c.logger.Warn("catalog provider returned non-200",
			zap.Int("status", resp.StatusCode),
			zap.String("url", reqURL),
		)
		return nil, fmt.Errorf("catalog status %d: %w", resp.StatusCode, domain.ErrCatalogUnavailable)
	}

	var payload productsResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		metrics.CatalogRequestsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("decode catalog response: %w: %w", err, domain.ErrCatalogUnavailable)
	}

	metrics.CatalogRequestsTotal.WithLabelValues("success").Inc()
	metrics.CatalogRequestDuration.Observe(duration.Seconds())

	return payload.Data, nil
}

// HealthCheck verifies provider availability with a one-product fetch.
func (c *Client) HealthCheck(ctx context.Context) error {
	req, err := http.NewRequestWithContext(
		ctx, http.MethodGet, c.baseURL+"/products?_quantity=1", http.NoBody,
	)
	if err != nil {
		return fmt.Errorf("build health request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("catalog health check: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("catalog health check status %d", resp.StatusCode)
	}
	return nil
}
