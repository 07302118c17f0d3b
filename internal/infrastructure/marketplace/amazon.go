package marketplace

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/bookpress/backend/internal/domain/integration"
	"github.com/bookpress/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// AmazonClient talks to the Amazon selling partner gateway using a
// bearer access token.
type AmazonClient struct {
	cfg    config.AmazonConfig
	client *http.Client
	logger *zap.Logger
}

// NewAmazonClient creates a new Amazon connector
func NewAmazonClient(cfg config.AmazonConfig, logger *zap.Logger) *AmazonClient {
	return &AmazonClient{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		logger: logger,
	}
}

// Marketplace returns the channel this client talks to
func (c *AmazonClient) Marketplace() integration.Marketplace {
	return integration.MarketplaceAmazon
}

// Configured reports whether channel credentials are present
func (c *AmazonClient) Configured() bool {
	return c.cfg.Configured()
}

// FetchProducts returns one page of catalog items
func (c *AmazonClient) FetchProducts(ctx context.Context, page integration.Pagination) ([]integration.RawProduct, error) {
	body, err := c.get(ctx, "/catalog/v0/items", page, nil)
	if err != nil {
		return nil, err
	}

	var payload struct {
		Items []map[string]any `json:"items"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("amazon: failed to decode catalog response: %w", err)
	}

	products := make([]integration.RawProduct, 0, len(payload.Items))
	for _, doc := range payload.Items {
		products = append(products, integration.RawProduct{
			Source: integration.MarketplaceAmazon,
			Fields: doc,
		})
	}
	return products, nil
}

// FetchOrders returns one page of orders restricted to the given statuses
func (c *AmazonClient) FetchOrders(ctx context.Context, page integration.Pagination, statuses []string) ([]integration.RawOrder, error) {
	body, err := c.get(ctx, "/orders/v0/orders", page, statuses)
	if err != nil {
		return nil, err
	}

	var payload struct {
		Payload struct {
			Orders []map[string]any `json:"Orders"`
		} `json:"payload"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("amazon: failed to decode orders response: %w", err)
	}

	orders := make([]integration.RawOrder, 0, len(payload.Payload.Orders))
	for _, doc := range payload.Payload.Orders {
		orders = append(orders, integration.RawOrder{
			Source: integration.MarketplaceAmazon,
			Fields: doc,
		})
	}
	return orders, nil
}

func (c *AmazonClient) get(ctx context.Context, path string, page integration.Pagination, statuses []string) ([]byte, error) {
	url := strings.TrimSuffix(c.cfg.Endpoint, "/") + path +
		"?page=" + strconv.Itoa(page.Page) +
		"&pageSize=" + strconv.Itoa(page.PerPage)
	if len(statuses) > 0 {
		url += "&statuses=" + strings.Join(statuses, ",")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("amazon: failed to build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.AccessToken)
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: amazon: %v", integration.ErrMarketplaceUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, fmt.Errorf("%w: amazon: status %d", integration.ErrMarketplaceAuthFailed, resp.StatusCode)
	case resp.StatusCode >= http.StatusBadRequest:
		return nil, fmt.Errorf("amazon: %s returned status %d", path, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("amazon: failed to read response: %w", err)
	}
	return body, nil
}
