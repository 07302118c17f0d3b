// Package marketplace contains the connectors that pull catalog and
// order data out of external sales channels.
package marketplace

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/bookpress/backend/internal/domain/integration"
	"github.com/bookpress/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// WooCommerceClient talks to the WooCommerce REST API (wc/v3).
// Authentication is HTTP basic with the consumer key and secret.
type WooCommerceClient struct {
	cfg           config.WooCommerceConfig
	productClient *http.Client
	orderClient   *http.Client
	logger        *zap.Logger
}

// NewWooCommerceClient creates a new WooCommerce connector
func NewWooCommerceClient(cfg config.WooCommerceConfig, logger *zap.Logger) *WooCommerceClient {
	return &WooCommerceClient{
		cfg:           cfg,
		productClient: &http.Client{Timeout: cfg.ProductTimeout},
		orderClient:   &http.Client{Timeout: cfg.OrderTimeout},
		logger:        logger,
	}
}

// Marketplace returns the channel this client talks to
func (c *WooCommerceClient) Marketplace() integration.Marketplace {
	return integration.MarketplaceWooCommerce
}

// Configured reports whether store credentials are present
func (c *WooCommerceClient) Configured() bool {
	return c.cfg.Configured()
}

// FetchProducts returns one page of products from the store catalog
func (c *WooCommerceClient) FetchProducts(ctx context.Context, page integration.Pagination) ([]integration.RawProduct, error) {
	docs, err := c.fetchList(ctx, c.productClient, "/wp-json/wc/v3/products", page, nil)
	if err != nil {
		return nil, err
	}
	products := make([]integration.RawProduct, 0, len(docs))
	for _, doc := range docs {
		products = append(products, integration.RawProduct{
			Source: integration.MarketplaceWooCommerce,
			Fields: doc,
		})
	}
	return products, nil
}

// FetchOrders returns one page of orders restricted to the given statuses
func (c *WooCommerceClient) FetchOrders(ctx context.Context, page integration.Pagination, statuses []string) ([]integration.RawOrder, error) {
	docs, err := c.fetchList(ctx, c.orderClient, "/wp-json/wc/v3/orders", page, statuses)
	if err != nil {
		return nil, err
	}
	orders := make([]integration.RawOrder, 0, len(docs))
	for _, doc := range docs {
		orders = append(orders, integration.RawOrder{
			Source: integration.MarketplaceWooCommerce,
			Fields: doc,
		})
	}
	return orders, nil
}

func (c *WooCommerceClient) fetchList(ctx context.Context, client *http.Client, path string, page integration.Pagination, statuses []string) ([]map[string]any, error) {
	url := strings.TrimSuffix(c.cfg.BaseURL, "/") + path +
		"?per_page=" + strconv.Itoa(page.PerPage) +
		"&page=" + strconv.Itoa(page.Page)
	if len(statuses) > 0 {
		url += "&status=" + strings.Join(statuses, ",")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("woocommerce: failed to build request: %w", err)
	}
	req.SetBasicAuth(c.cfg.ConsumerKey, c.cfg.ConsumerSecret)
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: woocommerce: %v", integration.ErrMarketplaceUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, fmt.Errorf("%w: woocommerce: status %d", integration.ErrMarketplaceAuthFailed, resp.StatusCode)
	case resp.StatusCode >= http.StatusBadRequest:
		return nil, fmt.Errorf("woocommerce: %s returned status %d", path, resp.StatusCode)
	}

	var docs []map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&docs); err != nil {
		return nil, fmt.Errorf("woocommerce: failed to decode %s response: %w", path, err)
	}
	return docs, nil
}
