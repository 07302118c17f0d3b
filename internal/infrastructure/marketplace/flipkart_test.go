package marketplace

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bookpress/backend/internal/domain/integration"
	"github.com/bookpress/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func writeExport(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
}

func TestFlipkartSourceFetchProducts(t *testing.T) {
	dir := t.TempDir()
	writeExport(t, dir, "products.csv",
		"product_id,product_name,selling_price,brand\nFK-1,Learning Go,499,Tech Press\nFK-2,Clean Code,350,Acme\n")

	source := NewFlipkartSource(config.FlipkartConfig{ExportDir: dir}, zap.NewNop())
	require.True(t, source.Configured())

	products, err := source.FetchProducts(context.Background(), integration.Pagination{Page: 1, PerPage: 100})
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, integration.MarketplaceFlipkart, products[0].Source)
	assert.Equal(t, "FK-1", products[0].Fields["product_id"])
	assert.Equal(t, "Tech Press", products[0].Fields["brand"])
}

func TestFlipkartSourcePagination(t *testing.T) {
	dir := t.TempDir()
	var sb strings.Builder
	sb.WriteString("product_id,product_name\n")
	sb.WriteString("FK-1,Book One\nFK-2,Book Two\nFK-3,Book Three\n")
	writeExport(t, dir, "products.csv", sb.String())

	source := NewFlipkartSource(config.FlipkartConfig{ExportDir: dir}, zap.NewNop())

	page1, err := source.FetchProducts(context.Background(), integration.Pagination{Page: 1, PerPage: 2})
	require.NoError(t, err)
	assert.Len(t, page1, 2)

	page2, err := source.FetchProducts(context.Background(), integration.Pagination{Page: 2, PerPage: 2})
	require.NoError(t, err)
	assert.Len(t, page2, 1)

	page3, err := source.FetchProducts(context.Background(), integration.Pagination{Page: 3, PerPage: 2})
	require.NoError(t, err)
	assert.Empty(t, page3)
}

func TestFlipkartSourceFetchOrdersFiltersStatus(t *testing.T) {
	dir := t.TempDir()
	writeExport(t, dir, "orders.csv",
		"order_id,order_status,order_total\nOD-1,completed,700\nOD-2,cancelled,100\nOD-3,,250\n")

	source := NewFlipkartSource(config.FlipkartConfig{ExportDir: dir}, zap.NewNop())

	orders, err := source.FetchOrders(context.Background(), integration.Pagination{Page: 1, PerPage: 100},
		[]string{"completed", "processing"})
	require.NoError(t, err)
	require.Len(t, orders, 2, "cancelled row dropped, blank status counts as completed")
	assert.Equal(t, "OD-1", orders[0].Fields["order_id"])
	assert.Equal(t, "OD-3", orders[1].Fields["order_id"])
}

func TestFlipkartSourceMissingExportIsEmpty(t *testing.T) {
	source := NewFlipkartSource(config.FlipkartConfig{ExportDir: t.TempDir()}, zap.NewNop())

	products, err := source.FetchProducts(context.Background(), integration.Pagination{Page: 1, PerPage: 100})
	require.NoError(t, err)
	assert.Empty(t, products)

	orders, err := source.FetchOrders(context.Background(), integration.Pagination{Page: 1, PerPage: 100}, nil)
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestFlipkartSourceDecodeRejectsGarbage(t *testing.T) {
	source := NewFlipkartSource(config.FlipkartConfig{ExportDir: "/tmp"}, zap.NewNop())
	_, err := source.DecodeProducts(strings.NewReader(""))
	assert.Error(t, err)
}

func TestRegistry(t *testing.T) {
	woo := NewWooCommerceClient(config.WooCommerceConfig{}, zap.NewNop())
	flipkart := NewFlipkartSource(config.FlipkartConfig{}, zap.NewNop())
	registry := NewRegistry(woo, flipkart)

	t.Run("resolves by code", func(t *testing.T) {
		client, err := registry.Client(integration.MarketplaceWooCommerce)
		require.NoError(t, err)
		assert.Equal(t, integration.MarketplaceWooCommerce, client.Marketplace())
	})

	t.Run("unknown code", func(t *testing.T) {
		_, err := registry.Client(integration.MarketplaceAmazon)
		assert.ErrorIs(t, err, integration.ErrMarketplaceUnknown)
	})

	t.Run("preserves registration order", func(t *testing.T) {
		clients := registry.Clients()
		require.Len(t, clients, 2)
		assert.Equal(t, integration.MarketplaceWooCommerce, clients[0].Marketplace())
		assert.Equal(t, integration.MarketplaceFlipkart, clients[1].Marketplace())
	})
}
