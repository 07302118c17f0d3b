package marketplace

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"

	"github.com/bookpress/backend/internal/domain/integration"
	"github.com/bookpress/backend/internal/infrastructure/config"
	"github.com/bookpress/backend/internal/infrastructure/csvimport"
	"go.uber.org/zap"
)

// File names Flipkart seller exports are dropped under in the export directory
const (
	flipkartProductsFile = "products.csv"
	flipkartOrdersFile   = "orders.csv"
)

// FlipkartSource reads Flipkart seller CSV exports from a configured
// directory. It doubles as the decoder behind the HTTP upload endpoint,
// so file-drop and upload ingestion share one row mapping.
type FlipkartSource struct {
	cfg    config.FlipkartConfig
	logger *zap.Logger
}

// NewFlipkartSource creates a new Flipkart export source
func NewFlipkartSource(cfg config.FlipkartConfig, logger *zap.Logger) *FlipkartSource {
	return &FlipkartSource{cfg: cfg, logger: logger}
}

// Marketplace returns the channel this source covers
func (s *FlipkartSource) Marketplace() integration.Marketplace {
	return integration.MarketplaceFlipkart
}

// Configured reports whether an export directory is set
func (s *FlipkartSource) Configured() bool {
	return s.cfg.Configured()
}

// FetchProducts returns one page of products from the export directory.
// A missing export file yields an empty page, not an error.
func (s *FlipkartSource) FetchProducts(ctx context.Context, page integration.Pagination) ([]integration.RawProduct, error) {
	file, err := s.openExport(flipkartProductsFile)
	if err != nil {
		return nil, err
	}
	if file == nil {
		return nil, nil
	}
	defer file.Close()

	products, err := s.DecodeProducts(file)
	if err != nil {
		return nil, err
	}
	return paginate(products, page), nil
}

// FetchOrders returns one page of orders from the export directory,
// restricted to the given statuses
func (s *FlipkartSource) FetchOrders(ctx context.Context, page integration.Pagination, statuses []string) ([]integration.RawOrder, error) {
	file, err := s.openExport(flipkartOrdersFile)
	if err != nil {
		return nil, err
	}
	if file == nil {
		return nil, nil
	}
	defer file.Close()

	orders, err := s.DecodeOrders(file)
	if err != nil {
		return nil, err
	}

	if len(statuses) > 0 {
		filtered := orders[:0]
		for _, order := range orders {
			status, _ := order.Fields["order_status"].(string)
			if status == "" {
				status = "completed"
			}
			if slices.Contains(statuses, status) {
				filtered = append(filtered, order)
			}
		}
		orders = filtered
	}
	return paginate(orders, page), nil
}

// DecodeProducts parses a Flipkart product export into raw payloads
func (s *FlipkartSource) DecodeProducts(r io.Reader) ([]integration.RawProduct, error) {
	rows, err := decodeRows(r)
	if err != nil {
		return nil, err
	}
	products := make([]integration.RawProduct, 0, len(rows))
	for _, row := range rows {
		products = append(products, integration.RawProduct{
			Source: integration.MarketplaceFlipkart,
			Fields: rowFields(row),
		})
	}
	return products, nil
}

// DecodeOrders parses a Flipkart order export into raw payloads
func (s *FlipkartSource) DecodeOrders(r io.Reader) ([]integration.RawOrder, error) {
	rows, err := decodeRows(r)
	if err != nil {
		return nil, err
	}
	orders := make([]integration.RawOrder, 0, len(rows))
	for _, row := range rows {
		orders = append(orders, integration.RawOrder{
			Source: integration.MarketplaceFlipkart,
			Fields: rowFields(row),
		})
	}
	return orders, nil
}

func (s *FlipkartSource) openExport(name string) (*os.File, error) {
	path := filepath.Join(s.cfg.ExportDir, name)
	file, err := os.Open(path)
	if os.IsNotExist(err) {
		s.logger.Debug("flipkart export file absent", zap.String("path", path))
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("flipkart: failed to open export %s: %w", name, err)
	}
	return file, nil
}

func decodeRows(r io.Reader) ([]*csvimport.Row, error) {
	parser, err := csvimport.NewCSVParser(r)
	if err != nil {
		return nil, fmt.Errorf("flipkart: %w", err)
	}
	if err := parser.ParseHeader(); err != nil {
		return nil, fmt.Errorf("flipkart: %w", err)
	}
	rows, err := parser.ReadAllRows()
	if err != nil {
		return nil, fmt.Errorf("flipkart: %w", err)
	}
	return rows, nil
}

func rowFields(row *csvimport.Row) map[string]any {
	fields := make(map[string]any, len(row.Data))
	for k, v := range row.Data {
		fields[k] = v
	}
	return fields
}

func paginate[T any](items []T, page integration.Pagination) []T {
	if page.PerPage <= 0 {
		return items
	}
	if page.Page < 1 {
		page.Page = 1
	}
	start := (page.Page - 1) * page.PerPage
	if start >= len(items) {
		return nil
	}
	end := start + page.PerPage
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}
