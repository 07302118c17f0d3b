package sync

import (
	"context"
	"errors"
	"time"

	"github.com/bookpress/backend/internal/domain/catalog"
	"github.com/bookpress/backend/internal/domain/integration"
	"go.uber.org/zap"
)

// SourceSyncConfig bounds one sync pass
type SourceSyncConfig struct {
	PageSize      int
	MaxPages      int
	OrderStatuses []string
}

func (c *SourceSyncConfig) applyDefaults() {
	if c.PageSize <= 0 || c.PageSize > 100 {
		c.PageSize = 100
	}
	if c.MaxPages <= 0 {
		c.MaxPages = 50
	}
	if len(c.OrderStatuses) == 0 {
		c.OrderStatuses = []string{"completed", "processing"}
	}
}

// SourceSyncService runs the reconciliation pipeline over every
// registered marketplace: products, then orders, then an image sweep.
// A stage failing never prevents the next stage; one marketplace
// failing never prevents the others.
type SourceSyncService struct {
	registry integration.MarketplaceRegistry
	books    *BookSyncService
	orders   *OrderSyncService
	images   *ImageRepairService
	cfg      SourceSyncConfig
	logger   *zap.Logger
}

// NewSourceSyncService creates a new SourceSyncService
func NewSourceSyncService(
	registry integration.MarketplaceRegistry,
	books *BookSyncService,
	orders *OrderSyncService,
	images *ImageRepairService,
	cfg SourceSyncConfig,
	logger *zap.Logger,
) *SourceSyncService {
	cfg.applyDefaults()
	return &SourceSyncService{
		registry: registry,
		books:    books,
		orders:   orders,
		images:   images,
		cfg:      cfg,
		logger:   logger,
	}
}

// SyncAll runs one pass over every registered marketplace
func (s *SourceSyncService) SyncAll(ctx context.Context) []integration.SourceSyncReport {
	clients := s.registry.Clients()
	reports := make([]integration.SourceSyncReport, 0, len(clients))
	for _, client := range clients {
		reports = append(reports, s.SyncSource(ctx, client))
	}
	return reports
}

// SyncMarketplace runs one pass over a single marketplace
func (s *SourceSyncService) SyncMarketplace(ctx context.Context, marketplace integration.Marketplace) (integration.SourceSyncReport, error) {
	client, err := s.registry.Client(marketplace)
	if err != nil {
		return integration.SourceSyncReport{}, err
	}
	return s.SyncSource(ctx, client), nil
}

// SyncSource runs the full pipeline for one marketplace
func (s *SourceSyncService) SyncSource(ctx context.Context, client integration.MarketplaceClient) integration.SourceSyncReport {
	marketplace := client.Marketplace()

	if !client.Configured() {
		s.logger.Info("skipping marketplace, credentials not configured",
			zap.String("marketplace", marketplace.String()))
		return integration.NewSkippedReport(marketplace, "credentials not configured")
	}

	report := integration.SourceSyncReport{
		Marketplace: marketplace,
		StartedAt:   time.Now(),
	}

	report.Products = s.syncProducts(ctx, client)
	report.Orders = s.syncOrders(ctx, client)
	report.Images = s.images.SweepSource(ctx, catalog.BookSource(marketplace))
	report.CompletedAt = time.Now()

	s.logger.Info("marketplace sync pass finished",
		zap.String("marketplace", marketplace.String()),
		zap.Int("products_synced", report.Products.SuccessCount()),
		zap.Int("products_failed", report.Products.FailureCount()),
		zap.Int("orders_synced", report.Orders.SuccessCount()),
		zap.Int("orders_failed", report.Orders.FailureCount()),
		zap.Int("images_repaired", report.Images.SuccessCount()),
		zap.Duration("duration", report.CompletedAt.Sub(report.StartedAt)),
	)
	return report
}

// ImageSweep runs the standalone cover sweep over the whole catalog
func (s *SourceSyncService) ImageSweep(ctx context.Context) integration.StageResult {
	return s.images.SweepAll(ctx)
}

func (s *SourceSyncService) syncProducts(ctx context.Context, client integration.MarketplaceClient) integration.StageResult {
	var result integration.StageResult
	marketplace := client.Marketplace()

	for page := 1; page <= s.cfg.MaxPages; page++ {
		items, err := client.FetchProducts(ctx, integration.Pagination{Page: page, PerPage: s.cfg.PageSize})
		if err != nil {
			s.logFetchFailure(marketplace, "products", err)
			result.Fail(err)
			return result
		}

		for _, raw := range items {
			rec := integration.NormalizeProduct(raw)
			if rec.ExternalID == "" {
				result.AddFailure("", errors.New("product has no external id"))
				continue
			}
			if _, _, err := s.books.SyncBook(ctx, rec); err != nil {
				s.logger.Warn("failed to sync product",
					zap.String("marketplace", marketplace.String()),
					zap.String("external_id", rec.ExternalID),
					zap.Error(err),
				)
				result.AddFailure(rec.ExternalID, err)
				continue
			}
			result.AddSuccess(rec.ExternalID)
		}

		if len(items) < s.cfg.PageSize {
			break
		}
	}
	return result
}

func (s *SourceSyncService) syncOrders(ctx context.Context, client integration.MarketplaceClient) integration.StageResult {
	var result integration.StageResult
	marketplace := client.Marketplace()

	for page := 1; page <= s.cfg.MaxPages; page++ {
		items, err := client.FetchOrders(ctx, integration.Pagination{Page: page, PerPage: s.cfg.PageSize}, s.cfg.OrderStatuses)
		if err != nil {
			s.logFetchFailure(marketplace, "orders", err)
			result.Fail(err)
			return result
		}

		for _, raw := range items {
			rec := integration.NormalizeOrder(raw)
			if rec.ExternalID == "" {
				result.AddFailure("", errors.New("order has no external id"))
				continue
			}
			if _, err := s.orders.SyncOrder(ctx, rec); err != nil {
				s.logger.Warn("failed to sync order",
					zap.String("marketplace", marketplace.String()),
					zap.String("external_id", rec.ExternalID),
					zap.Error(err),
				)
				result.AddFailure(rec.ExternalID, err)
				continue
			}
			result.AddSuccess(rec.ExternalID)
		}

		if len(items) < s.cfg.PageSize {
			break
		}
	}
	return result
}

func (s *SourceSyncService) logFetchFailure(marketplace integration.Marketplace, what string, err error) {
	if errors.Is(err, integration.ErrMarketplaceAuthFailed) {
		s.logger.Error("marketplace authentication failed, check credentials",
			zap.String("marketplace", marketplace.String()),
			zap.String("stage", what),
			zap.Error(err),
		)
		return
	}
	s.logger.Error("marketplace fetch failed",
		zap.String("marketplace", marketplace.String()),
		zap.String("stage", what),
		zap.Error(err),
	)
}
