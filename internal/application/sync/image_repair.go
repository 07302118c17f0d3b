package sync

import (
	"context"
	"fmt"

	"github.com/bookpress/backend/internal/domain/catalog"
	"github.com/bookpress/backend/internal/domain/integration"
	"go.uber.org/zap"
)

// CoverProber checks whether an externally hosted image is still reachable
type CoverProber interface {
	Probe(ctx context.Context, url string) error
}

// ImageRepairService swaps unreachable cover images for the placeholder.
// A book with an empty cover gets the placeholder without a network
// probe; one already carrying the placeholder is skipped outright.
type ImageRepairService struct {
	books  catalog.BookRepository
	prober CoverProber
	logger *zap.Logger
}

// NewImageRepairService creates a new ImageRepairService
func NewImageRepairService(books catalog.BookRepository, prober CoverProber, logger *zap.Logger) *ImageRepairService {
	return &ImageRepairService{
		books:  books,
		prober: prober,
		logger: logger,
	}
}

// RepairBook verifies one book's cover and reports whether it changed.
// The row is written only when the computed cover differs. A cover that
// already points at the placeholder is left untouched, key included.
func (s *ImageRepairService) RepairBook(ctx context.Context, book *catalog.Book) (bool, error) {
	if book.CoverImage.URL == catalog.DefaultCoverURL {
		return false, nil
	}

	desired := book.CoverImage

	if book.CoverImage.URL == "" {
		desired = defaultCover(book)
	} else if err := s.prober.Probe(ctx, book.CoverImage.URL); err != nil {
		s.logger.Warn("cover image unreachable, falling back to placeholder",
			zap.String("book_id", book.ID.String()),
			zap.String("url", book.CoverImage.URL),
			zap.Error(err),
		)
		desired = defaultCover(book)
	}

	if !book.UpdateCover(desired) {
		return false, nil
	}
	if err := s.books.Save(ctx, book); err != nil {
		return false, fmt.Errorf("failed to save repaired cover for %s: %w", book.ID, err)
	}
	return true, nil
}

// SweepSource repairs the covers of every book from one marketplace.
// A failing book is counted and skipped, never aborts the sweep.
func (s *ImageRepairService) SweepSource(ctx context.Context, source catalog.BookSource) integration.StageResult {
	var result integration.StageResult

	books, err := s.books.FindBySource(ctx, source)
	if err != nil {
		result.Fail(fmt.Errorf("failed to list books for image sweep: %w", err))
		return result
	}
	s.sweep(ctx, books, &result)
	return result
}

// SweepAll repairs the covers of the whole catalog
func (s *ImageRepairService) SweepAll(ctx context.Context) integration.StageResult {
	var result integration.StageResult

	books, err := s.books.FindAll(ctx, catalog.BookFilter{})
	if err != nil {
		result.Fail(fmt.Errorf("failed to list books for image sweep: %w", err))
		return result
	}
	s.sweep(ctx, books, &result)
	return result
}

func (s *ImageRepairService) sweep(ctx context.Context, books []catalog.Book, result *integration.StageResult) {
	for i := range books {
		book := &books[i]
		if _, err := s.RepairBook(ctx, book); err != nil {
			result.AddFailure(book.ID.String(), err)
			continue
		}
		result.AddSuccess(book.ID.String())
	}
}

func defaultCover(book *catalog.Book) catalog.CoverImage {
	return catalog.CoverImage{
		Key: "default-" + book.ID.String(),
		URL: catalog.DefaultCoverURL,
	}
}
