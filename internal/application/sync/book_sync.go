// Package sync reconciles marketplace catalog and order data into the
// platform's canonical models.
package sync

import (
	"context"
	"fmt"
	"time"

	"github.com/bookpress/backend/internal/domain/catalog"
	"github.com/bookpress/backend/internal/domain/integration"
	"go.uber.org/zap"
)

// BookSyncService reconciles normalized marketplace products into the catalog
type BookSyncService struct {
	books   catalog.BookRepository
	authors catalog.AuthorRepository
	logger  *zap.Logger
}

// NewBookSyncService creates a new BookSyncService
func NewBookSyncService(books catalog.BookRepository, authors catalog.AuthorRepository, logger *zap.Logger) *BookSyncService {
	return &BookSyncService{
		books:   books,
		authors: authors,
		logger:  logger,
	}
}

// EnsureDefaultAuthor finds or lazily creates the fallback author that
// synchronized books without author information are attached to
func (s *BookSyncService) EnsureDefaultAuthor(ctx context.Context) (*catalog.Author, error) {
	return s.ensureAuthorByName(ctx, catalog.UnknownAuthorName, catalog.NewUnknownAuthor)
}

func (s *BookSyncService) ensureAuthor(ctx context.Context, name string) (*catalog.Author, error) {
	if name == "" {
		return s.EnsureDefaultAuthor(ctx)
	}
	return s.ensureAuthorByName(ctx, name, func() *catalog.Author {
		author, err := catalog.NewAuthor(name)
		if err != nil {
			return catalog.NewUnknownAuthor()
		}
		return author
	})
}

func (s *BookSyncService) ensureAuthorByName(ctx context.Context, name string, build func() *catalog.Author) (*catalog.Author, error) {
	author, err := s.authors.FindByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to look up author %q: %w", name, err)
	}
	if author != nil {
		return author, nil
	}

	author = build()
	if err := s.authors.Save(ctx, author); err != nil {
		// A concurrent sync may have lost the race on the unique name index.
		if existing, findErr := s.authors.FindByName(ctx, name); findErr == nil && existing != nil {
			return existing, nil
		}
		return nil, fmt.Errorf("failed to create author %q: %w", name, err)
	}
	s.logger.Info("created author", zap.String("name", name))
	return author, nil
}

// Resolve finds the catalog book a marketplace record belongs to.
// The external id match always wins; the title lookup is a last-resort
// heuristic that can pick a same-titled book from another source.
func (s *BookSyncService) Resolve(ctx context.Context, source catalog.BookSource, externalID, title string) (*catalog.Book, error) {
	if externalID != "" {
		book, err := s.books.FindByExternalID(ctx, source, externalID)
		if err != nil || book != nil {
			return book, err
		}
	}
	return s.books.FindByTitleLike(ctx, title)
}

// SyncBook creates or updates the catalog entry for a normalized record.
// It returns the book and whether it was newly created.
func (s *BookSyncService) SyncBook(ctx context.Context, rec integration.BookRecord) (*catalog.Book, bool, error) {
	source := catalog.BookSource(rec.Source)
	if !source.IsValid() || source == catalog.BookSourceManual {
		return nil, false, fmt.Errorf("%w: %q", catalog.ErrInvalidBookSource, rec.Source)
	}
	if rec.ExternalID == "" {
		return nil, false, catalog.ErrExternalIDRequired
	}

	book, err := s.Resolve(ctx, source, rec.ExternalID, rec.Title)
	if err != nil {
		return nil, false, err
	}

	created := false
	if book == nil {
		author, err := s.ensureAuthor(ctx, rec.AuthorName)
		if err != nil {
			return nil, false, err
		}
		book, err = catalog.NewBook(rec.Title, author.ID)
		if err != nil {
			return nil, false, err
		}
		created = true
	} else if rec.Title != "" {
		book.Title = rec.Title
	}

	book.Description = rec.Description
	book.Price = rec.Price
	if rec.Subtitle != "" {
		book.Subtitle = rec.Subtitle
	}
	if rec.ISBN != "" {
		book.ISBNNumber = rec.ISBN
	}
	if len(rec.Categories) > 0 {
		book.Categories = catalog.StringList(rec.Categories)
	}
	if rec.CoverURL != "" && rec.CoverURL != book.CoverImage.URL {
		book.UpdateCover(catalog.CoverImage{
			Key: coverKey(source, rec.ExternalID),
			URL: rec.CoverURL,
		})
	}
	if err := book.SetExternalID(source, rec.ExternalID); err != nil {
		return nil, false, err
	}
	if err := book.SetSource(source); err != nil {
		return nil, false, err
	}
	if rec.Approved {
		if err := book.SetStatus(catalog.BookStatusApproved); err != nil {
			return nil, false, err
		}
	}

	if err := s.books.Save(ctx, book); err != nil {
		return nil, false, fmt.Errorf("failed to save book %q: %w", rec.ExternalID, err)
	}

	s.logger.Debug("synchronized book",
		zap.String("source", source.String()),
		zap.String("external_id", rec.ExternalID),
		zap.Bool("created", created),
	)
	return book, created, nil
}

var coverKeyPrefixes = map[catalog.BookSource]string{
	catalog.BookSourceWooCommerce: "wc",
	catalog.BookSourceAmazon:      "amz",
	catalog.BookSourceFlipkart:    "fk",
}

func coverKey(source catalog.BookSource, externalID string) string {
	prefix, ok := coverKeyPrefixes[source]
	if !ok {
		prefix = "ext"
	}
	return fmt.Sprintf("%s-%s-%d", prefix, externalID, time.Now().Unix())
}
