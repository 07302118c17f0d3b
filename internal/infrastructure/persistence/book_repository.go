package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/bookpress/backend/internal/domain/catalog"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BookRepository implements catalog.BookRepository using GORM
type BookRepository struct {
	db *gorm.DB
}

// NewBookRepository creates a new BookRepository
func NewBookRepository(db *gorm.DB) *BookRepository {
	return &BookRepository{db: db}
}

// Save persists a book (create or update)
func (r *BookRepository) Save(ctx context.Context, book *catalog.Book) error {
	return r.db.WithContext(ctx).Save(book).Error
}

// FindByID retrieves a book by ID, (nil, nil) when not found
func (r *BookRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Book, error) {
	var book catalog.Book
	err := r.db.WithContext(ctx).First(&book, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &book, nil
}

// FindByExternalID retrieves the book holding the given marketplace identifier
func (r *BookRepository) FindByExternalID(ctx context.Context, source catalog.BookSource, externalID string) (*catalog.Book, error) {
	column, ok := externalIDColumn(source)
	if !ok {
		return nil, catalog.ErrInvalidBookSource
	}
	var book catalog.Book
	err := r.db.WithContext(ctx).Where(column+" = ?", externalID).First(&book).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &book, nil
}

// FindByTitleLike retrieves the oldest book whose title contains the given
// text, case-insensitively. LOWER + LIKE keeps the query portable between
// postgres and the sqlite test databases.
func (r *BookRepository) FindByTitleLike(ctx context.Context, title string) (*catalog.Book, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, nil
	}
	var book catalog.Book
	err := r.db.WithContext(ctx).
		Where("LOWER(title) LIKE ?", "%"+strings.ToLower(title)+"%").
		Order("created_at ASC").
		First(&book).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &book, nil
}

// FindBySource retrieves all books that originated from the given marketplace
func (r *BookRepository) FindBySource(ctx context.Context, source catalog.BookSource) ([]catalog.Book, error) {
	var books []catalog.Book
	err := r.db.WithContext(ctx).
		Where("source = ?", source).
		Order("created_at ASC").
		Find(&books).Error
	if err != nil {
		return nil, err
	}
	return books, nil
}

// FindAll retrieves books matching the filter, newest first
func (r *BookRepository) FindAll(ctx context.Context, filter catalog.BookFilter) ([]catalog.Book, error) {
	query := r.db.WithContext(ctx).Model(&catalog.Book{})
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Source != "" {
		query = query.Where("source = ?", filter.Source)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var books []catalog.Book
	if err := query.Order("created_at DESC").Find(&books).Error; err != nil {
		return nil, err
	}
	return books, nil
}

// Count returns the total number of books
func (r *BookRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&catalog.Book{}).Count(&count).Error
	return count, err
}

func externalIDColumn(source catalog.BookSource) (string, bool) {
	switch source {
	case catalog.BookSourceWooCommerce:
		return "external_woo_commerce_id", true
	case catalog.BookSourceAmazon:
		return "external_amazon_id", true
	case catalog.BookSourceFlipkart:
		return "external_flipkart_id", true
	}
	return "", false
}
