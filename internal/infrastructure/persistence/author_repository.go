package persistence

import (
	"context"
	"errors"

	"github.com/bookpress/backend/internal/domain/catalog"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AuthorRepository implements catalog.AuthorRepository using GORM
type AuthorRepository struct {
	db *gorm.DB
}

// NewAuthorRepository creates a new AuthorRepository
func NewAuthorRepository(db *gorm.DB) *AuthorRepository {
	return &AuthorRepository{db: db}
}

// Save persists an author (create or update)
func (r *AuthorRepository) Save(ctx context.Context, author *catalog.Author) error {
	return r.db.WithContext(ctx).Save(author).Error
}

// FindByID retrieves an author by ID, (nil, nil) when not found
func (r *AuthorRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Author, error) {
	var author catalog.Author
	err := r.db.WithContext(ctx).First(&author, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &author, nil
}

// FindByName retrieves an author by exact name, (nil, nil) when not found
func (r *AuthorRepository) FindByName(ctx context.Context, name string) (*catalog.Author, error) {
	var author catalog.Author
	err := r.db.WithContext(ctx).Where("name = ?", name).First(&author).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &author, nil
}

// Count returns the total number of authors
func (r *AuthorRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&catalog.Author{}).Count(&count).Error
	return count, err
}
