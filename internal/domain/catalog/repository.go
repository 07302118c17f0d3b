package catalog

import (
	"context"

	"github.com/google/uuid"
)

// BookFilter narrows book listings. Zero values match everything.
type BookFilter struct {
	Status BookStatus
	Source BookSource
	Limit  int
	Offset int
}

// BookRepository defines the persistence interface for books.
// Find methods return (nil, nil) when no row matches.
type BookRepository interface {
	// Save persists a book (create or update)
	Save(ctx context.Context, book *Book) error

	// FindByID retrieves a book by its internal ID
	FindByID(ctx context.Context, id uuid.UUID) (*Book, error)

	// FindByExternalID retrieves the book holding the given marketplace identifier
	FindByExternalID(ctx context.Context, source BookSource, externalID string) (*Book, error)

	// FindByTitleLike retrieves the first book whose title contains the given
	// text, case-insensitively
	FindByTitleLike(ctx context.Context, title string) (*Book, error)

	// FindBySource retrieves all books that originated from the given marketplace
	FindBySource(ctx context.Context, source BookSource) ([]Book, error)

	// FindAll retrieves books matching the filter
	FindAll(ctx context.Context, filter BookFilter) ([]Book, error)

	// Count returns the total number of books
	Count(ctx context.Context) (int64, error)
}

// AuthorRepository defines the persistence interface for authors.
// Find methods return (nil, nil) when no row matches.
type AuthorRepository interface {
	// Save persists an author (create or update)
	Save(ctx context.Context, author *Author) error

	// FindByID retrieves an author by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Author, error)

	// FindByName retrieves an author by exact name
	FindByName(ctx context.Context, name string) (*Author, error)

	// Count returns the total number of authors
	Count(ctx context.Context) (int64, error)
}
