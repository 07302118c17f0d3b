package catalog

import (
	"errors"
	"strings"

	"github.com/bookpress/backend/internal/domain/shared"
)

// AuthorStatus represents whether an author is publishable
type AuthorStatus string

const (
	AuthorStatusActive   AuthorStatus = "active"
	AuthorStatusInactive AuthorStatus = "inactive"
)

// IsValid checks if the status is valid
func (s AuthorStatus) IsValid() bool {
	return s == AuthorStatusActive || s == AuthorStatusInactive
}

// Fallback author assigned to synchronized books whose source
// reports no author information.
const (
	UnknownAuthorName  = "Unknown Author"
	UnknownAuthorBio   = "Default author for synchronized books"
	UnknownAuthorEmail = "unknown@example.com"
)

// Errors for author operations
var (
	ErrAuthorNameRequired = errors.New("catalog: author name is required")
)

// Author is a writer whose books the platform publishes
type Author struct {
	shared.BaseEntity
	Name   string       `gorm:"uniqueIndex;not null"`
	Bio    string
	Email  string
	Status AuthorStatus `gorm:"not null"`
}

// TableName returns the table name for GORM
func (Author) TableName() string {
	return "authors"
}

// NewAuthor creates a new active author
func NewAuthor(name string) (*Author, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrAuthorNameRequired
	}
	return &Author{
		BaseEntity: shared.NewBaseEntity(),
		Name:       name,
		Status:     AuthorStatusActive,
	}, nil
}

// NewUnknownAuthor creates the fallback author record
func NewUnknownAuthor() *Author {
	return &Author{
		BaseEntity: shared.NewBaseEntity(),
		Name:       UnknownAuthorName,
		Bio:        UnknownAuthorBio,
		Email:      UnknownAuthorEmail,
		Status:     AuthorStatusActive,
	}
}

// Deactivate marks the author as no longer publishable
func (a *Author) Deactivate() {
	a.Status = AuthorStatusInactive
	a.Touch()
}
