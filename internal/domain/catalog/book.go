package catalog

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/bookpress/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BookStatus represents the moderation state of a book
type BookStatus string

const (
	// BookStatusApproved means the book is visible and sellable
	BookStatusApproved BookStatus = "approved"
	// BookStatusPending means the book awaits editorial review
	BookStatusPending BookStatus = "pending"
	// BookStatusRejected means the book was declined during review
	BookStatusRejected BookStatus = "rejected"
)

// IsValid checks if the status is valid
func (s BookStatus) IsValid() bool {
	switch s {
	case BookStatusApproved, BookStatusPending, BookStatusRejected:
		return true
	}
	return false
}

// String returns the string representation
func (s BookStatus) String() string {
	return string(s)
}

// BookSource identifies where a book record originated
type BookSource string

const (
	// BookSourceManual is a book created through the publishing console
	BookSourceManual BookSource = "manual"
	// BookSourceWooCommerce is a book synchronized from a WooCommerce store
	BookSourceWooCommerce BookSource = "woocommerce"
	// BookSourceAmazon is a book synchronized from Amazon
	BookSourceAmazon BookSource = "amazon"
	// BookSourceFlipkart is a book ingested from Flipkart seller exports
	BookSourceFlipkart BookSource = "flipkart"
)

// IsValid checks if the source is valid
func (s BookSource) IsValid() bool {
	switch s {
	case BookSourceManual, BookSourceWooCommerce, BookSourceAmazon, BookSourceFlipkart:
		return true
	}
	return false
}

// String returns the string representation
func (s BookSource) String() string {
	return string(s)
}

// BindingSize represents a physical or digital edition format
type BindingSize string

const (
	BindingPaperback BindingSize = "paperBack"
	BindingHardcover BindingSize = "hardCover"
	BindingEbook     BindingSize = "ebook"
)

// Platform represents a sales channel a book is listed on
type Platform string

const (
	PlatformAmazon   Platform = "amazon"
	PlatformFlipkart Platform = "flipkart"
	PlatformDream    Platform = "dream"
	PlatformKindle   Platform = "kindle"
)

// DefaultCoverURL is the placeholder served when a book has no usable cover
const DefaultCoverURL = "/images/default-book.png"

// DefaultLanguage is assigned when a source does not report one
const DefaultLanguage = "english"

// Errors for book operations
var (
	ErrBookTitleRequired  = errors.New("catalog: book title is required")
	ErrBookAuthorRequired = errors.New("catalog: book author is required")
	ErrInvalidBookStatus  = errors.New("catalog: invalid book status")
	ErrInvalidBookSource  = errors.New("catalog: invalid book source")
	ErrExternalIDRequired = errors.New("catalog: external id is required")
)

// CoverImage is the stored cover reference.
// Key carries the source-derived object key, URL the public location.
type CoverImage struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

// IsDefault reports whether the cover is absent or the placeholder
func (c CoverImage) IsDefault() bool {
	return c.URL == "" || c.URL == DefaultCoverURL
}

// Value implements driver.Valuer for JSONB storage
func (c CoverImage) Value() (driver.Value, error) {
	return json.Marshal(c)
}

// Scan implements sql.Scanner for JSONB storage
func (c *CoverImage) Scan(value any) error {
	return scanJSON(c, value, "cover image")
}

// StringList is a JSONB-stored slice of strings
type StringList []string

// Value implements driver.Valuer
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		l = StringList{}
	}
	return json.Marshal(l)
}

// Scan implements sql.Scanner
func (l *StringList) Scan(value any) error {
	return scanJSON(l, value, "string list")
}

// BindingSizes is a JSONB-stored slice of edition formats
type BindingSizes []BindingSize

// Value implements driver.Valuer
func (b BindingSizes) Value() (driver.Value, error) {
	if b == nil {
		b = BindingSizes{}
	}
	return json.Marshal(b)
}

// Scan implements sql.Scanner
func (b *BindingSizes) Scan(value any) error {
	return scanJSON(b, value, "binding sizes")
}

// PlatformListing records a sales channel and the royalty share agreed for it
type PlatformListing struct {
	Platform Platform        `json:"platform"`
	Royalty  decimal.Decimal `json:"royalty"`
}

// PlatformListings is a JSONB-stored slice of platform listings
type PlatformListings []PlatformListing

// Value implements driver.Valuer
func (p PlatformListings) Value() (driver.Value, error) {
	if p == nil {
		p = PlatformListings{}
	}
	return json.Marshal(p)
}

// Scan implements sql.Scanner
func (p *PlatformListings) Scan(value any) error {
	return scanJSON(p, value, "platform listings")
}

func scanJSON(dst any, value any, what string) error {
	if value == nil {
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, dst)
	case string:
		return json.Unmarshal([]byte(v), dst)
	default:
		return fmt.Errorf("catalog: cannot scan %T into %s", value, what)
	}
}

// Book is the canonical catalog aggregate.
// Marketplace records from every connected source reconcile into this shape;
// the External*ID columns are the de-duplication keys per source.
type Book struct {
	shared.BaseEntity
	AuthorID     uuid.UUID        `gorm:"type:uuid;index;not null"`
	Title        string           `gorm:"not null;index"`
	Subtitle     string
	Description  string
	ISBNNumber   string           `gorm:"index"`
	CoverImage   CoverImage       `gorm:"type:jsonb"`
	Categories   StringList       `gorm:"type:jsonb"`
	BindingSizes BindingSizes     `gorm:"type:jsonb"`
	Language     string
	Price        decimal.Decimal  `gorm:"type:numeric(12,2)"`
	Platforms    PlatformListings `gorm:"type:jsonb"`
	Status       BookStatus       `gorm:"index;not null"`
	Source       BookSource       `gorm:"index;not null"`

	// One column per marketplace so each keeps its own unique constraint.
	ExternalWooCommerceID *string `gorm:"uniqueIndex"`
	ExternalAmazonID      *string `gorm:"uniqueIndex"`
	ExternalFlipkartID    *string `gorm:"uniqueIndex"`
}

// TableName returns the table name for GORM
func (Book) TableName() string {
	return "books"
}

// NewBook creates a new book with defaults applied
func NewBook(title string, authorID uuid.UUID) (*Book, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrBookTitleRequired
	}
	if authorID == uuid.Nil {
		return nil, ErrBookAuthorRequired
	}
	return &Book{
		BaseEntity: shared.NewBaseEntity(),
		AuthorID:   authorID,
		Title:      title,
		Language:   DefaultLanguage,
		Status:     BookStatusPending,
		Source:     BookSourceManual,
		Price:      decimal.Zero,
	}, nil
}

// SetStatus changes the moderation state
func (b *Book) SetStatus(status BookStatus) error {
	if !status.IsValid() {
		return ErrInvalidBookStatus
	}
	b.Status = status
	b.Touch()
	return nil
}

// SetSource records which marketplace the book came from
func (b *Book) SetSource(source BookSource) error {
	if !source.IsValid() {
		return ErrInvalidBookSource
	}
	b.Source = source
	b.Touch()
	return nil
}

// SetExternalID stores the marketplace identifier for the given source
func (b *Book) SetExternalID(source BookSource, externalID string) error {
	if externalID == "" {
		return ErrExternalIDRequired
	}
	id := externalID
	switch source {
	case BookSourceWooCommerce:
		b.ExternalWooCommerceID = &id
	case BookSourceAmazon:
		b.ExternalAmazonID = &id
	case BookSourceFlipkart:
		b.ExternalFlipkartID = &id
	default:
		return ErrInvalidBookSource
	}
	b.Touch()
	return nil
}

// ExternalID returns the marketplace identifier stored for the given source,
// or the empty string when none is set
func (b *Book) ExternalID(source BookSource) string {
	var id *string
	switch source {
	case BookSourceWooCommerce:
		id = b.ExternalWooCommerceID
	case BookSourceAmazon:
		id = b.ExternalAmazonID
	case BookSourceFlipkart:
		id = b.ExternalFlipkartID
	}
	if id == nil {
		return ""
	}
	return *id
}

// UpdateCover replaces the cover reference and reports whether it changed.
// Callers persist only on change.
func (b *Book) UpdateCover(cover CoverImage) bool {
	if b.CoverImage == cover {
		return false
	}
	b.CoverImage = cover
	b.Touch()
	return true
}
