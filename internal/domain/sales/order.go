package sales

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/bookpress/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// OrderSource identifies the marketplace an order was pulled from
type OrderSource string

const (
	OrderSourceWooCommerce OrderSource = "woocommerce"
	OrderSourceAmazon      OrderSource = "amazon"
	OrderSourceFlipkart    OrderSource = "flipkart"
)

// IsValid checks if the source is valid
func (s OrderSource) IsValid() bool {
	switch s {
	case OrderSourceWooCommerce, OrderSourceAmazon, OrderSourceFlipkart:
		return true
	}
	return false
}

// String returns the string representation
func (s OrderSource) String() string {
	return string(s)
}

// Order status values as reported by marketplaces
const (
	OrderStatusCompleted  = "completed"
	OrderStatusProcessing = "processing"
)

// DefaultCurrency is assigned when a source omits the currency code
const DefaultCurrency = "INR"

// Errors for order operations
var (
	ErrOrderExternalIDRequired = errors.New("sales: order external id is required")
	ErrInvalidOrderSource      = errors.New("sales: invalid order source")
)

// LineItem is a single purchased position within an order
type LineItem struct {
	Name     string          `json:"name"`
	Quantity int             `json:"quantity"`
	Price    string          `json:"price"`
	BookID   string          `json:"book_id,omitempty"`
	Total    decimal.Decimal `json:"total"`
}

// LineItems is a JSONB-stored slice of line items
type LineItems []LineItem

// Value implements driver.Valuer
func (l LineItems) Value() (driver.Value, error) {
	if l == nil {
		l = LineItems{}
	}
	return json.Marshal(l)
}

// Scan implements sql.Scanner
func (l *LineItems) Scan(value any) error {
	return scanJSON(l, value, "line items")
}

// Contact is a billing or shipping contact block as delivered by the source
type Contact struct {
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
	Address1  string `json:"address_1,omitempty"`
	City      string `json:"city,omitempty"`
	State     string `json:"state,omitempty"`
	Postcode  string `json:"postcode,omitempty"`
	Country   string `json:"country,omitempty"`
}

// Value implements driver.Valuer
func (c Contact) Value() (driver.Value, error) {
	return json.Marshal(c)
}

// Scan implements sql.Scanner
func (c *Contact) Scan(value any) error {
	return scanJSON(c, value, "contact")
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
		return fmt.Errorf("sales: cannot scan %T into %s", value, what)
	}
}

// Order is a marketplace order mirrored into the platform.
// ExternalID is the source order identifier and the idempotent upsert key;
// monetary fields stay as the source delivered them.
type Order struct {
	shared.BaseEntity
	ExternalID   string      `gorm:"uniqueIndex;not null"`
	Source       OrderSource `gorm:"index;not null"`
	Status       string      `gorm:"index"`
	Total        string
	Currency     string
	DateCreated  string
	DateModified string
	CustomerID   string
	LineItems    LineItems `gorm:"type:jsonb"`
	Billing      Contact   `gorm:"type:jsonb"`
	Shipping     Contact   `gorm:"type:jsonb"`
}

// TableName returns the table name for GORM
func (Order) TableName() string {
	return "orders"
}

// NewOrder creates an order shell with defaults applied
func NewOrder(externalID string, source OrderSource) (*Order, error) {
	if externalID == "" {
		return nil, ErrOrderExternalIDRequired
	}
	if !source.IsValid() {
		return nil, ErrInvalidOrderSource
	}
	return &Order{
		BaseEntity: shared.NewBaseEntity(),
		ExternalID: externalID,
		Source:     source,
		Status:     OrderStatusCompleted,
		Total:      "0",
		Currency:   DefaultCurrency,
	}, nil
}

// UnitsSold returns the total quantity across line items
func (o *Order) UnitsSold() int {
	units := 0
	for _, item := range o.LineItems {
		units += item.Quantity
	}
	return units
}

// TotalAmount parses the source-reported total, zero when unparseable
func (o *Order) TotalAmount() decimal.Decimal {
	amount, err := decimal.NewFromString(o.Total)
	if err != nil {
		return decimal.Zero
	}
	return amount
}
