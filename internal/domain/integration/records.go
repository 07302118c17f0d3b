package integration

import (
	"github.com/shopspring/decimal"
)

// DefaultDescription is assigned when a source reports no description
const DefaultDescription = "No description available"

// BookRecord is a marketplace product normalized into canonical shape,
// ready to reconcile against the catalog
type BookRecord struct {
	Source      Marketplace
	ExternalID  string
	Title       string
	Subtitle    string
	Description string
	Price       decimal.Decimal
	CoverURL    string
	Categories  []string
	AuthorName  string
	ISBN        string
	// Approved marks records from channels whose listings are pre-vetted;
	// everything else enters the catalog as pending.
	Approved bool
}

// OrderLineRecord is a normalized order line
type OrderLineRecord struct {
	Name     string
	Quantity int
	Price    string
	BookID   string
	Total    decimal.Decimal
}

// ContactRecord is a normalized billing or shipping block
type ContactRecord struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
	Address1  string
	City      string
	State     string
	Postcode  string
	Country   string
}

// OrderRecord is a marketplace order normalized into canonical shape.
// Monetary fields stay as source strings so nothing is lost to rounding.
type OrderRecord struct {
	Source       Marketplace
	ExternalID   string
	Status       string
	Total        string
	Currency     string
	DateCreated  string
	DateModified string
	CustomerID   string
	Lines        []OrderLineRecord
	Billing      ContactRecord
	Shipping     ContactRecord
}
