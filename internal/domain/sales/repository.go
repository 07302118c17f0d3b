package sales

import (
	"context"

	"github.com/google/uuid"
)

// OrderFilter narrows order listings. Zero values match everything.
type OrderFilter struct {
	Source OrderSource
	Status string
	Limit  int
	Offset int
}

// OrderRepository defines the persistence interface for mirrored orders.
// Find methods return (nil, nil) when no row matches.
type OrderRepository interface {
	// Upsert inserts the order or, when a row with the same external id
	// already exists, overwrites its mutable fields
	Upsert(ctx context.Context, order *Order) error

	// FindByID retrieves an order by its internal ID
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)

	// FindByExternalID retrieves an order by the source order identifier
	FindByExternalID(ctx context.Context, externalID string) (*Order, error)

	// FindAll retrieves orders matching the filter, newest first
	FindAll(ctx context.Context, filter OrderFilter) ([]Order, error)

	// Count returns the total number of orders
	Count(ctx context.Context) (int64, error)
}
