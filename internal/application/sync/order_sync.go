package sync

import (
	"context"
	"fmt"

	"github.com/bookpress/backend/internal/domain/integration"
	"github.com/bookpress/backend/internal/domain/sales"
	"go.uber.org/zap"
)

// OrderSyncService mirrors normalized marketplace orders into sales.
// Writes go through the repository upsert, so replaying a feed is safe.
type OrderSyncService struct {
	orders sales.OrderRepository
	logger *zap.Logger
}

// NewOrderSyncService creates a new OrderSyncService
func NewOrderSyncService(orders sales.OrderRepository, logger *zap.Logger) *OrderSyncService {
	return &OrderSyncService{orders: orders, logger: logger}
}

// SyncOrder upserts the mirrored row for a normalized order record
func (s *OrderSyncService) SyncOrder(ctx context.Context, rec integration.OrderRecord) (*sales.Order, error) {
	order, err := sales.NewOrder(rec.ExternalID, sales.OrderSource(rec.Source))
	if err != nil {
		return nil, err
	}

	if rec.Status != "" {
		order.Status = rec.Status
	}
	if rec.Total != "" {
		order.Total = rec.Total
	}
	if rec.Currency != "" {
		order.Currency = rec.Currency
	}
	order.DateCreated = rec.DateCreated
	order.DateModified = rec.DateModified
	order.CustomerID = rec.CustomerID
	order.Billing = contact(rec.Billing)
	order.Shipping = contact(rec.Shipping)

	lines := make(sales.LineItems, 0, len(rec.Lines))
	for _, line := range rec.Lines {
		lines = append(lines, sales.LineItem{
			Name:     line.Name,
			Quantity: line.Quantity,
			Price:    line.Price,
			BookID:   line.BookID,
			Total:    line.Total,
		})
	}
	order.LineItems = lines

	if err := s.orders.Upsert(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to upsert order %q: %w", rec.ExternalID, err)
	}

	s.logger.Debug("synchronized order",
		zap.String("source", rec.Source.String()),
		zap.String("external_id", rec.ExternalID),
	)
	return order, nil
}

func contact(rec integration.ContactRecord) sales.Contact {
	return sales.Contact{
		FirstName: rec.FirstName,
		LastName:  rec.LastName,
		Email:     rec.Email,
		Phone:     rec.Phone,
		Address1:  rec.Address1,
		City:      rec.City,
		State:     rec.State,
		Postcode:  rec.Postcode,
		Country:   rec.Country,
	}
}
