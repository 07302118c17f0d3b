package persistence

import (
	"context"
	"errors"

	"github.com/bookpress/backend/internal/domain/sales"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// OrderRepository implements sales.OrderRepository using GORM
type OrderRepository struct {
	db *gorm.DB
}

// NewOrderRepository creates a new OrderRepository
func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// Upsert inserts the order or overwrites the mutable fields of the row
// sharing its external id. Running the same sync twice leaves one row.
func (r *OrderRepository) Upsert(ctx context.Context, order *sales.Order) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "external_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"status", "total", "currency", "date_created", "date_modified",
			"customer_id", "source", "line_items", "billing", "shipping", "updated_at",
		}),
	}).Create(order).Error
}

// FindByID retrieves an order by ID, (nil, nil) when not found
func (r *OrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*sales.Order, error) {
	var order sales.Order
	err := r.db.WithContext(ctx).First(&order, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// FindByExternalID retrieves an order by the source order identifier
func (r *OrderRepository) FindByExternalID(ctx context.Context, externalID string) (*sales.Order, error) {
	var order sales.Order
	err := r.db.WithContext(ctx).Where("external_id = ?", externalID).First(&order).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// FindAll retrieves orders matching the filter, newest first
func (r *OrderRepository) FindAll(ctx context.Context, filter sales.OrderFilter) ([]sales.Order, error) {
	query := r.db.WithContext(ctx).Model(&sales.Order{})
	if filter.Source != "" {
		query = query.Where("source = ?", filter.Source)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var orders []sales.Order
	if err := query.Order("created_at DESC").Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// Count returns the total number of orders
func (r *OrderRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&sales.Order{}).Count(&count).Error
	return count, err
}
