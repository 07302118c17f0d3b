package sync

import (
	"context"
	"testing"

	"github.com/bookpress/backend/internal/domain/integration"
	"github.com/bookpress/backend/internal/domain/sales"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestOrderSyncService_SyncOrder_MapsRecord(t *testing.T) {
	orders := newFakeOrderRepo()
	svc := NewOrderSyncService(orders, zap.NewNop())

	rec := integration.OrderRecord{
		Source:       integration.MarketplaceWooCommerce,
		ExternalID:   "555",
		Status:       "processing",
		Total:        "840.00",
		Currency:     "USD",
		DateCreated:  "2026-02-01T10:00:00",
		DateModified: "2026-02-02T09:00:00",
		CustomerID:   "42",
		Lines: []integration.OrderLineRecord{
			{Name: "Learning Go", Quantity: 2, Price: "420.00", BookID: "9001", Total: decimal.NewFromInt(840)},
		},
		Billing:  integration.ContactRecord{FirstName: "Asha", Email: "asha@example.com", City: "Pune"},
		Shipping: integration.ContactRecord{FirstName: "Asha", Postcode: "411001"},
	}

	order, err := svc.SyncOrder(context.Background(), rec)
	require.NoError(t, err)

	assert.Equal(t, "555", order.ExternalID)
	assert.Equal(t, sales.OrderSourceWooCommerce, order.Source)
	assert.Equal(t, sales.OrderStatusProcessing, order.Status)
	assert.Equal(t, "840.00", order.Total)
	assert.Equal(t, "USD", order.Currency)
	assert.Equal(t, "42", order.CustomerID)
	require.Len(t, order.LineItems, 1)
	assert.Equal(t, 2, order.LineItems[0].Quantity)
	assert.Equal(t, "Asha", order.Billing.FirstName)
	assert.Equal(t, "411001", order.Shipping.Postcode)
	assert.Equal(t, 1, orders.upsertCalls)
}

func TestOrderSyncService_SyncOrder_AppliesDefaults(t *testing.T) {
	orders := newFakeOrderRepo()
	svc := NewOrderSyncService(orders, zap.NewNop())

	order, err := svc.SyncOrder(context.Background(), integration.OrderRecord{
		Source:     integration.MarketplaceFlipkart,
		ExternalID: "OD001",
	})
	require.NoError(t, err)

	assert.Equal(t, sales.OrderStatusCompleted, order.Status)
	assert.Equal(t, sales.DefaultCurrency, order.Currency)
	assert.Equal(t, "0", order.Total)
}

func TestOrderSyncService_SyncOrder_RejectsMissingExternalID(t *testing.T) {
	svc := NewOrderSyncService(newFakeOrderRepo(), zap.NewNop())

	_, err := svc.SyncOrder(context.Background(), integration.OrderRecord{
		Source: integration.MarketplaceWooCommerce,
	})
	assert.Error(t, err)
}

func TestOrderSyncService_SyncOrder_ReplacesEarlierRow(t *testing.T) {
	orders := newFakeOrderRepo()
	svc := NewOrderSyncService(orders, zap.NewNop())
	ctx := context.Background()

	rec := integration.OrderRecord{
		Source:     integration.MarketplaceWooCommerce,
		ExternalID: "555",
		Total:      "20.00",
	}
	_, err := svc.SyncOrder(ctx, rec)
	require.NoError(t, err)

	rec.Total = "25.00"
	_, err = svc.SyncOrder(ctx, rec)
	require.NoError(t, err)

	count, err := orders.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	stored, err := orders.FindByExternalID(ctx, "555")
	require.NoError(t, err)
	assert.Equal(t, "25.00", stored.Total)
}
