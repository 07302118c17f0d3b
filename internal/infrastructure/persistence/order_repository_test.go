package persistence

import (
	"context"
	"testing"

	"github.com/bookpress/backend/internal/domain/integration"
	"github.com/bookpress/backend/internal/domain/sales"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderRepositoryUpsertIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	repo := NewOrderRepository(db)
	ctx := context.Background()

	first, err := sales.NewOrder("555", sales.OrderSourceWooCommerce)
	require.NoError(t, err)
	first.Status = "processing"
	first.Total = "20.00"
	first.LineItems = sales.LineItems{
		{Name: "Learning Go", Quantity: 2, Price: "10.00", Total: decimal.RequireFromString("20.00")},
	}
	require.NoError(t, repo.Upsert(ctx, first))

	// Same external order arrives again with an updated total.
	second, err := sales.NewOrder("555", sales.OrderSourceWooCommerce)
	require.NoError(t, err)
	second.Status = "completed"
	second.Total = "25.00"
	second.LineItems = sales.LineItems{
		{Name: "Learning Go", Quantity: 2, Price: "12.50", Total: decimal.RequireFromString("25.00")},
	}
	require.NoError(t, repo.Upsert(ctx, second))

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count, "one external order must map to one row")

	found, err := repo.FindByExternalID(ctx, "555")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "25.00", found.Total)
	assert.Equal(t, "completed", found.Status)
	require.Len(t, found.LineItems, 1)
	assert.Equal(t, "12.50", found.LineItems[0].Price)
}

func TestOrderRepositoryFindAll(t *testing.T) {
	db := newTestDB(t)
	repo := NewOrderRepository(db)
	ctx := context.Background()

	woo, err := sales.NewOrder("W-1", sales.OrderSourceWooCommerce)
	require.NoError(t, err)
	require.NoError(t, repo.Upsert(ctx, woo))

	flipkart, err := sales.NewOrder("F-1", sales.OrderSourceFlipkart)
	require.NoError(t, err)
	flipkart.Status = "processing"
	require.NoError(t, repo.Upsert(ctx, flipkart))

	all, err := repo.FindAll(ctx, sales.OrderFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	onlyFlipkart, err := repo.FindAll(ctx, sales.OrderFilter{Source: sales.OrderSourceFlipkart})
	require.NoError(t, err)
	require.Len(t, onlyFlipkart, 1)
	assert.Equal(t, "F-1", onlyFlipkart[0].ExternalID)

	processing, err := repo.FindAll(ctx, sales.OrderFilter{Status: "processing"})
	require.NoError(t, err)
	assert.Len(t, processing, 1)
}

func TestOrderRepositoryContactRoundTrip(t *testing.T) {
	db := newTestDB(t)
	repo := NewOrderRepository(db)
	ctx := context.Background()

	order, err := sales.NewOrder("C-1", sales.OrderSourceWooCommerce)
	require.NoError(t, err)
	order.Billing = sales.Contact{FirstName: "Asha", LastName: "Rao", City: "Pune"}
	order.Shipping = sales.Contact{Address1: "12 MG Road", Postcode: "411001"}
	require.NoError(t, repo.Upsert(ctx, order))

	found, err := repo.FindByExternalID(ctx, "C-1")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "Asha", found.Billing.FirstName)
	assert.Equal(t, "411001", found.Shipping.Postcode)
}

func TestUploadLogRepository(t *testing.T) {
	db := newTestDB(t)
	repo := NewUploadLogRepository(db)
	ctx := context.Background()

	log := integration.NewUploadLog("products-aug.csv", integration.MarketplaceFlipkart, integration.UploadRecordProducts)
	log.Complete(10, 9, 1)
	require.NoError(t, repo.Save(ctx, log))

	failed := integration.NewUploadLog("broken.csv", integration.MarketplaceFlipkart, integration.UploadRecordOrders)
	failed.Fail(assert.AnError)
	require.NoError(t, repo.Save(ctx, failed))

	recent, err := repo.FindRecent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, recent, 2)

	one, err := repo.FindRecent(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, one, 1)
}
