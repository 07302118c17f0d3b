package sync

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/bookpress/backend/internal/domain/integration"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newIngestService(decoder integration.CSVDecoder, uploads *fakeUploadRepo) *FlipkartIngestService {
	logger := zap.NewNop()
	return NewFlipkartIngestService(
		decoder,
		NewBookSyncService(newFakeBookRepo(), newFakeAuthorRepo(), logger),
		NewOrderSyncService(newFakeOrderRepo(), logger),
		uploads,
		logger,
	)
}

func TestFlipkartIngestService_IngestProducts(t *testing.T) {
	decoder := &fakeDecoder{
		products: []integration.RawProduct{
			{
				Source: integration.MarketplaceFlipkart,
				Fields: map[string]any{"product_id": "FK1", "product_name": "Flipkart Book", "selling_price": "199"},
			},
			{
				// No product id, so the row cannot be reconciled.
				Source: integration.MarketplaceFlipkart,
				Fields: map[string]any{"product_name": "Orphan Row"},
			},
		},
	}
	uploads := &fakeUploadRepo{}
	svc := newIngestService(decoder, uploads)

	log, err := svc.IngestProducts(context.Background(), "products.csv", strings.NewReader("ignored"))
	require.NoError(t, err)

	assert.Equal(t, integration.UploadStatusCompleted, log.Status)
	assert.Equal(t, 2, log.TotalRows)
	assert.Equal(t, 1, log.SuccessCount)
	assert.Equal(t, 1, log.FailedCount)
	assert.Equal(t, "products.csv", log.FileName)
	require.Len(t, uploads.logs, 1)
}

func TestFlipkartIngestService_IngestOrders(t *testing.T) {
	decoder := &fakeDecoder{
		orders: []integration.RawOrder{
			{
				Source: integration.MarketplaceFlipkart,
				Fields: map[string]any{"order_id": "OD1", "order_total": "300", "quantity": "2"},
			},
		},
	}
	uploads := &fakeUploadRepo{}
	svc := newIngestService(decoder, uploads)

	log, err := svc.IngestOrders(context.Background(), "orders.csv", strings.NewReader("ignored"))
	require.NoError(t, err)

	assert.Equal(t, integration.UploadStatusCompleted, log.Status)
	assert.Equal(t, 1, log.SuccessCount)
	assert.Zero(t, log.FailedCount)
	assert.Equal(t, integration.UploadRecordOrders, log.RecordType)
}

func TestFlipkartIngestService_DecodeFailureMarksLogFailed(t *testing.T) {
	decoder := &fakeDecoder{err: errors.New("file is empty")}
	uploads := &fakeUploadRepo{}
	svc := newIngestService(decoder, uploads)

	log, err := svc.IngestProducts(context.Background(), "broken.csv", strings.NewReader(""))
	require.Error(t, err)

	assert.Equal(t, integration.UploadStatusFailed, log.Status)
	assert.Contains(t, log.Error, "file is empty")
	require.Len(t, uploads.logs, 1)
}
