package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookpress/backend/internal/domain/sales"
)

func newDashboardRouter(books *stubBookRepo, authors *stubAuthorRepo, orders *stubOrderRepo) *gin.Engine {
	engine := gin.New()
	api := engine.Group("/api/v1")
	NewDashboardHandler(books, authors, orders).RegisterRoutes(api)
	return engine
}

func testOrder(t *testing.T, externalID, total string, source sales.OrderSource, qty int) sales.Order {
	t.Helper()
	order, err := sales.NewOrder(externalID, source)
	require.NoError(t, err)
	order.Total = total
	order.LineItems = sales.LineItems{{Name: "Book", Quantity: qty, Price: total}}
	return *order
}

func TestDashboardHandler_Summary(t *testing.T) {
	orders := &stubOrderRepo{orders: []sales.Order{
		testOrder(t, "1", "100.00", sales.OrderSourceWooCommerce, 2),
		testOrder(t, "2", "250.50", sales.OrderSourceAmazon, 1),
		testOrder(t, "3", "not-a-number", sales.OrderSourceFlipkart, 3),
	}}
	books := &stubBookRepo{}
	authors := &stubAuthorRepo{count: 4}
	router := newDashboardRouter(books, authors, orders)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/dashboard", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Data DashboardResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	// The unparseable total counts as zero, never fails the endpoint.
	assert.Equal(t, "350.50", resp.Data.TotalEarnings)
	assert.Equal(t, "35.05", resp.Data.TotalRoyalty)
	assert.Equal(t, 6, resp.Data.UnitsSold)
	assert.Equal(t, 3, resp.Data.OrderCount)
	assert.Equal(t, int64(4), resp.Data.AuthorCount)
	assert.Equal(t, 1, resp.Data.BySource["amazon"])
}

func TestDashboardHandler_Summary_Empty(t *testing.T) {
	router := newDashboardRouter(&stubBookRepo{}, &stubAuthorRepo{}, &stubOrderRepo{})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/dashboard", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Data DashboardResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "0.00", resp.Data.TotalEarnings)
	assert.Zero(t, resp.Data.OrderCount)
}

func TestDashboardHandler_Summary_RepositoryError(t *testing.T) {
	router := newDashboardRouter(&stubBookRepo{}, &stubAuthorRepo{}, &stubOrderRepo{err: errBoom})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/dashboard", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
