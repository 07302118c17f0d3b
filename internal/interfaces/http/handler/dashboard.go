package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/bookpress/backend/internal/domain/catalog"
	"github.com/bookpress/backend/internal/domain/sales"
)

// royaltyRate is the author share of gross marketplace earnings
var royaltyRate = decimal.NewFromFloat(0.10)

// DashboardHandler aggregates cross-channel figures for the dashboard
type DashboardHandler struct {
	BaseHandler
	books   catalog.BookRepository
	authors catalog.AuthorRepository
	orders  sales.OrderRepository
}

// NewDashboardHandler creates a new DashboardHandler
func NewDashboardHandler(books catalog.BookRepository, authors catalog.AuthorRepository, orders sales.OrderRepository) *DashboardHandler {
	return &DashboardHandler{
		books:   books,
		authors: authors,
		orders:  orders,
	}
}

// RegisterRoutes registers dashboard routes
func (h *DashboardHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/dashboard", h.Summary)
}

// DashboardResponse is the aggregated storefront summary
type DashboardResponse struct {
	TotalEarnings string         `json:"total_earnings"`
	TotalRoyalty  string         `json:"total_royalty"`
	UnitsSold     int            `json:"units_sold"`
	OrderCount    int            `json:"order_count"`
	BookCount     int64          `json:"book_count"`
	AuthorCount   int64          `json:"author_count"`
	BySource      map[string]int `json:"orders_by_source"`
}

// Summary returns earnings, royalty, and catalog counts across all sources
func (h *DashboardHandler) Summary(c *gin.Context) {
	ctx := c.Request.Context()

	orders, err := h.orders.FindAll(ctx, sales.OrderFilter{})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	earnings := decimal.Zero
	units := 0
	bySource := make(map[string]int)
	for i := range orders {
		earnings = earnings.Add(orders[i].TotalAmount())
		units += orders[i].UnitsSold()
		bySource[orders[i].Source.String()]++
	}

	bookCount, err := h.books.Count(ctx)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	authorCount, err := h.authors.Count(ctx)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, DashboardResponse{
		TotalEarnings: earnings.StringFixed(2),
		TotalRoyalty:  earnings.Mul(royaltyRate).StringFixed(2),
		UnitsSold:     units,
		OrderCount:    len(orders),
		BookCount:     bookCount,
		AuthorCount:   authorCount,
		BySource:      bySource,
	})
}
