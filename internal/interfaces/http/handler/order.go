package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/bookpress/backend/internal/domain/sales"
	"github.com/bookpress/backend/internal/interfaces/http/dto"
)

// OrderHandler serves the mirrored marketplace orders
type OrderHandler struct {
	BaseHandler
	orders sales.OrderRepository
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(orders sales.OrderRepository) *OrderHandler {
	return &OrderHandler{orders: orders}
}

// RegisterRoutes registers order routes
func (h *OrderHandler) RegisterRoutes(rg *gin.RouterGroup) {
	orders := rg.Group("/orders")
	{
		orders.GET("", h.List)
		orders.GET("/:id", h.Get)
	}
}

// ListOrdersRequest holds the order list query parameters
type ListOrdersRequest struct {
	dto.ListRequest
	Source string `form:"source" binding:"omitempty,oneof=woocommerce amazon flipkart"`
	Status string `form:"status"`
}

// OrderResponse is the wire shape of one mirrored order
type OrderResponse struct {
	ID           string          `json:"id"`
	ExternalID   string          `json:"external_id"`
	Source       string          `json:"source"`
	Status       string          `json:"status"`
	Total        string          `json:"total"`
	Currency     string          `json:"currency"`
	DateCreated  string          `json:"date_created,omitempty"`
	DateModified string          `json:"date_modified,omitempty"`
	CustomerID   string          `json:"customer_id,omitempty"`
	LineItems    sales.LineItems `json:"line_items,omitempty"`
	Billing      sales.Contact   `json:"billing"`
	Shipping     sales.Contact   `json:"shipping"`
	UnitsSold    int             `json:"units_sold"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

func toOrderResponse(order *sales.Order) OrderResponse {
	return OrderResponse{
		ID:           order.ID.String(),
		ExternalID:   order.ExternalID,
		Source:       order.Source.String(),
		Status:       order.Status,
		Total:        order.Total,
		Currency:     order.Currency,
		DateCreated:  order.DateCreated,
		DateModified: order.DateModified,
		CustomerID:   order.CustomerID,
		LineItems:    order.LineItems,
		Billing:      order.Billing,
		Shipping:     order.Shipping,
		UnitsSold:    order.UnitsSold(),
		CreatedAt:    order.CreatedAt,
		UpdatedAt:    order.UpdatedAt,
	}
}

// List returns mirrored orders filtered by source and status
func (h *OrderHandler) List(c *gin.Context) {
	var req ListOrdersRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BindError(c, err)
		return
	}
	req.Normalize()

	filter := sales.OrderFilter{
		Source: sales.OrderSource(req.Source),
		Status: req.Status,
		Limit:  req.PageSize,
		Offset: req.Offset(),
	}
	orders, err := h.orders.FindAll(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	total, err := h.orders.Count(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	responses := make([]OrderResponse, 0, len(orders))
	for i := range orders {
		responses = append(responses, toOrderResponse(&orders[i]))
	}
	h.SuccessWithMeta(c, responses, total, req.Page, req.PageSize)
}

// Get returns one order by id
func (h *OrderHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "invalid order id")
		return
	}

	order, err := h.orders.FindByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if order == nil {
		h.NotFound(c, "order not found")
		return
	}
	h.Success(c, toOrderResponse(order))
}
