package handlers

import (
	"net/http"
	"time"

	"example.com/fuelwale/backoffice/internal/services"
	"example.com/fuelwale/backoffice/internal/tracing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// OrderHandler handles order intake HTTP requests
type OrderHandler struct {
	orderService *services.OrderService
	tracer       tracing.Tracer
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(orderService *services.OrderService, tracer tracing.Tracer) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
		tracer:       tracer,
	}
}

// OrderItemRequest is one product line on an order
type OrderItemRequest struct {
	Product   string `json:"product" binding:"required"`
	QuantityL int64  `json:"quantityL" binding:"required"`
	RateP     int64  `json:"rateP" binding:"required"`
	UOM       string `json:"uom"`
}

// CreateOrderRequest represents an order intake form
type CreateOrderRequest struct {
	CustomerID uuid.UUID          `json:"customerId" binding:"required"`
	ShipToID   *uuid.UUID         `json:"shipToId"`
	DeliverOn  *time.Time         `json:"deliverOn"`
	TimeSlot   string             `json:"timeSlot"`
	Items      []OrderItemRequest `json:"items" binding:"required"`
}

// HandleCreateOrder creates a pending order
func (h *OrderHandler) HandleCreateOrder(c *gin.Context) {
	txn := h.tracer.StartTransaction("api-create-order")
	defer h.tracer.EndTransaction(txn)

	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	items := make([]services.OrderItemInput, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, services.OrderItemInput{
			Product:   item.Product,
			QuantityL: item.QuantityL,
			RateP:     item.RateP,
			UOM:       item.UOM,
		})
	}

	order, err := h.orderService.CreateOrder(c, services.CreateOrderInput{
		CustomerID: req.CustomerID,
		ShipToID:   req.ShipToID,
		DeliverOn:  req.DeliverOn,
		TimeSlot:   req.TimeSlot,
		Items:      items,
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to create order")
		h.tracer.RecordError(txn, err)
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, order)
}

// HandleListOrders lists orders, optionally filtered by status
func (h *OrderHandler) HandleListOrders(c *gin.Context) {
	orders, err := h.orderService.ListOrders(c, c.Query("status"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

// HandleGetOrder returns a single order with its items
func (h *OrderHandler) HandleGetOrder(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order id"})
		return
	}

	order, err := h.orderService.GetOrder(c, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

// HandleCancelOrder cancels a pending order
func (h *OrderHandler) HandleCancelOrder(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order id"})
		return
	}

	if err := h.orderService.CancelOrder(c, id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// RegisterRoutes registers the handler's routes
func (h *OrderHandler) RegisterRoutes(group *gin.RouterGroup) {
	group.POST("/orders", h.HandleCreateOrder)
	group.GET("/orders", h.HandleListOrders)
	group.GET("/orders/:id", h.HandleGetOrder)
	group.POST("/orders/:id/cancel", h.HandleCancelOrder)
}
