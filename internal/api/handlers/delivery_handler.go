package handlers

import (
	"net/http"

	"example.com/fuelwale/backoffice/internal/services"
	"example.com/fuelwale/backoffice/internal/tracing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// DeliveryHandler handles delivery confirmations and bowser inventory reads
type DeliveryHandler struct {
	tripService *services.TripService
	tracer      tracing.Tracer
}

// NewDeliveryHandler creates a new delivery handler
func NewDeliveryHandler(tripService *services.TripService, tracer tracing.Tracer) *DeliveryHandler {
	return &DeliveryHandler{
		tripService: tripService,
		tracer:      tracer,
	}
}

// ConfirmDeliveryRequest represents a delivery confirmation
type ConfirmDeliveryRequest struct {
	PendingDeliveryID uuid.UUID  `json:"pendingDeliveryId" binding:"required"`
	QuantityL         int64      `json:"quantityL"`
	RateP             int64      `json:"rateP"`
	IdempotencyKey    *uuid.UUID `json:"idempotencyKey"`
}

// HandleConfirmDelivery confirms a pending delivery against the bowser stock
func (h *DeliveryHandler) HandleConfirmDelivery(c *gin.Context) {
	txn := h.tracer.StartTransaction("api-confirm-delivery")
	defer h.tracer.EndTransaction(txn)

	var req ConfirmDeliveryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	delivery, err := h.tripService.ConfirmDelivery(c, services.ConfirmDeliveryInput{
		PendingDeliveryID: req.PendingDeliveryID,
		QuantityL:         req.QuantityL,
		RateP:             req.RateP,
		IdempotencyKey:    req.IdempotencyKey,
	})
	if err != nil {
		log.Error().Err(err).Str("delivery_id", req.PendingDeliveryID.String()).Msg("failed to confirm delivery")
		h.tracer.RecordError(txn, err)
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, delivery)
}

// HandlePendingDeliveries lists a trip's pending deliveries
func (h *DeliveryHandler) HandlePendingDeliveries(c *gin.Context) {
	tripID, err := uuid.Parse(c.Param("tripId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid trip id"})
		return
	}

	deliveries, err := h.tripService.PendingDeliveries(c, tripID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, deliveries)
}

// HandleCompletedDeliveries lists a trip's completed deliveries
func (h *DeliveryHandler) HandleCompletedDeliveries(c *gin.Context) {
	tripID, err := uuid.Parse(c.Param("tripId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid trip id"})
		return
	}

	deliveries, err := h.tripService.CompletedDeliveries(c, tripID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, deliveries)
}

// HandleBowserBalance returns the remaining bowser stock for a trip
func (h *DeliveryHandler) HandleBowserBalance(c *gin.Context) {
	tripID, err := uuid.Parse(c.Param("tripId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid trip id"})
		return
	}

	balance, err := h.tripService.Balance(c, tripID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tripId": tripID, "balanceLiters": balance})
}
