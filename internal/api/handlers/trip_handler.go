package handlers

import (
	"net/http"

	"example.com/fuelwale/backoffice/internal/services"
	"example.com/fuelwale/backoffice/internal/tracing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// TripHandler handles trip lifecycle HTTP requests
type TripHandler struct {
	tripService *services.TripService
	tracer      tracing.Tracer
}

// NewTripHandler creates a new trip handler
func NewTripHandler(tripService *services.TripService, tracer tracing.Tracer) *TripHandler {
	return &TripHandler{
		tripService: tripService,
		tracer:      tracer,
	}
}

// AssignTripRequest represents a trip assignment request
type AssignTripRequest struct {
	OrderID     uuid.UUID  `json:"orderId" binding:"required"`
	RouteID     uuid.UUID  `json:"routeId" binding:"required"`
	VehicleID   uuid.UUID  `json:"vehicleId" binding:"required"`
	DriverID    uuid.UUID  `json:"driverId" binding:"required"`
	FleetID     *uuid.UUID `json:"fleetId"`
	LoadToSendL int64      `json:"loadToSendL"`
}

// HandleAssignTrip assigns a trip against a pending order
func (h *TripHandler) HandleAssignTrip(c *gin.Context) {
	txn := h.tracer.StartTransaction("api-assign-trip")
	defer h.tracer.EndTransaction(txn)

	var req AssignTripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.tracer.AddAttribute(txn, "order_id", req.OrderID.String())

	result, err := h.tripService.AssignTrip(c, services.AssignTripInput{
		OrderID:     req.OrderID,
		RouteID:     req.RouteID,
		VehicleID:   req.VehicleID,
		DriverID:    req.DriverID,
		FleetID:     req.FleetID,
		LoadToSendL: req.LoadToSendL,
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to assign trip")
		h.tracer.RecordError(txn, err)
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, result)
}

// HandleNextTripNumber previews the next trip number for an order's depot
func (h *TripHandler) HandleNextTripNumber(c *gin.Context) {
	orderID, err := uuid.Parse(c.Query("orderId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "orderId is required"})
		return
	}

	tripNo, err := h.tripService.PreviewTripNo(c, orderID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"tripNo": tripNo})
}

// StartTripRequest represents a driver trip login
type StartTripRequest struct {
	TripID         uuid.UUID  `json:"tripId" binding:"required"`
	StartKm        int64      `json:"startKm"`
	TotalizerStart int64      `json:"totalizerStart"`
	RouteID        *uuid.UUID `json:"routeId"`
	Remarks        string     `json:"remarks"`
}

// HandleStartTrip activates an assigned trip with opening readings
func (h *TripHandler) HandleStartTrip(c *gin.Context) {
	txn := h.tracer.StartTransaction("api-start-trip")
	defer h.tracer.EndTransaction(txn)

	var req StartTripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.tripService.StartTrip(c, services.StartTripInput{
		TripID:         req.TripID,
		StartKm:        req.StartKm,
		TotalizerStart: req.TotalizerStart,
		RouteID:        req.RouteID,
		Remarks:        req.Remarks,
	})
	if err != nil {
		log.Error().Err(err).Str("trip_id", req.TripID.String()).Msg("failed to start trip")
		h.tracer.RecordError(txn, err)
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// EndTripRequest represents a driver trip logout
type EndTripRequest struct {
	TripID       uuid.UUID `json:"tripId" binding:"required"`
	EndKm        int64     `json:"endKm"`
	TotalizerEnd int64     `json:"totalizerEnd"`
	Remarks      string    `json:"remarks"`
}

// HandleEndTrip completes an active trip with closing readings
func (h *TripHandler) HandleEndTrip(c *gin.Context) {
	txn := h.tracer.StartTransaction("api-end-trip")
	defer h.tracer.EndTransaction(txn)

	var req EndTripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := h.tripService.EndTrip(c, services.EndTripInput{
		TripID:       req.TripID,
		EndKm:        req.EndKm,
		TotalizerEnd: req.TotalizerEnd,
		Remarks:      req.Remarks,
	})
	if err != nil {
		log.Error().Err(err).Str("trip_id", req.TripID.String()).Msg("failed to end trip")
		h.tracer.RecordError(txn, err)
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// HandleListTrips lists trips, optionally filtered by status
func (h *TripHandler) HandleListTrips(c *gin.Context) {
	trips, err := h.tripService.ListTrips(c, c.Query("status"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, trips)
}

// HandleGetTrip returns a single trip
func (h *TripHandler) HandleGetTrip(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid trip id"})
		return
	}

	trip, err := h.tripService.GetTrip(c, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, trip)
}

// HandleTripInvoice returns the invoice for a completed trip, as JSON or CSV
func (h *TripHandler) HandleTripInvoice(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid trip id"})
		return
	}

	invoice, err := h.tripService.TripInvoice(c, id)
	if err != nil {
		respondError(c, err)
		return
	}

	if c.Query("format") == "csv" {
		data, err := services.RenderInvoiceCSV(invoice)
		if err != nil {
			respondError(c, err)
			return
		}
		c.Header("Content-Disposition", "attachment; filename="+invoice.InvoiceNo+".csv")
		c.Data(http.StatusOK, "text/csv", data)
		return
	}

	c.JSON(http.StatusOK, invoice)
}

// HandleListInvoices lists invoices, with optional full-text search via ?q=
func (h *TripHandler) HandleListInvoices(c *gin.Context) {
	invoices, err := h.tripService.SearchInvoices(c, c.Query("q"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, invoices)
}
