package handlers

import (
	"net/http"

	"example.com/fuelwale/backoffice/internal/services"
	"example.com/fuelwale/backoffice/internal/tracing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// LoadingHandler handles bowser loading HTTP requests
type LoadingHandler struct {
	tripService *services.TripService
	tracer      tracing.Tracer
}

// NewLoadingHandler creates a new loading handler
func NewLoadingHandler(tripService *services.TripService, tracer tracing.Tracer) *LoadingHandler {
	return &LoadingHandler{
		tripService: tripService,
		tracer:      tracer,
	}
}

// RecordLoadingRequest represents a loading at a station
type RecordLoadingRequest struct {
	TripID    uuid.UUID `json:"tripId" binding:"required"`
	StationID uuid.UUID `json:"stationId" binding:"required"`
	Product   string    `json:"product"`
	QuantityL int64     `json:"quantityL"`
	VehicleNo string    `json:"vehicleNo"`
	DepotCode string    `json:"depotCode"`
}

// HandleRecordLoading records a loading and credits the bowser stock
func (h *LoadingHandler) HandleRecordLoading(c *gin.Context) {
	txn := h.tracer.StartTransaction("api-record-loading")
	defer h.tracer.EndTransaction(txn)

	var req RecordLoadingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	loading, err := h.tripService.RecordLoading(c, services.RecordLoadingInput{
		TripID:    req.TripID,
		StationID: req.StationID,
		Product:   req.Product,
		QuantityL: req.QuantityL,
		VehicleNo: req.VehicleNo,
		DepotCode: req.DepotCode,
	})
	if err != nil {
		log.Error().Err(err).Str("trip_id", req.TripID.String()).Msg("failed to record loading")
		h.tracer.RecordError(txn, err)
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, loading)
}

// HandleListStations lists the loading stations on a route
func (h *LoadingHandler) HandleListStations(c *gin.Context) {
	routeID, err := uuid.Parse(c.Param("routeId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid route id"})
		return
	}

	stations, err := h.tripService.ListStations(c, routeID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stations)
}
