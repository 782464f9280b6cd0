package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"example.com/fuelwale/backoffice/internal/models"
)

// StartTripInput carries the driver's start-of-trip (login) form
type StartTripInput struct {
	TripID         uuid.UUID
	StartKm        int64
	TotalizerStart int64
	RouteID        *uuid.UUID
	Remarks        string
}

// StartTripResult returns what the delivery step consumes: the diesel
// opening balance and the seeded deliveries
type StartTripResult struct {
	DieselOpening int64             `json:"dieselOpening"`
	Deliveries    []models.Delivery `json:"deliveries"`
}

// EndTripInput carries the driver's end-of-trip (logout) form
type EndTripInput struct {
	TripID       uuid.UUID
	EndKm        int64
	TotalizerEnd int64
	Remarks      string
}

// ValidateStartReadings rejects negative odometer or totalizer readings
func ValidateStartReadings(startKm, totalizerStart int64) error {
	if startKm < 0 {
		return errors.Wrap(ErrValidation, "Start KM must be non-negative")
	}
	if totalizerStart < 0 {
		return errors.Wrap(ErrValidation, "Start totalizer must be non-negative")
	}
	return nil
}

// ValidateEndReadings enforces end >= start for both the odometer and the
// totalizer. Equality is accepted.
func ValidateEndReadings(startKm, totalizerStart, endKm, totalizerEnd int64) error {
	if endKm < startKm {
		return errors.Wrap(ErrValidation, "End KM cannot be less than start KM")
	}
	if totalizerEnd < totalizerStart {
		return errors.Wrap(ErrValidation, "End totalizer cannot be less than start totalizer")
	}
	return nil
}

// DeriveOrderStatus derives an order's status from delivered vs required
// quantity once its trip completes. Zero delivered leaves the order PENDING:
// partial delivery is a legitimate business outcome, not an error.
func DeriveOrderStatus(requiredL, deliveredL int64) string {
	switch {
	case deliveredL <= 0:
		return models.OrderPending
	case deliveredL >= requiredL:
		return models.OrderCompleted
	default:
		return models.OrderPartiallyCompleted
	}
}

// StartTrip transitions a trip ASSIGNED -> ACTIVE, recording the starting
// odometer and totalizer readings, and returns the diesel opening balance
// together with the trip's pending deliveries.
func (s *TripService) StartTrip(ctx context.Context, in StartTripInput) (*StartTripResult, error) {
	txn := s.tracer.StartTransaction("start-trip")
	defer s.tracer.EndTransaction(txn)

	if err := ValidateStartReadings(in.StartKm, in.TotalizerStart); err != nil {
		return nil, err
	}

	var opening int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		trip, err := s.tripRepo.GetForUpdate(tx, in.TripID)
		if err != nil {
			return errors.Wrap(ErrNotFound, "trip not found")
		}
		if !models.CanTransitionTrip(trip.Status, models.TripActive) {
			return errors.Wrapf(ErrInvalidTransition, "cannot start a %s trip", trip.Status)
		}

		now := time.Now()
		updates := map[string]interface{}{
			"status":          models.TripActive,
			"start_km":        in.StartKm,
			"totalizer_start": in.TotalizerStart,
			"remarks":         in.Remarks,
			"started_at":      now,
		}
		if in.RouteID != nil {
			updates["route_id"] = *in.RouteID
		}
		if err := tx.Model(&models.Trip{}).Where("id = ?", trip.ID).Updates(updates).Error; err != nil {
			return errors.Wrap(err, "failed to start trip")
		}

		inv, err := s.invRepo.GetForUpdate(tx, trip.ID)
		if err != nil {
			return err
		}
		opening = inv.BalanceLiters
		return nil
	})
	if err != nil {
		s.tracer.RecordError(txn, err)
		return nil, err
	}

	deliveries, err := s.deliveryRepo.ListByTripAndStatus(ctx, in.TripID, models.DeliveryPending)
	if err != nil {
		return nil, err
	}

	s.metrics.IncrementCounter("trips_started")
	log.Info().
		Str("trip_id", in.TripID.String()).
		Int64("start_km", in.StartKm).
		Int64("diesel_opening", opening).
		Msg("Trip started")

	return &StartTripResult{DieselOpening: opening, Deliveries: deliveries}, nil
}

// EndTrip transitions a trip ACTIVE -> COMPLETED, recording end readings,
// deriving the order's status from what was actually delivered and
// generating the invoice. Readings are validated against the freshly locked
// trip row, never against caller-supplied start values.
func (s *TripService) EndTrip(ctx context.Context, in EndTripInput) error {
	txn := s.tracer.StartTransaction("end-trip")
	defer s.tracer.EndTransaction(txn)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		trip, err := s.tripRepo.GetForUpdate(tx, in.TripID)
		if err != nil {
			return errors.Wrap(ErrNotFound, "trip not found")
		}
		if !models.CanTransitionTrip(trip.Status, models.TripCompleted) {
			return errors.Wrapf(ErrInvalidTransition, "cannot end a %s trip", trip.Status)
		}

		var startKm, totalizerStart int64
		if trip.StartKm != nil {
			startKm = *trip.StartKm
		}
		if trip.TotalizerStart != nil {
			totalizerStart = *trip.TotalizerStart
		}
		if err := ValidateEndReadings(startKm, totalizerStart, in.EndKm, in.TotalizerEnd); err != nil {
			return err
		}

		now := time.Now()
		updates := map[string]interface{}{
			"status":        models.TripCompleted,
			"end_km":        in.EndKm,
			"totalizer_end": in.TotalizerEnd,
			"completed_at":  now,
		}
		if in.Remarks != "" {
			updates["remarks"] = in.Remarks
		}
		if err := tx.Model(&models.Trip{}).Where("id = ?", trip.ID).Updates(updates).Error; err != nil {
			return errors.Wrap(err, "failed to end trip")
		}

		var deliveries []models.Delivery
		if err := tx.Where("trip_id = ?", trip.ID).Find(&deliveries).Error; err != nil {
			return errors.Wrap(err, "failed to load trip deliveries")
		}
		var requiredL, deliveredL int64
		for _, d := range deliveries {
			requiredL += d.RequiredL
			if d.Status == models.DeliveryCompleted {
				deliveredL += d.DeliveredL
			}
		}

		var order models.Order
		if err := tx.First(&order, "id = ?", trip.OrderID).Error; err != nil {
			return errors.Wrap(err, "failed to load order")
		}
		if order.Status != models.OrderCancelled {
			status := DeriveOrderStatus(requiredL, deliveredL)
			if err := tx.Model(&models.Order{}).Where("id = ?", order.ID).
				Update("status", status).Error; err != nil {
				return errors.Wrap(err, "failed to update order status")
			}
		}

		return s.generateInvoice(tx, trip, deliveries)
	})
	if err != nil {
		s.tracer.RecordError(txn, err)
		return err
	}

	s.metrics.IncrementCounter("trips_completed")
	log.Info().
		Str("trip_id", in.TripID.String()).
		Int64("end_km", in.EndKm).
		Msg("Trip completed")

	s.indexTripInvoice(ctx, in.TripID)
	return nil
}
