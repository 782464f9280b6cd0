package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"example.com/fuelwale/backoffice/internal/cache"
	"example.com/fuelwale/backoffice/internal/models"
)

// ConfirmDeliveryInput carries the driver's delivery confirmation
type ConfirmDeliveryInput struct {
	PendingDeliveryID uuid.UUID
	QuantityL         int64
	RateP             int64
	IdempotencyKey    *uuid.UUID
}

// ValidateDeliveryRequest rejects an incomplete confirmation. The message
// matches what the console shows inline.
func ValidateDeliveryRequest(pendingID uuid.UUID, quantityL, rateP int64) error {
	if pendingID == uuid.Nil || quantityL <= 0 || rateP <= 0 {
		return errors.Wrap(ErrValidation, "Customer, qty and rate are required.")
	}
	return nil
}

// CheckStock guards a requested quantity against the known bowser balance
func CheckStock(quantityL, balanceL int64) error {
	if quantityL > balanceL {
		return errors.Wrapf(ErrInsufficientStock, "Insufficient stock. Only %d L left.", balanceL)
	}
	return nil
}

// guardCompletion interprets the row count of the status-guarded completion
// update. Zero rows means another confirmation completed the delivery first;
// the loser must not overwrite the DC number or touch the balance.
func guardCompletion(rowsAffected int64) error {
	if rowsAffected == 0 {
		return errors.Wrap(ErrValidation, "delivery is already completed")
	}
	return nil
}

// ConfirmDelivery fulfills one pending requirement: assigns the next DC
// number, computes the amount, decrements the bowser balance and publishes
// the customer notification. The balance guard runs again inside the
// transaction against the locked inventory row, which is the authoritative
// check.
func (s *TripService) ConfirmDelivery(ctx context.Context, in ConfirmDeliveryInput) (*models.Delivery, error) {
	txn := s.tracer.StartTransaction("confirm-delivery")
	defer s.tracer.EndTransaction(txn)

	if err := ValidateDeliveryRequest(in.PendingDeliveryID, in.QuantityL, in.RateP); err != nil {
		return nil, err
	}

	// Replay protection: a retried confirmation returns the original record
	if in.IdempotencyKey != nil {
		existing, err := s.deliveryRepo.GetByIdempotencyKey(ctx, *in.IdempotencyKey)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			log.Info().Str("dc_no", existing.DcNo).Msg("Duplicate delivery confirmation ignored")
			return existing, nil
		}
	}

	var delivery models.Delivery
	var note models.NotificationOutbox
	var tripNo string
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		locked, err := s.deliveryRepo.GetForUpdate(tx, in.PendingDeliveryID)
		if err != nil {
			return errors.Wrap(ErrNotFound, "pending delivery not found")
		}
		delivery = *locked
		if delivery.Status != models.DeliveryPending {
			return errors.Wrap(ErrValidation, "delivery is already completed")
		}

		trip, err := s.tripRepo.GetForUpdate(tx, delivery.TripID)
		if err != nil {
			return err
		}
		if trip.Status != models.TripActive {
			return errors.Wrapf(ErrInvalidTransition, "cannot deliver on a %s trip", trip.Status)
		}
		tripNo = trip.TripNo

		inv, err := s.invRepo.GetForUpdate(tx, delivery.TripID)
		if err != nil {
			return err
		}
		if err := CheckStock(in.QuantityL, inv.BalanceLiters); err != nil {
			return err
		}

		serial, err := s.seqRepo.Next(tx, models.SeqDcNo, func(*gorm.DB) (int64, error) { return 1, nil })
		if err != nil {
			return err
		}

		now := time.Now()
		delivery.Status = models.DeliveryCompleted
		delivery.DeliveredL = in.QuantityL
		delivery.RateP = in.RateP
		delivery.AmountP = in.QuantityL * in.RateP
		delivery.DcNo = fmt.Sprintf("DC%05d", serial)
		delivery.DeliveredAt = &now
		delivery.IdempotencyKey = in.IdempotencyKey

		// The status predicate backs up the row lock: only a PENDING row
		// completes, so a racing confirmation updates zero rows and aborts
		res := tx.Model(&models.Delivery{}).
			Where("id = ? AND status = ?", delivery.ID, models.DeliveryPending).
			Updates(map[string]interface{}{
				"status":          delivery.Status,
				"delivered_l":     delivery.DeliveredL,
				"rate_p":          delivery.RateP,
				"amount_p":        delivery.AmountP,
				"dc_no":           delivery.DcNo,
				"delivered_at":    delivery.DeliveredAt,
				"idempotency_key": delivery.IdempotencyKey,
			})
		if res.Error != nil {
			return errors.Wrap(res.Error, "failed to complete delivery")
		}
		if err := guardCompletion(res.RowsAffected); err != nil {
			return err
		}

		note = models.NotificationOutbox{
			ID:         uuid.New(),
			CustomerID: delivery.CustomerID,
			DcNo:       delivery.DcNo,
			TripNo:     tripNo,
			Message:    FormatDeliveryNotification(&delivery, tripNo),
		}
		if err := tx.Create(&note).Error; err != nil {
			return errors.Wrap(err, "failed to queue delivery notification")
		}

		return errors.Wrap(
			tx.Model(&models.BowserInventory{}).Where("id = ?", inv.ID).
				Update("balance_liters", inv.BalanceLiters-in.QuantityL).Error,
			"failed to decrement bowser balance")
	})
	if err != nil {
		s.tracer.RecordError(txn, err)
		return nil, err
	}

	s.invalidateBalance(ctx, delivery.TripID)
	s.metrics.IncrementCounter("deliveries_confirmed")
	log.Info().
		Str("dc_no", delivery.DcNo).
		Str("trip_no", tripNo).
		Int64("quantity_l", delivery.DeliveredL).
		Int64("amount_p", delivery.AmountP).
		Msg("Delivery confirmed")

	s.dispatchNotification(ctx, &note)
	return &delivery, nil
}

// PendingDeliveries lists a trip's unfulfilled requirements
func (s *TripService) PendingDeliveries(ctx context.Context, tripID uuid.UUID) ([]models.Delivery, error) {
	return s.deliveryRepo.ListByTripAndStatus(ctx, tripID, models.DeliveryPending)
}

// CompletedDeliveries lists a trip's confirmed deliveries
func (s *TripService) CompletedDeliveries(ctx context.Context, tripID uuid.UUID) ([]models.Delivery, error) {
	return s.deliveryRepo.ListByTripAndStatus(ctx, tripID, models.DeliveryCompleted)
}

// Balance returns the trip's current bowser balance, served from cache when
// possible
func (s *TripService) Balance(ctx context.Context, tripID uuid.UUID) (int64, error) {
	key := cache.BowserBalanceKey(tripID)
	if s.cache != nil {
		var cached int64
		if err := s.cache.Get(ctx, key, &cached); err == nil {
			return cached, nil
		}
	}

	inv, err := s.invRepo.GetByTrip(ctx, tripID)
	if err != nil {
		return 0, errors.Wrap(ErrNotFound, "no bowser inventory for trip")
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, inv.BalanceLiters, time.Minute); err != nil {
			log.Debug().Err(err).Msg("Failed to cache bowser balance")
		}
	}
	return inv.BalanceLiters, nil
}
