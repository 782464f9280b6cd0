package services

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"example.com/fuelwale/backoffice/internal/cache"
	"example.com/fuelwale/backoffice/internal/models"
)

// RecordLoadingInput carries the station-fill form. The vehicle arrives as
// the operator typed it; resolution is tolerant because legacy rows were
// entered inconsistently across the system.
type RecordLoadingInput struct {
	TripID    uuid.UUID
	StationID uuid.UUID
	Product   string
	QuantityL int64
	VehicleNo string
	DepotCode string
}

// ResolveVehicle finds a vehicle for an inconsistently entered number:
// exact match first, then case-insensitive, then with separators stripped.
// Returns nil when no variant matches.
func ResolveVehicle(vehicles []models.Vehicle, number string) *models.Vehicle {
	for i := range vehicles {
		if vehicles[i].Registration == number {
			return &vehicles[i]
		}
	}
	for i := range vehicles {
		if strings.EqualFold(vehicles[i].Registration, number) {
			return &vehicles[i]
		}
	}
	want := models.NormalizeRegistration(number)
	for i := range vehicles {
		if models.NormalizeRegistration(vehicles[i].Registration) == want {
			return &vehicles[i]
		}
	}
	return nil
}

// RecordLoading records a depot/station fill and adds its quantity to the
// trip's bowser balance in one transaction.
func (s *TripService) RecordLoading(ctx context.Context, in RecordLoadingInput) (*models.Loading, error) {
	txn := s.tracer.StartTransaction("record-loading")
	defer s.tracer.EndTransaction(txn)

	if in.QuantityL <= 0 {
		return nil, errors.Wrap(ErrValidation, "loading quantity must be positive")
	}
	if strings.TrimSpace(in.Product) == "" {
		return nil, errors.Wrap(ErrValidation, "product is required")
	}

	trip, err := s.tripRepo.GetByID(ctx, in.TripID)
	if err != nil {
		return nil, errors.Wrap(ErrNotFound, "trip not found")
	}
	if trip.Status != models.TripAssigned && trip.Status != models.TripActive {
		return nil, errors.Wrapf(ErrInvalidTransition, "cannot load a %s trip", trip.Status)
	}

	if _, err := s.stationRepo.GetByID(ctx, in.StationID); err != nil {
		return nil, errors.Wrap(ErrNotFound, "station not found")
	}

	vehicle, err := s.resolveVehicleNo(ctx, in.VehicleNo)
	if err != nil {
		return nil, err
	}

	loading := &models.Loading{
		ID:        uuid.New(),
		TripID:    trip.ID,
		StationID: in.StationID,
		VehicleID: vehicle.ID,
		DepotCode: models.DeriveDepotCode(in.DepotCode),
		Product:   in.Product,
		QuantityL: in.QuantityL,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(loading).Error; err != nil {
			return errors.Wrap(err, "failed to create loading")
		}
		inv, err := s.invRepo.GetForUpdate(tx, trip.ID)
		if err != nil {
			return err
		}
		return errors.Wrap(
			tx.Model(&models.BowserInventory{}).Where("id = ?", inv.ID).
				Update("balance_liters", inv.BalanceLiters+in.QuantityL).Error,
			"failed to update bowser balance")
	})
	if err != nil {
		s.tracer.RecordError(txn, err)
		return nil, err
	}

	s.invalidateBalance(ctx, trip.ID)
	s.metrics.IncrementCounter("loadings_recorded")
	log.Info().
		Str("trip_id", trip.ID.String()).
		Str("vehicle", vehicle.Registration).
		Int64("quantity_l", in.QuantityL).
		Msg("Loading recorded")

	return loading, nil
}

// resolveVehicleNo tries the cheap indexed lookup on the canonical form and
// only then falls back to the tolerant scan over all vehicles
func (s *TripService) resolveVehicleNo(ctx context.Context, number string) (*models.Vehicle, error) {
	number = strings.TrimSpace(number)
	if number == "" {
		return nil, errors.Wrap(ErrVehicleUnresolved, "vehicle number is required")
	}

	if v, err := s.vehicleRepo.GetByRegistration(ctx, models.NormalizeRegistration(number)); err == nil {
		return v, nil
	}

	vehicles, err := s.vehicleRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	if v := ResolveVehicle(vehicles, number); v != nil {
		return v, nil
	}
	return nil, errors.Wrapf(ErrVehicleUnresolved, "no vehicle matches %q", number)
}

// ListStations lists the loading stations available on a route
func (s *TripService) ListStations(ctx context.Context, routeID uuid.UUID) ([]models.Station, error) {
	return s.routeRepo.ListStations(ctx, routeID)
}

// invalidateBalance drops the cached bowser balance after a mutation
func (s *TripService) invalidateBalance(ctx context.Context, tripID uuid.UUID) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, cache.BowserBalanceKey(tripID)); err != nil {
		log.Debug().Err(err).Str("trip_id", tripID.String()).Msg("Failed to invalidate cached balance")
	}
}
