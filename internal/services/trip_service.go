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
	"example.com/fuelwale/backoffice/internal/metrics"
	"example.com/fuelwale/backoffice/internal/models"
	"example.com/fuelwale/backoffice/internal/repositories"
	"example.com/fuelwale/backoffice/internal/search"
	"example.com/fuelwale/backoffice/internal/tracing"
)

// Notifier publishes customer-facing notifications. The Service Bus client
// satisfies it; a nil notifier downgrades to log-only.
type Notifier interface {
	SendMessage(ctx context.Context, body interface{}) error
}

// DeliveryStore is the slice of the delivery repository the trip service
// depends on
type DeliveryStore interface {
	ListByTripAndStatus(ctx context.Context, tripID uuid.UUID, status string) ([]models.Delivery, error)
	GetByIdempotencyKey(ctx context.Context, key uuid.UUID) (*models.Delivery, error)
	GetForUpdate(tx *gorm.DB, id uuid.UUID) (*models.Delivery, error)
}

// OutboxStore tracks queued customer notifications across send attempts
type OutboxStore interface {
	ListUnsent(ctx context.Context, limit int) ([]models.NotificationOutbox, error)
	MarkSent(ctx context.Context, id uuid.UUID) error
	RecordFailure(ctx context.Context, id uuid.UUID) error
}

// TripService orchestrates the trip lifecycle: assignment, start (login),
// loading, delivery fulfillment, end (logout) and invoice generation.
type TripService struct {
	db           *gorm.DB // Write database
	readOnlyDB   *gorm.DB // Read-only database
	tripRepo     *repositories.TripRepository
	orderRepo    *repositories.OrderRepository
	routeRepo    *repositories.RouteRepository
	vehicleRepo  *repositories.VehicleRepository
	driverRepo   *repositories.DriverRepository
	stationRepo  *repositories.StationRepository
	deliveryRepo DeliveryStore
	loadingRepo  *repositories.LoadingRepository
	invRepo      *repositories.InventoryRepository
	seqRepo      *repositories.SequenceRepository
	invoiceRepo  *repositories.InvoiceRepository
	outboxRepo   OutboxStore
	cache        *cache.RedisCache
	search       *search.ElasticClient
	metrics      *metrics.Metrics
	tracer       tracing.Tracer
	notifier     Notifier
}

// NewTripService creates a new trip service
func NewTripService(
	db *gorm.DB,
	readOnlyDB *gorm.DB,
	redisCache *cache.RedisCache,
	elasticClient *search.ElasticClient,
	metricsCollector *metrics.Metrics,
	tracer tracing.Tracer,
	notifier Notifier,
) *TripService {
	return &TripService{
		db:           db,
		readOnlyDB:   readOnlyDB,
		tripRepo:     repositories.NewTripRepository(db, readOnlyDB),
		orderRepo:    repositories.NewOrderRepository(db, readOnlyDB),
		routeRepo:    repositories.NewRouteRepository(db, readOnlyDB),
		vehicleRepo:  repositories.NewVehicleRepository(db, readOnlyDB),
		driverRepo:   repositories.NewDriverRepository(db, readOnlyDB),
		stationRepo:  repositories.NewStationRepository(db, readOnlyDB),
		deliveryRepo: repositories.NewDeliveryRepository(db, readOnlyDB),
		loadingRepo:  repositories.NewLoadingRepository(db, readOnlyDB),
		invRepo:      repositories.NewInventoryRepository(db, readOnlyDB),
		seqRepo:      repositories.NewSequenceRepository(db),
		invoiceRepo:  repositories.NewInvoiceRepository(db, readOnlyDB),
		outboxRepo:   repositories.NewOutboxRepository(db, readOnlyDB),
		cache:        redisCache,
		search:       elasticClient,
		metrics:      metricsCollector,
		tracer:       tracer,
		notifier:     notifier,
	}
}

// AssignTripInput carries the operator's assignment form
type AssignTripInput struct {
	OrderID     uuid.UUID
	RouteID     uuid.UUID
	VehicleID   uuid.UUID
	DriverID    uuid.UUID
	FleetID     *uuid.UUID
	LoadToSendL int64
}

// AssignTripResult is returned to the console after assignment
type AssignTripResult struct {
	TripID                uuid.UUID `json:"tripId"`
	TripNo                string    `json:"tripNo"`
	SeededDeliveriesCount int       `json:"seededDeliveriesCount"`
}

// SeedDeliveries materializes one pending delivery per order line item.
// Required quantities always sum to the order's line-item total; the
// load-to-send figure only bounds what can physically be loaded.
func SeedDeliveries(trip *models.Trip, order *models.Order) []models.Delivery {
	deliveries := make([]models.Delivery, 0, len(order.Items))
	for _, item := range order.Items {
		deliveries = append(deliveries, models.Delivery{
			ID:         uuid.New(),
			TripID:     trip.ID,
			CustomerID: order.CustomerID,
			ShipToID:   order.ShipToID,
			Product:    item.Product,
			Status:     models.DeliveryPending,
			RequiredL:  item.QuantityL,
			RateP:      item.RateP,
		})
	}
	return deliveries
}

// AssignTrip binds a pending order to a vehicle, driver and route and
// materializes an ASSIGNED trip with pre-seeded pending deliveries. The trip
// number serial comes from an atomic counter advanced inside the same
// transaction, so concurrent assignments can never collide.
func (s *TripService) AssignTrip(ctx context.Context, in AssignTripInput) (*AssignTripResult, error) {
	txn := s.tracer.StartTransaction("assign-trip")
	defer s.tracer.EndTransaction(txn)

	order, err := s.orderRepo.GetByID(ctx, in.OrderID)
	if err != nil {
		return nil, errors.Wrap(ErrNotFound, "order not found")
	}
	if order.Status != models.OrderPending {
		return nil, errors.Wrapf(ErrOrderNotAssignable, "order is %s", order.Status)
	}
	if len(order.Items) == 0 {
		return nil, errors.Wrap(ErrOrderNotAssignable, "order has no line items")
	}

	if _, err := s.routeRepo.GetByID(ctx, in.RouteID); err != nil {
		return nil, errors.Wrap(ErrNotFound, "route not found")
	}
	routeVehicles, err := s.vehicleRepo.ListByRoute(ctx, in.RouteID)
	if err != nil {
		return nil, err
	}
	if len(routeVehicles) == 0 {
		return nil, errors.Wrap(ErrValidation, "route has no vehicles registered")
	}
	var vehicle *models.Vehicle
	for i := range routeVehicles {
		if routeVehicles[i].ID == in.VehicleID {
			vehicle = &routeVehicles[i]
			break
		}
	}
	if vehicle == nil {
		return nil, errors.Wrap(ErrValidation, "vehicle is not on the selected route")
	}
	if _, err := s.driverRepo.GetByID(ctx, in.DriverID); err != nil {
		return nil, errors.Wrap(ErrNotFound, "driver not found")
	}

	loadToSend := in.LoadToSendL
	if loadToSend == 0 {
		loadToSend = order.TotalQuantityL()
	}
	if vehicle.TankCapacityL > 0 && loadToSend > vehicle.TankCapacityL {
		return nil, errors.Wrapf(ErrValidation, "load to send %d L exceeds tank capacity %d L", loadToSend, vehicle.TankCapacityL)
	}

	stateCode := models.DeriveStateCode(order.Customer.BillingState)
	depotCode := models.DeriveDepotCode(order.Customer.Depot.Code)

	trip := &models.Trip{
		ID:          uuid.New(),
		OrderID:     order.ID,
		RouteID:     in.RouteID,
		VehicleID:   vehicle.ID,
		DriverID:    in.DriverID,
		Status:      models.TripAssigned,
		VehicleNo:   vehicle.Registration,
		LoadToSendL: loadToSend,
	}
	deliveries := SeedDeliveries(trip, order)

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		serial, err := s.seqRepo.Next(tx, models.SeqTripNo, s.seedTripSerial)
		if err != nil {
			return err
		}
		trip.TripNo = models.FormatTripNo(stateCode, depotCode, serial)

		if err := tx.Create(trip).Error; err != nil {
			return errors.Wrap(err, "failed to create trip")
		}
		if len(deliveries) > 0 {
			if err := tx.Create(&deliveries).Error; err != nil {
				return errors.Wrap(err, "failed to seed deliveries")
			}
		}
		inv := &models.BowserInventory{ID: uuid.New(), TripID: trip.ID}
		if err := tx.Create(inv).Error; err != nil {
			return errors.Wrap(err, "failed to create bowser inventory")
		}
		if in.FleetID != nil {
			if err := tx.Model(&models.Order{}).Where("id = ?", order.ID).
				Update("fleet_id", in.FleetID).Error; err != nil {
				return errors.Wrap(err, "failed to attach fleet to order")
			}
		}
		return nil
	})
	if err != nil {
		s.tracer.RecordError(txn, err)
		return nil, err
	}

	s.metrics.IncrementCounter("trips_assigned")
	log.Info().
		Str("trip_id", trip.ID.String()).
		Str("trip_no", trip.TripNo).
		Str("order_id", order.ID.String()).
		Int("seeded_deliveries", len(deliveries)).
		Msg("Trip assigned")

	return &AssignTripResult{
		TripID:                trip.ID,
		TripNo:                trip.TripNo,
		SeededDeliveriesCount: len(deliveries),
	}, nil
}

// seedTripSerial seeds the trip counter from legacy numbering: scan every
// existing trip number for its trailing serial and continue past the max
func (s *TripService) seedTripSerial(tx *gorm.DB) (int64, error) {
	var nos []string
	if err := tx.Model(&models.Trip{}).Pluck("trip_no", &nos).Error; err != nil {
		return 0, errors.Wrap(err, "failed to scan trip numbers")
	}
	return models.NextSerialFromTripNos(nos), nil
}

// PreviewTripNo computes a display-only preview of the next trip number the
// way the console used to: scan, max, add one. The value created at
// assignment is the authority and may differ under concurrency.
func (s *TripService) PreviewTripNo(ctx context.Context, orderID uuid.UUID) (string, error) {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return "", errors.Wrap(ErrNotFound, "order not found")
	}
	nos, err := s.tripRepo.ListTripNos(ctx)
	if err != nil {
		return "", err
	}
	stateCode := models.DeriveStateCode(order.Customer.BillingState)
	depotCode := models.DeriveDepotCode(order.Customer.Depot.Code)
	return models.FormatTripNo(stateCode, depotCode, models.NextSerialFromTripNos(nos)), nil
}

// GetTrip fetches one trip with its vehicle embedded
func (s *TripService) GetTrip(ctx context.Context, id uuid.UUID) (*models.Trip, error) {
	trip, err := s.tripRepo.GetByID(ctx, id)
	if err != nil {
		return nil, errors.Wrap(ErrNotFound, "trip not found")
	}
	return trip, nil
}

// ListTrips lists trips, optionally filtered by status
func (s *TripService) ListTrips(ctx context.Context, status string) ([]models.Trip, error) {
	return s.tripRepo.List(ctx, status)
}

// FormatDeliveryNotification renders the customer-facing message for a
// confirmed delivery
func FormatDeliveryNotification(d *models.Delivery, tripNo string) string {
	at := time.Now()
	if d.DeliveredAt != nil {
		at = *d.DeliveredAt
	}
	return fmt.Sprintf("Dear customer, %d L %s was delivered against trip %s (DC %s) at %s.",
		d.DeliveredL, d.Product, tripNo, d.DcNo, at.Format("02 Jan 2006 15:04"))
}

// sendNotification pushes one queued notification to the configured queue;
// without one it is logged only, which is all the old console did
func (s *TripService) sendNotification(ctx context.Context, n *models.NotificationOutbox) error {
	if s.notifier == nil {
		log.Info().Str("dc_no", n.DcNo).Str("customer_id", n.CustomerID.String()).Msg(n.Message)
		return nil
	}
	payload := map[string]interface{}{
		"customerId": n.CustomerID,
		"dcNo":       n.DcNo,
		"tripNo":     n.TripNo,
		"message":    n.Message,
		"sentAt":     time.Now().UTC().Format(time.RFC3339),
	}
	return s.notifier.SendMessage(ctx, payload)
}

// dispatchNotification attempts the immediate send once the delivery has
// committed. A failure never fails the delivery: the row stays unsent and
// the worker drain retries it.
func (s *TripService) dispatchNotification(ctx context.Context, n *models.NotificationOutbox) {
	if err := s.sendNotification(ctx, n); err != nil {
		log.Warn().Err(err).Str("dc_no", n.DcNo).Msg("Failed to publish delivery notification, leaving for drain")
		if rerr := s.outboxRepo.RecordFailure(ctx, n.ID); rerr != nil {
			log.Error().Err(rerr).Str("dc_no", n.DcNo).Msg("Failed to record notification attempt")
		}
		return
	}
	if err := s.outboxRepo.MarkSent(ctx, n.ID); err != nil {
		// The drain will resend; customers may see the message twice
		log.Warn().Err(err).Str("dc_no", n.DcNo).Msg("Failed to mark notification sent")
	}
}

// DrainNotifications sends queued notifications the inline dispatch missed,
// typically after a queue outage or a crash between commit and send
func (s *TripService) DrainNotifications(ctx context.Context, limit int) error {
	rows, err := s.outboxRepo.ListUnsent(ctx, limit)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return nil
	}

	log.Info().Int("pending", len(rows)).Msg("Draining delivery notifications")
	for i := range rows {
		n := &rows[i]
		if err := s.sendNotification(ctx, n); err != nil {
			log.Warn().Err(err).Str("dc_no", n.DcNo).Int("attempts", n.Attempts).Msg("Notification send failed")
			if rerr := s.outboxRepo.RecordFailure(ctx, n.ID); rerr != nil {
				log.Error().Err(rerr).Str("dc_no", n.DcNo).Msg("Failed to record notification attempt")
			}
			continue
		}
		if err := s.outboxRepo.MarkSent(ctx, n.ID); err != nil {
			log.Warn().Err(err).Str("dc_no", n.DcNo).Msg("Failed to mark notification sent")
			continue
		}
		s.metrics.IncrementCounter("notifications_sent")
	}
	return nil
}
