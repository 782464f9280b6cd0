package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"example.com/fuelwale/backoffice/internal/metrics"
	"example.com/fuelwale/backoffice/internal/models"
	"example.com/fuelwale/backoffice/internal/repositories"
	"example.com/fuelwale/backoffice/internal/tracing"
)

// OrderService handles order intake and status reconciliation
type OrderService struct {
	db           *gorm.DB
	readOnlyDB   *gorm.DB
	orderRepo    *repositories.OrderRepository
	customerRepo *repositories.CustomerRepository
	metrics      *metrics.Metrics
	tracer       tracing.Tracer
}

// NewOrderService creates a new order service
func NewOrderService(db *gorm.DB, readOnlyDB *gorm.DB, metricsCollector *metrics.Metrics, tracer tracing.Tracer) *OrderService {
	return &OrderService{
		db:           db,
		readOnlyDB:   readOnlyDB,
		orderRepo:    repositories.NewOrderRepository(db, readOnlyDB),
		customerRepo: repositories.NewCustomerRepository(db, readOnlyDB),
		metrics:      metricsCollector,
		tracer:       tracer,
	}
}

// OrderItemInput is one product line on the intake form
type OrderItemInput struct {
	Product   string
	QuantityL int64
	RateP     int64
	UOM       string
}

// CreateOrderInput carries the intake form
type CreateOrderInput struct {
	CustomerID uuid.UUID
	ShipToID   *uuid.UUID
	DeliverOn  *time.Time
	TimeSlot   string
	Items      []OrderItemInput
}

// CreateOrder creates a PENDING order with its line items
func (s *OrderService) CreateOrder(ctx context.Context, in CreateOrderInput) (*models.Order, error) {
	txn := s.tracer.StartTransaction("create-order")
	defer s.tracer.EndTransaction(txn)

	if len(in.Items) == 0 {
		return nil, errors.Wrap(ErrValidation, "order needs at least one line item")
	}
	for _, item := range in.Items {
		if item.Product == "" || item.QuantityL <= 0 || item.RateP <= 0 {
			return nil, errors.Wrap(ErrValidation, "each line item needs a product, quantity and rate")
		}
	}
	if _, err := s.customerRepo.GetByID(ctx, in.CustomerID); err != nil {
		return nil, errors.Wrap(ErrNotFound, "customer not found")
	}

	order := &models.Order{
		ID:         uuid.New(),
		CustomerID: in.CustomerID,
		ShipToID:   in.ShipToID,
		Status:     models.OrderPending,
		DeliverOn:  in.DeliverOn,
		TimeSlot:   in.TimeSlot,
	}
	for _, item := range in.Items {
		uom := item.UOM
		if uom == "" {
			uom = "L"
		}
		order.Items = append(order.Items, models.OrderItem{
			ID:        uuid.New(),
			OrderID:   order.ID,
			Product:   item.Product,
			QuantityL: item.QuantityL,
			RateP:     item.RateP,
			UOM:       uom,
		})
	}

	if err := s.orderRepo.Create(ctx, order); err != nil {
		s.tracer.RecordError(txn, err)
		return nil, errors.Wrap(err, "failed to create order")
	}

	s.metrics.IncrementCounter("orders_created")
	log.Info().
		Str("order_id", order.ID.String()).
		Int("items", len(order.Items)).
		Int64("total_l", order.TotalQuantityL()).
		Msg("Order created")
	return order, nil
}

// ListOrders lists orders, optionally filtered by status
func (s *OrderService) ListOrders(ctx context.Context, status string) ([]models.Order, error) {
	return s.orderRepo.List(ctx, status)
}

// GetOrder fetches one order with items and customer
func (s *OrderService) GetOrder(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, errors.Wrap(ErrNotFound, "order not found")
	}
	return order, nil
}

// CancelOrder cancels a pending order. Orders already worked by a trip keep
// their derived status.
func (s *OrderService) CancelOrder(ctx context.Context, id uuid.UUID) error {
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return errors.Wrap(ErrNotFound, "order not found")
	}
	if order.Status != models.OrderPending {
		return errors.Wrapf(ErrValidation, "cannot cancel a %s order", order.Status)
	}
	return s.orderRepo.UpdateStatus(ctx, id, models.OrderCancelled)
}

// ReconcileOrders recomputes order statuses from delivered quantities for
// orders attached to completed trips. Runs on a schedule as a fallback
// against a crash between the delivery write and the status update.
func (s *OrderService) ReconcileOrders(ctx context.Context, limit int) error {
	txn := s.tracer.StartTransaction("reconcile-orders")
	defer s.tracer.EndTransaction(txn)

	var trips []models.Trip
	err := s.readOnlyDB.WithContext(ctx).
		Where("status = ?", models.TripCompleted).
		Order("completed_at desc").
		Limit(limit).
		Find(&trips).Error
	if err != nil {
		s.tracer.RecordError(txn, err)
		return errors.Wrap(err, "failed to list completed trips")
	}

	log.Info().Msgf("Reconciling order status for %d completed trips", len(trips))

	for _, trip := range trips {
		var deliveries []models.Delivery
		if err := s.readOnlyDB.WithContext(ctx).Where("trip_id = ?", trip.ID).Find(&deliveries).Error; err != nil {
			log.Error().Err(err).Str("trip_id", trip.ID.String()).Msg("Failed to load deliveries during reconciliation")
			continue
		}
		var requiredL, deliveredL int64
		for _, d := range deliveries {
			requiredL += d.RequiredL
			if d.Status == models.DeliveryCompleted {
				deliveredL += d.DeliveredL
			}
		}

		order, err := s.orderRepo.GetByID(ctx, trip.OrderID)
		if err != nil || order.Status == models.OrderCancelled {
			continue
		}
		want := DeriveOrderStatus(requiredL, deliveredL)
		if order.Status == want {
			continue
		}
		if err := s.orderRepo.UpdateStatus(ctx, order.ID, want); err != nil {
			log.Error().Err(err).Str("order_id", order.ID.String()).Msg("Failed to reconcile order status")
			continue
		}
		s.metrics.IncrementCounter("orders_reconciled")
		log.Info().
			Str("order_id", order.ID.String()).
			Str("from", order.Status).
			Str("to", want).
			Msg("Order status reconciled")
	}
	return nil
}
