package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"example.com/fuelwale/backoffice/internal/models"
)

// TripRepository provides access to trip data
type TripRepository struct {
	db         *gorm.DB
	readOnlyDB *gorm.DB
}

// NewTripRepository creates a new trip repository
func NewTripRepository(db *gorm.DB, readOnlyDB *gorm.DB) *TripRepository {
	return &TripRepository{db: db, readOnlyDB: readOnlyDB}
}

// List returns trips newest first, optionally filtered by status
func (r *TripRepository) List(ctx context.Context, status string) ([]models.Trip, error) {
	q := r.readOnlyDB.WithContext(ctx).Preload("Vehicle").Order("created_at desc")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var trips []models.Trip
	err := q.Find(&trips).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list trips")
	}
	return trips, nil
}

// GetByID gets a trip with its vehicle embedded
func (r *TripRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Trip, error) {
	var trip models.Trip
	err := r.readOnlyDB.WithContext(ctx).Preload("Vehicle").First(&trip, "id = ?", id).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to get trip by ID")
	}
	return &trip, nil
}

// GetForUpdate loads a trip inside tx holding a row lock, so lifecycle
// checks run against fresh state rather than whatever the caller cached
func (r *TripRepository) GetForUpdate(tx *gorm.DB, id uuid.UUID) (*models.Trip, error) {
	var trip models.Trip
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&trip, "id = ?", id).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to lock trip")
	}
	return &trip, nil
}

// ListTripNos returns every trip number in the system
func (r *TripRepository) ListTripNos(ctx context.Context) ([]string, error) {
	var nos []string
	err := r.readOnlyDB.WithContext(ctx).Model(&models.Trip{}).Pluck("trip_no", &nos).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list trip numbers")
	}
	return nos, nil
}

// DeliveryRepository provides access to delivery data
type DeliveryRepository struct {
	db         *gorm.DB
	readOnlyDB *gorm.DB
}

// NewDeliveryRepository creates a new delivery repository
func NewDeliveryRepository(db *gorm.DB, readOnlyDB *gorm.DB) *DeliveryRepository {
	return &DeliveryRepository{db: db, readOnlyDB: readOnlyDB}
}

// ListByTripAndStatus lists a trip's deliveries in one state
func (r *DeliveryRepository) ListByTripAndStatus(ctx context.Context, tripID uuid.UUID, status string) ([]models.Delivery, error) {
	var deliveries []models.Delivery
	err := r.readOnlyDB.WithContext(ctx).
		Where("trip_id = ? AND status = ?", tripID, status).
		Order("created_at").
		Find(&deliveries).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list deliveries")
	}
	return deliveries, nil
}

// GetByID gets a delivery by ID
func (r *DeliveryRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Delivery, error) {
	var delivery models.Delivery
	err := r.readOnlyDB.WithContext(ctx).First(&delivery, "id = ?", id).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to get delivery by ID")
	}
	return &delivery, nil
}

// GetForUpdate loads a delivery inside tx holding a row lock, so two
// concurrent confirmations of the same pending row serialize: the second
// sees the first's COMPLETED status instead of a stale PENDING
func (r *DeliveryRepository) GetForUpdate(tx *gorm.DB, id uuid.UUID) (*models.Delivery, error) {
	var delivery models.Delivery
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&delivery, "id = ?", id).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to lock delivery")
	}
	return &delivery, nil
}

// GetByIdempotencyKey finds an already-confirmed delivery for a key, if any
func (r *DeliveryRepository) GetByIdempotencyKey(ctx context.Context, key uuid.UUID) (*models.Delivery, error) {
	var delivery models.Delivery
	err := r.readOnlyDB.WithContext(ctx).Where("idempotency_key = ?", key).First(&delivery).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "failed to get delivery by idempotency key")
	}
	return &delivery, nil
}

// LoadingRepository provides access to loading records
type LoadingRepository struct {
	db         *gorm.DB
	readOnlyDB *gorm.DB
}

// NewLoadingRepository creates a new loading repository
func NewLoadingRepository(db *gorm.DB, readOnlyDB *gorm.DB) *LoadingRepository {
	return &LoadingRepository{db: db, readOnlyDB: readOnlyDB}
}

// ListByTrip lists the loadings recorded for a trip
func (r *LoadingRepository) ListByTrip(ctx context.Context, tripID uuid.UUID) ([]models.Loading, error) {
	var loadings []models.Loading
	err := r.readOnlyDB.WithContext(ctx).Where("trip_id = ?", tripID).Order("created_at").Find(&loadings).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list loadings")
	}
	return loadings, nil
}

// InventoryRepository provides access to per-trip bowser balances
type InventoryRepository struct {
	db         *gorm.DB
	readOnlyDB *gorm.DB
}

// NewInventoryRepository creates a new inventory repository
func NewInventoryRepository(db *gorm.DB, readOnlyDB *gorm.DB) *InventoryRepository {
	return &InventoryRepository{db: db, readOnlyDB: readOnlyDB}
}

// GetByTrip gets the bowser inventory row for a trip
func (r *InventoryRepository) GetByTrip(ctx context.Context, tripID uuid.UUID) (*models.BowserInventory, error) {
	var inv models.BowserInventory
	err := r.readOnlyDB.WithContext(ctx).Where("trip_id = ?", tripID).First(&inv).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to get bowser inventory")
	}
	return &inv, nil
}

// GetForUpdate locks the inventory row for a trip inside tx
func (r *InventoryRepository) GetForUpdate(tx *gorm.DB, tripID uuid.UUID) (*models.BowserInventory, error) {
	var inv models.BowserInventory
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("trip_id = ?", tripID).First(&inv).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to lock bowser inventory")
	}
	return &inv, nil
}

// SequenceRepository hands out serials from named counters. Next advances
// the counter under a row lock inside the caller's transaction, so two
// concurrent assignments can never observe the same serial.
type SequenceRepository struct {
	db *gorm.DB
}

// NewSequenceRepository creates a new sequence repository
func NewSequenceRepository(db *gorm.DB) *SequenceRepository {
	return &SequenceRepository{db: db}
}

// Next returns the next serial for scope. When the counter does not exist
// yet it is seeded from seed(), which lets an installation with legacy trip
// numbers continue their numbering.
func (r *SequenceRepository) Next(tx *gorm.DB, scope string, seed func(tx *gorm.DB) (int64, error)) (int64, error) {
	var seq models.TripSequence
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("scope = ?", scope).
		First(&seq).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, errors.Wrap(err, "failed to lock sequence")
		}
		first, serr := seed(tx)
		if serr != nil {
			return 0, errors.Wrap(serr, "failed to seed sequence")
		}
		seq = models.TripSequence{Scope: scope, Next: first + 1}
		if cerr := tx.Create(&seq).Error; cerr != nil {
			return 0, errors.Wrap(cerr, "failed to create sequence")
		}
		return first, nil
	}

	serial := seq.Next
	err = tx.Model(&models.TripSequence{}).
		Where("scope = ?", scope).
		Update("next", serial+1).Error
	if err != nil {
		return 0, errors.Wrap(err, "failed to advance sequence")
	}
	return serial, nil
}

// OutboxRepository provides access to queued customer notifications
type OutboxRepository struct {
	db         *gorm.DB
	readOnlyDB *gorm.DB
}

// NewOutboxRepository creates a new notification outbox repository
func NewOutboxRepository(db *gorm.DB, readOnlyDB *gorm.DB) *OutboxRepository {
	return &OutboxRepository{db: db, readOnlyDB: readOnlyDB}
}

// ListUnsent returns notifications not yet delivered, oldest first
func (r *OutboxRepository) ListUnsent(ctx context.Context, limit int) ([]models.NotificationOutbox, error) {
	var rows []models.NotificationOutbox
	err := r.db.WithContext(ctx).
		Where("sent_at IS NULL").
		Order("created_at").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list unsent notifications")
	}
	return rows, nil
}

// MarkSent stamps a notification as delivered
func (r *OutboxRepository) MarkSent(ctx context.Context, id uuid.UUID) error {
	err := r.db.WithContext(ctx).Model(&models.NotificationOutbox{}).
		Where("id = ?", id).
		Update("sent_at", time.Now()).Error
	return errors.Wrap(err, "failed to mark notification sent")
}

// RecordFailure bumps the attempt counter after a failed send
func (r *OutboxRepository) RecordFailure(ctx context.Context, id uuid.UUID) error {
	err := r.db.WithContext(ctx).Model(&models.NotificationOutbox{}).
		Where("id = ?", id).
		UpdateColumn("attempts", gorm.Expr("attempts + 1")).Error
	return errors.Wrap(err, "failed to record notification failure")
}

// InvoiceRepository provides access to invoices
type InvoiceRepository struct {
	db         *gorm.DB
	readOnlyDB *gorm.DB
}

// NewInvoiceRepository creates a new invoice repository
func NewInvoiceRepository(db *gorm.DB, readOnlyDB *gorm.DB) *InvoiceRepository {
	return &InvoiceRepository{db: db, readOnlyDB: readOnlyDB}
}

// List returns invoices newest first
func (r *InvoiceRepository) List(ctx context.Context) ([]models.Invoice, error) {
	var invoices []models.Invoice
	err := r.readOnlyDB.WithContext(ctx).Preload("Lines").Order("created_at desc").Find(&invoices).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list invoices")
	}
	return invoices, nil
}

// GetByTrip gets the invoice generated for a trip
func (r *InvoiceRepository) GetByTrip(ctx context.Context, tripID uuid.UUID) (*models.Invoice, error) {
	var invoice models.Invoice
	err := r.readOnlyDB.WithContext(ctx).Preload("Lines").Where("trip_id = ?", tripID).First(&invoice).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to get invoice for trip")
	}
	return &invoice, nil
}
