package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Trip statuses. Transitions are strictly ordered ASSIGNED -> ACTIVE ->
// COMPLETED; no skipping, no going backward.
const (
	TripAssigned  = "ASSIGNED"
	TripActive    = "ACTIVE"
	TripCompleted = "COMPLETED"
)

// CanTransitionTrip reports whether a trip may move from one status to the next
func CanTransitionTrip(from, to string) bool {
	switch from {
	case TripAssigned:
		return to == TripActive
	case TripActive:
		return to == TripCompleted
	default:
		return false
	}
}

// Trip represents one vehicle dispatch cycle from assignment through
// delivery completion to invoicing
type Trip struct {
	ID              uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt       time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
	TripNo          string         `gorm:"not null;uniqueIndex" json:"trip_no"`
	OrderID         uuid.UUID      `gorm:"type:uuid;not null" json:"order_id"`
	RouteID         uuid.UUID      `gorm:"type:uuid;not null" json:"route_id"`
	VehicleID       uuid.UUID      `gorm:"type:uuid;not null" json:"vehicle_id"`
	DriverID        uuid.UUID      `gorm:"type:uuid;not null" json:"driver_id"`
	Status          string         `gorm:"not null;default:ASSIGNED" json:"status"`
	// VehicleNo is a display snapshot taken at assignment time
	VehicleNo       string         `json:"vehicle_no"`
	LoadToSendL     int64          `gorm:"column:load_to_send_l" json:"load_to_send_l"`
	StartKm         *int64         `json:"start_km"`
	EndKm           *int64         `json:"end_km"`
	TotalizerStart  *int64         `json:"totalizer_start"`
	TotalizerEnd    *int64         `json:"totalizer_end"`
	Remarks         string         `json:"remarks"`
	StartedAt       *time.Time     `json:"started_at"`
	CompletedAt     *time.Time     `json:"completed_at"`
	Order           Order          `gorm:"foreignKey:OrderID" json:"-"`
	Vehicle         Vehicle        `gorm:"foreignKey:VehicleID" json:"vehicle,omitempty"`
	Deliveries      []Delivery     `gorm:"foreignKey:TripID" json:"-"`
}

// Delivery statuses
const (
	DeliveryPending   = "PENDING"
	DeliveryCompleted = "COMPLETED"
)

// Delivery represents one requirement seeded at assignment and fulfilled by
// the driver against the bowser balance. Pending and completed sets are
// disjoint by status.
type Delivery struct {
	ID             uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt      time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
	TripID         uuid.UUID      `gorm:"type:uuid;not null;index" json:"trip_id"`
	CustomerID     uuid.UUID      `gorm:"type:uuid;not null" json:"customer_id"`
	ShipToID       *uuid.UUID     `gorm:"type:uuid" json:"ship_to_id"`
	Product        string         `gorm:"not null" json:"product"`
	Status         string         `gorm:"not null;default:PENDING" json:"status"`
	RequiredL      int64          `gorm:"column:required_l;not null" json:"required_l"`
	DeliveredL     int64          `gorm:"column:delivered_l" json:"delivered_l"`
	RateP          int64          `gorm:"column:rate_p" json:"rate_p"`
	AmountP        int64          `gorm:"column:amount_p" json:"amount_p"`
	DcNo           string         `gorm:"column:dc_no" json:"dc_no"`
	IdempotencyKey *uuid.UUID     `gorm:"type:uuid;uniqueIndex" json:"idempotency_key,omitempty"`
	DeliveredAt    *time.Time     `json:"delivered_at"`
	Customer       Customer       `gorm:"foreignKey:CustomerID" json:"-"`
}

// Loading represents a station fill establishing or topping up the bowser
// balance before deliveries begin
type Loading struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
	TripID    uuid.UUID      `gorm:"type:uuid;not null;index" json:"trip_id"`
	StationID uuid.UUID      `gorm:"type:uuid;not null" json:"station_id"`
	VehicleID uuid.UUID      `gorm:"type:uuid;not null" json:"vehicle_id"`
	DepotCode string         `json:"depot_code"`
	Product   string         `gorm:"not null" json:"product"`
	QuantityL int64          `gorm:"column:quantity_l;not null" json:"quantity_l"`
	Station   Station        `gorm:"foreignKey:StationID" json:"-"`
}

// BowserInventory tracks the remaining liters loaded on a vehicle for a
// trip. The balance must never go negative.
type BowserInventory struct {
	ID            uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt     time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
	TripID        uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex" json:"trip_id"`
	BalanceLiters int64          `gorm:"column:balance_liters;not null;default:0" json:"balanceLiters"`
}

// Sequence scopes
const (
	SeqTripNo = "trip_no"
	SeqDcNo   = "dc_no"
)

// TripSequence is a named atomic counter advanced under a row lock inside
// the owning transaction. Next holds the serial to hand out.
type TripSequence struct {
	Scope     string    `gorm:"primaryKey" json:"scope"`
	Next      int64     `gorm:"not null" json:"next"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// NotificationOutbox holds a customer notification written in the same
// transaction as the delivery it announces. Rows stay until a send marks
// them sent; delivery of the message is at-least-once.
type NotificationOutbox struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt  time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
	CustomerID uuid.UUID  `gorm:"type:uuid;not null" json:"customer_id"`
	DcNo       string     `gorm:"column:dc_no" json:"dc_no"`
	TripNo     string     `json:"trip_no"`
	Message    string     `gorm:"not null" json:"message"`
	Attempts   int        `gorm:"not null;default:0" json:"attempts"`
	SentAt     *time.Time `gorm:"index" json:"sent_at"`
}

// Invoice represents the fixed-layout document generated when a trip
// completes. Amounts are integer paise; two-decimal formatting happens only
// at render time.
type Invoice struct {
	ID             uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt      time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
	InvoiceNo      string         `gorm:"not null;uniqueIndex" json:"invoice_no"`
	TripID         uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex" json:"trip_id"`
	CustomerID     uuid.UUID      `gorm:"type:uuid;not null" json:"customer_id"`
	PartyName      string         `json:"party_name"`
	PartyGSTIN     string         `gorm:"column:party_gstin" json:"party_gstin"`
	TotalQuantityL int64          `gorm:"column:total_quantity_l" json:"total_quantity_l"`
	TotalAmountP   int64          `gorm:"column:total_amount_p" json:"total_amount_p"`
	Lines          []InvoiceLine  `gorm:"foreignKey:InvoiceID" json:"lines"`
}

// InvoiceLine represents one delivered line item on an invoice
type InvoiceLine struct {
	ID         uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt  time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
	InvoiceID  uuid.UUID      `gorm:"type:uuid;not null;index" json:"invoice_id"`
	DeliveryID uuid.UUID      `gorm:"type:uuid;not null" json:"delivery_id"`
	DcNo       string         `gorm:"column:dc_no" json:"dc_no"`
	Product    string         `json:"product"`
	QuantityL  int64          `gorm:"column:quantity_l" json:"quantity_l"`
	RateP      int64          `gorm:"column:rate_p" json:"rate_p"`
	AmountP    int64          `gorm:"column:amount_p" json:"amount_p"`
}
