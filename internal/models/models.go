package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// Depot represents a regional operating base
type Depot struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
	Code      string         `gorm:"not null;uniqueIndex" json:"code"`
	Name      string         `gorm:"not null" json:"name"`
	StateCode string         `json:"state_code"`
	Routes    []Route        `gorm:"foreignKey:DepotID" json:"-"`
}

// Route represents a named delivery path owned by a depot
type Route struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
	DepotID   uuid.UUID      `gorm:"type:uuid;not null" json:"depot_id"`
	Name      string         `gorm:"not null" json:"name"`
	Depot     Depot          `gorm:"foreignKey:DepotID" json:"-"`
	Vehicles  []Vehicle      `gorm:"foreignKey:RouteID" json:"-"`
	Stations  []Station      `gorm:"foreignKey:RouteID" json:"-"`
}

// Station represents a loading source on a route
type Station struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
	RouteID   uuid.UUID      `gorm:"type:uuid;not null" json:"route_id"`
	Name      string         `gorm:"not null" json:"name"`
	Route     Route          `gorm:"foreignKey:RouteID" json:"-"`
}

// Customer represents a buying party with one or more ship-to addresses
type Customer struct {
	ID           uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt    time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
	DepotID      uuid.UUID      `gorm:"type:uuid;not null" json:"depot_id"`
	Name         string         `gorm:"not null" json:"name"`
	BillingState string         `json:"billing_state"`
	GSTIN        string         `gorm:"column:gstin" json:"gstin"`
	Depot        Depot          `gorm:"foreignKey:DepotID" json:"-"`
	ShipTos      []ShipTo       `gorm:"foreignKey:CustomerID" json:"-"`
}

// ShipTo represents a customer delivery address
type ShipTo struct {
	ID         uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt  time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
	CustomerID uuid.UUID      `gorm:"type:uuid;not null" json:"customer_id"`
	Address    string         `gorm:"not null" json:"address"`
	Customer   Customer       `gorm:"foreignKey:CustomerID" json:"-"`
}

// Driver represents a driver with a regulatory fuel-handling license
type Driver struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt   time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
	Name        string         `gorm:"not null" json:"name"`
	Phone       string         `json:"phone"`
	PesoLicense string         `gorm:"column:peso_license" json:"peso_license"`
	Active      bool           `gorm:"not null;default:true" json:"active"`
}

// Employee represents back-office staff
type Employee struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
	DepotID   *uuid.UUID     `gorm:"type:uuid" json:"depot_id"`
	Name      string         `gorm:"not null" json:"name"`
	Phone     string         `json:"phone"`
	Role      string         `json:"role"`
}

// Vehicle represents a bowser truck. Registration is canonicalized at write
// time; RawRegistration keeps the form the operator typed.
type Vehicle struct {
	ID              uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt       time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
	RouteID         *uuid.UUID     `gorm:"type:uuid" json:"route_id"`
	DepotID         uuid.UUID      `gorm:"type:uuid;not null" json:"depot_id"`
	Registration    string         `gorm:"not null;uniqueIndex" json:"registration"`
	RawRegistration string         `json:"raw_registration"`
	TankCapacityL   int64          `gorm:"column:tank_capacity_l" json:"tank_capacity_l"`
	Active          bool           `gorm:"not null;default:true" json:"active"`
	Depot           Depot          `gorm:"foreignKey:DepotID" json:"-"`
}

// Fleet represents an operator fleet grouping of vehicles
type Fleet struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
	Name      string         `gorm:"not null" json:"name"`
	Operator  string         `json:"operator"`
	Vehicles  []Vehicle      `gorm:"many2many:fleet_vehicles" json:"-"`
}

// User roles. Role checks are enforced per route group server-side; the
// console additionally hides tiles by role as a UX convenience.
const (
	RoleAdmin     = "a"
	RoleExecutive = "e"
	RoleDriver    = "d"
	RoleVehicle   = "va"
	RoleTransport = "tr"
	RoleAccounts  = "ac"
)

// User represents a console login
type User struct {
	ID           uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt    time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
	LoginID      string         `gorm:"not null;uniqueIndex" json:"login_id"`
	PasswordHash string         `gorm:"not null" json:"-"`
	UserType     string         `gorm:"not null" json:"user_type"`
	DriverID     *uuid.UUID     `gorm:"type:uuid" json:"driver_id"`
	Active       bool           `gorm:"not null;default:true" json:"active"`
}

// Payment represents a customer payment entry
type Payment struct {
	ID         uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt  time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
	CustomerID uuid.UUID      `gorm:"type:uuid;not null" json:"customer_id"`
	AmountP    int64          `gorm:"column:amount_p;not null" json:"amount_p"`
	Mode       string         `json:"mode"`
	Reference  string         `json:"reference"`
	PaidAt     time.Time      `json:"paid_at"`
	Customer   Customer       `gorm:"foreignKey:CustomerID" json:"-"`
}

// Order statuses
const (
	OrderPending            = "PENDING"
	OrderPartiallyCompleted = "PARTIALLY_COMPLETED"
	OrderCompleted          = "COMPLETED"
	OrderCancelled          = "CANCELLED"
)

// Order represents a delivery order placed by a customer
type Order struct {
	ID         uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt  time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
	CustomerID uuid.UUID      `gorm:"type:uuid;not null" json:"customer_id"`
	ShipToID   *uuid.UUID     `gorm:"type:uuid" json:"ship_to_id"`
	FleetID    *uuid.UUID     `gorm:"type:uuid" json:"fleet_id"`
	Status     string         `gorm:"not null;default:PENDING" json:"status"`
	DeliverOn  *time.Time     `json:"deliver_on"`
	TimeSlot   string         `json:"time_slot"`
	Customer   Customer       `gorm:"foreignKey:CustomerID" json:"-"`
	Items      []OrderItem    `gorm:"foreignKey:OrderID" json:"items"`
}

// OrderItem represents one ordered product line
type OrderItem struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
	OrderID   uuid.UUID      `gorm:"type:uuid;not null;index" json:"order_id"`
	Product   string         `gorm:"not null" json:"product"`
	QuantityL int64          `gorm:"column:quantity_l;not null" json:"quantity_l"`
	RateP     int64          `gorm:"column:rate_p;not null" json:"rate_p"`
	UOM       string         `gorm:"column:uom;default:L" json:"uom"`
}

// TotalQuantityL sums the ordered quantity across line items
func (o *Order) TotalQuantityL() int64 {
	var total int64
	for _, it := range o.Items {
		total += it.QuantityL
	}
	return total
}

// SetupModels configures GORM models and runs migrations
func SetupModels(db *gorm.DB) error {
	err := db.AutoMigrate(
		&Depot{},
		&Route{},
		&Station{},
		&Customer{},
		&ShipTo{},
		&Driver{},
		&Employee{},
		&Vehicle{},
		&Fleet{},
		&User{},
		&Payment{},
		&Order{},
		&OrderItem{},
		&Trip{},
		&Delivery{},
		&Loading{},
		&BowserInventory{},
		&TripSequence{},
		&NotificationOutbox{},
		&Invoice{},
		&InvoiceLine{},
	)
	if err != nil {
		return errors.Wrap(err, "failed to run auto migrations")
	}

	return nil
}
