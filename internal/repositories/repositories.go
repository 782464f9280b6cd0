package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"example.com/fuelwale/backoffice/internal/models"
)

// DepotRepository provides access to depot data
type DepotRepository struct {
	db         *gorm.DB // Write database
	readOnlyDB *gorm.DB // Read-only database
}

// NewDepotRepository creates a new depot repository
func NewDepotRepository(db *gorm.DB, readOnlyDB *gorm.DB) *DepotRepository {
	return &DepotRepository{db: db, readOnlyDB: readOnlyDB}
}

// List returns all depots
func (r *DepotRepository) List(ctx context.Context) ([]models.Depot, error) {
	var depots []models.Depot
	err := r.readOnlyDB.WithContext(ctx).Order("code").Find(&depots).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list depots")
	}
	return depots, nil
}

// GetByID gets a depot by ID
func (r *DepotRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Depot, error) {
	var depot models.Depot
	err := r.readOnlyDB.WithContext(ctx).First(&depot, "id = ?", id).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to get depot by ID")
	}
	return &depot, nil
}

// Create creates a new depot
func (r *DepotRepository) Create(ctx context.Context, depot *models.Depot) error {
	err := r.db.WithContext(ctx).Create(depot).Error
	return errors.Wrap(err, "failed to create depot")
}

// Update saves changes to a depot
func (r *DepotRepository) Update(ctx context.Context, depot *models.Depot) error {
	err := r.db.WithContext(ctx).Save(depot).Error
	return errors.Wrap(err, "failed to update depot")
}

// Delete soft-deletes a depot
func (r *DepotRepository) Delete(ctx context.Context, id uuid.UUID) error {
	err := r.db.WithContext(ctx).Delete(&models.Depot{}, "id = ?", id).Error
	return errors.Wrap(err, "failed to delete depot")
}

// RouteRepository provides access to route data
type RouteRepository struct {
	db         *gorm.DB
	readOnlyDB *gorm.DB
}

// NewRouteRepository creates a new route repository
func NewRouteRepository(db *gorm.DB, readOnlyDB *gorm.DB) *RouteRepository {
	return &RouteRepository{db: db, readOnlyDB: readOnlyDB}
}

// List returns all routes
func (r *RouteRepository) List(ctx context.Context) ([]models.Route, error) {
	var routes []models.Route
	err := r.readOnlyDB.WithContext(ctx).Order("name").Find(&routes).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list routes")
	}
	return routes, nil
}

// GetByID gets a route by ID
func (r *RouteRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Route, error) {
	var route models.Route
	err := r.readOnlyDB.WithContext(ctx).First(&route, "id = ?", id).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to get route by ID")
	}
	return &route, nil
}

// ListStations lists the loading stations on a route
func (r *RouteRepository) ListStations(ctx context.Context, routeID uuid.UUID) ([]models.Station, error) {
	var stations []models.Station
	err := r.readOnlyDB.WithContext(ctx).Where("route_id = ?", routeID).Order("name").Find(&stations).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list stations for route")
	}
	return stations, nil
}

// Create creates a new route
func (r *RouteRepository) Create(ctx context.Context, route *models.Route) error {
	err := r.db.WithContext(ctx).Create(route).Error
	return errors.Wrap(err, "failed to create route")
}

// Update saves changes to a route
func (r *RouteRepository) Update(ctx context.Context, route *models.Route) error {
	err := r.db.WithContext(ctx).Save(route).Error
	return errors.Wrap(err, "failed to update route")
}

// Delete soft-deletes a route
func (r *RouteRepository) Delete(ctx context.Context, id uuid.UUID) error {
	err := r.db.WithContext(ctx).Delete(&models.Route{}, "id = ?", id).Error
	return errors.Wrap(err, "failed to delete route")
}

// StationRepository provides access to loading station data
type StationRepository struct {
	db         *gorm.DB
	readOnlyDB *gorm.DB
}

// NewStationRepository creates a new station repository
func NewStationRepository(db *gorm.DB, readOnlyDB *gorm.DB) *StationRepository {
	return &StationRepository{db: db, readOnlyDB: readOnlyDB}
}

// GetByID gets a station by ID
func (r *StationRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Station, error) {
	var station models.Station
	err := r.readOnlyDB.WithContext(ctx).First(&station, "id = ?", id).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to get station by ID")
	}
	return &station, nil
}

// List returns all stations
func (r *StationRepository) List(ctx context.Context) ([]models.Station, error) {
	var stations []models.Station
	err := r.readOnlyDB.WithContext(ctx).Order("name").Find(&stations).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list stations")
	}
	return stations, nil
}

// Create creates a new station
func (r *StationRepository) Create(ctx context.Context, station *models.Station) error {
	err := r.db.WithContext(ctx).Create(station).Error
	return errors.Wrap(err, "failed to create station")
}

// Update saves changes to a station
func (r *StationRepository) Update(ctx context.Context, station *models.Station) error {
	err := r.db.WithContext(ctx).Save(station).Error
	return errors.Wrap(err, "failed to update station")
}

// Delete soft-deletes a station
func (r *StationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	err := r.db.WithContext(ctx).Delete(&models.Station{}, "id = ?", id).Error
	return errors.Wrap(err, "failed to delete station")
}

// CustomerRepository provides access to customer data
type CustomerRepository struct {
	db         *gorm.DB
	readOnlyDB *gorm.DB
}

// NewCustomerRepository creates a new customer repository
func NewCustomerRepository(db *gorm.DB, readOnlyDB *gorm.DB) *CustomerRepository {
	return &CustomerRepository{db: db, readOnlyDB: readOnlyDB}
}

// List returns all customers
func (r *CustomerRepository) List(ctx context.Context) ([]models.Customer, error) {
	var customers []models.Customer
	err := r.readOnlyDB.WithContext(ctx).Order("name").Find(&customers).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list customers")
	}
	return customers, nil
}

// GetByID gets a customer by ID with its depot preloaded
func (r *CustomerRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Customer, error) {
	var customer models.Customer
	err := r.readOnlyDB.WithContext(ctx).Preload("Depot").First(&customer, "id = ?", id).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to get customer by ID")
	}
	return &customer, nil
}

// ListShipTos lists a customer's delivery addresses
func (r *CustomerRepository) ListShipTos(ctx context.Context, customerID uuid.UUID) ([]models.ShipTo, error) {
	var shipTos []models.ShipTo
	err := r.readOnlyDB.WithContext(ctx).Where("customer_id = ?", customerID).Find(&shipTos).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list ship-tos")
	}
	return shipTos, nil
}

// Create creates a new customer
func (r *CustomerRepository) Create(ctx context.Context, customer *models.Customer) error {
	err := r.db.WithContext(ctx).Create(customer).Error
	return errors.Wrap(err, "failed to create customer")
}

// Update saves changes to a customer
func (r *CustomerRepository) Update(ctx context.Context, customer *models.Customer) error {
	err := r.db.WithContext(ctx).Save(customer).Error
	return errors.Wrap(err, "failed to update customer")
}

// Delete soft-deletes a customer
func (r *CustomerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	err := r.db.WithContext(ctx).Delete(&models.Customer{}, "id = ?", id).Error
	return errors.Wrap(err, "failed to delete customer")
}

// DriverRepository provides access to driver data
type DriverRepository struct {
	db         *gorm.DB
	readOnlyDB *gorm.DB
}

// NewDriverRepository creates a new driver repository
func NewDriverRepository(db *gorm.DB, readOnlyDB *gorm.DB) *DriverRepository {
	return &DriverRepository{db: db, readOnlyDB: readOnlyDB}
}

// List returns all drivers
func (r *DriverRepository) List(ctx context.Context) ([]models.Driver, error) {
	var drivers []models.Driver
	err := r.readOnlyDB.WithContext(ctx).Order("name").Find(&drivers).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list drivers")
	}
	return drivers, nil
}

// GetByID gets a driver by ID
func (r *DriverRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Driver, error) {
	var driver models.Driver
	err := r.readOnlyDB.WithContext(ctx).First(&driver, "id = ?", id).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to get driver by ID")
	}
	return &driver, nil
}

// Create creates a new driver
func (r *DriverRepository) Create(ctx context.Context, driver *models.Driver) error {
	err := r.db.WithContext(ctx).Create(driver).Error
	return errors.Wrap(err, "failed to create driver")
}

// Update saves changes to a driver
func (r *DriverRepository) Update(ctx context.Context, driver *models.Driver) error {
	err := r.db.WithContext(ctx).Save(driver).Error
	return errors.Wrap(err, "failed to update driver")
}

// Delete soft-deletes a driver
func (r *DriverRepository) Delete(ctx context.Context, id uuid.UUID) error {
	err := r.db.WithContext(ctx).Delete(&models.Driver{}, "id = ?", id).Error
	return errors.Wrap(err, "failed to delete driver")
}

// EmployeeRepository provides access to employee data
type EmployeeRepository struct {
	db         *gorm.DB
	readOnlyDB *gorm.DB
}

// NewEmployeeRepository creates a new employee repository
func NewEmployeeRepository(db *gorm.DB, readOnlyDB *gorm.DB) *EmployeeRepository {
	return &EmployeeRepository{db: db, readOnlyDB: readOnlyDB}
}

// List returns all employees
func (r *EmployeeRepository) List(ctx context.Context) ([]models.Employee, error) {
	var employees []models.Employee
	err := r.readOnlyDB.WithContext(ctx).Order("name").Find(&employees).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list employees")
	}
	return employees, nil
}

// GetByID gets an employee by ID
func (r *EmployeeRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Employee, error) {
	var employee models.Employee
	err := r.readOnlyDB.WithContext(ctx).First(&employee, "id = ?", id).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to get employee by ID")
	}
	return &employee, nil
}

// Create creates a new employee
func (r *EmployeeRepository) Create(ctx context.Context, employee *models.Employee) error {
	err := r.db.WithContext(ctx).Create(employee).Error
	return errors.Wrap(err, "failed to create employee")
}

// Update saves changes to an employee
func (r *EmployeeRepository) Update(ctx context.Context, employee *models.Employee) error {
	err := r.db.WithContext(ctx).Save(employee).Error
	return errors.Wrap(err, "failed to update employee")
}

// Delete soft-deletes an employee
func (r *EmployeeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	err := r.db.WithContext(ctx).Delete(&models.Employee{}, "id = ?", id).Error
	return errors.Wrap(err, "failed to delete employee")
}

// VehicleRepository provides access to vehicle data
type VehicleRepository struct {
	db         *gorm.DB
	readOnlyDB *gorm.DB
}

// NewVehicleRepository creates a new vehicle repository
func NewVehicleRepository(db *gorm.DB, readOnlyDB *gorm.DB) *VehicleRepository {
	return &VehicleRepository{db: db, readOnlyDB: readOnlyDB}
}

// List returns all vehicles
func (r *VehicleRepository) List(ctx context.Context) ([]models.Vehicle, error) {
	var vehicles []models.Vehicle
	err := r.readOnlyDB.WithContext(ctx).Order("registration").Find(&vehicles).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list vehicles")
	}
	return vehicles, nil
}

// ListByRoute lists the vehicles registered against a route
func (r *VehicleRepository) ListByRoute(ctx context.Context, routeID uuid.UUID) ([]models.Vehicle, error) {
	var vehicles []models.Vehicle
	err := r.readOnlyDB.WithContext(ctx).Where("route_id = ?", routeID).Find(&vehicles).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list vehicles for route")
	}
	return vehicles, nil
}

// GetByID gets a vehicle by ID
func (r *VehicleRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Vehicle, error) {
	var vehicle models.Vehicle
	err := r.readOnlyDB.WithContext(ctx).First(&vehicle, "id = ?", id).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to get vehicle by ID")
	}
	return &vehicle, nil
}

// GetByRegistration gets a vehicle by its canonical registration. New rows
// are canonicalized at write time, so an exact match on the normalized form
// covers them; the tolerant fallback over legacy rows lives in the service.
func (r *VehicleRepository) GetByRegistration(ctx context.Context, registration string) (*models.Vehicle, error) {
	var vehicle models.Vehicle
	err := r.readOnlyDB.WithContext(ctx).Where("registration = ?", registration).First(&vehicle).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to get vehicle by registration")
	}
	return &vehicle, nil
}

// Create creates a new vehicle, canonicalizing its registration
func (r *VehicleRepository) Create(ctx context.Context, vehicle *models.Vehicle) error {
	vehicle.RawRegistration = vehicle.Registration
	vehicle.Registration = models.NormalizeRegistration(vehicle.Registration)
	err := r.db.WithContext(ctx).Create(vehicle).Error
	return errors.Wrap(err, "failed to create vehicle")
}

// Update saves changes to a vehicle, canonicalizing its registration
func (r *VehicleRepository) Update(ctx context.Context, vehicle *models.Vehicle) error {
	vehicle.RawRegistration = vehicle.Registration
	vehicle.Registration = models.NormalizeRegistration(vehicle.Registration)
	err := r.db.WithContext(ctx).Save(vehicle).Error
	return errors.Wrap(err, "failed to update vehicle")
}

// Delete soft-deletes a vehicle
func (r *VehicleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	err := r.db.WithContext(ctx).Delete(&models.Vehicle{}, "id = ?", id).Error
	return errors.Wrap(err, "failed to delete vehicle")
}

// FleetRepository provides access to fleet data
type FleetRepository struct {
	db         *gorm.DB
	readOnlyDB *gorm.DB
}

// NewFleetRepository creates a new fleet repository
func NewFleetRepository(db *gorm.DB, readOnlyDB *gorm.DB) *FleetRepository {
	return &FleetRepository{db: db, readOnlyDB: readOnlyDB}
}

// List returns all fleets with their vehicles preloaded
func (r *FleetRepository) List(ctx context.Context) ([]models.Fleet, error) {
	var fleets []models.Fleet
	err := r.readOnlyDB.WithContext(ctx).Preload("Vehicles").Order("name").Find(&fleets).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list fleets")
	}
	return fleets, nil
}

// GetByID gets a fleet by ID
func (r *FleetRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Fleet, error) {
	var fleet models.Fleet
	err := r.readOnlyDB.WithContext(ctx).Preload("Vehicles").First(&fleet, "id = ?", id).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to get fleet by ID")
	}
	return &fleet, nil
}

// Create creates a new fleet
func (r *FleetRepository) Create(ctx context.Context, fleet *models.Fleet) error {
	err := r.db.WithContext(ctx).Create(fleet).Error
	return errors.Wrap(err, "failed to create fleet")
}

// Update saves changes to a fleet
func (r *FleetRepository) Update(ctx context.Context, fleet *models.Fleet) error {
	err := r.db.WithContext(ctx).Save(fleet).Error
	return errors.Wrap(err, "failed to update fleet")
}

// Delete soft-deletes a fleet
func (r *FleetRepository) Delete(ctx context.Context, id uuid.UUID) error {
	err := r.db.WithContext(ctx).Delete(&models.Fleet{}, "id = ?", id).Error
	return errors.Wrap(err, "failed to delete fleet")
}

// UserRepository provides access to console users
type UserRepository struct {
	db         *gorm.DB
	readOnlyDB *gorm.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB, readOnlyDB *gorm.DB) *UserRepository {
	return &UserRepository{db: db, readOnlyDB: readOnlyDB}
}

// List returns all users
func (r *UserRepository) List(ctx context.Context) ([]models.User, error) {
	var users []models.User
	err := r.readOnlyDB.WithContext(ctx).Order("login_id").Find(&users).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list users")
	}
	return users, nil
}

// GetByLoginID gets a user by login id
func (r *UserRepository) GetByLoginID(ctx context.Context, loginID string) (*models.User, error) {
	var user models.User
	err := r.readOnlyDB.WithContext(ctx).Where("login_id = ?", loginID).First(&user).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to get user by login ID")
	}
	return &user, nil
}

// GetByID gets a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	err := r.readOnlyDB.WithContext(ctx).First(&user, "id = ?", id).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to get user by ID")
	}
	return &user, nil
}

// Create creates a new user
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	err := r.db.WithContext(ctx).Create(user).Error
	return errors.Wrap(err, "failed to create user")
}

// Update saves changes to a user
func (r *UserRepository) Update(ctx context.Context, user *models.User) error {
	err := r.db.WithContext(ctx).Save(user).Error
	return errors.Wrap(err, "failed to update user")
}

// Delete soft-deletes a user
func (r *UserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	err := r.db.WithContext(ctx).Delete(&models.User{}, "id = ?", id).Error
	return errors.Wrap(err, "failed to delete user")
}

// PaymentRepository provides access to payment entries
type PaymentRepository struct {
	db         *gorm.DB
	readOnlyDB *gorm.DB
}

// NewPaymentRepository creates a new payment repository
func NewPaymentRepository(db *gorm.DB, readOnlyDB *gorm.DB) *PaymentRepository {
	return &PaymentRepository{db: db, readOnlyDB: readOnlyDB}
}

// List returns all payments
func (r *PaymentRepository) List(ctx context.Context) ([]models.Payment, error) {
	var payments []models.Payment
	err := r.readOnlyDB.WithContext(ctx).Order("paid_at desc").Find(&payments).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list payments")
	}
	return payments, nil
}

// GetByID gets a payment by ID
func (r *PaymentRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Payment, error) {
	var payment models.Payment
	err := r.readOnlyDB.WithContext(ctx).First(&payment, "id = ?", id).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to get payment by ID")
	}
	return &payment, nil
}

// Create creates a new payment
func (r *PaymentRepository) Create(ctx context.Context, payment *models.Payment) error {
	err := r.db.WithContext(ctx).Create(payment).Error
	return errors.Wrap(err, "failed to create payment")
}

// Update saves changes to a payment
func (r *PaymentRepository) Update(ctx context.Context, payment *models.Payment) error {
	err := r.db.WithContext(ctx).Save(payment).Error
	return errors.Wrap(err, "failed to update payment")
}

// Delete soft-deletes a payment
func (r *PaymentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	err := r.db.WithContext(ctx).Delete(&models.Payment{}, "id = ?", id).Error
	return errors.Wrap(err, "failed to delete payment")
}

// OrderRepository provides access to order data
type OrderRepository struct {
	db         *gorm.DB
	readOnlyDB *gorm.DB
}

// NewOrderRepository creates a new order repository
func NewOrderRepository(db *gorm.DB, readOnlyDB *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db, readOnlyDB: readOnlyDB}
}

// List returns orders, optionally filtered by status
func (r *OrderRepository) List(ctx context.Context, status string) ([]models.Order, error) {
	q := r.readOnlyDB.WithContext(ctx).Preload("Items").Order("created_at desc")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var orders []models.Order
	err := q.Find(&orders).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list orders")
	}
	return orders, nil
}

// GetByID gets an order with its items and customer preloaded
func (r *OrderRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.readOnlyDB.WithContext(ctx).
		Preload("Items").
		Preload("Customer").
		Preload("Customer.Depot").
		First(&order, "id = ?", id).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to get order by ID")
	}
	return &order, nil
}

// Create creates a new order with its items
func (r *OrderRepository) Create(ctx context.Context, order *models.Order) error {
	err := r.db.WithContext(ctx).Create(order).Error
	return errors.Wrap(err, "failed to create order")
}

// Update saves changes to an order
func (r *OrderRepository) Update(ctx context.Context, order *models.Order) error {
	err := r.db.WithContext(ctx).Save(order).Error
	return errors.Wrap(err, "failed to update order")
}

// UpdateStatus sets an order's status
func (r *OrderRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	result := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", id).
		Update("status", status)
	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to update order status")
	}
	if result.RowsAffected == 0 {
		return errors.New("no order updated")
	}
	return nil
}

// Delete soft-deletes an order
func (r *OrderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	err := r.db.WithContext(ctx).Delete(&models.Order{}, "id = ?", id).Error
	return errors.Wrap(err, "failed to delete order")
}
