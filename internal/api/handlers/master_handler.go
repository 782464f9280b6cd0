package handlers

import (
	"net/http"

	"example.com/fuelwale/backoffice/internal/auth"
	"example.com/fuelwale/backoffice/internal/models"
	"example.com/fuelwale/backoffice/internal/repositories"
	"example.com/fuelwale/backoffice/internal/services"
	"example.com/fuelwale/backoffice/internal/tracing"
	"example.com/fuelwale/backoffice/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// MasterHandler handles CRUD for the reference data screens: depots,
// routes, stations, customers, drivers, employees, vehicles, fleets,
// users and payments.
type MasterHandler struct {
	depotRepo    *repositories.DepotRepository
	routeRepo    *repositories.RouteRepository
	stationRepo  *repositories.StationRepository
	customerRepo *repositories.CustomerRepository
	driverRepo   *repositories.DriverRepository
	employeeRepo *repositories.EmployeeRepository
	vehicleRepo  *repositories.VehicleRepository
	fleetRepo    *repositories.FleetRepository
	userRepo     *repositories.UserRepository
	paymentRepo  *repositories.PaymentRepository
	authService  *auth.Service
	tracer       tracing.Tracer
}

// NewMasterHandler creates a new master data handler
func NewMasterHandler(db *gorm.DB, readOnlyDB *gorm.DB, authService *auth.Service, tracer tracing.Tracer) *MasterHandler {
	return &MasterHandler{
		depotRepo:    repositories.NewDepotRepository(db, readOnlyDB),
		routeRepo:    repositories.NewRouteRepository(db, readOnlyDB),
		stationRepo:  repositories.NewStationRepository(db, readOnlyDB),
		customerRepo: repositories.NewCustomerRepository(db, readOnlyDB),
		driverRepo:   repositories.NewDriverRepository(db, readOnlyDB),
		employeeRepo: repositories.NewEmployeeRepository(db, readOnlyDB),
		vehicleRepo:  repositories.NewVehicleRepository(db, readOnlyDB),
		fleetRepo:    repositories.NewFleetRepository(db, readOnlyDB),
		userRepo:     repositories.NewUserRepository(db, readOnlyDB),
		paymentRepo:  repositories.NewPaymentRepository(db, readOnlyDB),
		authService:  authService,
		tracer:       tracer,
	}
}

func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return uuid.Nil, false
	}
	return id, true
}

// --- Depots ---

func (h *MasterHandler) listDepots(c *gin.Context) {
	depots, err := h.depotRepo.List(c)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, depots)
}

func (h *MasterHandler) getDepot(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	depot, err := h.depotRepo.GetByID(c, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, depot)
}

func (h *MasterHandler) createDepot(c *gin.Context) {
	var depot models.Depot
	if err := c.ShouldBindJSON(&depot); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	depot.ID = uuid.New()
	if err := h.depotRepo.Create(c, &depot); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, depot)
}

func (h *MasterHandler) updateDepot(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var depot models.Depot
	if err := c.ShouldBindJSON(&depot); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	depot.ID = id
	if err := h.depotRepo.Update(c, &depot); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, depot)
}

func (h *MasterHandler) deleteDepot(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.depotRepo.Delete(c, id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// --- Routes ---

func (h *MasterHandler) listRoutes(c *gin.Context) {
	routes, err := h.routeRepo.List(c)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, routes)
}

func (h *MasterHandler) getRoute(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	route, err := h.routeRepo.GetByID(c, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, route)
}

func (h *MasterHandler) createRoute(c *gin.Context) {
	var route models.Route
	if err := c.ShouldBindJSON(&route); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	route.ID = uuid.New()
	if err := h.routeRepo.Create(c, &route); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, route)
}

func (h *MasterHandler) updateRoute(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var route models.Route
	if err := c.ShouldBindJSON(&route); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	route.ID = id
	if err := h.routeRepo.Update(c, &route); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, route)
}

func (h *MasterHandler) deleteRoute(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.routeRepo.Delete(c, id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// --- Stations ---

func (h *MasterHandler) listStations(c *gin.Context) {
	stations, err := h.stationRepo.List(c)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stations)
}

func (h *MasterHandler) createStation(c *gin.Context) {
	var station models.Station
	if err := c.ShouldBindJSON(&station); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	station.ID = uuid.New()
	if err := h.stationRepo.Create(c, &station); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, station)
}

func (h *MasterHandler) updateStation(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var station models.Station
	if err := c.ShouldBindJSON(&station); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	station.ID = id
	if err := h.stationRepo.Update(c, &station); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, station)
}

func (h *MasterHandler) deleteStation(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.stationRepo.Delete(c, id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// --- Customers ---

func (h *MasterHandler) listCustomers(c *gin.Context) {
	customers, err := h.customerRepo.List(c)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, customers)
}

func (h *MasterHandler) getCustomer(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	customer, err := h.customerRepo.GetByID(c, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, customer)
}

func (h *MasterHandler) listCustomerShipTos(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	shipTos, err := h.customerRepo.ListShipTos(c, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, shipTos)
}

func (h *MasterHandler) createCustomer(c *gin.Context) {
	var customer models.Customer
	if err := c.ShouldBindJSON(&customer); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := utils.ValidateGSTIN(customer.GSTIN); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	customer.ID = uuid.New()
	if err := h.customerRepo.Create(c, &customer); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, customer)
}

func (h *MasterHandler) updateCustomer(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var customer models.Customer
	if err := c.ShouldBindJSON(&customer); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := utils.ValidateGSTIN(customer.GSTIN); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	customer.ID = id
	if err := h.customerRepo.Update(c, &customer); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, customer)
}

func (h *MasterHandler) deleteCustomer(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.customerRepo.Delete(c, id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// --- Drivers ---

func (h *MasterHandler) listDrivers(c *gin.Context) {
	drivers, err := h.driverRepo.List(c)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, drivers)
}

func (h *MasterHandler) createDriver(c *gin.Context) {
	var driver models.Driver
	if err := c.ShouldBindJSON(&driver); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	driver.ID = uuid.New()
	driver.Active = true
	if err := h.driverRepo.Create(c, &driver); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, driver)
}

func (h *MasterHandler) updateDriver(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var driver models.Driver
	if err := c.ShouldBindJSON(&driver); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	driver.ID = id
	if err := h.driverRepo.Update(c, &driver); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, driver)
}

func (h *MasterHandler) deleteDriver(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.driverRepo.Delete(c, id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// --- Employees ---

func (h *MasterHandler) listEmployees(c *gin.Context) {
	employees, err := h.employeeRepo.List(c)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, employees)
}

func (h *MasterHandler) createEmployee(c *gin.Context) {
	var employee models.Employee
	if err := c.ShouldBindJSON(&employee); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	employee.ID = uuid.New()
	if err := h.employeeRepo.Create(c, &employee); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, employee)
}

func (h *MasterHandler) updateEmployee(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var employee models.Employee
	if err := c.ShouldBindJSON(&employee); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	employee.ID = id
	if err := h.employeeRepo.Update(c, &employee); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, employee)
}

func (h *MasterHandler) deleteEmployee(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.employeeRepo.Delete(c, id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// --- Vehicles ---

func (h *MasterHandler) listVehicles(c *gin.Context) {
	vehicles, err := h.vehicleRepo.List(c)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, vehicles)
}

// vehicleRegistrationForm validates the canonical registration shape
type vehicleRegistrationForm struct {
	Registration string `validate:"required,vehicle_no"`
}

func validVehicleRegistration(raw string) bool {
	form := vehicleRegistrationForm{Registration: models.NormalizeRegistration(raw)}
	return utils.ValidateStruct(form) == nil
}

func (h *MasterHandler) createVehicle(c *gin.Context) {
	var vehicle models.Vehicle
	if err := c.ShouldBindJSON(&vehicle); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !validVehicleRegistration(vehicle.Registration) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid vehicle registration"})
		return
	}
	vehicle.ID = uuid.New()
	vehicle.Active = true
	if err := h.vehicleRepo.Create(c, &vehicle); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, vehicle)
}

func (h *MasterHandler) updateVehicle(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var vehicle models.Vehicle
	if err := c.ShouldBindJSON(&vehicle); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !validVehicleRegistration(vehicle.Registration) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid vehicle registration"})
		return
	}
	vehicle.ID = id
	if err := h.vehicleRepo.Update(c, &vehicle); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, vehicle)
}

func (h *MasterHandler) deleteVehicle(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.vehicleRepo.Delete(c, id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// --- Fleets ---

// FleetRequest associates a named fleet with its member vehicles
type FleetRequest struct {
	Name       string      `json:"name" binding:"required"`
	Operator   string      `json:"operator"`
	VehicleIDs []uuid.UUID `json:"vehicleIds"`
}

func (h *MasterHandler) listFleets(c *gin.Context) {
	fleets, err := h.fleetRepo.List(c)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, fleets)
}

func (h *MasterHandler) getFleet(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	fleet, err := h.fleetRepo.GetByID(c, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, fleet)
}

func (h *MasterHandler) fleetFromRequest(c *gin.Context, req FleetRequest) (*models.Fleet, error) {
	fleet := &models.Fleet{
		Name:     req.Name,
		Operator: req.Operator,
	}
	for _, vehicleID := range req.VehicleIDs {
		vehicle, err := h.vehicleRepo.GetByID(c, vehicleID)
		if err != nil {
			return nil, err
		}
		fleet.Vehicles = append(fleet.Vehicles, *vehicle)
	}
	return fleet, nil
}

func (h *MasterHandler) createFleet(c *gin.Context) {
	var req FleetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	fleet, err := h.fleetFromRequest(c, req)
	if err != nil {
		respondError(c, err)
		return
	}
	fleet.ID = uuid.New()
	if err := h.fleetRepo.Create(c, fleet); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, fleet)
}

func (h *MasterHandler) updateFleet(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req FleetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	fleet, err := h.fleetFromRequest(c, req)
	if err != nil {
		respondError(c, err)
		return
	}
	fleet.ID = id
	if err := h.fleetRepo.Update(c, fleet); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, fleet)
}

func (h *MasterHandler) deleteFleet(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.fleetRepo.Delete(c, id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *MasterHandler) exportFleets(c *gin.Context) {
	fleets, err := h.fleetRepo.List(c)
	if err != nil {
		respondError(c, err)
		return
	}
	data, err := services.FleetCSV(fleets)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Disposition", "attachment; filename=fleets.csv")
	c.Data(http.StatusOK, "text/csv", data)
}

// --- Users ---

// CreateUserRequest represents a console user signup by an admin
type CreateUserRequest struct {
	LoginID  string     `json:"loginId" binding:"required"`
	Password string     `json:"password" binding:"required"`
	UserType string     `json:"userType" binding:"required"`
	DriverID *uuid.UUID `json:"driverId"`
}

func (h *MasterHandler) listUsers(c *gin.Context) {
	users, err := h.userRepo.List(c)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

func (h *MasterHandler) createUser(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.authService.ValidatePassword(req.Password); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	hash, err := h.authService.HashPassword(req.Password)
	if err != nil {
		log.Error().Err(err).Msg("failed to hash password")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create user"})
		return
	}

	user := models.User{
		ID:           uuid.New(),
		LoginID:      req.LoginID,
		PasswordHash: hash,
		UserType:     req.UserType,
		DriverID:     req.DriverID,
		Active:       true,
	}
	if err := h.userRepo.Create(c, &user); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

func (h *MasterHandler) deleteUser(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.userRepo.Delete(c, id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// --- Payments ---

func (h *MasterHandler) listPayments(c *gin.Context) {
	payments, err := h.paymentRepo.List(c)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, payments)
}

func (h *MasterHandler) createPayment(c *gin.Context) {
	var payment models.Payment
	if err := c.ShouldBindJSON(&payment); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	payment.ID = uuid.New()
	if err := h.paymentRepo.Create(c, &payment); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, payment)
}

func (h *MasterHandler) deletePayment(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.paymentRepo.Delete(c, id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// RegisterRoutes registers the handler's routes
func (h *MasterHandler) RegisterRoutes(group *gin.RouterGroup) {
	group.GET("/depots", h.listDepots)
	group.GET("/depots/:id", h.getDepot)
	group.POST("/depots", h.createDepot)
	group.PUT("/depots/:id", h.updateDepot)
	group.DELETE("/depots/:id", h.deleteDepot)

	group.GET("/routes", h.listRoutes)
	group.GET("/routes/:id", h.getRoute)
	group.POST("/routes", h.createRoute)
	group.PUT("/routes/:id", h.updateRoute)
	group.DELETE("/routes/:id", h.deleteRoute)

	group.GET("/stations", h.listStations)
	group.POST("/stations", h.createStation)
	group.PUT("/stations/:id", h.updateStation)
	group.DELETE("/stations/:id", h.deleteStation)

	group.GET("/customers", h.listCustomers)
	group.GET("/customers/:id", h.getCustomer)
	group.GET("/customers/:id/shiptos", h.listCustomerShipTos)
	group.POST("/customers", h.createCustomer)
	group.PUT("/customers/:id", h.updateCustomer)
	group.DELETE("/customers/:id", h.deleteCustomer)

	group.GET("/drivers", h.listDrivers)
	group.POST("/drivers", h.createDriver)
	group.PUT("/drivers/:id", h.updateDriver)
	group.DELETE("/drivers/:id", h.deleteDriver)

	group.GET("/employees", h.listEmployees)
	group.POST("/employees", h.createEmployee)
	group.PUT("/employees/:id", h.updateEmployee)
	group.DELETE("/employees/:id", h.deleteEmployee)

	group.GET("/vehicles", h.listVehicles)
	group.POST("/vehicles", h.createVehicle)
	group.PUT("/vehicles/:id", h.updateVehicle)
	group.DELETE("/vehicles/:id", h.deleteVehicle)

	group.GET("/fleets", h.listFleets)
	group.GET("/fleets/export", h.exportFleets)
	group.GET("/fleets/:id", h.getFleet)
	group.POST("/fleets", h.createFleet)
	group.PUT("/fleets/:id", h.updateFleet)
	group.DELETE("/fleets/:id", h.deleteFleet)

	group.GET("/users", h.listUsers)
	group.POST("/users", h.createUser)
	group.DELETE("/users/:id", h.deleteUser)

	group.GET("/payments", h.listPayments)
	group.POST("/payments", h.createPayment)
	group.DELETE("/payments/:id", h.deletePayment)
}
