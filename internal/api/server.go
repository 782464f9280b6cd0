package api

import (
	"context"
	"net/http"
	"time"

	"example.com/fuelwale/backoffice/config"
	"example.com/fuelwale/backoffice/internal/api/handlers"
	"example.com/fuelwale/backoffice/internal/api/middleware"
	"example.com/fuelwale/backoffice/internal/auth"
	"example.com/fuelwale/backoffice/internal/metrics"
	"example.com/fuelwale/backoffice/internal/models"
	"example.com/fuelwale/backoffice/internal/repositories"
	"example.com/fuelwale/backoffice/internal/services"
	"example.com/fuelwale/backoffice/internal/tracing"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// Server represents the HTTP server
type Server struct {
	config       config.Config
	router       *gin.Engine
	httpServer   *http.Server
	db           *gorm.DB
	readOnlyDB   *gorm.DB
	tripService  *services.TripService
	orderService *services.OrderService
	authService  *auth.Service
	metrics      *metrics.Metrics
	tracer       tracing.Tracer
}

// NewServer creates a new HTTP server
func NewServer(
	cfg config.Config,
	db *gorm.DB,
	readOnlyDB *gorm.DB,
	tripService *services.TripService,
	orderService *services.OrderService,
	authService *auth.Service,
	metricsCollector *metrics.Metrics,
	tracer tracing.Tracer,
) *Server {
	server := &Server{
		config:       cfg,
		db:           db,
		readOnlyDB:   readOnlyDB,
		tripService:  tripService,
		orderService: orderService,
		authService:  authService,
		metrics:      metricsCollector,
		tracer:       tracer,
	}

	router := server.setupRouter()
	server.router = router

	httpServer := &http.Server{
		Addr:    cfg.ServerAddress,
		Handler: router,
	}
	server.httpServer = httpServer

	return server
}

// setupRouter configures the HTTP router
func (s *Server) setupRouter() *gin.Engine {
	if s.config.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	if s.config.CorsEnabled {
		router.Use(middleware.CORSMiddleware())
	}

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	metricsHandler := handlers.NewMetricsHandler(s.metrics, s.tracer)
	metricsHandler.RegisterRoutes(router)

	userRepo := repositories.NewUserRepository(s.db, s.readOnlyDB)
	authHandler := handlers.NewAuthHandler(s.authService, userRepo, s.tracer)
	tripHandler := handlers.NewTripHandler(s.tripService, s.tracer)
	deliveryHandler := handlers.NewDeliveryHandler(s.tripService, s.tracer)
	loadingHandler := handlers.NewLoadingHandler(s.tripService, s.tracer)
	orderHandler := handlers.NewOrderHandler(s.orderService, s.tracer)
	masterHandler := handlers.NewMasterHandler(s.db, s.readOnlyDB, s.authService, s.tracer)

	v1 := router.Group("/v1")
	authHandler.RegisterRoutes(v1)

	secured := v1.Group("", middleware.Authenticate(s.authService))

	// Console operations: admins and executives
	console := secured.Group("", middleware.RequireRole(models.RoleAdmin, models.RoleExecutive))
	{
		console.POST("/trips/assign", tripHandler.HandleAssignTrip)
		console.GET("/trips/next-number", tripHandler.HandleNextTripNumber)
		console.GET("/invoices", tripHandler.HandleListInvoices)

		orderHandler.RegisterRoutes(console)
		masterHandler.RegisterRoutes(console)
	}

	// Field operations: drivers, with admin override
	field := secured.Group("", middleware.RequireRole(models.RoleAdmin, models.RoleDriver))
	{
		field.POST("/trips/login", tripHandler.HandleStartTrip)
		field.POST("/trips/logout", tripHandler.HandleEndTrip)
		field.POST("/loadings", loadingHandler.HandleRecordLoading)
		field.POST("/deliveries", deliveryHandler.HandleConfirmDelivery)
	}

	// Lifecycle reads: any console or driver role
	reads := secured.Group("", middleware.RequireRole(models.RoleAdmin, models.RoleExecutive, models.RoleDriver))
	{
		reads.GET("/trips", tripHandler.HandleListTrips)
		reads.GET("/trips/:id", tripHandler.HandleGetTrip)
		reads.GET("/trips/:id/invoice", tripHandler.HandleTripInvoice)
		reads.GET("/loadings/stations/:routeId", loadingHandler.HandleListStations)
		reads.GET("/deliveries/pending/:tripId", deliveryHandler.HandlePendingDeliveries)
		reads.GET("/deliveries/completed/:tripId", deliveryHandler.HandleCompletedDeliveries)
		reads.GET("/bowserinventories/:tripId", deliveryHandler.HandleBowserBalance)
	}

	return router
}

// Start starts the HTTP server
func (s *Server) Start() error {
	log.Info().Str("address", s.config.ServerAddress).Msg("Starting HTTP server")

	if err := s.httpServer.ListenAndServe(); err != nil {
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return errors.Wrap(err, "HTTP server error")
	}

	return nil
}

// Shutdown gracefully stops the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	log.Info().Msg("Shutting down HTTP server")

	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "HTTP server shutdown error")
	}

	log.Info().Msg("HTTP server shut down successfully")
	return nil
}
