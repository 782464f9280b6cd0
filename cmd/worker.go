package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"example.com/fuelwale/backoffice/config"
	"example.com/fuelwale/backoffice/internal/messaging"
	"example.com/fuelwale/backoffice/internal/metrics"
	"example.com/fuelwale/backoffice/internal/services"
	"example.com/fuelwale/backoffice/internal/tracing"

	"github.com/go-co-op/gocron/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Start the background worker",
	Long:  `Start the background worker that reconciles order statuses against completed trips`,
	RunE:  runWorker,
}

func init() {
	rootCmd.AddCommand(workerCmd)
}

func runWorker(cmd *cobra.Command, args []string) error {
	// Load configuration
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return err
	}

	// Configure logging
	if cfg.Environment == "development" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	// Set up signal handling for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	// Create an error group to manage goroutines
	g, ctx := errgroup.WithContext(ctx)

	// Initialize database connections
	db, readOnlyDB, err := initDatabases(cfg)
	if err != nil {
		return err
	}

	// Initialize tracer
	tracer, err := tracing.NewTracer(cfg.Tracing)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to initialize tracer, continuing without tracing")
	}

	// Initialize metrics
	metricsCollector := metrics.NewMetrics()

	// Initialize the delivery notification queue
	var notifier services.Notifier
	if cfg.ServiceBus.ConnectionString != "" {
		busClient, err := messaging.NewServiceBusClient(cfg.ServiceBus, "worker")
		if err != nil {
			log.Warn().Err(err).Msg("Failed to initialize Service Bus client, notifications will be logged only")
		} else {
			notifier = busClient
			defer busClient.Close()
		}
	}

	// Initialize services
	orderService := services.NewOrderService(db, readOnlyDB, metricsCollector, tracer)
	tripService := services.NewTripService(db, readOnlyDB, nil, nil, metricsCollector, tracer, notifier)

	interval := cfg.Worker.ReconcileInterval
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	notifyInterval := cfg.Worker.NotifyInterval
	if notifyInterval <= 0 {
		notifyInterval = 30 * time.Second
	}
	notifyBatch := cfg.Worker.NotifyBatch
	if notifyBatch <= 0 {
		notifyBatch = 100
	}

	// Start the order reconciliation cron job
	g.Go(func() error {
		log.Info().Dur("interval", interval).Msg("Starting order reconciliation job")

		// Create a scheduler
		scheduler, err := gocron.NewScheduler()
		if err != nil {
			return err
		}

		_, err = scheduler.NewJob(
			gocron.DurationJob(interval),
			gocron.NewTask(func() {
				log.Info().Msg("Running order reconciliation against completed trips")
				if err := orderService.ReconcileOrders(ctx, cfg.Worker.ReconcileBatch); err != nil {
					log.Error().Err(err).Msg("Failed to reconcile orders")
				}
			}),
		)
		if err != nil {
			return err
		}

		// Start the scheduler
		scheduler.Start()

		// Wait for context cancellation
		<-ctx.Done()

		// Shutdown the scheduler
		return scheduler.Shutdown()
	})

	// Start the delivery notification drain. Notifications the API could
	// not publish inline stay queued in the outbox until this picks them up.
	g.Go(func() error {
		log.Info().Dur("interval", notifyInterval).Msg("Starting delivery notification drain")

		scheduler, err := gocron.NewScheduler()
		if err != nil {
			return err
		}

		_, err = scheduler.NewJob(
			gocron.DurationJob(notifyInterval),
			gocron.NewTask(func() {
				if err := tripService.DrainNotifications(ctx, notifyBatch); err != nil {
					log.Error().Err(err).Msg("Failed to drain delivery notifications")
				}
			}),
		)
		if err != nil {
			return err
		}

		scheduler.Start()

		<-ctx.Done()
		return scheduler.Shutdown()
	})

	// Wait for any goroutine to exit
	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("Worker error")
		return err
	}

	log.Info().Msg("Worker shutting down gracefully")
	return nil
}
