package cmd

import (
	"example.com/fuelwale/backoffice/config"
	"example.com/fuelwale/backoffice/internal/auth"
	"example.com/fuelwale/backoffice/internal/database"
	"example.com/fuelwale/backoffice/internal/models"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load development reference data",
	Long:  `Create a demo depot, route, stations, vehicles, a customer and console users for local development`,
	RunE:  runSeed,
}

func init() {
	rootCmd.AddCommand(seedCmd)
}

func runSeed(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return err
	}

	db, err := database.Connect(cfg.DB)
	if err != nil {
		return errors.Wrap(err, "failed to connect to database")
	}
	defer database.Close(db)

	if err := models.SetupModels(db); err != nil {
		return errors.Wrap(err, "failed to run migrations")
	}

	authService := auth.NewService(cfg.Auth)

	return db.Transaction(func(tx *gorm.DB) error {
		depot := models.Depot{
			ID:        uuid.New(),
			Code:      "21101",
			Name:      "Pune Depot",
			StateCode: "21",
		}
		if err := tx.Create(&depot).Error; err != nil {
			return errors.Wrap(err, "failed to seed depot")
		}

		route := models.Route{
			ID:      uuid.New(),
			DepotID: depot.ID,
			Name:    "Pune East",
		}
		if err := tx.Create(&route).Error; err != nil {
			return errors.Wrap(err, "failed to seed route")
		}

		stations := []models.Station{
			{ID: uuid.New(), RouteID: route.ID, Name: "HPCL Wagholi"},
			{ID: uuid.New(), RouteID: route.ID, Name: "IOCL Hadapsar"},
		}
		if err := tx.Create(&stations).Error; err != nil {
			return errors.Wrap(err, "failed to seed stations")
		}

		vehicle := models.Vehicle{
			ID:              uuid.New(),
			RouteID:         &route.ID,
			DepotID:         depot.ID,
			Registration:    models.NormalizeRegistration("MH-12 AB 4321"),
			RawRegistration: "MH-12 AB 4321",
			TankCapacityL:   6000,
			Active:          true,
		}
		if err := tx.Create(&vehicle).Error; err != nil {
			return errors.Wrap(err, "failed to seed vehicle")
		}

		driver := models.Driver{
			ID:          uuid.New(),
			Name:        "Demo Driver",
			Phone:       "9800000000",
			PesoLicense: "PESO-0001",
			Active:      true,
		}
		if err := tx.Create(&driver).Error; err != nil {
			return errors.Wrap(err, "failed to seed driver")
		}

		customer := models.Customer{
			ID:           uuid.New(),
			DepotID:      depot.ID,
			Name:         "Demo Constructions Pvt Ltd",
			BillingState: "Maharashtra",
			GSTIN:        "27AAACD0000A1Z5",
		}
		if err := tx.Create(&customer).Error; err != nil {
			return errors.Wrap(err, "failed to seed customer")
		}

		shipTo := models.ShipTo{
			ID:         uuid.New(),
			CustomerID: customer.ID,
			Address:    "Site 4, Kharadi Bypass, Pune",
		}
		if err := tx.Create(&shipTo).Error; err != nil {
			return errors.Wrap(err, "failed to seed ship-to")
		}

		adminHash, err := authService.HashPassword("admin12345")
		if err != nil {
			return err
		}
		driverHash, err := authService.HashPassword("driver12345")
		if err != nil {
			return err
		}

		users := []models.User{
			{ID: uuid.New(), LoginID: "admin", PasswordHash: adminHash, UserType: models.RoleAdmin, Active: true},
			{ID: uuid.New(), LoginID: "driver1", PasswordHash: driverHash, UserType: models.RoleDriver, DriverID: &driver.ID, Active: true},
		}
		if err := tx.Create(&users).Error; err != nil {
			return errors.Wrap(err, "failed to seed users")
		}

		log.Info().
			Str("depot", depot.Code).
			Str("vehicle", vehicle.Registration).
			Msg("Development data seeded")
		return nil
	})
}
