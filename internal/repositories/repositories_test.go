package repositories

import (
	"context"
	"testing"

	"example.com/fuelwale/backoffice/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// unreachableDB opens a lazy connection to a port nothing listens on. The
// open itself succeeds; the first statement fails at dial time, which lets
// the error decoration be observed without a database.
func unreachableDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "host=127.0.0.1 port=1 user=none dbname=none sslmode=disable connect_timeout=1"
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		DisableAutomaticPing: true,
		Logger:               logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return db
}

func TestMutationErrorsCarryContext(t *testing.T) {
	db := unreachableDB(t)
	ctx := context.Background()

	depots := NewDepotRepository(db, db)
	err := depots.Create(ctx, &models.Depot{ID: uuid.New(), Code: "21101", Name: "Pune"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "failed to create depot")

	err = depots.Update(ctx, &models.Depot{ID: uuid.New(), Code: "21101", Name: "Pune"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "failed to update depot")

	err = depots.Delete(ctx, uuid.New())
	require.Error(t, err)
	require.Contains(t, err.Error(), "failed to delete depot")

	vehicles := NewVehicleRepository(db, db)
	err = vehicles.Create(ctx, &models.Vehicle{ID: uuid.New(), Registration: "MH-12 AB 4321"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "failed to create vehicle")

	orders := NewOrderRepository(db, db)
	err = orders.Create(ctx, &models.Order{ID: uuid.New()})
	require.Error(t, err)
	require.Contains(t, err.Error(), "failed to create order")
}

func TestReadErrorsCarryContext(t *testing.T) {
	db := unreachableDB(t)

	_, err := NewDepotRepository(db, db).GetByID(context.Background(), uuid.New())
	require.Error(t, err)
	require.Contains(t, err.Error(), "failed to get depot by ID")
}
