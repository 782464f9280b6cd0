package services

import (
	"testing"

	"example.com/fuelwale/backoffice/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func vehicleFixture() []models.Vehicle {
	return []models.Vehicle{
		{ID: uuid.New(), Registration: "MH12AB4321"},
		{ID: uuid.New(), Registration: "KA05MJ9999"},
	}
}

func TestResolveVehicleExact(t *testing.T) {
	vehicles := vehicleFixture()
	v := ResolveVehicle(vehicles, "MH12AB4321")
	require.NotNil(t, v)
	require.Equal(t, vehicles[0].ID, v.ID)
}

func TestResolveVehicleCaseInsensitive(t *testing.T) {
	vehicles := vehicleFixture()
	v := ResolveVehicle(vehicles, "mh12ab4321")
	require.NotNil(t, v)
	require.Equal(t, vehicles[0].ID, v.ID)
}

func TestResolveVehicleSeparators(t *testing.T) {
	vehicles := vehicleFixture()
	v := ResolveVehicle(vehicles, "MH-12 AB.4321")
	require.NotNil(t, v)
	require.Equal(t, vehicles[0].ID, v.ID)

	v = ResolveVehicle(vehicles, " ka_05 mj-9999 ")
	require.NotNil(t, v)
	require.Equal(t, vehicles[1].ID, v.ID)
}

func TestResolveVehicleNoMatch(t *testing.T) {
	require.Nil(t, ResolveVehicle(vehicleFixture(), "DL01XX0001"))
	require.Nil(t, ResolveVehicle(nil, "MH12AB4321"))
}
