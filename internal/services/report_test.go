package services

import (
	"testing"

	"example.com/fuelwale/backoffice/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestFleetCSV(t *testing.T) {
	fleets := []models.Fleet{
		{
			ID:       uuid.New(),
			Name:     "North Fleet",
			Operator: "Sharma Logistics",
			Vehicles: []models.Vehicle{
				{Registration: "MH12AB4321"},
				{Registration: "MH14CD0001"},
			},
		},
		{
			ID:   uuid.New(),
			Name: "Spare",
		},
	}

	data, err := FleetCSV(fleets)
	require.NoError(t, err)

	out := string(data)
	require.Contains(t, out, "Fleet,Operator,Vehicles,Registrations\n")
	require.Contains(t, out, "North Fleet,Sharma Logistics,2,MH12AB4321 MH14CD0001\n")
	require.Contains(t, out, "Spare,,0,\n")
}

func TestFleetCSVQuotesCommas(t *testing.T) {
	fleets := []models.Fleet{
		{ID: uuid.New(), Name: "East Fleet", Operator: "Patil, Sons & Co"},
	}

	data, err := FleetCSV(fleets)
	require.NoError(t, err)

	// The operator field must survive a round trip through any CSV reader
	require.Contains(t, string(data), `East Fleet,"Patil, Sons & Co",0,`)
}

func TestFleetCSVEmpty(t *testing.T) {
	data, err := FleetCSV(nil)
	require.NoError(t, err)
	require.Equal(t, "Fleet,Operator,Vehicles,Registrations\n", string(data))
}
