package services

import (
	"testing"

	"example.com/fuelwale/backoffice/internal/models"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestValidateStartReadings(t *testing.T) {
	require.NoError(t, ValidateStartReadings(0, 0))
	require.NoError(t, ValidateStartReadings(125000, 84000))

	err := ValidateStartReadings(-1, 0)
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrValidation))
	require.Contains(t, err.Error(), "Start KM must be non-negative")

	err = ValidateStartReadings(0, -1)
	require.Error(t, err)
	require.Contains(t, err.Error(), "Start totalizer must be non-negative")
}

func TestValidateEndReadings(t *testing.T) {
	// Equality is accepted: a trip can end without moving the meters
	require.NoError(t, ValidateEndReadings(100, 500, 100, 500))
	require.NoError(t, ValidateEndReadings(100, 500, 180, 4500))

	err := ValidateEndReadings(100, 500, 99, 500)
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrValidation))
	require.Contains(t, err.Error(), "End KM cannot be less than start KM")

	err = ValidateEndReadings(100, 500, 100, 499)
	require.Error(t, err)
	require.Contains(t, err.Error(), "End totalizer cannot be less than start totalizer")
}

func TestDeriveOrderStatus(t *testing.T) {
	// Nothing delivered leaves the order open for another trip
	require.Equal(t, models.OrderPending, DeriveOrderStatus(4000, 0))
	require.Equal(t, models.OrderPending, DeriveOrderStatus(4000, -5))

	require.Equal(t, models.OrderPartiallyCompleted, DeriveOrderStatus(4000, 1500))
	require.Equal(t, models.OrderPartiallyCompleted, DeriveOrderStatus(4000, 3999))

	require.Equal(t, models.OrderCompleted, DeriveOrderStatus(4000, 4000))
	require.Equal(t, models.OrderCompleted, DeriveOrderStatus(4000, 4200))
}
