package utils

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIsValidTripNo(t *testing.T) {
	require.True(t, IsValidTripNo("21101001"))
	require.True(t, IsValidTripNo("211011234"))

	require.False(t, IsValidTripNo("2110100"))
	require.False(t, IsValidTripNo("21101-001"))
	require.False(t, IsValidTripNo(""))
}

func TestIsValidRegistration(t *testing.T) {
	require.True(t, IsValidRegistration("MH12AB4321"))
	require.True(t, IsValidRegistration("KA05MJ9999"))
	require.True(t, IsValidRegistration("DL1C0001"))

	require.False(t, IsValidRegistration("MH-12 AB 4321"))
	require.False(t, IsValidRegistration("mh12ab4321"))
	require.False(t, IsValidRegistration(""))
}

func TestValidateGSTIN(t *testing.T) {
	require.NoError(t, ValidateGSTIN("27AAACD0000A1Z5"))
	// Empty is allowed: unregistered customers have no GSTIN
	require.NoError(t, ValidateGSTIN(""))

	require.Error(t, ValidateGSTIN("27AAACD0000A1X5"))
	require.Error(t, ValidateGSTIN("not-a-gstin"))
}

func TestValidateStruct(t *testing.T) {
	type form struct {
		TripNo    string `validate:"required,trip_no"`
		VehicleNo string `validate:"required,vehicle_no"`
	}

	require.NoError(t, ValidateStruct(form{TripNo: "21101001", VehicleNo: "MH12AB4321"}))
	require.Error(t, ValidateStruct(form{TripNo: "bad", VehicleNo: "MH12AB4321"}))
	require.Error(t, ValidateStruct(form{TripNo: "21101001", VehicleNo: "bad reg"}))
}
