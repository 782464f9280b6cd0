package models

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDeriveStateCode(t *testing.T) {
	require.Equal(t, "21", DeriveStateCode("21"))
	require.Equal(t, "21", DeriveStateCode("MH-21"))
	require.Equal(t, "05", DeriveStateCode("5"))
	require.Equal(t, "34", DeriveStateCode("1234"))
	require.Equal(t, "00", DeriveStateCode(""))
	require.Equal(t, "00", DeriveStateCode("Maharashtra"))
}

func TestDeriveDepotCode(t *testing.T) {
	require.Equal(t, "101", DeriveDepotCode("101"))
	require.Equal(t, "101", DeriveDepotCode("21101"))
	require.Equal(t, "007", DeriveDepotCode("7"))
	require.Equal(t, "000", DeriveDepotCode(""))
}

func TestFormatTripNo(t *testing.T) {
	require.Equal(t, "21101001", FormatTripNo("21", "101", 1))
	require.Equal(t, "21101042", FormatTripNo("21", "101", 42))
	// Serial grows past three digits without truncation
	require.Equal(t, "211011234", FormatTripNo("21", "101", 1234))
}

func TestNextSerialFromTripNos(t *testing.T) {
	serial := NextSerialFromTripNos([]string{"21101001", "21101005", "21101003"})
	require.Equal(t, int64(6), serial)
}

func TestNextSerialFromTripNosEmpty(t *testing.T) {
	require.Equal(t, int64(1), NextSerialFromTripNos(nil))
	require.Equal(t, int64(1), NextSerialFromTripNos([]string{}))
}

func TestNextSerialFromTripNosMixedJunk(t *testing.T) {
	// Unparseable entries are skipped without affecting the maximum
	serial := NextSerialFromTripNos([]string{"", "garbage", "21101009", "  21101002  "})
	require.Equal(t, int64(10), serial)
}

func TestNextSerialFromTripNosLongSerial(t *testing.T) {
	// A serial past three digits keeps counting from where it left off
	serial := NextSerialFromTripNos([]string{"21101998", "211011001"})
	require.Equal(t, int64(1002), serial)
}

func TestCanTransitionTrip(t *testing.T) {
	require.True(t, CanTransitionTrip(TripAssigned, TripActive))
	require.True(t, CanTransitionTrip(TripActive, TripCompleted))

	require.False(t, CanTransitionTrip(TripAssigned, TripCompleted))
	require.False(t, CanTransitionTrip(TripActive, TripAssigned))
	require.False(t, CanTransitionTrip(TripCompleted, TripActive))
	require.False(t, CanTransitionTrip(TripCompleted, TripAssigned))
	require.False(t, CanTransitionTrip("", TripActive))
}
