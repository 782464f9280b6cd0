package models

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizeRegistration(t *testing.T) {
	require.Equal(t, "MH01AB1234", NormalizeRegistration("MH-01 AB.1234"))
	require.Equal(t, "MH01AB1234", NormalizeRegistration("mh01ab1234"))
	require.Equal(t, "MH01AB1234", NormalizeRegistration("  MH_01-AB 1234  "))
	require.Equal(t, "", NormalizeRegistration("   "))
}

func TestNormalizeRegistrationIdempotent(t *testing.T) {
	once := NormalizeRegistration("KA-05 MJ 9999")
	require.Equal(t, once, NormalizeRegistration(once))
}
