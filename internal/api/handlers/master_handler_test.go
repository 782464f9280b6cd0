package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func TestValidVehicleRegistration(t *testing.T) {
	// Raw console input is normalized before the shape check
	require.True(t, validVehicleRegistration("MH-12 AB 4321"))
	require.True(t, validVehicleRegistration("mh12ab4321"))

	require.False(t, validVehicleRegistration(""))
	require.False(t, validVehicleRegistration("12345"))
	require.False(t, validVehicleRegistration("ROADROLLER"))
}

func TestCreateVehicleRejectsMalformedRegistration(t *testing.T) {
	gin.SetMode(gin.TestMode)

	h := NewMasterHandler(nil, nil, nil, nil)
	router := gin.New()
	router.POST("/v1/vehicles", h.createVehicle)

	body := `{"registration":"12345","tank_capacity_l":6000}`
	req := httptest.NewRequest(http.MethodPost, "/v1/vehicles", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Contains(t, w.Body.String(), "invalid vehicle registration")
}
