package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"example.com/fuelwale/backoffice/config"
	"example.com/fuelwale/backoffice/internal/auth"
	"example.com/fuelwale/backoffice/internal/metrics"
	"example.com/fuelwale/backoffice/internal/models"
	"example.com/fuelwale/backoffice/internal/tracing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) (*Server, *auth.Service) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	authService := auth.NewService(config.AuthConfig{
		JWTSecret:   "route-matrix-secret",
		TokenExpiry: time.Hour,
	})
	server := NewServer(
		config.Config{Environment: "test"},
		nil, nil, nil, nil,
		authService,
		metrics.NewMetrics(),
		&tracing.NewRelicTracer{},
	)
	return server, authService
}

func bearerFor(t *testing.T, authService *auth.Service, userType string) string {
	t.Helper()
	token, err := authService.GenerateToken(&models.User{
		ID:       uuid.New(),
		LoginID:  "matrix-user",
		UserType: userType,
	})
	require.NoError(t, err)
	return "Bearer " + token
}

// Every request carries an empty body, so a request that clears both the
// auth and the role gate fails JSON binding with 400 before any service
// runs. 401 and 403 therefore prove the gate itself.
func TestRouteRoleMatrix(t *testing.T) {
	server, authService := newTestServer(t)

	cases := []struct {
		name   string
		method string
		path   string
		role   string
		want   int
	}{
		{"no token on reads", http.MethodGet, "/v1/trips", "", http.StatusUnauthorized},
		{"no token on console", http.MethodPost, "/v1/trips/assign", "", http.StatusUnauthorized},
		{"no token on field", http.MethodPost, "/v1/deliveries", "", http.StatusUnauthorized},

		{"driver blocked from assign", http.MethodPost, "/v1/trips/assign", models.RoleDriver, http.StatusForbidden},
		{"driver blocked from masters", http.MethodGet, "/v1/depots", models.RoleDriver, http.StatusForbidden},
		{"driver blocked from orders", http.MethodPost, "/v1/orders", models.RoleDriver, http.StatusForbidden},
		{"executive blocked from trip login", http.MethodPost, "/v1/trips/login", models.RoleExecutive, http.StatusForbidden},
		{"executive blocked from deliveries", http.MethodPost, "/v1/deliveries", models.RoleExecutive, http.StatusForbidden},
		{"executive blocked from loadings", http.MethodPost, "/v1/loadings", models.RoleExecutive, http.StatusForbidden},

		{"executive passes assign gate", http.MethodPost, "/v1/trips/assign", models.RoleExecutive, http.StatusBadRequest},
		{"admin passes assign gate", http.MethodPost, "/v1/trips/assign", models.RoleAdmin, http.StatusBadRequest},
		{"driver passes trip login gate", http.MethodPost, "/v1/trips/login", models.RoleDriver, http.StatusBadRequest},
		{"driver passes delivery gate", http.MethodPost, "/v1/deliveries", models.RoleDriver, http.StatusBadRequest},
		{"admin override on field routes", http.MethodPost, "/v1/deliveries", models.RoleAdmin, http.StatusBadRequest},
		{"driver passes read gate", http.MethodGet, "/v1/trips/not-a-uuid", models.RoleDriver, http.StatusBadRequest},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, nil)
			if tc.role != "" {
				req.Header.Set("Authorization", bearerFor(t, authService, tc.role))
			}
			w := httptest.NewRecorder()
			server.router.ServeHTTP(w, req)
			require.Equal(t, tc.want, w.Code)
		})
	}
}

func TestHealthEndpointIsPublic(t *testing.T) {
	server, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	server.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "ok")
}
