package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"example.com/fuelwale/backoffice/config"
	"example.com/fuelwale/backoffice/internal/auth"
	"example.com/fuelwale/backoffice/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func testRouter(authService *auth.Service, roles ...string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	group := router.Group("", Authenticate(authService))
	if len(roles) > 0 {
		group = group.Group("", RequireRole(roles...))
	}
	group.GET("/whoami", func(c *gin.Context) {
		claims, ok := ClaimsFromContext(c)
		if !ok {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "claims missing"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"loginId": claims.LoginID})
	})
	return router
}

func issueToken(t *testing.T, s *auth.Service, userType string) string {
	t.Helper()
	token, err := s.GenerateToken(&models.User{
		ID:       uuid.New(),
		LoginID:  "console-user",
		UserType: userType,
	})
	require.NoError(t, err)
	return token
}

func TestAuthenticateRejectsMissingHeader(t *testing.T) {
	s := auth.NewService(config.AuthConfig{JWTSecret: "secret", TokenExpiry: time.Hour})
	router := testRouter(s)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthenticateAcceptsValidToken(t *testing.T) {
	s := auth.NewService(config.AuthConfig{JWTSecret: "secret", TokenExpiry: time.Hour})
	router := testRouter(s)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+issueToken(t, s, models.RoleAdmin))
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "console-user")
}

func TestRequireRoleAllowsListedRole(t *testing.T) {
	s := auth.NewService(config.AuthConfig{JWTSecret: "secret", TokenExpiry: time.Hour})
	router := testRouter(s, models.RoleAdmin, models.RoleExecutive)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+issueToken(t, s, models.RoleExecutive))
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
}

func TestRequireRoleForbidsOtherRole(t *testing.T) {
	s := auth.NewService(config.AuthConfig{JWTSecret: "secret", TokenExpiry: time.Hour})
	router := testRouter(s, models.RoleAdmin, models.RoleExecutive)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+issueToken(t, s, models.RoleDriver))
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusForbidden, w.Code)
}
