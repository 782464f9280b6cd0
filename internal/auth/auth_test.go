package auth

import (
	"testing"
	"time"

	"example.com/fuelwale/backoffice/config"
	"example.com/fuelwale/backoffice/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func testService() *Service {
	return NewService(config.AuthConfig{
		JWTSecret:   "test-secret",
		TokenExpiry: time.Hour,
	})
}

func TestPasswordHashing(t *testing.T) {
	s := testService()

	hash, err := s.HashPassword("driver12345")
	require.NoError(t, err)
	require.NotEqual(t, "driver12345", hash)

	require.True(t, s.CheckPassword("driver12345", hash))
	require.False(t, s.CheckPassword("wrong-password", hash))
}

func TestTokenRoundTrip(t *testing.T) {
	s := testService()

	user := &models.User{
		ID:       uuid.New(),
		LoginID:  "driver1",
		UserType: models.RoleDriver,
	}

	token, err := s.GenerateToken(user)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := s.ValidateToken(token)
	require.NoError(t, err)
	require.Equal(t, user.ID, claims.UserID)
	require.Equal(t, "driver1", claims.LoginID)
	require.Equal(t, models.RoleDriver, claims.UserType)
	require.Greater(t, claims.Exp, time.Now().Unix())
}

func TestValidateTokenBearerPrefix(t *testing.T) {
	s := testService()

	user := &models.User{ID: uuid.New(), LoginID: "admin", UserType: models.RoleAdmin}
	token, err := s.GenerateToken(user)
	require.NoError(t, err)

	claims, err := s.ValidateToken("Bearer " + token)
	require.NoError(t, err)
	require.Equal(t, "admin", claims.LoginID)
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	s := testService()
	other := NewService(config.AuthConfig{JWTSecret: "different-secret", TokenExpiry: time.Hour})

	user := &models.User{ID: uuid.New(), LoginID: "admin", UserType: models.RoleAdmin}
	token, err := other.GenerateToken(user)
	require.NoError(t, err)

	_, err = s.ValidateToken(token)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateTokenRejectsExpired(t *testing.T) {
	s := testService()

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":   uuid.New().String(),
		"login_id":  "driver1",
		"user_type": models.RoleDriver,
		"exp":       time.Now().Add(-time.Hour).Unix(),
		"iat":       time.Now().Add(-2 * time.Hour).Unix(),
	})
	token, err := expired.SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = s.ValidateToken(token)
	require.ErrorIs(t, err, ErrExpiredToken)
}

func TestExtractTokenFromHeader(t *testing.T) {
	s := testService()

	token, err := s.ExtractTokenFromHeader("Bearer abc.def.ghi")
	require.NoError(t, err)
	require.Equal(t, "abc.def.ghi", token)

	_, err = s.ExtractTokenFromHeader("")
	require.ErrorIs(t, err, ErrInvalidToken)

	_, err = s.ExtractTokenFromHeader("Basic abc")
	require.ErrorIs(t, err, ErrInvalidToken)

	_, err = s.ExtractTokenFromHeader("Bearer")
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidatePassword(t *testing.T) {
	s := testService()
	require.NoError(t, s.ValidatePassword("longenough"))
	require.Error(t, s.ValidatePassword("short"))
}
