package handlers

import (
	"net/http"

	"example.com/fuelwale/backoffice/internal/auth"
	"example.com/fuelwale/backoffice/internal/repositories"
	"example.com/fuelwale/backoffice/internal/tracing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// AuthHandler handles login requests
type AuthHandler struct {
	authService *auth.Service
	userRepo    *repositories.UserRepository
	tracer      tracing.Tracer
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *auth.Service, userRepo *repositories.UserRepository, tracer tracing.Tracer) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		userRepo:    userRepo,
		tracer:      tracer,
	}
}

// LoginRequest represents a login attempt
type LoginRequest struct {
	LoginID  string `json:"loginId" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse carries the issued token and the user's role
type LoginResponse struct {
	Token    string `json:"token"`
	UserType string `json:"userType"`
	LoginID  string `json:"loginId"`
}

// HandleLogin verifies credentials and issues a JWT
func (h *AuthHandler) HandleLogin(c *gin.Context) {
	txn := h.tracer.StartTransaction("api-login")
	defer h.tracer.EndTransaction(txn)

	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.userRepo.GetByLoginID(c, req.LoginID)
	if err != nil || user == nil || !user.Active {
		log.Warn().Str("login_id", req.LoginID).Msg("login rejected")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	if !h.authService.CheckPassword(req.Password, user.PasswordHash) {
		log.Warn().Str("login_id", req.LoginID).Msg("login rejected")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	token, err := h.authService.GenerateToken(user)
	if err != nil {
		log.Error().Err(err).Msg("failed to generate token")
		h.tracer.RecordError(txn, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, LoginResponse{
		Token:    token,
		UserType: user.UserType,
		LoginID:  user.LoginID,
	})
}

// RegisterRoutes registers the handler's routes
func (h *AuthHandler) RegisterRoutes(group *gin.RouterGroup) {
	group.POST("/auth/login", h.HandleLogin)
}
