package handlers

import (
	"net/http"

	"example.com/fuelwale/backoffice/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// statusForError maps service and database errors to HTTP status codes.
// Repository errors reach here undecorated from the master CRUD screens,
// so the raw gorm sentinels are mapped alongside the service ones.
func statusForError(err error) int {
	switch {
	case errors.Is(err, services.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrInvalidTransition),
		errors.Is(err, services.ErrInsufficientStock),
		errors.Is(err, services.ErrOrderNotAssignable),
		errors.Is(err, gorm.ErrDuplicatedKey):
		return http.StatusConflict
	case errors.Is(err, services.ErrVehicleUnresolved):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes the error with its mapped status. The message is
// surfaced verbatim so the console can show it inline.
func respondError(c *gin.Context, err error) {
	c.JSON(statusForError(err), gin.H{"error": err.Error()})
}
