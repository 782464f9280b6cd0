package handlers

import (
	"net/http"
	"testing"

	"example.com/fuelwale/backoffice/internal/services"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestStatusForError(t *testing.T) {
	require.Equal(t, http.StatusBadRequest,
		statusForError(errors.Wrap(services.ErrValidation, "Customer, qty and rate are required.")))
	require.Equal(t, http.StatusNotFound,
		statusForError(errors.Wrap(services.ErrNotFound, "trip not found")))
	require.Equal(t, http.StatusConflict,
		statusForError(errors.Wrap(services.ErrInvalidTransition, "cannot start a COMPLETED trip")))
	require.Equal(t, http.StatusConflict,
		statusForError(errors.Wrapf(services.ErrInsufficientStock, "Insufficient stock. Only %d L left.", 500)))
	require.Equal(t, http.StatusConflict,
		statusForError(services.ErrOrderNotAssignable))
	require.Equal(t, http.StatusUnprocessableEntity,
		statusForError(errors.Wrapf(services.ErrVehicleUnresolved, "no vehicle matches %q", "XX00YY0000")))
	require.Equal(t, http.StatusInternalServerError,
		statusForError(errors.New("database is down")))
}

func TestStatusForDatabaseErrors(t *testing.T) {
	// Repository reads surface gorm sentinels directly; a missing master
	// record is a 404, not a server fault
	require.Equal(t, http.StatusNotFound,
		statusForError(errors.Wrap(gorm.ErrRecordNotFound, "failed to get depot by ID")))
	require.Equal(t, http.StatusConflict,
		statusForError(errors.Wrap(gorm.ErrDuplicatedKey, "failed to create trip")))
}
