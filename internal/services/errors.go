package services

import "github.com/pkg/errors"

// Sentinel errors used by handlers to pick a status code. Messages that the
// console shows inline are defined where they are produced, since some of
// them carry values.
var (
	ErrNotFound           = errors.New("not found")
	ErrInvalidTransition  = errors.New("invalid trip status transition")
	ErrInsufficientStock  = errors.New("insufficient stock")
	ErrVehicleUnresolved  = errors.New("vehicle number could not be resolved")
	ErrValidation         = errors.New("validation failed")
	ErrOrderNotAssignable = errors.New("order cannot be assigned")
)
