package utils

import (
	"fmt"
	"regexp"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

var (
	tripNoPattern       = regexp.MustCompile(`^\d{2}\d{3}\d{3,}$`)
	registrationPattern = regexp.MustCompile(`^[A-Z]{2}\d{1,2}[A-Z]{0,3}\d{1,4}$`)
	gstinPattern        = regexp.MustCompile(`^\d{2}[A-Z]{5}\d{4}[A-Z][1-9A-Z]Z[0-9A-Z]$`)
)

func init() {
	validate = validator.New()
	RegisterCustomValidations()
}

// ValidateStruct validates a struct using validation tags
func ValidateStruct(s interface{}) error {
	if err := validate.Struct(s); err != nil {
		return err
	}
	return nil
}

// IsValidTripNo checks the state+depot+serial trip number shape
func IsValidTripNo(tripNo string) bool {
	return tripNoPattern.MatchString(tripNo)
}

// IsValidRegistration checks a canonical vehicle registration
func IsValidRegistration(reg string) bool {
	return registrationPattern.MatchString(reg)
}

// ValidateGSTIN validates an Indian GST identification number
func ValidateGSTIN(gstin string) error {
	if gstin == "" {
		return nil
	}
	if !gstinPattern.MatchString(gstin) {
		return fmt.Errorf("invalid GSTIN %q", gstin)
	}
	return nil
}

// RegisterCustomValidations registers custom validation functions
func RegisterCustomValidations() {
	validate.RegisterValidation("trip_no", func(fl validator.FieldLevel) bool {
		return IsValidTripNo(fl.Field().String())
	})

	validate.RegisterValidation("vehicle_no", func(fl validator.FieldLevel) bool {
		return IsValidRegistration(fl.Field().String())
	})

	validate.RegisterValidation("gstin", func(fl validator.FieldLevel) bool {
		return ValidateGSTIN(fl.Field().String()) == nil
	})
}
