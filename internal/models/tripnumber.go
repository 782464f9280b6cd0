package models

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Trip numbers are <2-digit state code><3-digit depot code><serial>. The
// serial is global across the whole system and grows past 3 digits
// naturally.

var nonDigits = regexp.MustCompile(`\D`)

// tripNoSerial matches the trailing numeric serial of a trip number
var tripNoSerial = regexp.MustCompile(`(\d+)$`)

// DeriveStateCode extracts the 2-digit billing-state code from a customer's
// billing state field. Non-digits are stripped and the result left-padded;
// an empty field yields "00".
func DeriveStateCode(billingState string) string {
	digits := nonDigits.ReplaceAllString(billingState, "")
	if digits == "" {
		return "00"
	}
	if len(digits) > 2 {
		digits = digits[len(digits)-2:]
	}
	return fmt.Sprintf("%02s", digits)
}

// DeriveDepotCode extracts the 3-digit depot code from a depot code field
func DeriveDepotCode(depotCode string) string {
	digits := nonDigits.ReplaceAllString(depotCode, "")
	if len(digits) > 3 {
		digits = digits[len(digits)-3:]
	}
	return fmt.Sprintf("%03s", digits)
}

// FormatTripNo builds a trip number from its parts. The serial is padded to
// at least 3 digits.
func FormatTripNo(stateCode, depotCode string, serial int64) string {
	return fmt.Sprintf("%s%s%03d", stateCode, depotCode, serial)
}

// NextSerialFromTripNos is the legacy derivation: scan the trailing numeric
// suffix of every existing trip number, take the maximum and add one.
// Serials are the digits past the 5-character state+depot prefix. Used to
// seed the atomic counter and for the non-authoritative preview.
func NextSerialFromTripNos(tripNos []string) int64 {
	var max int64
	for _, no := range tripNos {
		no = strings.TrimSpace(no)
		m := tripNoSerial.FindString(no)
		if m == "" {
			continue
		}
		// Drop the state+depot prefix when the whole number is numeric
		if len(m) == len(no) && len(m) > 5 {
			m = m[5:]
		}
		n, err := strconv.ParseInt(m, 10, 64)
		if err != nil {
			continue
		}
		if n > max {
			max = n
		}
	}
	return max + 1
}
