package models

import "strings"

// registration separators seen in operator input
var registrationStrip = strings.NewReplacer(" ", "", "-", "", ".", "", "_", "")

// NormalizeRegistration canonicalizes a vehicle number for storage and
// comparison: separators stripped, uppercased. "MH-01 AB.1234" and
// "mh01ab1234" both normalize to "MH01AB1234".
func NormalizeRegistration(reg string) string {
	return strings.ToUpper(registrationStrip.Replace(strings.TrimSpace(reg)))
}
