package services

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"example.com/fuelwale/backoffice/internal/models"
)

// FleetCSV renders the fleet listing as a CSV export with a fixed column
// order, matching what the console downloads.
func FleetCSV(fleets []models.Fleet) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	rows := [][]string{{"Fleet", "Operator", "Vehicles", "Registrations"}}
	for _, f := range fleets {
		regs := make([]string, 0, len(f.Vehicles))
		for _, v := range f.Vehicles {
			regs = append(regs, v.Registration)
		}
		rows = append(rows, []string{
			f.Name,
			f.Operator,
			fmt.Sprintf("%d", len(f.Vehicles)),
			strings.Join(regs, " "),
		})
	}

	if err := w.WriteAll(rows); err != nil {
		return nil, errors.Wrap(err, "failed to render fleet CSV")
	}
	return buf.Bytes(), nil
}
