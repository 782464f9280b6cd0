package services

import (
	"testing"

	"example.com/fuelwale/backoffice/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestFormatPaise(t *testing.T) {
	require.Equal(t, "0.00", FormatPaise(0))
	require.Equal(t, "0.05", FormatPaise(5))
	require.Equal(t, "90.00", FormatPaise(9000))
	require.Equal(t, "180000.00", FormatPaise(18000000))
	require.Equal(t, "1234.56", FormatPaise(123456))
	require.Equal(t, "-12.34", FormatPaise(-1234))
}

func invoiceFixture() (*models.Trip, *models.Customer, []models.Delivery) {
	trip := &models.Trip{ID: uuid.New(), TripNo: "21101007", Status: models.TripCompleted}
	customer := &models.Customer{
		ID:    uuid.New(),
		Name:  "Demo Constructions Pvt Ltd",
		GSTIN: "27AAACD0000A1Z5",
	}
	deliveries := []models.Delivery{
		{
			ID:         uuid.New(),
			Status:     models.DeliveryCompleted,
			Product:    "HSD",
			DeliveredL: 2000,
			RateP:      9000,
			AmountP:    18000000,
			DcNo:       "DC00001",
		},
		{
			ID:         uuid.New(),
			Status:     models.DeliveryCompleted,
			Product:    "HSD",
			DeliveredL: 1500,
			RateP:      9100,
			AmountP:    13650000,
			DcNo:       "DC00002",
		},
		{
			ID:        uuid.New(),
			Status:    models.DeliveryPending,
			Product:   "HSD",
			RequiredL: 500,
		},
	}
	return trip, customer, deliveries
}

func TestBuildInvoice(t *testing.T) {
	trip, customer, deliveries := invoiceFixture()

	invoice := BuildInvoice(trip, customer, deliveries)

	require.Equal(t, "INV-21101007", invoice.InvoiceNo)
	require.Equal(t, trip.ID, invoice.TripID)
	require.Equal(t, customer.ID, invoice.CustomerID)
	require.Equal(t, "Demo Constructions Pvt Ltd", invoice.PartyName)
	require.Equal(t, "27AAACD0000A1Z5", invoice.PartyGSTIN)

	// Pending deliveries never become invoice lines
	require.Len(t, invoice.Lines, 2)
	require.Equal(t, int64(3500), invoice.TotalQuantityL)
	require.Equal(t, int64(31650000), invoice.TotalAmountP)

	// Totals are exact integer sums of the lines
	var sumQty, sumAmt int64
	for _, line := range invoice.Lines {
		sumQty += line.QuantityL
		sumAmt += line.AmountP
	}
	require.Equal(t, invoice.TotalQuantityL, sumQty)
	require.Equal(t, invoice.TotalAmountP, sumAmt)
}

func TestRenderInvoiceCSV(t *testing.T) {
	trip, customer, deliveries := invoiceFixture()
	invoice := BuildInvoice(trip, customer, deliveries)

	data, err := RenderInvoiceCSV(invoice)
	require.NoError(t, err)

	out := string(data)
	require.Contains(t, out, "Invoice No,INV-21101007\n")
	require.Contains(t, out, "Party,Demo Constructions Pvt Ltd\n")
	require.Contains(t, out, "DC No,Product,Quantity (L),Rate,Amount\n")
	require.Contains(t, out, "DC00001,HSD,2000,90.00,180000.00\n")
	require.Contains(t, out, "DC00002,HSD,1500,91.00,136500.00\n")
	require.Contains(t, out, "Total,,3500,,316500.00\n")
	require.NotContains(t, out, "DC00003")
}

func TestRenderInvoiceCSVQuotesParty(t *testing.T) {
	trip, customer, deliveries := invoiceFixture()
	customer.Name = "Patil, Sons & Co Pvt Ltd"
	invoice := BuildInvoice(trip, customer, deliveries)

	data, err := RenderInvoiceCSV(invoice)
	require.NoError(t, err)

	// A party name with a comma must come out as one quoted field
	require.Contains(t, string(data), `Party,"Patil, Sons & Co Pvt Ltd"`)
}
