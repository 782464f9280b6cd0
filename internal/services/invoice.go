package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"example.com/fuelwale/backoffice/internal/models"
)

// FormatPaise renders an integer-paise amount with two decimals. Amounts
// stay integral until this point so summation never compounds rounding
// error across line items.
func FormatPaise(p int64) string {
	sign := ""
	if p < 0 {
		sign = "-"
		p = -p
	}
	return fmt.Sprintf("%s%d.%02d", sign, p/100, p%100)
}

// BuildInvoice assembles the invoice document for a trip from its completed
// deliveries. Totals are integer sums of the line amounts.
func BuildInvoice(trip *models.Trip, customer *models.Customer, deliveries []models.Delivery) *models.Invoice {
	invoice := &models.Invoice{
		ID:         uuid.New(),
		InvoiceNo:  "INV-" + trip.TripNo,
		TripID:     trip.ID,
		CustomerID: customer.ID,
		PartyName:  customer.Name,
		PartyGSTIN: customer.GSTIN,
	}
	for _, d := range deliveries {
		if d.Status != models.DeliveryCompleted {
			continue
		}
		invoice.Lines = append(invoice.Lines, models.InvoiceLine{
			ID:         uuid.New(),
			InvoiceID:  invoice.ID,
			DeliveryID: d.ID,
			DcNo:       d.DcNo,
			Product:    d.Product,
			QuantityL:  d.DeliveredL,
			RateP:      d.RateP,
			AmountP:    d.AmountP,
		})
		invoice.TotalQuantityL += d.DeliveredL
		invoice.TotalAmountP += d.AmountP
	}
	return invoice
}

// generateInvoice persists the invoice for a completing trip. A trip that
// delivered nothing gets no invoice.
func (s *TripService) generateInvoice(tx *gorm.DB, trip *models.Trip, deliveries []models.Delivery) error {
	completed := 0
	for _, d := range deliveries {
		if d.Status == models.DeliveryCompleted {
			completed++
		}
	}
	if completed == 0 {
		log.Info().Str("trip_no", trip.TripNo).Msg("No completed deliveries, skipping invoice")
		return nil
	}

	var customer models.Customer
	if err := tx.First(&customer, "id = ?", s.tripCustomerID(tx, trip)).Error; err != nil {
		return errors.Wrap(err, "failed to load invoice party")
	}

	invoice := BuildInvoice(trip, &customer, deliveries)
	if err := tx.Create(invoice).Error; err != nil {
		return errors.Wrap(err, "failed to create invoice")
	}
	log.Info().
		Str("invoice_no", invoice.InvoiceNo).
		Int64("total_amount_p", invoice.TotalAmountP).
		Msg("Invoice generated")
	return nil
}

// tripCustomerID resolves the customer the invoice is billed to
func (s *TripService) tripCustomerID(tx *gorm.DB, trip *models.Trip) uuid.UUID {
	var order models.Order
	if err := tx.First(&order, "id = ?", trip.OrderID).Error; err != nil {
		return uuid.Nil
	}
	return order.CustomerID
}

// TripInvoice fetches the invoice generated for a completed trip
func (s *TripService) TripInvoice(ctx context.Context, tripID uuid.UUID) (*models.Invoice, error) {
	trip, err := s.tripRepo.GetByID(ctx, tripID)
	if err != nil {
		return nil, errors.Wrap(ErrNotFound, "trip not found")
	}
	if trip.Status != models.TripCompleted {
		return nil, errors.Wrap(ErrValidation, "invoice is available once the trip is completed")
	}
	invoice, err := s.invoiceRepo.GetByTrip(ctx, tripID)
	if err != nil {
		return nil, errors.Wrap(ErrNotFound, "no invoice for trip")
	}
	return invoice, nil
}

// ListInvoices lists all invoices for the reporting screens
func (s *TripService) ListInvoices(ctx context.Context) ([]models.Invoice, error) {
	return s.invoiceRepo.List(ctx)
}

// SearchInvoices runs a free-text invoice search against Elasticsearch,
// falling back to the plain listing when search is not configured
func (s *TripService) SearchInvoices(ctx context.Context, query string) ([]models.Invoice, error) {
	if s.search == nil || query == "" {
		return s.invoiceRepo.List(ctx)
	}
	ids, err := s.search.SearchInvoices(ctx, query)
	if err != nil {
		log.Warn().Err(err).Msg("Invoice search failed, falling back to listing")
		return s.invoiceRepo.List(ctx)
	}
	invoices := make([]models.Invoice, 0, len(ids))
	for _, id := range ids {
		inv, err := s.invoiceRepo.GetByTrip(ctx, id)
		if err != nil {
			continue
		}
		invoices = append(invoices, *inv)
	}
	return invoices, nil
}

// RenderInvoiceCSV renders the invoice as a downloadable CSV document:
// header metadata, one row per line, then the computed totals.
func RenderInvoiceCSV(invoice *models.Invoice) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	rows := [][]string{
		{"Invoice No", invoice.InvoiceNo},
		{"Party", invoice.PartyName},
		{"GSTIN", invoice.PartyGSTIN},
		{},
		{"DC No", "Product", "Quantity (L)", "Rate", "Amount"},
	}
	for _, line := range invoice.Lines {
		rows = append(rows, []string{
			line.DcNo,
			line.Product,
			fmt.Sprintf("%d", line.QuantityL),
			FormatPaise(line.RateP),
			FormatPaise(line.AmountP),
		})
	}
	rows = append(rows,
		[]string{},
		[]string{"Total", "", fmt.Sprintf("%d", invoice.TotalQuantityL), "", FormatPaise(invoice.TotalAmountP)},
	)

	if err := w.WriteAll(rows); err != nil {
		return nil, errors.Wrap(err, "failed to render invoice CSV")
	}
	return buf.Bytes(), nil
}

// indexTripInvoice pushes a completed trip's invoice into Elasticsearch for
// the reporting screens. Indexing failures are logged, never surfaced.
func (s *TripService) indexTripInvoice(ctx context.Context, tripID uuid.UUID) {
	if s.search == nil {
		return
	}
	invoice, err := s.invoiceRepo.GetByTrip(ctx, tripID)
	if err != nil {
		return
	}
	if err := s.search.IndexInvoice(ctx, invoice); err != nil {
		log.Warn().Err(err).Str("invoice_no", invoice.InvoiceNo).Msg("Failed to index invoice")
	}
}
