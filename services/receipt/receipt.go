package receipt

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"ecofix/models"

	"github.com/jung-kurt/gofpdf"
)

var ErrNotPaid = errors.New("booking has not been paid")

// Generator renders payment receipts for paid bookings.
type Generator struct {
	Company  string
	Currency string
}

func NewGenerator(company, currency string) *Generator {
	if company == "" {
		company = "Eco-Fix Connect"
	}
	if currency == "" {
		currency = "usd"
	}
	return &Generator{Company: company, Currency: currency}
}

// InvoiceFor builds the receipt view of a booking.
func (g *Generator) InvoiceFor(b models.Booking) (models.Invoice, error) {
	if b.PaymentStatus != models.PaymentPaid || b.PaymentDate == nil {
		return models.Invoice{}, ErrNotPaid
	}
	return models.Invoice{
		InvoiceID:     invoiceNumber(b),
		BookingID:     b.ID,
		TransactionID: b.TransactionID,
		ProviderName:  b.ProviderName,
		ServiceName:   b.ServiceName,
		Date:          b.Date,
		Time:          b.Time,
		Amount:        b.PaymentAmount,
		Currency:      strings.ToUpper(g.Currency),
		PaidAt:        *b.PaymentDate,
	}, nil
}

// Write renders the receipt PDF of a paid booking to w.
func (g *Generator) Write(w io.Writer, b models.Booking) (models.Invoice, error) {
	inv, err := g.InvoiceFor(b)
	if err != nil {
		return models.Invoice{}, err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(fmt.Sprintf("Receipt %s", inv.InvoiceID), true)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(190, 10, g.Company)
	pdf.Ln(12)

	pdf.SetFont("Arial", "", 12)
	lines := []string{
		fmt.Sprintf("Receipt: %s", inv.InvoiceID),
		fmt.Sprintf("Transaction ID: %s", inv.TransactionID),
		fmt.Sprintf("Paid: %s", inv.PaidAt.UTC().Format("2006-01-02 15:04:05 MST")),
		fmt.Sprintf("Provider: %s", inv.ProviderName),
		fmt.Sprintf("Service: %s", inv.ServiceName),
		fmt.Sprintf("Appointment: %s at %s", inv.Date, inv.Time),
	}
	for _, line := range lines {
		pdf.Cell(190, 10, line)
		pdf.Ln(10)
	}

	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(190, 10, fmt.Sprintf("Amount: %.2f %s", inv.Amount, inv.Currency))

	if err := pdf.Output(w); err != nil {
		return models.Invoice{}, fmt.Errorf("failed to render receipt: %w", err)
	}
	return inv, nil
}

// Render returns the receipt PDF as bytes.
func (g *Generator) Render(b models.Booking) ([]byte, models.Invoice, error) {
	var buf bytes.Buffer
	inv, err := g.Write(&buf, b)
	if err != nil {
		return nil, models.Invoice{}, err
	}
	return buf.Bytes(), inv, nil
}

func invoiceNumber(b models.Booking) string {
	id := strings.ReplaceAll(b.ID, "-", "")
	if len(id) > 8 {
		id = id[:8]
	}
	return fmt.Sprintf("ECO-%s-%s", b.PaymentDate.UTC().Format("20060102"), strings.ToUpper(id))
}
