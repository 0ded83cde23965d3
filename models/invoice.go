package models

import "time"

// Invoice is the receipt view of a paid booking.
type Invoice struct {
	InvoiceID     string    `json:"invoiceId"`
	BookingID     string    `json:"bookingId"`
	TransactionID string    `json:"transactionId"`
	ProviderName  string    `json:"providerName"`
	ServiceName   string    `json:"serviceName"`
	Date          string    `json:"date"`
	Time          string    `json:"time"`
	Amount        float64   `json:"amount"`
	Currency      string    `json:"currency"`
	PaidAt        time.Time `json:"paidAt"`
}
