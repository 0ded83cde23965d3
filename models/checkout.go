package models

import "time"

// CheckoutStep is the state of the booking wizard.
type CheckoutStep string

const (
	StepBooking CheckoutStep = "booking"
	StepPayment CheckoutStep = "payment"
	StepSuccess CheckoutStep = "success"
)

// CheckoutSession is a server-side booking dialog.
type CheckoutSession struct {
	ID           string       `json:"id"`
	UserID       string       `json:"userId"`
	Step         CheckoutStep `json:"step"`
	ProviderID   string       `json:"providerId"`
	ProviderName string       `json:"providerName"`
	ServiceID    string       `json:"serviceId,omitempty"`
	ServiceName  string       `json:"serviceName"`
	Amount       float64      `json:"amount"`
	Date         string       `json:"date,omitempty"`
	Time         string       `json:"time,omitempty"`
	Notes        string       `json:"notes,omitempty"`
	BookingID    string       `json:"bookingId,omitempty"`
	LastError    string       `json:"lastError,omitempty"`
	Attempts     int          `json:"attempts"`
	CreatedAt    time.Time    `json:"createdAt"`
	UpdatedAt    time.Time    `json:"updatedAt"`
}

// StartCheckoutRequest opens the booking dialog for an offering.
type StartCheckoutRequest struct {
	ProviderID   string  `json:"providerId" binding:"required"`
	ProviderName string  `json:"providerName"`
	ServiceID    string  `json:"serviceId,omitempty"`
	ServiceName  string  `json:"serviceName"`
	Amount       float64 `json:"amount"`
}

// ScheduleSelection is the booking step input.
type ScheduleSelection struct {
	Date  string `json:"date"`
	Time  string `json:"time"`
	Notes string `json:"notes,omitempty"`
}
