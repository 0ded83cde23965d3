package models

import "time"

// BookingStatus is the lifecycle state of a booking.
type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCompleted BookingStatus = "completed"
	BookingCancelled BookingStatus = "cancelled"
)

// PaymentStatus tracks the payment attached to a booking.
type PaymentStatus string

const (
	PaymentPending    PaymentStatus = "pending"
	PaymentProcessing PaymentStatus = "processing"
	PaymentPaid       PaymentStatus = "paid"
	PaymentFailed     PaymentStatus = "failed"
)

// Booking is a scheduled appointment between a homeowner and a provider.
type Booking struct {
	ID            string        `bson:"id" json:"id" gorm:"primaryKey;type:varchar(64)"`
	UserID        string        `bson:"userId" json:"userId" gorm:"type:varchar(64);index"`
	ProviderID    string        `bson:"providerId" json:"providerId" gorm:"type:varchar(64);not null;index"`
	ProviderName  string        `bson:"providerName" json:"providerName"`
	ServiceID     string        `bson:"serviceId,omitempty" json:"serviceId,omitempty"`
	ServiceName   string        `bson:"serviceName" json:"serviceName"`
	Date          string        `bson:"date" json:"date" gorm:"column:slot_date;type:varchar(10);not null"` // "YYYY-MM-DD"
	Time          string        `bson:"time" json:"time" gorm:"column:slot_time;type:varchar(5);not null"`  // "HH:MM"
	Status        BookingStatus `bson:"status" json:"status" gorm:"type:varchar(16);not null;index"`
	Notes         string        `bson:"notes,omitempty" json:"notes,omitempty" gorm:"type:text"`
	PaymentStatus PaymentStatus `bson:"paymentStatus" json:"paymentStatus" gorm:"type:varchar(16)"`
	PaymentAmount float64       `bson:"paymentAmount,omitempty" json:"paymentAmount,omitempty"`
	PaymentDate   *time.Time    `bson:"paymentDate,omitempty" json:"paymentDate,omitempty"`
	TransactionID string        `bson:"transactionId,omitempty" json:"transactionId,omitempty" gorm:"type:varchar(128)"`
	CreatedAt     time.Time     `bson:"createdAt" json:"createdAt" gorm:"index"`
	UpdatedAt     time.Time     `bson:"updatedAt" json:"updatedAt"`
}

// BookingSlot is the public view of a provider's booking: when it is and
// whether it still holds the slot. Nothing identifying the homeowner.
type BookingSlot struct {
	ProviderID string        `json:"providerId"`
	Date       string        `json:"date"`
	Time       string        `json:"time"`
	Status     BookingStatus `json:"status"`
}

func (b Booking) Slot() BookingSlot {
	return BookingSlot{ProviderID: b.ProviderID, Date: b.Date, Time: b.Time, Status: b.Status}
}

// IsTerminal reports whether no further status transitions are allowed.
func (s BookingStatus) IsTerminal() bool {
	return s == BookingCompleted || s == BookingCancelled
}

// Valid reports whether s is a known booking status.
func (s BookingStatus) Valid() bool {
	switch s {
	case BookingPending, BookingConfirmed, BookingCompleted, BookingCancelled:
		return true
	}
	return false
}

// CreateBookingRequest is what the booking dialog submits.
type CreateBookingRequest struct {
	ProviderID     string          `json:"providerId" binding:"required"`
	ProviderName   string          `json:"providerName"`
	ServiceID      string          `json:"serviceId,omitempty"`
	ServiceName    string          `json:"serviceName"`
	Date           string          `json:"date" binding:"required"`
	Time           string          `json:"time" binding:"required"`
	Notes          string          `json:"notes,omitempty"`
	PaymentDetails *PaymentDetails `json:"paymentDetails,omitempty"`
}
