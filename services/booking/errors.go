package booking

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidBooking    = errors.New("invalid booking request")
	ErrBookingNotFound   = errors.New("booking not found")
	ErrInvalidTransition = errors.New("invalid booking status transition")
	ErrInvalidStatus     = errors.New("unknown booking status")
	ErrAlreadyPaid       = errors.New("booking already paid")
)

// PaymentDeclinedError is returned when the gateway refuses the charge.
// Nothing has been persisted when CreateBooking returns it.
type PaymentDeclinedError struct {
	Reason string
}

func (e *PaymentDeclinedError) Error() string {
	return fmt.Sprintf("payment declined: %s", e.Reason)
}
