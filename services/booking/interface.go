package booking

import (
	"context"

	"ecofix/models"
)

// BookingService defines the booking store operations used by the booking dialog
// and the bookings list.
type BookingService interface {
	CreateBooking(ctx context.Context, user models.UserProfile, req models.CreateBookingRequest) (*models.Booking, error)
	GetBookingsForUser(ctx context.Context, userID string, status models.BookingStatus) ([]models.Booking, error)
	GetBookingsForProvider(ctx context.Context, providerID string) ([]models.Booking, error)
	GetBooking(ctx context.Context, id string) (*models.Booking, error)
	CancelBooking(ctx context.Context, id string) (bool, error)
	CompleteBooking(ctx context.Context, id string) (bool, error)
	ConfirmBooking(ctx context.Context, id string) (bool, error)
	ProcessPayment(ctx context.Context, bookingID string, details models.PaymentDetails) (bool, error)
}

// ReminderScheduler queues an upcoming-appointment reminder for a new booking.
type ReminderScheduler interface {
	ScheduleReminder(ctx context.Context, booking models.Booking) error
}
