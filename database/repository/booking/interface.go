package bookingRepo

import (
	"context"
	"errors"

	"ecofix/models"
)

// ErrNotFound is returned when no booking has the requested id.
var ErrNotFound = errors.New("booking not found")

// BookingRepository defines the interface for booking data access.
// Bookings are never deleted; cancellation is a status update.
type BookingRepository interface {
	// Create persists a new booking.
	Create(ctx context.Context, booking *models.Booking) error
	// GetByID returns ErrNotFound when the id is unknown.
	GetByID(ctx context.Context, id string) (*models.Booking, error)
	// ListByUser returns the user's bookings in creation order.
	ListByUser(ctx context.Context, userID string) ([]models.Booking, error)
	// ListByProvider returns the provider's bookings in creation order.
	ListByProvider(ctx context.Context, providerID string) ([]models.Booking, error)
	// Update replaces the stored booking with the same id.
	Update(ctx context.Context, booking *models.Booking) error
}
