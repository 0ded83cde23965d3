package reviewRepo

import (
	"context"
	"errors"

	"ecofix/models"
)

var (
	// ErrNotFound is returned when no review matches.
	ErrNotFound = errors.New("review not found")
	// ErrDuplicate is returned when a booking already has a review.
	ErrDuplicate = errors.New("booking already reviewed")
)

// ReviewRepository defines the interface for review data access.
// Reviews are immutable once created.
type ReviewRepository interface {
	Create(ctx context.Context, review *models.Review) error
	ListByProvider(ctx context.Context, providerID string) ([]models.Review, error)
	GetByBookingID(ctx context.Context, bookingID string) (*models.Review, error)
}
