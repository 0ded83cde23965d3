package review

import (
	"context"

	"ecofix/models"
)

// ReviewService defines review submission and aggregation.
type ReviewService interface {
	SubmitReview(ctx context.Context, submission models.ReviewSubmission) (*models.Review, error)
	GetReviewsForProvider(ctx context.Context, providerID string) ([]models.Review, error)
	GetReviewStats(ctx context.Context, providerID string) (models.ReviewStats, error)
	GetReviewSummary(ctx context.Context, providerID string) (models.ReviewSummary, error)
	GetReviewForBooking(ctx context.Context, bookingID string) (*models.Review, error)
}

// BookingLookup resolves the booking a review is attached to.
type BookingLookup interface {
	GetBooking(ctx context.Context, id string) (*models.Booking, error)
}

// StatsCache stores per-provider aggregates. A nil result with a nil error is a miss.
// Every Invalidate bumps the provider's version; Set is a no-op unless the
// version still matches the one read before the stats were computed.
type StatsCache interface {
	Get(ctx context.Context, providerID string) (*models.ReviewStats, error)
	Version(ctx context.Context, providerID string) (int64, error)
	Set(ctx context.Context, providerID string, version int64, stats models.ReviewStats) error
	Invalidate(ctx context.Context, providerID string) error
}
