package reviewRepo

import (
	"context"
	"sync"

	"ecofix/models"
)

// MemoryReviewRepo keeps reviews in process memory in insertion order.
type MemoryReviewRepo struct {
	mu        sync.RWMutex
	reviews   []models.Review
	byBooking map[string]int
}

func NewMemoryReviewRepo() *MemoryReviewRepo {
	return &MemoryReviewRepo{byBooking: make(map[string]int)}
}

func (r *MemoryReviewRepo) Create(_ context.Context, review *models.Review) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byBooking[review.BookingID]; exists {
		return ErrDuplicate
	}
	r.byBooking[review.BookingID] = len(r.reviews)
	r.reviews = append(r.reviews, *review)
	return nil
}

func (r *MemoryReviewRepo) ListByProvider(_ context.Context, providerID string) ([]models.Review, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.Review, 0)
	for _, rv := range r.reviews {
		if rv.ProviderID == providerID {
			out = append(out, rv)
		}
	}
	return out, nil
}

func (r *MemoryReviewRepo) GetByBookingID(_ context.Context, bookingID string) (*models.Review, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i, ok := r.byBooking[bookingID]
	if !ok {
		return nil, ErrNotFound
	}
	rv := r.reviews[i]
	return &rv, nil
}
