package bookingRepo

import (
	"context"
	"fmt"
	"sync"

	"ecofix/models"
)

// MemoryBookingRepo keeps bookings in process memory in insertion order.
type MemoryBookingRepo struct {
	mu       sync.RWMutex
	bookings []models.Booking
	index    map[string]int
}

func NewMemoryBookingRepo() *MemoryBookingRepo {
	return &MemoryBookingRepo{index: make(map[string]int)}
}

func (r *MemoryBookingRepo) Create(_ context.Context, booking *models.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.index[booking.ID]; exists {
		return fmt.Errorf("booking %s already exists", booking.ID)
	}
	r.index[booking.ID] = len(r.bookings)
	r.bookings = append(r.bookings, *booking)
	return nil
}

func (r *MemoryBookingRepo) GetByID(_ context.Context, id string) (*models.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i, ok := r.index[id]
	if !ok {
		return nil, ErrNotFound
	}
	b := r.bookings[i]
	return &b, nil
}

func (r *MemoryBookingRepo) ListByUser(_ context.Context, userID string) ([]models.Booking, error) {
	return r.filter(func(b *models.Booking) bool { return b.UserID == userID }), nil
}

func (r *MemoryBookingRepo) ListByProvider(_ context.Context, providerID string) ([]models.Booking, error) {
	return r.filter(func(b *models.Booking) bool { return b.ProviderID == providerID }), nil
}

func (r *MemoryBookingRepo) Update(_ context.Context, booking *models.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i, ok := r.index[booking.ID]
	if !ok {
		return ErrNotFound
	}
	r.bookings[i] = *booking
	return nil
}

// Len is the number of stored bookings.
func (r *MemoryBookingRepo) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.bookings)
}

func (r *MemoryBookingRepo) filter(keep func(*models.Booking) bool) []models.Booking {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.Booking, 0)
	for i := range r.bookings {
		if keep(&r.bookings[i]) {
			out = append(out, r.bookings[i])
		}
	}
	return out
}
