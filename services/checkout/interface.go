package checkout

import (
	"context"

	"ecofix/models"
)

// CheckoutService drives the two-step booking dialog: schedule, then payment.
type CheckoutService interface {
	Start(ctx context.Context, user models.UserProfile, req models.StartCheckoutRequest) (*models.CheckoutSession, error)
	Get(ctx context.Context, user models.UserProfile, sessionID string) (*models.CheckoutSession, error)
	SelectSchedule(ctx context.Context, user models.UserProfile, sessionID string, sel models.ScheduleSelection) (*models.CheckoutSession, error)
	Proceed(ctx context.Context, user models.UserProfile, sessionID string) (*models.CheckoutSession, error)
	Back(ctx context.Context, user models.UserProfile, sessionID string) (*models.CheckoutSession, error)
	Submit(ctx context.Context, user models.UserProfile, sessionID string, details models.PaymentDetails) (*models.CheckoutSession, *models.Booking, error)
}

// SessionStore persists wizard sessions between requests.
type SessionStore interface {
	Get(ctx context.Context, id string) (*models.CheckoutSession, error)
	Save(ctx context.Context, session *models.CheckoutSession) error
	Delete(ctx context.Context, id string) error
}
