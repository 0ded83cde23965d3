package checkout

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"ecofix/models"
	"ecofix/services/booking"
	"ecofix/services/notification"
	"ecofix/services/payment"
	"ecofix/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultCheckoutService implements CheckoutService.
type DefaultCheckoutService struct {
	Sessions SessionStore
	Bookings booking.BookingService
	Notifier notification.NotificationService
	Logger   *zap.Logger
	Now      func() time.Time

	locks utils.KeyedMutex
}

func NewDefaultCheckoutService(
	sessions SessionStore,
	bookings booking.BookingService,
	notifier notification.NotificationService,
	logger *zap.Logger,
) (*DefaultCheckoutService, error) {
	if sessions == nil || bookings == nil || notifier == nil {
		return nil, fmt.Errorf("checkout service initialization error: sessions, bookings or notifier is nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DefaultCheckoutService{
		Sessions: sessions,
		Bookings: bookings,
		Notifier: notifier,
		Logger:   logger,
		Now:      time.Now,
	}, nil
}

// Start opens a new session in the booking step.
func (s *DefaultCheckoutService) Start(ctx context.Context, user models.UserProfile, req models.StartCheckoutRequest) (*models.CheckoutSession, error) {
	if req.ProviderID == "" {
		return nil, fmt.Errorf("%w: providerId is required", booking.ErrInvalidBooking)
	}
	if req.Amount <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", booking.ErrInvalidBooking)
	}
	now := s.now()
	session := &models.CheckoutSession{
		ID:           uuid.New().String(),
		UserID:       user.ID,
		Step:         models.StepBooking,
		ProviderID:   req.ProviderID,
		ProviderName: req.ProviderName,
		ServiceID:    req.ServiceID,
		ServiceName:  req.ServiceName,
		Amount:       req.Amount,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.Sessions.Save(ctx, session); err != nil {
		return nil, err
	}
	s.Logger.Debug("Checkout started", zap.String("sessionId", session.ID), zap.String("providerId", req.ProviderID))
	return session, nil
}

func (s *DefaultCheckoutService) Get(ctx context.Context, user models.UserProfile, sessionID string) (*models.CheckoutSession, error) {
	return s.load(ctx, user, sessionID)
}

// SelectSchedule records the date, time slot and notes of the booking step.
func (s *DefaultCheckoutService) SelectSchedule(ctx context.Context, user models.UserProfile, sessionID string, sel models.ScheduleSelection) (*models.CheckoutSession, error) {
	return s.update(ctx, user, sessionID, func(session *models.CheckoutSession) error {
		if session.Step != models.StepBooking {
			return &StepError{Action: "change the schedule", Step: session.Step}
		}
		session.Date = strings.TrimSpace(sel.Date)
		session.Time = strings.TrimSpace(sel.Time)
		session.Notes = sel.Notes
		return nil
	})
}

// Proceed moves from the booking step to the payment step once a slot is chosen.
func (s *DefaultCheckoutService) Proceed(ctx context.Context, user models.UserProfile, sessionID string) (*models.CheckoutSession, error) {
	session, err := s.update(ctx, user, sessionID, func(session *models.CheckoutSession) error {
		if session.Step != models.StepBooking {
			return &StepError{Action: "continue to payment", Step: session.Step}
		}
		if session.Date == "" || session.Time == "" {
			return ErrScheduleRequired
		}
		session.Step = models.StepPayment
		session.LastError = ""
		return nil
	})
	if errors.Is(err, ErrScheduleRequired) {
		s.toast(ctx, user.ID, models.NotificationError, "Missing information", ErrScheduleRequired.Error(), nil)
	}
	return session, err
}

// Back returns to the booking step keeping everything collected so far.
func (s *DefaultCheckoutService) Back(ctx context.Context, user models.UserProfile, sessionID string) (*models.CheckoutSession, error) {
	return s.update(ctx, user, sessionID, func(session *models.CheckoutSession) error {
		if session.Step != models.StepPayment {
			return &StepError{Action: "go back", Step: session.Step}
		}
		session.Step = models.StepBooking
		return nil
	})
}

// Submit validates the card, charges it and creates the booking. Any failure
// keeps the session in the payment step so the user can retry.
func (s *DefaultCheckoutService) Submit(ctx context.Context, user models.UserProfile, sessionID string, details models.PaymentDetails) (*models.CheckoutSession, *models.Booking, error) {
	unlock := s.lock(sessionID)
	defer unlock()

	session, err := s.load(ctx, user, sessionID)
	if err != nil {
		return nil, nil, err
	}
	if session.Step != models.StepPayment {
		return session, nil, &StepError{Action: "submit payment", Step: session.Step}
	}

	created, err := s.submit(ctx, user, session, details)
	session.UpdatedAt = s.now()
	if err != nil {
		session.LastError = failureMessage(err)
		session.Attempts++
		if serr := s.Sessions.Save(ctx, session); serr != nil {
			s.Logger.Error("Failed to save checkout session", zap.String("sessionId", sessionID), zap.Error(serr))
		}
		s.toast(ctx, user.ID, models.NotificationError, "Booking failed", session.LastError, map[string]any{"sessionId": sessionID})
		return session, nil, err
	}

	session.Step = models.StepSuccess
	session.BookingID = created.ID
	session.LastError = ""
	session.Attempts++
	if err := s.Sessions.Save(ctx, session); err != nil {
		s.Logger.Error("Failed to save checkout session", zap.String("sessionId", sessionID), zap.Error(err))
	}

	s.toast(ctx, user.ID, models.NotificationSuccess, "Booking confirmed",
		fmt.Sprintf("Your booking with %s on %s at %s is confirmed.", displayName(session.ProviderName), session.Date, session.Time),
		map[string]any{"bookingId": created.ID, "sessionId": sessionID})
	return session, created, nil
}

func (s *DefaultCheckoutService) submit(ctx context.Context, user models.UserProfile, session *models.CheckoutSession, details models.PaymentDetails) (*models.Booking, error) {
	// The price fixed at Start is the one charged.
	if details.Amount != 0 && toCents(details.Amount) != toCents(session.Amount) {
		return nil, &payment.ValidationError{Field: "amount", Message: "Payment amount does not match the booking price"}
	}
	details.Amount = session.Amount

	// Form checks run before anything is sent to the gateway.
	if err := payment.Validate(details); err != nil {
		return nil, err
	}
	return s.Bookings.CreateBooking(ctx, user, models.CreateBookingRequest{
		ProviderID:     session.ProviderID,
		ProviderName:   session.ProviderName,
		ServiceID:      session.ServiceID,
		ServiceName:    session.ServiceName,
		Date:           session.Date,
		Time:           session.Time,
		Notes:          session.Notes,
		PaymentDetails: &details,
	})
}

func (s *DefaultCheckoutService) update(ctx context.Context, user models.UserProfile, sessionID string, apply func(*models.CheckoutSession) error) (*models.CheckoutSession, error) {
	unlock := s.lock(sessionID)
	defer unlock()

	session, err := s.load(ctx, user, sessionID)
	if err != nil {
		return nil, err
	}
	if err := apply(session); err != nil {
		return session, err
	}
	session.UpdatedAt = s.now()
	if err := s.Sessions.Save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

func (s *DefaultCheckoutService) load(ctx context.Context, user models.UserProfile, sessionID string) (*models.CheckoutSession, error) {
	session, err := s.Sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	// Other users' sessions are indistinguishable from missing ones.
	if session.UserID != user.ID {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

func (s *DefaultCheckoutService) toast(ctx context.Context, userID, kind, title, message string, data map[string]any) {
	_, err := s.Notifier.Notify(ctx, models.Notification{
		UserID:  userID,
		Type:    kind,
		Title:   title,
		Message: message,
		Data:    data,
	})
	if err != nil {
		s.Logger.Warn("Failed to deliver notification", zap.String("userId", userID), zap.Error(err))
	}
}

func (s *DefaultCheckoutService) lock(id string) func() {
	return s.locks.Lock(id)
}

func (s *DefaultCheckoutService) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}

func failureMessage(err error) string {
	var declined *booking.PaymentDeclinedError
	var invalid *payment.ValidationError
	switch {
	case errors.As(err, &declined):
		return declined.Reason
	case errors.As(err, &invalid):
		return invalid.Message
	}
	return "Something went wrong while creating your booking. Please try again."
}

func toCents(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

func displayName(name string) string {
	if name == "" {
		return "your provider"
	}
	return name
}
