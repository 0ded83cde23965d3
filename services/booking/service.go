package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	bookingRepo "ecofix/database/repository/booking"
	"ecofix/models"
	"ecofix/services/payment"
	"ecofix/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"
)

// DefaultBookingService implements BookingService on top of a BookingRepository
// and a payment Processor.
type DefaultBookingService struct {
	Repo      bookingRepo.BookingRepository
	Payments  payment.Processor
	Reminders ReminderScheduler
	Logger    *zap.Logger
	// StoreDelay is added to every store operation to emulate a remote backend.
	StoreDelay time.Duration
	Now        func() time.Time

	locks utils.KeyedMutex
}

func NewDefaultBookingService(repo bookingRepo.BookingRepository, processor payment.Processor, logger *zap.Logger) (*DefaultBookingService, error) {
	if repo == nil || processor == nil {
		return nil, fmt.Errorf("booking service initialization error: repository or payment processor is nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DefaultBookingService{
		Repo:     repo,
		Payments: processor,
		Logger:   logger,
		Now:      time.Now,
	}, nil
}

// CreateBooking persists a new booking. When payment details are supplied the
// card is charged first and the booking is only stored if the charge succeeds.
func (s *DefaultBookingService) CreateBooking(ctx context.Context, user models.UserProfile, req models.CreateBookingRequest) (*models.Booking, error) {
	if err := validateBookingRequest(req); err != nil {
		return nil, err
	}

	now := s.now()
	booking := &models.Booking{
		ID:            uuid.New().String(),
		UserID:        user.ID,
		ProviderID:    req.ProviderID,
		ProviderName:  req.ProviderName,
		ServiceID:     req.ServiceID,
		ServiceName:   req.ServiceName,
		Date:          req.Date,
		Time:          req.Time,
		Status:        models.BookingPending,
		Notes:         req.Notes,
		PaymentStatus: models.PaymentPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if req.PaymentDetails != nil {
		details := *req.PaymentDetails
		// Checked here so a malformed card never reaches the gateway.
		if err := payment.Validate(details); err != nil {
			return nil, err
		}

		result, err := s.Payments.ProcessPayment(ctx, details)
		if err != nil {
			return nil, fmt.Errorf("payment processing failed: %w", err)
		}
		if !result.Success {
			s.Logger.Info("Booking not created, payment declined",
				zap.String("userId", user.ID),
				zap.String("providerId", req.ProviderID),
				zap.String("reason", result.Error))
			return nil, &PaymentDeclinedError{Reason: result.Error}
		}

		paidAt := s.now()
		booking.PaymentStatus = models.PaymentPaid
		booking.PaymentAmount = details.Amount
		booking.PaymentDate = &paidAt
		booking.TransactionID = result.TransactionID
	}

	err := s.simulateLatency(ctx)
	if err == nil {
		err = s.Repo.Create(ctx, booking)
	}
	if err != nil {
		if booking.TransactionID != "" {
			return nil, s.reverseCharge(ctx, booking.ID, booking.TransactionID, err)
		}
		return nil, fmt.Errorf("failed to save booking: %w", err)
	}

	s.Logger.Info("Booking created",
		zap.String("bookingId", booking.ID),
		zap.String("userId", booking.UserID),
		zap.String("providerId", booking.ProviderID),
		zap.String("paymentStatus", string(booking.PaymentStatus)))

	if s.Reminders != nil {
		if err := s.Reminders.ScheduleReminder(ctx, *booking); err != nil {
			s.Logger.Warn("Failed to schedule booking reminder", zap.String("bookingId", booking.ID), zap.Error(err))
		}
	}
	return booking, nil
}

// GetBookingsForUser lists the caller's bookings, optionally restricted to one status tab.
func (s *DefaultBookingService) GetBookingsForUser(ctx context.Context, userID string, status models.BookingStatus) ([]models.Booking, error) {
	if status != "" && !status.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidStatus, status)
	}
	if err := s.simulateLatency(ctx); err != nil {
		return nil, err
	}

	bookings, err := s.Repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	if status == "" {
		return bookings, nil
	}

	filtered := make([]models.Booking, 0, len(bookings))
	for _, b := range bookings {
		if b.Status == status {
			filtered = append(filtered, b)
		}
	}
	return filtered, nil
}

func (s *DefaultBookingService) GetBookingsForProvider(ctx context.Context, providerID string) ([]models.Booking, error) {
	if err := s.simulateLatency(ctx); err != nil {
		return nil, err
	}
	bookings, err := s.Repo.ListByProvider(ctx, providerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list provider bookings: %w", err)
	}
	return bookings, nil
}

func (s *DefaultBookingService) GetBooking(ctx context.Context, id string) (*models.Booking, error) {
	if err := s.simulateLatency(ctx); err != nil {
		return nil, err
	}
	booking, err := s.Repo.GetByID(ctx, id)
	if errors.Is(err, bookingRepo.ErrNotFound) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch booking: %w", err)
	}
	return booking, nil
}

// CancelBooking returns false for an unknown id. Terminal bookings are left
// untouched and reported with ErrInvalidTransition.
func (s *DefaultBookingService) CancelBooking(ctx context.Context, id string) (bool, error) {
	return s.transition(ctx, id, models.BookingCancelled)
}

func (s *DefaultBookingService) CompleteBooking(ctx context.Context, id string) (bool, error) {
	return s.transition(ctx, id, models.BookingCompleted)
}

func (s *DefaultBookingService) ConfirmBooking(ctx context.Context, id string) (bool, error) {
	return s.transition(ctx, id, models.BookingConfirmed)
}

func (s *DefaultBookingService) transition(ctx context.Context, id string, to models.BookingStatus) (bool, error) {
	unlock := s.lock(id)
	defer unlock()

	if err := s.simulateLatency(ctx); err != nil {
		return false, err
	}

	booking, err := s.Repo.GetByID(ctx, id)
	if errors.Is(err, bookingRepo.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to fetch booking: %w", err)
	}

	if !CanTransition(booking.Status, to) {
		return false, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, booking.Status, to)
	}

	from := booking.Status
	booking.Status = to
	booking.UpdatedAt = s.now()
	if err := s.Repo.Update(ctx, booking); err != nil {
		return false, fmt.Errorf("failed to update booking: %w", err)
	}

	s.Logger.Info("Booking status changed",
		zap.String("bookingId", id),
		zap.String("from", string(from)),
		zap.String("to", string(to)))
	return true, nil
}

// reverseCharge refunds a charge whose booking could not be stored. The
// transaction id is logged and carried in the returned error either way.
func (s *DefaultBookingService) reverseCharge(ctx context.Context, bookingID, transactionID string, cause error) error {
	s.Logger.Error("Charged booking not saved, refunding",
		zap.String("bookingId", bookingID),
		zap.String("transactionId", transactionID),
		zap.Error(cause))
	if err := s.Payments.Refund(context.WithoutCancel(ctx), transactionID); err != nil {
		s.Logger.Error("Refund failed, charge needs manual reversal",
			zap.String("bookingId", bookingID),
			zap.String("transactionId", transactionID),
			zap.Error(err))
		return fmt.Errorf("failed to save booking (transaction %s not refunded: %v): %w", transactionID, err, cause)
	}
	return fmt.Errorf("failed to save booking (transaction %s refunded): %w", transactionID, cause)
}

// lock serialises read-check-write sequences on a single booking.
func (s *DefaultBookingService) lock(id string) func() {
	return s.locks.Lock(id)
}

func (s *DefaultBookingService) simulateLatency(ctx context.Context) error {
	if s.StoreDelay <= 0 {
		return nil
	}
	timer := time.NewTimer(s.StoreDelay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (s *DefaultBookingService) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}

func validateBookingRequest(req models.CreateBookingRequest) error {
	if req.ProviderID == "" || req.Date == "" || req.Time == "" {
		return fmt.Errorf("%w: providerId, date and time are required", ErrInvalidBooking)
	}
	if _, err := time.Parse(dateLayout, req.Date); err != nil {
		return fmt.Errorf("%w: date must be YYYY-MM-DD", ErrInvalidBooking)
	}
	if _, err := time.Parse(timeLayout, req.Time); err != nil {
		return fmt.Errorf("%w: time must be HH:MM", ErrInvalidBooking)
	}
	return nil
}
