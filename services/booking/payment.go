package booking

import (
	"context"
	"errors"
	"fmt"

	bookingRepo "ecofix/database/repository/booking"
	"ecofix/models"
	"ecofix/services/payment"

	"go.uber.org/zap"
)

// ProcessPayment charges an existing booking. It reports false for an unknown
// booking and for a declined card; a decline also returns *PaymentDeclinedError
// and leaves the booking with paymentStatus "failed" so the user can retry.
func (s *DefaultBookingService) ProcessPayment(ctx context.Context, bookingID string, details models.PaymentDetails) (bool, error) {
	if err := payment.Validate(details); err != nil {
		return false, err
	}

	unlock := s.lock(bookingID)
	defer unlock()

	if err := s.simulateLatency(ctx); err != nil {
		return false, err
	}

	booking, err := s.Repo.GetByID(ctx, bookingID)
	if errors.Is(err, bookingRepo.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to fetch booking: %w", err)
	}

	switch {
	case booking.PaymentStatus == models.PaymentPaid:
		return false, ErrAlreadyPaid
	case booking.Status == models.BookingCancelled:
		return false, fmt.Errorf("%w: cannot pay a cancelled booking", ErrInvalidTransition)
	}

	previous := booking.PaymentStatus
	booking.PaymentStatus = models.PaymentProcessing
	booking.UpdatedAt = s.now()
	if err := s.Repo.Update(ctx, booking); err != nil {
		return false, fmt.Errorf("failed to mark payment processing: %w", err)
	}

	result, err := s.Payments.ProcessPayment(ctx, details)
	if err != nil {
		// The gateway never answered; put the booking back as it was.
		booking.PaymentStatus = previous
		booking.UpdatedAt = s.now()
		if uerr := s.Repo.Update(context.WithoutCancel(ctx), booking); uerr != nil {
			s.Logger.Error("Failed to restore payment status", zap.String("bookingId", bookingID), zap.Error(uerr))
		}
		return false, fmt.Errorf("payment processing failed: %w", err)
	}

	booking.UpdatedAt = s.now()
	if !result.Success {
		booking.PaymentStatus = models.PaymentFailed
		if err := s.Repo.Update(ctx, booking); err != nil {
			return false, fmt.Errorf("failed to record declined payment: %w", err)
		}
		s.Logger.Info("Booking payment declined", zap.String("bookingId", bookingID), zap.String("reason", result.Error))
		return false, &PaymentDeclinedError{Reason: result.Error}
	}

	paidAt := s.now()
	booking.PaymentStatus = models.PaymentPaid
	booking.PaymentAmount = details.Amount
	booking.PaymentDate = &paidAt
	booking.TransactionID = result.TransactionID
	if err := s.Repo.Update(ctx, booking); err != nil {
		return false, s.reverseCharge(ctx, bookingID, result.TransactionID, err)
	}

	s.Logger.Info("Booking paid",
		zap.String("bookingId", bookingID),
		zap.Float64("amount", details.Amount),
		zap.String("transactionId", result.TransactionID))
	return true, nil
}
