package review

import "errors"

var (
	ErrInvalidRating       = errors.New("rating must be between 1 and 5")
	ErrBookingNotFound     = errors.New("booking not found")
	ErrNotReviewer         = errors.New("only the homeowner who made the booking can review it")
	ErrBookingNotCompleted = errors.New("only completed bookings can be reviewed")
	ErrProviderMismatch    = errors.New("review provider does not match the booking")
	ErrDuplicateReview     = errors.New("booking already reviewed")
	ErrReviewNotFound      = errors.New("review not found")
)
