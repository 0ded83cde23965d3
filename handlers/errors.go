package handlers

import (
	"errors"
	"net/http"

	"ecofix/models"
	"ecofix/services/booking"
	"ecofix/services/checkout"
	"ecofix/services/notification"
	"ecofix/services/payment"
	"ecofix/services/receipt"
	"ecofix/services/review"
	"ecofix/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// statusFor maps service errors to an HTTP status and a short error title.
func statusFor(err error) (int, string) {
	var invalidCard *payment.ValidationError
	var declined *booking.PaymentDeclinedError
	var wrongStep *checkout.StepError

	switch {
	case errors.As(err, &invalidCard):
		return http.StatusBadRequest, "Invalid payment details"
	case errors.As(err, &declined):
		return http.StatusPaymentRequired, "Payment declined"
	case errors.As(err, &wrongStep):
		return http.StatusConflict, "Invalid checkout step"
	case errors.Is(err, booking.ErrInvalidBooking),
		errors.Is(err, booking.ErrInvalidStatus),
		errors.Is(err, review.ErrInvalidRating),
		errors.Is(err, review.ErrProviderMismatch),
		errors.Is(err, checkout.ErrScheduleRequired):
		return http.StatusBadRequest, "Invalid request"
	case errors.Is(err, booking.ErrBookingNotFound),
		errors.Is(err, review.ErrBookingNotFound),
		errors.Is(err, review.ErrReviewNotFound),
		errors.Is(err, checkout.ErrSessionNotFound),
		errors.Is(err, notification.ErrNotificationNotFound):
		return http.StatusNotFound, "Not found"
	case errors.Is(err, review.ErrNotReviewer):
		return http.StatusForbidden, "Forbidden"
	case errors.Is(err, booking.ErrInvalidTransition),
		errors.Is(err, booking.ErrAlreadyPaid),
		errors.Is(err, review.ErrBookingNotCompleted),
		errors.Is(err, review.ErrDuplicateReview),
		errors.Is(err, receipt.ErrNotPaid):
		return http.StatusConflict, "Conflict"
	}
	return http.StatusInternalServerError, "Internal server error"
}

func respondError(c *gin.Context, err error) {
	status, title := statusFor(err)
	if status == http.StatusInternalServerError {
		getLogger(c).Error("Request failed", zap.String("path", c.FullPath()), zap.Error(err))
		utils.JSONError(c, status, title, "An unexpected error occurred. Please try again later.")
		return
	}
	utils.JSONError(c, status, title, err.Error())
}

func badRequest(c *gin.Context, err error) {
	utils.JSONError(c, http.StatusBadRequest, "Invalid request", err.Error())
}

// currentUser returns the profile set by the auth middleware.
func currentUser(c *gin.Context) (models.UserProfile, bool) {
	v, exists := c.Get("user")
	if !exists {
		return models.UserProfile{}, false
	}
	user, ok := v.(models.UserProfile)
	return user, ok && user.ID != ""
}

func requireUser(c *gin.Context) (models.UserProfile, bool) {
	user, ok := currentUser(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "Insufficient authorization", "missing user profile")
	}
	return user, ok
}
