package notification

import (
	"context"
	"errors"

	"ecofix/models"
)

var ErrNotificationNotFound = errors.New("notification not found")

// NotificationService is the user-facing message sink (toasts and inbox).
type NotificationService interface {
	Notify(ctx context.Context, n models.Notification) (models.Notification, error)
	List(ctx context.Context, userID string) ([]models.Notification, error)
	MarkRead(ctx context.Context, userID, notificationID string) error
}
