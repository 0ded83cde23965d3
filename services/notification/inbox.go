package notification

import (
	"context"
	"fmt"
	"sync"
	"time"

	"ecofix/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// maxInbox bounds how many notifications are kept per user; the oldest are dropped.
const maxInbox = 100

// InboxNotificationService keeps recent notifications per user in memory and
// mirrors every one of them to the log.
type InboxNotificationService struct {
	logger *zap.Logger

	mu     sync.RWMutex
	inbox  map[string][]models.Notification
	nowFun func() time.Time
}

func NewInboxNotificationService(logger *zap.Logger) *InboxNotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InboxNotificationService{
		logger: logger,
		inbox:  make(map[string][]models.Notification),
		nowFun: time.Now,
	}
}

func (s *InboxNotificationService) Notify(_ context.Context, n models.Notification) (models.Notification, error) {
	if n.UserID == "" {
		return models.Notification{}, fmt.Errorf("notification has no recipient")
	}
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	if n.Type == "" {
		n.Type = models.NotificationInfo
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = s.nowFun()
	}

	s.mu.Lock()
	list := append(s.inbox[n.UserID], n)
	if len(list) > maxInbox {
		list = list[len(list)-maxInbox:]
	}
	s.inbox[n.UserID] = list
	s.mu.Unlock()

	fields := []zap.Field{
		zap.String("userId", n.UserID),
		zap.String("type", n.Type),
		zap.String("title", n.Title),
		zap.String("message", n.Message),
	}
	if n.Type == models.NotificationError {
		s.logger.Warn("Notification", fields...)
	} else {
		s.logger.Info("Notification", fields...)
	}
	return n, nil
}

// List returns the user's notifications, newest first.
func (s *InboxNotificationService) List(_ context.Context, userID string) ([]models.Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := s.inbox[userID]
	out := make([]models.Notification, 0, len(list))
	for i := len(list) - 1; i >= 0; i-- {
		out = append(out, list[i])
	}
	return out, nil
}

func (s *InboxNotificationService) MarkRead(_ context.Context, userID, notificationID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	list := s.inbox[userID]
	for i := range list {
		if list[i].ID == notificationID {
			list[i].Read = true
			return nil
		}
	}
	return ErrNotificationNotFound
}
