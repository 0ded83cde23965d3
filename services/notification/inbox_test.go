package notification

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"ecofix/models"

	"go.uber.org/zap"
)

func TestInbox_NotifyListMarkRead(t *testing.T) {
	ctx := context.Background()
	svc := NewInboxNotificationService(zap.NewNop())

	first, err := svc.Notify(ctx, models.Notification{UserID: "u1", Type: models.NotificationSuccess, Title: "Booking confirmed"})
	if err != nil {
		t.Fatalf("notify: %v", err)
	}
	if first.ID == "" || first.CreatedAt.IsZero() {
		t.Fatalf("expected generated id and timestamp: %+v", first)
	}
	_, _ = svc.Notify(ctx, models.Notification{UserID: "u1", Type: models.NotificationError, Title: "Payment failed"})
	_, _ = svc.Notify(ctx, models.Notification{UserID: "u2", Title: "Someone else"})

	list, _ := svc.List(ctx, "u1")
	if len(list) != 2 || list[0].Title != "Payment failed" {
		t.Fatalf("expected newest first for u1 only: %+v", list)
	}

	if err := svc.MarkRead(ctx, "u1", first.ID); err != nil {
		t.Fatalf("mark read: %v", err)
	}
	list, _ = svc.List(ctx, "u1")
	if !list[1].Read {
		t.Fatal("notification should be read")
	}
	if err := svc.MarkRead(ctx, "u2", first.ID); !errors.Is(err, ErrNotificationNotFound) {
		t.Fatalf("other users cannot mark it, got %v", err)
	}
}

func TestInbox_RejectsMissingRecipientAndBoundsSize(t *testing.T) {
	ctx := context.Background()
	svc := NewInboxNotificationService(nil)

	if _, err := svc.Notify(ctx, models.Notification{Title: "orphan"}); err == nil {
		t.Fatal("expected error for notification without user")
	}

	for i := 0; i < maxInbox+10; i++ {
		_, _ = svc.Notify(ctx, models.Notification{UserID: "u1", Title: fmt.Sprintf("n%d", i)})
	}
	list, _ := svc.List(ctx, "u1")
	if len(list) != maxInbox {
		t.Fatalf("expected %d notifications, got %d", maxInbox, len(list))
	}
	if list[0].Title != fmt.Sprintf("n%d", maxInbox+9) {
		t.Fatalf("newest must be kept, got %s", list[0].Title)
	}
}
