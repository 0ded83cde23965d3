package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"ecofix/models"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

const TypeSendReminder = "reminder:send"

func NewReminderTask(payload models.ReminderPayload, fireAt time.Time) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeSendReminder, b)
	opts := []asynq.Option{
		asynq.ProcessAt(fireAt),
		asynq.TaskID("reminder:" + payload.BookingID),
		asynq.MaxRetry(3),
	}
	return task, opts, nil
}

// ReminderTime is when a reminder for the booking slot should fire.
func ReminderTime(date, clock string, lead time.Duration, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	slot, err := time.ParseInLocation("2006-01-02 15:04", date+" "+clock, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid booking slot %q %q: %w", date, clock, err)
	}
	return slot.Add(-lead), nil
}

type enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// AsynqReminderScheduler queues booking reminders on the asynq reminder queue.
type AsynqReminderScheduler struct {
	client   enqueuer
	lead     time.Duration
	location *time.Location
	logger   *zap.Logger
	now      func() time.Time
}

func NewAsynqReminderScheduler(client *asynq.Client, lead time.Duration, logger *zap.Logger) *AsynqReminderScheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AsynqReminderScheduler{client: client, lead: lead, location: time.UTC, logger: logger, now: time.Now}
}

// ScheduleReminder skips slots whose reminder time has already passed.
func (s *AsynqReminderScheduler) ScheduleReminder(ctx context.Context, b models.Booking) error {
	fireAt, err := ReminderTime(b.Date, b.Time, s.lead, s.location)
	if err != nil {
		return err
	}
	if !fireAt.After(s.now()) {
		s.logger.Debug("Reminder time already passed", zap.String("bookingId", b.ID))
		return nil
	}

	task, opts, err := NewReminderTask(models.ReminderPayload{
		BookingID:    b.ID,
		UserID:       b.UserID,
		ProviderName: b.ProviderName,
		ServiceName:  b.ServiceName,
		Date:         b.Date,
		Time:         b.Time,
	}, fireAt)
	if err != nil {
		return err
	}

	info, err := s.client.EnqueueContext(ctx, task, opts...)
	if errors.Is(err, asynq.ErrTaskIDConflict) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to enqueue reminder: %w", err)
	}
	s.logger.Info("Reminder scheduled",
		zap.String("bookingId", b.ID),
		zap.String("taskId", info.ID),
		zap.Time("fireAt", fireAt))
	return nil
}
