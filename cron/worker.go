package cron

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"ecofix/config"
	"ecofix/models"
	"ecofix/services/booking"
	"ecofix/services/notification"
	"ecofix/services/tasks"
	"ecofix/utils"

	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// BookingLookup is the part of the booking service the reminder handler needs.
type BookingLookup interface {
	GetBooking(ctx context.Context, id string) (*models.Booking, error)
}

// ReminderRedisOpt is the asynq connection for the reminder queue.
func ReminderRedisOpt() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisReminderQueueDB,
	}
}

// InitReminderWorker runs the async worker in background. The returned server
// must be shut down by the caller.
func InitReminderWorker(ctx context.Context, bookings BookingLookup, notifSvc notification.NotificationService) *asynq.Server {
	logger := utils.GetLogger()

	srv := asynq.NewServer(
		ReminderRedisOpt(),
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
			Logger: logger.Sugar(),
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeSendReminder, HandleReminderTask(bookings, notifSvc))

	go monitorRedisConnection(ctx)

	go func() {
		logger.Info("Starting reminder worker")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			err := srv.Start(mux)
			if err == nil {
				return
			}
			logger.Error("Failed to start reminder worker",
				zap.Int("attempt", attempts),
				zap.Int("maxAttempts", maxAttempts),
				zap.Error(err))
			if attempts == maxAttempts {
				logger.Error("Reminder worker disabled after max retry attempts")
				return
			}
			select {
			case <-ctx.Done():
				return
			case <-time.After(time.Duration(attempts*2) * time.Second):
			}
		}
	}()
	return srv
}

// HandleReminderTask notifies the homeowner of an upcoming booking. Bookings
// that were cancelled or completed in the meantime are skipped.
func HandleReminderTask(bookings BookingLookup, notifSvc notification.NotificationService) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		logger := utils.GetLogger()

		var p models.ReminderPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			logger.Error("Invalid reminder payload", zap.Error(err))
			return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
		}

		b, err := bookings.GetBooking(ctx, p.BookingID)
		if errors.Is(err, booking.ErrBookingNotFound) {
			logger.Warn("Reminder for unknown booking", zap.String("bookingId", p.BookingID))
			return nil
		}
		if err != nil {
			return err
		}
		if b.Status.IsTerminal() {
			logger.Debug("Skipping reminder for closed booking",
				zap.String("bookingId", p.BookingID),
				zap.String("status", string(b.Status)))
			return nil
		}

		_, err = notifSvc.Notify(ctx, models.Notification{
			UserID:  p.UserID,
			Type:    models.NotificationInfo,
			Title:   "Upcoming booking",
			Message: fmt.Sprintf("%s with %s is scheduled for %s at %s.", p.ServiceName, p.ProviderName, p.Date, p.Time),
			Data: map[string]any{
				"bookingId": p.BookingID,
			},
		})
		if err != nil {
			logger.Error("Failed to send reminder", zap.String("bookingId", p.BookingID), zap.Error(err))
			return err
		}
		logger.Info("Reminder sent", zap.String("bookingId", p.BookingID), zap.String("userId", p.UserID))
		return nil
	}
}

// monitorRedisConnection pings the queue's Redis periodically to detect failures at runtime.
func monitorRedisConnection(ctx context.Context) {
	client := redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisReminderQueueDB,
	})
	defer client.Close()

	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := client.Ping(ctx).Err(); err != nil {
				utils.GetLogger().Warn("Reminder queue Redis connection lost", zap.Error(err))
			}
		}
	}
}
