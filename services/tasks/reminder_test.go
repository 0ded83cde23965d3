package tasks

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"ecofix/models"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

type fakeEnqueuer struct {
	tasks []*asynq.Task
}

func (f *fakeEnqueuer) EnqueueContext(_ context.Context, task *asynq.Task, _ ...asynq.Option) (*asynq.TaskInfo, error) {
	f.tasks = append(f.tasks, task)
	return &asynq.TaskInfo{ID: "task-1"}, nil
}

func newScheduler(q enqueuer, now time.Time) *AsynqReminderScheduler {
	return &AsynqReminderScheduler{
		client:   q,
		lead:     24 * time.Hour,
		location: time.UTC,
		logger:   zap.NewNop(),
		now:      func() time.Time { return now },
	}
}

func TestReminderTime(t *testing.T) {
	got, err := ReminderTime("2025-06-02", "10:00", 24*time.Hour, time.UTC)
	if err != nil {
		t.Fatalf("reminder time: %v", err)
	}
	want := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("got %v, want %v", got, want)
	}

	if _, err := ReminderTime("tomorrow", "10:00", time.Hour, nil); err == nil {
		t.Error("expected an error for a malformed date")
	}
}

func TestScheduleReminderEnqueuesFutureSlot(t *testing.T) {
	q := &fakeEnqueuer{}
	s := newScheduler(q, time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC))

	b := models.Booking{ID: "b1", UserID: "u1", ProviderName: "Solar Sam", Date: "2025-06-02", Time: "10:00"}
	if err := s.ScheduleReminder(context.Background(), b); err != nil {
		t.Fatalf("schedule: %v", err)
	}
	if len(q.tasks) != 1 {
		t.Fatalf("enqueued %d tasks, want 1", len(q.tasks))
	}
	if q.tasks[0].Type() != TypeSendReminder {
		t.Errorf("task type = %s", q.tasks[0].Type())
	}
	var p models.ReminderPayload
	if err := json.Unmarshal(q.tasks[0].Payload(), &p); err != nil {
		t.Fatalf("payload: %v", err)
	}
	if p.BookingID != "b1" || p.UserID != "u1" {
		t.Errorf("unexpected payload %+v", p)
	}
}

func TestScheduleReminderSkipsPastSlot(t *testing.T) {
	q := &fakeEnqueuer{}
	s := newScheduler(q, time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC))

	b := models.Booking{ID: "b1", Date: "2025-06-02", Time: "10:00"}
	if err := s.ScheduleReminder(context.Background(), b); err != nil {
		t.Fatalf("schedule: %v", err)
	}
	if len(q.tasks) != 0 {
		t.Errorf("past reminder should not be enqueued")
	}
}
