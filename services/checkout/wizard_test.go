package checkout

import (
	"context"
	"errors"
	"testing"
	"time"

	bookingRepo "ecofix/database/repository/booking"
	"ecofix/models"
	"ecofix/services/booking"
	"ecofix/services/notification"
	"ecofix/services/payment"

	"go.uber.org/zap"
)

type stubProcessor struct {
	result models.PaymentResult
	calls  int
}

func (p *stubProcessor) ProcessPayment(_ context.Context, _ models.PaymentDetails) (models.PaymentResult, error) {
	p.calls++
	return p.result, nil
}

func (p *stubProcessor) Refund(_ context.Context, _ string) error { return nil }

type fixture struct {
	svc       *DefaultCheckoutService
	repo      *bookingRepo.MemoryBookingRepo
	inbox     *notification.InboxNotificationService
	processor *stubProcessor
}

var (
	alice = models.UserProfile{ID: "user-alice", Name: "Alice"}
	bob   = models.UserProfile{ID: "user-bob", Name: "Bob"}
)

func newFixture(t *testing.T, approve bool) *fixture {
	t.Helper()
	processor := &stubProcessor{result: models.PaymentResult{Success: true, TransactionID: "txn_1"}}
	if !approve {
		processor.result = models.PaymentResult{Success: false, Error: "Insufficient funds"}
	}
	repo := bookingRepo.NewMemoryBookingRepo()
	bookings, err := booking.NewDefaultBookingService(repo, processor, zap.NewNop())
	if err != nil {
		t.Fatalf("booking service: %v", err)
	}
	inbox := notification.NewInboxNotificationService(zap.NewNop())
	svc, err := NewDefaultCheckoutService(NewMemorySessionStore(10*time.Minute), bookings, inbox, zap.NewNop())
	if err != nil {
		t.Fatalf("checkout service: %v", err)
	}
	return &fixture{svc: svc, repo: repo, inbox: inbox, processor: processor}
}

func (f *fixture) start(t *testing.T) *models.CheckoutSession {
	t.Helper()
	session, err := f.svc.Start(context.Background(), alice, models.StartCheckoutRequest{
		ProviderID:   "prov-1",
		ProviderName: "Green Roofs Ltd",
		ServiceName:  "Roof insulation",
		Amount:       120,
	})
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	return session
}

func (f *fixture) toPayment(t *testing.T) *models.CheckoutSession {
	t.Helper()
	ctx := context.Background()
	session := f.start(t)
	if _, err := f.svc.SelectSchedule(ctx, alice, session.ID, models.ScheduleSelection{Date: "2025-07-01", Time: "09:30"}); err != nil {
		t.Fatalf("select schedule: %v", err)
	}
	session, err := f.svc.Proceed(ctx, alice, session.ID)
	if err != nil {
		t.Fatalf("proceed: %v", err)
	}
	return session
}

func card() models.PaymentDetails {
	return models.PaymentDetails{
		CardholderName: "Alice",
		CardNumber:     "4242 4242 4242 4242",
		ExpiryDate:     "08/28",
		CVV:            "123",
	}
}

func TestProceedRequiresSchedule(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()
	session := f.start(t)

	got, err := f.svc.Proceed(ctx, alice, session.ID)
	if !errors.Is(err, ErrScheduleRequired) {
		t.Fatalf("expected ErrScheduleRequired, got %v", err)
	}
	if got.Step != models.StepBooking {
		t.Errorf("step = %s, want booking", got.Step)
	}

	notes, _ := f.inbox.List(ctx, alice.ID)
	if len(notes) != 1 || notes[0].Type != models.NotificationError {
		t.Errorf("expected one error notification, got %+v", notes)
	}
}

func TestBackKeepsSchedule(t *testing.T) {
	f := newFixture(t, true)
	session := f.toPayment(t)

	back, err := f.svc.Back(context.Background(), alice, session.ID)
	if err != nil {
		t.Fatalf("back: %v", err)
	}
	if back.Step != models.StepBooking {
		t.Errorf("step = %s, want booking", back.Step)
	}
	if back.Date != "2025-07-01" || back.Time != "09:30" {
		t.Errorf("schedule lost: %s %s", back.Date, back.Time)
	}
}

func TestSubmitSuccess(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()
	session := f.toPayment(t)

	got, created, err := f.svc.Submit(ctx, alice, session.ID, card())
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if got.Step != models.StepSuccess || got.BookingID != created.ID {
		t.Errorf("unexpected session %+v", got)
	}
	if created.PaymentStatus != models.PaymentPaid || created.PaymentAmount != 120 {
		t.Errorf("booking not paid with session amount: %+v", created)
	}
	if f.repo.Len() != 1 {
		t.Errorf("repo has %d bookings, want 1", f.repo.Len())
	}

	notes, _ := f.inbox.List(ctx, alice.ID)
	if len(notes) != 1 || notes[0].Type != models.NotificationSuccess {
		t.Errorf("expected a success notification, got %+v", notes)
	}

	var stepErr *StepError
	if _, _, err := f.svc.Submit(ctx, alice, session.ID, card()); !errors.As(err, &stepErr) {
		t.Errorf("second submit should fail with StepError, got %v", err)
	}
	if f.processor.calls != 1 {
		t.Errorf("processor called %d times, want 1", f.processor.calls)
	}
}

func TestSubmitDeclinedStaysOnPayment(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()
	session := f.toPayment(t)

	got, created, err := f.svc.Submit(ctx, alice, session.ID, card())
	var declined *booking.PaymentDeclinedError
	if !errors.As(err, &declined) {
		t.Fatalf("expected PaymentDeclinedError, got %v", err)
	}
	if created != nil {
		t.Errorf("no booking expected, got %+v", created)
	}
	if got.Step != models.StepPayment || got.LastError != "Insufficient funds" || got.Attempts != 1 {
		t.Errorf("unexpected session after decline: %+v", got)
	}
	if f.repo.Len() != 0 {
		t.Errorf("declined payment must not persist a booking")
	}
}

func TestSubmitInvalidCardSkipsGateway(t *testing.T) {
	f := newFixture(t, true)
	session := f.toPayment(t)

	details := card()
	details.CVV = "1"
	_, _, err := f.svc.Submit(context.Background(), alice, session.ID, details)
	var invalid *payment.ValidationError
	if !errors.As(err, &invalid) || invalid.Field != "cvv" {
		t.Fatalf("expected cvv validation error, got %v", err)
	}
	if f.processor.calls != 0 {
		t.Errorf("gateway should not be reached")
	}
}

func TestSubmitChargesSessionPrice(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()
	session := f.toPayment(t)

	details := card()
	details.Amount = 0.01
	got, created, err := f.svc.Submit(ctx, alice, session.ID, details)
	var invalid *payment.ValidationError
	if !errors.As(err, &invalid) || invalid.Field != "amount" {
		t.Fatalf("expected amount validation error, got %v", err)
	}
	if created != nil || f.processor.calls != 0 {
		t.Fatalf("mismatched amount must not reach the gateway (calls=%d)", f.processor.calls)
	}
	if got.Step != models.StepPayment || got.Attempts != 1 {
		t.Errorf("unexpected session after mismatch: %+v", got)
	}

	details.Amount = 120
	_, created, err = f.svc.Submit(ctx, alice, session.ID, details)
	if err != nil {
		t.Fatalf("submit with matching amount: %v", err)
	}
	if created.PaymentAmount != 120 {
		t.Errorf("paymentAmount = %v, want 120", created.PaymentAmount)
	}
}

func TestStartRequiresPositiveAmount(t *testing.T) {
	f := newFixture(t, true)
	for _, amount := range []float64{0, -5} {
		_, err := f.svc.Start(context.Background(), alice, models.StartCheckoutRequest{ProviderID: "prov-1", Amount: amount})
		if !errors.Is(err, booking.ErrInvalidBooking) {
			t.Errorf("amount %v: expected ErrInvalidBooking, got %v", amount, err)
		}
	}
}

func TestSessionLocksAreReleased(t *testing.T) {
	f := newFixture(t, true)
	session := f.toPayment(t)
	if _, _, err := f.svc.Submit(context.Background(), alice, session.ID, card()); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if n := f.svc.locks.Len(); n != 0 {
		t.Errorf("expected no retained session locks, got %d", n)
	}
}

func TestSessionsAreOwnedByUser(t *testing.T) {
	f := newFixture(t, true)
	session := f.start(t)

	if _, err := f.svc.Get(context.Background(), bob, session.ID); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("expected ErrSessionNotFound for another user, got %v", err)
	}
}

func TestScheduleLockedDuringPayment(t *testing.T) {
	f := newFixture(t, true)
	session := f.toPayment(t)

	_, err := f.svc.SelectSchedule(context.Background(), alice, session.ID, models.ScheduleSelection{Date: "2025-08-01", Time: "10:00"})
	var stepErr *StepError
	if !errors.As(err, &stepErr) {
		t.Fatalf("expected StepError, got %v", err)
	}
}

func TestMemorySessionStoreExpiry(t *testing.T) {
	store := NewMemorySessionStore(time.Minute)
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	ctx := context.Background()
	if err := store.Save(ctx, &models.CheckoutSession{ID: "s1"}); err != nil {
		t.Fatalf("save: %v", err)
	}
	if _, err := store.Get(ctx, "s1"); err != nil {
		t.Fatalf("get before expiry: %v", err)
	}

	now = now.Add(2 * time.Minute)
	if _, err := store.Get(ctx, "s1"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("expected expired session, got %v", err)
	}
}
