package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	bookingRepo "ecofix/database/repository/booking"
	reviewRepo "ecofix/database/repository/review"
	"ecofix/handlers"
	"ecofix/models"
	"ecofix/services/booking"
	"ecofix/services/checkout"
	"ecofix/services/notification"
	"ecofix/services/receipt"
	"ecofix/services/review"
	"ecofix/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type approvingProcessor struct{}

func (approvingProcessor) ProcessPayment(_ context.Context, _ models.PaymentDetails) (models.PaymentResult, error) {
	return models.PaymentResult{Success: true, TransactionID: "txn_route"}, nil
}

func (approvingProcessor) Refund(_ context.Context, _ string) error { return nil }

type testServer struct {
	router *gin.Engine
	tokens map[string]string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger := zap.NewNop()

	bookings, err := booking.NewDefaultBookingService(bookingRepo.NewMemoryBookingRepo(), approvingProcessor{}, logger)
	if err != nil {
		t.Fatalf("booking service: %v", err)
	}
	reviews, err := review.NewDefaultReviewService(reviewRepo.NewMemoryReviewRepo(), bookings, logger)
	if err != nil {
		t.Fatalf("review service: %v", err)
	}
	inbox := notification.NewInboxNotificationService(logger)
	wizard, err := checkout.NewDefaultCheckoutService(checkout.NewMemorySessionStore(10*time.Minute), bookings, inbox, logger)
	if err != nil {
		t.Fatalf("checkout service: %v", err)
	}

	hb := &handlers.HandlerBundle{
		Bookings:      handlers.NewBookingHandler(bookings, receipt.NewGenerator("", "usd")),
		Reviews:       handlers.NewReviewHandler(reviews),
		Payments:      handlers.NewPaymentHandler(),
		Checkout:      handlers.NewCheckoutHandler(wizard),
		Notifications: handlers.NewNotificationHandler(inbox),
	}
	r := gin.New()
	RegisterRoutes(r, hb)

	tokens := map[string]string{}
	for _, u := range []models.UserProfile{{ID: "alice", Name: "Alice"}, {ID: "bob", Name: "Bob"}} {
		token, err := utils.GenerateToken(u, time.Hour)
		if err != nil {
			t.Fatalf("token: %v", err)
		}
		tokens[u.ID] = token
	}
	return &testServer{router: r, tokens: tokens}
}

func (s *testServer) do(t *testing.T, user, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if user != "" {
		req.Header.Set("Authorization", "Bearer "+s.tokens[user])
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(w.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
	return v
}

var card = models.PaymentDetails{
	CardholderName: "Alice",
	CardNumber:     "4242424242424242",
	ExpiryDate:     "10/29",
	CVV:            "321",
	Amount:         75,
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	if w := s.do(t, "", http.MethodGet, "/health", nil); w.Code != http.StatusOK {
		t.Errorf("health status = %d", w.Code)
	}
}

func TestRequiresToken(t *testing.T) {
	s := newTestServer(t)
	if w := s.do(t, "", http.MethodGet, "/api/bookings", nil); w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestBookingLifecycle(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, "alice", http.MethodPost, "/api/bookings", models.CreateBookingRequest{
		ProviderID:     "prov-9",
		ProviderName:   "Heat Pumps Co",
		ServiceName:    "Heat pump service",
		Date:           "2025-09-10",
		Time:           "13:00",
		PaymentDetails: &card,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create status = %d body=%s", w.Code, w.Body.String())
	}
	created := decode[models.Booking](t, w)
	if created.PaymentStatus != models.PaymentPaid {
		t.Fatalf("payment status = %s", created.PaymentStatus)
	}
	base := "/api/bookings/" + created.ID

	if w := s.do(t, "bob", http.MethodGet, base, nil); w.Code != http.StatusNotFound {
		t.Errorf("other user's booking status = %d, want 404", w.Code)
	}

	list := decode[struct {
		Bookings []models.Booking `json:"bookings"`
	}](t, s.do(t, "alice", http.MethodGet, "/api/bookings?status=pending", nil))
	if len(list.Bookings) != 1 {
		t.Errorf("pending bookings = %d, want 1", len(list.Bookings))
	}
	if w := s.do(t, "alice", http.MethodGet, "/api/bookings?status=bogus", nil); w.Code != http.StatusBadRequest {
		t.Errorf("bogus status filter = %d, want 400", w.Code)
	}

	w = s.do(t, "alice", http.MethodGet, base+"/receipt", nil)
	if w.Code != http.StatusOK || !strings.HasPrefix(w.Body.String(), "%PDF") {
		t.Errorf("receipt status = %d", w.Code)
	}

	if w := s.do(t, "alice", http.MethodPost, "/api/reviews", map[string]any{"bookingId": created.ID, "providerId": "prov-9", "rating": 5}); w.Code != http.StatusConflict {
		t.Errorf("review before completion = %d, want 409", w.Code)
	}

	if w := s.do(t, "alice", http.MethodPut, base+"/complete", nil); w.Code != http.StatusOK {
		t.Fatalf("complete status = %d body=%s", w.Code, w.Body.String())
	}
	if w := s.do(t, "alice", http.MethodPut, base+"/cancel", nil); w.Code != http.StatusConflict {
		t.Errorf("cancel completed = %d, want 409", w.Code)
	}

	w = s.do(t, "alice", http.MethodPost, "/api/reviews", map[string]any{"bookingId": created.ID, "providerId": "prov-9", "rating": 4, "comment": "Quick and tidy"})
	if w.Code != http.StatusCreated {
		t.Fatalf("review status = %d body=%s", w.Code, w.Body.String())
	}
	if w := s.do(t, "alice", http.MethodPost, "/api/reviews", map[string]any{"bookingId": created.ID, "providerId": "prov-9", "rating": 5}); w.Code != http.StatusConflict {
		t.Errorf("duplicate review = %d, want 409", w.Code)
	}

	stats := decode[models.ReviewStats](t, s.do(t, "bob", http.MethodGet, "/api/providers/prov-9/reviews/stats", nil))
	if stats.TotalReviews != 1 || stats.AverageRating != 4 {
		t.Errorf("unexpected stats %+v", stats)
	}
	if w := s.do(t, "bob", http.MethodGet, base+"/review", nil); w.Code != http.StatusOK {
		t.Errorf("booking review status = %d", w.Code)
	}
}

func TestPayExistingBooking(t *testing.T) {
	s := newTestServer(t)

	created := decode[models.Booking](t, s.do(t, "alice", http.MethodPost, "/api/bookings", models.CreateBookingRequest{
		ProviderID: "prov-1", Date: "2025-09-10", Time: "09:00",
	}))
	base := "/api/bookings/" + created.ID

	if w := s.do(t, "alice", http.MethodGet, base+"/receipt", nil); w.Code != http.StatusConflict {
		t.Errorf("receipt of unpaid booking = %d, want 409", w.Code)
	}

	bad := card
	bad.CardNumber = "1234"
	if w := s.do(t, "alice", http.MethodPost, base+"/pay", bad); w.Code != http.StatusBadRequest {
		t.Errorf("invalid card = %d, want 400", w.Code)
	}

	w := s.do(t, "alice", http.MethodPost, base+"/pay", card)
	if w.Code != http.StatusOK {
		t.Fatalf("pay status = %d body=%s", w.Code, w.Body.String())
	}
	if paid := decode[models.Booking](t, w); paid.PaymentStatus != models.PaymentPaid {
		t.Errorf("payment status = %s", paid.PaymentStatus)
	}
	if w := s.do(t, "alice", http.MethodPost, base+"/pay", card); w.Code != http.StatusConflict {
		t.Errorf("second payment = %d, want 409", w.Code)
	}
}

func TestCheckoutFlow(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, "alice", http.MethodPost, "/api/checkout", models.StartCheckoutRequest{
		ProviderID: "prov-2", ProviderName: "Insulate It", ServiceName: "Loft insulation", Amount: 240,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("start status = %d body=%s", w.Code, w.Body.String())
	}
	session := decode[models.CheckoutSession](t, w)
	base := "/api/checkout/" + session.ID

	if w := s.do(t, "alice", http.MethodPost, base+"/proceed", nil); w.Code != http.StatusBadRequest {
		t.Errorf("proceed without schedule = %d, want 400", w.Code)
	}
	if w := s.do(t, "alice", http.MethodPut, base+"/schedule", models.ScheduleSelection{Date: "2025-10-01", Time: "08:00"}); w.Code != http.StatusOK {
		t.Fatalf("schedule status = %d", w.Code)
	}
	if w := s.do(t, "alice", http.MethodPost, base+"/proceed", nil); w.Code != http.StatusOK {
		t.Fatalf("proceed status = %d", w.Code)
	}

	details := card
	details.Amount = 0
	w = s.do(t, "alice", http.MethodPost, base+"/submit", details)
	if w.Code != http.StatusCreated {
		t.Fatalf("submit status = %d body=%s", w.Code, w.Body.String())
	}
	result := decode[struct {
		Session models.CheckoutSession `json:"session"`
		Booking models.Booking         `json:"booking"`
	}](t, w)
	if result.Session.Step != models.StepSuccess || result.Booking.PaymentAmount != 240 {
		t.Errorf("unexpected submit result %+v", result)
	}

	notes := decode[struct {
		Notifications []models.Notification `json:"notifications"`
	}](t, s.do(t, "alice", http.MethodGet, "/api/notifications", nil))
	if len(notes.Notifications) != 2 || notes.Notifications[0].Type != models.NotificationSuccess {
		t.Fatalf("unexpected notifications %+v", notes.Notifications)
	}
	if w := s.do(t, "alice", http.MethodPut, "/api/notifications/"+notes.Notifications[0].ID+"/read", nil); w.Code != http.StatusOK {
		t.Errorf("mark read status = %d", w.Code)
	}
	if w := s.do(t, "bob", http.MethodGet, base, nil); w.Code != http.StatusNotFound {
		t.Errorf("other user's session = %d, want 404", w.Code)
	}
}

func TestCardInfo(t *testing.T) {
	s := newTestServer(t)
	w := s.do(t, "alice", http.MethodPost, "/api/payments/card-info", map[string]string{"cardNumber": "5555555555554444"})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	info := decode[models.CardInfo](t, w)
	if info.Masked != "**** **** **** 4444" || info.Brand == "" || !info.Valid {
		t.Errorf("unexpected card info %+v", info)
	}
}

func TestProviderBookingsHideOwnerDetails(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, "alice", http.MethodPost, "/api/bookings", models.CreateBookingRequest{
		ProviderID:     "prov-9",
		ServiceName:    "Heat pump service",
		Date:           "2025-09-10",
		Time:           "13:00",
		Notes:          "gate code 4711",
		PaymentDetails: &card,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create status = %d body=%s", w.Code, w.Body.String())
	}

	w = s.do(t, "bob", http.MethodGet, "/api/providers/prov-9/bookings", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("provider bookings status = %d", w.Code)
	}
	body := w.Body.String()
	for _, leaked := range []string{"alice", "gate code 4711", "txn_route", "paymentAmount"} {
		if strings.Contains(body, leaked) {
			t.Errorf("provider listing exposes %q: %s", leaked, body)
		}
	}

	list := decode[struct {
		Bookings []models.BookingSlot `json:"bookings"`
	}](t, w)
	if len(list.Bookings) != 1 || list.Bookings[0].Date != "2025-09-10" || list.Bookings[0].Time != "13:00" {
		t.Errorf("unexpected slots: %+v", list.Bookings)
	}
}
