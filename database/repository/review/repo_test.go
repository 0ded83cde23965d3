package reviewRepo

import (
	"context"
	"errors"
	"testing"
	"time"

	"ecofix/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newSQLiteRepo(t *testing.T) ReviewRepository {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("db.DB(): %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	repo := NewGormReviewRepo(db)
	if err := repo.Migrate(); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return repo
}

func review(id, bookingID, providerID string, rating int, at time.Time) *models.Review {
	return &models.Review{
		ID:         id,
		BookingID:  bookingID,
		UserID:     "u1",
		UserName:   "Ada",
		ProviderID: providerID,
		Rating:     rating,
		Comment:    "Great work",
		Date:       at,
	}
}

func TestReviewRepository(t *testing.T) {
	factories := map[string]func(t *testing.T) ReviewRepository{
		"memory": func(*testing.T) ReviewRepository { return NewMemoryReviewRepo() },
		"gorm":   newSQLiteRepo,
	}

	for name, factory := range factories {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			repo := factory(t)
			base := time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)

			if err := repo.Create(ctx, review("r1", "b1", "p1", 5, base)); err != nil {
				t.Fatalf("create r1: %v", err)
			}
			if err := repo.Create(ctx, review("r2", "b2", "p1", 3, base.Add(time.Hour))); err != nil {
				t.Fatalf("create r2: %v", err)
			}
			if err := repo.Create(ctx, review("r3", "b3", "p2", 4, base)); err != nil {
				t.Fatalf("create r3: %v", err)
			}

			if err := repo.Create(ctx, review("r4", "b1", "p1", 1, base)); !errors.Is(err, ErrDuplicate) {
				t.Fatalf("expected ErrDuplicate, got %v", err)
			}

			list, err := repo.ListByProvider(ctx, "p1")
			if err != nil {
				t.Fatalf("list: %v", err)
			}
			if len(list) != 2 || list[0].ID != "r1" || list[1].ID != "r2" {
				t.Fatalf("unexpected provider reviews: %+v", list)
			}

			got, err := repo.GetByBookingID(ctx, "b3")
			if err != nil {
				t.Fatalf("get by booking: %v", err)
			}
			if got.ID != "r3" || got.Rating != 4 {
				t.Fatalf("unexpected review: %+v", got)
			}

			if _, err := repo.GetByBookingID(ctx, "nope"); !errors.Is(err, ErrNotFound) {
				t.Fatalf("expected ErrNotFound, got %v", err)
			}

			empty, err := repo.ListByProvider(ctx, "unknown")
			if err != nil || len(empty) != 0 {
				t.Fatalf("expected no reviews, got %v %v", empty, err)
			}
		})
	}
}

func TestIsUniqueViolation(t *testing.T) {
	cases := map[string]bool{
		`(23505) duplicate key value violates unique constraint "reviews_booking_id_key"`: true,
		"(42P01) relation \"reviews\" does not exist":                                     false,
		"error creating request: timeout":                                                 false,
	}
	for msg, want := range cases {
		if got := isUniqueViolation(errors.New(msg)); got != want {
			t.Errorf("isUniqueViolation(%q) = %v, want %v", msg, got, want)
		}
	}
}
