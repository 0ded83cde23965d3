package reviewRepo

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"ecofix/models"

	"github.com/supabase-community/postgrest-go"
	supa "github.com/supabase-community/supabase-go"
)

const (
	supabaseReviewTable = "reviews"
	pgUniqueViolation   = "23505"
)

type reviewRow struct {
	ID         string    `json:"id"`
	BookingID  string    `json:"booking_id"`
	UserID     string    `json:"user_id"`
	UserName   string    `json:"user_name"`
	UserAvatar string    `json:"user_avatar,omitempty"`
	ProviderID string    `json:"provider_id"`
	Rating     int       `json:"rating"`
	Comment    string    `json:"comment,omitempty"`
	Date       time.Time `json:"date"`
}

func (row reviewRow) toModel() models.Review {
	return models.Review{
		ID:         row.ID,
		BookingID:  row.BookingID,
		UserID:     row.UserID,
		UserName:   row.UserName,
		UserAvatar: row.UserAvatar,
		ProviderID: row.ProviderID,
		Rating:     row.Rating,
		Comment:    row.Comment,
		Date:       row.Date,
	}
}

// SupabaseReviewRepo stores reviews in a Supabase (PostgREST) table.
type SupabaseReviewRepo struct {
	client *supa.Client
}

func NewSupabaseReviewRepo(client *supa.Client) *SupabaseReviewRepo {
	return &SupabaseReviewRepo{client: client}
}

func (r *SupabaseReviewRepo) Create(ctx context.Context, review *models.Review) error {
	if _, err := r.GetByBookingID(ctx, review.BookingID); err == nil {
		return ErrDuplicate
	}
	row := reviewRow{
		ID:         review.ID,
		BookingID:  review.BookingID,
		UserID:     review.UserID,
		UserName:   review.UserName,
		UserAvatar: review.UserAvatar,
		ProviderID: review.ProviderID,
		Rating:     review.Rating,
		Comment:    review.Comment,
		Date:       review.Date,
	}
	if _, _, err := r.client.From(supabaseReviewTable).Insert(row, false, "", "", "").Execute(); err != nil {
		// A concurrent submit can pass the lookup above and lose on the unique index.
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("error creating review: %w", err)
	}
	return nil
}

func (r *SupabaseReviewRepo) ListByProvider(_ context.Context, providerID string) ([]models.Review, error) {
	data, _, err := r.client.From(supabaseReviewTable).
		Select("*", "", false).
		Eq("provider_id", providerID).
		Order("date", &postgrest.OrderOpts{Ascending: true}).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("error fetching reviews: %w", err)
	}
	return decodeReviewRows(data)
}

func (r *SupabaseReviewRepo) GetByBookingID(_ context.Context, bookingID string) (*models.Review, error) {
	data, _, err := r.client.From(supabaseReviewTable).
		Select("*", "", false).
		Eq("booking_id", bookingID).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("error fetching review for booking %s: %w", bookingID, err)
	}
	reviews, err := decodeReviewRows(data)
	if err != nil {
		return nil, err
	}
	if len(reviews) == 0 {
		return nil, ErrNotFound
	}
	return &reviews[0], nil
}

// isUniqueViolation matches PostgREST's "(23505) ..." error text.
func isUniqueViolation(err error) bool {
	return strings.HasPrefix(err.Error(), "("+pgUniqueViolation+")")
}

func decodeReviewRows(data []byte) ([]models.Review, error) {
	var rows []reviewRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("error decoding reviews: %w", err)
	}
	reviews := make([]models.Review, 0, len(rows))
	for _, row := range rows {
		reviews = append(reviews, row.toModel())
	}
	return reviews, nil
}
