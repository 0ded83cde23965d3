package bookingRepo

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"ecofix/models"

	"github.com/supabase-community/postgrest-go"
	supa "github.com/supabase-community/supabase-go"
)

const supabaseBookingTable = "bookings"

// bookingRow mirrors the snake_case columns of the Supabase bookings table.
type bookingRow struct {
	ID            string     `json:"id"`
	UserID        string     `json:"user_id"`
	ProviderID    string     `json:"provider_id"`
	ProviderName  string     `json:"provider_name"`
	ServiceID     string     `json:"service_id,omitempty"`
	ServiceName   string     `json:"service_name"`
	Date          string     `json:"slot_date"`
	Time          string     `json:"slot_time"`
	Status        string     `json:"status"`
	Notes         string     `json:"notes,omitempty"`
	PaymentStatus string     `json:"payment_status"`
	PaymentAmount float64    `json:"payment_amount"`
	PaymentDate   *time.Time `json:"payment_date,omitempty"`
	TransactionID string     `json:"transaction_id,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

func toBookingRow(b *models.Booking) bookingRow {
	return bookingRow{
		ID:            b.ID,
		UserID:        b.UserID,
		ProviderID:    b.ProviderID,
		ProviderName:  b.ProviderName,
		ServiceID:     b.ServiceID,
		ServiceName:   b.ServiceName,
		Date:          b.Date,
		Time:          b.Time,
		Status:        string(b.Status),
		Notes:         b.Notes,
		PaymentStatus: string(b.PaymentStatus),
		PaymentAmount: b.PaymentAmount,
		PaymentDate:   b.PaymentDate,
		TransactionID: b.TransactionID,
		CreatedAt:     b.CreatedAt,
		UpdatedAt:     b.UpdatedAt,
	}
}

func (row bookingRow) toModel() models.Booking {
	return models.Booking{
		ID:            row.ID,
		UserID:        row.UserID,
		ProviderID:    row.ProviderID,
		ProviderName:  row.ProviderName,
		ServiceID:     row.ServiceID,
		ServiceName:   row.ServiceName,
		Date:          row.Date,
		Time:          row.Time,
		Status:        models.BookingStatus(row.Status),
		Notes:         row.Notes,
		PaymentStatus: models.PaymentStatus(row.PaymentStatus),
		PaymentAmount: row.PaymentAmount,
		PaymentDate:   row.PaymentDate,
		TransactionID: row.TransactionID,
		CreatedAt:     row.CreatedAt,
		UpdatedAt:     row.UpdatedAt,
	}
}

// SupabaseBookingRepo stores bookings in a Supabase (PostgREST) table.
type SupabaseBookingRepo struct {
	client *supa.Client
}

func NewSupabaseBookingRepo(client *supa.Client) *SupabaseBookingRepo {
	return &SupabaseBookingRepo{client: client}
}

func (r *SupabaseBookingRepo) Create(_ context.Context, booking *models.Booking) error {
	_, _, err := r.client.From(supabaseBookingTable).
		Insert(toBookingRow(booking), false, "", "", "").
		Execute()
	if err != nil {
		return fmt.Errorf("error creating booking: %w", err)
	}
	return nil
}

func (r *SupabaseBookingRepo) GetByID(_ context.Context, id string) (*models.Booking, error) {
	data, _, err := r.client.From(supabaseBookingTable).
		Select("*", "", false).
		Eq("id", id).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("error fetching booking %s: %w", id, err)
	}
	bookings, err := decodeBookingRows(data)
	if err != nil {
		return nil, err
	}
	if len(bookings) == 0 {
		return nil, ErrNotFound
	}
	return &bookings[0], nil
}

func (r *SupabaseBookingRepo) ListByUser(_ context.Context, userID string) ([]models.Booking, error) {
	return r.list("user_id", userID)
}

func (r *SupabaseBookingRepo) ListByProvider(_ context.Context, providerID string) ([]models.Booking, error) {
	return r.list("provider_id", providerID)
}

func (r *SupabaseBookingRepo) Update(_ context.Context, booking *models.Booking) error {
	data, _, err := r.client.From(supabaseBookingTable).
		Update(toBookingRow(booking), "representation", "").
		Eq("id", booking.ID).
		Execute()
	if err != nil {
		return fmt.Errorf("error updating booking %s: %w", booking.ID, err)
	}
	updated, err := decodeBookingRows(data)
	if err != nil {
		return err
	}
	if len(updated) == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *SupabaseBookingRepo) list(column, value string) ([]models.Booking, error) {
	data, _, err := r.client.From(supabaseBookingTable).
		Select("*", "", false).
		Eq(column, value).
		Order("created_at", &postgrest.OrderOpts{Ascending: true}).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("error fetching bookings: %w", err)
	}
	return decodeBookingRows(data)
}

func decodeBookingRows(data []byte) ([]models.Booking, error) {
	var rows []bookingRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("error decoding bookings: %w", err)
	}
	bookings := make([]models.Booking, 0, len(rows))
	for _, row := range rows {
		bookings = append(bookings, row.toModel())
	}
	return bookings, nil
}
