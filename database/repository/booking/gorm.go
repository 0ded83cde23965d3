package bookingRepo

import (
	"context"
	"errors"

	"ecofix/models"

	"gorm.io/gorm"
)

// GormBookingRepo implements BookingRepository on a SQL database through GORM.
type GormBookingRepo struct {
	db *gorm.DB
}

func NewGormBookingRepo(db *gorm.DB) *GormBookingRepo {
	return &GormBookingRepo{db: db}
}

// Migrate creates or updates the bookings table.
func (r *GormBookingRepo) Migrate() error {
	return r.db.AutoMigrate(&models.Booking{})
}

func (r *GormBookingRepo) Create(ctx context.Context, booking *models.Booking) error {
	return r.db.WithContext(ctx).Create(booking).Error
}

func (r *GormBookingRepo) GetByID(ctx context.Context, id string) (*models.Booking, error) {
	var b models.Booking
	err := r.db.WithContext(ctx).First(&b, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *GormBookingRepo) ListByUser(ctx context.Context, userID string) ([]models.Booking, error) {
	return r.list(ctx, "user_id = ?", userID)
}

func (r *GormBookingRepo) ListByProvider(ctx context.Context, providerID string) ([]models.Booking, error) {
	return r.list(ctx, "provider_id = ?", providerID)
}

func (r *GormBookingRepo) Update(ctx context.Context, booking *models.Booking) error {
	res := r.db.WithContext(ctx).
		Model(&models.Booking{}).
		Where("id = ?", booking.ID).
		Select("*").
		Updates(booking)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *GormBookingRepo) list(ctx context.Context, query string, arg string) ([]models.Booking, error) {
	bookings := make([]models.Booking, 0)
	err := r.db.WithContext(ctx).
		Where(query, arg).
		Order("created_at ASC").
		Find(&bookings).Error
	if err != nil {
		return nil, err
	}
	return bookings, nil
}
