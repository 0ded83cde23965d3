package reviewRepo

import (
	"context"
	"errors"

	"ecofix/models"

	"gorm.io/gorm"
)

// GormReviewRepo implements ReviewRepository through GORM.
type GormReviewRepo struct {
	db *gorm.DB
}

func NewGormReviewRepo(db *gorm.DB) *GormReviewRepo {
	return &GormReviewRepo{db: db}
}

// Migrate creates or updates the reviews table and its unique booking index.
func (r *GormReviewRepo) Migrate() error {
	return r.db.AutoMigrate(&models.Review{})
}

// Create relies on the unique booking index. The *gorm.DB must be opened with
// TranslateError so a violation surfaces as gorm.ErrDuplicatedKey.
func (r *GormReviewRepo) Create(ctx context.Context, review *models.Review) error {
	err := r.db.WithContext(ctx).Create(review).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicate
	}
	return err
}

func (r *GormReviewRepo) ListByProvider(ctx context.Context, providerID string) ([]models.Review, error) {
	reviews := make([]models.Review, 0)
	err := r.db.WithContext(ctx).
		Where("provider_id = ?", providerID).
		Order("date ASC").
		Find(&reviews).Error
	if err != nil {
		return nil, err
	}
	return reviews, nil
}

func (r *GormReviewRepo) GetByBookingID(ctx context.Context, bookingID string) (*models.Review, error) {
	var review models.Review
	err := r.db.WithContext(ctx).First(&review, "booking_id = ?", bookingID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &review, nil
}
