package review

import (
	"context"
	"errors"
	"fmt"
	"time"

	reviewRepo "ecofix/database/repository/review"
	"ecofix/models"
	"ecofix/services/booking"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultReviewService implements ReviewService.
type DefaultReviewService struct {
	Repo     reviewRepo.ReviewRepository
	Bookings BookingLookup
	// Cache is optional; without it stats are computed on every read.
	Cache  StatsCache
	Logger *zap.Logger
	Now    func() time.Time
}

func NewDefaultReviewService(repo reviewRepo.ReviewRepository, bookings BookingLookup, logger *zap.Logger) (*DefaultReviewService, error) {
	if repo == nil || bookings == nil {
		return nil, fmt.Errorf("review service initialization error: repository or booking lookup is nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DefaultReviewService{Repo: repo, Bookings: bookings, Logger: logger, Now: time.Now}, nil
}

// SubmitReview records a rating for a completed booking. Each booking can be reviewed once.
func (s *DefaultReviewService) SubmitReview(ctx context.Context, sub models.ReviewSubmission) (*models.Review, error) {
	if sub.Rating < 1 || sub.Rating > 5 {
		return nil, ErrInvalidRating
	}

	b, err := s.Bookings.GetBooking(ctx, sub.BookingID)
	if errors.Is(err, booking.ErrBookingNotFound) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load booking: %w", err)
	}

	switch {
	case b.UserID != sub.UserID:
		return nil, ErrNotReviewer
	case b.ProviderID != sub.ProviderID:
		return nil, ErrProviderMismatch
	case b.Status != models.BookingCompleted:
		return nil, ErrBookingNotCompleted
	}

	rv := &models.Review{
		ID:         uuid.New().String(),
		BookingID:  sub.BookingID,
		UserID:     sub.UserID,
		UserName:   sub.UserName,
		UserAvatar: sub.UserAvatar,
		ProviderID: sub.ProviderID,
		Rating:     sub.Rating,
		Comment:    sub.Comment,
		Date:       s.now(),
	}
	if err := s.Repo.Create(ctx, rv); err != nil {
		if errors.Is(err, reviewRepo.ErrDuplicate) {
			return nil, ErrDuplicateReview
		}
		return nil, fmt.Errorf("failed to save review: %w", err)
	}

	if s.Cache != nil {
		if err := s.Cache.Invalidate(ctx, rv.ProviderID); err != nil {
			s.Logger.Warn("Failed to invalidate review stats", zap.String("providerId", rv.ProviderID), zap.Error(err))
		}
	}

	s.Logger.Info("Review submitted",
		zap.String("reviewId", rv.ID),
		zap.String("bookingId", rv.BookingID),
		zap.String("providerId", rv.ProviderID),
		zap.Int("rating", rv.Rating))
	return rv, nil
}

func (s *DefaultReviewService) GetReviewsForProvider(ctx context.Context, providerID string) ([]models.Review, error) {
	reviews, err := s.Repo.ListByProvider(ctx, providerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	return reviews, nil
}

// GetReviewStats serves from the cache when possible and falls back to the repository.
func (s *DefaultReviewService) GetReviewStats(ctx context.Context, providerID string) (models.ReviewStats, error) {
	var version int64
	cacheable := false
	if s.Cache != nil {
		cached, err := s.Cache.Get(ctx, providerID)
		if err != nil {
			s.Logger.Warn("Review stats cache read failed", zap.String("providerId", providerID), zap.Error(err))
		} else if cached != nil {
			return *cached, nil
		}
		// The version is read before the reviews so a submission landing in
		// between makes the write below a no-op.
		if version, err = s.Cache.Version(ctx, providerID); err != nil {
			s.Logger.Warn("Review stats version read failed", zap.String("providerId", providerID), zap.Error(err))
		} else {
			cacheable = true
		}
	}

	reviews, err := s.GetReviewsForProvider(ctx, providerID)
	if err != nil {
		return models.ReviewStats{}, err
	}
	stats := ComputeStats(reviews)

	if cacheable {
		if err := s.Cache.Set(ctx, providerID, version, stats); err != nil {
			s.Logger.Warn("Review stats cache write failed", zap.String("providerId", providerID), zap.Error(err))
		}
	}
	return stats, nil
}

// GetReviewSummary returns stats and the rating histogram from a single read.
func (s *DefaultReviewService) GetReviewSummary(ctx context.Context, providerID string) (models.ReviewSummary, error) {
	reviews, err := s.GetReviewsForProvider(ctx, providerID)
	if err != nil {
		return models.ReviewSummary{}, err
	}
	return models.ReviewSummary{
		ReviewStats:  ComputeStats(reviews),
		Distribution: RatingDistribution(reviews),
	}, nil
}

func (s *DefaultReviewService) GetReviewForBooking(ctx context.Context, bookingID string) (*models.Review, error) {
	rv, err := s.Repo.GetByBookingID(ctx, bookingID)
	if errors.Is(err, reviewRepo.ErrNotFound) {
		return nil, ErrReviewNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch review: %w", err)
	}
	return rv, nil
}

func (s *DefaultReviewService) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}
