package models

import "time"

// Review is a homeowner's rating of a provider after a completed booking.
type Review struct {
	ID         string    `bson:"id" json:"id" gorm:"primaryKey;type:varchar(64)"`
	BookingID  string    `bson:"bookingId" json:"bookingId" gorm:"type:varchar(64);not null;uniqueIndex"`
	UserID     string    `bson:"userId" json:"userId" gorm:"type:varchar(64);not null"`
	UserName   string    `bson:"userName" json:"userName"`
	UserAvatar string    `bson:"userAvatar,omitempty" json:"userAvatar,omitempty"`
	ProviderID string    `bson:"providerId" json:"providerId" gorm:"type:varchar(64);not null;index"`
	Rating     int       `bson:"rating" json:"rating" gorm:"not null"` // 1..5
	Comment    string    `bson:"comment,omitempty" json:"comment,omitempty" gorm:"type:text"`
	Date       time.Time `bson:"date" json:"date" gorm:"index"`
}

// ReviewSubmission is the payload of the review dialog.
type ReviewSubmission struct {
	BookingID  string `json:"bookingId" binding:"required"`
	ProviderID string `json:"providerId" binding:"required"`
	UserID     string `json:"-"`
	UserName   string `json:"-"`
	UserAvatar string `json:"-"`
	Rating     int    `json:"rating"`
	Comment    string `json:"comment,omitempty"`
}

// ReviewStats is the aggregate shown next to a provider.
type ReviewStats struct {
	AverageRating float64 `json:"averageRating"`
	TotalReviews  int     `json:"totalReviews"`
}

// RatingBucket is one bar of the rating histogram.
type RatingBucket struct {
	Stars      int     `json:"stars"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// ReviewSummary bundles stats and the histogram for a provider page.
type ReviewSummary struct {
	ReviewStats
	Distribution []RatingBucket `json:"distribution"`
}
