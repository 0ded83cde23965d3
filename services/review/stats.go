package review

import "ecofix/models"

// ComputeStats returns the mean rating; the average is 0 when there are no reviews.
func ComputeStats(reviews []models.Review) models.ReviewStats {
	if len(reviews) == 0 {
		return models.ReviewStats{AverageRating: 0, TotalReviews: 0}
	}
	sum := 0
	for _, r := range reviews {
		sum += r.Rating
	}
	return models.ReviewStats{
		AverageRating: float64(sum) / float64(len(reviews)),
		TotalReviews:  len(reviews),
	}
}

// RatingDistribution builds the five-bar histogram, 5 stars first.
func RatingDistribution(reviews []models.Review) []models.RatingBucket {
	var counts [6]int
	for _, r := range reviews {
		if r.Rating >= 1 && r.Rating <= 5 {
			counts[r.Rating]++
		}
	}

	buckets := make([]models.RatingBucket, 0, 5)
	for stars := 5; stars >= 1; stars-- {
		b := models.RatingBucket{Stars: stars, Count: counts[stars]}
		if len(reviews) > 0 {
			b.Percentage = float64(counts[stars]) / float64(len(reviews)) * 100
		}
		buckets = append(buckets, b)
	}
	return buckets
}
