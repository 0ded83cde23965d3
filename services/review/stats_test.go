package review

import (
	"math"
	"math/rand"
	"testing"

	"ecofix/models"
)

func ratings(values ...int) []models.Review {
	out := make([]models.Review, 0, len(values))
	for _, v := range values {
		out = append(out, models.Review{Rating: v})
	}
	return out
}

func TestComputeStats_MatchesArithmeticMean(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for trial := 0; trial < 200; trial++ {
		n := 1 + rng.Intn(50)
		values := make([]int, n)
		sum := 0
		for i := range values {
			values[i] = 1 + rng.Intn(5)
			sum += values[i]
		}

		stats := ComputeStats(ratings(values...))
		want := float64(sum) / float64(n)
		if stats.TotalReviews != n || math.Abs(stats.AverageRating-want) > 1e-9 {
			t.Fatalf("trial %d: got %+v, want avg %.6f over %d", trial, stats, want, n)
		}
	}
}

func TestComputeStats_Empty(t *testing.T) {
	if got := ComputeStats(nil); got.AverageRating != 0 || got.TotalReviews != 0 {
		t.Fatalf("expected zero stats, got %+v", got)
	}
}

func TestRatingDistribution(t *testing.T) {
	buckets := RatingDistribution(ratings(5, 5, 4, 1))

	wantStars := []int{5, 4, 3, 2, 1}
	wantCounts := []int{2, 1, 0, 0, 1}
	wantPct := []float64{50, 25, 0, 0, 25}
	total := 0.0
	for i, b := range buckets {
		if b.Stars != wantStars[i] || b.Count != wantCounts[i] || b.Percentage != wantPct[i] {
			t.Errorf("bucket %d = %+v", i, b)
		}
		total += b.Percentage
	}
	if math.Abs(total-100) > 1e-9 {
		t.Fatalf("percentages must sum to 100, got %f", total)
	}
}

func TestRatingDistribution_Empty(t *testing.T) {
	buckets := RatingDistribution(nil)
	if len(buckets) != 5 {
		t.Fatalf("expected 5 buckets, got %d", len(buckets))
	}
	for _, b := range buckets {
		if b.Count != 0 || b.Percentage != 0 {
			t.Fatalf("empty histogram must be all zero: %+v", b)
		}
	}
}
