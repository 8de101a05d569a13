package domain

import "math"

// RatingStats is the aggregate of a product's review set. It is derived on
// every read and never stored.
type RatingStats struct {
	Count        int
	Sum          int
	Distribution map[int]int
}

// EmptyStats returns the aggregate of no reviews.
func EmptyStats() RatingStats {
	return RatingStats{Distribution: emptyDistribution()}
}

func emptyDistribution() map[int]int {
	d := make(map[int]int, MaxRating-MinRating+1)
	for r := MinRating; r <= MaxRating; r++ {
		d[r] = 0
	}
	return d
}

// StatsFromRatings aggregates a list of ratings.
func StatsFromRatings(ratings []int) RatingStats {
	s := EmptyStats()
	for _, r := range ratings {
		s.add(r, 1)
	}
	return s
}

// StatsFromHistogram aggregates per-rating counts as returned by a GROUP BY.
// Keys outside the rating range are ignored.
func StatsFromHistogram(hist map[int]int) RatingStats {
	s := EmptyStats()
	for r, n := range hist {
		s.add(r, n)
	}
	return s
}

func (s *RatingStats) add(rating, n int) {
	if rating < MinRating || rating > MaxRating || n <= 0 {
		return
	}
	if s.Distribution == nil {
		s.Distribution = emptyDistribution()
	}
	s.Distribution[rating] += n
	s.Count += n
	s.Sum += rating * n
}

// Average is the exact arithmetic mean of the ratings, 0 when there are none.
func (s RatingStats) Average() float64 {
	if s.Count == 0 {
		return 0
	}
	return float64(s.Sum) / float64(s.Count)
}

// DisplayAverage is Average rounded to one decimal place.
func (s RatingStats) DisplayAverage() float64 {
	return RoundRating(s.Average())
}

// RoundRating rounds to one decimal place, halves away from zero.
func RoundRating(v float64) float64 {
	return math.Round(v*10) / 10
}

// ProductStats is the statistics payload for one product.
type ProductStats struct {
	ProductID   string
	ProductName string
	RatingStats
}
