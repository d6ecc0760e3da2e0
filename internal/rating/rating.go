// Package rating recomputes the review aggregate stored on a product.
package rating

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Summary struct {
	Average float64 `json:"rating"`
	Count   int     `json:"reviewCount"`
}

// Aggregate returns the mean rounded to one decimal and the count.
// An empty set yields the zero summary.
func Aggregate(ratings []int) Summary {
	if len(ratings) == 0 {
		return Summary{}
	}
	var sum int64
	for _, r := range ratings {
		sum += int64(r)
	}
	avg, _ := decimal.NewFromInt(sum).
		Div(decimal.NewFromInt(int64(len(ratings)))).
		Round(1).
		Float64()
	return Summary{Average: avg, Count: len(ratings)}
}

type Store interface {
	ProductRatings(ctx context.Context, productID uuid.UUID) ([]int, error)
	SetRating(ctx context.Context, productID uuid.UUID, rating float64, count int) error
}

// Sync reads every rating of the product and writes the aggregate back.
func Sync(ctx context.Context, s Store, productID uuid.UUID) (Summary, error) {
	ratings, err := s.ProductRatings(ctx, productID)
	if err != nil {
		return Summary{}, fmt.Errorf("load ratings: %w", err)
	}
	sum := Aggregate(ratings)
	if err := s.SetRating(ctx, productID, sum.Average, sum.Count); err != nil {
		return Summary{}, fmt.Errorf("store rating: %w", err)
	}
	return sum, nil
}
