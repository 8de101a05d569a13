package domain

import (
	"time"

	apperrors "github.com/jith101/Back-End-Developer-Assignment/pkg/errors"
)

// Rating bounds, inclusive.
const (
	MinRating = 1
	MaxRating = 5
)

// MsgDuplicateReview is returned whenever a second review for the same
// (product, user) pair is refused.
const MsgDuplicateReview = "You have already reviewed this product."

// Review is a single rating and optional comment left by a regular user on a product.
type Review struct {
	ID        string
	ProductID string
	UserID    string
	Rating    int
	Comment   string
	Author    *UserSummary
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ValidateRating rejects ratings outside [MinRating, MaxRating].
func ValidateRating(rating int) error {
	if rating < MinRating || rating > MaxRating {
		return apperrors.InvalidField("rating", "Rating must be between 1 and 5.")
	}
	return nil
}

// Validate enforces the review invariants that hold on every write path.
func (r *Review) Validate() error {
	if r.ProductID == "" {
		return apperrors.InvalidField("product", "This field is required.")
	}
	if r.UserID == "" {
		return apperrors.InvalidField("user", "This field is required.")
	}
	return ValidateRating(r.Rating)
}

// WrittenBy reports whether the review was authored by the actor.
func (r *Review) WrittenBy(a Actor) bool {
	return a.Is(r.UserID)
}
