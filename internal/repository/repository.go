package repository

import (
	"context"

	"github.com/jith101/Back-End-Developer-Assignment/internal/domain"
)

// ProductFilter defines filter criteria for listing products.
type ProductFilter struct {
	// Search matches a case-insensitive substring of the product name.
	Search string
}

// ProductRepository defines the interface for product persistence operations.
type ProductRepository interface {
	// Create inserts a new product into the store.
	Create(ctx context.Context, product *domain.Product) error

	// GetByID retrieves a product and its creator by its unique identifier.
	GetByID(ctx context.Context, id string) (*domain.Product, error)

	// List returns every product matching the filter, newest first.
	List(ctx context.Context, filter ProductFilter) ([]domain.Product, error)

	// Update modifies an existing product in the store.
	Update(ctx context.Context, product *domain.Product) error

	// Delete removes a product and, by cascade, its reviews.
	Delete(ctx context.Context, id string) error
}

// ReviewRepository defines the interface for review persistence operations.
type ReviewRepository interface {
	// CreateIfAbsent inserts the review unless the user already reviewed the
	// product. It reports false, without error, when a review already existed.
	CreateIfAbsent(ctx context.Context, review *domain.Review) (bool, error)

	// GetByID retrieves a review and its author by its unique identifier.
	GetByID(ctx context.Context, id string) (*domain.Review, error)

	// ExistsForUser reports whether the user has reviewed the product.
	ExistsForUser(ctx context.Context, productID, userID string) (bool, error)

	// ListByProduct returns every review of a product, newest first.
	ListByProduct(ctx context.Context, productID string) ([]domain.Review, error)

	// ListByProductPage returns one window of a product's reviews, newest
	// first, along with the total count.
	ListByProductPage(ctx context.Context, productID string, limit, offset int) ([]domain.Review, int, error)

	// Update modifies the rating and comment of an existing review.
	Update(ctx context.Context, review *domain.Review) error

	// Delete removes a review by its identifier.
	Delete(ctx context.Context, id string) error

	// RatingHistogram returns the number of reviews per rating for a product.
	RatingHistogram(ctx context.Context, productID string) (map[int]int, error)

	// RatingHistograms returns RatingHistogram for several products in one
	// round trip, keyed by product id. Products without reviews are absent.
	RatingHistograms(ctx context.Context, productIDs []string) (map[string]map[int]int, error)
}

// UserRepository defines the interface for account persistence operations.
type UserRepository interface {
	// Create inserts a new user into the store.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by its unique identifier.
	GetByID(ctx context.Context, id string) (*domain.User, error)

	// GetByEmail retrieves a user by email, compared case-insensitively.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// Update modifies the profile fields of an existing user.
	Update(ctx context.Context, user *domain.User) error
}
