package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/jith101/Back-End-Developer-Assignment/internal/domain"
	"github.com/jith101/Back-End-Developer-Assignment/internal/policy"
	"github.com/jith101/Back-End-Developer-Assignment/internal/repository"
	apperrors "github.com/jith101/Back-End-Developer-Assignment/pkg/errors"
)

// CreateReviewInput holds the parameters for creating a review.
type CreateReviewInput struct {
	Rating  int
	Comment string
}

// UpdateReviewInput holds the parameters for updating a review. Nil fields are left unchanged.
type UpdateReviewInput struct {
	Rating  *int
	Comment *string
}

// ReviewService implements the business logic for review operations.
type ReviewService struct {
	reviews  repository.ReviewRepository
	products repository.ProductRepository
	events   EventPublisher
	metrics  *Metrics
	logger   *slog.Logger
}

// NewReviewService creates a new review service.
func NewReviewService(
	reviews repository.ReviewRepository,
	products repository.ProductRepository,
	events EventPublisher,
	metrics *Metrics,
	logger *slog.Logger,
) *ReviewService {
	return &ReviewService{
		reviews:  reviews,
		products: products,
		events:   events,
		metrics:  metrics,
		logger:   logger,
	}
}

// ListReviews returns every review of an existing product, newest first.
func (s *ReviewService) ListReviews(ctx context.Context, productID string) ([]domain.Review, error) {
	if _, err := s.products.GetByID(ctx, productID); err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}

	reviews, err := s.reviews.ListByProduct(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}

	return reviews, nil
}

// GetReview returns one review of a product.
func (s *ReviewService) GetReview(ctx context.Context, productID, reviewID string) (*domain.Review, error) {
	return s.find(ctx, productID, reviewID)
}

// CreateReview records the acting regular user's review of a product. A user
// has at most one review per product; a second attempt, concurrent or not, is
// a conflict.
func (s *ReviewService) CreateReview(ctx context.Context, actor domain.Actor, productID string, input *CreateReviewInput) (*domain.Review, error) {
	if err := policy.Authorize(actor, policy.CreateReview, nil); err != nil {
		return nil, err
	}
	if err := domain.ValidateRating(input.Rating); err != nil {
		return nil, err
	}

	product, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}

	exists, err := s.reviews.ExistsForUser(ctx, product.ID, actor.UserID)
	if err != nil {
		return nil, fmt.Errorf("check existing review: %w", err)
	}
	if exists {
		s.metrics.review(outcomeConflict)
		return nil, apperrors.Conflict(domain.MsgDuplicateReview)
	}

	now := time.Now().UTC()
	review := &domain.Review{
		ID:        uuid.New().String(),
		ProductID: product.ID,
		UserID:    actor.UserID,
		Rating:    input.Rating,
		Comment:   input.Comment,
		CreatedAt: now,
		UpdatedAt: now,
	}

	created, err := s.reviews.CreateIfAbsent(ctx, review)
	if err != nil {
		if apperrors.IsConflict(err) {
			s.metrics.review(outcomeConflict)
		}
		return nil, fmt.Errorf("create review: %w", err)
	}
	if !created {
		s.metrics.review(outcomeConflict)
		return nil, apperrors.Conflict(domain.MsgDuplicateReview)
	}
	s.metrics.review(outcomeCreated)

	stored, err := s.reviews.GetByID(ctx, review.ID)
	if err != nil {
		return nil, fmt.Errorf("reload review: %w", err)
	}

	if err := s.events.PublishReviewCreated(ctx, actor, stored); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish review.created event",
			slog.String("review_id", stored.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "review created",
		slog.String("review_id", stored.ID),
		slog.String("product_id", stored.ProductID),
		slog.String("user_id", stored.UserID),
		slog.Int("rating", stored.Rating),
	)

	return stored, nil
}

// UpdateReview changes the rating or comment of the actor's own review.
func (s *ReviewService) UpdateReview(ctx context.Context, actor domain.Actor, productID, reviewID string, input *UpdateReviewInput) (*domain.Review, error) {
	if err := policy.Authenticated(actor); err != nil {
		return nil, err
	}

	review, err := s.find(ctx, productID, reviewID)
	if err != nil {
		return nil, err
	}
	if err := policy.Authorize(actor, policy.UpdateReview, review); err != nil {
		return nil, err
	}

	if input.Rating != nil {
		if err := domain.ValidateRating(*input.Rating); err != nil {
			return nil, err
		}
		review.Rating = *input.Rating
	}
	if input.Comment != nil {
		review.Comment = *input.Comment
	}

	if err := s.reviews.Update(ctx, review); err != nil {
		return nil, fmt.Errorf("update review: %w", err)
	}
	s.metrics.review(outcomeUpdated)

	if err := s.events.PublishReviewUpdated(ctx, actor, review); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish review.updated event",
			slog.String("review_id", review.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "review updated",
		slog.String("review_id", review.ID),
		slog.Int("rating", review.Rating),
	)

	return review, nil
}

// DeleteReview removes the actor's own review.
func (s *ReviewService) DeleteReview(ctx context.Context, actor domain.Actor, productID, reviewID string) error {
	if err := policy.Authenticated(actor); err != nil {
		return err
	}

	review, err := s.find(ctx, productID, reviewID)
	if err != nil {
		return err
	}
	if err := policy.Authorize(actor, policy.DeleteReview, review); err != nil {
		return err
	}

	if err := s.reviews.Delete(ctx, review.ID); err != nil {
		return fmt.Errorf("delete review: %w", err)
	}
	s.metrics.review(outcomeDeleted)

	if err := s.events.PublishReviewDeleted(ctx, actor, review); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish review.deleted event",
			slog.String("review_id", review.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "review deleted",
		slog.String("review_id", review.ID),
		slog.String("product_id", review.ProductID),
	)

	return nil
}

// find loads a review addressed under a product. A review that exists under a
// different product is reported as not found.
func (s *ReviewService) find(ctx context.Context, productID, reviewID string) (*domain.Review, error) {
	review, err := s.reviews.GetByID(ctx, reviewID)
	if err != nil {
		return nil, fmt.Errorf("get review: %w", err)
	}
	if review.ProductID != productID {
		return nil, apperrors.NotFound("review", reviewID)
	}
	return review, nil
}
