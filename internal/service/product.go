package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jith101/Back-End-Developer-Assignment/internal/domain"
	"github.com/jith101/Back-End-Developer-Assignment/internal/policy"
	"github.com/jith101/Back-End-Developer-Assignment/internal/repository"
	"github.com/jith101/Back-End-Developer-Assignment/pkg/pagination"
)

// ProductService implements the business logic for product operations.
type ProductService struct {
	products repository.ProductRepository
	reviews  repository.ReviewRepository
	events   EventPublisher
	metrics  *Metrics
	logger   *slog.Logger
}

// NewProductService creates a new product service.
func NewProductService(
	products repository.ProductRepository,
	reviews repository.ReviewRepository,
	events EventPublisher,
	metrics *Metrics,
	logger *slog.Logger,
) *ProductService {
	return &ProductService{
		products: products,
		reviews:  reviews,
		events:   events,
		metrics:  metrics,
		logger:   logger,
	}
}

// CreateProductInput holds the parameters for creating a product.
type CreateProductInput struct {
	Name        string
	Description string
	Price       decimal.Decimal
}

// UpdateProductInput holds the parameters for updating a product. Nil fields are left unchanged.
type UpdateProductInput struct {
	Name        *string
	Description *string
	Price       *decimal.Decimal
}

// ListProducts returns every product whose name contains search, ignoring case,
// newest first, each with its rating aggregate.
func (s *ProductService) ListProducts(ctx context.Context, search string) ([]domain.ProductSummary, error) {
	products, err := s.products.List(ctx, repository.ProductFilter{Search: search})
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}

	ids := make([]string, len(products))
	for i := range products {
		ids[i] = products[i].ID
	}

	hists, err := s.reviews.RatingHistograms(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("aggregate ratings: %w", err)
	}

	out := make([]domain.ProductSummary, len(products))
	for i, p := range products {
		out[i] = domain.ProductSummary{Product: p, Stats: domain.StatsFromHistogram(hists[p.ID])}
	}

	return out, nil
}

// CreateProduct creates a product owned by the acting admin.
func (s *ProductService) CreateProduct(ctx context.Context, actor domain.Actor, input *CreateProductInput) (*domain.ProductSummary, error) {
	if err := policy.Authorize(actor, policy.CreateProduct, nil); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	createdBy := actor.UserID
	product := &domain.Product{
		ID:          uuid.New().String(),
		Name:        strings.TrimSpace(input.Name),
		Description: input.Description,
		Price:       input.Price,
		CreatedBy:   &createdBy,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := product.Validate(); err != nil {
		return nil, err
	}

	if err := s.products.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}
	s.metrics.product(outcomeCreated)

	stored, err := s.products.GetByID(ctx, product.ID)
	if err != nil {
		return nil, fmt.Errorf("reload product: %w", err)
	}

	if err := s.events.PublishProductCreated(ctx, actor, stored); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish product.created event",
			slog.String("product_id", stored.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "product created",
		slog.String("product_id", stored.ID),
		slog.String("name", stored.Name),
	)

	return &domain.ProductSummary{Product: *stored, Stats: domain.EmptyStats()}, nil
}

// GetProduct returns a product with its rating aggregate and one page of its
// reviews, newest first. Reads are open to every actor.
func (s *ProductService) GetProduct(ctx context.Context, id string, page pagination.Params) (*domain.ProductDetail, error) {
	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}

	reviews, total, err := s.reviews.ListByProductPage(ctx, id, page.PageSize, page.Offset())
	if err != nil {
		return nil, fmt.Errorf("list product reviews: %w", err)
	}

	reviewPage, err := pagination.NewPage(reviews, total, page)
	if err != nil {
		return nil, err
	}

	stats, err := s.stats(ctx, id)
	if err != nil {
		return nil, err
	}

	return &domain.ProductDetail{Product: *product, Stats: stats, Reviews: reviewPage}, nil
}

// UpdateProduct applies the non-nil fields of input to a product.
func (s *ProductService) UpdateProduct(ctx context.Context, actor domain.Actor, id string, input *UpdateProductInput) (*domain.ProductSummary, error) {
	if err := policy.Authorize(actor, policy.UpdateProduct, nil); err != nil {
		return nil, err
	}

	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get product for update: %w", err)
	}

	if input.Name != nil {
		product.Name = strings.TrimSpace(*input.Name)
	}
	if input.Description != nil {
		product.Description = *input.Description
	}
	if input.Price != nil {
		product.Price = *input.Price
	}
	if err := product.Validate(); err != nil {
		return nil, err
	}

	if err := s.products.Update(ctx, product); err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	}
	s.metrics.product(outcomeUpdated)

	if err := s.events.PublishProductUpdated(ctx, actor, product); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish product.updated event",
			slog.String("product_id", product.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "product updated",
		slog.String("product_id", product.ID),
	)

	stats, err := s.stats(ctx, id)
	if err != nil {
		return nil, err
	}

	return &domain.ProductSummary{Product: *product, Stats: stats}, nil
}

// DeleteProduct removes a product together with all of its reviews.
func (s *ProductService) DeleteProduct(ctx context.Context, actor domain.Actor, id string) error {
	if err := policy.Authorize(actor, policy.DeleteProduct, nil); err != nil {
		return err
	}

	if err := s.products.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	s.metrics.product(outcomeDeleted)

	if err := s.events.PublishProductDeleted(ctx, actor, id); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish product.deleted event",
			slog.String("product_id", id),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "product deleted",
		slog.String("product_id", id),
	)

	return nil
}

// GetProductStats returns the rating aggregate of an existing product.
func (s *ProductService) GetProductStats(ctx context.Context, id string) (*domain.ProductStats, error) {
	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}

	stats, err := s.stats(ctx, id)
	if err != nil {
		return nil, err
	}

	return &domain.ProductStats{
		ProductID:   product.ID,
		ProductName: product.Name,
		RatingStats: stats,
	}, nil
}

func (s *ProductService) stats(ctx context.Context, productID string) (domain.RatingStats, error) {
	hist, err := s.reviews.RatingHistogram(ctx, productID)
	if err != nil {
		return domain.RatingStats{}, fmt.Errorf("aggregate ratings: %w", err)
	}
	return domain.StatsFromHistogram(hist), nil
}
