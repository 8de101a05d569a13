package service

import (
	"context"

	"github.com/jith101/Back-End-Developer-Assignment/internal/domain"
)

// EventPublisher publishes domain events after a write has committed. Publish
// failures are logged by the services and never fail the operation.
type EventPublisher interface {
	PublishProductCreated(ctx context.Context, actor domain.Actor, product *domain.Product) error
	PublishProductUpdated(ctx context.Context, actor domain.Actor, product *domain.Product) error
	PublishProductDeleted(ctx context.Context, actor domain.Actor, id string) error
	PublishReviewCreated(ctx context.Context, actor domain.Actor, review *domain.Review) error
	PublishReviewUpdated(ctx context.Context, actor domain.Actor, review *domain.Review) error
	PublishReviewDeleted(ctx context.Context, actor domain.Actor, review *domain.Review) error
}
