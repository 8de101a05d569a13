package event

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jith101/Back-End-Developer-Assignment/internal/domain"
	pkgkafka "github.com/jith101/Back-End-Developer-Assignment/pkg/kafka"
	"github.com/jith101/Back-End-Developer-Assignment/pkg/logger"
)

// Kafka topics for product and review domain events.
const (
	TopicProductCreated = "product.created"
	TopicProductUpdated = "product.updated"
	TopicProductDeleted = "product.deleted"
	TopicReviewCreated  = "review.created"
	TopicReviewUpdated  = "review.updated"
	TopicReviewDeleted  = "review.deleted"
)

// Aggregate types.
const (
	AggregateTypeProduct = "product"
	AggregateTypeReview  = "review"
)

// Source identifies events originating from this service.
const Source = "review-service"

// ProductData is the payload for product.created and product.updated.
type ProductData struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       string  `json:"price"`
	CreatedBy   *string `json:"created_by"`
}

// ReviewData is the payload for review.* events.
type ReviewData struct {
	ID        string `json:"id"`
	ProductID string `json:"product_id"`
	UserID    string `json:"user_id"`
	Rating    int    `json:"rating"`
}

// DeletedData is the payload for product.deleted.
type DeletedData struct {
	ID string `json:"id"`
}

// Publisher is the broker side of the producer.
type Publisher interface {
	Publish(ctx context.Context, topic string, event *pkgkafka.Event) error
}

// Producer publishes product and review domain events.
type Producer struct {
	kafka  Publisher
	logger *slog.Logger
}

// NewProducer creates a new domain event producer.
func NewProducer(kafka Publisher, logger *slog.Logger) *Producer {
	return &Producer{
		kafka:  kafka,
		logger: logger,
	}
}

// PublishProductCreated publishes a product.created event.
func (p *Producer) PublishProductCreated(ctx context.Context, actor domain.Actor, product *domain.Product) error {
	return p.publish(ctx, actor, TopicProductCreated, product.ID, AggregateTypeProduct, productData(product))
}

// PublishProductUpdated publishes a product.updated event.
func (p *Producer) PublishProductUpdated(ctx context.Context, actor domain.Actor, product *domain.Product) error {
	return p.publish(ctx, actor, TopicProductUpdated, product.ID, AggregateTypeProduct, productData(product))
}

// PublishProductDeleted publishes a product.deleted event. Consumers infer the
// removal of the product's reviews from it.
func (p *Producer) PublishProductDeleted(ctx context.Context, actor domain.Actor, id string) error {
	return p.publish(ctx, actor, TopicProductDeleted, id, AggregateTypeProduct, DeletedData{ID: id})
}

// PublishReviewCreated publishes a review.created event.
func (p *Producer) PublishReviewCreated(ctx context.Context, actor domain.Actor, review *domain.Review) error {
	return p.publish(ctx, actor, TopicReviewCreated, review.ID, AggregateTypeReview, reviewData(review))
}

// PublishReviewUpdated publishes a review.updated event.
func (p *Producer) PublishReviewUpdated(ctx context.Context, actor domain.Actor, review *domain.Review) error {
	return p.publish(ctx, actor, TopicReviewUpdated, review.ID, AggregateTypeReview, reviewData(review))
}

// PublishReviewDeleted publishes a review.deleted event.
func (p *Producer) PublishReviewDeleted(ctx context.Context, actor domain.Actor, review *domain.Review) error {
	return p.publish(ctx, actor, TopicReviewDeleted, review.ID, AggregateTypeReview, reviewData(review))
}

func (p *Producer) publish(ctx context.Context, actor domain.Actor, topic, aggregateID, aggregateType string, data any) error {
	event, err := pkgkafka.NewEvent(topic, aggregateID, aggregateType, Source, data)
	if err != nil {
		return fmt.Errorf("create %s event: %w", topic, err)
	}
	event.WithCorrelationID(logger.CorrelationIDFromContext(ctx)).WithActor(actor.UserID)

	if err := p.kafka.Publish(ctx, topic, event); err != nil {
		return fmt.Errorf("publish %s event: %w", topic, err)
	}

	p.logger.DebugContext(ctx, "published "+topic+" event",
		slog.String("aggregate_id", aggregateID),
	)

	return nil
}

func productData(p *domain.Product) ProductData {
	return ProductData{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       domain.FormatPrice(p.Price),
		CreatedBy:   p.CreatedBy,
	}
}

func reviewData(r *domain.Review) ReviewData {
	return ReviewData{
		ID:        r.ID,
		ProductID: r.ProductID,
		UserID:    r.UserID,
		Rating:    r.Rating,
	}
}

// Noop discards every event. It stands in for Producer when events are disabled.
type Noop struct{}

func (Noop) PublishProductCreated(context.Context, domain.Actor, *domain.Product) error { return nil }
func (Noop) PublishProductUpdated(context.Context, domain.Actor, *domain.Product) error { return nil }
func (Noop) PublishProductDeleted(context.Context, domain.Actor, string) error          { return nil }
func (Noop) PublishReviewCreated(context.Context, domain.Actor, *domain.Review) error   { return nil }
func (Noop) PublishReviewUpdated(context.Context, domain.Actor, *domain.Review) error   { return nil }
func (Noop) PublishReviewDeleted(context.Context, domain.Actor, *domain.Review) error   { return nil }
