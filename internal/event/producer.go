package event

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/utafrali/reviewhub/internal/domain"
	pkgkafka "github.com/utafrali/reviewhub/pkg/kafka"
)

// Kafka topic constants for review domain events.
const (
	TopicReviewIngested      = "reviewhub.review.ingested"
	TopicReviewModerated     = "reviewhub.review.moderated"
	TopicReviewReactionAdded = "reviewhub.review.reaction_added"
	TopicProductDeleted      = "reviewhub.product.deleted"
)

// Aggregate type constants.
const (
	AggregateTypeReview  = "review"
	AggregateTypeProduct = "product"
)

// Source identifier for events originating from this service.
const SourceReviewHub = "reviewhub"

// ReviewIngestedData is the payload for a review.ingested event.
type ReviewIngestedData struct {
	ProductID string `json:"product_id"`
	Added     int    `json:"added"`
	Skipped   int    `json:"skipped"`
	Total     int    `json:"total"`
}

// ReviewModeratedData is the payload for a review.moderated event.
type ReviewModeratedData struct {
	ProductID  string  `json:"product_id"`
	Source     string  `json:"source"`
	ReviewID   string  `json:"review_id"`
	Status     string  `json:"status"`
	FlagReason *string `json:"flag_reason,omitempty"`
}

// ReviewReactionAddedData is the payload for a review.reaction_added event.
type ReviewReactionAddedData struct {
	ProductID    string `json:"product_id"`
	Source       string `json:"source"`
	ReviewID     string `json:"review_id"`
	Action       string `json:"action"`
	LikeCount    int    `json:"like_count"`
	DislikeCount int    `json:"dislike_count"`
}

// ProductDeletedData is the payload for a product.deleted event.
type ProductDeletedData struct {
	ProductID      string `json:"product_id"`
	ReviewsDeleted int    `json:"reviews_deleted"`
}

// Producer publishes review domain events to Kafka.
type Producer struct {
	kafka  *pkgkafka.Producer
	logger *slog.Logger
}

// NewProducer creates a new event producer for the review service.
func NewProducer(kafka *pkgkafka.Producer, logger *slog.Logger) *Producer {
	return &Producer{
		kafka:  kafka,
		logger: logger,
	}
}

// PublishReviewIngested publishes a review.ingested event summarizing an
// ingest batch.
func (p *Producer) PublishReviewIngested(ctx context.Context, productID string, added, skipped, total int) error {
	data := ReviewIngestedData{
		ProductID: productID,
		Added:     added,
		Skipped:   skipped,
		Total:     total,
	}

	event, err := pkgkafka.NewEvent(TopicReviewIngested, productID, AggregateTypeProduct, SourceReviewHub, data)
	if err != nil {
		return fmt.Errorf("create review.ingested event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicReviewIngested, event); err != nil {
		return fmt.Errorf("publish review.ingested event: %w", err)
	}

	p.logger.DebugContext(ctx, "published review.ingested event",
		slog.String("product_id", productID),
		slog.Int("added", added),
		slog.Int("skipped", skipped),
	)

	return nil
}

// PublishReviewModerated publishes a review.moderated event.
func (p *Producer) PublishReviewModerated(ctx context.Context, key domain.ReviewKey, status domain.ReviewStatus, flagReason *string) error {
	data := ReviewModeratedData{
		ProductID:  key.ProductID,
		Source:     key.Source,
		ReviewID:   key.ReviewID,
		Status:     string(status),
		FlagReason: flagReason,
	}

	event, err := pkgkafka.NewEvent(TopicReviewModerated, key.String(), AggregateTypeReview, SourceReviewHub, data)
	if err != nil {
		return fmt.Errorf("create review.moderated event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicReviewModerated, event); err != nil {
		return fmt.Errorf("publish review.moderated event: %w", err)
	}

	p.logger.DebugContext(ctx, "published review.moderated event",
		slog.String("review_key", key.String()),
		slog.String("status", string(status)),
	)

	return nil
}

// PublishReviewReactionAdded publishes a review.reaction_added event.
func (p *Producer) PublishReviewReactionAdded(ctx context.Context, key domain.ReviewKey, action domain.ReactionAction, counts domain.ReactionCounts) error {
	data := ReviewReactionAddedData{
		ProductID:    key.ProductID,
		Source:       key.Source,
		ReviewID:     key.ReviewID,
		Action:       string(action),
		LikeCount:    counts.LikeCount,
		DislikeCount: counts.DislikeCount,
	}

	event, err := pkgkafka.NewEvent(TopicReviewReactionAdded, key.String(), AggregateTypeReview, SourceReviewHub, data)
	if err != nil {
		return fmt.Errorf("create review.reaction_added event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicReviewReactionAdded, event); err != nil {
		return fmt.Errorf("publish review.reaction_added event: %w", err)
	}

	p.logger.DebugContext(ctx, "published review.reaction_added event",
		slog.String("review_key", key.String()),
		slog.String("action", string(action)),
	)

	return nil
}

// PublishProductDeleted publishes a product.deleted event.
func (p *Producer) PublishProductDeleted(ctx context.Context, productID string, reviewsDeleted int) error {
	data := ProductDeletedData{
		ProductID:      productID,
		ReviewsDeleted: reviewsDeleted,
	}

	event, err := pkgkafka.NewEvent(TopicProductDeleted, productID, AggregateTypeProduct, SourceReviewHub, data)
	if err != nil {
		return fmt.Errorf("create product.deleted event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicProductDeleted, event); err != nil {
		return fmt.Errorf("publish product.deleted event: %w", err)
	}

	p.logger.DebugContext(ctx, "published product.deleted event",
		slog.String("product_id", productID),
		slog.Int("reviews_deleted", reviewsDeleted),
	)

	return nil
}
