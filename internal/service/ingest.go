package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/utafrali/reviewhub/internal/domain"
	"github.com/utafrali/reviewhub/internal/event"
	"github.com/utafrali/reviewhub/internal/repository"
	"github.com/utafrali/reviewhub/internal/scraper"
	apperrors "github.com/utafrali/reviewhub/pkg/errors"
)

// IngestResult summarizes one ingest batch. Total always equals
// Added + Skipped, which is the input batch length.
type IngestResult struct {
	Added   int `json:"added"`
	Skipped int `json:"skipped"`
	Total   int `json:"total"`
}

// IngestService implements the review ingestion pipeline: validate a raw
// batch up front, normalize each record, and upsert record by record.
type IngestService struct {
	reviews  repository.ReviewRepository
	products repository.ProductRepository
	sources  []scraper.Source
	cooldown *scraper.Cooldown
	events   *event.Producer
	logger   *slog.Logger
}

// NewIngestService creates a new ingest service. events may be nil when event
// publishing is disabled.
func NewIngestService(
	reviews repository.ReviewRepository,
	products repository.ProductRepository,
	sources []scraper.Source,
	cooldown *scraper.Cooldown,
	events *event.Producer,
	logger *slog.Logger,
) *IngestService {
	return &IngestService{
		reviews:  reviews,
		products: products,
		sources:  sources,
		cooldown: cooldown,
		events:   events,
		logger:   logger,
	}
}

// Ingest stores a batch of raw reviews for a product. The whole batch is
// validated before any write; a malformed record rejects the batch with no
// rows touched. Records are then upserted one at a time, so a record whose
// key already exists (from an earlier call or earlier in the same batch)
// counts as skipped rather than added.
func (s *IngestService) Ingest(ctx context.Context, productID string, raws []domain.RawReview) (*IngestResult, error) {
	if productID == "" {
		return nil, apperrors.InvalidInput("product_id is required")
	}
	if err := validateBatch(raws); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	result := &IngestResult{}

	for i := range raws {
		review := normalizeRaw(productID, &raws[i], now)

		inserted, err := s.reviews.Upsert(ctx, review)
		if err != nil {
			return nil, fmt.Errorf("upsert review %s: %w", review.Key(), err)
		}
		if inserted {
			result.Added++
		} else {
			result.Skipped++
		}
	}

	result.Total = result.Added + result.Skipped

	s.logger.InfoContext(ctx, "ingest batch completed",
		slog.String("product_id", productID),
		slog.Int("added", result.Added),
		slog.Int("skipped", result.Skipped),
		slog.Int("total", result.Total),
	)

	s.publishIngested(ctx, productID, result)

	return result, nil
}

// FetchAndIngest pulls fresh reviews from every configured source and ingests
// them. A per-product cooldown prevents concurrent or rapid repeated fetches;
// a fetch attempted during the cooldown window fails with a conflict.
func (s *IngestService) FetchAndIngest(ctx context.Context, productID string) (*IngestResult, error) {
	if productID == "" {
		return nil, apperrors.InvalidInput("product_id is required")
	}
	if len(s.sources) == 0 {
		return nil, apperrors.InvalidInput("no review sources configured")
	}

	acquired, err := s.cooldown.Acquire(ctx, productID)
	if err != nil {
		s.logger.WarnContext(ctx, "fetch cooldown check failed, proceeding",
			slog.String("product_id", productID),
			slog.String("error", err.Error()),
		)
	} else if !acquired {
		return nil, apperrors.Conflict("fetch for this product is on cooldown")
	}

	var raws []domain.RawReview
	var fetchErrs int
	for _, src := range s.sources {
		batch, err := src.FetchReviews(ctx, productID)
		if err != nil {
			fetchErrs++
			s.logger.WarnContext(ctx, "source fetch failed",
				slog.String("product_id", productID),
				slog.String("source", src.Name()),
				slog.String("error", err.Error()),
			)
			continue
		}
		raws = append(raws, batch...)
	}

	if fetchErrs == len(s.sources) {
		if rerr := s.cooldown.Release(ctx, productID); rerr != nil {
			s.logger.WarnContext(ctx, "failed to release fetch cooldown",
				slog.String("product_id", productID),
				slog.String("error", rerr.Error()),
			)
		}
		return nil, apperrors.Unavailable(fmt.Errorf("all %d review sources failed", len(s.sources)))
	}

	s.syncProductMetadata(ctx, productID)

	return s.Ingest(ctx, productID, raws)
}

// syncProductMetadata enriches the catalog entry from the first source that
// can describe the product. Failures are logged and never fail the fetch.
func (s *IngestService) syncProductMetadata(ctx context.Context, productID string) {
	for _, src := range s.sources {
		meta, err := src.FetchProductMetadata(ctx, productID)
		if err != nil || meta == nil {
			continue
		}

		product := &domain.Product{
			ID:        productID,
			Name:      meta.Name,
			ImageURL:  meta.ImageURL,
			SourceURL: meta.SourceURL,
			Active:    true,
		}
		if err := s.products.Upsert(ctx, product); err != nil {
			s.logger.WarnContext(ctx, "product metadata sync failed",
				slog.String("product_id", productID),
				slog.String("source", src.Name()),
				slog.String("error", err.Error()),
			)
		}
		return
	}
}

func (s *IngestService) publishIngested(ctx context.Context, productID string, result *IngestResult) {
	if s.events == nil {
		return
	}
	if err := s.events.PublishReviewIngested(ctx, productID, result.Added, result.Skipped, result.Total); err != nil {
		s.logger.WarnContext(ctx, "failed to publish review.ingested event",
			slog.String("product_id", productID),
			slog.String("error", err.Error()),
		)
	}
}

func validateBatch(raws []domain.RawReview) error {
	for i := range raws {
		r := &raws[i]
		if r.Source == "" {
			return apperrors.InvalidInput(fmt.Sprintf("review %d: source is required", i))
		}
		if r.ExternalID == "" {
			return apperrors.InvalidInput(fmt.Sprintf("review %d: external_id is required", i))
		}
		if r.Rating < 1 || r.Rating > 5 {
			return apperrors.InvalidInput(fmt.Sprintf("review %d: rating must be between 1 and 5", i))
		}
		if r.LikeCount < 0 || r.DislikeCount < 0 {
			return apperrors.InvalidInput(fmt.Sprintf("review %d: reaction counts must not be negative", i))
		}
	}
	return nil
}

// normalizeRaw maps a raw source record onto the stored review shape.
// Missing display fields get defaults; an unknown status claim coerces to
// approved rather than pre-empting local moderation.
func normalizeRaw(productID string, raw *domain.RawReview, fetchedAt time.Time) *domain.Review {
	author := raw.ReviewerName
	if author == "" {
		author = "Anonymous"
	}
	title := raw.Title
	if title == "" {
		title = "Review"
	}

	return &domain.Review{
		ProductID:    productID,
		Source:       raw.Source,
		ReviewID:     raw.ExternalID,
		Author:       author,
		Rating:       raw.Rating,
		Title:        title,
		Body:         raw.Content,
		CreatedAt:    raw.ReviewDate,
		FetchedAt:    fetchedAt,
		Status:       domain.ParseStatus(raw.Status),
		FlagReason:   raw.FlagReason,
		LikeCount:    raw.LikeCount,
		DislikeCount: raw.DislikeCount,
	}
}
