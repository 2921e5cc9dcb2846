package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/utafrali/reviewhub/internal/domain"
	"github.com/utafrali/reviewhub/internal/repository"
	apperrors "github.com/utafrali/reviewhub/pkg/errors"
)

// trendWindowDays is the size of the trailing trend window in calendar days.
const trendWindowDays = 30

// AggregateService computes review statistics for a product. Every call
// recomputes from current rows; nothing is cached, so moderation writes are
// visible on the very next read.
type AggregateService struct {
	reviews repository.ReviewRepository
	logger  *slog.Logger
	now     func() time.Time
}

// NewAggregateService creates a new aggregation service.
func NewAggregateService(reviews repository.ReviewRepository, logger *slog.Logger) *AggregateService {
	return &AggregateService{
		reviews: reviews,
		logger:  logger,
		now:     time.Now,
	}
}

// Aggregate builds the full statistics snapshot for one product. A product
// with no reviews yields the zero-valued snapshot, never an error.
func (s *AggregateService) Aggregate(ctx context.Context, productID string) (*domain.AggregateSnapshot, error) {
	if productID == "" {
		return nil, apperrors.InvalidInput("product_id is required")
	}

	overall, err := s.reviews.OverallStats(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("overall stats: %w", err)
	}

	bySource, err := s.reviews.SourceStats(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("source stats: %w", err)
	}
	if bySource == nil {
		bySource = []domain.SourceStats{}
	}

	histogram, err := s.reviews.RatingHistogram(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("rating histogram: %w", err)
	}

	statusCounts, err := s.reviews.StatusCounts(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("status counts: %w", err)
	}

	since, until := s.trendWindow()
	trend, err := s.reviews.Trend(ctx, productID, since, until)
	if err != nil {
		return nil, fmt.Errorf("trend: %w", err)
	}
	if trend == nil {
		trend = []domain.TrendPoint{}
	}

	s.logger.DebugContext(ctx, "aggregate snapshot computed",
		slog.String("product_id", productID),
		slog.Int("total_reviews", overall.TotalReviews),
		slog.Int("trend_days", len(trend)),
	)

	return &domain.AggregateSnapshot{
		Overall:         overall,
		BySource:        bySource,
		RatingHistogram: histogram,
		StatusCounts:    statusCounts,
		Trend:           trend,
	}, nil
}

// trendWindow returns the trend bounds: UTC midnight thirty days before
// today (inclusive) up to the start of tomorrow (exclusive), so today's
// reviews are counted and claimed future dates are not.
func (s *AggregateService) trendWindow() (since, until time.Time) {
	today := s.now().UTC().Truncate(24 * time.Hour)
	return today.AddDate(0, 0, -trendWindowDays), today.AddDate(0, 0, 1)
}
