package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/utafrali/reviewhub/internal/domain"
	"github.com/utafrali/reviewhub/internal/repository"
	apperrors "github.com/utafrali/reviewhub/pkg/errors"
)

// ReviewListResult contains one page of a product's reviews.
type ReviewListResult struct {
	Reviews    []domain.Review `json:"reviews"`
	TotalCount int             `json:"total_count"`
	Page       int             `json:"page"`
	PerPage    int             `json:"per_page"`
	TotalPages int             `json:"total_pages"`
}

// ReviewService implements read access to stored reviews.
type ReviewService struct {
	reviews repository.ReviewRepository
	logger  *slog.Logger
}

// NewReviewService creates a new review query service.
func NewReviewService(reviews repository.ReviewRepository, logger *slog.Logger) *ReviewService {
	return &ReviewService{
		reviews: reviews,
		logger:  logger,
	}
}

// ListReviews returns a page of the product's reviews, newest first. Reviews
// remain queryable by product id even when the catalog has no entry for it.
func (s *ReviewService) ListReviews(ctx context.Context, productID string, page, perPage int) (*ReviewListResult, error) {
	if productID == "" {
		return nil, apperrors.InvalidInput("product_id is required")
	}
	if page <= 0 {
		page = 1
	}
	if perPage <= 0 {
		perPage = 20
	}
	if perPage > 100 {
		perPage = 100
	}

	reviews, total, err := s.reviews.ListByProduct(ctx, productID, page, perPage)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	if reviews == nil {
		reviews = []domain.Review{}
	}

	totalPages := total / perPage
	if total%perPage > 0 {
		totalPages++
	}

	return &ReviewListResult{
		Reviews:    reviews,
		TotalCount: total,
		Page:       page,
		PerPage:    perPage,
		TotalPages: totalPages,
	}, nil
}
