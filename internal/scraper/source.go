package scraper

import (
	"context"

	"github.com/utafrali/reviewhub/internal/domain"
)

// Source produces raw review records and optional product metadata for a
// product. Implementations wrap an upstream commerce API or, in development,
// a deterministic mock.
type Source interface {
	// Name identifies the source for logging.
	Name() string

	// FetchReviews returns the current raw review batch for the product.
	FetchReviews(ctx context.Context, productID string) ([]domain.RawReview, error)

	// FetchProductMetadata returns richer product metadata when the upstream
	// exposes it, or (nil, nil) when it does not.
	FetchProductMetadata(ctx context.Context, productID string) (*domain.ProductMetadata, error)
}
