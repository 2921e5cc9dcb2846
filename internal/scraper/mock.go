package scraper

import (
	"context"
	"fmt"
	"time"

	"github.com/utafrali/reviewhub/internal/domain"
)

var mockSources = []string{"Amazon", "BestBuy", "Newegg"}

var mockRatingPattern = []int{5, 4, 5, 3, 4, 2, 5, 4, 3}

var mockTitles = []string{
	"Great performance",
	"Solid value",
	"Thermals could be better",
	"Excellent display",
	"Battery life ok",
	"Build quality is sturdy",
}

// MockSource generates a deterministic review batch per product so the
// pipeline can run without any upstream configured. The same product always
// yields the same batch, which keeps repeated fetches idempotent end to end.
type MockSource struct {
	reviewsPerSource int
}

// NewMockSource creates a mock review source.
func NewMockSource() *MockSource {
	return &MockSource{reviewsPerSource: 4}
}

// Name identifies the source for logging.
func (m *MockSource) Name() string { return "mock" }

// FetchReviews returns the deterministic batch for the product.
func (m *MockSource) FetchReviews(_ context.Context, productID string) ([]domain.RawReview, error) {
	seed := 0
	for _, c := range productID {
		seed += int(c)
	}

	now := time.Now().UTC()
	out := make([]domain.RawReview, 0, len(mockSources)*m.reviewsPerSource)

	rid := 1
	for _, source := range mockSources {
		for i := 0; i < m.reviewsPerSource; i++ {
			rating := mockRatingPattern[(seed+i)%len(mockRatingPattern)]
			date := now.AddDate(0, 0, -(seed+i)%28)
			out = append(out, domain.RawReview{
				Source:       source,
				ExternalID:   fmt.Sprintf("%s-%s-%d", productID, source, rid),
				ReviewerName: fmt.Sprintf("user%d", 1000+seed%100*10+i),
				Rating:       rating,
				Title:        mockTitles[(seed+i)%len(mockTitles)],
				Content:      fmt.Sprintf("Review for %s on %s. Overall rating %d stars.", productID, source, rating),
				ReviewDate:   &date,
			})
			rid++
		}
	}

	return out, nil
}

// FetchProductMetadata returns nothing: the mock has no catalog.
func (m *MockSource) FetchProductMetadata(_ context.Context, _ string) (*domain.ProductMetadata, error) {
	return nil, nil
}
