package repository

import (
	"context"
	"time"

	"github.com/utafrali/reviewhub/internal/domain"
)

// StatusUpdate describes a moderation change applied to one review.
// FlagReason semantics follow the moderation API: nil leaves the stored
// reason untouched, a pointer to the empty string clears it, and any other
// value replaces it.
type StatusUpdate struct {
	Status     domain.ReviewStatus
	FlagReason *string
}

// ReviewRepository defines persistence operations for scraped reviews.
type ReviewRepository interface {
	// Upsert inserts a review or refreshes the mutable fields of the row with
	// the same (product_id, source, review_id) key in a single atomic
	// statement. Returns true when a new row was inserted, false on refresh.
	Upsert(ctx context.Context, review *domain.Review) (bool, error)

	// ListByProduct returns a product's reviews newest first with the total count.
	ListByProduct(ctx context.Context, productID string, page, perPage int) ([]domain.Review, int, error)

	// ListForModeration returns flagged and pending reviews across all
	// products, most recently fetched first.
	ListForModeration(ctx context.Context, limit int) ([]domain.Review, error)

	// SetStatus applies a moderation change and stamps last_moderated_at.
	// Returns false (and no error) when the key has no row.
	SetStatus(ctx context.Context, key domain.ReviewKey, update StatusUpdate, moderatedAt time.Time) (bool, error)

	// IncrementReaction atomically increments one reaction counter and
	// returns both counters. Returns ErrNotFound when the key has no row.
	IncrementReaction(ctx context.Context, key domain.ReviewKey, action domain.ReactionAction) (*domain.ReactionCounts, error)

	// OverallStats returns count/min/max/mean over non-rejected reviews.
	OverallStats(ctx context.Context, productID string) (domain.OverallStats, error)

	// SourceStats returns the per-source breakdown over non-rejected reviews.
	SourceStats(ctx context.Context, productID string) ([]domain.SourceStats, error)

	// RatingHistogram returns counts per rating 1..5 across all statuses.
	// Buckets with no reviews are present with value 0.
	RatingHistogram(ctx context.Context, productID string) (map[int]int, error)

	// StatusCounts returns counts per status, zero-filled for absent statuses.
	StatusCounts(ctx context.Context, productID string) (map[domain.ReviewStatus]int, error)

	// Trend returns per-day review stats for non-rejected reviews whose
	// authored date (fetched date when the review carries none) falls in
	// [since, until). Days without reviews are omitted.
	Trend(ctx context.Context, productID string, since, until time.Time) ([]domain.TrendPoint, error)

	// DistinctProductIDs returns every product id that has at least one
	// review, used to bootstrap the catalog listing.
	DistinctProductIDs(ctx context.Context) ([]string, error)
}

// ProductRepository defines persistence operations for the product catalog.
type ProductRepository interface {
	// Upsert inserts the product or overwrites its mutable fields, bumping
	// updated_at.
	Upsert(ctx context.Context, product *domain.Product) error

	// GetByID retrieves a product by its slug identifier.
	GetByID(ctx context.Context, id string) (*domain.Product, error)

	// ListActive returns active products, most recently created first.
	ListActive(ctx context.Context) ([]domain.Product, error)

	// Delete removes the product row. With cascade, the product's reviews are
	// removed in the same transaction; the count of deleted reviews is
	// returned. Returns ErrNotFound when no product row exists.
	Delete(ctx context.Context, id string, cascade bool) (int, error)
}
