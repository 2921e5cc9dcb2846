package postgres

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/utafrali/reviewhub/internal/domain"
	"github.com/utafrali/reviewhub/internal/repository"
	"github.com/utafrali/reviewhub/pkg/database"
	apperrors "github.com/utafrali/reviewhub/pkg/errors"
)

// ReviewRepository implements repository.ReviewRepository using PostgreSQL.
type ReviewRepository struct {
	pool database.DBTX
}

// NewReviewRepository creates a new PostgreSQL-backed review repository.
func NewReviewRepository(pool database.DBTX) *ReviewRepository {
	return &ReviewRepository{pool: pool}
}

// Upsert inserts a review or refreshes the existing row for the same
// composite key. The insert-or-update is a single conditional statement, so
// two concurrent ingestions of the same key cannot create two rows or lose a
// refresh; xmax = 0 distinguishes a fresh insert from an updated row.
// created_at is written once and never touched on refresh, and reaction
// counters never move backwards.
func (r *ReviewRepository) Upsert(ctx context.Context, rv *domain.Review) (bool, error) {
	query := `
		INSERT INTO reviews (product_id, source, review_id, author, rating, title, body,
		                     created_at, fetched_at, status, flag_reason, like_count, dislike_count)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (product_id, source, review_id) DO UPDATE SET
			author        = EXCLUDED.author,
			rating        = EXCLUDED.rating,
			title         = EXCLUDED.title,
			body          = EXCLUDED.body,
			fetched_at    = EXCLUDED.fetched_at,
			status        = EXCLUDED.status,
			flag_reason   = EXCLUDED.flag_reason,
			like_count    = GREATEST(reviews.like_count, EXCLUDED.like_count),
			dislike_count = GREATEST(reviews.dislike_count, EXCLUDED.dislike_count)
		RETURNING (xmax = 0) AS inserted`

	var inserted bool
	err := r.pool.QueryRow(ctx, query,
		rv.ProductID,
		rv.Source,
		rv.ReviewID,
		rv.Author,
		rv.Rating,
		rv.Title,
		rv.Body,
		rv.CreatedAt,
		rv.FetchedAt,
		rv.Status,
		rv.FlagReason,
		rv.LikeCount,
		rv.DislikeCount,
	).Scan(&inserted)
	if err != nil {
		return false, fmt.Errorf("upsert review: %w", err)
	}

	return inserted, nil
}

const reviewColumns = `product_id, source, review_id, author, rating, title, body,
	       created_at, fetched_at, status, flag_reason, like_count, dislike_count, last_moderated_at`

// ListByProduct returns paginated reviews for a product, newest first, along
// with the total count.
func (r *ReviewRepository) ListByProduct(ctx context.Context, productID string, page, perPage int) ([]domain.Review, int, error) {
	limit := perPage
	if limit <= 0 {
		limit = 20
	}
	offset := 0
	if page > 1 {
		offset = (page - 1) * limit
	}

	query := `
		SELECT ` + reviewColumns + `,
		       count(*) OVER() AS total_count
		FROM reviews
		WHERE product_id = $1
		ORDER BY COALESCE(created_at, fetched_at) DESC
		LIMIT $2 OFFSET $3`

	rows, err := r.pool.Query(ctx, query, productID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list reviews: %w", err)
	}
	defer rows.Close()

	var (
		reviews    []domain.Review
		totalCount int
	)

	for rows.Next() {
		var rv domain.Review

		if err := rows.Scan(
			&rv.ProductID,
			&rv.Source,
			&rv.ReviewID,
			&rv.Author,
			&rv.Rating,
			&rv.Title,
			&rv.Body,
			&rv.CreatedAt,
			&rv.FetchedAt,
			&rv.Status,
			&rv.FlagReason,
			&rv.LikeCount,
			&rv.DislikeCount,
			&rv.LastModeratedAt,
			&totalCount,
		); err != nil {
			return nil, 0, fmt.Errorf("scan review row: %w", err)
		}

		reviews = append(reviews, rv)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate review rows: %w", err)
	}

	if reviews == nil {
		reviews = []domain.Review{}
	}

	return reviews, totalCount, nil
}

// ListForModeration returns flagged and pending reviews across all products,
// most recently fetched first.
func (r *ReviewRepository) ListForModeration(ctx context.Context, limit int) ([]domain.Review, error) {
	if limit <= 0 {
		limit = 300
	}

	query := `
		SELECT ` + reviewColumns + `
		FROM reviews
		WHERE status IN ('flagged', 'pending')
		ORDER BY fetched_at DESC
		LIMIT $1`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list moderation queue: %w", err)
	}
	defer rows.Close()

	var reviews []domain.Review
	for rows.Next() {
		var rv domain.Review
		if err := rows.Scan(
			&rv.ProductID,
			&rv.Source,
			&rv.ReviewID,
			&rv.Author,
			&rv.Rating,
			&rv.Title,
			&rv.Body,
			&rv.CreatedAt,
			&rv.FetchedAt,
			&rv.Status,
			&rv.FlagReason,
			&rv.LikeCount,
			&rv.DislikeCount,
			&rv.LastModeratedAt,
		); err != nil {
			return nil, fmt.Errorf("scan review row: %w", err)
		}
		reviews = append(reviews, rv)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate review rows: %w", err)
	}

	if reviews == nil {
		reviews = []domain.Review{}
	}

	return reviews, nil
}

// SetStatus applies a moderation change to one review and stamps
// last_moderated_at. A missing key is a soft miss: (false, nil).
func (r *ReviewRepository) SetStatus(ctx context.Context, key domain.ReviewKey, update repository.StatusUpdate, moderatedAt time.Time) (bool, error) {
	var (
		query string
		args  []any
	)

	if update.FlagReason == nil {
		query = `
			UPDATE reviews
			SET status = $1, last_moderated_at = $2
			WHERE product_id = $3 AND source = $4 AND review_id = $5`
		args = []any{update.Status, moderatedAt, key.ProductID, key.Source, key.ReviewID}
	} else {
		// An empty reason clears the column.
		var reason *string
		if *update.FlagReason != "" {
			reason = update.FlagReason
		}
		query = `
			UPDATE reviews
			SET status = $1, flag_reason = $2, last_moderated_at = $3
			WHERE product_id = $4 AND source = $5 AND review_id = $6`
		args = []any{update.Status, reason, moderatedAt, key.ProductID, key.Source, key.ReviewID}
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("set review status: %w", err)
	}

	return ct.RowsAffected() == 1, nil
}

// IncrementReaction atomically bumps one reaction counter and returns both.
func (r *ReviewRepository) IncrementReaction(ctx context.Context, key domain.ReviewKey, action domain.ReactionAction) (*domain.ReactionCounts, error) {
	column := "like_count"
	if action == domain.ReactionDislike {
		column = "dislike_count"
	}

	query := fmt.Sprintf(`
		UPDATE reviews
		SET %s = %s + 1
		WHERE product_id = $1 AND source = $2 AND review_id = $3
		RETURNING like_count, dislike_count`, column, column)

	var counts domain.ReactionCounts
	err := r.pool.QueryRow(ctx, query, key.ProductID, key.Source, key.ReviewID).Scan(
		&counts.LikeCount,
		&counts.DislikeCount,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("review", key.String())
		}
		return nil, fmt.Errorf("increment reaction: %w", err)
	}

	return &counts, nil
}

// OverallStats returns count, min, max, and mean rating over non-rejected
// reviews, with the mean rounded to one decimal.
func (r *ReviewRepository) OverallStats(ctx context.Context, productID string) (domain.OverallStats, error) {
	query := `
		SELECT COUNT(*),
		       COALESCE(MIN(rating), 0),
		       COALESCE(MAX(rating), 0),
		       COALESCE(AVG(rating), 0)
		FROM reviews
		WHERE product_id = $1 AND status <> 'rejected'`

	var (
		stats domain.OverallStats
		avg   float64
	)
	err := r.pool.QueryRow(ctx, query, productID).Scan(
		&stats.TotalReviews,
		&stats.MinRating,
		&stats.MaxRating,
		&avg,
	)
	if err != nil {
		return domain.OverallStats{}, fmt.Errorf("overall stats: %w", err)
	}

	stats.AverageRating = math.Round(avg*10) / 10

	return stats, nil
}

// SourceStats returns the per-source mean rating and count over non-rejected
// reviews, means rounded to one decimal.
func (r *ReviewRepository) SourceStats(ctx context.Context, productID string) ([]domain.SourceStats, error) {
	query := `
		SELECT source, AVG(rating), COUNT(*)
		FROM reviews
		WHERE product_id = $1 AND status <> 'rejected'
		GROUP BY source
		ORDER BY source`

	rows, err := r.pool.Query(ctx, query, productID)
	if err != nil {
		return nil, fmt.Errorf("source stats: %w", err)
	}
	defer rows.Close()

	var stats []domain.SourceStats
	for rows.Next() {
		var (
			s   domain.SourceStats
			avg float64
		)
		if err := rows.Scan(&s.Source, &avg, &s.ReviewCount); err != nil {
			return nil, fmt.Errorf("scan source stats row: %w", err)
		}
		s.AverageRating = math.Round(avg*10) / 10
		stats = append(stats, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate source stats rows: %w", err)
	}

	if stats == nil {
		stats = []domain.SourceStats{}
	}

	return stats, nil
}

// RatingHistogram returns a dense 1..5 histogram across all statuses,
// rejected included.
func (r *ReviewRepository) RatingHistogram(ctx context.Context, productID string) (map[int]int, error) {
	query := `
		SELECT rating, COUNT(*)
		FROM reviews
		WHERE product_id = $1
		GROUP BY rating`

	rows, err := r.pool.Query(ctx, query, productID)
	if err != nil {
		return nil, fmt.Errorf("rating histogram: %w", err)
	}
	defer rows.Close()

	hist := make(map[int]int, 5)
	for b := 1; b <= 5; b++ {
		hist[b] = 0
	}

	for rows.Next() {
		var rating, count int
		if err := rows.Scan(&rating, &count); err != nil {
			return nil, fmt.Errorf("scan histogram row: %w", err)
		}
		hist[rating] = count
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate histogram rows: %w", err)
	}

	return hist, nil
}

// StatusCounts returns per-status counts with all four statuses present.
func (r *ReviewRepository) StatusCounts(ctx context.Context, productID string) (map[domain.ReviewStatus]int, error) {
	query := `
		SELECT status, COUNT(*)
		FROM reviews
		WHERE product_id = $1
		GROUP BY status`

	rows, err := r.pool.Query(ctx, query, productID)
	if err != nil {
		return nil, fmt.Errorf("status counts: %w", err)
	}
	defer rows.Close()

	counts := make(map[domain.ReviewStatus]int, len(domain.Statuses))
	for _, s := range domain.Statuses {
		counts[s] = 0
	}

	for rows.Next() {
		var (
			status domain.ReviewStatus
			count  int
		)
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("scan status count row: %w", err)
		}
		counts[status] = count
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate status count rows: %w", err)
	}

	return counts, nil
}

// Trend returns per-day stats for non-rejected reviews authored in
// [since, until), bucketed by UTC calendar day of the authored date (fetched
// date when the review carries none). Days with no reviews produce no row.
// The upper bound keeps records with a claimed future date out of the window.
func (r *ReviewRepository) Trend(ctx context.Context, productID string, since, until time.Time) ([]domain.TrendPoint, error) {
	query := `
		SELECT (COALESCE(created_at, fetched_at) AT TIME ZONE 'UTC')::date AS day,
		       COUNT(*),
		       COUNT(*) FILTER (WHERE status = 'approved'),
		       COUNT(*) FILTER (WHERE status = 'pending'),
		       COUNT(*) FILTER (WHERE status = 'flagged'),
		       AVG(rating)
		FROM reviews
		WHERE product_id = $1
		  AND status <> 'rejected'
		  AND COALESCE(created_at, fetched_at) >= $2
		  AND COALESCE(created_at, fetched_at) < $3
		GROUP BY day
		ORDER BY day ASC`

	rows, err := r.pool.Query(ctx, query, productID, since, until)
	if err != nil {
		return nil, fmt.Errorf("trend: %w", err)
	}
	defer rows.Close()

	var trend []domain.TrendPoint
	for rows.Next() {
		var (
			p   domain.TrendPoint
			day time.Time
			avg float64
		)
		if err := rows.Scan(&day, &p.ReviewCount, &p.ApprovedCount, &p.PendingCount, &p.FlaggedCount, &avg); err != nil {
			return nil, fmt.Errorf("scan trend row: %w", err)
		}
		p.Day = day.Format("2006-01-02")
		p.AverageRating = math.Round(avg*100) / 100
		trend = append(trend, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate trend rows: %w", err)
	}

	if trend == nil {
		trend = []domain.TrendPoint{}
	}

	return trend, nil
}

// DistinctProductIDs returns every product id present in the review store.
func (r *ReviewRepository) DistinctProductIDs(ctx context.Context) ([]string, error) {
	query := `SELECT DISTINCT product_id FROM reviews ORDER BY product_id`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("distinct product ids: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan product id: %w", err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate product ids: %w", err)
	}

	return ids, nil
}
