package domain

// OverallStats summarizes ratings across a product's non-rejected reviews.
type OverallStats struct {
	AverageRating float64 `json:"average_rating"`
	TotalReviews  int     `json:"total_reviews"`
	MinRating     int     `json:"min_rating"`
	MaxRating     int     `json:"max_rating"`
}

// SourceStats is the per-source rating breakdown (non-rejected reviews only).
type SourceStats struct {
	Source        string  `json:"source"`
	AverageRating float64 `json:"average_rating"`
	ReviewCount   int     `json:"review_count"`
}

// TrendPoint is one calendar day in the 30-day trend. Days with no reviews
// are omitted from the trend, unlike the histogram which is always dense.
type TrendPoint struct {
	Day           string  `json:"day"`
	ReviewCount   int     `json:"review_count"`
	ApprovedCount int     `json:"approved_count"`
	PendingCount  int     `json:"pending_count"`
	FlaggedCount  int     `json:"flagged_count"`
	AverageRating float64 `json:"average_rating"`
}

// AggregateSnapshot is a derived, non-persisted summary of review statistics
// for one product at query time. It is recomputed from current rows on every
// request and never cached.
type AggregateSnapshot struct {
	Overall         OverallStats         `json:"overall"`
	BySource        []SourceStats        `json:"by_source"`
	RatingHistogram map[int]int          `json:"rating_histogram"`
	StatusCounts    map[ReviewStatus]int `json:"status_counts"`
	Trend           []TrendPoint         `json:"trend"`
}

// EmptySnapshot returns the zero-valued snapshot for a product with no
// reviews: dense zero-filled histogram and status counts, empty lists.
func EmptySnapshot() *AggregateSnapshot {
	hist := make(map[int]int, 5)
	for r := 1; r <= 5; r++ {
		hist[r] = 0
	}
	counts := make(map[ReviewStatus]int, len(Statuses))
	for _, s := range Statuses {
		counts[s] = 0
	}
	return &AggregateSnapshot{
		Overall:         OverallStats{},
		BySource:        []SourceStats{},
		RatingHistogram: hist,
		StatusCounts:    counts,
		Trend:           []TrendPoint{},
	}
}
