package domain

import "time"

// RawReview is a scraped review record as produced by a source client, before
// normalization. Only Source, ExternalID, and Rating are required; everything
// else is best-effort data from the upstream page or API.
type RawReview struct {
	Source       string     `json:"source"`
	ExternalID   string     `json:"external_id"`
	ReviewerName string     `json:"reviewer_name"`
	Rating       int        `json:"rating"`
	Title        string     `json:"title"`
	Content      string     `json:"content"`
	ReviewDate   *time.Time `json:"review_date"`
	Status       string     `json:"status,omitempty"`
	FlagReason   *string    `json:"flag_reason,omitempty"`
	LikeCount    int        `json:"like_count,omitempty"`
	DislikeCount int        `json:"dislike_count,omitempty"`
}

// ProductMetadata is richer product information a source may expose alongside
// reviews, used to enrich the catalog during a sync.
type ProductMetadata struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	ImageURL  *string `json:"image_url"`
	SourceURL *string `json:"source_url"`
}
