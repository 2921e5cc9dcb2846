package domain

import (
	"fmt"
	"time"
)

// ReviewStatus governs the visibility and trust of a review.
type ReviewStatus string

const (
	StatusPending  ReviewStatus = "pending"
	StatusApproved ReviewStatus = "approved"
	StatusFlagged  ReviewStatus = "flagged"
	StatusRejected ReviewStatus = "rejected"
)

// Statuses lists every legal review status.
var Statuses = []ReviewStatus{StatusPending, StatusApproved, StatusFlagged, StatusRejected}

// IsValid reports whether s is one of the four legal statuses.
func (s ReviewStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusFlagged, StatusRejected:
		return true
	}
	return false
}

// ParseStatus maps a raw status claim from an external source onto a legal
// status. Empty or unknown values coerce to approved: a source's status claim
// is not trusted to pre-empt local moderation.
func ParseStatus(raw string) ReviewStatus {
	s := ReviewStatus(raw)
	if s.IsValid() {
		return s
	}
	return StatusApproved
}

// CanTransition reports whether the moderation state machine permits moving
// from one status to another. Re-flagging is allowed (reason updates), and
// rejected reviews may be re-opened through the generic transition.
func CanTransition(from, to ReviewStatus) bool {
	if !from.IsValid() || !to.IsValid() {
		return false
	}
	switch from {
	case StatusPending:
		return to != StatusPending
	case StatusApproved:
		return to == StatusFlagged || to == StatusRejected
	case StatusFlagged:
		return to == StatusApproved || to == StatusRejected || to == StatusFlagged
	case StatusRejected:
		return to != StatusRejected
	}
	return false
}

// ReviewKey is the composite identity of a review: one external review from
// one source attached to one product.
type ReviewKey struct {
	ProductID string `json:"product_id"`
	Source    string `json:"source"`
	ReviewID  string `json:"review_id"`
}

func (k ReviewKey) String() string {
	return fmt.Sprintf("%s/%s/%s", k.ProductID, k.Source, k.ReviewID)
}

// Review is a scraped third-party product review as stored locally.
// (product_id, source, review_id) is unique; re-ingesting the same key
// refreshes mutable fields without creating a second row.
type Review struct {
	ProductID       string       `json:"product_id"`
	Source          string       `json:"source"`
	ReviewID        string       `json:"review_id"`
	Author          string       `json:"author"`
	Rating          int          `json:"rating"`
	Title           string       `json:"title"`
	Body            string       `json:"body"`
	CreatedAt       *time.Time   `json:"created_at"`
	FetchedAt       time.Time    `json:"fetched_at"`
	Status          ReviewStatus `json:"status"`
	FlagReason      *string      `json:"flag_reason"`
	LikeCount       int          `json:"like_count"`
	DislikeCount    int          `json:"dislike_count"`
	LastModeratedAt *time.Time   `json:"last_moderated_at"`
}

// Key returns the composite identity of the review.
func (r *Review) Key() ReviewKey {
	return ReviewKey{ProductID: r.ProductID, Source: r.Source, ReviewID: r.ReviewID}
}

// ReactionAction is a reader reaction token applied to a review.
type ReactionAction string

const (
	ReactionLike    ReactionAction = "like"
	ReactionDislike ReactionAction = "dislike"
)

// IsValid reports whether the action token is a known reaction.
func (a ReactionAction) IsValid() bool {
	return a == ReactionLike || a == ReactionDislike
}

// ReactionCounts holds the reaction counters of a review after an increment.
type ReactionCounts struct {
	LikeCount    int `json:"like_count"`
	DislikeCount int `json:"dislike_count"`
}
