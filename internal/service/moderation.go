package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/utafrali/reviewhub/internal/domain"
	"github.com/utafrali/reviewhub/internal/event"
	"github.com/utafrali/reviewhub/internal/repository"
	apperrors "github.com/utafrali/reviewhub/pkg/errors"
)

const (
	defaultModerationQueueLimit = 300
	maxModerationQueueLimit     = 1000
)

// ModerationResult reports whether a status change landed on an existing row.
type ModerationResult struct {
	Updated bool `json:"updated"`
}

// ModerationService implements the review moderation workflow.
type ModerationService struct {
	reviews repository.ReviewRepository
	events  *event.Producer
	logger  *slog.Logger
}

// NewModerationService creates a new moderation service. events may be nil
// when event publishing is disabled.
func NewModerationService(reviews repository.ReviewRepository, events *event.Producer, logger *slog.Logger) *ModerationService {
	return &ModerationService{
		reviews: reviews,
		events:  events,
		logger:  logger,
	}
}

// SetStatus moves a review to a new moderation status and stamps the
// moderation time. A missing key is a soft failure: the result carries
// updated:false and no error. flagReason nil leaves the stored reason alone,
// a pointer to the empty string clears it, any other value replaces it.
func (s *ModerationService) SetStatus(ctx context.Context, key domain.ReviewKey, status domain.ReviewStatus, flagReason *string) (*ModerationResult, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}
	if !status.IsValid() {
		return nil, apperrors.InvalidInput(fmt.Sprintf("invalid status %q", status))
	}

	update := repository.StatusUpdate{Status: status, FlagReason: flagReason}
	updated, err := s.reviews.SetStatus(ctx, key, update, time.Now().UTC())
	if err != nil {
		return nil, fmt.Errorf("set review status: %w", err)
	}

	if !updated {
		s.logger.InfoContext(ctx, "moderation target not found",
			slog.String("review_key", key.String()),
			slog.String("status", string(status)),
		)
		return &ModerationResult{Updated: false}, nil
	}

	s.logger.InfoContext(ctx, "review status changed",
		slog.String("review_key", key.String()),
		slog.String("status", string(status)),
	)

	s.publishModerated(ctx, key, status, flagReason)

	return &ModerationResult{Updated: true}, nil
}

// Flag marks a review as flagged and stores the reason in one atomic update.
func (s *ModerationService) Flag(ctx context.Context, key domain.ReviewKey, reason string) (*ModerationResult, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}
	if reason == "" {
		return nil, apperrors.InvalidInput("flag reason is required")
	}

	return s.SetStatus(ctx, key, domain.StatusFlagged, &reason)
}

// React applies a like or dislike to a review and returns both counters.
// Unlike moderation updates, a missing key is a hard not-found failure.
func (s *ModerationService) React(ctx context.Context, key domain.ReviewKey, action domain.ReactionAction) (*domain.ReactionCounts, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}
	if !action.IsValid() {
		return nil, apperrors.InvalidInput(fmt.Sprintf("invalid reaction %q, must be like or dislike", action))
	}

	counts, err := s.reviews.IncrementReaction(ctx, key, action)
	if err != nil {
		return nil, fmt.Errorf("apply reaction: %w", err)
	}

	s.publishReaction(ctx, key, action, counts)

	return counts, nil
}

// ListQueue returns the moderation queue: flagged and pending reviews across
// all products, most recently fetched first.
func (s *ModerationService) ListQueue(ctx context.Context, limit int) ([]domain.Review, error) {
	if limit <= 0 {
		limit = defaultModerationQueueLimit
	}
	if limit > maxModerationQueueLimit {
		limit = maxModerationQueueLimit
	}

	reviews, err := s.reviews.ListForModeration(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list moderation queue: %w", err)
	}
	if reviews == nil {
		reviews = []domain.Review{}
	}
	return reviews, nil
}

func (s *ModerationService) publishModerated(ctx context.Context, key domain.ReviewKey, status domain.ReviewStatus, flagReason *string) {
	if s.events == nil {
		return
	}
	if err := s.events.PublishReviewModerated(ctx, key, status, flagReason); err != nil {
		s.logger.WarnContext(ctx, "failed to publish review.moderated event",
			slog.String("review_key", key.String()),
			slog.String("error", err.Error()),
		)
	}
}

func (s *ModerationService) publishReaction(ctx context.Context, key domain.ReviewKey, action domain.ReactionAction, counts *domain.ReactionCounts) {
	if s.events == nil {
		return
	}
	if err := s.events.PublishReviewReactionAdded(ctx, key, action, *counts); err != nil {
		s.logger.WarnContext(ctx, "failed to publish review.reaction_added event",
			slog.String("review_key", key.String()),
			slog.String("error", err.Error()),
		)
	}
}

func validateKey(key domain.ReviewKey) error {
	if key.ProductID == "" {
		return apperrors.InvalidInput("product_id is required")
	}
	if key.Source == "" {
		return apperrors.InvalidInput("source is required")
	}
	if key.ReviewID == "" {
		return apperrors.InvalidInput("review_id is required")
	}
	return nil
}
