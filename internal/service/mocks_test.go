package service

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/utafrali/reviewhub/internal/domain"
	"github.com/utafrali/reviewhub/internal/repository"
)

// --- Mock Repositories ---

type mockReviewRepository struct {
	mock.Mock
}

func (m *mockReviewRepository) Upsert(ctx context.Context, review *domain.Review) (bool, error) {
	args := m.Called(ctx, review)
	return args.Bool(0), args.Error(1)
}

func (m *mockReviewRepository) ListByProduct(ctx context.Context, productID string, page, perPage int) ([]domain.Review, int, error) {
	args := m.Called(ctx, productID, page, perPage)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.Review), args.Int(1), args.Error(2)
}

func (m *mockReviewRepository) ListForModeration(ctx context.Context, limit int) ([]domain.Review, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Review), args.Error(1)
}

func (m *mockReviewRepository) SetStatus(ctx context.Context, key domain.ReviewKey, update repository.StatusUpdate, moderatedAt time.Time) (bool, error) {
	args := m.Called(ctx, key, update, moderatedAt)
	return args.Bool(0), args.Error(1)
}

func (m *mockReviewRepository) IncrementReaction(ctx context.Context, key domain.ReviewKey, action domain.ReactionAction) (*domain.ReactionCounts, error) {
	args := m.Called(ctx, key, action)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ReactionCounts), args.Error(1)
}

func (m *mockReviewRepository) OverallStats(ctx context.Context, productID string) (domain.OverallStats, error) {
	args := m.Called(ctx, productID)
	return args.Get(0).(domain.OverallStats), args.Error(1)
}

func (m *mockReviewRepository) SourceStats(ctx context.Context, productID string) ([]domain.SourceStats, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.SourceStats), args.Error(1)
}

func (m *mockReviewRepository) RatingHistogram(ctx context.Context, productID string) (map[int]int, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[int]int), args.Error(1)
}

func (m *mockReviewRepository) StatusCounts(ctx context.Context, productID string) (map[domain.ReviewStatus]int, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[domain.ReviewStatus]int), args.Error(1)
}

func (m *mockReviewRepository) Trend(ctx context.Context, productID string, since, until time.Time) ([]domain.TrendPoint, error) {
	args := m.Called(ctx, productID, since, until)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TrendPoint), args.Error(1)
}

func (m *mockReviewRepository) DistinctProductIDs(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

type mockProductRepository struct {
	mock.Mock
}

func (m *mockProductRepository) Upsert(ctx context.Context, product *domain.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *mockProductRepository) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *mockProductRepository) ListActive(ctx context.Context) ([]domain.Product, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Product), args.Error(1)
}

func (m *mockProductRepository) Delete(ctx context.Context, id string, cascade bool) (int, error) {
	args := m.Called(ctx, id, cascade)
	return args.Int(0), args.Error(1)
}

// --- Mock Source ---

type mockSource struct {
	mock.Mock
}

func (m *mockSource) Name() string {
	args := m.Called()
	return args.String(0)
}

func (m *mockSource) FetchReviews(ctx context.Context, productID string) ([]domain.RawReview, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.RawReview), args.Error(1)
}

func (m *mockSource) FetchProductMetadata(ctx context.Context, productID string) (*domain.ProductMetadata, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ProductMetadata), args.Error(1)
}

// --- Test Helpers ---

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func strPtr(s string) *string {
	return &s
}
