package http

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/mock"

	"github.com/utafrali/reviewhub/internal/domain"
	"github.com/utafrali/reviewhub/internal/repository"
	"github.com/utafrali/reviewhub/internal/scraper"
	"github.com/utafrali/reviewhub/internal/service"
)

// =============================================================================
// Mock repositories
// =============================================================================

type mockReviewRepo struct {
	mock.Mock
}

func (m *mockReviewRepo) Upsert(ctx context.Context, review *domain.Review) (bool, error) {
	args := m.Called(ctx, review)
	return args.Bool(0), args.Error(1)
}

func (m *mockReviewRepo) ListByProduct(ctx context.Context, productID string, page, perPage int) ([]domain.Review, int, error) {
	args := m.Called(ctx, productID, page, perPage)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.Review), args.Int(1), args.Error(2)
}

func (m *mockReviewRepo) ListForModeration(ctx context.Context, limit int) ([]domain.Review, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Review), args.Error(1)
}

func (m *mockReviewRepo) SetStatus(ctx context.Context, key domain.ReviewKey, update repository.StatusUpdate, moderatedAt time.Time) (bool, error) {
	args := m.Called(ctx, key, update, moderatedAt)
	return args.Bool(0), args.Error(1)
}

func (m *mockReviewRepo) IncrementReaction(ctx context.Context, key domain.ReviewKey, action domain.ReactionAction) (*domain.ReactionCounts, error) {
	args := m.Called(ctx, key, action)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ReactionCounts), args.Error(1)
}

func (m *mockReviewRepo) OverallStats(ctx context.Context, productID string) (domain.OverallStats, error) {
	args := m.Called(ctx, productID)
	return args.Get(0).(domain.OverallStats), args.Error(1)
}

func (m *mockReviewRepo) SourceStats(ctx context.Context, productID string) ([]domain.SourceStats, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.SourceStats), args.Error(1)
}

func (m *mockReviewRepo) RatingHistogram(ctx context.Context, productID string) (map[int]int, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[int]int), args.Error(1)
}

func (m *mockReviewRepo) StatusCounts(ctx context.Context, productID string) (map[domain.ReviewStatus]int, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[domain.ReviewStatus]int), args.Error(1)
}

func (m *mockReviewRepo) Trend(ctx context.Context, productID string, since, until time.Time) ([]domain.TrendPoint, error) {
	args := m.Called(ctx, productID, since, until)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TrendPoint), args.Error(1)
}

func (m *mockReviewRepo) DistinctProductIDs(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

type mockProductRepo struct {
	mock.Mock
}

func (m *mockProductRepo) Upsert(ctx context.Context, product *domain.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *mockProductRepo) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *mockProductRepo) ListActive(ctx context.Context) ([]domain.Product, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Product), args.Error(1)
}

func (m *mockProductRepo) Delete(ctx context.Context, id string, cascade bool) (int, error) {
	args := m.Called(ctx, id, cascade)
	return args.Int(0), args.Error(1)
}

// =============================================================================
// Test helpers
// =============================================================================

func handlerTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func testRouter(reviews *mockReviewRepo, products *mockProductRepo) *chi.Mux {
	logger := handlerTestLogger()
	cooldown := scraper.NewCooldown(nil, time.Minute)

	ingestService := service.NewIngestService(reviews, products, nil, cooldown, nil, logger)
	reviewService := service.NewReviewService(reviews, logger)
	aggregateService := service.NewAggregateService(reviews, logger)
	moderationService := service.NewModerationService(reviews, nil, logger)
	catalogService := service.NewCatalogService(products, reviews, nil, logger)

	reviewHandler := NewReviewHandler(ingestService, reviewService, aggregateService, logger)
	productHandler := NewProductHandler(catalogService, logger)
	adminHandler := NewAdminHandler(moderationService, logger)

	r := chi.NewRouter()
	r.Route("/api/v1/products", func(r chi.Router) {
		r.Get("/", productHandler.ListProducts)
		r.Put("/", productHandler.UpsertProduct)
		r.Get("/{productId}", productHandler.GetProduct)
		r.Delete("/{productId}", productHandler.DeleteProduct)
		r.Get("/{productId}/reviews", reviewHandler.ListReviews)
		r.Post("/{productId}/reviews/ingest", reviewHandler.IngestReviews)
		r.Get("/{productId}/aggregate", reviewHandler.GetAggregate)
	})
	r.Route("/api/v1/admin/reviews", func(r chi.Router) {
		r.Get("/", adminHandler.ListQueue)
		r.Patch("/{productId}/{source}/{reviewId}/status", adminHandler.SetStatus)
		r.Post("/{productId}/{source}/{reviewId}/flag", adminHandler.Flag)
	})
	r.Post("/api/v1/reviews/{productId}/{source}/{reviewId}/react", adminHandler.React)
	return r
}
