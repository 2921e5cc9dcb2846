package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/utafrali/reviewhub/internal/service"
	"github.com/utafrali/reviewhub/pkg/health"
	"github.com/utafrali/reviewhub/pkg/middleware"
)

// NewRouter creates a chi router with all review dashboard routes registered.
func NewRouter(
	ingestService *service.IngestService,
	reviewService *service.ReviewService,
	aggregateService *service.AggregateService,
	moderationService *service.ModerationService,
	catalogService *service.CatalogService,
	healthHandler *health.Handler,
	corsOrigins []string,
	logger *slog.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(CORS(corsOrigins))
	r.Use(middleware.Recovery(logger))
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.PrometheusMetrics("reviewhub"))

	// Health check endpoints
	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})

	productHandler := NewProductHandler(catalogService, logger)
	reviewHandler := NewReviewHandler(ingestService, reviewService, aggregateService, logger)
	adminHandler := NewAdminHandler(moderationService, logger)

	r.Route("/api/v1/products", func(r chi.Router) {
		r.Use(ContentTypeJSON)

		r.Get("/", productHandler.ListProducts)
		r.Put("/", productHandler.UpsertProduct)
		r.Get("/{productId}", productHandler.GetProduct)
		r.Delete("/{productId}", productHandler.DeleteProduct)

		r.Get("/{productId}/reviews", reviewHandler.ListReviews)
		r.Post("/{productId}/reviews/ingest", reviewHandler.IngestReviews)
		r.Post("/{productId}/reviews/fetch", reviewHandler.FetchReviews)
		r.Get("/{productId}/aggregate", reviewHandler.GetAggregate)
	})

	r.Route("/api/v1/admin/reviews", func(r chi.Router) {
		r.Use(ContentTypeJSON)

		r.Get("/", adminHandler.ListQueue)
		r.Patch("/{productId}/{source}/{reviewId}/status", adminHandler.SetStatus)
		r.Post("/{productId}/{source}/{reviewId}/flag", adminHandler.Flag)
	})

	r.Route("/api/v1/reviews", func(r chi.Router) {
		r.Use(ContentTypeJSON)

		r.Post("/{productId}/{source}/{reviewId}/react", adminHandler.React)
	})

	return r
}
