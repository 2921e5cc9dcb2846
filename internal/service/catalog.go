package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/utafrali/reviewhub/internal/domain"
	"github.com/utafrali/reviewhub/internal/event"
	"github.com/utafrali/reviewhub/internal/repository"
	apperrors "github.com/utafrali/reviewhub/pkg/errors"
)

// UpsertProductInput holds the parameters for registering a product.
type UpsertProductInput struct {
	ID        string  `json:"id" validate:"required"`
	Name      string  `json:"name" validate:"required"`
	ImageURL  *string `json:"image_url" validate:"omitempty,url"`
	SourceURL *string `json:"source_url" validate:"omitempty,url"`
	Active    *bool   `json:"active"`
}

// DeleteProductResult reports what a catalog delete removed.
type DeleteProductResult struct {
	Deleted        bool `json:"deleted"`
	ReviewsDeleted int  `json:"reviews_deleted"`
}

// CatalogService implements the product catalog operations.
type CatalogService struct {
	products repository.ProductRepository
	reviews  repository.ReviewRepository
	events   *event.Producer
	logger   *slog.Logger
}

// NewCatalogService creates a new catalog service. events may be nil when
// event publishing is disabled.
func NewCatalogService(
	products repository.ProductRepository,
	reviews repository.ReviewRepository,
	events *event.Producer,
	logger *slog.Logger,
) *CatalogService {
	return &CatalogService{
		products: products,
		reviews:  reviews,
		events:   events,
		logger:   logger,
	}
}

// Upsert registers a product or overwrites the catalog entry with the same id.
func (s *CatalogService) Upsert(ctx context.Context, input *UpsertProductInput) (*domain.Product, error) {
	if input.ID == "" {
		return nil, apperrors.InvalidInput("id is required")
	}
	if input.Name == "" {
		return nil, apperrors.InvalidInput("name is required")
	}

	active := true
	if input.Active != nil {
		active = *input.Active
	}

	product := &domain.Product{
		ID:        input.ID,
		Name:      input.Name,
		ImageURL:  input.ImageURL,
		SourceURL: input.SourceURL,
		Active:    active,
	}

	if err := s.products.Upsert(ctx, product); err != nil {
		return nil, fmt.Errorf("upsert product: %w", err)
	}

	s.logger.InfoContext(ctx, "product upserted",
		slog.String("product_id", product.ID),
		slog.String("name", product.Name),
	)

	return product, nil
}

// Get retrieves one catalog entry by id.
func (s *CatalogService) Get(ctx context.Context, id string) (*domain.Product, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("id is required")
	}

	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	return product, nil
}

// List returns active catalog entries, most recently created first. When the
// catalog is empty the listing falls back to product ids discovered in the
// review store, so a deployment that only ever ingested reviews still shows
// its products.
func (s *CatalogService) List(ctx context.Context) ([]domain.Product, error) {
	products, err := s.products.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	if len(products) > 0 {
		return products, nil
	}

	ids, err := s.reviews.DistinctProductIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("bootstrap product listing: %w", err)
	}

	products = make([]domain.Product, 0, len(ids))
	for _, id := range ids {
		products = append(products, domain.Product{
			ID:     id,
			Name:   id,
			Active: true,
		})
	}

	if len(ids) > 0 {
		s.logger.InfoContext(ctx, "catalog empty, listing bootstrapped from reviews",
			slog.Int("product_count", len(ids)),
		)
	}

	return products, nil
}

// Delete removes a product from the catalog. With cascade, the product's
// reviews go with it in the same transaction; without it, orphaned reviews
// stay queryable by product id.
func (s *CatalogService) Delete(ctx context.Context, id string, cascade bool) (*DeleteProductResult, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("id is required")
	}

	reviewsDeleted, err := s.products.Delete(ctx, id, cascade)
	if err != nil {
		return nil, fmt.Errorf("delete product: %w", err)
	}

	s.logger.InfoContext(ctx, "product deleted",
		slog.String("product_id", id),
		slog.Bool("cascade", cascade),
		slog.Int("reviews_deleted", reviewsDeleted),
	)

	s.publishDeleted(ctx, id, reviewsDeleted)

	return &DeleteProductResult{Deleted: true, ReviewsDeleted: reviewsDeleted}, nil
}

func (s *CatalogService) publishDeleted(ctx context.Context, id string, reviewsDeleted int) {
	if s.events == nil {
		return
	}
	if err := s.events.PublishProductDeleted(ctx, id, reviewsDeleted); err != nil {
		s.logger.WarnContext(ctx, "failed to publish product.deleted event",
			slog.String("product_id", id),
			slog.String("error", err.Error()),
		)
	}
}
