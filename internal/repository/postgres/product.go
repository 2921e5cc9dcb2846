package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/utafrali/reviewhub/internal/domain"
	"github.com/utafrali/reviewhub/pkg/database"
	apperrors "github.com/utafrali/reviewhub/pkg/errors"
)

// ProductRepository implements repository.ProductRepository using PostgreSQL.
type ProductRepository struct {
	pool database.DBTX
}

// NewProductRepository creates a new PostgreSQL-backed product repository.
func NewProductRepository(pool database.DBTX) *ProductRepository {
	return &ProductRepository{pool: pool}
}

const productColumns = `id, name, image_url, source_url, active, created_at, updated_at`

// Upsert inserts a product or overwrites its mutable fields by id, bumping
// updated_at. created_at is written once and never touched on update.
func (r *ProductRepository) Upsert(ctx context.Context, p *domain.Product) error {
	now := time.Now().UTC()
	p.UpdatedAt = now
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}

	query := `
		INSERT INTO products (id, name, image_url, source_url, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			name       = EXCLUDED.name,
			image_url  = EXCLUDED.image_url,
			source_url = EXCLUDED.source_url,
			active     = EXCLUDED.active,
			updated_at = EXCLUDED.updated_at`

	_, err := r.pool.Exec(ctx, query,
		p.ID,
		p.Name,
		p.ImageURL,
		p.SourceURL,
		p.Active,
		p.CreatedAt,
		p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert product: %w", err)
	}

	return nil
}

// GetByID retrieves a product by its slug identifier.
func (r *ProductRepository) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products
		WHERE id = $1`

	var p domain.Product
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&p.ID,
		&p.Name,
		&p.ImageURL,
		&p.SourceURL,
		&p.Active,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("product", id)
		}
		return nil, fmt.Errorf("scan product: %w", err)
	}

	return &p, nil
}

// ListActive returns active products, most recently created first.
func (r *ProductRepository) ListActive(ctx context.Context) ([]domain.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products
		WHERE active
		ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(
			&p.ID,
			&p.Name,
			&p.ImageURL,
			&p.SourceURL,
			&p.Active,
			&p.CreatedAt,
			&p.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan product row: %w", err)
		}
		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate product rows: %w", err)
	}

	return products, nil
}

// Delete removes a product, cascading to its reviews when requested. The
// cascade runs in one transaction so a failure leaves both tables untouched.
func (r *ProductRepository) Delete(ctx context.Context, id string, cascade bool) (int, error) {
	if !cascade {
		ct, err := r.pool.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
		if err != nil {
			return 0, fmt.Errorf("delete product: %w", err)
		}
		if ct.RowsAffected() == 0 {
			return 0, apperrors.NotFound("product", id)
		}
		return 0, nil
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin delete tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	reviewsCT, err := tx.Exec(ctx, `DELETE FROM reviews WHERE product_id = $1`, id)
	if err != nil {
		return 0, fmt.Errorf("delete product reviews: %w", err)
	}

	productCT, err := tx.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return 0, fmt.Errorf("delete product: %w", err)
	}
	if productCT.RowsAffected() == 0 {
		return 0, apperrors.NotFound("product", id)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit delete tx: %w", err)
	}

	return int(reviewsCT.RowsAffected()), nil
}
