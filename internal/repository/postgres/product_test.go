package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/utafrali/reviewhub/internal/domain"
	"github.com/utafrali/reviewhub/pkg/database"
	apperrors "github.com/utafrali/reviewhub/pkg/errors"
)

func setupProductRepo(t *testing.T) (*ProductRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := database.NewMockPool()
	require.NoError(t, err)
	repo := NewProductRepository(mock)
	return repo, mock
}

func sampleProduct() *domain.Product {
	img := "https://img.example.com/laptop-15.jpg"
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	return &domain.Product{
		ID:        "laptop-15",
		Name:      "ProBook 15",
		ImageURL:  &img,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func productColumnNames() []string {
	return []string{"id", "name", "image_url", "source_url", "active", "created_at", "updated_at"}
}

func TestProductRepository_Upsert_Success(t *testing.T) {
	repo, mock := setupProductRepo(t)
	defer mock.Close()

	p := sampleProduct()

	mock.ExpectExec("INSERT INTO products").
		WithArgs(p.ID, p.Name, p.ImageURL, p.SourceURL, p.Active, pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := repo.Upsert(context.Background(), p)
	assert.NoError(t, err)
	assert.False(t, p.UpdatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepository_Upsert_ExecError(t *testing.T) {
	repo, mock := setupProductRepo(t)
	defer mock.Close()

	p := sampleProduct()

	mock.ExpectExec("INSERT INTO products").
		WithArgs(p.ID, p.Name, p.ImageURL, p.SourceURL, p.Active, pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnError(errors.New("connection refused"))

	err := repo.Upsert(context.Background(), p)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "upsert product")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepository_GetByID_Success(t *testing.T) {
	repo, mock := setupProductRepo(t)
	defer mock.Close()

	p := sampleProduct()

	mock.ExpectQuery("SELECT .+ FROM products WHERE id").
		WithArgs(p.ID).
		WillReturnRows(pgxmock.NewRows(productColumnNames()).
			AddRow(p.ID, p.Name, p.ImageURL, p.SourceURL, p.Active, p.CreatedAt, p.UpdatedAt))

	result, err := repo.GetByID(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, "ProBook 15", result.Name)
	assert.True(t, result.Active)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepository_GetByID_NotFound(t *testing.T) {
	repo, mock := setupProductRepo(t)
	defer mock.Close()

	mock.ExpectQuery("SELECT .+ FROM products WHERE id").
		WithArgs("ghost").
		WillReturnRows(pgxmock.NewRows(productColumnNames()))

	result, err := repo.GetByID(context.Background(), "ghost")
	assert.Nil(t, result)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepository_ListActive_Success(t *testing.T) {
	repo, mock := setupProductRepo(t)
	defer mock.Close()

	p := sampleProduct()

	mock.ExpectQuery("SELECT .+ FROM products").
		WillReturnRows(pgxmock.NewRows(productColumnNames()).
			AddRow(p.ID, p.Name, p.ImageURL, p.SourceURL, p.Active, p.CreatedAt, p.UpdatedAt))

	products, err := repo.ListActive(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "laptop-15", products[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepository_Delete_NoCascade(t *testing.T) {
	repo, mock := setupProductRepo(t)
	defer mock.Close()

	mock.ExpectExec("DELETE FROM products").
		WithArgs("laptop-15").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	reviewsDeleted, err := repo.Delete(context.Background(), "laptop-15", false)
	require.NoError(t, err)
	assert.Zero(t, reviewsDeleted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepository_Delete_NoCascade_NotFound(t *testing.T) {
	repo, mock := setupProductRepo(t)
	defer mock.Close()

	mock.ExpectExec("DELETE FROM products").
		WithArgs("ghost").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	_, err := repo.Delete(context.Background(), "ghost", false)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepository_Delete_CascadeRemovesReviewsInTx(t *testing.T) {
	repo, mock := setupProductRepo(t)
	defer mock.Close()

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM reviews").
		WithArgs("laptop-15").
		WillReturnResult(pgxmock.NewResult("DELETE", 12))
	mock.ExpectExec("DELETE FROM products").
		WithArgs("laptop-15").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectCommit()

	reviewsDeleted, err := repo.Delete(context.Background(), "laptop-15", true)
	require.NoError(t, err)
	assert.Equal(t, 12, reviewsDeleted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepository_Delete_CascadeMissingProductRollsBack(t *testing.T) {
	repo, mock := setupProductRepo(t)
	defer mock.Close()

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM reviews").
		WithArgs("ghost").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))
	mock.ExpectExec("DELETE FROM products").
		WithArgs("ghost").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))
	mock.ExpectRollback()

	_, err := repo.Delete(context.Background(), "ghost", true)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
