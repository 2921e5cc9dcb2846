package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/utafrali/reviewhub/internal/domain"
	apperrors "github.com/utafrali/reviewhub/pkg/errors"
)

func TestUpsertProduct_Success(t *testing.T) {
	products := new(mockProductRepo)
	router := testRouter(new(mockReviewRepo), products)

	products.On("Upsert", mock.Anything, mock.MatchedBy(func(p *domain.Product) bool {
		return p.ID == "laptop-15" && p.Name == "ProBook 15" && p.Active
	})).Return(nil)

	b, _ := json.Marshal(UpsertProductRequest{ID: "laptop-15", Name: "ProBook 15"})
	req := httptest.NewRequest(http.MethodPut, "/api/v1/products", bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	products.AssertExpectations(t)
}

func TestUpsertProduct_MissingName(t *testing.T) {
	products := new(mockProductRepo)
	router := testRouter(new(mockReviewRepo), products)

	b, _ := json.Marshal(UpsertProductRequest{ID: "laptop-15"})
	req := httptest.NewRequest(http.MethodPut, "/api/v1/products", bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	products.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
}

func TestGetProduct_NotFound(t *testing.T) {
	products := new(mockProductRepo)
	router := testRouter(new(mockReviewRepo), products)

	products.On("GetByID", mock.Anything, "ghost").Return(nil, apperrors.NotFound("product", "ghost"))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products/ghost", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListProducts_BootstrapFallback(t *testing.T) {
	products := new(mockProductRepo)
	reviews := new(mockReviewRepo)
	router := testRouter(reviews, products)

	products.On("ListActive", mock.Anything).Return([]domain.Product{}, nil)
	reviews.On("DistinctProductIDs", mock.Anything).Return([]string{"laptop-15"}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data []domain.Product `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "laptop-15", resp.Data[0].ID)
	assert.Equal(t, "laptop-15", resp.Data[0].Name)
}

func TestDeleteProduct_Cascade(t *testing.T) {
	products := new(mockProductRepo)
	router := testRouter(new(mockReviewRepo), products)

	products.On("Delete", mock.Anything, "laptop-15", true).Return(7, nil)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/products/laptop-15?cascade=true", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data struct {
			Deleted        bool `json:"deleted"`
			ReviewsDeleted int  `json:"reviews_deleted"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.True(t, resp.Data.Deleted)
	assert.Equal(t, 7, resp.Data.ReviewsDeleted)
}

func TestDeleteProduct_NoCascade(t *testing.T) {
	products := new(mockProductRepo)
	router := testRouter(new(mockReviewRepo), products)

	products.On("Delete", mock.Anything, "laptop-15", false).Return(0, nil)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/products/laptop-15", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	products.AssertExpectations(t)
}
