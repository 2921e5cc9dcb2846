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
)

// =============================================================================
// POST /api/v1/products/{productId}/reviews/ingest
// =============================================================================

func TestIngestReviews_Success(t *testing.T) {
	reviews := new(mockReviewRepo)
	router := testRouter(reviews, new(mockProductRepo))

	reviews.On("Upsert", mock.Anything, mock.AnythingOfType("*domain.Review")).Return(true, nil).Twice()

	body := IngestRequest{
		Reviews: []IngestReviewRequest{
			{Source: "Amazon", ExternalID: "A1", Rating: 5, Title: "Great"},
			{Source: "BestBuy", ExternalID: "B1", Rating: 4},
		},
	}
	b, _ := json.Marshal(body)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/products/laptop-15/reviews/ingest", bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data struct {
			Added   int `json:"added"`
			Skipped int `json:"skipped"`
			Total   int `json:"total"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, 2, resp.Data.Added)
	assert.Equal(t, 0, resp.Data.Skipped)
	assert.Equal(t, 2, resp.Data.Total)
	reviews.AssertExpectations(t)
}

func TestIngestReviews_InvalidRating(t *testing.T) {
	reviews := new(mockReviewRepo)
	router := testRouter(reviews, new(mockProductRepo))

	body := IngestRequest{
		Reviews: []IngestReviewRequest{
			{Source: "Amazon", ExternalID: "A1", Rating: 9},
		},
	}
	b, _ := json.Marshal(body)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/products/laptop-15/reviews/ingest", bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	reviews.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
}

func TestIngestReviews_MalformedBody(t *testing.T) {
	router := testRouter(new(mockReviewRepo), new(mockProductRepo))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/products/laptop-15/reviews/ingest", bytes.NewReader([]byte("{not json")))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// =============================================================================
// GET /api/v1/products/{productId}/reviews
// =============================================================================

func TestListReviews_Success(t *testing.T) {
	reviews := new(mockReviewRepo)
	router := testRouter(reviews, new(mockProductRepo))

	reviews.On("ListByProduct", mock.Anything, "laptop-15", 1, 20).Return([]domain.Review{
		{ProductID: "laptop-15", Source: "Amazon", ReviewID: "A1", Rating: 5, Author: "Dana"},
	}, 1, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products/laptop-15/reviews", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data       []domain.Review `json:"data"`
		TotalCount int             `json:"total_count"`
		TotalPages int             `json:"total_pages"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "A1", resp.Data[0].ReviewID)
	assert.Equal(t, 1, resp.TotalCount)
	assert.Equal(t, 1, resp.TotalPages)
}

// =============================================================================
// GET /api/v1/products/{productId}/aggregate
// =============================================================================

func TestGetAggregate_EmptyProduct(t *testing.T) {
	reviews := new(mockReviewRepo)
	router := testRouter(reviews, new(mockProductRepo))

	empty := domain.EmptySnapshot()
	reviews.On("OverallStats", mock.Anything, "ghost").Return(domain.OverallStats{}, nil)
	reviews.On("SourceStats", mock.Anything, "ghost").Return(nil, nil)
	reviews.On("RatingHistogram", mock.Anything, "ghost").Return(empty.RatingHistogram, nil)
	reviews.On("StatusCounts", mock.Anything, "ghost").Return(empty.StatusCounts, nil)
	reviews.On("Trend", mock.Anything, "ghost", mock.AnythingOfType("time.Time"), mock.AnythingOfType("time.Time")).Return(nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products/ghost/aggregate", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data domain.AggregateSnapshot `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Zero(t, resp.Data.Overall.TotalReviews)
	assert.Len(t, resp.Data.RatingHistogram, 5)
	assert.Len(t, resp.Data.StatusCounts, 4)
	assert.Empty(t, resp.Data.BySource)
	assert.Empty(t, resp.Data.Trend)
}
