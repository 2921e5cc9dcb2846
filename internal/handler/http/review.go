package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/utafrali/reviewhub/internal/domain"
	"github.com/utafrali/reviewhub/internal/service"
	"github.com/utafrali/reviewhub/pkg/httputil"
	"github.com/utafrali/reviewhub/pkg/validator"
)

// ReviewHandler handles HTTP requests for review read and ingest endpoints.
type ReviewHandler struct {
	ingest    *service.IngestService
	reviews   *service.ReviewService
	aggregate *service.AggregateService
	logger    *slog.Logger
}

// NewReviewHandler creates a new review HTTP handler.
func NewReviewHandler(
	ingest *service.IngestService,
	reviews *service.ReviewService,
	aggregate *service.AggregateService,
	logger *slog.Logger,
) *ReviewHandler {
	return &ReviewHandler{
		ingest:    ingest,
		reviews:   reviews,
		aggregate: aggregate,
		logger:    logger,
	}
}

// --- Request DTOs ---

// IngestReviewRequest is one raw review record in an ingest batch.
type IngestReviewRequest struct {
	Source       string  `json:"source" validate:"required,max=255"`
	ExternalID   string  `json:"external_id" validate:"required,max=255"`
	ReviewerName string  `json:"reviewer_name" validate:"max=255"`
	Rating       int     `json:"rating" validate:"required,min=1,max=5"`
	Title        string  `json:"title" validate:"max=512"`
	Content      string  `json:"content"`
	ReviewDate   *string `json:"review_date"`
	Status       string  `json:"status"`
	FlagReason   *string `json:"flag_reason"`
	LikeCount    int     `json:"like_count" validate:"min=0"`
	DislikeCount int     `json:"dislike_count" validate:"min=0"`
}

// IngestRequest is the JSON request body for ingesting a batch of reviews.
type IngestRequest struct {
	Reviews []IngestReviewRequest `json:"reviews" validate:"dive"`
}

// --- Handlers ---

// IngestReviews handles POST /api/v1/products/{productId}/reviews/ingest
func (h *ReviewHandler) IngestReviews(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productId")

	r.Body = http.MaxBytesReader(w, r.Body, 8<<20)

	var req IngestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "invalid request body: " + err.Error()},
		})
		return
	}

	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	raws := make([]domain.RawReview, 0, len(req.Reviews))
	for _, rr := range req.Reviews {
		raw := domain.RawReview{
			Source:       rr.Source,
			ExternalID:   rr.ExternalID,
			ReviewerName: rr.ReviewerName,
			Rating:       rr.Rating,
			Title:        rr.Title,
			Content:      rr.Content,
			Status:       rr.Status,
			FlagReason:   rr.FlagReason,
			LikeCount:    rr.LikeCount,
			DislikeCount: rr.DislikeCount,
		}
		if rr.ReviewDate != nil {
			if t, err := parseDate(*rr.ReviewDate); err == nil {
				raw.ReviewDate = &t
			}
		}
		raws = append(raws, raw)
	}

	result, err := h.ingest.Ingest(r.Context(), productID, raws)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: result})
}

// FetchReviews handles POST /api/v1/products/{productId}/reviews/fetch
func (h *ReviewHandler) FetchReviews(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productId")

	result, err := h.ingest.FetchAndIngest(r.Context(), productID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: result})
}

// ListReviews handles GET /api/v1/products/{productId}/reviews
func (h *ReviewHandler) ListReviews(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productId")

	page := 1
	perPage := 20
	if v := r.URL.Query().Get("page"); v != "" {
		if p, err := strconv.Atoi(v); err == nil && p > 0 {
			page = p
		}
	}
	if v := r.URL.Query().Get("per_page"); v != "" {
		if pp, err := strconv.Atoi(v); err == nil && pp > 0 && pp <= 100 {
			perPage = pp
		}
	}

	result, err := h.reviews.ListReviews(r.Context(), productID, page, perPage)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"data":        result.Reviews,
		"total_count": result.TotalCount,
		"page":        result.Page,
		"per_page":    result.PerPage,
		"total_pages": result.TotalPages,
	})
}

// GetAggregate handles GET /api/v1/products/{productId}/aggregate
func (h *ReviewHandler) GetAggregate(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productId")

	snapshot, err := h.aggregate.Aggregate(r.Context(), productID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: snapshot})
}

func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}
