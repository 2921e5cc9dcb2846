package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/utafrali/reviewhub/internal/domain"
	"github.com/utafrali/reviewhub/internal/service"
	"github.com/utafrali/reviewhub/pkg/httputil"
	"github.com/utafrali/reviewhub/pkg/validator"
)

// AdminHandler handles HTTP requests for moderation endpoints.
type AdminHandler struct {
	moderation *service.ModerationService
	logger     *slog.Logger
}

// NewAdminHandler creates a new moderation HTTP handler.
func NewAdminHandler(moderation *service.ModerationService, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{
		moderation: moderation,
		logger:     logger,
	}
}

// --- Request DTOs ---

// SetStatusRequest is the JSON request body for a moderation status change.
// FlagReason nil leaves the stored reason untouched; an empty string clears it.
type SetStatusRequest struct {
	Status     string  `json:"status" validate:"required,oneof=pending approved flagged rejected"`
	FlagReason *string `json:"flag_reason" validate:"omitempty,max=1024"`
}

// FlagRequest is the JSON request body for flagging a review.
type FlagRequest struct {
	Reason string `json:"reason" validate:"required,max=1024"`
}

// ReactRequest is the JSON request body for a reader reaction.
type ReactRequest struct {
	Action string `json:"action" validate:"required,oneof=like dislike"`
}

// --- Handlers ---

// ListQueue handles GET /api/v1/admin/reviews
func (h *AdminHandler) ListQueue(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			limit = n
		}
	}

	reviews, err := h.moderation.ListQueue(r.Context(), limit)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: reviews})
}

// SetStatus handles PATCH /api/v1/admin/reviews/{productId}/{source}/{reviewId}/status
func (h *AdminHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	key := reviewKeyFromURL(r)

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req SetStatusRequest
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

	result, err := h.moderation.SetStatus(r.Context(), key, domain.ReviewStatus(req.Status), req.FlagReason)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: result})
}

// Flag handles POST /api/v1/admin/reviews/{productId}/{source}/{reviewId}/flag
func (h *AdminHandler) Flag(w http.ResponseWriter, r *http.Request) {
	key := reviewKeyFromURL(r)

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req FlagRequest
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

	result, err := h.moderation.Flag(r.Context(), key, req.Reason)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: result})
}

// React handles POST /api/v1/reviews/{productId}/{source}/{reviewId}/react
func (h *AdminHandler) React(w http.ResponseWriter, r *http.Request) {
	key := reviewKeyFromURL(r)

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req ReactRequest
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

	counts, err := h.moderation.React(r.Context(), key, domain.ReactionAction(req.Action))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: counts})
}

func reviewKeyFromURL(r *http.Request) domain.ReviewKey {
	return domain.ReviewKey{
		ProductID: chi.URLParam(r, "productId"),
		Source:    chi.URLParam(r, "source"),
		ReviewID:  chi.URLParam(r, "reviewId"),
	}
}
