package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/utafrali/reviewhub/internal/service"
	"github.com/utafrali/reviewhub/pkg/httputil"
	"github.com/utafrali/reviewhub/pkg/validator"
)

// ProductHandler handles HTTP requests for product catalog endpoints.
type ProductHandler struct {
	catalog *service.CatalogService
	logger  *slog.Logger
}

// NewProductHandler creates a new product catalog HTTP handler.
func NewProductHandler(catalog *service.CatalogService, logger *slog.Logger) *ProductHandler {
	return &ProductHandler{
		catalog: catalog,
		logger:  logger,
	}
}

// UpsertProductRequest is the JSON request body for registering a product.
type UpsertProductRequest struct {
	ID        string  `json:"id" validate:"required,max=255"`
	Name      string  `json:"name" validate:"required,max=512"`
	ImageURL  *string `json:"image_url" validate:"omitempty,url"`
	SourceURL *string `json:"source_url" validate:"omitempty,url"`
	Active    *bool   `json:"active"`
}

// UpsertProduct handles PUT /api/v1/products
func (h *ProductHandler) UpsertProduct(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req UpsertProductRequest
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

	product, err := h.catalog.Upsert(r.Context(), &service.UpsertProductInput{
		ID:        req.ID,
		Name:      req.Name,
		ImageURL:  req.ImageURL,
		SourceURL: req.SourceURL,
		Active:    req.Active,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: product})
}

// GetProduct handles GET /api/v1/products/{productId}
func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productId")

	product, err := h.catalog.Get(r.Context(), productID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: product})
}

// ListProducts handles GET /api/v1/products
func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalog.List(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: products})
}

// DeleteProduct handles DELETE /api/v1/products/{productId}?cascade=true
func (h *ProductHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productId")
	cascade := r.URL.Query().Get("cascade") == "true"

	result, err := h.catalog.Delete(r.Context(), productID, cascade)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: result})
}
