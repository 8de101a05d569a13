package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/jith101/Back-End-Developer-Assignment/internal/domain"
	"github.com/jith101/Back-End-Developer-Assignment/internal/service"
	apperrors "github.com/jith101/Back-End-Developer-Assignment/pkg/errors"
	"github.com/jith101/Back-End-Developer-Assignment/pkg/httputil"
	"github.com/jith101/Back-End-Developer-Assignment/pkg/pagination"
	"github.com/jith101/Back-End-Developer-Assignment/pkg/validator"
)

// ProductHandler handles HTTP requests for product endpoints.
type ProductHandler struct {
	service  *service.ProductService
	pageSize int
	logger   *slog.Logger
}

// NewProductHandler creates a new product HTTP handler. pageSize is the default
// size of the reviews page embedded in a product detail.
func NewProductHandler(svc *service.ProductService, pageSize int, logger *slog.Logger) *ProductHandler {
	return &ProductHandler{
		service:  svc,
		pageSize: pageSize,
		logger:   logger,
	}
}

// --- Request DTOs ---

// CreateProductRequest is the JSON request body for creating a product. Price
// accepts a JSON number or a decimal string.
type CreateProductRequest struct {
	Name        string           `json:"name" validate:"required,max=255"`
	Description string           `json:"description"`
	Price       *decimal.Decimal `json:"price" validate:"required"`
}

// UpdateProductRequest is the JSON request body for updating a product. PUT
// requires name and price; PATCH applies only the fields present.
type UpdateProductRequest struct {
	Name        *string          `json:"name" validate:"omitempty,max=255"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price"`
}

// --- Handlers ---

// ListProducts handles GET /api/products?search=
func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.ListProducts(r.Context(), r.URL.Query().Get("search"))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	out := make([]ProductSummaryResponse, len(products))
	for i, p := range products {
		out[i] = toProductSummary(p)
	}
	httputil.WriteData(w, http.StatusOK, out)
}

// CreateProduct handles POST /api/products
func (h *ProductHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req CreateProductRequest
	if err := validator.DecodeAndValidate(w, r, &req); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	created, err := h.service.CreateProduct(r.Context(), actorFrom(r), &service.CreateProductInput{
		Name:        req.Name,
		Description: req.Description,
		Price:       *req.Price,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteData(w, http.StatusCreated, toProduct(&created.Product, created.Stats))
}

// GetProduct handles GET /api/products/{id}?page=&page_size=
func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, r, "product id", chi.URLParam(r, "id"))
	if !ok {
		return
	}

	page, err := pagination.FromRequest(r, h.pageSize)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	detail, err := h.service.GetProduct(r.Context(), id.String(), page)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	actor := actorFrom(r)
	httputil.WriteData(w, http.StatusOK, ProductDetailResponse{
		ProductResponse: toProduct(&detail.Product, detail.Stats),
		Reviews: pagination.Map(detail.Reviews, func(rv domain.Review) ReviewResponse {
			return toReview(rv, actor)
		}),
	})
}

// UpdateProduct handles PUT and PATCH /api/products/{id}
func (h *ProductHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, r, "product id", chi.URLParam(r, "id"))
	if !ok {
		return
	}

	var req UpdateProductRequest
	if err := validator.DecodeAndValidate(w, r, &req); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	if r.Method == http.MethodPut {
		fields := map[string]string{}
		if req.Name == nil {
			fields["name"] = "This field is required."
		}
		if req.Price == nil {
			fields["price"] = "This field is required."
		}
		if len(fields) > 0 {
			httputil.WriteError(w, r, apperrors.InvalidFields(fields), h.logger)
			return
		}
	}

	updated, err := h.service.UpdateProduct(r.Context(), actorFrom(r), id.String(), &service.UpdateProductInput{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteData(w, http.StatusOK, toProduct(&updated.Product, updated.Stats))
}

// DeleteProduct handles DELETE /api/products/{id}
func (h *ProductHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, r, "product id", chi.URLParam(r, "id"))
	if !ok {
		return
	}

	if err := h.service.DeleteProduct(r.Context(), actorFrom(r), id.String()); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteNoContent(w, http.StatusNoContent)
}

// GetProductStats handles GET /api/products/{productId}/stats
func (h *ProductHandler) GetProductStats(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, r, "product id", chi.URLParam(r, "productId"))
	if !ok {
		return
	}

	stats, err := h.service.GetProductStats(r.Context(), id.String())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteData(w, http.StatusOK, toStats(stats))
}
