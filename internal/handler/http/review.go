package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jith101/Back-End-Developer-Assignment/internal/service"
	apperrors "github.com/jith101/Back-End-Developer-Assignment/pkg/errors"
	"github.com/jith101/Back-End-Developer-Assignment/pkg/httputil"
	"github.com/jith101/Back-End-Developer-Assignment/pkg/validator"
)

// ReviewHandler handles HTTP requests for review endpoints.
type ReviewHandler struct {
	service *service.ReviewService
	logger  *slog.Logger
}

// NewReviewHandler creates a new review HTTP handler.
func NewReviewHandler(svc *service.ReviewService, logger *slog.Logger) *ReviewHandler {
	return &ReviewHandler{
		service: svc,
		logger:  logger,
	}
}

// --- Request DTOs ---

// CreateReviewRequest is the JSON request body for creating a review. The
// rating range is checked by the service so every path reports the same message.
type CreateReviewRequest struct {
	Rating  *int   `json:"rating" validate:"required"`
	Comment string `json:"comment"`
}

// UpdateReviewRequest is the JSON request body for updating a review. PUT
// requires rating; PATCH applies only the fields present.
type UpdateReviewRequest struct {
	Rating  *int    `json:"rating"`
	Comment *string `json:"comment"`
}

// --- Handlers ---

// ListReviews handles GET /api/products/{productId}/reviews
func (h *ReviewHandler) ListReviews(w http.ResponseWriter, r *http.Request) {
	productID, ok := httputil.ParseUUID(w, r, "product id", chi.URLParam(r, "productId"))
	if !ok {
		return
	}

	reviews, err := h.service.ListReviews(r.Context(), productID.String())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	actor := actorFrom(r)
	out := make([]ReviewResponse, len(reviews))
	for i, rv := range reviews {
		out[i] = toReview(rv, actor)
	}
	httputil.WriteData(w, http.StatusOK, out)
}

// CreateReview handles POST /api/products/{productId}/reviews
func (h *ReviewHandler) CreateReview(w http.ResponseWriter, r *http.Request) {
	productID, ok := httputil.ParseUUID(w, r, "product id", chi.URLParam(r, "productId"))
	if !ok {
		return
	}

	var req CreateReviewRequest
	if err := validator.DecodeAndValidate(w, r, &req); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	actor := actorFrom(r)
	review, err := h.service.CreateReview(r.Context(), actor, productID.String(), &service.CreateReviewInput{
		Rating:  *req.Rating,
		Comment: req.Comment,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteData(w, http.StatusCreated, toReview(*review, actor))
}

// GetReview handles GET /api/products/{productId}/reviews/{id}
func (h *ReviewHandler) GetReview(w http.ResponseWriter, r *http.Request) {
	productID, reviewID, ok := parseReviewPath(w, r)
	if !ok {
		return
	}

	review, err := h.service.GetReview(r.Context(), productID, reviewID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteData(w, http.StatusOK, toReview(*review, actorFrom(r)))
}

// UpdateReview handles PUT and PATCH /api/products/{productId}/reviews/{id}
func (h *ReviewHandler) UpdateReview(w http.ResponseWriter, r *http.Request) {
	productID, reviewID, ok := parseReviewPath(w, r)
	if !ok {
		return
	}

	var req UpdateReviewRequest
	if err := validator.DecodeAndValidate(w, r, &req); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	if r.Method == http.MethodPut && req.Rating == nil {
		httputil.WriteError(w, r, apperrors.InvalidField("rating", "This field is required."), h.logger)
		return
	}

	actor := actorFrom(r)
	review, err := h.service.UpdateReview(r.Context(), actor, productID, reviewID, &service.UpdateReviewInput{
		Rating:  req.Rating,
		Comment: req.Comment,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteData(w, http.StatusOK, toReview(*review, actor))
}

// DeleteReview handles DELETE /api/products/{productId}/reviews/{id}
func (h *ReviewHandler) DeleteReview(w http.ResponseWriter, r *http.Request) {
	productID, reviewID, ok := parseReviewPath(w, r)
	if !ok {
		return
	}

	if err := h.service.DeleteReview(r.Context(), actorFrom(r), productID, reviewID); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteNoContent(w, http.StatusNoContent)
}

func parseReviewPath(w http.ResponseWriter, r *http.Request) (productID, reviewID string, ok bool) {
	pid, ok := httputil.ParseUUID(w, r, "product id", chi.URLParam(r, "productId"))
	if !ok {
		return "", "", false
	}
	rid, ok := httputil.ParseUUID(w, r, "review id", chi.URLParam(r, "id"))
	if !ok {
		return "", "", false
	}
	return pid.String(), rid.String(), true
}
