package http

import (
	"net/http"
	"time"

	"github.com/jith101/Back-End-Developer-Assignment/internal/domain"
	"github.com/jith101/Back-End-Developer-Assignment/internal/policy"
	"github.com/jith101/Back-End-Developer-Assignment/pkg/middleware"
	"github.com/jith101/Back-End-Developer-Assignment/pkg/pagination"
)

// --- Response DTOs ---

// ProductSummaryResponse is a product as listed.
type ProductSummaryResponse struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Price         string  `json:"price"`
	AverageRating float64 `json:"average_rating"`
	ReviewCount   int     `json:"review_count"`
}

// ProductResponse is a product with its description, owner and timestamps.
type ProductResponse struct {
	ID            string              `json:"id"`
	Name          string              `json:"name"`
	Description   string              `json:"description"`
	Price         string              `json:"price"`
	CreatedAt     time.Time           `json:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at"`
	CreatedBy     *domain.UserSummary `json:"created_by"`
	AverageRating float64             `json:"average_rating"`
	ReviewCount   int                 `json:"review_count"`
}

// ProductDetailResponse adds one page of the product's reviews.
type ProductDetailResponse struct {
	ProductResponse
	Reviews pagination.Page[ReviewResponse] `json:"reviews"`
}

// ReviewResponse is a review as seen by the caller. CanEdit reports whether the
// caller may update or delete it.
type ReviewResponse struct {
	ID        string              `json:"id"`
	Product   string              `json:"product"`
	User      *domain.UserSummary `json:"user"`
	Rating    int                 `json:"rating"`
	Comment   string              `json:"comment"`
	CreatedAt time.Time           `json:"created_at"`
	UpdatedAt time.Time           `json:"updated_at"`
	CanEdit   bool                `json:"can_edit"`
}

// StatsResponse is the rating aggregate of a product.
type StatsResponse struct {
	ProductID          string      `json:"product_id"`
	ProductName        string      `json:"product_name"`
	TotalReviews       int         `json:"total_reviews"`
	AverageRating      float64     `json:"average_rating"`
	RatingDistribution map[int]int `json:"rating_distribution"`
}

// AuthResponse is returned by register and login.
type AuthResponse struct {
	Access  string       `json:"access"`
	Refresh string       `json:"refresh"`
	User    *domain.User `json:"user"`
}

func toProductSummary(s domain.ProductSummary) ProductSummaryResponse {
	return ProductSummaryResponse{
		ID:            s.ID,
		Name:          s.Name,
		Price:         domain.FormatPrice(s.Price),
		AverageRating: s.Stats.DisplayAverage(),
		ReviewCount:   s.Stats.Count,
	}
}

func toProduct(p *domain.Product, stats domain.RatingStats) ProductResponse {
	return ProductResponse{
		ID:            p.ID,
		Name:          p.Name,
		Description:   p.Description,
		Price:         domain.FormatPrice(p.Price),
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
		CreatedBy:     p.Creator,
		AverageRating: stats.DisplayAverage(),
		ReviewCount:   stats.Count,
	}
}

func toReview(r domain.Review, actor domain.Actor) ReviewResponse {
	return ReviewResponse{
		ID:        r.ID,
		Product:   r.ProductID,
		User:      r.Author,
		Rating:    r.Rating,
		Comment:   r.Comment,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
		CanEdit:   policy.CanEdit(actor, &r),
	}
}

func toStats(s *domain.ProductStats) StatsResponse {
	return StatsResponse{
		ProductID:          s.ProductID,
		ProductName:        s.ProductName,
		TotalReviews:       s.Count,
		AverageRating:      s.DisplayAverage(),
		RatingDistribution: s.Distribution,
	}
}

// actorFrom returns the authenticated caller, or the anonymous actor.
func actorFrom(r *http.Request) domain.Actor {
	c := middleware.ClaimsFromContext(r.Context())
	if c == nil {
		return domain.Anonymous()
	}
	return domain.Actor{UserID: c.UserID, Email: c.Email, Role: c.Role}
}
