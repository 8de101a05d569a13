package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jith101/Back-End-Developer-Assignment/internal/auth"
	"github.com/jith101/Back-End-Developer-Assignment/internal/service"
	"github.com/jith101/Back-End-Developer-Assignment/pkg/health"
	"github.com/jith101/Back-End-Developer-Assignment/pkg/middleware"
)

// RouterDeps holds everything the router mounts.
type RouterDeps struct {
	ProductService *service.ProductService
	ReviewService  *service.ReviewService
	UserService    *service.UserService
	JWTManager     *auth.JWTManager
	Health         *health.Handler

	// HTTPMetrics and MetricsHandler are optional; /metrics is mounted only
	// when MetricsHandler is set.
	HTTPMetrics    *middleware.HTTPMetrics
	MetricsHandler http.Handler

	CORS            middleware.CORSConfig
	PprofCIDRs      []string
	ReviewsPageSize int
	Logger          *slog.Logger
}

// NewRouter creates a chi router with all review service routes registered.
func NewRouter(d RouterDeps) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.CORS(d.CORS))
	r.Use(middleware.Recovery(d.Logger))
	r.Use(middleware.RequestLogging(d.Logger))
	r.Use(middleware.Tracing())
	if d.HTTPMetrics != nil {
		r.Use(d.HTTPMetrics.Middleware)
	}

	// Operational endpoints
	r.Get("/health/live", d.Health.LivenessHandler())
	r.Get("/health/ready", d.Health.ReadinessHandler())
	if d.MetricsHandler != nil {
		r.Handle("/metrics", d.MetricsHandler)
	}
	if len(d.PprofCIDRs) > 0 {
		middleware.RegisterPprof(r, d.PprofCIDRs, d.Logger)
	}

	productHandler := NewProductHandler(d.ProductService, d.ReviewsPageSize, d.Logger)
	reviewHandler := NewReviewHandler(d.ReviewService, d.Logger)
	authHandler := NewAuthHandler(d.UserService, d.Logger)

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Authenticate(TokenValidator(d.JWTManager)))
		r.Use(middleware.RequestLogger(d.Logger))

		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
			r.Post("/refresh", authHandler.RefreshToken)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAuth)
				r.Post("/logout", authHandler.Logout)
				r.Get("/profile", authHandler.GetProfile)
				r.Put("/profile", authHandler.UpdateProfile)
				r.Patch("/profile", authHandler.UpdateProfile)
			})
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", productHandler.ListProducts)
			r.Post("/", productHandler.CreateProduct)
			r.Get("/{id}", productHandler.GetProduct)
			r.Put("/{id}", productHandler.UpdateProduct)
			r.Patch("/{id}", productHandler.UpdateProduct)
			r.Delete("/{id}", productHandler.DeleteProduct)

			r.Get("/{productId}/stats", productHandler.GetProductStats)

			r.Route("/{productId}/reviews", func(r chi.Router) {
				r.Get("/", reviewHandler.ListReviews)
				r.Post("/", reviewHandler.CreateReview)
				r.Get("/{id}", reviewHandler.GetReview)
				r.Put("/{id}", reviewHandler.UpdateReview)
				r.Patch("/{id}", reviewHandler.UpdateReview)
				r.Delete("/{id}", reviewHandler.DeleteReview)
			})
		})
	})

	return r
}

// TokenValidator adapts access-token validation to the Authenticate middleware.
func TokenValidator(jwtManager *auth.JWTManager) middleware.TokenValidator {
	return func(token string) (*middleware.Claims, error) {
		claims, err := jwtManager.ValidateAccessToken(token)
		if err != nil {
			return nil, err
		}
		return &middleware.Claims{
			UserID: claims.UserID,
			Email:  claims.Email,
			Role:   claims.Role,
		}, nil
	}
}
