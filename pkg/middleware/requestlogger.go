package middleware

import (
	"log/slog"
	"net/http"

	"github.com/jith101/Back-End-Developer-Assignment/pkg/logger"
)

// RequestLogger stores a request-scoped logger in the context, enriched with the
// correlation id, authenticated account, and trace ids. Mount it after
// RequestLogging, Tracing and Authenticate.
func RequestLogger(base *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			if c := ClaimsFromContext(ctx); c != nil {
				ctx = logger.WithActor(ctx, c.UserID, c.Role)
			}
			ctx = logger.NewContext(ctx, logger.WithContext(ctx, base))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
