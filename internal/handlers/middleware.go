package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"tinysteps/internal/metrics"
	"tinysteps/internal/security"
	"tinysteps/internal/service"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

const ParentContextKey ContextKey = "parent"

// Middleware holds dependencies for middleware functions
type Middleware struct {
	identity *service.IdentityService
	tokens   *security.TokenRegistry
	limiter  *security.RateLimiter
}

// NewMiddleware creates a new middleware instance. limiter may be nil.
func NewMiddleware(identity *service.IdentityService, tokens *security.TokenRegistry, limiter *security.RateLimiter) *Middleware {
	return &Middleware{
		identity: identity,
		tokens:   tokens,
		limiter:  limiter,
	}
}

// RequireAuth is middleware that requires a bearer token for an existing parent
func (m *Middleware) RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, ok := security.BearerToken(r.Header.Get("Authorization"))
		if !ok {
			respondWithError(w, http.StatusUnauthorized, ErrMissingBearerToken, "", nil)
			return
		}

		parentID, ok := m.tokens.Resolve(token)
		if !ok {
			respondWithError(w, http.StatusUnauthorized, ErrInvalidToken, "", nil)
			return
		}
		if _, err := m.identity.ParentByID(parentID); err != nil {
			respondWithError(w, http.StatusUnauthorized, ErrInvalidToken, "", nil)
			return
		}

		ctx := context.WithValue(r.Context(), ParentContextKey, parentID)
		next(w, r.WithContext(ctx))
	}
}

// RateLimit is middleware that limits requests per client IP
func (m *Middleware) RateLimit(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if m.limiter != nil && !m.limiter.Allow(security.GetClientIP(r)) {
			w.Header().Set("Retry-After", "60")
			respondWithError(w, http.StatusTooManyRequests, ErrTooManyRequests, "", nil)
			return
		}
		next(w, r)
	}
}

// statusRecorder captures the status code written by a handler
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rec *statusRecorder) WriteHeader(status int) {
	rec.status = status
	rec.ResponseWriter.WriteHeader(status)
}

// Logging middleware logs HTTP requests and records request metrics
func Logging(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		// ServeMux records the matched pattern on the request
		route := r.Pattern
		if route == "" {
			route = "unmatched"
		}
		elapsed := time.Since(start)

		metrics.HTTPRequests.WithLabelValues(route, strconv.Itoa(rec.status)).Inc()
		metrics.HTTPDuration.WithLabelValues(route).Observe(elapsed.Seconds())

		logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"route", route,
			"status", rec.status,
			"duration", elapsed,
		)
	})
}

// GetParentIDFromContext retrieves the authenticated parent id from the request context
func GetParentIDFromContext(ctx context.Context) string {
	parentID, _ := ctx.Value(ParentContextKey).(string)
	return parentID
}
