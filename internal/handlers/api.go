package handlers

import (
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"tinysteps/internal/clock"
	"tinysteps/internal/security"
	"tinysteps/internal/service"
)

// API is the HTTP gateway over the learning core
type API struct {
	core    *service.Core
	tokens  *security.TokenRegistry
	clock   clock.Clock
	startup *StartupStatus
	logger  *slog.Logger

	middleware *Middleware
	parents    *ParentHandler
	children   *ChildHandler
}

// NewAPI creates the gateway. limiter and startup may be nil.
func NewAPI(core *service.Core, tokens *security.TokenRegistry, limiter *security.RateLimiter, clk clock.Clock, startup *StartupStatus, logger *slog.Logger) *API {
	if clk == nil {
		clk = clock.SystemClock{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	if startup == nil {
		startup = NewStartupStatus()
		startup.MarkReady()
	}

	return &API{
		core:       core,
		tokens:     tokens,
		clock:      clk,
		startup:    startup,
		logger:     logger,
		middleware: NewMiddleware(core.Identity, tokens, limiter),
		parents:    NewParentHandler(core.Identity, tokens),
		children:   NewChildHandler(core.Identity, core.Sessions, core.Deletions),
	}
}

// Routes registers every endpoint on a new mux
func (a *API) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	m := a.middleware

	mux.HandleFunc("GET /health", a.Health)
	mux.Handle("GET /ready", a.startup)
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("POST /api/v1/parent/signup", m.RateLimit(a.parents.Signup))
	mux.HandleFunc("POST /api/v1/parent/login", m.RateLimit(a.parents.Login))
	mux.HandleFunc("POST /api/v1/consent", m.RequireAuth(a.parents.RecordConsent))

	mux.HandleFunc("POST /api/v1/children", m.RequireAuth(a.children.CreateChild))
	mux.HandleFunc("GET /api/v1/children/{childId}/lesson/today", m.RequireAuth(a.children.TodayLesson))
	mux.HandleFunc("POST /api/v1/children/{childId}/session/start", m.RequireAuth(a.children.StartSession))
	mux.HandleFunc("POST /api/v1/children/{childId}/session/complete", m.RequireAuth(a.children.CompleteSession))
	mux.HandleFunc("GET /api/v1/children/{childId}/progress", m.RequireAuth(a.children.Progress))
	mux.HandleFunc("POST /api/v1/children/{childId}/data-deletion-request", m.RequireAuth(a.children.RequestDeletion))

	mux.HandleFunc("GET /api/v1/analytics/events", a.AnalyticsEvents)

	mux.HandleFunc("/api/", func(w http.ResponseWriter, r *http.Request) {
		respondWithError(w, http.StatusNotFound, ErrNotFound, "", nil)
	})

	return mux
}

// Handler returns the routed mux wrapped in request logging
func (a *API) Handler() http.Handler {
	return Logging(a.logger, a.Routes())
}

// Reset clears the learning core and forgets every issued token
func (a *API) Reset() {
	a.core.Reset()
	a.tokens.Reset()
}

type healthResponse struct {
	OK  bool   `json:"ok"`
	Now string `json:"now"`
}

// Health reports liveness
func (a *API) Health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, healthResponse{OK: true, Now: a.clock.Now().Format("2006-01-02T15:04:05.000Z07:00")})
}

// AnalyticsEvents returns the whole event log in order
func (a *API) AnalyticsEvents(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, a.core.Events.Events())
}
