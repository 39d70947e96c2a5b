package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	mw "github.com/kiranshivaraju/askbetter/internal/api/middleware"
	"github.com/kiranshivaraju/askbetter/internal/api/response"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Dependencies holds all handler and middleware dependencies for the router.
// A nil RateLimit or StatsAuth disables that middleware.
type Dependencies struct {
	RateLimit *mw.RateLimit
	StatsAuth *mw.Auth

	HealthHandler       http.HandlerFunc
	AnalyzeHandler      http.HandlerFunc
	RulesHandler        http.HandlerFunc
	ConversationHandler http.HandlerFunc
	SubmitHandler       http.HandlerFunc
	StatsHandler        http.HandlerFunc
}

// NewRouter builds the Chi router with middleware stack and all routes.
func NewRouter(deps Dependencies) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RealIP)
	r.Use(mw.ClientID)
	r.Use(mw.Logger)
	r.Use(mw.Recovery)

	r.Get("/api/v1/health", orNotImplemented(deps.HealthHandler))
	r.Get("/api/v1/rules", orNotImplemented(deps.RulesHandler))
	r.Get("/api/v1/conversation", orNotImplemented(deps.ConversationHandler))
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	// Rate-limited writes
	r.Group(func(r chi.Router) {
		r.Use(deps.RateLimit.Limit)

		r.Post("/api/v1/analyze", orNotImplemented(deps.AnalyzeHandler))
		r.Post("/api/v1/conversation/messages", orNotImplemented(deps.SubmitHandler))
	})

	// Operator routes
	r.Group(func(r chi.Router) {
		r.Use(deps.StatsAuth.Authenticate)

		r.Get("/api/v1/stats", orNotImplemented(deps.StatsHandler))
	})

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		response.Error(w, http.StatusNotFound, "NOT_FOUND", "Route not found", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		response.Error(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed", nil)
	})

	return r
}

// orNotImplemented returns the handler if non-nil, or a 501 placeholder.
func orNotImplemented(h http.HandlerFunc) http.HandlerFunc {
	if h != nil {
		return h
	}
	return func(w http.ResponseWriter, r *http.Request) {
		response.Error(w, http.StatusNotImplemented, "NOT_IMPLEMENTED", "Endpoint not yet implemented", nil)
	}
}
