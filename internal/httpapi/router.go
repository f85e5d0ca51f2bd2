package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// RouterDeps collects everything NewRouter needs to wire the engine.
type RouterDeps struct {
	Engine          BacktestEngine
	Runner          SweepRunner
	Tokens          *TokenService
	WebSocketOrigin string
	SweepStore      SweepStore // optional; nil disables sweep result persistence
}

// NewRouter builds the chi router exposing the backtest HTTP API:
// POST /v1/backtests and POST /v1/sweeps behind bearer auth, and the
// unauthenticated-at-upgrade (token carried in the query string instead)
// sweep progress stream.
func NewRouter(d RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin == "" {
				origin = "*"
			}
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusOK)
				return
			}
			next.ServeHTTP(w, r)
		})
	})
	r.Use(SecurityHeaders)
	r.Use(RateLimit)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	h := NewHandler(d.Engine, d.Runner, d.SweepStore)
	stream := newSweepStreamHandler(h.registry, d.Tokens, d.WebSocketOrigin)

	r.Route("/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(RequireAuth(d.Tokens))
			r.Post("/backtests", h.handleCreateBacktest)
			r.Post("/sweeps", h.handleCreateSweep)
		})
		r.Get("/sweeps/{id}/stream", stream.ServeHTTP)
	})

	return r
}
