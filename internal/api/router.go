// Package api exposes the marketplace over HTTP.
package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"assetra/internal/marketplace"
	"assetra/internal/observability"
)

// NewRouter builds the HTTP route tree over the marketplace service.
func NewRouter(svc *marketplace.Service, logger *zap.Logger) http.Handler {
	h := NewHandler(svc, logger)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestMetrics)

	r.Route("/tokens", func(r chi.Router) {
		r.Post("/", h.CreateToken)
		r.Get("/", h.GetTokens)
		r.Get("/listed", h.GetListedTokens)
		r.Get("/nse", h.GetNSETokens)
		r.Post("/{id}/list", h.ListToken)
		r.Get("/{id}/trades", h.GetTokenTrades)
	})

	r.Route("/trades", func(r chi.Router) {
		r.Post("/", h.CreateTrade)
	})

	r.Route("/users", func(r chi.Router) {
		r.Get("/{id}/tokens", h.GetUserTokens)
		r.Get("/{id}/trades", h.GetUserTrades)
	})

	r.Get("/marketplace/search", h.SearchTokens)
	r.Get("/health", h.Health)

	return r
}

// requestMetrics records per-route request durations.
func requestMetrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := chi.RouteContext(r.Context()).RoutePattern()
		if route == "" {
			route = r.URL.Path
		}
		observability.RecordRequest(route, strconv.Itoa(ww.Status()), time.Since(start).Seconds())
	})
}
