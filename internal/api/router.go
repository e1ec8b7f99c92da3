// Scentmatch - Fragrance Catalog Matching and Recommendation
// Copyright 2026 Scentmatch Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/scentmatch/scentmatch

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// RouterConfig holds the router-level settings.
type RouterConfig struct {
	// RateLimitRequests per RateLimitWindow, keyed by client IP.
	// Zero disables rate limiting.
	RateLimitRequests int
	RateLimitWindow   time.Duration

	CORSAllowedOrigins []string

	// AdminKey guards the admin subtree. Empty disables admin access.
	AdminKey string
}

// NewRouter assembles the HTTP routes.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewRouter(handler *Handler, cfg RouterConfig, logger zerolog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(RequestID())
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORSAllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", adminKeyHeader, requestIDHeader},
		MaxAge:         300,
	}))
	r.Use(RequestLogger(logger))

	r.Get("/healthz", handler.Health)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		if cfg.RateLimitRequests > 0 {
			r.Use(httprate.Limit(
				cfg.RateLimitRequests,
				cfg.RateLimitWindow,
				httprate.WithKeyFuncs(httprate.KeyByIP),
			))
		}

		r.Post("/recommendations", handler.Recommend)
		r.Get("/taxonomy", handler.Taxonomy)
		r.Get("/fragrances", handler.ListFragrances)
		r.Get("/fragrances/{id}", handler.GetFragrance)
		r.Get("/engine/status", handler.EngineStatus)

		r.Route("/admin", func(r chi.Router) {
			r.Use(AdminKey(cfg.AdminKey))

			r.Put("/fragrances/{id}", handler.UpsertFragrance)
			r.Delete("/fragrances/{id}", handler.DeleteFragrance)
			r.Post("/rebuild", handler.Rebuild)
		})
	})

	return r
}
