// Scentmatch - Fragrance Catalog Matching and Recommendation
// Copyright 2026 Scentmatch Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/scentmatch/scentmatch

package api

import (
	"context"
	"crypto/subtle"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/scentmatch/scentmatch/internal/metrics"
)

// requestIDHeader is the response header carrying the request ID.
const requestIDHeader = "X-Request-ID"

// adminKeyHeader authenticates admin endpoints.
const adminKeyHeader = "X-Admin-Key"

// RequestID assigns a UUID to each request, honoring an inbound
// X-Request-ID when the client supplies one.
func RequestID() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := r.Header.Get(requestIDHeader)
			if requestID == "" {
				requestID = uuid.NewString()
			}
			w.Header().Set(requestIDHeader, requestID)

			ctx := context.WithValue(r.Context(), chimiddleware.RequestIDKey, requestID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequestLogger logs each request and records the API metrics. The
// route pattern is used as the endpoint label so path parameters do not
// explode metric cardinality.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func RequestLogger(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			endpoint := chi.RouteContext(r.Context()).RoutePattern()
			if endpoint == "" {
				endpoint = r.URL.Path
			}
			duration := time.Since(start)
			metrics.RecordAPIRequest(r.Method, endpoint, strconv.Itoa(ww.Status()), duration)

			logger.Info().
				Str("method", r.Method).
				Str("path", sanitizeLogValue(r.URL.Path)).
				Int("status", ww.Status()).
				Dur("duration", duration).
				Str("request_id", chimiddleware.GetReqID(r.Context())).
				Msg("request")
		})
	}
}

// AdminKey requires the X-Admin-Key header to match the configured key.
// With no key configured, admin endpoints are disabled outright.
func AdminKey(key string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if key == "" {
				respondError(w, http.StatusUnauthorized, ErrCodeUnauthorized, "Admin endpoints are not configured", nil)
				return
			}
			supplied := r.Header.Get(adminKeyHeader)
			if subtle.ConstantTimeCompare([]byte(supplied), []byte(key)) != 1 {
				respondError(w, http.StatusUnauthorized, ErrCodeUnauthorized, "Invalid admin key", nil)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
