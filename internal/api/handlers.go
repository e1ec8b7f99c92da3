// Scentmatch - Fragrance Catalog Matching and Recommendation
// Copyright 2026 Scentmatch Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/scentmatch/scentmatch

package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/scentmatch/scentmatch/internal/catalog"
	"github.com/scentmatch/scentmatch/internal/events"
	"github.com/scentmatch/scentmatch/internal/matcher"
	"github.com/scentmatch/scentmatch/internal/metrics"
)

// recommendTimeout bounds one recommendation query end to end,
// including a lazy model build and the external re-rank call.
const recommendTimeout = 10 * time.Second

// Handler serves the API endpoints.
type Handler struct {
	engine *matcher.Engine
	store  *catalog.Store
	bus    *events.Bus
	logger zerolog.Logger
}

// NewHandler creates the API handler.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewHandler(engine *matcher.Engine, store *catalog.Store, bus *events.Bus, logger zerolog.Logger) *Handler {
	return &Handler{
		engine: engine,
		store:  store,
		bus:    bus,
		logger: logger.With().Str("component", "api").Logger(),
	}
}

// Recommend handles POST /api/v1/recommendations.
func (h *Handler) Recommend(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req RecommendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		metrics.RecordRecommendation("bad_request", 0, time.Since(start))
		respondError(w, http.StatusBadRequest, ErrCodeBadRequest, "Invalid JSON body", err)
		return
	}

	if apiErr := validateRequest(&req); apiErr != nil {
		metrics.RecordRecommendation("invalid", 0, time.Since(start))
		respondJSON(w, http.StatusBadRequest, &APIResponse{
			Status:   "error",
			Metadata: Metadata{Timestamp: time.Now()},
			Error:    apiErr,
		})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), recommendTimeout)
	defer cancel()

	recommendation, err := h.engine.Recommend(ctx, req.ToProfile())
	if err != nil {
		metrics.RecordRecommendation("error", 0, time.Since(start))
		if errors.Is(err, matcher.ErrEmptyCatalog) {
			respondError(w, http.StatusConflict, ErrCodeConflict, "Catalog is empty; import fragrances first", err)
			return
		}
		respondError(w, http.StatusInternalServerError, ErrCodeInternalError, "Failed to generate recommendations", err)
		return
	}

	metrics.RecordRecommendation("ok", len(recommendation.Results), time.Since(start))
	respondJSON(w, http.StatusOK, &APIResponse{
		Status: "success",
		Data:   recommendation,
		Metadata: Metadata{
			Timestamp:   time.Now(),
			QueryTimeMS: time.Since(start).Milliseconds(),
		},
	})
}

// Taxonomy handles GET /api/v1/taxonomy. Clients use it to render the
// questionnaire without hardcoding the Persian expansion tables.
func (h *Handler) Taxonomy(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, &APIResponse{
		Status: "success",
		Data: map[string]interface{}{
			"note_categories": matcher.NoteCategories(),
			"tables":          matcher.Taxonomy(),
		},
		Metadata: Metadata{Timestamp: time.Now()},
	})
}

// ListFragrances handles GET /api/v1/fragrances.
func (h *Handler) ListFragrances(w http.ResponseWriter, r *http.Request) {
	items, err := h.store.Snapshot(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, ErrCodeInternalError, "Failed to read catalog", err)
		return
	}

	limit := getIntParam(r, "limit", len(items))
	if limit < len(items) && limit >= 0 {
		items = items[:limit]
	}

	respondJSON(w, http.StatusOK, &APIResponse{
		Status: "success",
		Data: map[string]interface{}{
			"fragrances": items,
			"count":      len(items),
		},
		Metadata: Metadata{Timestamp: time.Now()},
	})
}

// GetFragrance handles GET /api/v1/fragrances/{id}.
func (h *Handler) GetFragrance(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	item, err := h.store.Get(id)
	if errors.Is(err, catalog.ErrNotFound) {
		respondError(w, http.StatusNotFound, ErrCodeNotFound, "Fragrance not found", nil)
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, ErrCodeInternalError, "Failed to read catalog", err)
		return
	}

	respondJSON(w, http.StatusOK, &APIResponse{
		Status:   "success",
		Data:     item,
		Metadata: Metadata{Timestamp: time.Now()},
	})
}

// EngineStatus handles GET /api/v1/engine/status.
func (h *Handler) EngineStatus(w http.ResponseWriter, r *http.Request) {
	requests, errs := h.engine.Stats()

	respondJSON(w, http.StatusOK, &APIResponse{
		Status: "success",
		Data: map[string]interface{}{
			"model":    h.engine.Status(),
			"requests": requests,
			"errors":   errs,
		},
		Metadata: Metadata{Timestamp: time.Now()},
	})
}

// Health handles GET /healthz.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	count, err := h.store.Count()
	if err != nil {
		respondError(w, http.StatusServiceUnavailable, ErrCodeInternalError, "Catalog store unavailable", err)
		return
	}

	respondJSON(w, http.StatusOK, &APIResponse{
		Status: "success",
		Data: map[string]interface{}{
			"healthy":       true,
			"catalog_items": count,
			"model":         h.engine.Status(),
		},
		Metadata: Metadata{Timestamp: time.Now()},
	})
}

// UpsertFragrance handles PUT /api/v1/admin/fragrances/{id}.
func (h *Handler) UpsertFragrance(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req FragranceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, ErrCodeBadRequest, "Invalid JSON body", err)
		return
	}
	if req.ID == "" {
		req.ID = id
	}
	if req.ID != id {
		respondError(w, http.StatusBadRequest, ErrCodeBadRequest, "Body ID does not match URL", nil)
		return
	}

	if apiErr := validateRequest(&req); apiErr != nil {
		respondJSON(w, http.StatusBadRequest, &APIResponse{
			Status:   "error",
			Metadata: Metadata{Timestamp: time.Now()},
			Error:    apiErr,
		})
		return
	}

	item := req.ToFragrance()
	_, getErr := h.store.Get(id)
	created := errors.Is(getErr, catalog.ErrNotFound)

	if err := h.store.Put(item); err != nil {
		respondError(w, http.StatusInternalServerError, ErrCodeInternalError, "Failed to store fragrance", err)
		return
	}

	operation := "update"
	status := http.StatusOK
	if created {
		operation = "create"
		status = http.StatusCreated
	}
	metrics.CatalogMutationsTotal.WithLabelValues(operation).Inc()
	h.publishCatalogUpdate(operation, id)

	respondJSON(w, status, &APIResponse{
		Status:   "success",
		Data:     item,
		Metadata: Metadata{Timestamp: time.Now()},
	})
}

// DeleteFragrance handles DELETE /api/v1/admin/fragrances/{id}.
func (h *Handler) DeleteFragrance(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	err := h.store.Delete(id)
	if errors.Is(err, catalog.ErrNotFound) {
		respondError(w, http.StatusNotFound, ErrCodeNotFound, "Fragrance not found", nil)
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, ErrCodeInternalError, "Failed to delete fragrance", err)
		return
	}

	metrics.CatalogMutationsTotal.WithLabelValues("delete").Inc()
	h.publishCatalogUpdate("delete", id)

	respondJSON(w, http.StatusOK, &APIResponse{
		Status:   "success",
		Data:     map[string]string{"deleted": id},
		Metadata: Metadata{Timestamp: time.Now()},
	})
}

// Rebuild handles POST /api/v1/admin/rebuild. It rebuilds the model
// synchronously so the caller observes the new model version.
func (h *Handler) Rebuild(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	err := h.engine.Build(r.Context())
	status := h.engine.Status()
	metrics.RecordEngineBuild(err, time.Since(start), status.ModelVersion, status.VocabularySize, status.Documents)
	if err != nil {
		if errors.Is(err, matcher.ErrEmptyCatalog) {
			respondError(w, http.StatusConflict, ErrCodeConflict, "Catalog is empty; import fragrances first", err)
			return
		}
		respondError(w, http.StatusInternalServerError, ErrCodeInternalError, "Model rebuild failed", err)
		return
	}

	respondJSON(w, http.StatusOK, &APIResponse{
		Status:   "success",
		Data:     status,
		Metadata: Metadata{Timestamp: time.Now()},
	})
}

// publishCatalogUpdate notifies the rebuild service. Losing the event is
// tolerable: the model refreshes on the next mutation or manual rebuild.
func (h *Handler) publishCatalogUpdate(operation, id string) {
	if h.bus == nil {
		return
	}
	event := events.CatalogUpdated{Operation: operation, FragranceID: id}
	if err := h.bus.PublishCatalogUpdated(event); err != nil {
		h.logger.Warn().Err(err).Str("operation", operation).Msg("publishing catalog update failed")
	}
}
