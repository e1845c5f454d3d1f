// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	repository "github.com/okian/medgraph/internal/adapters/repository"
)

// MedianDependencies defines the interface for median read operations
type MedianDependencies interface {
	Latest(ctx context.Context) (Sample, error)
}

// MedianHandler handles current-median requests
type MedianHandler struct {
	deps MedianDependencies
}

// NewMedianHandler creates a new median handler
func NewMedianHandler(deps MedianDependencies) *MedianHandler {
	return &MedianHandler{deps: deps}
}

// HandleGetMedian handles GET /median requests
func (h *MedianHandler) HandleGetMedian(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_median"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	s, err := h.deps.Latest(r.Context())
	if err != nil {
		if errors.Is(err, repository.ErrNoSamples) {
			writeError(w, http.StatusNotFound, "no_samples", Wrap(op, err))
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, toMedianResponse(s))
}

// HistoryDependencies defines the interface for history read operations
type HistoryDependencies interface {
	Recent(ctx context.Context, n int) ([]Sample, error)
}

// HistoryHandler handles median-history requests
type HistoryHandler struct {
	deps     HistoryDependencies
	maxLimit int
}

// NewHistoryHandler creates a new history handler
func NewHistoryHandler(deps HistoryDependencies, maxLimit int) *HistoryHandler {
	return &HistoryHandler{
		deps:     deps,
		maxLimit: maxLimit,
	}
}

// HandleGetMedians handles GET /medians?limit=N requests
func (h *HistoryHandler) HandleGetMedians(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_medians"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	limitStr := r.URL.Query().Get("limit")
	n, err := strconv.Atoi(limitStr)
	if err != nil || n < 1 {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	if n > h.maxLimit {
		writeError(w, http.StatusBadRequest, "limit_exceeded", NewKind(op, ErrBadRequest))
		return
	}
	samples, err := h.deps.Recent(r.Context(), n)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	out := make([]medianResponse, 0, len(samples))
	for _, s := range samples {
		out = append(out, toMedianResponse(s))
	}
	writeJSON(w, http.StatusOK, out)
}
