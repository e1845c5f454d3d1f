// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	repository "github.com/okian/medgraph/internal/adapters/repository"
	"github.com/okian/medgraph/internal/domain/dedupe"
	"github.com/okian/medgraph/internal/domain/model"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	dedupe.Deduper

	// Enqueue pushes an event for async processing. Returns false on backpressure.
	Enqueue(ctx context.Context, e model.Event) bool

	// Read operations expose the recorded median history.
	Latest(ctx context.Context) (Sample, error)
	Recent(ctx context.Context, n int) ([]Sample, error)
}

// Sample mirrors the read shape returned by history queries.
type Sample = repository.Sample

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler    *HealthHandler
	statsHandler     *StatsHandler
	eventsHandler    *EventsHandler
	medianHandler    *MedianHandler
	historyHandler   *HistoryHandler
	dashboardHandler *dashboardHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, maxRecentLimit int) *Server {
	return &Server{
		healthHandler:    NewHealthHandler(),
		statsHandler:     NewStatsHandler(statsProvider),
		eventsHandler:    NewEventsHandler(deps),
		medianHandler:    NewMedianHandler(deps),
		historyHandler:   NewHistoryHandler(deps, maxRecentLimit),
		dashboardHandler: newdashboardHandler(),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	// Specific paths first (most specific to least specific)
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/dashboard", s.dashboardHandler.HandleDashboard)
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/events", MetricsMiddleware(s.eventsHandler.HandlePostEvent, "events"))
	mux.HandleFunc("/median", MetricsMiddleware(s.medianHandler.HandleGetMedian, "median"))
	mux.HandleFunc("/medians", MetricsMiddleware(s.historyHandler.HandleGetMedians, "medians"))
}

// eventRequest mirrors the OpenAPI schema for POST /events.
type eventRequest struct {
	EventID     string `json:"event_id"`
	Actor       string `json:"actor"`
	Target      string `json:"target"`
	CreatedTime string `json:"created_time"`
}

func (e eventRequest) validate() error {
	switch {
	case strings.TrimSpace(e.Actor) == "":
		return errors.New("missing actor")
	case strings.TrimSpace(e.Target) == "":
		return errors.New("missing target")
	case strings.TrimSpace(e.CreatedTime) == "":
		return errors.New("missing created_time")
	}
	if _, err := time.Parse(time.RFC3339, e.CreatedTime); err != nil {
		return errors.New("invalid created_time; must be RFC3339")
	}
	return nil
}

type ackResponse struct {
	Status    string `json:"status"`
	EventID   string `json:"event_id"`
	Duplicate bool   `json:"duplicate"`
}

type medianResponse struct {
	Seq            int64   `json:"seq"`
	EventID        string  `json:"event_id"`
	Median         float64 `json:"median"`
	Accepted       bool    `json:"accepted"`
	ActiveEdges    int     `json:"active_edges"`
	ActiveVertices int     `json:"active_vertices"`
	LatestTS       int64   `json:"latest_ts"`
	WindowFloor    int64   `json:"window_floor"`
}

func toMedianResponse(s Sample) medianResponse {
	return medianResponse{
		Seq:            s.Seq,
		EventID:        s.EventID,
		Median:         s.Median,
		Accepted:       s.Accepted,
		ActiveEdges:    s.ActiveEdges,
		ActiveVertices: s.ActiveVertices,
		LatestTS:       s.LatestTS,
		WindowFloor:    s.WindowFloor,
	}
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}
