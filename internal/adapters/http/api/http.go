// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/okian/activities/internal/domain/activity"
	"github.com/okian/activities/pkg/logger"
	"github.com/okian/activities/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	ListActivities(ctx context.Context) (activity.Catalog, error)
	Signup(ctx context.Context, name, email string) (string, error)
	Unregister(ctx context.Context, name, email string) (string, error)
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler     *HealthHandler
	statsHandler      *StatsHandler
	activitiesHandler *ActivitiesHandler
	logger            logger.Logger
}

// ServerOption configures a Server.
type ServerOption func(*serverOptions)

type serverOptions struct {
	logger   logger.Logger
	gatherer prometheus.Gatherer
}

// WithLogger sets the logger used by handlers and middleware.
func WithLogger(l logger.Logger) ServerOption {
	return func(o *serverOptions) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithGatherer sets the registry served on /metrics.
func WithGatherer(g prometheus.Gatherer) ServerOption {
	return func(o *serverOptions) {
		if g != nil {
			o.gatherer = g
		}
	}
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, opts ...ServerOption) *Server {
	o := &serverOptions{
		logger:   logger.Discard(),
		gatherer: metrics.GetRegistry(),
	}
	for _, opt := range opts {
		opt(o)
	}

	return &Server{
		healthHandler:     NewHealthHandler(o.gatherer),
		statsHandler:      NewStatsHandler(statsProvider),
		activitiesHandler: NewActivitiesHandler(deps, o.logger),
		logger:            o.logger,
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}

	mux.HandleFunc("GET /healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("GET /metrics", s.healthHandler.HandleMetrics)
	mux.HandleFunc("GET /stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("GET /activities", MetricsMiddleware(s.activitiesHandler.HandleList, "activities"))
	mux.HandleFunc("POST /activities/{activity}/signup", MetricsMiddleware(s.activitiesHandler.HandleSignup, "signup"))
	mux.HandleFunc("DELETE /activities/{activity}/participants", MetricsMiddleware(s.activitiesHandler.HandleUnregister, "unregister"))
}

// Handler wraps next with request-id and access-log middleware.
func (s *Server) Handler(next http.Handler) http.Handler {
	return RequestIDMiddleware(AccessLogMiddleware(s.logger, next))
}

type messageResponse struct {
	Message string `json:"message"`
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

func writeError(w http.ResponseWriter, status int, code string, msg string) {
	if strings.TrimSpace(msg) == "" {
		msg = http.StatusText(status)
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// classify maps an error to status, code and client message. Registry
// rejections are client errors and all surface as 400.
func classify(err error) (int, string, string) {
	switch {
	case errors.Is(err, ErrBadRequest):
		return http.StatusBadRequest, "bad_request", detail(err)
	case errors.Is(err, activity.ErrActivityNotFound):
		return http.StatusBadRequest, "activity_not_found", "Activity not found"
	case errors.Is(err, activity.ErrAlreadySignedUp):
		return http.StatusBadRequest, "already_signed_up", "Student is already signed up for this activity"
	case errors.Is(err, activity.ErrNotSignedUp):
		return http.StatusBadRequest, "not_signed_up", "Student is not signed up for this activity"
	case errors.Is(err, activity.ErrActivityFull):
		return http.StatusBadRequest, "activity_full", "Activity is full"
	default:
		return http.StatusInternalServerError, "internal_error", http.StatusText(http.StatusInternalServerError)
	}
}
