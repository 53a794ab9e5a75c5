package handlers

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"video-upscaler/internal/middleware"
)

// ProcessCounter reports running FFmpeg processes.
type ProcessCounter interface {
	ActiveProcesses() int
}

type Handlers struct {
	tracker   *RunTracker
	processes ProcessCounter
	startTime time.Time
}

func New(tracker *RunTracker, processes ProcessCounter) *Handlers {
	return &Handlers{
		tracker:   tracker,
		processes: processes,
		startTime: time.Now(),
	}
}

// MetricsHandler returns the Prometheus metrics handler
func (h *Handlers) MetricsHandler() http.Handler {
	return promhttp.Handler()
}

// Router registers every status endpoint behind the request logging and
// metrics middleware.
func (h *Handlers) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(middleware.Logger(middleware.DefaultLoggingConfig()))
	r.Use(middleware.Metrics(middleware.DefaultMetricsConfig()))

	r.Handle("/metrics", h.MetricsHandler()).Methods(http.MethodGet).Name("metrics")
	r.HandleFunc("/health", h.HealthCheck).Methods(http.MethodGet, http.MethodHead).Name("health")
	r.HandleFunc("/livez", h.LivenessCheck).Methods(http.MethodGet, http.MethodHead).Name("livez")
	r.HandleFunc("/status", h.Status).Methods(http.MethodGet).Name("status")
	return r
}
