package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"video-upscaler/internal/handlers"
	"video-upscaler/internal/logging"
	"video-upscaler/internal/memory"
	"video-upscaler/internal/metrics"
	"video-upscaler/internal/startup"
	"video-upscaler/internal/transcoder"
)

const (
	collectorInterval = 5 * time.Second
	shutdownTimeout   = 5 * time.Second
)

// statusServer is the optional metrics and status endpoint.
type statusServer struct {
	srv       *http.Server
	collector *metrics.Collector
}

// startStatusServer serves /metrics, /health, /livez and /status on port
// and starts the process metrics collector.
func startStatusServer(port string, tracker *handlers.RunTracker, trans *transcoder.Transcoder) *statusServer {
	metrics.InitializeMetrics()
	metrics.SetAppInfo(startup.Version, startup.Commit, startup.GoVersion)

	collector := metrics.NewCollector(metrics.StatsFunc(func() metrics.Stats {
		return metrics.Stats{
			ActiveProcesses: trans.ActiveProcesses(),
			MemoryLimit:     memory.CurrentLimit(),
		}
	}), collectorInterval)
	collector.Start()

	h := handlers.New(tracker, trans)
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           h.Router(),
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Error("Status server error: %v", err)
		}
	}()
	startup.LogMetricsServerStarted(port)

	return &statusServer{srv: srv, collector: collector}
}

func (s *statusServer) shutdown() {
	startup.LogShutdownStep("Stopping metrics collector")
	s.collector.Stop()
	startup.LogShutdownStepComplete("Metrics collector stopped")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	startup.LogShutdownStep("Shutting down status server")
	if err := s.srv.Shutdown(ctx); err != nil {
		logging.Warn("Status server shutdown error: %v", err)
		return
	}
	startup.LogShutdownStepComplete("Status server stopped")
}
