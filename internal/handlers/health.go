package handlers

import (
	"net/http"
	"runtime"
	"time"

	"video-upscaler/internal/startup"
)

const (
	statusHealthy  = "healthy"
	statusFinished = "finished"
)

// HealthResponse contains the health check response
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Uptime  string `json:"uptime"`
	State   string `json:"state"`

	FFmpegProcesses int `json:"ffmpegProcesses"`

	// System info
	GoVersion    string `json:"goVersion"`
	NumCPU       int    `json:"numCpu"`
	NumGoroutine int    `json:"numGoroutine"`
}

// HealthCheck returns the health status of the process. It reports
// "finished" once the run has reached a terminal state.
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	snapshot := h.tracker.Snapshot()

	response := HealthResponse{
		Status:       statusHealthy,
		Version:      startup.Version,
		Uptime:       time.Since(h.startTime).Round(time.Second).String(),
		State:        snapshot.State,
		GoVersion:    runtime.Version(),
		NumCPU:       runtime.NumCPU(),
		NumGoroutine: runtime.NumGoroutine(),
	}
	if h.processes != nil {
		response.FFmpegProcesses = h.processes.ActiveProcesses()
	}
	switch snapshot.State {
	case "completed", "cancelled", "failed":
		response.Status = statusFinished
	}

	respondJSON(w, r, http.StatusOK, response)
}

// LivenessCheck is a simple liveness probe (always returns 200 if server is running)
func (h *Handlers) LivenessCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, r, http.StatusOK, map[string]string{"status": "alive"})
}
