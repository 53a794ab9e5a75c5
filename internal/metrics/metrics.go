package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP metrics for the status server
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "video_upscaler_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "video_upscaler_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "video_upscaler_http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		},
	)
)

// Pipeline run metrics
var (
	RunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "video_upscaler_runs_total",
			Help: "Total number of upscale runs by outcome",
		},
		[]string{"outcome"}, // "completed", "cancelled", "failed"
	)

	RunDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "video_upscaler_run_duration_seconds",
			Help:    "Wall-clock duration of upscale runs",
			Buckets: []float64{1, 5, 10, 30, 60, 120, 300, 600, 1200, 3600},
		},
		[]string{"outcome"},
	)

	RunsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "video_upscaler_runs_active",
			Help: "Number of upscale runs in progress",
		},
	)

	RunStateTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "video_upscaler_run_state_transitions_total",
			Help: "Total number of run state transitions by target state",
		},
		[]string{"state"},
	)

	RunOutputBytes = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "video_upscaler_run_output_bytes",
			Help:    "Artifact size of completed runs in bytes",
			Buckets: prometheus.ExponentialBuckets(1<<20, 4, 8), // 1MB .. 16GB
		},
	)
)

// Frame and chunk metrics
var (
	FramesPumpedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "video_upscaler_frames_pumped_total",
			Help: "Total number of frames rescaled and queued for encoding",
		},
	)

	FramesDroppedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "video_upscaler_frames_dropped_total",
			Help: "Total number of frames dropped because the encoder queue was full",
		},
	)

	ChunksEmittedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "video_upscaler_chunks_emitted_total",
			Help: "Total number of encoded chunks collected",
		},
	)

	ChunkBytes = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "video_upscaler_chunk_bytes",
			Help:    "Size of encoded chunks in bytes",
			Buckets: prometheus.ExponentialBuckets(16<<10, 4, 8), // 16KB .. 256MB
		},
	)
)

// FFmpeg metrics
var (
	FFmpegProcessesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "video_upscaler_ffmpeg_processes_total",
			Help: "Total number of FFmpeg processes started by kind",
		},
		[]string{"kind"}, // "decode", "encode"
	)

	FFmpegProcessesActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "video_upscaler_ffmpeg_processes_active",
			Help: "Number of FFmpeg processes currently running",
		},
	)

	ProbeDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "video_upscaler_probe_duration_seconds",
			Help:    "Metadata probe duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
	)

	ProbeErrorsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "video_upscaler_probe_errors_total",
			Help: "Total number of failed metadata probes",
		},
	)
)

// Filesystem retry metrics
var (
	FilesystemRetryAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "video_upscaler_filesystem_retry_attempts_total",
			Help: "Total number of filesystem operation retries after a stale file handle",
		},
		[]string{"operation"},
	)

	FilesystemRetrySuccess = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "video_upscaler_filesystem_retry_success_total",
			Help: "Total number of filesystem operations that succeeded after retrying",
		},
		[]string{"operation"},
	)

	FilesystemRetryFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "video_upscaler_filesystem_retry_failures_total",
			Help: "Total number of filesystem operations that failed after all retries",
		},
		[]string{"operation"},
	)

	FilesystemStaleErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "video_upscaler_filesystem_stale_errors_total",
			Help: "Total number of stale file handle errors",
		},
		[]string{"operation"},
	)

	FilesystemRetryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "video_upscaler_filesystem_retry_duration_seconds",
			Help:    "Duration of filesystem operations including retries",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"operation"},
	)
)

// Process metrics
var (
	MemoryLimitBytes = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "video_upscaler_memory_limit_bytes",
			Help: "Go runtime soft memory limit in bytes (0 if unlimited)",
		},
	)

	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "video_upscaler_app_info",
			Help: "Application information",
		},
		[]string{"version", "commit", "go_version"},
	)
)

// SetAppInfo sets the application info metric
func SetAppInfo(version, commit, goVersion string) {
	AppInfo.WithLabelValues(version, commit, goVersion).Set(1)
}
