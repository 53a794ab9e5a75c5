// Package metrics provides Prometheus instrumentation for video-upscaler.
//
// All metrics are prefixed with "video_upscaler_". They are served by the
// optional status server (see internal/handlers) when METRICS_ENABLED is set.
//
// # Metric Categories
//
// ## Run Metrics
//
// Track upscale runs end to end:
//   - RunsTotal: Counter of runs by outcome (completed/cancelled/failed)
//   - RunDuration: Histogram of run wall-clock time by outcome
//   - RunsActive: Gauge of runs in progress
//   - RunStateTransitions: Counter of state transitions by target state
//   - RunOutputBytes: Histogram of artifact sizes
//
// ## Frame Metrics
//
//   - FramesPumpedTotal: Counter of frames rescaled and queued
//   - FramesDroppedTotal: Counter of frames dropped while the encoder was behind
//   - ChunksEmittedTotal, ChunkBytes: encoded chunk count and size
//
// ## FFmpeg Metrics
//
//   - FFmpegProcessesTotal: Counter of processes started by kind (decode/encode)
//   - FFmpegProcessesActive: Gauge sampled by the Collector
//   - ProbeDuration, ProbeErrorsTotal: ffprobe timing and failures
//
// ## Filesystem Metrics
//
// Stale NFS handle retries on the probe open and artifact write, by operation.
//
// ## HTTP Metrics
//
// Requests to the status server itself.
//
// # Observers
//
// The pipeline, transcoder and filesystem packages do not import this
// package. They expose Observer interfaces which this package implements;
// main wires them at startup:
//
//	filesystem.SetObserver(metrics.NewFilesystemObserver())
//	transcoder.SetObserver(metrics.NewTranscoderObserver())
//	cfg.Observer = metrics.NewPipelineObserver()
package metrics
