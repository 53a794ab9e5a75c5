package metrics

import (
	"time"

	"video-upscaler/internal/filesystem"
	"video-upscaler/internal/pipeline"
	"video-upscaler/internal/transcoder"
)

// filesystemObserver implements filesystem.Observer using the Prometheus
// metrics declared in this package.
type filesystemObserver struct{}

// NewFilesystemObserver creates an observer that records filesystem metrics
// into the Prometheus counters and histograms declared in metrics.go.
func NewFilesystemObserver() filesystem.Observer {
	return &filesystemObserver{}
}

func (o *filesystemObserver) ObserveRetryAttempt(op string) {
	FilesystemRetryAttempts.WithLabelValues(op).Inc()
}

func (o *filesystemObserver) ObserveRetrySuccess(op string) {
	FilesystemRetrySuccess.WithLabelValues(op).Inc()
}

func (o *filesystemObserver) ObserveRetryFailure(op string) {
	FilesystemRetryFailures.WithLabelValues(op).Inc()
}

func (o *filesystemObserver) ObserveRetryDuration(op string, durationSeconds float64) {
	FilesystemRetryDuration.WithLabelValues(op).Observe(durationSeconds)
}

func (o *filesystemObserver) ObserveStaleError(op string) {
	FilesystemStaleErrors.WithLabelValues(op).Inc()
}

// transcoderObserver implements transcoder.Observer.
type transcoderObserver struct{}

// NewTranscoderObserver creates an observer that records FFmpeg process and
// probe metrics.
func NewTranscoderObserver() transcoder.Observer {
	return &transcoderObserver{}
}

func (o *transcoderObserver) ProcessStarted(kind string) {
	FFmpegProcessesTotal.WithLabelValues(kind).Inc()
}

// ProcessExited is a no-op; the active gauge is sampled by the Collector.
func (o *transcoderObserver) ProcessExited(string) {}

func (o *transcoderObserver) ObserveProbe(durationSeconds float64, err error) {
	ProbeDuration.Observe(durationSeconds)
	if err != nil {
		ProbeErrorsTotal.Inc()
	}
}

// PipelineObserver implements pipeline.Observer.
type PipelineObserver struct{}

var _ pipeline.Observer = PipelineObserver{}

// NewPipelineObserver creates an observer that records run, frame and chunk
// metrics.
func NewPipelineObserver() PipelineObserver {
	return PipelineObserver{}
}

func (PipelineObserver) RunStarted(string) {
	RunsActive.Inc()
}

func (PipelineObserver) StateChanged(_ string, _, to pipeline.State) {
	RunStateTransitions.WithLabelValues(to.String()).Inc()
}

func (PipelineObserver) FramePumped() {
	FramesPumpedTotal.Inc()
}

func (PipelineObserver) FrameDropped() {
	FramesDroppedTotal.Inc()
}

func (PipelineObserver) ChunkEmitted(bytes int) {
	ChunksEmittedTotal.Inc()
	ChunkBytes.Observe(float64(bytes))
}

func (PipelineObserver) RunFinished(_ string, outcome pipeline.State, elapsed time.Duration, outputBytes int64) {
	RunsActive.Dec()
	label := outcome.String()
	if !outcome.Terminal() {
		label = "failed"
	}
	RunsTotal.WithLabelValues(label).Inc()
	RunDuration.WithLabelValues(label).Observe(elapsed.Seconds())
	if outcome == pipeline.StateCompleted {
		RunOutputBytes.Observe(float64(outputBytes))
	}
}
