package metrics

// InitializeMetrics pre-populates all expected label combinations so that
// every metric is exported from the first Prometheus scrape.
// Call this once at startup after metric registration.
func InitializeMetrics() {
	for _, outcome := range []string{"completed", "cancelled", "failed"} {
		RunsTotal.WithLabelValues(outcome)
		RunDuration.WithLabelValues(outcome)
	}

	for _, state := range []string{"probing", "ready", "running", "finalizing", "completed", "cancelled", "failed"} {
		RunStateTransitions.WithLabelValues(state)
	}

	for _, kind := range []string{"decode", "encode"} {
		FFmpegProcessesTotal.WithLabelValues(kind)
	}

	for _, op := range []string{"stat", "open", "write"} {
		FilesystemRetryAttempts.WithLabelValues(op)
		FilesystemRetrySuccess.WithLabelValues(op)
		FilesystemRetryFailures.WithLabelValues(op)
		FilesystemStaleErrors.WithLabelValues(op)
		FilesystemRetryDuration.WithLabelValues(op)
	}
}
