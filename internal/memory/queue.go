package memory

const (
	// DefaultFrameQueue is used when no memory limit is known.
	DefaultFrameQueue = 4
	// MaxFrameQueue caps the queue regardless of available memory. Deeper
	// queues only add latency; a slow encoder stays slow.
	MaxFrameQueue = 8
	// FrameBudgetRatio is the share of the memory limit frame buffers may use.
	FrameBudgetRatio = 0.25

	// buffers outside the queue: one being filled by the pump, one being
	// written by the encoder.
	inFlightBuffers = 2
)

// FrameQueueDepth returns how many output frames of frameBytes each may be
// queued for the encoder under the given memory limit. A limit of 0 means
// unknown and yields DefaultFrameQueue. The result is always between 1 and
// MaxFrameQueue.
func FrameQueueDepth(frameBytes, limit int64) int {
	if limit <= 0 || frameBytes <= 0 {
		return DefaultFrameQueue
	}

	budget := int64(float64(limit) * FrameBudgetRatio)
	depth := int(budget/frameBytes) - inFlightBuffers

	if depth < 1 {
		return 1
	}
	if depth > MaxFrameQueue {
		return MaxFrameQueue
	}
	return depth
}
