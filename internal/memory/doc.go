// Package memory sizes the upscaler's memory use in containerized environments.
//
// # GOMEMLIMIT
//
// Go applications can be OOM-killed if they exceed their container memory
// limit. Unlike GOMAXPROCS, GOMEMLIMIT is not derived from cgroups, so
// [ConfigureFromEnv] sets it from the Kubernetes Downward API:
//
//   - GOMEMLIMIT: Standard Go environment variable. If set, takes precedence.
//   - MEMORY_LIMIT: Container memory limit in bytes.
//   - MEMORY_RATIO: Fraction of MEMORY_LIMIT given to the Go heap (default
//     0.85). FFmpeg decoder and encoder processes live outside the heap, so
//     lower this when transcoding large resolutions.
//
// # Frame queue depth
//
// Every queued frame between the pump and the encoder is a full RGBA buffer
// of the output size: 33 MB at 4K, 133 MB at 8K. [FrameQueueDepth] picks how
// many frames may wait for the encoder before new frames are dropped, so that
// the buffers fit in a quarter of the memory limit.
package memory
