// Package startup handles configuration loading and startup/shutdown
// logging for the video-upscaler CLI.
//
// # Configuration
//
// All configuration is loaded from environment variables via [LoadConfig];
// command-line flags override it per invocation. The following environment
// variables are supported:
//
//   - FFMPEG_PATH: ffmpeg binary (default: ffmpeg)
//   - FFPROBE_PATH: ffprobe binary (default: ffprobe)
//   - CHUNK_INTERVAL: how often encoder output is collected, as a Go duration (default: 1s)
//   - FRAME_QUEUE: encoder queue depth in frames, 0 for automatic (default: 0)
//   - SCALER: frame interpolator - nearest, approxbilinear, bilinear, catmullrom (default: bilinear)
//   - OUTPUT_DIR: directory for upscaled files (default: .)
//   - KEEP_AUDIO: carry the source audio track into the output (default: true)
//   - ENCODER_THREADS: FFmpeg thread count (default: GOMAXPROCS)
//   - METRICS_ENABLED: serve /metrics, /health and /status while running (default: false)
//   - METRICS_PORT: status server port (default: 9090)
//   - LOG_LEVEL: debug, info, warn, error (default: info)
//   - MEMORY_LIMIT, MEMORY_RATIO, GOMEMLIMIT: see internal/memory
//
// # Build Information
//
// Build-time variables are injected via ldflags and exposed via [GetBuildInfo]:
//   - Version: Application version
//   - Commit: Git commit hash
//   - BuildTime: Build timestamp
//   - GoVersion: Go compiler version
//
// # Example Usage
//
//	config, err := startup.LoadConfig()
//	if err != nil {
//	    startup.LogFatal("Configuration error: %v", err)
//	}
//	if err := startup.CheckTools(config, true); err != nil {
//	    startup.LogFatal("%v", err)
//	}
package startup
