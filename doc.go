// Package main provides the video-upscaler command.
//
// video-upscaler plays a source video at its native rate, rescales every
// decoded frame to a target resolution tier and re-encodes the stream to
// WebM (VP9/Opus) or MP4 (H.264/Opus) while it plays. The result is written
// once the run completes.
//
// # Usage
//
//	video-upscaler [flags] <input>
//
//	video-upscaler clip.mp4                          # 1080p, 20 Mbps, webm
//	video-upscaler -r 4k -b 40 -f mp4 clip.mov       # 4K H.264
//	video-upscaler --poster thumb.jpg clip.mkv       # also save a poster
//	video-upscaler --probe clip.mp4                  # print metadata only
//
// # Application Lifecycle
//
//  1. Memory Configuration: sets GOMEMLIMIT from MEMORY_LIMIT/MEMORY_RATIO
//  2. Configuration Loading: reads environment variables, flags override
//  3. Tool Check: verifies ffprobe and ffmpeg can be run
//  4. Status Server (optional): /metrics, /health, /livez and /status
//  5. Run: probe, fit, encode while playing, finalize
//  6. Output: atomic write to OUTPUT_DIR/upscaled-<resolution>.<ext>
//
// # Cancellation
//
// SIGINT or SIGTERM cancels the run. Cancellation is not a failure: no output
// is written and the command exits with status 130.
//
// # Exit Status
//
//   - 0: success
//   - 1: probe, encoder or runtime failure
//   - 2: invalid command line
//   - 130: cancelled
//
// # Environment Variables
//
//   - FFMPEG_PATH, FFPROBE_PATH: codec binaries (default: from PATH)
//   - CHUNK_INTERVAL: encoder output collection interval (default: 1s)
//   - FRAME_QUEUE: encoder queue depth, 0 sizes it from the memory limit
//   - SCALER: nearest, approxbilinear, bilinear or catmullrom
//   - OUTPUT_DIR: directory for the default output name (default: .)
//   - KEEP_AUDIO: multiplex the source audio track (default: true)
//   - ENCODER_THREADS: ffmpeg thread count (default: GOMAXPROCS)
//   - METRICS_ENABLED, METRICS_PORT: status server (default: false, 9090)
//   - LOG_LEVEL: debug, info, warn or error
//   - GOMEMLIMIT, MEMORY_LIMIT, MEMORY_RATIO: memory budget
//
// # Related Packages
//
//   - [video-upscaler/internal/pipeline]: run orchestration
//   - [video-upscaler/internal/transcoder]: FFmpeg probe, source and encoder
//   - [video-upscaler/internal/geometry]: aspect-fit scaling math
//   - [video-upscaler/internal/resolution]: resolution tiers
//   - [video-upscaler/internal/handlers]: status server endpoints
//   - [video-upscaler/internal/startup]: configuration and initialization
package main
