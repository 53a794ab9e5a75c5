// Package transcoder drives FFmpeg for the upscale pipeline.
//
// It supports:
//   - Source metadata extraction with ffprobe (dimensions, duration, frame rate, audio)
//   - Real-time source playback, decoding to raw RGBA frames at the native rate
//   - Streaming VP9/WebM and H.264/MP4 encoding from raw frames, read back as it is muxed
//   - Tracking of every running FFmpeg process for shutdown cleanup
//
// FFmpeg and ffprobe must be installed. Their paths default to the names
// "ffmpeg" and "ffprobe" resolved through PATH.
package transcoder
