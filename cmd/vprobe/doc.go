// Package main provides vprobe, a metadata tool for upscaler sources.
//
// vprobe reads source metadata with ffprobe, the same way video-upscaler
// does before a run, without starting any encode.
//
// # Usage
//
//	vprobe <command> <file>...
//
// Commands:
//
//	info      Print dimensions, duration, frame rate and audio presence
//	json      Print the metadata as JSON, one object per line
//	estimate  Print the expected output size at every resolution tier
//
// Files are probed concurrently. The exit status is 1 if any file fails.
//
// # Environment
//
//   - FFPROBE_PATH: ffprobe binary (default: from PATH)
//   - VPROBE_BITRATE: bitrate in Mbps used by estimate (default: 20)
package main
