package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"

	"video-upscaler/internal/media"
	"video-upscaler/internal/mediatypes"
	"video-upscaler/internal/resolution"
	"video-upscaler/internal/transcoder"
	"video-upscaler/internal/workers"
)

const (
	// Default timeout for a single probe
	defaultTimeout = 30 * time.Second
	defaultBitrate = 20
	// Cap on concurrent ffprobe processes
	maxWorkers = 8
)

type prober interface {
	Probe(ctx context.Context, path string) (*media.VideoInfo, error)
}

// probeResult is one probed file.
type probeResult struct {
	Path  string           `json:"path"`
	Info  *media.VideoInfo `json:"info,omitempty"`
	Error string           `json:"error,omitempty"`
	err   error
}

func main() {
	if len(os.Args) < 3 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	paths := os.Args[2:]

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	trans := transcoder.New(transcoder.Config{FFprobePath: os.Getenv("FFPROBE_PATH")})

	var render func(io.Writer, probeResult)
	switch command {
	case "info":
		render = printInfo
	case "json":
		render = printJSON
	case "estimate":
		bitrate := envBitrate()
		render = func(w io.Writer, r probeResult) { printEstimate(w, r, bitrate) }
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", sanitizeCommand(command))
		printUsage()
		os.Exit(1)
	}

	failed := false
	for _, r := range probeAll(ctx, trans, paths, workers.ForMixed(maxWorkers)) {
		render(os.Stdout, r)
		if r.err != nil {
			failed = true
		}
	}
	if failed {
		os.Exit(1)
	}
}

// probeAll probes paths with up to n concurrent ffprobe processes and
// returns results in input order.
func probeAll(ctx context.Context, p prober, paths []string, n int) []probeResult {
	results := make([]probeResult, len(paths))
	jobs := make(chan int)

	var wg sync.WaitGroup
	for range max(1, min(n, len(paths))) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = probeOne(ctx, p, paths[i])
			}
		}()
	}

	for i := range paths {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	return results
}

func probeOne(ctx context.Context, p prober, path string) probeResult {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	info, err := p.Probe(ctx, path)
	if err != nil {
		return probeResult{Path: path, Error: err.Error(), err: err}
	}
	return probeResult{Path: path, Info: info}
}

func printInfo(w io.Writer, r probeResult) {
	if r.err != nil {
		fmt.Fprintf(w, "%s: error: %v\n", r.Path, r.err)
		return
	}
	hint := ""
	if !mediatypes.IsVideoFile(r.Path) {
		hint = " (unusual extension)"
	}
	info := r.Info
	fmt.Fprintf(w, "%s%s: %s, %s, %.3g fps, %s, %s, audio=%v\n",
		r.Path, hint, info.Size(), info.DurationTime().Round(10*time.Millisecond), info.FrameRate,
		info.Codec, humanize.IBytes(uint64(info.FileSize)), info.HasAudio)
}

func printJSON(w io.Writer, r probeResult) {
	if err := json.NewEncoder(w).Encode(r); err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding %s: %v\n", r.Path, err)
	}
}

func printEstimate(w io.Writer, r probeResult, bitrate int) {
	if r.err != nil {
		fmt.Fprintf(w, "%s: error: %v\n", r.Path, r.err)
		return
	}
	fmt.Fprintf(w, "%s (%s at %d Mbps):\n", r.Path, r.Info.DurationTime().Round(time.Second), bitrate)
	for _, label := range resolution.Labels() {
		size := resolution.EstimateSize(label, r.Info.Duration, bitrate)
		fmt.Fprintf(w, "  %-6s %-10s %s\n", label, resolution.Lookup(label), humanize.IBytes(uint64(size)))
	}
}

func envBitrate() int {
	if v := os.Getenv("VPROBE_BITRATE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
		fmt.Fprintf(os.Stderr, "Warning: invalid VPROBE_BITRATE %q, using %d\n", v, defaultBitrate)
	}
	return defaultBitrate
}

// sanitizeCommand returns a safe representation of a command string for display.
// Any character that is not alphanumeric, a hyphen, or an underscore becomes '_'.
func sanitizeCommand(cmd string) string {
	var b strings.Builder
	b.Grow(len(cmd))
	for _, r := range cmd {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' || r == '_' {
			b.WriteRune(r)
		} else {
			b.WriteRune('_')
		}
	}
	return b.String()
}

func printUsage() {
	fmt.Println("Video Upscaler Source Probe")
	fmt.Println("")
	fmt.Println("Usage: vprobe <command> <file>...")
	fmt.Println("")
	fmt.Println("Commands:")
	fmt.Println("  info      - Print source metadata")
	fmt.Println("  json      - Print source metadata as JSON lines")
	fmt.Println("  estimate  - Print the expected output size per resolution")
	fmt.Println("")
	fmt.Println("Environment:")
	fmt.Println("  FFPROBE_PATH   - ffprobe binary (default: ffprobe)")
	fmt.Printf("  VPROBE_BITRATE - Bitrate in Mbps for estimate (default: %d)\n", defaultBitrate)
}
