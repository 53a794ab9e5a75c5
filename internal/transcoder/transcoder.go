package transcoder

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"video-upscaler/internal/logging"
	"video-upscaler/internal/workers"
)

// Config locates the FFmpeg binaries.
type Config struct {
	FFmpegPath  string
	FFprobePath string
	// Threads is passed to the decoder and encoder. 0 uses workers.ForCPU.
	Threads int
}

// Transcoder opens probes, sources and encoders backed by FFmpeg processes.
// It implements the pipeline's Prober, SourceOpener and EncoderOpener.
type Transcoder struct {
	ffmpeg  string
	ffprobe string
	threads int

	processes map[string]*exec.Cmd
	processMu sync.Mutex
	nextID    atomic.Uint64

	encodersMu sync.Mutex
	encoders   map[string]bool
}

// New creates a new Transcoder instance.
func New(cfg Config) *Transcoder {
	if cfg.FFmpegPath == "" {
		cfg.FFmpegPath = "ffmpeg"
	}
	if cfg.FFprobePath == "" {
		cfg.FFprobePath = "ffprobe"
	}
	if cfg.Threads <= 0 {
		cfg.Threads = workers.ForCPU(0)
	}

	return &Transcoder{
		ffmpeg:    cfg.FFmpegPath,
		ffprobe:   cfg.FFprobePath,
		threads:   cfg.Threads,
		processes: make(map[string]*exec.Cmd),
	}
}

// Threads returns the FFmpeg thread count used for each process.
func (t *Transcoder) Threads() int {
	return t.threads
}

// track registers a started process and returns its key.
func (t *Transcoder) track(kind, path string, cmd *exec.Cmd) string {
	key := fmt.Sprintf("%s#%d %s", kind, t.nextID.Add(1), path)

	t.processMu.Lock()
	t.processes[key] = cmd
	t.processMu.Unlock()

	observe().ProcessStarted(kind)
	return key
}

func (t *Transcoder) untrack(kind, key string) {
	t.processMu.Lock()
	_, ok := t.processes[key]
	delete(t.processes, key)
	t.processMu.Unlock()

	if ok {
		observe().ProcessExited(kind)
	}
}

// ActiveProcesses returns the number of FFmpeg processes currently running.
func (t *Transcoder) ActiveProcesses() int {
	t.processMu.Lock()
	defer t.processMu.Unlock()
	return len(t.processes)
}

// Cleanup stops all active FFmpeg processes.
func (t *Transcoder) Cleanup() {
	t.processMu.Lock()
	defer t.processMu.Unlock()

	for key, cmd := range t.processes {
		if cmd.Process != nil {
			logging.Info("Killing ffmpeg process: %s", key)
			if err := cmd.Process.Kill(); err != nil {
				logging.Warn("failed to kill ffmpeg process %s: %v", key, err)
			}
		}
	}
}

// HasEncoder reports whether the ffmpeg binary was built with the named
// encoder, e.g. "libvpx-vp9". The encoder list is cached after the first
// successful read; failed reads are retried on the next call.
func (t *Transcoder) HasEncoder(ctx context.Context, name string) (bool, error) {
	t.encodersMu.Lock()
	defer t.encodersMu.Unlock()

	if t.encoders == nil {
		encoders, err := t.listEncoders(ctx)
		if err != nil {
			return false, err
		}
		t.encoders = encoders
	}
	return t.encoders[name], nil
}

func (t *Transcoder) listEncoders(ctx context.Context) (map[string]bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	cmd := exec.CommandContext(ctx, t.ffmpeg, "-hide_banner", "-encoders")
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("ffmpeg -encoders: %w - %s", err, strings.TrimSpace(stderr.String()))
	}
	return parseEncoderList(stdout.Bytes()), nil
}

// parseEncoderList reads the table printed by "ffmpeg -encoders". Entries
// follow the " ------" separator line as "<flags> <name> <description>".
func parseEncoderList(output []byte) map[string]bool {
	encoders := make(map[string]bool)
	inTable := false

	scanner := bufio.NewScanner(bytes.NewReader(output))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if !inTable {
			inTable = strings.HasPrefix(line, "---")
			continue
		}
		fields := strings.Fields(line)
		if len(fields) >= 2 {
			encoders[fields[1]] = true
		}
	}
	return encoders
}
