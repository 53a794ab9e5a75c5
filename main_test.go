package main

import (
	"bytes"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/pflag"

	"video-upscaler/internal/geometry"
	"video-upscaler/internal/media"
	"video-upscaler/internal/mediatypes"
	"video-upscaler/internal/pipeline"
	"video-upscaler/internal/resolution"
)

func TestParseArgsDefaults(t *testing.T) {
	opts, err := parseArgs([]string{"clip.mp4"}, io.Discard)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if opts.input != "clip.mp4" {
		t.Errorf("Expected input clip.mp4, got %q", opts.input)
	}
	want := pipeline.Options{Resolution: resolution.Label1080p, Bitrate: 20, Format: mediatypes.FormatWebM}
	if opts.options != want {
		t.Errorf("Expected %v, got %v", want, opts.options)
	}
	if opts.probeOnly || opts.noAudio {
		t.Error("Expected probe and no-audio to be off by default")
	}
}

func TestParseArgsOverrides(t *testing.T) {
	args := []string{"-r", "4k", "-b", "40", "-f", "MP4", "-o", "out.mp4", "--poster", "p.jpg", "--no-audio", "--scaler", "catmullrom", "in.mov"}
	opts, err := parseArgs(args, io.Discard)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	want := pipeline.Options{Resolution: resolution.Label4K, Bitrate: 40, Format: mediatypes.FormatMP4}
	if opts.options != want {
		t.Errorf("Expected %v, got %v", want, opts.options)
	}
	if opts.output != "out.mp4" || opts.poster != "p.jpg" || opts.scaler != "catmullrom" || !opts.noAudio {
		t.Errorf("Unexpected options %+v", opts)
	}
}

func TestParseArgsErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"no input", []string{}},
		{"two inputs", []string{"a.mp4", "b.mp4"}},
		{"unknown resolution", []string{"-r", "999p", "a.mp4"}},
		{"unknown format", []string{"-f", "avi", "a.mp4"}},
		{"zero bitrate", []string{"-b", "0", "a.mp4"}},
		{"unknown flag", []string{"--frobnicate", "a.mp4"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := parseArgs(tt.args, io.Discard); err == nil {
				t.Error("Expected error, got nil")
			}
		})
	}
}

func TestParseArgsHelpAndVersion(t *testing.T) {
	var usage bytes.Buffer
	_, err := parseArgs([]string{"--help"}, &usage)
	if !errors.Is(err, pflag.ErrHelp) {
		t.Errorf("Expected pflag.ErrHelp, got %v", err)
	}
	if !strings.Contains(usage.String(), "--resolution") {
		t.Errorf("Expected usage to list --resolution, got %q", usage.String())
	}

	opts, err := parseArgs([]string{"--version"}, io.Discard)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !opts.showVersion {
		t.Error("Expected showVersion to be set")
	}
}

func TestBitrateWarning(t *testing.T) {
	tests := []struct {
		mbps int
		warn bool
	}{
		{1, true},
		{5, false},
		{20, false},
		{100, false},
		{150, true},
	}

	for _, tt := range tests {
		if got := bitrateWarning(tt.mbps) != ""; got != tt.warn {
			t.Errorf("bitrateWarning(%d): expected warning=%v, got %v", tt.mbps, tt.warn, got)
		}
	}
}

func TestOutputPath(t *testing.T) {
	opts := pipeline.Options{Resolution: resolution.Label1440p, Bitrate: 20, Format: mediatypes.FormatMP4}

	if got := outputPath("", "/out", opts); got != filepath.Join("/out", "upscaled-1440p.mp4") {
		t.Errorf("Expected default name, got %q", got)
	}
	if got := outputPath("custom.mp4", "/out", opts); got != "custom.mp4" {
		t.Errorf("Expected explicit path, got %q", got)
	}
}

func TestRenderBar(t *testing.T) {
	tests := []struct {
		percent  int
		expected string
	}{
		{0, "[..........]   0%"},
		{50, "[#####.....]  50%"},
		{100, "[##########] 100%"},
		{120, "[##########] 100%"},
	}

	for _, tt := range tests {
		if got := renderBar(tt.percent, 10); got != tt.expected {
			t.Errorf("Expected %q, got %q", tt.expected, got)
		}
	}
}

func TestProgressPrinterPlain(t *testing.T) {
	var buf bytes.Buffer
	p := &progressPrinter{w: &buf, plainStep: 10, last: -1}

	for _, v := range []int{0, 3, 9, 10, 15, 21, 99, 100} {
		p.Update(v)
	}
	p.Done()

	expected := "progress: 0%\nprogress: 10%\nprogress: 21%\nprogress: 99%\nprogress: 100%\n"
	if buf.String() != expected {
		t.Errorf("Expected %q, got %q", expected, buf.String())
	}
}

func TestProgressPrinterTerminal(t *testing.T) {
	var buf bytes.Buffer
	p := &progressPrinter{w: &buf, tty: true, plainStep: 10, last: -1}

	p.Update(10)
	p.Update(10)
	p.Update(20)
	p.Done()

	if n := strings.Count(buf.String(), "\r"); n != 2 {
		t.Errorf("Expected 2 redraws, got %d", n)
	}
	if !strings.HasSuffix(buf.String(), "\n") {
		t.Error("Expected Done to end the bar line")
	}
}

func TestPrintInfo(t *testing.T) {
	var buf bytes.Buffer
	info := &media.VideoInfo{Width: 1280, Height: 720, Duration: 12.5, FileSize: 2_500_000, FrameRate: 30, Codec: "h264", HasAudio: true}

	printInfo(&buf, "clip.mp4", info)

	for _, want := range []string{"clip.mp4", "2.4 MiB", "1280x720", "12.5s", "h264"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("Expected output to contain %q, got %q", want, buf.String())
		}
	}
}

func TestPrintResult(t *testing.T) {
	var buf bytes.Buffer
	res := &pipeline.Result{
		FileSize:      1_200_000,
		Geometry:      geometry.Size{Width: 1920, Height: 1080},
		MIMEType:      "video/webm;codecs=vp9,opus",
		Chunks:        3,
		FramesPumped:  1500,
		FramesDropped: 2,
		Elapsed:       3 * time.Second,
	}

	printResult(&buf, "out.webm", res)

	for _, want := range []string{"out.webm", "1.1 MiB", "1920x1080", "1,500 encoded", "2 dropped", "3 chunks"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("Expected output to contain %q, got %q", want, buf.String())
		}
	}
}

func TestEstimateSize(t *testing.T) {
	opts := pipeline.Options{Resolution: resolution.Label1080p, Bitrate: 20, Format: mediatypes.FormatWebM}

	if got := estimateSize(opts, media.VideoInfo{Duration: 0}); got != "" {
		t.Errorf("Expected no estimate for unknown duration, got %q", got)
	}
	// 20 Mbps is above the 1080p cap of 1920*1080*30*0.1 bits/s
	if got := estimateSize(opts, media.VideoInfo{Duration: 100}); got != "74 MiB" {
		t.Errorf("Expected 74 MiB, got %q", got)
	}
}
