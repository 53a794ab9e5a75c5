package transcoder

import (
	"bytes"
	"context"
	"errors"
	"image"
	"io"
	"os/exec"
	"path/filepath"
	"testing"

	"video-upscaler/internal/geometry"
	"video-upscaler/internal/media"
	"video-upscaler/internal/mediatypes"
)

func TestNewDefaults(t *testing.T) {
	tr := New(Config{})
	if tr.ffmpeg != "ffmpeg" || tr.ffprobe != "ffprobe" {
		t.Errorf("Expected default binary names, got %q %q", tr.ffmpeg, tr.ffprobe)
	}
	if tr.Threads() < 1 {
		t.Errorf("Expected at least one thread, got %d", tr.Threads())
	}

	tr = New(Config{FFmpegPath: "/opt/ffmpeg", Threads: 6})
	if tr.ffmpeg != "/opt/ffmpeg" || tr.Threads() != 6 {
		t.Errorf("Config not applied: %q %d", tr.ffmpeg, tr.Threads())
	}
}

func TestProcessTracking(t *testing.T) {
	tr := New(Config{})
	cmd := exec.Command("true")

	key := tr.track("encode", "a.mp4", cmd)
	other := tr.track("encode", "a.mp4", cmd)
	if key == other {
		t.Error("Expected distinct keys for processes on the same path")
	}
	if tr.ActiveProcesses() != 2 {
		t.Errorf("Expected 2 active processes, got %d", tr.ActiveProcesses())
	}

	tr.untrack("encode", key)
	tr.untrack("encode", key)
	if tr.ActiveProcesses() != 1 {
		t.Errorf("Expected 1 active process, got %d", tr.ActiveProcesses())
	}

	// never started: Cleanup must skip it
	tr.Cleanup()
}

func TestCleanupEmpty(_ *testing.T) {
	tr := New(Config{})
	tr.Cleanup()
}

// makeTestVideo renders a short test pattern with a tone.
func makeTestVideo(t *testing.T) string {
	t.Helper()
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		t.Skip("ffmpeg not available")
	}
	if _, err := exec.LookPath("ffprobe"); err != nil {
		t.Skip("ffprobe not available")
	}

	path := filepath.Join(t.TempDir(), "testsrc.mkv")
	cmd := exec.Command("ffmpeg", "-hide_banner", "-loglevel", "error",
		"-f", "lavfi", "-i", "testsrc=size=64x36:rate=10:duration=1",
		"-f", "lavfi", "-i", "sine=frequency=440:duration=1",
		"-c:v", "mpeg4", "-c:a", "flac", "-shortest", path)
	if out, err := cmd.CombinedOutput(); err != nil {
		t.Skipf("cannot create test video: %v - %s", err, out)
	}
	return path
}

func TestProbeRealFile(t *testing.T) {
	path := makeTestVideo(t)
	tr := New(Config{})

	info, err := tr.Probe(context.Background(), path)
	if err != nil {
		t.Fatalf("Probe() error: %v", err)
	}
	if info.Width != 64 || info.Height != 36 {
		t.Errorf("Expected 64x36, got %dx%d", info.Width, info.Height)
	}
	if !info.HasAudio {
		t.Error("Expected an audio stream")
	}
	if info.Duration <= 0 {
		t.Errorf("Expected positive duration, got %v", info.Duration)
	}
	if info.FileSize <= 0 {
		t.Errorf("Expected file size, got %d", info.FileSize)
	}
}

func TestPlaybackAndEncodeRealFile(t *testing.T) {
	path := makeTestVideo(t)
	tr := New(Config{Threads: 1})
	defer tr.Cleanup()

	ctx := context.Background()
	if ok, err := tr.HasEncoder(ctx, "libvpx-vp9"); err != nil || !ok {
		t.Skip("ffmpeg built without libvpx-vp9")
	}

	info, err := tr.Probe(ctx, path)
	if err != nil {
		t.Fatalf("Probe() error: %v", err)
	}
	src, err := tr.OpenSource(ctx, path, info)
	if err != nil {
		t.Fatalf("OpenSource() error: %v", err)
	}
	defer func() { _ = src.Stop() }()

	size := geometry.Size{Width: 128, Height: 72}
	enc, err := tr.OpenEncoder(ctx, media.EncoderConfig{
		Size:          size,
		BitsPerSecond: 1_000_000,
		Format:        mediatypes.FormatWebM,
		FrameRate:     info.FrameRate,
	})
	if err != nil {
		t.Fatalf("OpenEncoder() error: %v", err)
	}

	if err := src.Start(ctx); err != nil {
		t.Fatalf("Start() error: %v", err)
	}

	out := image.NewRGBA(image.Rect(0, 0, size.Width, size.Height))
	frames := 0
	for {
		frame, err := src.NextFrame(ctx)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			t.Fatalf("NextFrame() error: %v", err)
		}
		if frame.Image.Bounds().Dx() != 64 {
			t.Fatalf("Expected native 64px frames, got %v", frame.Image.Bounds())
		}
		if err := enc.WriteFrame(out); err != nil {
			t.Fatalf("WriteFrame() error: %v", err)
		}
		frames++
	}
	if frames == 0 {
		t.Fatal("No frames decoded")
	}

	var artifact []byte
	chunk, err := enc.Flush()
	if err != nil {
		t.Fatalf("Flush() error: %v", err)
	}
	artifact = append(artifact, chunk...)
	tail, err := enc.Close()
	if err != nil {
		t.Fatalf("Close() error: %v", err)
	}
	artifact = append(artifact, tail...)

	// EBML header
	if !bytes.HasPrefix(artifact, []byte{0x1A, 0x45, 0xDF, 0xA3}) {
		t.Errorf("Output does not start with an EBML header (%d bytes)", len(artifact))
	}
	if _, err := enc.Close(); err == nil {
		t.Error("Expected second Close to fail")
	}
	if n := tr.ActiveProcesses(); n != 0 {
		t.Errorf("Expected all processes reaped, got %d", n)
	}
}
