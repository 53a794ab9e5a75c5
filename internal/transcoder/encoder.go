package transcoder

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"os/exec"
	"strconv"
	"strings"
	"sync"

	"video-upscaler/internal/geometry"
	"video-upscaler/internal/logging"
	"video-upscaler/internal/media"
	"video-upscaler/internal/mediatypes"
)

// audioBitrate is the Opus bitrate for the passed-through audio track.
const audioBitrate = "128k"

var encoderNames = map[mediatypes.Codec]string{
	mediatypes.CodecVP9:  "libvpx-vp9",
	mediatypes.CodecH264: "libx264",
	mediatypes.CodecOpus: "libopus",
}

var errEncoderClosed = errors.New("encoder closed")

// OpenEncoder starts an ffmpeg process that encodes raw RGBA frames from
// stdin and muxes them to stdout. Failures are *media.EncoderInitError.
func (t *Transcoder) OpenEncoder(ctx context.Context, cfg media.EncoderConfig) (media.Encoder, error) {
	initErr := func(reason string, err error) error {
		return &media.EncoderInitError{Format: cfg.Format, Reason: reason, Err: err}
	}

	args, err := encoderArgs(cfg, t.threads)
	if err != nil {
		return nil, initErr("invalid configuration", err)
	}

	required := []mediatypes.Codec{cfg.Format.VideoCodec()}
	if cfg.AudioSource != "" {
		required = append(required, cfg.Format.AudioCodec())
	}
	for _, codec := range required {
		name := encoderNames[codec]
		ok, err := t.HasEncoder(ctx, name)
		if err != nil {
			return nil, initErr("cannot list ffmpeg encoders", err)
		}
		if !ok {
			return nil, initErr(fmt.Sprintf("ffmpeg has no %s encoder", name), nil)
		}
	}

	cmd := exec.CommandContext(ctx, t.ffmpeg, args...)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, initErr("failed to create stdin pipe", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, initErr("failed to create stdout pipe", err)
	}

	e := &ffmpegEncoder{
		t:        t,
		cmd:      cmd,
		stdin:    stdin,
		size:     cfg.Size,
		readDone: make(chan struct{}),
	}
	cmd.Stderr = &e.stderr

	if err := cmd.Start(); err != nil {
		return nil, initErr("failed to start ffmpeg", err)
	}
	e.key = t.track("encode", cfg.Format.String(), cmd)
	go e.readOutput(stdout)

	logging.Debug("Started %s encoder %s at %d bps", cfg.Format, cfg.Size, cfg.BitsPerSecond)
	return e, nil
}

// encoderArgs builds the ffmpeg command line for an encoder session.
// Frames are timestamped by arrival so the output follows real playback
// time, and the source's audio track, if any, is re-encoded alongside.
func encoderArgs(cfg media.EncoderConfig, threads int) ([]string, error) {
	if cfg.Size.IsZero() {
		return nil, errors.New("output size is zero")
	}
	if cfg.BitsPerSecond <= 0 {
		return nil, fmt.Errorf("bitrate must be positive, got %d", cfg.BitsPerSecond)
	}
	if !cfg.Format.Valid() {
		return nil, fmt.Errorf("unsupported format %q", cfg.Format)
	}
	frameRate := cfg.FrameRate
	if frameRate <= 0 {
		frameRate = media.DefaultFrameRate
	}
	bitrate := strconv.FormatInt(cfg.BitsPerSecond, 10)

	args := []string{
		"-hide_banner",
		"-loglevel", "error",
		"-nostdin",
		"-use_wallclock_as_timestamps", "1",
		"-f", "rawvideo",
		"-pix_fmt", "rgba",
		"-video_size", cfg.Size.String(),
		"-framerate", strconv.FormatFloat(frameRate, 'f', -1, 64),
		"-i", "pipe:0",
	}

	if cfg.AudioSource != "" {
		args = append(args,
			"-i", cfg.AudioSource,
			"-map", "0:v:0",
			"-map", "1:a:0?",
			"-c:a", encoderNames[cfg.Format.AudioCodec()],
			"-b:a", audioBitrate,
		)
	} else {
		args = append(args, "-an")
	}

	args = append(args,
		"-c:v", encoderNames[cfg.Format.VideoCodec()],
		"-b:v", bitrate,
		"-maxrate", bitrate,
		"-bufsize", strconv.FormatInt(cfg.BitsPerSecond*2, 10),
		"-threads", strconv.Itoa(threads),
		"-fps_mode", "passthrough",
	)

	switch cfg.Format {
	case mediatypes.FormatWebM:
		args = append(args,
			"-pix_fmt", "yuv420p",
			"-deadline", "realtime",
			"-cpu-used", "8",
			"-row-mt", "1",
			"-f", "webm",
		)
	case mediatypes.FormatMP4:
		args = append(args,
			"-pix_fmt", h264PixelFormat(cfg.Size),
			"-preset", "veryfast",
			"-tune", "zerolatency",
			"-f", "mp4",
			"-movflags", "frag_keyframe+empty_moov+default_base_moof",
		)
	}

	return append(args, "pipe:1"), nil
}

// h264PixelFormat keeps full chroma for odd dimensions, which 4:2:0 H.264
// cannot represent without padding.
func h264PixelFormat(size geometry.Size) string {
	if size.Width%2 != 0 || size.Height%2 != 0 {
		return "yuv444p"
	}
	return "yuv420p"
}

// ffmpegEncoder streams frames into an ffmpeg process. A reader goroutine
// collects muxed output until Flush or Close hands it over.
type ffmpegEncoder struct {
	t      *Transcoder
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	stderr bytes.Buffer
	size   geometry.Size
	key    string

	readDone chan struct{}

	mu      sync.Mutex
	out     bytes.Buffer
	readErr error
	closed  bool
}

func (e *ffmpegEncoder) readOutput(stdout io.Reader) {
	defer close(e.readDone)

	buf := make([]byte, 256*1024)
	for {
		n, err := stdout.Read(buf)
		if n > 0 {
			e.mu.Lock()
			e.out.Write(buf[:n])
			e.mu.Unlock()
		}
		if err != nil {
			if !errors.Is(err, io.EOF) {
				e.mu.Lock()
				e.readErr = err
				e.mu.Unlock()
			}
			return
		}
	}
}

func (e *ffmpegEncoder) WriteFrame(img *image.RGBA) error {
	b := img.Bounds()
	if b.Dx() != e.size.Width || b.Dy() != e.size.Height {
		return fmt.Errorf("frame is %dx%d, encoder expects %s", b.Dx(), b.Dy(), e.size)
	}

	rowBytes := e.size.Width * 4
	if img.Stride == rowBytes {
		start := img.PixOffset(b.Min.X, b.Min.Y)
		return e.write(img.Pix[start : start+rowBytes*e.size.Height])
	}
	for y := b.Min.Y; y < b.Max.Y; y++ {
		start := img.PixOffset(b.Min.X, y)
		if err := e.write(img.Pix[start : start+rowBytes]); err != nil {
			return err
		}
	}
	return nil
}

func (e *ffmpegEncoder) write(p []byte) error {
	if _, err := e.stdin.Write(p); err != nil {
		return fmt.Errorf("write to encoder: %w", err)
	}
	return nil
}

// Flush returns the bytes muxed since the previous Flush.
func (e *ffmpegEncoder) Flush() ([]byte, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.readErr != nil {
		return nil, fmt.Errorf("read encoder output: %w", e.readErr)
	}
	return e.takeLocked(), nil
}

func (e *ffmpegEncoder) takeLocked() []byte {
	if e.out.Len() == 0 {
		return nil
	}
	data := bytes.Clone(e.out.Bytes())
	e.out.Reset()
	return data
}

func (e *ffmpegEncoder) markClosed() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return false
	}
	e.closed = true
	return true
}

// Close ends the input stream, waits for ffmpeg to write the container
// trailer and returns everything not yet flushed.
func (e *ffmpegEncoder) Close() ([]byte, error) {
	if !e.markClosed() {
		return nil, errEncoderClosed
	}

	if err := e.stdin.Close(); err != nil {
		logging.Debug("close encoder stdin: %v", err)
	}
	<-e.readDone
	waitErr := e.cmd.Wait()
	e.t.untrack("encode", e.key)

	if waitErr != nil {
		return nil, fmt.Errorf("encoding error: %w - %s", waitErr, strings.TrimSpace(e.stderr.String()))
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.readErr != nil {
		return nil, fmt.Errorf("read encoder output: %w", e.readErr)
	}
	return e.takeLocked(), nil
}

// Abort kills ffmpeg and discards its output.
func (e *ffmpegEncoder) Abort() error {
	if !e.markClosed() {
		return nil
	}

	if e.cmd.Process != nil {
		if err := e.cmd.Process.Kill(); err != nil {
			logging.Debug("kill encoder: %v", err)
		}
	}
	_ = e.stdin.Close()
	<-e.readDone
	_ = e.cmd.Wait()
	e.t.untrack("encode", e.key)

	e.mu.Lock()
	e.out.Reset()
	e.mu.Unlock()
	return nil
}
