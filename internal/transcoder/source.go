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
	"time"

	"video-upscaler/internal/geometry"
	"video-upscaler/internal/logging"
	"video-upscaler/internal/media"
)

// OpenSource prepares real-time playback of path. Frames are decoded at the
// probed native size; nothing runs until Start.
func (t *Transcoder) OpenSource(_ context.Context, path string, info *media.VideoInfo) (media.Source, error) {
	size := info.Size()
	if size.IsZero() {
		return nil, &media.MetadataError{Path: path, Reason: "no video dimensions"}
	}
	frameRate := info.FrameRate
	if frameRate <= 0 {
		frameRate = media.DefaultFrameRate
	}

	return &ffmpegSource{
		t:         t,
		path:      path,
		size:      size,
		frameRate: frameRate,
		img:       image.NewRGBA(image.Rect(0, 0, size.Width, size.Height)),
	}, nil
}

// sourceArgs decodes the first video stream at the native rate (-re) into
// raw RGBA on stdout. Autorotation is disabled so frames keep the probed
// coded dimensions.
func sourceArgs(path string, threads int) []string {
	return []string{
		"-hide_banner",
		"-loglevel", "error",
		"-nostdin",
		"-noautorotate",
		"-re",
		"-threads", strconv.Itoa(threads),
		"-i", path,
		"-map", "0:v:0",
		"-an", "-sn",
		"-f", "rawvideo",
		"-pix_fmt", "rgba",
		"pipe:1",
	}
}

// ffmpegSource plays a file through an ffmpeg decoder process. The frame
// image is reused: it is valid until the next NextFrame call.
type ffmpegSource struct {
	t         *Transcoder
	path      string
	size      geometry.Size
	frameRate float64
	img       *image.RGBA

	cmd    *exec.Cmd
	stdout io.ReadCloser
	stderr bytes.Buffer
	key    string

	mu       sync.Mutex
	frames   int64
	started  bool
	stopped  bool
	reading  bool
	waitOnce sync.Once
	waitErr  error
}

func (s *ffmpegSource) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		return media.ErrSourceStopped
	}
	if s.started {
		return nil
	}

	cmd := exec.CommandContext(ctx, s.t.ffmpeg, sourceArgs(s.path, s.t.threads)...)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("failed to create stdout pipe: %w", err)
	}
	cmd.Stderr = &s.stderr

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start ffmpeg: %w", err)
	}

	s.cmd = cmd
	s.stdout = stdout
	s.started = true
	s.key = s.t.track("decode", s.path, cmd)
	logging.Debug("Started playback of %s (%s at %.3g fps)", s.path, s.size, s.frameRate)
	return nil
}

// NextFrame reads the next decoded frame. The reader reaps the decoder once
// the stream ends or Stop has killed it, so stdout is never closed under a
// pending read.
func (s *ffmpegSource) NextFrame(_ context.Context) (media.Frame, error) {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return media.Frame{}, media.ErrSourceStopped
	}
	if !s.started {
		s.mu.Unlock()
		return media.Frame{}, errors.New("source not started")
	}
	s.reading = true
	s.mu.Unlock()

	_, err := io.ReadFull(s.stdout, s.img.Pix)

	s.mu.Lock()
	s.reading = false
	stopped := s.stopped
	s.mu.Unlock()

	if err != nil {
		werr := s.wait()
		if stopped {
			return media.Frame{}, media.ErrSourceStopped
		}
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			if werr != nil {
				return media.Frame{}, fmt.Errorf("decoder exited: %w - %s", werr, strings.TrimSpace(s.stderr.String()))
			}
			return media.Frame{}, io.EOF
		}
		return media.Frame{}, err
	}
	if stopped {
		_ = s.wait()
		return media.Frame{}, media.ErrSourceStopped
	}

	s.mu.Lock()
	s.frames++
	position := s.positionLocked()
	s.mu.Unlock()

	return media.Frame{Image: s.img, Position: position}, nil
}

// Position is the presentation time of the last decoded frame.
func (s *ffmpegSource) Position() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.positionLocked()
}

func (s *ffmpegSource) positionLocked() time.Duration {
	if s.frames == 0 {
		return 0
	}
	return time.Duration(float64(s.frames-1) / s.frameRate * float64(time.Second))
}

// Stop kills the decoder. If a NextFrame call is blocked on the pipe, that
// call reaps the process once its read fails; otherwise Stop reaps it.
func (s *ffmpegSource) Stop() error {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return nil
	}
	s.stopped = true
	started, reading := s.started, s.reading
	s.mu.Unlock()

	if !started {
		return nil
	}
	if s.cmd.Process != nil {
		// the decoder may already have exited at end of stream
		_ = s.cmd.Process.Kill()
	}
	if !reading {
		_ = s.wait()
	}
	return nil
}

// wait reaps the decoder exactly once.
func (s *ffmpegSource) wait() error {
	s.waitOnce.Do(func() {
		s.waitErr = s.cmd.Wait()
		s.t.untrack("decode", s.key)
	})
	return s.waitErr
}
