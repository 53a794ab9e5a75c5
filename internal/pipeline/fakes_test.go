package pipeline

import (
	"context"
	"errors"
	"image"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"video-upscaler/internal/media"
)

type fakeProber struct {
	info  *media.VideoInfo
	err   error
	calls atomic.Int32
}

func (p *fakeProber) Probe(_ context.Context, _ string) (*media.VideoInfo, error) {
	p.calls.Add(1)
	if p.err != nil {
		return nil, p.err
	}
	info := *p.info
	return &info, nil
}

// fakeSource yields frames frames spaced step apart. onRead runs before
// frame i is returned.
type fakeSource struct {
	width, height int
	frames        int
	step          time.Duration
	readErrAt     int
	readErr       error
	onRead        func(i int)

	mu       sync.Mutex
	next     int
	position time.Duration
	started  bool
	stopped  bool
	stops    int
}

func (s *fakeSource) Start(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.started = true
	return nil
}

func (s *fakeSource) NextFrame(context.Context) (media.Frame, error) {
	s.mu.Lock()
	i := s.next
	stopped := s.stopped
	s.mu.Unlock()

	if stopped {
		return media.Frame{}, media.ErrSourceStopped
	}
	if s.readErr != nil && i == s.readErrAt {
		return media.Frame{}, s.readErr
	}
	if i >= s.frames {
		return media.Frame{}, io.EOF
	}
	if s.onRead != nil {
		s.onRead(i)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return media.Frame{}, media.ErrSourceStopped
	}
	s.next++
	s.position = time.Duration(s.next) * s.step
	img := image.NewRGBA(image.Rect(0, 0, s.width, s.height))
	return media.Frame{Image: img, Position: s.position}, nil
}

func (s *fakeSource) Position() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.position
}

func (s *fakeSource) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopped = true
	s.stops++
	return nil
}

type fakeSourceOpener struct {
	src *fakeSource
	err error
}

func (o *fakeSourceOpener) OpenSource(context.Context, string, *media.VideoInfo) (media.Source, error) {
	if o.err != nil {
		return nil, o.err
	}
	return o.src, nil
}

// fakeEncoder emits one byte per frame, numbered in write order, and a
// trailer on Close.
type fakeEncoder struct {
	writeErr   error
	failAfter  int
	gate       chan struct{}
	onClose    func()
	mu         sync.Mutex
	pending    []byte
	written    int
	flushes    int
	closeCalls int
	aborted    bool
	lastSize   image.Rectangle
}

var fakeTrailer = []byte("END")

func (e *fakeEncoder) WriteFrame(img *image.RGBA) error {
	if e.gate != nil {
		<-e.gate
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.writeErr != nil && e.written >= e.failAfter {
		return e.writeErr
	}
	e.pending = append(e.pending, byte(e.written))
	e.written++
	e.lastSize = img.Rect
	return nil
}

func (e *fakeEncoder) Flush() ([]byte, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.flushes++
	out := e.pending
	e.pending = nil
	return out, nil
}

func (e *fakeEncoder) Close() ([]byte, error) {
	if e.onClose != nil {
		e.onClose()
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.closeCalls++
	out := append(e.pending, fakeTrailer...)
	e.pending = nil
	return out, nil
}

func (e *fakeEncoder) Abort() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.aborted = true
	return nil
}

func (e *fakeEncoder) stats() (written, closes int, aborted bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.written, e.closeCalls, e.aborted
}

type fakeEncoderOpener struct {
	enc   *fakeEncoder
	err   error
	cfg   media.EncoderConfig
	calls int
}

func (o *fakeEncoderOpener) OpenEncoder(_ context.Context, cfg media.EncoderConfig) (media.Encoder, error) {
	o.calls++
	o.cfg = cfg
	if o.err != nil {
		return nil, o.err
	}
	return o.enc, nil
}

type recordingObserver struct {
	mu          sync.Mutex
	transitions [][2]State
	pumped      int
	dropped     int
	chunks      int
	chunkBytes  int
	outcome     State
	finished    int
}

func (o *recordingObserver) RunStarted(string) {}

func (o *recordingObserver) StateChanged(_ string, from, to State) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.transitions = append(o.transitions, [2]State{from, to})
}

func (o *recordingObserver) FramePumped() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.pumped++
}

func (o *recordingObserver) FrameDropped() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.dropped++
}

func (o *recordingObserver) ChunkEmitted(n int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.chunks++
	o.chunkBytes += n
}

func (o *recordingObserver) RunFinished(_ string, outcome State, _ time.Duration, _ int64) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.outcome = outcome
	o.finished++
}

func (o *recordingObserver) states() []State {
	o.mu.Lock()
	defer o.mu.Unlock()
	var out []State
	for _, tr := range o.transitions {
		out = append(out, tr[1])
	}
	return out
}

var errBoom = errors.New("boom")
