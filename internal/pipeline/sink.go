package pipeline

import (
	"bytes"
	"errors"
	"image"
	"sync"
	"time"

	"video-upscaler/internal/logging"
	"video-upscaler/internal/media"
)

var errSinkDiscarded = errors.New("encode sink discarded")

// sinkResult is the finalized output of an EncodeSink.
type sinkResult struct {
	artifact []byte
	chunks   int
	frames   int
}

// EncodeSink owns one encoder session. A single consumer goroutine writes
// queued frames into the encoder and collects encoder output into one chunk
// per interval. The frame queue is bounded; callers drop frames when it is
// full rather than block.
type EncodeSink struct {
	enc      media.Encoder
	frames   chan *image.RGBA
	release  func(*image.RGBA)
	interval time.Duration
	observer Observer
	log      logging.Logger

	done   chan struct{}
	failed chan struct{}

	// Owned by the consumer goroutine until done is closed.
	chunks  [][]byte
	written int
	err     error

	mu        sync.Mutex
	finalized bool
	result    *sinkResult
	finalErr  error
}

func newEncodeSink(enc media.Encoder, depth int, interval time.Duration, release func(*image.RGBA), observer Observer, log logging.Logger) *EncodeSink {
	if depth < 1 {
		depth = 1
	}
	if interval <= 0 {
		interval = DefaultChunkInterval
	}
	if release == nil {
		release = func(*image.RGBA) {}
	}
	if observer == nil {
		observer = NopObserver{}
	}
	s := &EncodeSink{
		enc:      enc,
		frames:   make(chan *image.RGBA, depth),
		release:  release,
		interval: interval,
		observer: observer,
		log:      log,
		done:     make(chan struct{}),
		failed:   make(chan struct{}),
	}
	go s.consume()
	return s
}

// Full reports whether a frame offered now would be dropped.
func (s *EncodeSink) Full() bool {
	return len(s.frames) == cap(s.frames)
}

// Offer queues a frame without blocking. It returns false if the queue is
// full, in which case the caller keeps ownership of img.
func (s *EncodeSink) Offer(img *image.RGBA) bool {
	select {
	case s.frames <- img:
		return true
	default:
		return false
	}
}

// Failed is closed when the consumer stops on an encoder error.
func (s *EncodeSink) Failed() <-chan struct{} {
	return s.failed
}

// Err returns the consumer error. It is only meaningful after Failed is
// closed.
func (s *EncodeSink) Err() error {
	select {
	case <-s.failed:
		return s.err
	default:
		return nil
	}
}

func (s *EncodeSink) consume() {
	defer close(s.done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case img, ok := <-s.frames:
			if !ok {
				return
			}
			err := s.enc.WriteFrame(img)
			s.release(img)
			if err != nil {
				s.fail(&media.RuntimeError{Op: "encode frame", Err: err})
				return
			}
			s.written++
		case <-ticker.C:
			if err := s.flush(); err != nil {
				s.fail(&media.RuntimeError{Op: "flush encoder", Err: err})
				return
			}
		}
	}
}

func (s *EncodeSink) flush() error {
	data, err := s.enc.Flush()
	if err != nil {
		return err
	}
	s.appendChunk(data)
	return nil
}

func (s *EncodeSink) appendChunk(data []byte) {
	if len(data) == 0 {
		return
	}
	s.chunks = append(s.chunks, data)
	s.observer.ChunkEmitted(len(data))
}

func (s *EncodeSink) fail(err error) {
	s.err = err
	close(s.failed)
	s.log.Error("encode sink stopped: %v", err)
}

// stopConsumer closes the frame queue and waits for the consumer to exit.
// Frames still queued are written first.
func (s *EncodeSink) stopConsumer() {
	close(s.frames)
	<-s.done
	// the consumer may have exited early on error
	for img := range s.frames {
		s.release(img)
	}
}

// Finalize drains the queue, closes the encoder and concatenates every
// chunk in emission order. It is idempotent: later calls return the first
// call's result without touching the encoder again.
func (s *EncodeSink) Finalize() (*sinkResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.finalized {
		return s.result, s.finalErr
	}
	s.finalized = true
	s.stopConsumer()

	if s.err != nil {
		if err := s.enc.Abort(); err != nil {
			s.log.Debug("abort after failure: %v", err)
		}
		s.chunks = nil
		s.finalErr = s.err
		return nil, s.finalErr
	}

	tail, err := s.enc.Close()
	if err != nil {
		s.chunks = nil
		s.finalErr = &media.RuntimeError{Op: "finalize encoder", Err: err}
		return nil, s.finalErr
	}
	s.appendChunk(tail)

	s.result = &sinkResult{
		artifact: bytes.Join(s.chunks, nil),
		chunks:   len(s.chunks),
		frames:   s.written,
	}
	s.chunks = nil
	s.log.Debug("sink finalized: %d frames, %d chunks, %d bytes", s.result.frames, s.result.chunks, len(s.result.artifact))
	return s.result, nil
}

// Discard aborts the encoder and drops everything collected so far. A
// discarded sink finalizes to an error. Discard after Finalize does nothing.
func (s *EncodeSink) Discard() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.finalized {
		return
	}
	s.finalized = true
	s.stopConsumer()
	if err := s.enc.Abort(); err != nil {
		s.log.Debug("abort encoder: %v", err)
	}
	s.chunks = nil
	s.finalErr = &media.RuntimeError{Op: "finalize encoder", Err: errSinkDiscarded}
}
