package pipeline

import (
	"context"
	"errors"
	"image"
	"io"
	"sync"

	"video-upscaler/internal/geometry"
	"video-upscaler/internal/media"
)

// errPumpCancelled stops the pump when the run has been cancelled.
var errPumpCancelled = errors.New("pump cancelled")

// framePool recycles output-sized frame buffers between the pump and the
// sink consumer.
type framePool struct {
	size geometry.Size
	pool sync.Pool
}

func newFramePool(size geometry.Size) *framePool {
	p := &framePool{size: size}
	p.pool.New = func() any {
		return image.NewRGBA(image.Rect(0, 0, size.Width, size.Height))
	}
	return p
}

func (p *framePool) get() *image.RGBA {
	return p.pool.Get().(*image.RGBA)
}

func (p *framePool) put(img *image.RGBA) {
	if img == nil || img.Rect.Dx() != p.size.Width || img.Rect.Dy() != p.size.Height {
		return
	}
	p.pool.Put(img)
}

// framePump moves frames from the playing source into the encode sink, one
// frame per step.
type framePump struct {
	run      *run
	src      media.Source
	sink     *EncodeSink
	rescaler media.Rescaler
	buffers  *framePool
	progress *progressTracker
	observer Observer
	onFirst  func(image.Image)

	pumped  int
	dropped int
}

// pump runs until the source ends, the run is cancelled, or a step fails.
// A nil return means the source reached its end and the sink should be
// finalized.
func (p *framePump) pump(ctx context.Context) error {
	for {
		if p.run.isCancelled() {
			return errPumpCancelled
		}
		select {
		case <-p.sink.Failed():
			return p.sink.Err()
		default:
		}

		frame, err := p.src.NextFrame(ctx)
		if err != nil {
			if p.run.isCancelled() {
				return errPumpCancelled
			}
			if errors.Is(err, io.EOF) || errors.Is(err, media.ErrSourceStopped) {
				return nil
			}
			return &media.RuntimeError{Op: "read frame", Err: err}
		}
		p.step(frame)
	}
}

func (p *framePump) step(frame media.Frame) {
	defer p.progress.observe(p.src.Position())

	if p.sink.Full() {
		p.drop()
		return
	}

	buf := p.buffers.get()
	p.rescaler.Rescale(buf, frame.Image)

	if p.onFirst != nil {
		p.onFirst(cloneRGBA(buf))
		p.onFirst = nil
	}

	if !p.sink.Offer(buf) {
		p.buffers.put(buf)
		p.drop()
		return
	}
	p.pumped++
	p.observer.FramePumped()
}

func (p *framePump) drop() {
	p.dropped++
	p.observer.FrameDropped()
}

func cloneRGBA(src *image.RGBA) *image.RGBA {
	dst := image.NewRGBA(src.Rect)
	copy(dst.Pix, src.Pix)
	return dst
}
