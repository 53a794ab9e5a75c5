package pipeline

import (
	"context"
	"errors"
	"image"
	"time"

	"video-upscaler/internal/geometry"
	"video-upscaler/internal/logging"
	"video-upscaler/internal/media"
	"video-upscaler/internal/mediatypes"
	"video-upscaler/internal/memory"
	"video-upscaler/internal/resolution"
)

// DefaultChunkInterval is how often encoder output is collected into a chunk.
const DefaultChunkInterval = time.Second

// Prober reads source metadata.
type Prober interface {
	Probe(ctx context.Context, path string) (*media.VideoInfo, error)
}

// SourceOpener opens a source for playback at its native size.
type SourceOpener interface {
	OpenSource(ctx context.Context, path string, info *media.VideoInfo) (media.Source, error)
}

// EncoderOpener opens a streaming encoder session.
type EncoderOpener interface {
	OpenEncoder(ctx context.Context, cfg media.EncoderConfig) (media.Encoder, error)
}

// Config tunes a Pipeline. The zero value is usable.
type Config struct {
	// ChunkInterval defaults to DefaultChunkInterval.
	ChunkInterval time.Duration
	// FrameQueue is the encoder queue depth. 0 derives it from the frame
	// size and the process memory limit.
	FrameQueue int
	// Rescaler defaults to media.DefaultScaler.
	Rescaler media.Rescaler
	// Observer defaults to NopObserver.
	Observer Observer
	// KeepAudio multiplexes the source's audio track into the output.
	KeepAudio bool
}

// Result is a completed run.
type Result struct {
	Artifact      []byte
	FileSize      int64
	Geometry      geometry.Size
	Format        mediatypes.Format
	MIMEType      string
	Chunks        int
	FramesPumped  int
	FramesDropped int
	Elapsed       time.Duration
}

// RunOption adjusts a single Run.
type RunOption func(*runSettings)

type runSettings struct {
	onFirstFrame func(image.Image)
	onProbed     func(media.VideoInfo)
}

// WithFirstFrame calls fn with a copy of the first rescaled frame. fn runs
// on the pump goroutine and delays the pump while it runs.
func WithFirstFrame(fn func(image.Image)) RunOption {
	return func(s *runSettings) {
		s.onFirstFrame = fn
	}
}

// WithSourceInfo calls fn with the probed source metadata before the
// encoder is opened. fn runs on the Run goroutine.
func WithSourceInfo(fn func(info media.VideoInfo)) RunOption {
	return func(s *runSettings) {
		s.onProbed = fn
	}
}

// Pipeline runs upscale jobs. It holds no per-run state; one Pipeline may
// serve concurrent runs.
type Pipeline struct {
	prober   Prober
	sources  SourceOpener
	encoders EncoderOpener
	cfg      Config
}

// New creates a Pipeline.
func New(prober Prober, sources SourceOpener, encoders EncoderOpener, cfg Config) *Pipeline {
	if cfg.ChunkInterval <= 0 {
		cfg.ChunkInterval = DefaultChunkInterval
	}
	if cfg.Observer == nil {
		cfg.Observer = NopObserver{}
	}
	if cfg.Rescaler == nil {
		// the default scaler name is always registered
		cfg.Rescaler, _ = media.NewRescaler(media.DefaultScaler)
	}
	return &Pipeline{prober: prober, sources: sources, encoders: encoders, cfg: cfg}
}

// Probe reads source metadata without starting a run.
func (p *Pipeline) Probe(ctx context.Context, path string) (*media.VideoInfo, error) {
	info, err := p.prober.Probe(ctx, path)
	if err != nil {
		return nil, asMetadataError(path, err)
	}
	if info == nil || info.Size().IsZero() {
		return nil, &media.MetadataError{Path: path, Reason: "no video dimensions"}
	}
	return info, nil
}

// Run upscales the video at path. onProgress, if non-nil, receives strictly
// increasing whole percentages and a final 100 on completion.
//
// Cancelling ctx after playback has started stops the run at the next pump
// step; Run then returns nil and an error matching media.ErrCancelled. Other
// failures are *media.MetadataError, *media.EncoderInitError or
// *media.RuntimeError.
func (p *Pipeline) Run(ctx context.Context, path string, opts Options, onProgress func(int), runOpts ...RunOption) (*Result, error) {
	var settings runSettings
	for _, opt := range runOpts {
		opt(&settings)
	}

	r := newRun(ctx, p.cfg.Observer)
	r.log.Info("Starting %s: %s", path, opts)

	res, err := p.execute(r, path, opts, onProgress, settings)

	var size int64
	if res != nil {
		size = res.FileSize
	}
	r.finish(size)
	return res, err
}

func (p *Pipeline) execute(r *run, path string, opts Options, onProgress func(int), settings runSettings) (*Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, r.fail(err)
	}

	r.transition(StateProbing)
	// Cancellation applies from Running on; probing always completes.
	runCtx, stop := context.WithCancel(context.WithoutCancel(r.ctx))
	defer stop()

	info, err := p.Probe(runCtx, path)
	if err != nil {
		return nil, r.fail(err)
	}
	size := geometry.Fit(info.Size(), resolution.Lookup(opts.Resolution))
	r.log.Info("Source %s, %.2fs at %.3g fps; output %s", info.Size(), info.Duration, info.FrameRate, size)
	if settings.onProbed != nil {
		settings.onProbed(*info)
	}
	r.transition(StateReady)

	frameRate := info.FrameRate
	if frameRate <= 0 {
		frameRate = media.DefaultFrameRate
	}
	encCfg := media.EncoderConfig{
		Size:          size,
		BitsPerSecond: opts.BitsPerSecond(),
		Format:        opts.Format,
		FrameRate:     frameRate,
	}
	if p.cfg.KeepAudio && info.HasAudio {
		encCfg.AudioSource = path
	}
	enc, err := p.encoders.OpenEncoder(runCtx, encCfg)
	if err != nil {
		return nil, r.fail(asEncoderInitError(opts.Format, err))
	}

	buffers := newFramePool(size)
	depth := p.cfg.FrameQueue
	if depth <= 0 {
		depth = memory.FrameQueueDepth(int64(size.Pixels())*4, memory.CurrentLimit())
	}
	r.log.Debug("Frame queue depth %d", depth)
	sink := newEncodeSink(enc, depth, p.cfg.ChunkInterval, buffers.put, p.cfg.Observer, r.log)

	src, err := p.sources.OpenSource(runCtx, path, info)
	if err != nil {
		sink.Discard()
		return nil, r.fail(asMetadataError(path, err))
	}
	defer stopSource(src, r.log)

	r.transition(StateRunning)
	if err := src.Start(runCtx); err != nil {
		sink.Discard()
		return nil, r.fail(&media.RuntimeError{Op: "start playback", Err: err})
	}

	watchDone := make(chan struct{})
	defer close(watchDone)
	go func() {
		select {
		case <-r.ctx.Done():
			r.markCancelled()
			stopSource(src, r.log)
		case <-watchDone:
		}
	}()

	pump := &framePump{
		run:      r,
		src:      src,
		sink:     sink,
		rescaler: p.cfg.Rescaler,
		buffers:  buffers,
		progress: newProgressTracker(info.DurationTime(), onProgress),
		observer: p.cfg.Observer,
		onFirst:  settings.onFirstFrame,
	}
	pumpErr := pump.pump(runCtx)
	if pumpErr != nil && !errors.Is(pumpErr, errPumpCancelled) {
		sink.Discard()
		return nil, r.fail(pumpErr)
	}
	stopSource(src, r.log)

	r.transition(StateFinalizing)
	out, err := sink.Finalize()
	if r.isCancelled() {
		r.log.Info("Cancelled after %d frames; output discarded", pump.pumped)
		return nil, r.cancel()
	}
	if err != nil {
		return nil, r.fail(err)
	}

	pump.progress.complete()
	r.transition(StateCompleted)

	res := &Result{
		Artifact:      out.artifact,
		FileSize:      int64(len(out.artifact)),
		Geometry:      size,
		Format:        opts.Format,
		MIMEType:      opts.Format.MIMEType(),
		Chunks:        out.chunks,
		FramesPumped:  pump.pumped,
		FramesDropped: pump.dropped,
		Elapsed:       time.Since(r.started),
	}
	r.log.Info("Completed: %d frames (%d dropped), %d chunks, %d bytes in %v",
		res.FramesPumped, res.FramesDropped, res.Chunks, res.FileSize, res.Elapsed.Round(time.Millisecond))
	return res, nil
}

func stopSource(src media.Source, log logging.Logger) {
	if err := src.Stop(); err != nil {
		log.Debug("stop source: %v", err)
	}
}

func asMetadataError(path string, err error) error {
	var me *media.MetadataError
	if errors.As(err, &me) {
		return err
	}
	return &media.MetadataError{Path: path, Reason: "cannot read source", Err: err}
}

func asEncoderInitError(format mediatypes.Format, err error) error {
	var ee *media.EncoderInitError
	if errors.As(err, &ee) {
		return err
	}
	return &media.EncoderInitError{Format: format, Reason: "cannot open encoder", Err: err}
}
