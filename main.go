package main

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/pflag"

	"video-upscaler/internal/filesystem"
	"video-upscaler/internal/handlers"
	"video-upscaler/internal/logging"
	"video-upscaler/internal/media"
	"video-upscaler/internal/memory"
	"video-upscaler/internal/metrics"
	"video-upscaler/internal/pipeline"
	"video-upscaler/internal/resolution"
	"video-upscaler/internal/startup"
	"video-upscaler/internal/transcoder"
)

const (
	exitOK        = 0
	exitError     = 1
	exitUsage     = 2
	exitCancelled = 130
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	opts, err := parseArgs(args, os.Stderr)
	if errors.Is(err, pflag.ErrHelp) {
		return exitOK
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return exitUsage
	}
	if opts.showVersion {
		printVersion(os.Stdout)
		return exitOK
	}
	if opts.logLevel != "" {
		level, ok := logging.ParseLevel(opts.logLevel)
		if !ok {
			fmt.Fprintf(os.Stderr, "Error: unknown log level %q\n", opts.logLevel)
			return exitUsage
		}
		logging.SetLevel(level)
	}

	// Memory limit first: the frame queue depth is derived from it.
	memResult := memory.ConfigureFromEnv()

	cfg, err := startup.LoadConfig()
	if err != nil {
		logging.Error("Configuration error: %v", err)
		return exitError
	}
	startup.LogMemoryConfig(memResult)
	if opts.scaler != "" {
		cfg.Scaler = opts.scaler
	}
	if opts.noAudio {
		cfg.KeepAudio = false
	}

	if err := startup.CheckTools(cfg, !opts.probeOnly); err != nil {
		logging.Error("%v", err)
		return exitError
	}

	rescaler, err := media.NewRescaler(cfg.Scaler)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return exitUsage
	}

	filesystem.SetObserver(metrics.NewFilesystemObserver())
	transcoder.SetObserver(metrics.NewTranscoderObserver())
	trans := transcoder.New(transcoder.Config{
		FFmpegPath:  cfg.FFmpegPath,
		FFprobePath: cfg.FFprobePath,
		Threads:     cfg.EncoderThreads,
	})
	defer func() {
		startup.LogShutdownStep("Cleaning up ffmpeg processes")
		trans.Cleanup()
		startup.LogShutdownStepComplete("Transcoder cleanup complete")
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tracker := handlers.NewRunTracker(opts.input, opts.options.String())
	p := pipeline.New(trans, trans, trans, pipeline.Config{
		ChunkInterval: cfg.ChunkInterval,
		FrameQueue:    cfg.FrameQueue,
		Rescaler:      rescaler,
		Observer:      pipeline.MultiObserver(metrics.NewPipelineObserver(), tracker),
		KeepAudio:     cfg.KeepAudio,
	})

	if opts.probeOnly {
		info, err := p.Probe(ctx, opts.input)
		if err != nil {
			logging.Error("%v", err)
			return exitError
		}
		printInfo(os.Stdout, opts.input, info)
		return exitOK
	}

	if warning := bitrateWarning(opts.options.Bitrate); warning != "" {
		logging.Warn("%s", warning)
	}

	dest := outputPath(opts.output, cfg.OutputDir, opts.options)
	if err := startup.PrepareOutputDir(filepath.Dir(dest)); err != nil {
		logging.Error("%v", err)
		return exitError
	}

	if cfg.MetricsEnabled {
		server := startStatusServer(cfg.MetricsPort, tracker, trans)
		defer server.shutdown()
	}

	return upscale(ctx, p, opts, dest, tracker)
}

func upscale(ctx context.Context, p *pipeline.Pipeline, opts *cliOptions, dest string, tracker *handlers.RunTracker) int {
	runOpts := []pipeline.RunOption{
		pipeline.WithSourceInfo(func(info media.VideoInfo) {
			if estimate := estimateSize(opts.options, info); estimate != "" {
				logging.Info("Estimated output size: %s", estimate)
			}
		}),
	}
	if opts.poster != "" {
		runOpts = append(runOpts, pipeline.WithFirstFrame(func(img image.Image) {
			if err := media.SavePoster(opts.poster, img, media.DefaultPosterSize); err != nil {
				logging.Warn("%v", err)
				return
			}
			logging.Info("Poster written to %s", opts.poster)
		}))
	}

	bar := newProgressPrinter(os.Stderr)
	res, err := p.Run(ctx, opts.input, opts.options, func(percent int) {
		tracker.Progress(percent)
		bar.Update(percent)
	}, runOpts...)
	bar.Done()

	if errors.Is(err, media.ErrCancelled) {
		fmt.Fprintln(os.Stderr, "Cancelled, no output written.")
		return exitCancelled
	}
	if err != nil {
		logging.Error("Upscale failed (%s): %v", media.Classify(err), err)
		return exitError
	}

	if err := filesystem.WriteFileAtomic(dest, res.Artifact, 0o644, filesystem.DefaultRetryConfig()); err != nil {
		logging.Error("Failed to write output: %v", err)
		return exitError
	}

	printResult(os.Stdout, dest, res)
	return exitOK
}

// estimateSize returns the expected output size, or "" when the source
// duration is unknown.
func estimateSize(opts pipeline.Options, info media.VideoInfo) string {
	estimate := resolution.EstimateSize(opts.Resolution, info.Duration, opts.Bitrate)
	if estimate <= 0 {
		return ""
	}
	return humanize.IBytes(uint64(estimate))
}

func printInfo(w io.Writer, path string, info *media.VideoInfo) {
	fmt.Fprintf(w, "File:       %s\n", path)
	fmt.Fprintf(w, "Size:       %s\n", humanize.IBytes(uint64(info.FileSize)))
	fmt.Fprintf(w, "Dimensions: %s\n", info.Size())
	fmt.Fprintf(w, "Duration:   %s\n", info.DurationTime().Round(10 * time.Millisecond))
	fmt.Fprintf(w, "Frame rate: %.3g fps\n", info.FrameRate)
	fmt.Fprintf(w, "Codec:      %s\n", info.Codec)
	fmt.Fprintf(w, "Audio:      %v\n", info.HasAudio)
}

func printResult(w io.Writer, dest string, res *pipeline.Result) {
	fmt.Fprintf(w, "Wrote %s (%s, %s, %s)\n", dest, humanize.IBytes(uint64(res.FileSize)), res.Geometry, res.MIMEType)
	fmt.Fprintf(w, "Frames: %s encoded, %s dropped, %d chunks in %s\n",
		humanize.Comma(int64(res.FramesPumped)), humanize.Comma(int64(res.FramesDropped)), res.Chunks, res.Elapsed.Round(10 * time.Millisecond))
}

func printVersion(w io.Writer) {
	info := startup.GetBuildInfo()
	fmt.Fprintf(w, "video-upscaler %s (commit %s, built %s, %s %s/%s)\n",
		info.Version, info.Commit, info.BuildTime, info.GoVersion, info.OS, info.Arch)
}
