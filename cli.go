package main

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"

	"video-upscaler/internal/mediatypes"
	"video-upscaler/internal/pipeline"
	"video-upscaler/internal/resolution"
)

const (
	defaultResolution = resolution.Label1080p
	defaultBitrate    = 20
	defaultFormat     = mediatypes.FormatWebM

	// Bitrates outside this range are accepted with a warning.
	minRecommendedBitrate = 5
	maxRecommendedBitrate = 100
)

var errMissingInput = errors.New("missing input file")

// cliOptions holds the parsed command line.
type cliOptions struct {
	input       string
	options     pipeline.Options
	output      string
	poster      string
	scaler      string
	logLevel    string
	probeOnly   bool
	noAudio     bool
	showVersion bool
}

func newFlagSet(stderr io.Writer) *pflag.FlagSet {
	fs := pflag.NewFlagSet("video-upscaler", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.SortFlags = false
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: video-upscaler [flags] <input>\n\n")
		fmt.Fprintf(stderr, "Upscales a video in real time and writes the re-encoded result.\n\n")
		fmt.Fprintf(stderr, "Flags:\n%s", fs.FlagUsages())
	}
	return fs
}

// parseArgs parses args (without the program name). It returns
// pflag.ErrHelp when help was requested.
func parseArgs(args []string, stderr io.Writer) (*cliOptions, error) {
	fs := newFlagSet(stderr)

	var (
		opts       cliOptions
		resText    string
		formatText string
	)
	fs.StringVarP(&resText, "resolution", "r", string(defaultResolution),
		"target resolution ("+strings.Join(labelNames(), ", ")+")")
	fs.IntVarP(&opts.options.Bitrate, "bitrate", "b", defaultBitrate, "target video bitrate in Mbps")
	fs.StringVarP(&formatText, "format", "f", string(defaultFormat), "output container (webm, mp4)")
	fs.StringVarP(&opts.output, "output", "o", "", "output file (default OUTPUT_DIR/upscaled-<resolution>.<ext>)")
	fs.StringVar(&opts.poster, "poster", "", "write a JPEG thumbnail of the first upscaled frame to this path")
	fs.StringVar(&opts.scaler, "scaler", "", "frame interpolator (overrides SCALER)")
	fs.BoolVar(&opts.noAudio, "no-audio", false, "drop the source audio track")
	fs.BoolVar(&opts.probeOnly, "probe", false, "print source metadata and exit")
	fs.StringVar(&opts.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	fs.BoolVarP(&opts.showVersion, "version", "v", false, "print version information and exit")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if opts.showVersion {
		return &opts, nil
	}

	if fs.NArg() != 1 {
		fs.Usage()
		return nil, errMissingInput
	}
	opts.input = fs.Arg(0)

	label, err := resolution.Parse(resText)
	if err != nil {
		return nil, err
	}
	opts.options.Resolution = label

	format, err := mediatypes.ParseFormat(formatText)
	if err != nil {
		return nil, err
	}
	opts.options.Format = format

	if opts.options.Bitrate <= 0 {
		return nil, fmt.Errorf("bitrate must be positive, got %d", opts.options.Bitrate)
	}
	return &opts, nil
}

func labelNames() []string {
	labels := resolution.Labels()
	names := make([]string, len(labels))
	for i, l := range labels {
		names[i] = l.String()
	}
	return names
}

// bitrateWarning returns a notice for bitrates outside the recommended range.
func bitrateWarning(mbps int) string {
	if mbps < minRecommendedBitrate || mbps > maxRecommendedBitrate {
		return fmt.Sprintf("bitrate %d Mbps is outside the recommended %d-%d Mbps range",
			mbps, minRecommendedBitrate, maxRecommendedBitrate)
	}
	return ""
}

// outputPath returns the explicit output path or upscaled-<label><ext> in dir.
func outputPath(explicit, dir string, opts pipeline.Options) string {
	if explicit != "" {
		return explicit
	}
	return filepath.Join(dir, "upscaled-"+opts.Resolution.String()+opts.Format.Extension())
}
