package pipeline

import (
	"fmt"

	"video-upscaler/internal/media"
	"video-upscaler/internal/mediatypes"
	"video-upscaler/internal/resolution"
)

// Options selects the output of one run.
type Options struct {
	Resolution resolution.Label
	// Bitrate is the target video bitrate in Mbps.
	Bitrate int
	Format  mediatypes.Format
}

// BitsPerSecond returns the target video bitrate in bits per second.
func (o Options) BitsPerSecond() int64 {
	return int64(o.Bitrate) * 1_000_000
}

// Validate reports options the encoder cannot be configured with.
func (o Options) Validate() error {
	switch {
	case !o.Format.Valid():
		return &media.EncoderInitError{Format: o.Format, Reason: "unsupported container format"}
	case !o.Resolution.Valid():
		return &media.EncoderInitError{Format: o.Format, Reason: fmt.Sprintf("unknown resolution %q", o.Resolution)}
	case o.Bitrate <= 0:
		return &media.EncoderInitError{Format: o.Format, Reason: fmt.Sprintf("bitrate must be positive, got %d Mbps", o.Bitrate)}
	}
	return nil
}

func (o Options) String() string {
	return fmt.Sprintf("%s @ %d Mbps (%s)", o.Resolution, o.Bitrate, o.Format)
}
