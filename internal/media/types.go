package media

import (
	"context"
	"image"
	"math"
	"time"

	"video-upscaler/internal/geometry"
	"video-upscaler/internal/mediatypes"
)

// DefaultFrameRate is assumed when a source does not report a usable rate.
const DefaultFrameRate = 30.0

// VideoInfo contains information about a source video file.
type VideoInfo struct {
	Width     int     `json:"width"`
	Height    int     `json:"height"`
	Duration  float64 `json:"duration"`
	FileSize  int64   `json:"fileSize"`
	FrameRate float64 `json:"frameRate"`
	Codec     string  `json:"codec"`
	HasAudio  bool    `json:"hasAudio"`
}

// Size returns the source dimensions.
func (v VideoInfo) Size() geometry.Size {
	return geometry.Size{Width: v.Width, Height: v.Height}
}

// DurationTime returns Duration as a time.Duration. Unknown or invalid
// durations yield 0.
func (v VideoInfo) DurationTime() time.Duration {
	if math.IsNaN(v.Duration) || math.IsInf(v.Duration, 0) || v.Duration <= 0 {
		return 0
	}
	return time.Duration(v.Duration * float64(time.Second))
}

// Frame is one decoded source picture and its playback position.
type Frame struct {
	Image    image.Image
	Position time.Duration
}

// Source is a decodable video that plays back on its own clock.
type Source interface {
	// Start begins playback at the native (1.0x) rate.
	Start(ctx context.Context) error
	// NextFrame blocks until the next frame is decoded. It returns io.EOF at
	// the end of the stream and ErrSourceStopped once Stop has been called.
	NextFrame(ctx context.Context) (Frame, error)
	// Position returns the playback position of the most recent frame.
	Position() time.Duration
	// Stop halts playback and releases the decoder. Safe to call repeatedly.
	Stop() error
}

// EncoderConfig describes the streaming encoder session for one run.
type EncoderConfig struct {
	Size          geometry.Size
	BitsPerSecond int64
	Format        mediatypes.Format
	FrameRate     float64
	// AudioSource is a file whose audio track is multiplexed into the
	// output. Empty means video only.
	AudioSource string
}

// Encoder is a streaming encoder and muxer.
type Encoder interface {
	// WriteFrame encodes one frame. The encoder must not retain img.
	WriteFrame(img *image.RGBA) error
	// Flush returns the container bytes produced since the previous call.
	Flush() ([]byte, error)
	// Close finishes the stream and returns the remaining bytes.
	Close() ([]byte, error)
	// Abort stops the encoder without finishing the stream.
	Abort() error
}
