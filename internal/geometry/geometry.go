package geometry

import (
	"fmt"
	"math"
)

// Size is a width/height pair in pixels.
type Size struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// IsZero reports whether either dimension is non-positive.
func (s Size) IsZero() bool {
	return s.Width <= 0 || s.Height <= 0
}

// Landscape reports whether the size is landscape or square.
func (s Size) Landscape() bool {
	return s.Width >= s.Height
}

// Pixels returns Width*Height.
func (s Size) Pixels() int {
	return s.Width * s.Height
}

// AspectRatio returns Width/Height, or 0 for a zero size.
func (s Size) AspectRatio() float64 {
	if s.IsZero() {
		return 0
	}
	return float64(s.Width) / float64(s.Height)
}

// String formats the size as WIDTHxHEIGHT.
func (s Size) String() string {
	return fmt.Sprintf("%dx%d", s.Width, s.Height)
}

// Fit scales source so that it fits target on the axis selected by the
// source orientation, preserving the source aspect ratio.
func Fit(source, target Size) Size {
	if source.IsZero() || target.IsZero() {
		return Size{}
	}

	if source.Landscape() {
		return Size{
			Width:  target.Width,
			Height: scaleDimension(source.Height, target.Width, source.Width),
		}
	}

	return Size{
		Width:  scaleDimension(source.Width, target.Height, source.Height),
		Height: target.Height,
	}
}

// scaleDimension returns round(value * num / den), never less than one pixel.
func scaleDimension(value, num, den int) int {
	scaled := int(math.Round(float64(value) * float64(num) / float64(den)))
	if scaled < 1 {
		return 1
	}
	return scaled
}
