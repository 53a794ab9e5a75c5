package media

import (
	"fmt"
	"image"
	"sort"
	"strings"

	"golang.org/x/image/draw"
)

// Rescaler resamples a source picture into a preallocated destination.
type Rescaler interface {
	Rescale(dst *image.RGBA, src image.Image)
}

var interpolators = map[string]draw.Interpolator{
	"nearest":        draw.NearestNeighbor,
	"approxbilinear": draw.ApproxBiLinear,
	"bilinear":       draw.BiLinear,
	"catmullrom":     draw.CatmullRom,
}

// DefaultScaler is the interpolator used when none is configured.
const DefaultScaler = "bilinear"

// DrawRescaler scales with a golang.org/x/image/draw interpolator.
type DrawRescaler struct {
	name   string
	interp draw.Interpolator
}

// NewRescaler returns a rescaler for the named interpolator
// (nearest, approxbilinear, bilinear, catmullrom). An empty name selects
// DefaultScaler.
func NewRescaler(name string) (*DrawRescaler, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		key = DefaultScaler
	}
	interp, ok := interpolators[key]
	if !ok {
		return nil, fmt.Errorf("unknown scaler %q (supported: %s)", name, strings.Join(ScalerNames(), ", "))
	}
	return &DrawRescaler{name: key, interp: interp}, nil
}

// ScalerNames lists the accepted interpolator names.
func ScalerNames() []string {
	names := make([]string, 0, len(interpolators))
	for name := range interpolators {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Name returns the interpolator name.
func (r *DrawRescaler) Name() string {
	return r.name
}

// Rescale writes src, resampled to fill dst.Bounds(), directly into dst.
func (r *DrawRescaler) Rescale(dst *image.RGBA, src image.Image) {
	r.interp.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
}
