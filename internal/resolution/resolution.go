package resolution

import (
	"fmt"
	"math"
	"strings"

	"video-upscaler/internal/geometry"
)

// Label is a named resolution tier.
type Label string

// Supported resolution tiers.
const (
	Label480p  Label = "480p"
	Label720p  Label = "720p"
	Label1080p Label = "1080p"
	Label1440p Label = "1440p"
	Label2K    Label = "2K"
	Label4K    Label = "4K"
	Label5K    Label = "5K"
	Label8K    Label = "8K"
)

// ordered lists every tier from smallest to largest.
var ordered = []Label{
	Label480p,
	Label720p,
	Label1080p,
	Label1440p,
	Label2K,
	Label4K,
	Label5K,
	Label8K,
}

var table = map[Label]geometry.Size{
	Label480p:  {Width: 854, Height: 480},
	Label720p:  {Width: 1280, Height: 720},
	Label1080p: {Width: 1920, Height: 1080},
	Label1440p: {Width: 2560, Height: 1440},
	Label2K:    {Width: 2048, Height: 1080},
	Label4K:    {Width: 3840, Height: 2160},
	Label5K:    {Width: 5120, Height: 2880},
	Label8K:    {Width: 7680, Height: 4320},
}

// Lookup returns the target dimensions for label. Labels outside the
// enumeration yield the zero Size.
func Lookup(label Label) geometry.Size {
	return table[label]
}

// Valid reports whether label is one of the supported tiers.
func (l Label) Valid() bool {
	_, ok := table[l]
	return ok
}

func (l Label) String() string {
	return string(l)
}

// Labels returns all tiers in ascending order.
func Labels() []Label {
	out := make([]Label, len(ordered))
	copy(out, ordered)
	return out
}

// Parse converts user text such as "1080p", "1080", "4k" or "8K" into a Label.
func Parse(s string) (Label, error) {
	text := strings.TrimSpace(s)
	for _, l := range ordered {
		if strings.EqualFold(text, string(l)) || strings.EqualFold(text+"p", string(l)) {
			return l, nil
		}
	}
	return "", fmt.Errorf("unknown resolution %q (supported: %s)", s, joinLabels())
}

func joinLabels() string {
	names := make([]string, len(ordered))
	for i, l := range ordered {
		names[i] = string(l)
	}
	return strings.Join(names, ", ")
}

const (
	estimateFPS          = 30
	estimateBitsPerPixel = 0.1
)

// EstimateSize predicts the output size in bytes of a run at the given tier.
// The requested bitrate is capped at what a 30fps stream at ~0.1 bits per
// pixel per frame would use, which is roughly where VP9/H.264 stop gaining
// visible quality.
func EstimateSize(label Label, durationSeconds float64, bitrateMbps int) int64 {
	target := Lookup(label)
	if target.IsZero() || durationSeconds <= 0 || bitrateMbps <= 0 {
		return 0
	}

	maxReasonable := float64(target.Pixels()) * estimateFPS * estimateBitsPerPixel / 1_000_000
	effective := math.Min(float64(bitrateMbps), maxReasonable)

	return int64(math.Round(durationSeconds * effective * 1_000_000 / 8))
}
