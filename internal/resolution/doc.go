// Package resolution maps named resolution tiers to target pixel dimensions.
//
// The table is closed and immutable:
//
//	480p   854x480     2K  2048x1080
//	720p   1280x720    4K  3840x2160
//	1080p  1920x1080   5K  5120x2880
//	1440p  2560x1440   8K  7680x4320
//
// Lookup is total over the Label constants; a Label built by conversion from
// arbitrary text yields the zero geometry.Size. Parse accepts user text such
// as "1080", "4k" or "8K".
//
// EstimateSize predicts the output file size of a run from its duration and
// bitrate, capping the bitrate at a per-tier ceiling.
package resolution
