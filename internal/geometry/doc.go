// Package geometry holds pixel dimensions and the aspect-fit rule used to size
// rescaled output frames.
//
// Fit never pads: one output dimension matches the target exactly (width for
// landscape or square sources, height for portrait sources) and the other is
// derived from the source aspect ratio and rounded to the nearest pixel.
//
//	out := geometry.Fit(geometry.Size{Width: 1080, Height: 1920}, geometry.Size{Width: 1280, Height: 720})
//	// out == {405 720}
package geometry
