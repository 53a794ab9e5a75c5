// Package mediatypes provides the output container table and source file
// extension helpers shared across the upscaler.
//
// This package exists as a dependency-free foundation that can be imported by other
// packages without creating import cycles. It contains primitive types, constants,
// and pure utility functions with no external dependencies beyond the standard library.
//
// # Output Formats
//
// A Format selects a container and its codec pair:
//
//	mediatypes.FormatWebM // webm container, VP9 video, Opus audio
//	mediatypes.FormatMP4  // mp4 container, H.264 video, Opus audio
//
// The codec pair is fixed per container; callers pick a Format, never codecs.
//
//	f, err := mediatypes.ParseFormat("mp4")
//	f.MIMEType()  // "video/mp4;codecs=h264,opus"
//	f.Extension() // ".mp4"
//
// # Source Detection
//
// IsVideoFile reports whether a path carries a known video extension. It is a
// hint only; the metadata probe is authoritative.
package mediatypes
