// Package media defines the types shared between the transcode pipeline and
// its codec collaborators.
//
// It contains:
//   - VideoInfo, the probed description of a source file
//   - the Source and Encoder interfaces implemented by the FFmpeg-backed
//     transcoder package and by test fakes
//   - the error taxonomy (MetadataError, EncoderInitError, RuntimeError and
//     cancellation) used to classify how a run ended
//   - frame rescaling into preallocated buffers (golang.org/x/image/draw)
//   - poster thumbnails of rescaled frames (github.com/disintegration/imaging)
package media
