// Package pipeline runs one source video through a rescale and re-encode
// at a target resolution and bitrate.
//
// A run is driven by a cooperative frame pump: the source plays back on its
// own clock (1.0x), and each decoded frame is resampled straight into an
// output-sized buffer and queued for the encode sink. The sink owns the
// encoder on its own goroutine, flushes encoder output into one chunk per
// ChunkInterval, and concatenates the chunks into the artifact when the
// source ends.
//
// Frames that arrive while the encoder queue is full are dropped and
// counted, never buffered without bound.
//
// # Lifecycle
//
//	Idle -> Probing -> Ready -> Running -> Finalizing -> Completed
//	                                    \-> Cancelled (from Running or Finalizing)
//	any non-terminal state              --> Failed
//
// Cancellation is the caller's context. It is observed at the next pump
// step, stops source playback, finalizes the sink, and makes Run return an
// error matching media.ErrCancelled instead of a Result.
//
// # Usage
//
//	p := pipeline.New(trans, trans, trans, pipeline.Config{})
//	res, err := p.Run(ctx, "clip.mp4", pipeline.Options{
//	    Resolution: resolution.Label4K,
//	    Bitrate:    20,
//	    Format:     mediatypes.FormatWebM,
//	}, func(percent int) { fmt.Printf("%d%%\n", percent) })
package pipeline
