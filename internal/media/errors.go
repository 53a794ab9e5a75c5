package media

import (
	"errors"
	"fmt"

	"video-upscaler/internal/mediatypes"
)

// Sentinel errors for classifying how a run ended. Use errors.Is against
// these; the typed errors below all match their sentinel.
var (
	ErrMetadata    = errors.New("metadata error")
	ErrEncoderInit = errors.New("encoder init error")
	ErrRuntime     = errors.New("runtime error")
	ErrCancelled   = errors.New("operation cancelled")

	// ErrSourceStopped is returned by Source.NextFrame after Stop.
	ErrSourceStopped = errors.New("source stopped")
)

// MetadataError reports a source that cannot be opened or has no decodable
// video track.
type MetadataError struct {
	Path   string
	Reason string
	Err    error
}

func (e *MetadataError) Error() string {
	msg := fmt.Sprintf("metadata error: %s: %s", e.Path, e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *MetadataError) Unwrap() error { return e.Err }

// Is matches ErrMetadata.
func (e *MetadataError) Is(target error) bool { return target == ErrMetadata }

// EncoderInitError reports an encoder session that could not be opened,
// typically an unsupported codec/container combination on the host.
type EncoderInitError struct {
	Format mediatypes.Format
	Reason string
	Err    error
}

func (e *EncoderInitError) Error() string {
	msg := fmt.Sprintf("encoder init error (%s): %s", e.Format, e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *EncoderInitError) Unwrap() error { return e.Err }

// Is matches ErrEncoderInit.
func (e *EncoderInitError) Is(target error) bool { return target == ErrEncoderInit }

// RuntimeError reports a mid-stream read or encode failure.
type RuntimeError struct {
	Op  string
	Err error
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("runtime error during %s: %v", e.Op, e.Err)
}

func (e *RuntimeError) Unwrap() error { return e.Err }

// Is matches ErrRuntime.
func (e *RuntimeError) Is(target error) bool { return target == ErrRuntime }

// CancelledError reports a caller-initiated cancellation. Cause is usually
// context.Canceled or context.DeadlineExceeded.
type CancelledError struct {
	Cause error
}

func (e *CancelledError) Error() string {
	if e.Cause == nil {
		return ErrCancelled.Error()
	}
	return ErrCancelled.Error() + ": " + e.Cause.Error()
}

func (e *CancelledError) Unwrap() error { return e.Cause }

// Is matches ErrCancelled.
func (e *CancelledError) Is(target error) bool { return target == ErrCancelled }

// Classify returns a short label for err suitable for logs and metric labels:
// "cancelled", "metadata", "encoder_init", "runtime", "unknown", or "" for nil.
func Classify(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrCancelled):
		return "cancelled"
	case errors.Is(err, ErrMetadata):
		return "metadata"
	case errors.Is(err, ErrEncoderInit):
		return "encoder_init"
	case errors.Is(err, ErrRuntime):
		return "runtime"
	default:
		return "unknown"
	}
}
