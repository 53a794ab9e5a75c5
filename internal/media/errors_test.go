package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"
)

func TestErrorsMatchSentinels(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		sentinel error
		class    string
	}{
		{"metadata", &MetadataError{Path: "a.txt", Reason: "no video stream"}, ErrMetadata, "metadata"},
		{"encoder init", &EncoderInitError{Format: "mp4", Reason: "libx264 missing"}, ErrEncoderInit, "encoder_init"},
		{"runtime", &RuntimeError{Op: "read frame", Err: io.ErrUnexpectedEOF}, ErrRuntime, "runtime"},
		{"cancelled", &CancelledError{Cause: context.Canceled}, ErrCancelled, "cancelled"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := fmt.Errorf("run failed: %w", tt.err)
			if !errors.Is(wrapped, tt.sentinel) {
				t.Errorf("errors.Is(%v, %v) = false", wrapped, tt.sentinel)
			}
			if got := Classify(wrapped); got != tt.class {
				t.Errorf("Classify() = %q, want %q", got, tt.class)
			}
		})
	}
}

func TestErrorsDoNotCrossMatch(t *testing.T) {
	err := &RuntimeError{Op: "encode", Err: errors.New("broken pipe")}

	if errors.Is(err, ErrCancelled) {
		t.Error("RuntimeError must not match ErrCancelled")
	}
	if errors.Is(err, ErrMetadata) {
		t.Error("RuntimeError must not match ErrMetadata")
	}
}

func TestCancelledErrorUnwrapsCause(t *testing.T) {
	err := &CancelledError{Cause: context.DeadlineExceeded}

	if !errors.Is(err, context.DeadlineExceeded) {
		t.Error("CancelledError should unwrap to its cause")
	}
	if !strings.Contains(err.Error(), "operation cancelled") {
		t.Errorf("Error() = %q, want it to mention cancellation", err.Error())
	}
	if (&CancelledError{}).Error() != "operation cancelled" {
		t.Errorf("Error() without cause = %q", (&CancelledError{}).Error())
	}
}

func TestErrorMessages(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{
			&MetadataError{Path: "clip.mp4", Reason: "cannot open", Err: errors.New("permission denied")},
			"metadata error: clip.mp4: cannot open: permission denied",
		},
		{
			&EncoderInitError{Format: "webm", Reason: "encoder unavailable"},
			"encoder init error (webm): encoder unavailable",
		},
		{
			&RuntimeError{Op: "read frame", Err: errors.New("eof")},
			"runtime error during read frame: eof",
		},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestClassifyUnknownAndNil(t *testing.T) {
	if got := Classify(nil); got != "" {
		t.Errorf("Classify(nil) = %q, want empty", got)
	}
	if got := Classify(errors.New("other")); got != "unknown" {
		t.Errorf("Classify(other) = %q, want unknown", got)
	}
}

func TestVideoInfoDurationTime(t *testing.T) {
	tests := []struct {
		name     string
		duration float64
		want     string
	}{
		{"ten seconds", 10, "10s"},
		{"fractional", 1.5, "1.5s"},
		{"zero", 0, "0s"},
		{"negative", -3, "0s"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := VideoInfo{Duration: tt.duration}
			if got := info.DurationTime().String(); got != tt.want {
				t.Errorf("DurationTime() = %s, want %s", got, tt.want)
			}
		})
	}
}
