package handlers

import (
	"sync"
	"time"

	"video-upscaler/internal/pipeline"
)

// RunStatus is a snapshot of the current run.
type RunStatus struct {
	ID            string    `json:"id,omitempty"`
	Source        string    `json:"source"`
	Options       string    `json:"options"`
	State         string    `json:"state"`
	Percent       int       `json:"percent"`
	FramesPumped  int64     `json:"framesPumped"`
	FramesDropped int64     `json:"framesDropped"`
	Chunks        int64     `json:"chunks"`
	OutputBytes   int64     `json:"outputBytes"`
	StartedAt     time.Time `json:"startedAt"`
	Elapsed       string    `json:"elapsed"`
}

// RunTracker follows one run through pipeline events and progress
// callbacks. It implements pipeline.Observer.
type RunTracker struct {
	mu     sync.Mutex
	status RunStatus
	done   bool
	ended  time.Time
}

var _ pipeline.Observer = (*RunTracker)(nil)

// NewRunTracker creates a tracker for a run of source with the given
// options description.
func NewRunTracker(source, options string) *RunTracker {
	return &RunTracker{status: RunStatus{
		Source:    source,
		Options:   options,
		State:     pipeline.StateIdle.String(),
		StartedAt: time.Now(),
	}}
}

// Progress records a progress callback value.
func (t *RunTracker) Progress(percent int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.status.Percent = percent
}

// Snapshot returns the current status.
func (t *RunTracker) Snapshot() RunStatus {
	t.mu.Lock()
	defer t.mu.Unlock()

	s := t.status
	end := time.Now()
	if t.done {
		end = t.ended
	}
	s.Elapsed = end.Sub(s.StartedAt).Round(time.Second).String()
	return s
}

func (t *RunTracker) RunStarted(id string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.status.ID = id
	t.status.StartedAt = time.Now()
}

func (t *RunTracker) StateChanged(_ string, _, to pipeline.State) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.status.State = to.String()
}

func (t *RunTracker) FramePumped() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.status.FramesPumped++
}

func (t *RunTracker) FrameDropped() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.status.FramesDropped++
}

func (t *RunTracker) ChunkEmitted(bytes int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.status.Chunks++
	t.status.OutputBytes += int64(bytes)
}

func (t *RunTracker) RunFinished(_ string, outcome pipeline.State, _ time.Duration, outputBytes int64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.status.State = outcome.String()
	t.status.OutputBytes = outputBytes
	t.done = true
	t.ended = time.Now()
}
