package pipeline

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"video-upscaler/internal/logging"
	"video-upscaler/internal/media"
)

// run is the per-invocation state of Pipeline.Run. Only the Run goroutine
// changes state; cancelled is shared with the context watcher.
type run struct {
	id       string
	ctx      context.Context
	log      logging.Logger
	observer Observer
	started  time.Time

	state     State
	reason    error
	cancelled atomic.Bool
}

func newRun(ctx context.Context, observer Observer) *run {
	id := uuid.NewString()
	r := &run{
		id:       id,
		ctx:      ctx,
		log:      logging.WithPrefix(fmt.Sprintf("[run %s] ", id[:8])),
		observer: observer,
		started:  time.Now(),
		state:    StateIdle,
	}
	observer.RunStarted(id)
	return r
}

// transition moves the run to the next state. An illegal transition is a
// programming error.
func (r *run) transition(to State) {
	if !CanTransition(r.state, to) {
		panic(fmt.Sprintf("pipeline: illegal transition %s -> %s", r.state, to))
	}
	from := r.state
	r.state = to
	r.log.Debug("%s -> %s", from, to)
	r.observer.StateChanged(r.id, from, to)
}

// fail moves the run to Failed and returns err.
func (r *run) fail(err error) error {
	r.reason = err
	r.transition(StateFailed)
	r.log.Error("Failed: %v", err)
	return err
}

// cancel moves the run to Cancelled and returns the error Run reports.
func (r *run) cancel() error {
	err := &media.CancelledError{Cause: context.Cause(r.ctx)}
	r.reason = err
	r.transition(StateCancelled)
	return err
}

func (r *run) markCancelled() {
	r.cancelled.Store(true)
}

// isCancelled reports whether the caller has cancelled the run. It checks
// the context directly so the answer does not depend on the watcher having
// been scheduled.
func (r *run) isCancelled() bool {
	if r.ctx.Err() != nil {
		r.cancelled.Store(true)
	}
	return r.cancelled.Load()
}

func (r *run) finish(outputBytes int64) {
	r.observer.RunFinished(r.id, r.state, time.Since(r.started), outputBytes)
}
