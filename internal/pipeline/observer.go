package pipeline

import "time"

// Observer receives pipeline events for metrics. Methods may be called from
// the pump and sink goroutines concurrently.
type Observer interface {
	RunStarted(id string)
	StateChanged(id string, from, to State)
	FramePumped()
	FrameDropped()
	ChunkEmitted(bytes int)
	RunFinished(id string, outcome State, elapsed time.Duration, outputBytes int64)
}

// NopObserver discards all events.
type NopObserver struct{}

func (NopObserver) RunStarted(string)                               {}
func (NopObserver) StateChanged(string, State, State)               {}
func (NopObserver) FramePumped()                                    {}
func (NopObserver) FrameDropped()                                   {}
func (NopObserver) ChunkEmitted(int)                                {}
func (NopObserver) RunFinished(string, State, time.Duration, int64) {}

// multiObserver fans events out to several observers in order.
type multiObserver []Observer

// MultiObserver returns an Observer that forwards every event to each of
// observers. Nil entries are skipped.
func MultiObserver(observers ...Observer) Observer {
	var m multiObserver
	for _, o := range observers {
		if o != nil {
			m = append(m, o)
		}
	}
	return m
}

func (m multiObserver) RunStarted(id string) {
	for _, o := range m {
		o.RunStarted(id)
	}
}

func (m multiObserver) StateChanged(id string, from, to State) {
	for _, o := range m {
		o.StateChanged(id, from, to)
	}
}

func (m multiObserver) FramePumped() {
	for _, o := range m {
		o.FramePumped()
	}
}

func (m multiObserver) FrameDropped() {
	for _, o := range m {
		o.FrameDropped()
	}
}

func (m multiObserver) ChunkEmitted(bytes int) {
	for _, o := range m {
		o.ChunkEmitted(bytes)
	}
}

func (m multiObserver) RunFinished(id string, outcome State, elapsed time.Duration, outputBytes int64) {
	for _, o := range m {
		o.RunFinished(id, outcome, elapsed, outputBytes)
	}
}
