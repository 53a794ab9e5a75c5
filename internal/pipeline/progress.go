package pipeline

import (
	"math"
	"time"
)

// progressTracker turns playback positions into whole-percent callbacks.
// It reports only strictly increasing values, so a run produces at most
// 100 callbacks with values in [1,100].
type progressTracker struct {
	duration time.Duration
	last     int
	report   func(int)
}

func newProgressTracker(duration time.Duration, report func(int)) *progressTracker {
	return &progressTracker{duration: duration, report: report}
}

// observe records the current playback position.
func (p *progressTracker) observe(position time.Duration) {
	if p.report == nil || p.duration <= 0 {
		return
	}
	if percent := percentOf(position, p.duration); percent > p.last {
		p.last = percent
		p.report(percent)
	}
}

// complete reports 100 if it has not been reported yet.
func (p *progressTracker) complete() {
	if p.report == nil || p.last >= 100 {
		return
	}
	p.last = 100
	p.report(100)
}

// percentOf returns floor(position/duration*100) clamped to [0,100].
func percentOf(position, duration time.Duration) int {
	if duration <= 0 || position <= 0 {
		return 0
	}
	percent := int(math.Floor(float64(position) / float64(duration) * 100))
	if percent > 100 {
		return 100
	}
	return percent
}
