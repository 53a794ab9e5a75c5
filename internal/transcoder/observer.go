package transcoder

// Observer records FFmpeg metrics. Implementations are provided by the
// metrics package to break the import cycle between transcoder and metrics.
type Observer interface {
	// kind is "decode" or "encode".
	ProcessStarted(kind string)
	ProcessExited(kind string)
	ObserveProbe(durationSeconds float64, err error)
}

var defaultObserver Observer

// SetObserver sets the package-level metrics observer.
// Call this once at startup after creating the observer implementation.
func SetObserver(o Observer) {
	defaultObserver = o
}

type nopObserver struct{}

func (nopObserver) ProcessStarted(string)       {}
func (nopObserver) ProcessExited(string)        {}
func (nopObserver) ObserveProbe(float64, error) {}

func observe() Observer {
	if defaultObserver == nil {
		return nopObserver{}
	}
	return defaultObserver
}
