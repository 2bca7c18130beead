// Package metrics defines the minimal metrics surface the converter and
// loader commands emit against. Backends live in subpackages so the core
// never depends on a specific vendor SDK.
package metrics

// Labels are free-form metric dimensions ("method", "status", ...).
type Labels map[string]string

// Backend receives counters and histogram samples.
//
// Implementations must be safe for concurrent use and must never block the
// caller on network I/O; buffering and submission happen on Flush/Close.
type Backend interface {
	IncCounter(name string, delta float64, labels Labels)
	ObserveHistogram(name string, value float64, labels Labels)

	// Flush submits buffered metrics. Close performs a final Flush and
	// releases backend resources; call it once at process shutdown.
	Flush() error
	Close() error
}

// Nop discards all metrics. It is the default backend.
type Nop struct{}

func (Nop) IncCounter(string, float64, Labels)       {}
func (Nop) ObserveHistogram(string, float64, Labels) {}
func (Nop) Flush() error                             { return nil }
func (Nop) Close() error                             { return nil }

var _ Backend = Nop{}
