// Package metrics provides the named-counter sink the layout pass reports
// its summary counters to.
package metrics

// Metric names published by the pass.
const (
	ColdStartSetDexCount = "cold_start_set_dex_count"
	ScrollSetDexCount    = "scroll_set_dex_count"
)

// Sink receives named numeric metrics from a pass run.
type Sink interface {
	Set(name string, value int64)
	Get(name string) int64
	Snapshot() map[string]int64
}

// sink is the in-memory Sink used for one pass invocation. The pass is
// strictly sequential, so no locking is involved.
type sink struct {
	counters map[string]int64
}

// NewSink constructs an empty in-memory Sink.
func NewSink() Sink {
	return &sink{counters: make(map[string]int64)}
}

func (s *sink) Set(name string, value int64) {
	s.counters[name] = value
}

func (s *sink) Get(name string) int64 {
	return s.counters[name]
}

// Snapshot returns a copy of all recorded counters.
func (s *sink) Snapshot() map[string]int64 {
	snapshot := make(map[string]int64, len(s.counters))
	for name, value := range s.counters {
		snapshot[name] = value
	}

	return snapshot
}
