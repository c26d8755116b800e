package portico

import (
	"time"

	"github.com/portico-go/portico/internal/trace"
)

// TraceEntry is one recorded resolve: port, lifetime, timing, cache-hit
// flag, the scope it ran in, and the parent/child links forming the call
// tree of a top-level resolution.
type TraceEntry = trace.Entry

// TraceStats aggregates the tracer's current buffer. Recomputed by scanning
// on every call, so eviction never causes drift.
type TraceStats = trace.Stats

// TraceFilter selects trace entries; zero-valued fields match everything.
type TraceFilter = trace.Filter

// Tracer records resolve observations from the containers it is attached
// to, in a capacity-bounded buffer with oldest-first eviction.
type Tracer struct {
	rec *trace.Recorder
}

type tracerConfig struct {
	capacity int
	slow     time.Duration
}

// TracerOption configures a Tracer at construction time.
type TracerOption func(*tracerConfig)

// TracerCapacity bounds the retention buffer. Past the limit the oldest
// unpinned entries are evicted first. Default 1000.
func TracerCapacity(n int) TracerOption {
	return func(cfg *tracerConfig) {
		cfg.capacity = n
	}
}

// SlowThreshold sets the duration past which a resolve counts as slow in
// Stats and the SlowOnly filter. Default 50ms.
func SlowThreshold(d time.Duration) TracerOption {
	return func(cfg *tracerConfig) {
		cfg.slow = d
	}
}

// NewTracer creates a tracer; attach it with WithTracer. One tracer may be
// shared by several containers.
func NewTracer(opts ...TracerOption) *Tracer {
	cfg := &tracerConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	return &Tracer{rec: trace.NewRecorder(cfg.capacity, cfg.slow)}
}

// Traces returns the recorded entries matching every given filter, oldest
// first.
func (t *Tracer) Traces(filters ...TraceFilter) []TraceEntry {
	return t.rec.Entries(filters...)
}

// Trace returns the entry with the given id.
func (t *Tracer) Trace(id string) (TraceEntry, bool) {
	return t.rec.Entry(id)
}

// Stats scans the current buffer for aggregate statistics.
func (t *Tracer) Stats() TraceStats {
	return t.rec.Stats()
}

// Subscribe registers a listener invoked synchronously after each new
// entry. The returned function unsubscribes it.
func (t *Tracer) Subscribe(fn func(TraceEntry)) func() {
	return t.rec.Subscribe(fn)
}

// Pause suspends recording without dropping captured entries.
func (t *Tracer) Pause() {
	t.rec.Pause()
}

// Resume re-enables recording after Pause.
func (t *Tracer) Resume() {
	t.rec.Resume()
}

func (t *Tracer) IsPaused() bool {
	return t.rec.IsPaused()
}

// Clear empties the buffer and resets the session statistics.
func (t *Tracer) Clear() {
	t.rec.Clear()
}

// Pin exempts an entry from capacity eviction. Reports whether the id was
// found.
func (t *Tracer) Pin(id string) bool {
	return t.rec.Pin(id)
}

// Unpin reverts Pin.
func (t *Tracer) Unpin(id string) bool {
	return t.rec.Unpin(id)
}

// SlowThreshold reports the configured slow-resolve cutoff.
func (t *Tracer) SlowThreshold() time.Duration {
	return t.rec.SlowThreshold()
}
