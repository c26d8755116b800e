// Package trace records resolve observations in a bounded buffer and
// derives aggregate statistics from it on demand.
package trace

import (
	"sync"
	"time"

	"github.com/portico-go/portico/internal/lifetime"
	"github.com/portico-go/portico/internal/resolve"
)

const (
	DefaultCapacity      = 1000
	DefaultSlowThreshold = 50 * time.Millisecond
)

// Entry is one recorded resolve. Immutable once recorded, except for the
// Pinned flag which guards it against eviction.
type Entry struct {
	ID       string
	Port     string
	Lifetime lifetime.Lifetime
	Start    time.Time
	Duration time.Duration
	CacheHit bool
	ParentID string
	ScopeID  string
	Order    uint64
	ChildIDs []string
	Pinned   bool
}

// Stats aggregates the current buffer contents. Recomputed by scanning on
// every call so eviction never causes counter drift.
type Stats struct {
	Total         int
	CacheHits     int
	HitRate       float64
	TotalDuration time.Duration
	AvgDuration   time.Duration
	SlowCount     int
	SessionStart  time.Time
}

// Filter selects entries. Zero-valued fields match everything.
type Filter struct {
	Port          string
	ScopeID       string
	Lifetime      *lifetime.Lifetime
	CacheHitsOnly bool
	MissesOnly    bool
	SlowOnly      bool
}

func (f Filter) matches(e *Entry, slow time.Duration) bool {
	if f.Port != "" && e.Port != f.Port {
		return false
	}
	if f.ScopeID != "" && e.ScopeID != f.ScopeID {
		return false
	}
	if f.Lifetime != nil && e.Lifetime != *f.Lifetime {
		return false
	}
	if f.CacheHitsOnly && !e.CacheHit {
		return false
	}
	if f.MissesOnly && e.CacheHit {
		return false
	}
	if f.SlowOnly && e.Duration < slow {
		return false
	}
	return true
}

// Recorder is a pausable, capacity-bounded trace buffer with synchronous
// subscriber notification. It implements resolve.Sink.
type Recorder struct {
	mu           sync.Mutex
	capacity     int
	slow         time.Duration
	entries      []*Entry
	index        map[string]*Entry
	seq          uint64
	paused       bool
	sessionStart time.Time
	subs         map[int]func(Entry)
	nextSub      int
}

func NewRecorder(capacity int, slow time.Duration) *Recorder {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	if slow <= 0 {
		slow = DefaultSlowThreshold
	}
	return &Recorder{
		capacity:     capacity,
		slow:         slow,
		index:        make(map[string]*Entry),
		sessionStart: time.Now(),
		subs:         make(map[int]func(Entry)),
	}
}

var _ resolve.Sink = (*Recorder)(nil)

// Record appends one entry, evicts past capacity and notifies subscribers.
// Recording while paused is a no-op.
func (r *Recorder) Record(ev resolve.Event) {
	r.mu.Lock()
	if r.paused {
		r.mu.Unlock()
		return
	}

	r.seq++
	e := &Entry{
		ID:       ev.ID,
		Port:     ev.Port,
		Lifetime: ev.Lifetime,
		Start:    ev.Start,
		Duration: ev.Duration,
		CacheHit: ev.CacheHit,
		ParentID: ev.ParentID,
		ScopeID:  ev.ScopeID,
		Order:    r.seq,
		ChildIDs: append([]string(nil), ev.ChildIDs...),
	}
	r.entries = append(r.entries, e)
	r.index[e.ID] = e
	r.evictLocked()

	subs := make([]func(Entry), 0, len(r.subs))
	for _, fn := range r.subs {
		subs = append(subs, fn)
	}
	snapshot := *e
	r.mu.Unlock()

	// Synchronous, but outside the lock so a subscriber may read back.
	for _, fn := range subs {
		fn(snapshot)
	}
}

// evictLocked drops the oldest unpinned entries until the buffer fits the
// capacity. If every entry is pinned the buffer is allowed to overflow.
func (r *Recorder) evictLocked() {
	for len(r.entries) > r.capacity {
		victim := -1
		for i, e := range r.entries {
			if !e.Pinned {
				victim = i
				break
			}
		}
		if victim < 0 {
			return
		}
		delete(r.index, r.entries[victim].ID)
		r.entries = append(r.entries[:victim], r.entries[victim+1:]...)
	}
}

// Entries returns copies of the entries matching every given filter, oldest
// first.
func (r *Recorder) Entries(filters ...Filter) []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []Entry
	for _, e := range r.entries {
		matched := true
		for _, f := range filters {
			if !f.matches(e, r.slow) {
				matched = false
				break
			}
		}
		if matched {
			out = append(out, *e)
		}
	}
	return out
}

// Entry returns a copy of the entry with the given id.
func (r *Recorder) Entry(id string) (Entry, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.index[id]
	if !ok {
		return Entry{}, false
	}
	return *e, true
}

// Stats scans the current buffer.
func (r *Recorder) Stats() Stats {
	r.mu.Lock()
	defer r.mu.Unlock()

	s := Stats{
		Total:        len(r.entries),
		SessionStart: r.sessionStart,
	}
	for _, e := range r.entries {
		if e.CacheHit {
			s.CacheHits++
		}
		if e.Duration >= r.slow {
			s.SlowCount++
		}
		s.TotalDuration += e.Duration
	}
	if s.Total > 0 {
		s.HitRate = float64(s.CacheHits) / float64(s.Total)
		s.AvgDuration = s.TotalDuration / time.Duration(s.Total)
	}
	return s
}

// SlowThreshold reports the configured slow-resolve cutoff.
func (r *Recorder) SlowThreshold() time.Duration {
	return r.slow
}

func (r *Recorder) Pause() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.paused = true
}

func (r *Recorder) Resume() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.paused = false
}

func (r *Recorder) IsPaused() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.paused
}

// Clear empties the buffer and restarts the session. Pinned entries are
// dropped too; pinning only guards against capacity eviction.
func (r *Recorder) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries = nil
	r.index = make(map[string]*Entry)
	r.seq = 0
	r.sessionStart = time.Now()
}

// Pin marks an entry as exempt from eviction.
func (r *Recorder) Pin(id string) bool {
	return r.setPinned(id, true)
}

func (r *Recorder) Unpin(id string) bool {
	return r.setPinned(id, false)
}

func (r *Recorder) setPinned(id string, pinned bool) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.index[id]
	if !ok {
		return false
	}
	e.Pinned = pinned
	return true
}

// Subscribe registers a listener called synchronously after each recorded
// entry. The returned function removes the listener.
func (r *Recorder) Subscribe(fn func(Entry)) func() {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := r.nextSub
	r.nextSub++
	r.subs[id] = fn

	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		delete(r.subs, id)
	}
}
