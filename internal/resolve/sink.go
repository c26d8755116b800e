package resolve

import (
	"time"

	"github.com/portico-go/portico/internal/lifetime"
)

// Event is one completed resolve observation handed to the trace sink.
// Nested resolutions carry the ParentID of the enclosing resolution; the
// enclosing event lists them in ChildIDs.
type Event struct {
	ID       string
	Port     string
	Lifetime lifetime.Lifetime
	Start    time.Time
	Duration time.Duration
	CacheHit bool
	ScopeID  string
	ParentID string
	ChildIDs []string
}

// Sink receives resolve events. Record is called synchronously on the
// resolving goroutine after each successful resolve.
type Sink interface {
	Record(Event)
}
