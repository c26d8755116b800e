package portico

import (
	"time"
)

// ResolveHook observes every resolve attempt: the port, wall-clock
// duration, whether it was served from a cache, and the failure if any.
// Intended for metrics integration; use a Tracer for structured traces.
type ResolveHook func(port string, duration time.Duration, cacheHit bool, err error)
