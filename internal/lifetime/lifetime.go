package lifetime

// Lifetime is the instantiation policy of an adapter.
type Lifetime int

const (
	// Singleton instances are created once per container and shared by
	// every scope resolving the same port.
	Singleton Lifetime = iota

	// Scoped instances are created once per scope. Sibling scopes never
	// share a scoped instance.
	Scoped

	// Request instances are created fresh on every resolve and never
	// cached or finalized by the engine.
	Request
)

func (l Lifetime) String() string {
	switch l {
	case Singleton:
		return "singleton"
	case Scoped:
		return "scoped"
	case Request:
		return "request"
	default:
		return "unknown"
	}
}
