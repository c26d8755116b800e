package portico

import "github.com/portico-go/portico/internal/lifetime"

// Lifetime is the instantiation policy of an adapter.
type Lifetime = lifetime.Lifetime

const (
	Singleton = lifetime.Singleton
	Scoped    = lifetime.Scoped
	Request   = lifetime.Request
)
