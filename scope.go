package portico

import (
	"context"

	"github.com/portico-go/portico/internal/resolve"
)

// Scope is a child resolution context. It owns its own scoped-instance
// cache; singletons delegate to the root container, and sibling scopes
// never share scoped instances.
type Scope struct {
	engine *resolve.Resolver
}

func (s *Scope) ID() string {
	return s.engine.ID()
}

// CreateScope nests a further scope under this one. The child starts with
// an empty scoped cache; nothing is inherited.
func (s *Scope) CreateScope() (*Scope, error) {
	child, err := s.engine.CreateScope()
	if err != nil {
		return nil, wrapResolveError(err)
	}
	return &Scope{engine: child}, nil
}

// Dispose tears the scope down: child scopes first, then this scope's
// cached instances in reverse creation order. Idempotent; using the scope
// afterwards fails with a disposed-resolver error.
func (s *Scope) Dispose(ctx context.Context) error {
	return wrapDisposeError(s.engine.Dispose(ctx))
}

// Snapshot lists this scope's scoped cache entries in graph registration
// order.
func (s *Scope) Snapshot() []SnapshotEntry {
	return s.engine.Snapshot()
}

// ScopeTree returns the subtree rooted at this scope.
func (s *Scope) ScopeTree() ScopeNode {
	return s.engine.Tree()
}

// IsResolved answers whether resolving port in this scope would hit a
// cache, without resolving.
func (s *Scope) IsResolved(port PortRef) ResolutionState {
	return s.engine.IsResolved(port.Name())
}

func (s *Scope) resolveAny(ctx context.Context, port string) (any, error) {
	v, err := s.engine.Resolve(ctx, port)
	return v, wrapResolveError(err)
}
