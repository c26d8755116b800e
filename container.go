package portico

import (
	"context"
	"log/slog"
	"time"

	"github.com/portico-go/portico/internal/resolve"
)

// SnapshotEntry describes one cacheable port of a resolver: whether it has
// been instantiated, and if so in which creation order and when.
type SnapshotEntry = resolve.SnapshotEntry

// ScopeNode is one resolver in the scope hierarchy returned by ScopeTree.
type ScopeNode = resolve.TreeNode

// ResolutionState classifies a port for inspection without resolving it.
type ResolutionState = resolve.State

const (
	StateNotResolved   = resolve.StateNotResolved
	StateResolved      = resolve.StateResolved
	StateScopeRequired = resolve.StateScopeRequired
	StateUnknown       = resolve.StateUnknown
)

// Container is the root resolution context for one Graph. It owns the
// singleton cache shared by every scope created under it. A container is
// Active until Dispose; Disposed is terminal.
type Container struct {
	engine *resolve.Resolver
	graph  *Graph
	tracer *Tracer
}

type containerConfig struct {
	logger    *slog.Logger
	observers []ResolveHook
	tracer    *Tracer
}

// NewContainer binds a container to a validated graph.
func NewContainer(g *Graph, opts ...Option) *Container {
	cfg := &containerConfig{
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(cfg)
	}

	rcfg := &resolve.Config{Logger: cfg.logger}
	if len(cfg.observers) > 0 {
		observers := cfg.observers
		rcfg.Observer = func(port string, d time.Duration, cacheHit bool, err error) {
			for _, hook := range observers {
				hook(port, d, cacheHit, err)
			}
		}
	}
	if cfg.tracer != nil {
		rcfg.Sink = cfg.tracer.rec
	}

	return &Container{
		engine: resolve.NewRoot(g.inner, rcfg),
		graph:  g,
		tracer: cfg.tracer,
	}
}

// ID returns the container's unique id, used as the scope id of root-level
// resolutions in traces.
func (c *Container) ID() string {
	return c.engine.ID()
}

// Graph returns the graph this container resolves from.
func (c *Container) Graph() *Graph {
	return c.graph
}

// Tracer returns the attached tracer, or nil if tracing is not enabled.
func (c *Container) Tracer() *Tracer {
	return c.tracer
}

// CreateScope opens a child scope with its own empty scoped cache.
func (c *Container) CreateScope() (*Scope, error) {
	child, err := c.engine.CreateScope()
	if err != nil {
		return nil, wrapResolveError(err)
	}
	return &Scope{engine: child}, nil
}

// Dispose tears the container down: every scope under it first, then the
// singleton cache in reverse creation order. Finalizer failures are
// collected and returned together; Dispose is idempotent.
func (c *Container) Dispose(ctx context.Context) error {
	return wrapDisposeError(c.engine.Dispose(ctx))
}

// Snapshot lists the singleton cache entries, resolved or not, in graph
// registration order.
func (c *Container) Snapshot() []SnapshotEntry {
	return c.engine.Snapshot()
}

// ScopeTree returns the container and every scope beneath it, disposed
// scopes included.
func (c *Container) ScopeTree() ScopeNode {
	return c.engine.Tree()
}

// IsResolved answers whether resolving port on this container would hit the
// cache, without resolving. A scoped port reports StateScopeRequired here.
func (c *Container) IsResolved(port PortRef) ResolutionState {
	return c.engine.IsResolved(port.Name())
}

func (c *Container) resolveAny(ctx context.Context, port string) (any, error) {
	v, err := c.engine.Resolve(ctx, port)
	return v, wrapResolveError(err)
}
