// Package resolve implements the runtime half of the engine: lazy,
// lifetime-correct instantiation over a frozen graph, with parent/child
// scope nesting, per-chain cycle detection and ordered disposal.
package resolve

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/portico-go/portico/internal/graph"
	"github.com/portico-go/portico/internal/lifetime"
)

// Observer is called after every resolve attempt, hit or miss, success or
// failure.
type Observer func(port string, d time.Duration, cacheHit bool, err error)

// Config carries the ambient collaborators shared by a root resolver and
// every scope created under it.
type Config struct {
	Logger   *slog.Logger
	Observer Observer
	Sink     Sink
}

// instance is one cached value plus its creation bookkeeping. Finalization
// runs over instances in reverse order.
type instance struct {
	port    string
	value   any
	order   uint64
	at      time.Time
	adapter *graph.Adapter
}

// Resolver is a resolution context: either the root (parent == nil, owner
// of the singleton cache) or a scope (owner of one scoped cache). State
// machine: active until Dispose, disposed is terminal.
type Resolver struct {
	id      string
	graph   *graph.Graph
	cfg     *Config
	parent  *Resolver
	root    *Resolver
	counter *atomic.Uint64

	mu        sync.Mutex
	instances map[string]*instance
	created   []*instance
	children  []*Resolver
	disposed  bool
}

// NewRoot creates the root resolver for a graph.
func NewRoot(g *graph.Graph, cfg *Config) *Resolver {
	if cfg == nil {
		cfg = &Config{}
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	r := &Resolver{
		id:        uuid.NewString(),
		graph:     g,
		cfg:       cfg,
		counter:   &atomic.Uint64{},
		instances: make(map[string]*instance),
	}
	r.root = r
	return r
}

func (r *Resolver) ID() string {
	return r.id
}

// IsRoot reports whether this resolver is the root container context.
func (r *Resolver) IsRoot() bool {
	return r.parent == nil
}

func (r *Resolver) Graph() *graph.Graph {
	return r.graph
}

func (r *Resolver) isDisposed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.disposed
}

// CreateScope returns a new child resolver with an empty scoped cache and
// registers it in the receiver's child list.
func (r *Resolver) CreateScope() (*Resolver, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.disposed {
		return nil, &DisposedError{Resolver: r.id}
	}

	child := &Resolver{
		id:        uuid.NewString(),
		graph:     r.graph,
		cfg:       r.cfg,
		parent:    r,
		root:      r.root,
		counter:   r.counter,
		instances: make(map[string]*instance),
	}
	r.children = append(r.children, child)

	r.cfg.Logger.Debug("scope created", "scope", child.id, "parent", r.id)
	return child, nil
}

// chain is the per-top-level-resolve state: the in-progress port set for
// cycle detection and the trace frame of the enclosing resolution. A chain
// is confined to one resolve call and needs no locking.
type chain struct {
	stack       []string
	inProgress  map[string]bool
	traceParent string
	traceKids   *[]string
}

func newChain() *chain {
	return &chain{inProgress: make(map[string]bool)}
}

func (c *chain) push(port string) {
	c.stack = append(c.stack, port)
	c.inProgress[port] = true
}

func (c *chain) pop(port string) {
	c.stack = c.stack[:len(c.stack)-1]
	delete(c.inProgress, port)
}

// cycleFrom returns the ordered cycle starting at the first in-progress
// occurrence of port and closing back on it.
func (c *chain) cycleFrom(port string) []string {
	for i, p := range c.stack {
		if p == port {
			cycle := make([]string, 0, len(c.stack)-i+1)
			cycle = append(cycle, c.stack[i:]...)
			return append(cycle, port)
		}
	}
	return []string{port, port}
}

// Resolve returns the instance for port, instantiating it and its
// dependencies on demand according to their lifetimes.
func (r *Resolver) Resolve(ctx context.Context, port string) (any, error) {
	return r.resolve(ctx, port, newChain())
}

func (r *Resolver) resolve(ctx context.Context, port string, st *chain) (any, error) {
	start := time.Now()

	if r.isDisposed() {
		err := &DisposedError{Resolver: r.id}
		r.observe(port, time.Since(start), false, err)
		return nil, err
	}

	a, ok := r.graph.Adapter(port)
	if !ok {
		err := &NotFoundError{Port: port}
		r.observe(port, time.Since(start), false, err)
		return nil, err
	}

	if st.inProgress[port] {
		err := &CycleError{Chain: st.cycleFrom(port)}
		r.observe(port, time.Since(start), false, err)
		return nil, err
	}

	// Open a trace frame so nested resolves link back to this one.
	var traceID string
	var kids []string
	prevParent, prevKids := st.traceParent, st.traceKids
	if r.cfg.Sink != nil {
		traceID = uuid.NewString()
		if prevKids != nil {
			*prevKids = append(*prevKids, traceID)
		}
		st.traceParent, st.traceKids = traceID, &kids
	}

	value, hit, err := r.route(ctx, a, st)

	if r.cfg.Sink != nil {
		st.traceParent, st.traceKids = prevParent, prevKids
	}

	d := time.Since(start)
	r.observe(port, d, hit, err)

	if err != nil {
		return nil, err
	}

	if r.cfg.Sink != nil {
		r.cfg.Sink.Record(Event{
			ID:       traceID,
			Port:     port,
			Lifetime: a.Lifetime,
			Start:    start,
			Duration: d,
			CacheHit: hit,
			ScopeID:  r.id,
			ParentID: prevParent,
			ChildIDs: kids,
		})
	}

	return value, nil
}

func (r *Resolver) route(ctx context.Context, a *graph.Adapter, st *chain) (any, bool, error) {
	switch a.Lifetime {
	case lifetime.Singleton:
		return r.root.cachedOrCreate(ctx, a, r, st)
	case lifetime.Scoped:
		if r.IsRoot() {
			return nil, false, &ScopeRequiredError{Port: a.Provides}
		}
		return r.cachedOrCreate(ctx, a, r, st)
	case lifetime.Request:
		value, _, err := r.create(ctx, a, st)
		return value, false, err
	default:
		return r.root.cachedOrCreate(ctx, a, r, st)
	}
}

// cachedOrCreate serves a from the owner's cache, instantiating through
// origin on a miss. The owner is the root for singletons and the initiating
// scope for scoped ports; origin stays the initiating resolver so that a
// scoped dependency reached from inside a singleton factory still binds to
// the scope that started the resolve.
func (owner *Resolver) cachedOrCreate(ctx context.Context, a *graph.Adapter, origin *Resolver, st *chain) (any, bool, error) {
	owner.mu.Lock()
	if owner.disposed {
		owner.mu.Unlock()
		return nil, false, &DisposedError{Resolver: owner.id}
	}
	if inst, ok := owner.instances[a.Provides]; ok {
		owner.mu.Unlock()
		return inst.value, true, nil
	}
	owner.mu.Unlock()

	value, ord, err := origin.create(ctx, a, st)
	if err != nil {
		return nil, false, err
	}

	return owner.store(a, value, ord)
}

// store caches value under a's port. If another resolve stored the port
// first, the cached value wins and is reported as a hit.
func (owner *Resolver) store(a *graph.Adapter, value any, ord uint64) (any, bool, error) {
	owner.mu.Lock()
	defer owner.mu.Unlock()

	if owner.disposed {
		return nil, false, &DisposedError{Resolver: owner.id}
	}
	if inst, ok := owner.instances[a.Provides]; ok {
		return inst.value, true, nil
	}

	inst := &instance{
		port:    a.Provides,
		value:   value,
		order:   ord,
		at:      time.Now(),
		adapter: a,
	}
	owner.instances[a.Provides] = inst
	owner.created = append(owner.created, inst)
	return value, false, nil
}

// create instantiates a: resolves its requirements through the same
// resolver context, assembles the dependency map and invokes the factory.
// The returned order is the process-wide creation sequence number used for
// reverse-order finalization.
func (r *Resolver) create(ctx context.Context, a *graph.Adapter, st *chain) (any, uint64, error) {
	st.push(a.Provides)
	defer st.pop(a.Provides)

	deps := make(map[string]any, len(a.Requires))
	for _, req := range a.Requires {
		value, err := r.resolve(ctx, req, st)
		if err != nil {
			return nil, 0, err
		}
		deps[req] = value
	}

	value, err := a.Factory(ctx, deps)
	if err != nil {
		return nil, 0, &FactoryError{Port: a.Provides, Cause: err}
	}

	ord := r.counter.Add(1)
	r.cfg.Logger.Debug("port instantiated",
		"port", a.Provides,
		"lifetime", a.Lifetime.String(),
		"scope", r.id,
	)
	return value, ord, nil
}

func (r *Resolver) observe(port string, d time.Duration, hit bool, err error) {
	if r.cfg.Observer != nil {
		r.cfg.Observer(port, d, hit, err)
	}
}
