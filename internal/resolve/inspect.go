package resolve

import (
	"time"

	"github.com/portico-go/portico/internal/lifetime"
)

// State classifies a port for inspection without triggering resolution.
type State int

const (
	StateNotResolved State = iota
	StateResolved
	StateScopeRequired
	StateUnknown
)

func (s State) String() string {
	switch s {
	case StateNotResolved:
		return "not-resolved"
	case StateResolved:
		return "resolved"
	case StateScopeRequired:
		return "scope-required"
	default:
		return "unknown"
	}
}

// SnapshotEntry describes one cacheable port of a resolver.
type SnapshotEntry struct {
	Port     string
	Lifetime lifetime.Lifetime
	Resolved bool
	Order    uint64
	At       time.Time
}

// TreeNode is one resolver in the scope hierarchy.
type TreeNode struct {
	ID            string
	Root          bool
	Status        string
	ResolvedCount int
	TotalCount    int
	Children      []TreeNode
}

// cacheable reports whether this resolver's cache would hold an instance of
// the given lifetime: singletons at the root, scoped instances in scopes.
func (r *Resolver) cacheable(l lifetime.Lifetime) bool {
	if r.IsRoot() {
		return l == lifetime.Singleton
	}
	return l == lifetime.Scoped
}

// Snapshot lists this resolver's cacheable ports in graph registration
// order, with resolution bookkeeping for the ones already instantiated.
func (r *Resolver) Snapshot() []SnapshotEntry {
	r.mu.Lock()
	defer r.mu.Unlock()

	var entries []SnapshotEntry
	for _, a := range r.graph.Adapters() {
		if !r.cacheable(a.Lifetime) {
			continue
		}

		entry := SnapshotEntry{Port: a.Provides, Lifetime: a.Lifetime}
		if inst, ok := r.instances[a.Provides]; ok {
			entry.Resolved = true
			entry.Order = inst.order
			entry.At = inst.at
		}
		entries = append(entries, entry)
	}
	return entries
}

// Tree returns the scope hierarchy rooted at this resolver, disposed
// scopes included.
func (r *Resolver) Tree() TreeNode {
	r.mu.Lock()

	node := TreeNode{
		ID:            r.id,
		Root:          r.IsRoot(),
		Status:        "active",
		ResolvedCount: len(r.instances),
	}
	if r.disposed {
		node.Status = "disposed"
	}
	for _, a := range r.graph.Adapters() {
		if r.cacheable(a.Lifetime) {
			node.TotalCount++
		}
	}

	children := make([]*Resolver, len(r.children))
	copy(children, r.children)
	r.mu.Unlock()

	for _, child := range children {
		node.Children = append(node.Children, child.Tree())
	}
	return node
}

// IsResolved answers whether resolving port here would be a cache hit,
// without resolving. Scoped ports asked of the root report StateScopeRequired;
// request ports are never cached and always report StateNotResolved.
func (r *Resolver) IsResolved(port string) State {
	a, ok := r.graph.Adapter(port)
	if !ok {
		return StateUnknown
	}

	switch a.Lifetime {
	case lifetime.Singleton:
		r.root.mu.Lock()
		defer r.root.mu.Unlock()
		if _, ok := r.root.instances[port]; ok {
			return StateResolved
		}
		return StateNotResolved
	case lifetime.Scoped:
		if r.IsRoot() {
			return StateScopeRequired
		}
		r.mu.Lock()
		defer r.mu.Unlock()
		if _, ok := r.instances[port]; ok {
			return StateResolved
		}
		return StateNotResolved
	default:
		return StateNotResolved
	}
}
