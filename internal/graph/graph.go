// Package graph implements the registration-time half of the engine: an
// immutable accumulator of adapters with duplicate-provider and
// missing-dependency validation, producing a frozen Graph.
package graph

import (
	"context"
	"sort"

	"github.com/portico-go/portico/internal/lifetime"
)

// FactoryFunc builds an instance from its already-resolved dependencies,
// keyed by port name.
type FactoryFunc func(ctx context.Context, deps map[string]any) (any, error)

// FinalizerFunc releases an instance during disposal.
type FinalizerFunc func(ctx context.Context, value any) error

// Adapter is the type-erased provider record for a single port.
// It is immutable once registered.
type Adapter struct {
	Provides  string
	Requires  []string
	Lifetime  lifetime.Lifetime
	Factory   FactoryFunc
	Finalizer FinalizerFunc
}

// Builder accumulates adapters. Provide never mutates its receiver, so two
// builders may share a common prefix of registrations and diverge from there.
type Builder struct {
	adapters []*Adapter
	provided map[string]struct{}
}

func NewBuilder() *Builder {
	return &Builder{
		provided: make(map[string]struct{}),
	}
}

// Provide returns a new builder extended with a. The receiver is left
// untouched. Registering a second provider for the same port fails
// immediately rather than at Build.
func (b *Builder) Provide(a *Adapter) (*Builder, error) {
	if _, dup := b.provided[a.Provides]; dup {
		return nil, &DuplicateError{Port: a.Provides}
	}

	adapters := make([]*Adapter, len(b.adapters), len(b.adapters)+1)
	copy(adapters, b.adapters)
	adapters = append(adapters, a)

	provided := make(map[string]struct{}, len(b.provided)+1)
	for port := range b.provided {
		provided[port] = struct{}{}
	}
	provided[a.Provides] = struct{}{}

	return &Builder{adapters: adapters, provided: provided}, nil
}

// Missing returns the sorted set of required ports without a provider.
// Validation is pure set membership, so registration order is irrelevant.
func (b *Builder) Missing() []string {
	seen := make(map[string]struct{})
	var missing []string

	for _, a := range b.adapters {
		for _, req := range a.Requires {
			if _, ok := b.provided[req]; ok {
				continue
			}
			if _, ok := seen[req]; ok {
				continue
			}
			seen[req] = struct{}{}
			missing = append(missing, req)
		}
	}

	sort.Strings(missing)
	return missing
}

// Build validates completeness and freezes the accumulated adapters into a
// Graph. The adapter list keeps registration order. An empty builder builds
// an empty, valid graph.
func (b *Builder) Build() (*Graph, error) {
	if missing := b.Missing(); len(missing) > 0 {
		return nil, &MissingError{Ports: missing}
	}

	adapters := make([]*Adapter, len(b.adapters))
	copy(adapters, b.adapters)

	index := make(map[string]*Adapter, len(adapters))
	for _, a := range adapters {
		index[a.Provides] = a
	}

	return &Graph{adapters: adapters, index: index}, nil
}

// Size reports the number of registered adapters.
func (b *Builder) Size() int {
	return len(b.adapters)
}

// Graph is a frozen, validated adapter set. It is safe to share across
// containers without synchronization.
type Graph struct {
	adapters []*Adapter
	index    map[string]*Adapter
}

// Adapter looks up the provider for a port.
func (g *Graph) Adapter(port string) (*Adapter, bool) {
	a, ok := g.index[port]
	return a, ok
}

// Adapters returns the adapters in registration order.
func (g *Graph) Adapters() []*Adapter {
	out := make([]*Adapter, len(g.adapters))
	copy(out, g.adapters)
	return out
}

// Ports returns every provided port name in registration order.
func (g *Graph) Ports() []string {
	ports := make([]string, 0, len(g.adapters))
	for _, a := range g.adapters {
		ports = append(ports, a.Provides)
	}
	return ports
}

func (g *Graph) Size() int {
	return len(g.adapters)
}
