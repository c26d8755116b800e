package portico

import (
	"github.com/portico-go/portico/internal/graph"
)

// Builder is an immutable accumulator of adapters. Provide returns a new
// builder and never mutates the receiver, so builders can branch: two
// graphs may share a common prefix of registrations.
type Builder struct {
	inner    *graph.Builder
	adapters []*Adapter
}

// NewBuilder returns an empty builder. An empty builder builds an empty,
// valid graph.
func NewBuilder() *Builder {
	return &Builder{inner: graph.NewBuilder()}
}

// Provide registers adapters, failing immediately with a duplicate-provider
// error if any provided port already has a provider.
func (b *Builder) Provide(adapters ...*Adapter) (*Builder, error) {
	cur := b
	for _, a := range adapters {
		inner, err := cur.inner.Provide(a.rec)
		if err != nil {
			return nil, wrapBuildError(err)
		}

		list := make([]*Adapter, len(cur.adapters), len(cur.adapters)+1)
		copy(list, cur.adapters)
		cur = &Builder{inner: inner, adapters: append(list, a)}
	}
	return cur, nil
}

// MustProvide is Provide, panicking on error. Intended for static graph
// construction at startup.
func (b *Builder) MustProvide(adapters ...*Adapter) *Builder {
	next, err := b.Provide(adapters...)
	if err != nil {
		panic(err)
	}
	return next
}

// ProvideModule registers every adapter of the module, included submodules
// first.
func (b *Builder) ProvideModule(modules ...*Module) (*Builder, error) {
	cur := b
	for _, m := range modules {
		next, err := cur.Provide(m.flatten()...)
		if err != nil {
			return nil, err
		}
		cur = next
	}
	return cur, nil
}

// Missing returns the sorted set of required ports that have no provider
// yet. Useful while assembling a graph incrementally.
func (b *Builder) Missing() []string {
	return b.inner.Missing()
}

// Size reports the number of registered adapters.
func (b *Builder) Size() int {
	return b.inner.Size()
}

// Build validates completeness and freezes the graph. If any required port
// lacks a provider, Build fails with a missing-dependency error that
// enumerates every missing port. Validation is set-based: the same adapters
// in any registration order succeed or fail identically.
func (b *Builder) Build() (*Graph, error) {
	inner, err := b.inner.Build()
	if err != nil {
		return nil, wrapBuildError(err)
	}

	adapters := make([]*Adapter, len(b.adapters))
	copy(adapters, b.adapters)

	index := make(map[string]*Adapter, len(adapters))
	for _, a := range adapters {
		index[a.Provides()] = a
	}

	return &Graph{inner: inner, adapters: adapters, index: index}, nil
}

// Graph is a frozen, validated adapter set: every required port has exactly
// one provider. A Graph is read-only and safe to share across containers.
type Graph struct {
	inner    *graph.Graph
	adapters []*Adapter
	index    map[string]*Adapter
}

// Adapters returns the adapters in registration order.
func (g *Graph) Adapters() []*Adapter {
	out := make([]*Adapter, len(g.adapters))
	copy(out, g.adapters)
	return out
}

// Adapter looks up the provider for a port name.
func (g *Graph) Adapter(port string) (*Adapter, bool) {
	a, ok := g.index[port]
	return a, ok
}

// Ports returns every provided port name in registration order.
func (g *Graph) Ports() []string {
	return g.inner.Ports()
}

func (g *Graph) Size() int {
	return g.inner.Size()
}

// Cycles returns the dependency cycles present in the graph, for inspection
// tooling. Build does not reject cycles; resolving any port inside one
// fails with a circular-dependency error.
func (g *Graph) Cycles() [][]string {
	return g.inner.Cycles()
}

// GraphNode is one port in an exported graph snapshot.
type GraphNode struct {
	Port     string `json:"port"`
	Lifetime string `json:"lifetime"`
}

// GraphEdge is one dependency in an exported graph snapshot, from the
// dependent port to the port it requires.
type GraphEdge struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// GraphExport is a serialization-friendly snapshot of the graph for
// external visualization layers.
type GraphExport struct {
	Nodes []GraphNode `json:"nodes"`
	Edges []GraphEdge `json:"edges"`
}

// Export renders the graph as node and edge lists keyed by port name.
func (g *Graph) Export() GraphExport {
	var out GraphExport
	for _, a := range g.adapters {
		out.Nodes = append(out.Nodes, GraphNode{
			Port:     a.Provides(),
			Lifetime: a.Lifetime().String(),
		})
		for _, req := range a.Requires() {
			out.Edges = append(out.Edges, GraphEdge{From: a.Provides(), To: req})
		}
	}
	return out
}
