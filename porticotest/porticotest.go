// Package porticotest provides test helpers for building graphs and
// containers that fail the test on error and dispose themselves on cleanup.
package porticotest

import (
	"context"

	"github.com/portico-go/portico"
)

// TB is the subset of testing.TB the helpers need.
type TB interface {
	Helper()
	Fatal(args ...any)
	Fatalf(format string, args ...any)
	Cleanup(f func())
}

// TestContainer wraps a Container that is disposed automatically when the
// test finishes.
type TestContainer struct {
	*portico.Container
	tb TB
}

// New builds a container over g and registers disposal with tb.Cleanup.
func New(tb TB, g *portico.Graph, opts ...portico.Option) *TestContainer {
	tb.Helper()

	c := portico.NewContainer(g, opts...)
	tc := &TestContainer{
		Container: c,
		tb:        tb,
	}

	tb.Cleanup(func() {
		if err := c.Dispose(context.Background()); err != nil {
			tb.Fatalf("failed to dispose container: %v", err)
		}
	})

	return tc
}

// BuildGraph registers the adapters on a fresh builder and builds,
// failing the test on any validation error.
func BuildGraph(tb TB, adapters ...*portico.Adapter) *portico.Graph {
	tb.Helper()

	b, err := portico.NewBuilder().Provide(adapters...)
	if err != nil {
		tb.Fatalf("failed to provide adapters: %v", err)
	}

	g, err := b.Build()
	if err != nil {
		tb.Fatalf("failed to build graph: %v", err)
	}
	return g
}

// RequireScope opens a scope, failing the test on error. The scope is torn
// down with the container.
func (tc *TestContainer) RequireScope() *portico.Scope {
	tc.tb.Helper()

	scope, err := tc.CreateScope()
	if err != nil {
		tc.tb.Fatalf("failed to create scope: %v", err)
	}
	return scope
}

// RequireDispose disposes the container now, failing the test on error.
func (tc *TestContainer) RequireDispose(ctx context.Context) {
	tc.tb.Helper()

	if err := tc.Dispose(ctx); err != nil {
		tc.tb.Fatalf("failed to dispose container: %v", err)
	}
}

// MustResolve resolves port on the container, failing the test on error.
func MustResolve[T any](tc *TestContainer, port portico.Port[T]) T {
	tc.tb.Helper()

	v, err := portico.Resolve(tc.Container, port)
	if err != nil {
		tc.tb.Fatalf("failed to resolve %s: %v", port.Name(), err)
	}
	return v
}

// MustResolveIn resolves port on an arbitrary resolver, failing the test on
// error.
func MustResolveIn[T any](tb TB, r portico.Resolver, port portico.Port[T]) T {
	tb.Helper()

	v, err := portico.Resolve(r, port)
	if err != nil {
		tb.Fatalf("failed to resolve %s: %v", port.Name(), err)
	}
	return v
}
