package portico

import (
	"context"
	"fmt"
)

// Resolver is a resolution context: the root Container or a Scope.
type Resolver interface {
	ID() string
	CreateScope() (*Scope, error)
	Dispose(ctx context.Context) error
	Snapshot() []SnapshotEntry
	ScopeTree() ScopeNode
	IsResolved(port PortRef) ResolutionState

	resolveAny(ctx context.Context, port string) (any, error)
}

var (
	_ Resolver = (*Container)(nil)
	_ Resolver = (*Scope)(nil)
)

// Resolve returns the instance for port, instantiating it and its
// dependencies on demand according to their lifetimes.
func Resolve[T any](r Resolver, port Port[T]) (T, error) {
	return ResolveCtx(context.Background(), r, port)
}

// ResolveCtx is Resolve with a caller-supplied context passed through to
// every factory invoked along the way.
func ResolveCtx[T any](ctx context.Context, r Resolver, port Port[T]) (T, error) {
	var zero T

	v, err := r.resolveAny(ctx, port.Name())
	if err != nil {
		return zero, err
	}

	typed, ok := v.(T)
	if !ok {
		e := newError(ErrCodeFactoryFailed,
			fmt.Sprintf("port %q produced %T, not the declared type", port.Name(), v), nil)
		e.Port = port.Name()
		return zero, e
	}

	return typed, nil
}

// MustResolve is Resolve, panicking on error.
func MustResolve[T any](r Resolver, port Port[T]) T {
	v, err := Resolve(r, port)
	if err != nil {
		panic(err)
	}
	return v
}

// MustResolveCtx is ResolveCtx, panicking on error.
func MustResolveCtx[T any](ctx context.Context, r Resolver, port Port[T]) T {
	v, err := ResolveCtx(ctx, r, port)
	if err != nil {
		panic(err)
	}
	return v
}

// TryResolve reports success with a boolean instead of an error.
func TryResolve[T any](r Resolver, port Port[T]) (T, bool) {
	v, err := Resolve(r, port)
	return v, err == nil
}
