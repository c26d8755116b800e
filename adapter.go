package portico

import (
	"context"
	"fmt"

	"github.com/portico-go/portico/internal/graph"
)

// Factory builds the instance for a port from its resolved dependencies.
type Factory[T any] func(ctx context.Context, deps Deps) (T, error)

// Finalizer releases an instance during disposal. It may block; Dispose
// waits for every finalizer to settle.
type Finalizer[T any] func(ctx context.Context, value T) error

// Adapter binds one provided port to its required ports, a lifetime, a
// factory and an optional finalizer. Immutable once constructed.
type Adapter struct {
	rec *graph.Adapter
}

type adapterConfig struct {
	requires  []string
	lifetime  Lifetime
	finalizer graph.FinalizerFunc
}

// AdapterOption configures an adapter at construction time.
type AdapterOption func(*adapterConfig)

// Requires declares the ports the factory depends on. Every listed port
// must be provided by some adapter in the same graph or Build fails.
func Requires(ports ...PortRef) AdapterOption {
	return func(cfg *adapterConfig) {
		for _, p := range ports {
			cfg.requires = append(cfg.requires, p.Name())
		}
	}
}

// WithLifetime sets the instantiation policy. Default is Singleton.
func WithLifetime(l Lifetime) AdapterOption {
	return func(cfg *adapterConfig) {
		cfg.lifetime = l
	}
}

// WithFinalizer registers a cleanup function invoked on the instance when
// its owning resolver is disposed. Request-lifetime instances are never
// cached, so they are never finalized.
func WithFinalizer[T any](fn Finalizer[T]) AdapterOption {
	return func(cfg *adapterConfig) {
		cfg.finalizer = func(ctx context.Context, value any) error {
			typed, ok := value.(T)
			if !ok {
				return fmt.Errorf("finalizer received %T", value)
			}
			return fn(ctx, typed)
		}
	}
}

// NewAdapter binds port to factory. The adapter provides exactly one port;
// duplicates are rejected when the adapter is registered with a builder.
func NewAdapter[T any](port Port[T], factory Factory[T], opts ...AdapterOption) *Adapter {
	cfg := &adapterConfig{lifetime: Singleton}
	for _, opt := range opts {
		opt(cfg)
	}

	rec := &graph.Adapter{
		Provides: port.Name(),
		Requires: cfg.requires,
		Lifetime: cfg.lifetime,
		Factory: func(ctx context.Context, deps map[string]any) (any, error) {
			return factory(ctx, Deps(deps))
		},
		Finalizer: cfg.finalizer,
	}
	return &Adapter{rec: rec}
}

// NewValueAdapter binds port to an existing value. The factory returns the
// value as-is; lifetime semantics still apply.
func NewValueAdapter[T any](port Port[T], value T, opts ...AdapterOption) *Adapter {
	return NewAdapter(port, func(context.Context, Deps) (T, error) {
		return value, nil
	}, opts...)
}

// Provides returns the name of the provided port.
func (a *Adapter) Provides() string {
	return a.rec.Provides
}

// Requires returns the names of the required ports.
func (a *Adapter) Requires() []string {
	out := make([]string, len(a.rec.Requires))
	copy(out, a.rec.Requires)
	return out
}

func (a *Adapter) Lifetime() Lifetime {
	return a.rec.Lifetime
}

// HasFinalizer reports whether a finalizer was registered.
func (a *Adapter) HasFinalizer() bool {
	return a.rec.Finalizer != nil
}

func (a *Adapter) String() string {
	return fmt.Sprintf("adapter(%s, %s)", a.rec.Provides, a.rec.Lifetime)
}
