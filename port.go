package portico

import "fmt"

// PortRef is the type-erased view of a port: a pure identity. Two ports
// with the same name are the same port.
type PortRef interface {
	Name() string
}

// Port is a named contract a service can satisfy or depend on. The type
// parameter carries the value type; it has no runtime representation and
// exists so Resolve and factories stay typed. Ports are immutable.
type Port[T any] struct {
	name string
}

// NewPort declares a port. The name must be unique within any graph the
// port is registered in.
func NewPort[T any](name string) Port[T] {
	return Port[T]{name: name}
}

func (p Port[T]) Name() string {
	return p.name
}

func (p Port[T]) String() string {
	return p.name
}

// Deps is the resolved dependency set handed to a factory, keyed by port
// name.
type Deps map[string]any

// Value returns the raw dependency for a port name.
func (d Deps) Value(name string) (any, bool) {
	v, ok := d[name]
	return v, ok
}

// From extracts a typed dependency from a factory's Deps. The graph is
// validated before any factory runs, so a missing or mistyped entry means
// the adapter's Requires list does not match what the factory reads; that
// is a programming error and panics.
func From[T any](d Deps, p Port[T]) T {
	v, ok := d[p.Name()]
	if !ok {
		panic(fmt.Sprintf("portico: port %q is not in this adapter's requires list", p.Name()))
	}
	typed, ok := v.(T)
	if !ok {
		panic(fmt.Sprintf("portico: port %q holds %T, not the requested type", p.Name(), v))
	}
	return typed
}
