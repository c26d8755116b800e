package resolve

import (
	"fmt"
	"strings"
)

// NotFoundError reports a resolve of a port the graph does not provide.
type NotFoundError struct {
	Port string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no adapter provides port %q", e.Port)
}

// CycleError reports a dependency cycle hit during resolution. Chain lists
// the ports from the start of the cycle back to itself.
type CycleError struct {
	Chain []string
}

func (e *CycleError) Error() string {
	return "circular dependency detected: " + strings.Join(e.Chain, " -> ")
}

// ScopeRequiredError reports a scoped port resolved directly on the root
// container.
type ScopeRequiredError struct {
	Port string
}

func (e *ScopeRequiredError) Error() string {
	return fmt.Sprintf("port %q is scoped and requires an active scope", e.Port)
}

// DisposedError reports an operation on a torn-down resolver.
type DisposedError struct {
	Resolver string
}

func (e *DisposedError) Error() string {
	return fmt.Sprintf("resolver %s is disposed", e.Resolver)
}

// FactoryError reports an adapter factory returning an error.
type FactoryError struct {
	Port  string
	Cause error
}

func (e *FactoryError) Error() string {
	return fmt.Sprintf("factory for port %q failed: %v", e.Port, e.Cause)
}

func (e *FactoryError) Unwrap() error {
	return e.Cause
}

// FinalizeError reports a single finalizer failure during disposal.
type FinalizeError struct {
	Port  string
	Cause error
}

func (e *FinalizeError) Error() string {
	return fmt.Sprintf("finalizer for port %q failed: %v", e.Port, e.Cause)
}

func (e *FinalizeError) Unwrap() error {
	return e.Cause
}
