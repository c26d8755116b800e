package portico

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/multierr"

	"github.com/portico-go/portico/internal/graph"
	"github.com/portico-go/portico/internal/resolve"
)

type ErrorCode uint16

const (
	ErrCodeUnknown ErrorCode = iota
	ErrCodeDuplicateProvider
	ErrCodeMissingDependency
	ErrCodeCircularDependency
	ErrCodePortNotFound
	ErrCodeFactoryFailed
	ErrCodeScopeRequired
	ErrCodeDisposed
	ErrCodeFinalizer
)

var codeNames = map[ErrorCode]string{
	ErrCodeUnknown:            "UNKNOWN",
	ErrCodeDuplicateProvider:  "DUPLICATE_PROVIDER",
	ErrCodeMissingDependency:  "MISSING_DEPENDENCY",
	ErrCodeCircularDependency: "CIRCULAR_DEPENDENCY",
	ErrCodePortNotFound:       "PORT_NOT_FOUND",
	ErrCodeFactoryFailed:      "FACTORY_FAILED",
	ErrCodeScopeRequired:      "SCOPE_REQUIRED",
	ErrCodeDisposed:           "DISPOSED",
	ErrCodeFinalizer:          "FINALIZER_FAILED",
}

func (c ErrorCode) String() string {
	if name, ok := codeNames[c]; ok {
		return name
	}
	return fmt.Sprintf("UNKNOWN(%d)", c)
}

// Error is the one error type surfaced by the package. Port carries the
// offending port where there is a single one; Ports carries the full set
// for missing-dependency failures; Cycle carries the ordered cycle for
// circular-dependency failures.
type Error struct {
	Code    ErrorCode
	Message string
	Port    string
	Ports   []string
	Cycle   []string
	Cause   error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("[%s]", e.Code))

	if e.Port != "" {
		b.WriteString(fmt.Sprintf(" port=%q:", e.Port))
	}

	b.WriteString(" ")
	b.WriteString(e.Message)

	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}

	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Code == t.Code
	}
	return false
}

func newError(code ErrorCode, message string, cause error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// wrapBuildError converts the graph package's structured failures into
// *Error values. Missing dependencies keep one message per port.
func wrapBuildError(err error) error {
	if err == nil {
		return nil
	}

	var dup *graph.DuplicateError
	if errors.As(err, &dup) {
		e := newError(ErrCodeDuplicateProvider, fmt.Sprintf("port %q already has a provider", dup.Port), nil)
		e.Port = dup.Port
		return e
	}

	var missing *graph.MissingError
	if errors.As(err, &missing) {
		msgs := make([]string, 0, len(missing.Ports))
		for _, port := range missing.Ports {
			msgs = append(msgs, "Missing dependencies: "+port)
		}
		e := newError(ErrCodeMissingDependency, strings.Join(msgs, "; "), nil)
		e.Ports = append([]string(nil), missing.Ports...)
		return e
	}

	return newError(ErrCodeUnknown, "graph construction failed", err)
}

// wrapResolveError converts engine failures into *Error values.
func wrapResolveError(err error) error {
	if err == nil {
		return nil
	}

	var notFound *resolve.NotFoundError
	if errors.As(err, &notFound) {
		e := newError(ErrCodePortNotFound, fmt.Sprintf("no adapter provides port %q", notFound.Port), nil)
		e.Port = notFound.Port
		return e
	}

	var cycle *resolve.CycleError
	if errors.As(err, &cycle) {
		e := newError(ErrCodeCircularDependency,
			"circular dependency detected: "+strings.Join(cycle.Chain, " -> "), nil)
		e.Cycle = append([]string(nil), cycle.Chain...)
		if len(cycle.Chain) > 0 {
			e.Port = cycle.Chain[0]
		}
		return e
	}

	var scoped *resolve.ScopeRequiredError
	if errors.As(err, &scoped) {
		e := newError(ErrCodeScopeRequired,
			fmt.Sprintf("port %q is scoped; create a scope to resolve it", scoped.Port), nil)
		e.Port = scoped.Port
		return e
	}

	var disposed *resolve.DisposedError
	if errors.As(err, &disposed) {
		return newError(ErrCodeDisposed, "resolver is disposed", nil)
	}

	var factory *resolve.FactoryError
	if errors.As(err, &factory) {
		e := newError(ErrCodeFactoryFailed,
			fmt.Sprintf("factory for port %q returned an error", factory.Port), factory.Cause)
		e.Port = factory.Port
		return e
	}

	return newError(ErrCodeUnknown, "resolution failed", err)
}

// wrapDisposeError aggregates disposal failures into a single *Error. The
// individual finalizer failures stay reachable through Unwrap/multierr.
func wrapDisposeError(err error) error {
	if err == nil {
		return nil
	}

	n := len(multierr.Errors(err))
	return newError(ErrCodeFinalizer, fmt.Sprintf("disposal completed with %d failure(s)", n), err)
}

func IsDuplicateProvider(err error) bool { return hasCode(err, ErrCodeDuplicateProvider) }

func IsMissingDependency(err error) bool { return hasCode(err, ErrCodeMissingDependency) }

func IsCircularDependency(err error) bool { return hasCode(err, ErrCodeCircularDependency) }

func IsPortNotFound(err error) bool { return hasCode(err, ErrCodePortNotFound) }

func IsFactoryFailed(err error) bool { return hasCode(err, ErrCodeFactoryFailed) }

func IsScopeRequired(err error) bool { return hasCode(err, ErrCodeScopeRequired) }

func IsDisposed(err error) bool { return hasCode(err, ErrCodeDisposed) }

func IsFinalizerFailure(err error) bool { return hasCode(err, ErrCodeFinalizer) }

func hasCode(err error, code ErrorCode) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == code
}

// MissingPorts returns the full missing-port set from a Build failure.
func MissingPorts(err error) []string {
	var e *Error
	if errors.As(err, &e) && e.Code == ErrCodeMissingDependency {
		return append([]string(nil), e.Ports...)
	}
	return nil
}

// CyclePorts returns the ordered cycle from a circular-dependency failure.
func CyclePorts(err error) []string {
	var e *Error
	if errors.As(err, &e) && e.Code == ErrCodeCircularDependency {
		return append([]string(nil), e.Cycle...)
	}
	return nil
}
