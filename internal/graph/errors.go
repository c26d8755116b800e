package graph

import (
	"fmt"
	"strings"
)

// DuplicateError reports a second provider registered for a port.
type DuplicateError struct {
	Port string
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("duplicate provider for port %q", e.Port)
}

// MissingError reports every required port without a provider, so a broken
// graph can be fixed in one pass.
type MissingError struct {
	Ports []string
}

func (e *MissingError) Error() string {
	return "missing dependencies: " + strings.Join(e.Ports, ", ")
}
