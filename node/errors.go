package node

import (
	"errors"
	"fmt"
)

var ErrServiceUnknown = errors.New("unknown service")

// DuplicateServiceError is returned during Node startup if a registered service
// constructor returns a service of the same name that was already started.
type DuplicateServiceError struct {
	Kind string
}

func (e *DuplicateServiceError) Error() string {
	return fmt.Sprintf("duplicate service: %s", e.Kind)
}

// StopError is returned if a Node fails to stop either any of its registered
// services.
type StopError struct {
	Services map[string]error
}

func (e *StopError) Error() string {
	return fmt.Sprintf("services: %v", e.Services)
}
