package domain

import (
	"errors"
	"fmt"
)

// ErrEmptyDestinations is returned when a routing request is built with
// no destinations.
var ErrEmptyDestinations = errors.New("no destinations were supplied")

// MissingColumnError reports an input table whose coordinate columns
// could not be resolved under any recognized alias.
type MissingColumnError struct {
	Table  string
	Column string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("table %q has no resolvable %q column (accepted aliases include lat/latitude/y and lon/longitude/x)", e.Table, e.Column)
}

// UnroutableLocationError names a submitted point the routing network
// cannot reach. Recovered from raw optimization-service error text.
type UnroutableLocationError struct {
	Name string
}

func (e *UnroutableLocationError) Error() string {
	return fmt.Sprintf("the point named %q could not be reached: places more than 500m from a road are considered unreachable", e.Name)
}

// ServiceError is any other external-service failure, carrying the
// original message verbatim.
type ServiceError struct {
	Service string
	Status  int
	Message string
}

func (e *ServiceError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s service error (HTTP %d): %s", e.Service, e.Status, e.Message)
	}
	return fmt.Sprintf("%s service error: %s", e.Service, e.Message)
}
