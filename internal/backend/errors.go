package backend

import (
	"errors"
	"fmt"
)

// Backend errors.
//
// Design decision: We separate transport failures (the request never got an
// answer) from status failures (the service answered with a non-2xx status)
// because the popup renders them differently: a transport failure means the
// service is probably not running, a status failure means it rejected the page.
var (
	// ErrInvalidBaseURL is returned when the service address is not an
	// absolute http or https URL.
	ErrInvalidBaseURL = errors.New("invalid backend URL: expected absolute http(s) URL")

	// ErrTransport wraps network-level failures such as connection refused,
	// DNS failures or timeouts.
	ErrTransport = errors.New("failed to fetch")

	// ErrDecode is returned when the service answers with a body that is not
	// a valid scan result.
	ErrDecode = errors.New("invalid scan result")
)

// StatusError is returned when the service answers with a non-2xx status.
type StatusError struct {
	// Code is the HTTP status code returned by the service.
	Code int
}

// Error implements the error interface.
func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP error! status: %d", e.Code)
}

// HealthStatus represents the result of probing the service.
type HealthStatus int

const (
	// HealthOK indicates the service answered the probe with a 2xx status.
	HealthOK HealthStatus = iota

	// HealthUnhealthy indicates the service answered with a non-2xx status.
	HealthUnhealthy

	// HealthUnreachable indicates the probe failed at the transport level.
	HealthUnreachable
)

// String returns a human-readable description of the health status.
func (s HealthStatus) String() string {
	switch s {
	case HealthOK:
		return "OK"
	case HealthUnhealthy:
		return "unhealthy"
	case HealthUnreachable:
		return "unreachable"
	default:
		return "unknown"
	}
}
