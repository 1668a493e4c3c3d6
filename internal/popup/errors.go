package popup

import (
	"fmt"
	"strings"
)

// ErrorKind classifies a failed scan.
type ErrorKind int

const (
	// KindUnknown is any failure without a dedicated rendering.
	KindUnknown ErrorKind = iota

	// KindBackendUnavailable means the health probe failed.
	KindBackendUnavailable

	// KindUnscannableTarget means the active tab uses a restricted scheme.
	KindUnscannableTarget

	// KindRemoteRequestFailed means the backend answered the scan with a non-2xx status.
	KindRemoteRequestFailed

	// KindTransportFailure means the scan submission got no response at all.
	KindTransportFailure
)

// String returns the snake_case name of the kind.
func (k ErrorKind) String() string {
	switch k {
	case KindBackendUnavailable:
		return "backend_unavailable"
	case KindUnscannableTarget:
		return "unscannable_target"
	case KindRemoteRequestFailed:
		return "remote_request_failed"
	case KindTransportFailure:
		return "transport_failure"
	default:
		return "unknown"
	}
}

// User-facing messages.
const (
	msgBackendUnavailable = "Backend server is not available. Please ensure the server is running."
	msgUnscannableTarget  = "Cannot scan Chrome system pages. Please try on a regular website."
	msgTransportFailure   = "Failed to fetch"
	msgConnectFallback    = "Failed to connect to backend"
	msgGenericFallback    = "An error occurred during scanning"
)

// ScanError is the tagged failure of one scan attempt.
type ScanError struct {
	// Kind is the classification decided at the point of failure.
	Kind ErrorKind

	// Status is the backend's HTTP status for KindRemoteRequestFailed.
	Status int

	// Err is the underlying cause, if any.
	Err error
}

// Error returns the user-facing message of the failure.
func (e *ScanError) Error() string {
	switch e.Kind {
	case KindBackendUnavailable:
		return msgBackendUnavailable
	case KindUnscannableTarget:
		return msgUnscannableTarget
	case KindRemoteRequestFailed:
		return fmt.Sprintf("HTTP error! status: %d", e.Status)
	case KindTransportFailure:
		return msgTransportFailure
	default:
		if e.Err == nil {
			return ""
		}
		return strings.TrimSpace(e.Err.Error())
	}
}

// Unwrap returns the underlying cause.
func (e *ScanError) Unwrap() error {
	return e.Err
}

// MissingElementsError is returned by New when required surfaces are absent.
type MissingElementsError struct {
	// IDs lists the identifiers of the missing elements.
	IDs []string
}

// Error implements the error interface.
func (e *MissingElementsError) Error() string {
	return "required elements missing: " + strings.Join(e.IDs, ", ")
}
