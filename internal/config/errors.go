package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() so that callers can use
// errors.Is() while users still get a readable message.
var (
	// ErrInvalidBackendURL is returned when the backend address is not an absolute http(s) URL.
	ErrInvalidBackendURL = errors.New("invalid backend URL: must be an absolute http or https URL")

	// ErrInvalidDevToolsURL is returned when the DevTools endpoint is not an
	// absolute http(s) or ws(s) URL.
	ErrInvalidDevToolsURL = errors.New("invalid DevTools URL: must be an absolute http, https, ws or wss URL")

	// ErrInvalidTimeout is returned when the timeout is negative.
	// Use 0 for no timeout.
	ErrInvalidTimeout = errors.New("invalid timeout: must be non-negative")

	// ErrConflictingReportFormats is returned when both --json and --markdown
	// are specified. Only one output format can be used at a time.
	ErrConflictingReportFormats = errors.New("conflicting report formats: --json and --markdown cannot be used together")

	// ErrMissingPageURL is returned when a saved page is scanned without its address.
	ErrMissingPageURL = errors.New("missing page URL: --url is required with --file")

	// ErrPageURLWithoutFile is returned when --url is given without --file.
	ErrPageURLWithoutFile = errors.New("page URL without file: --url can only be used with --file")

	// ErrInvalidLogRotation is returned when the log file size limit is not
	// positive or the backup or age limits are negative.
	ErrInvalidLogRotation = errors.New("invalid log rotation: maxSizeMB must be positive, maxBackups and maxAgeDays non-negative")
)
