// Package backend provides the HTTP client for the trust analysis service.
//
// The service exposes two endpoints:
//
//	GET  /health          200 when the service is available
//	POST /extension/scan  JSON ScanRequest in, JSON ScanResult out
//
// The client never retries and never caches: every call maps to exactly one
// HTTP request. Failures are reported through the sentinel errors and
// StatusError defined in this package so that callers can classify them
// without inspecting error messages.
package backend
