// Package model defines the data structures exchanged during a trust scan.
//
// This package contains the following main types:
//   - ScanRequest / Script: the page snapshot submitted to the analysis backend
//   - ScanResult: the backend's answer (trust score and alerts)
//   - Severity: the risk level derived from an alert's text
//   - Tone: the colour band of a trust score
//   - State: the popup's UI state (idle, scanning, success, error)
//   - Report: the summary of one finished scan, used by report writers
//
// Design decision: We separate models into their own package because the
// backend client, the browser host, the popup controller and the report
// writers all exchange these types, and centralizing them prevents import cycles.
//
// None of these values are persisted. They live for the duration of a single
// scan and are serializable to JSON for the backend protocol and report output.
package model
