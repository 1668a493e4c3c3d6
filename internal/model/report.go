package model

import "time"

// Alert is one backend alert together with its inferred severity.
type Alert struct {
	// Text is the alert as returned by the backend.
	Text string `json:"text"`

	// Severity is inferred from the text with ClassifyAlert.
	Severity Severity `json:"severity"`
}

// NewAlert classifies the given alert text.
func NewAlert(text string) Alert {
	return Alert{Text: text, Severity: ClassifyAlert(text)}
}

// Icon returns the icon displayed in front of the alert.
func (a Alert) Icon() string {
	return a.Severity.Icon()
}

// ReportError describes why a scan failed.
type ReportError struct {
	// Kind is the failure classification (e.g. "backend_unavailable").
	Kind string `json:"kind"`

	// Message is the user-facing error message.
	Message string `json:"message"`

	// Status is the HTTP status returned by the backend, if any.
	Status int `json:"status,omitempty"`
}

// Report summarizes one finished scan.
// It is produced by the popup controller and consumed by report writers.
type Report struct {
	// URL is the address of the scanned tab. Empty if the scan failed
	// before the active tab was known.
	URL string `json:"url,omitempty"`

	// ScannedAt is the time the scan finished.
	ScannedAt time.Time `json:"scannedAt"`

	// State is either StateSuccess or StateError.
	State State `json:"state"`

	// TrustScore is the backend's score. Zero on failure.
	TrustScore int `json:"trustScore"`

	// Tone is the colour band the score was rendered with.
	Tone Tone `json:"tone"`

	// Alerts are the classified backend alerts, in backend order.
	Alerts []Alert `json:"alerts"`

	// Error is set when State is StateError.
	Error *ReportError `json:"error,omitempty"`
}

// NewSuccessReport builds the report of a successful scan.
func NewSuccessReport(url string, result *ScanResult) *Report {
	alerts := make([]Alert, 0, len(result.Alerts))
	for _, text := range result.Alerts {
		alerts = append(alerts, NewAlert(text))
	}
	return &Report{
		URL:        url,
		ScannedAt:  time.Now(),
		State:      StateSuccess,
		TrustScore: result.Score(),
		Tone:       ToneForScore(result.Score()),
		Alerts:     alerts,
	}
}

// NewErrorReport builds the report of a failed scan.
func NewErrorReport(url string, reportErr *ReportError) *Report {
	return &Report{
		URL:       url,
		ScannedAt: time.Now(),
		State:     StateError,
		Tone:      ToneRed,
		Alerts:    []Alert{},
		Error:     reportErr,
	}
}

// Failed reports whether the scan ended in an error.
func (r *Report) Failed() bool {
	return r.State == StateError
}

// CountBySeverity returns how many alerts have the given severity.
func (r *Report) CountBySeverity(severity Severity) int {
	count := 0
	for _, a := range r.Alerts {
		if a.Severity == severity {
			count++
		}
	}
	return count
}

// HighestSeverity returns the most severe alert level in the report,
// or SeverityUnknown when there are no classified alerts.
func (r *Report) HighestSeverity() Severity {
	highest := SeverityUnknown
	for _, a := range r.Alerts {
		if a.Severity > highest {
			highest = a.Severity
		}
	}
	return highest
}
