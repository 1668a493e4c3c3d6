package model

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Severity represents the risk level of an alert returned by the backend.
// The backend only sends free text, so the level is inferred from keywords
// embedded in the alert.
type Severity int

const (
	// SeverityUnknown is used for alerts that carry no recognized keyword.
	// They are still displayed with the generic warning icon.
	SeverityUnknown Severity = iota

	// SeverityLow indicates an alert mentioning "low risk".
	SeverityLow

	// SeverityMedium indicates an alert mentioning "medium risk".
	SeverityMedium

	// SeverityHigh indicates an alert mentioning "high risk".
	SeverityHigh

	// SeverityCritical indicates an alert mentioning "critical".
	SeverityCritical
)

// Alert icons shown in front of each finding.
const (
	IconCritical = "🚨"
	IconHigh     = "⛔"
	IconMedium   = "⚠️"
	IconLow      = "ℹ️"
	IconDefault  = "⚠️"
)

// String returns a human-readable representation of the severity level.
func (s Severity) String() string {
	switch s {
	case SeverityLow:
		return "LOW"
	case SeverityMedium:
		return "MEDIUM"
	case SeverityHigh:
		return "HIGH"
	case SeverityCritical:
		return "CRITICAL"
	default:
		return "UNKNOWN"
	}
}

// Icon returns the icon displayed in front of an alert of this severity.
func (s Severity) Icon() string {
	switch s {
	case SeverityCritical:
		return IconCritical
	case SeverityHigh:
		return IconHigh
	case SeverityMedium:
		return IconMedium
	case SeverityLow:
		return IconLow
	default:
		return IconDefault
	}
}

// severityKeywords lists the keywords in precedence order.
// The first keyword found in an alert decides its severity, so an alert
// containing both "critical" and "low risk" is critical.
var severityKeywords = []struct {
	keyword  string
	severity Severity
}{
	{"critical", SeverityCritical},
	{"high risk", SeverityHigh},
	{"medium risk", SeverityMedium},
	{"low risk", SeverityLow},
}

// ClassifyAlert infers the severity of an alert by case-insensitive
// substring match against the severity keywords. The alert is lowercased
// with the default Unicode mapping, not case-folded: "riſk" does not match.
func ClassifyAlert(alert string) Severity {
	lower := cases.Lower(language.Und).String(alert)
	for _, k := range severityKeywords {
		if strings.Contains(lower, k.keyword) {
			return k.severity
		}
	}
	return SeverityUnknown
}

// MarshalText encodes the severity by name.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText decodes a severity name produced by MarshalText.
func (s *Severity) UnmarshalText(text []byte) error {
	for _, v := range []Severity{SeverityUnknown, SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical} {
		if v.String() == string(text) {
			*s = v
			return nil
		}
	}
	return fmt.Errorf("%w: severity %q", ErrUnknownName, text)
}
