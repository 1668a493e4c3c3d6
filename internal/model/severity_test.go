package model

import "testing"

// TestSeverityString tests the String method of Severity.
func TestSeverityString(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		severity Severity
		expected string
	}{
		{SeverityUnknown, "UNKNOWN"},
		{SeverityLow, "LOW"},
		{SeverityMedium, "MEDIUM"},
		{SeverityHigh, "HIGH"},
		{SeverityCritical, "CRITICAL"},
		{Severity(999), "UNKNOWN"},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.expected, func(t *testing.T) {
			t.Parallel()
			if tc.severity.String() != tc.expected {
				t.Errorf("got %q, expected %q", tc.severity.String(), tc.expected)
			}
		})
	}
}

// TestClassifyAlert tests keyword matching and its precedence order.
func TestClassifyAlert(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		alert    string
		expected Severity
		icon     string
	}{
		{"critical keyword", "Critical: credential harvesting form", SeverityCritical, "🚨"},
		{"critical upper case", "CRITICAL phishing kit detected", SeverityCritical, "🚨"},
		{"high risk", "High Risk: obfuscated eval() payload", SeverityHigh, "⛔"},
		{"medium risk", "medium risk - mixed content", SeverityMedium, "⚠️"},
		{"low risk", "Low risk tracker present", SeverityLow, "ℹ️"},
		{"no keyword", "Suspicious redirect chain", SeverityUnknown, "⚠️"},
		{"high without risk", "high entropy string", SeverityUnknown, "⚠️"},
		{"critical wins over low risk", "low risk script, critical keylogger", SeverityCritical, "🚨"},
		{"high risk wins over medium risk", "medium risk cookie and high risk iframe", SeverityHigh, "⛔"},
		{"medium risk wins over low risk", "LOW RISK banner, MEDIUM RISK form", SeverityMedium, "⚠️"},
		{"empty alert", "", SeverityUnknown, "⚠️"},
		{"long s is not folded", "high riſk script", SeverityUnknown, "⚠️"},
		{"mixed case", "hIGH rISK iframe", SeverityHigh, "⛔"},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := ClassifyAlert(tc.alert)
			if got != tc.expected {
				t.Errorf("ClassifyAlert(%q) = %v, expected %v", tc.alert, got, tc.expected)
			}
			if got.Icon() != tc.icon {
				t.Errorf("Icon() = %q, expected %q", got.Icon(), tc.icon)
			}
		})
	}
}

// TestSeverityOrdering tests that severity levels are ordered correctly.
// Unknown < Low < Medium < High < Critical
func TestSeverityOrdering(t *testing.T) {
	t.Parallel()

	ordered := []Severity{SeverityUnknown, SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical}
	for i := 1; i < len(ordered); i++ {
		if ordered[i-1] >= ordered[i] {
			t.Errorf("expected %v < %v", ordered[i-1], ordered[i])
		}
	}
}
