package model

import (
	"math"
	"strings"
)

// InlineSource is the src value assigned to a script element that carries
// its code inline instead of referencing an external file.
const InlineSource = "inline"

// Script describes one <script> element of the scanned page.
type Script struct {
	// Content is the inline code of the element. Empty for external scripts
	// that have no inline body.
	Content string `json:"content"`

	// Src is the absolute URL of an external script, or InlineSource.
	Src string `json:"src"`
}

// Relevant reports whether the script carries anything worth analyzing:
// executable inline text or an external source.
func (s Script) Relevant() bool {
	return strings.TrimSpace(s.Content) != "" || s.Src != InlineSource
}

// NewScript builds a Script from an element's inline text and src attribute.
// An empty src becomes InlineSource.
func NewScript(content, src string) Script {
	if src == "" {
		src = InlineSource
	}
	return Script{Content: content, Src: src}
}

// FilterScripts returns the relevant scripts in their original order.
// Entries with empty content and the inline sentinel are dropped.
// The returned slice is never nil so that it encodes as an empty JSON array.
func FilterScripts(scripts []Script) []Script {
	filtered := make([]Script, 0, len(scripts))
	for _, s := range scripts {
		if s.Relevant() {
			filtered = append(filtered, s)
		}
	}
	return filtered
}

// ScanRequest is the body submitted to the analysis backend.
type ScanRequest struct {
	// URL is the address of the scanned tab.
	URL string `json:"url"`

	// Content is the full serialized document markup.
	Content string `json:"content"`

	// Scripts are the relevant script elements of the document.
	Scripts []Script `json:"scripts"`
}

// NewScanRequest builds a ScanRequest, filtering the given scripts.
func NewScanRequest(url, content string, scripts []Script) *ScanRequest {
	return &ScanRequest{
		URL:     url,
		Content: content,
		Scripts: FilterScripts(scripts),
	}
}

// ScanResult is the analysis backend's answer.
// A missing trustScore decodes to 0 and a missing alerts list to nil.
type ScanResult struct {
	// TrustScore is the 0-100 trust assessment of the page. Any JSON number
	// is accepted, so backends may send 85 or 85.0.
	TrustScore float64 `json:"trustScore"`

	// Alerts are human-readable descriptions of detected issues, in the
	// order the backend reported them.
	Alerts []string `json:"alerts"`
}

// Score returns the trust score truncated toward zero. Since the colour
// thresholds are whole numbers, the truncated score falls in the same band
// as the raw one.
func (r *ScanResult) Score() int {
	switch {
	case r == nil:
		return 0
	case r.TrustScore >= math.MaxInt32:
		return math.MaxInt32
	case r.TrustScore <= math.MinInt32:
		return math.MinInt32
	default:
		return int(r.TrustScore)
	}
}

// HasAlerts reports whether the backend returned at least one alert.
func (r *ScanResult) HasAlerts() bool {
	return r != nil && len(r.Alerts) > 0
}
