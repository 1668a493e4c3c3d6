package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/nao1215/trustscan/internal/model"
)

// ruleWidth is the width of the section separators.
const ruleWidth = 60

// TextWriter outputs plain text reports without colours, for files and pipes.
type TextWriter struct {
	baseWriter

	// showEmpty prints severity rows with a zero count.
	showEmpty bool
}

// TextWriterOption configures a TextWriter.
type TextWriterOption func(*TextWriter)

// WithShowEmpty configures the writer to list severities without alerts.
func WithShowEmpty(show bool) TextWriterOption {
	return func(w *TextWriter) {
		w.showEmpty = show
	}
}

// NewTextWriter creates a TextWriter that outputs to the given writer.
func NewTextWriter(output io.Writer, opts ...TextWriterOption) *TextWriter {
	w := &TextWriter{baseWriter: newBaseWriter(output)}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write outputs the report in plain text.
func (w *TextWriter) Write(report *model.Report) (int, error) {
	var sb strings.Builder

	sb.WriteString(strings.Repeat("=", ruleWidth) + "\n")
	sb.WriteString("TRUSTSCAN REPORT\n")
	sb.WriteString(strings.Repeat("=", ruleWidth) + "\n\n")

	fmt.Fprintf(&sb, "URL:         %s\n", targetText(report))
	fmt.Fprintf(&sb, "Scan Date:   %s\n", report.ScannedAt.Format(timeLayout))
	if !report.Failed() {
		fmt.Fprintf(&sb, "Trust Score: %d (%s)\n", report.TrustScore, report.Tone)
	}
	fmt.Fprintf(&sb, "Status:      %s\n\n", statusText(report))

	if !report.Failed() {
		w.writeSeverities(&sb, report)
		w.writeAlerts(&sb, report)
	}

	sb.WriteString(strings.Repeat("=", ruleWidth) + "\n")
	return io.WriteString(w.output, sb.String())
}

// writeSeverities writes the alert counts per severity.
func (w *TextWriter) writeSeverities(sb *strings.Builder, report *model.Report) {
	sb.WriteString("SEVERITY SUMMARY\n")
	sb.WriteString(strings.Repeat("-", ruleWidth) + "\n")
	for _, sev := range severityRows {
		n := report.CountBySeverity(sev)
		if n == 0 && !w.showEmpty {
			continue
		}
		fmt.Fprintf(sb, "  %-9s %d\n", sev.String()+":", n)
	}
	fmt.Fprintf(sb, "  %-9s %d alerts\n\n", "TOTAL:", len(report.Alerts))
}

// writeAlerts writes one line per alert in backend order.
func (w *TextWriter) writeAlerts(sb *strings.Builder, report *model.Report) {
	sb.WriteString("ALERTS\n")
	sb.WriteString(strings.Repeat("-", ruleWidth) + "\n")
	for _, e := range model.AlertEntries(report.Alerts) {
		sb.WriteString("  " + e.String() + "\n")
	}
	sb.WriteString("\n")
}
