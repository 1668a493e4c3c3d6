package report

import (
	"io"

	"github.com/nao1215/trustscan/internal/model"
)

// Writer defines the interface for report output.
type Writer interface {
	// Write outputs the report to the configured destination.
	// Returns the number of bytes written and any error encountered.
	Write(report *model.Report) (int, error)
}

// MultiWriter writes to multiple Writers simultaneously.
//
// Design decision: our Writer writes reports, not raw bytes, so
// io.MultiWriter cannot be used.
type MultiWriter struct {
	writers []Writer
}

// NewMultiWriter creates a Writer that writes to all provided Writers.
func NewMultiWriter(writers ...Writer) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// Write outputs the report to all configured Writers.
// Stops on first error encountered.
func (m *MultiWriter) Write(report *model.Report) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.Write(report)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// baseWriter provides common functionality for report writers.
type baseWriter struct {
	output io.Writer
}

func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}

// timeLayout is the timestamp format of text and Markdown reports.
const timeLayout = "2006-01-02 15:04:05 MST"

// statusText returns the one-line outcome of a report.
func statusText(report *model.Report) string {
	if report.Failed() {
		if report.Error != nil && report.Error.Message != "" {
			return "Error - " + report.Error.Message
		}
		return "Error"
	}
	return "Complete"
}

// targetText returns the scanned URL or a placeholder.
func targetText(report *model.Report) string {
	if report.URL == "" {
		return "-"
	}
	return report.URL
}
