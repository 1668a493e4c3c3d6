package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"

	"github.com/nao1215/trustscan/internal/model"
)

// MarkdownWriter outputs reports in Markdown format.
// This format is designed for documentation and sharing.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// severityRows lists the severities in report order.
var severityRows = []model.Severity{
	model.SeverityCritical,
	model.SeverityHigh,
	model.SeverityMedium,
	model.SeverityLow,
	model.SeverityUnknown,
}

// Write outputs the report in Markdown format.
func (w *MarkdownWriter) Write(report *model.Report) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, report)
	if report.Failed() {
		w.writeError(md, report)
	} else {
		w.writeSummary(md, report)
		w.writeAlerts(md, report)
	}
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// writeHeader writes the report title and scan information.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, report *model.Report) {
	md.H1("TrustScan Report")
	md.PlainText("")

	score := strconv.Itoa(report.TrustScore)
	if report.Failed() {
		score = "-"
	}

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"URL", "`" + targetText(report) + "`"},
			{"Scan Date", report.ScannedAt.Format(timeLayout)},
			{"Trust Score", score},
			{"Status", statusIcon(report) + " " + statusText(report)},
		},
	})
	md.PlainText("")
}

// statusIcon returns the icon of the report outcome.
func statusIcon(report *model.Report) string {
	if report.Failed() {
		return "❌"
	}
	return "✅"
}

// writeError writes the failure details.
func (w *MarkdownWriter) writeError(md *markdown.Markdown, report *model.Report) {
	if report.Error == nil {
		md.Cautionf("The scan failed.")
		md.PlainText("")
		return
	}
	md.Cautionf("The scan failed (%s): %s", report.Error.Kind, report.Error.Message)
	md.PlainText("")
}

// writeSummary writes the severity summary with a verdict alert.
func (w *MarkdownWriter) writeSummary(md *markdown.Markdown, report *model.Report) {
	md.H2("Severity Summary")
	md.PlainText("")

	rows := make([][]string, 0, len(severityRows)+1)
	for _, sev := range severityRows {
		rows = append(rows, []string{sev.Icon() + " " + sev.String(), strconv.Itoa(report.CountBySeverity(sev))})
	}
	rows = append(rows, []string{"**Total**", "**" + strconv.Itoa(len(report.Alerts)) + "**"})

	md.Table(markdown.TableSet{
		Header: []string{"Severity", "Count"},
		Rows:   rows,
	})
	md.PlainText("")

	if len(report.Alerts) > 0 {
		w.writePieChart(md, report)
	}
	w.writeVerdict(md, report)
}

// writePieChart writes a mermaid pie chart for severity distribution.
func (w *MarkdownWriter) writePieChart(md *markdown.Markdown, report *model.Report) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Alert Severity Distribution"),
		piechart.WithShowData(true),
	)
	for _, sev := range severityRows {
		if n := report.CountBySeverity(sev); n > 0 {
			chart.LabelAndIntValue(sev.String(), uint64(n))
		}
	}

	md.PlainText("")
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// writeVerdict writes a GitHub alert matching the score band and the worst alert.
func (w *MarkdownWriter) writeVerdict(md *markdown.Markdown, report *model.Report) {
	switch {
	case report.HighestSeverity() == model.SeverityCritical:
		md.Cautionf("Critical threats detected! %d critical alert(s).",
			report.CountBySeverity(model.SeverityCritical))
	case report.Tone == model.ToneRed:
		md.Cautionf("Low trust score (%d). Avoid entering personal data on this page.", report.TrustScore)
	case report.HighestSeverity() == model.SeverityHigh:
		md.Warningf("High risk alerts detected. %d high risk alert(s).",
			report.CountBySeverity(model.SeverityHigh))
	case report.Tone == model.ToneAmber:
		md.Importantf("Moderate trust score (%d). Proceed with caution.", report.TrustScore)
	case report.HighestSeverity() == model.SeverityMedium:
		md.Importantf("Medium risk alerts detected. %d medium risk alert(s).",
			report.CountBySeverity(model.SeverityMedium))
	case report.HighestSeverity() == model.SeverityLow:
		md.Note("Only low risk alerts detected.")
	case len(report.Alerts) > 0:
		md.Note(fmt.Sprintf("%d alert(s) detected. Review them below.", len(report.Alerts)))
	default:
		md.Tip("No threats detected.")
	}
	md.PlainText("")
}

// writeAlerts writes the alert list in backend order.
func (w *MarkdownWriter) writeAlerts(md *markdown.Markdown, report *model.Report) {
	md.H2("Alerts")
	md.PlainText("")

	if len(report.Alerts) == 0 {
		md.PlainText("No threats detected.")
		md.PlainText("")
		return
	}

	items := make([]string, 0, len(report.Alerts))
	for _, a := range report.Alerts {
		items = append(items, a.Icon()+" "+a.Text)
	}
	md.BulletList(items...)
	md.PlainText("")
}

// writeFooter writes the report footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainText("*Report generated by [TrustScan](https://github.com/nao1215/trustscan)*")
}
