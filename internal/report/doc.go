// Package report renders finished scans for output outside the terminal panel.
//
// This package contains writers for different output formats:
//   - TextWriter: plain text summary for files and pipes
//   - JSONWriter: structured JSON output for tool integration
//   - MarkdownWriter: Markdown document for sharing
//
// Writers implement the Writer interface, allowing them to be used
// interchangeably and composed for multi-format output.
package report
