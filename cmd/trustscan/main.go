// Package main provides the entry point for the trustscan CLI.
//
// trustscan asks a local analysis service for a trust score and threat
// alerts about the page open in the browser's active tab, and shows the
// verdict in the terminal.
//
// Usage:
//
//	trustscan scan
//	trustscan scan --interactive
//	trustscan scan --file page.html --url https://example.com --json
//
// See --help for all available options.
package main

func main() {
	Execute()
}
