// Package terminal renders the popup surfaces in a terminal.
//
// A Screen owns the output stream and hands out the score display and the
// findings list. The panel is redrawn whenever the findings list changes,
// which is the last write of every render the controller performs.
//
// Two triggers are provided: KeyTrigger starts a scan on every Enter key
// press read from an input stream, OnceTrigger starts exactly one scan and
// is used by the non-interactive command.
package terminal
