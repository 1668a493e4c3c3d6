// Package popup implements the popup controller: it binds the three UI
// surfaces (score display, findings list, trigger control), probes the
// analysis backend, extracts the active tab's content through the host,
// submits it, and renders the verdict or the failure.
//
// Every failure is classified where it happens into a ScanError kind and
// rendered; nothing propagates beyond the surfaces. Overlapping trigger
// activations join the scan that is already in flight, so a single chain
// writes the surfaces at any time.
package popup
