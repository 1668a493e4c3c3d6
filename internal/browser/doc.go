// Package browser provides access to the host environment: the browser tab
// the user is currently looking at.
//
// Two hosts are available:
//   - ChromeHost attaches to a running Chrome/Chromium through its DevTools
//     endpoint (start the browser with --remote-debugging-port=9222) and
//     evaluates the extraction routine inside the active tab.
//   - FileHost treats a saved HTML document as the active tab, which is
//     useful for offline analysis and for tests.
//
// Both return the serialized document markup together with every script
// element reduced to its inline code and source URL.
package browser
