package browser

import (
	"context"
	"errors"
	"strings"

	"github.com/nao1215/trustscan/internal/model"
)

// DefaultRestrictedSchemes are the browser-internal address prefixes that
// extensions cannot inspect.
var DefaultRestrictedSchemes = []string{"chrome://", "chrome-extension://"}

var (
	// ErrNoActiveTab is returned when the browser has no page tab open.
	ErrNoActiveTab = errors.New("no active tab found")

	// ErrBrowserUnavailable is returned when the DevTools endpoint cannot be reached.
	ErrBrowserUnavailable = errors.New("browser is not reachable")

	// ErrExtractionFailed is returned when the extraction routine fails in the tab.
	ErrExtractionFailed = errors.New("failed to extract page content")
)

// Tab identifies a browser tab.
type Tab struct {
	// ID is the host-specific handle of the tab.
	ID string

	// URL is the address currently displayed in the tab.
	URL string

	// Title is the document title, if known.
	Title string
}

// Page is the content extracted from a tab.
type Page struct {
	// Content is the full serialized document markup.
	Content string

	// Scripts are all script elements in document order, unfiltered.
	Scripts []model.Script
}

// Host is the host environment the popup scans.
type Host interface {
	// ActiveTab returns the focused tab of the focused window.
	ActiveTab(ctx context.Context) (Tab, error)

	// Extract runs the content-extraction routine against the tab.
	Extract(ctx context.Context, tab Tab) (*Page, error)
}

// IsRestricted reports whether the address starts with one of the given
// restricted scheme prefixes.
func IsRestricted(rawURL string, schemes []string) bool {
	for _, scheme := range schemes {
		if strings.HasPrefix(rawURL, scheme) {
			return true
		}
	}
	return false
}
