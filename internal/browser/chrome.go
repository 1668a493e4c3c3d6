package browser

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/chromedp/cdproto/target"
	"github.com/chromedp/chromedp"

	"github.com/nao1215/trustscan/internal/model"
)

// extractionScript collects the document markup and every script element.
// Filtering happens on the Go side so that the rule lives in one place.
const extractionScript = `(() => ({
	content: document.documentElement.outerHTML,
	scripts: Array.from(document.getElementsByTagName('script')).map(s => ({
		content: s.innerHTML || '',
		src: s.src || ''
	}))
}))()`

// visibilityScript reports whether the tab is the foreground tab of its window.
const visibilityScript = `document.visibilityState`

// visibleState is the visibilityState of a foreground tab.
const visibleState = "visible"

// pageTargetType is the DevTools target type of a regular browser tab.
const pageTargetType = "page"

// extraction mirrors the value returned by extractionScript.
type extraction struct {
	Content string `json:"content"`
	Scripts []struct {
		Content string `json:"content"`
		Src     string `json:"src"`
	} `json:"scripts"`
}

// ChromeHost reads tabs of a running Chrome through the DevTools protocol.
//
// Design decision: We attach to the user's browser with a remote allocator
// instead of launching a headless instance, because the page to scan is the
// one the user is looking at, with its session and dynamic state.
type ChromeHost struct {
	// devtoolsURL is the DevTools HTTP or websocket endpoint
	// (e.g. "http://127.0.0.1:9222" or "ws://127.0.0.1:9222/devtools/browser/<id>").
	devtoolsURL string

	// logger receives diagnostics.
	logger *slog.Logger
}

// ChromeOption configures a ChromeHost.
type ChromeOption func(*ChromeHost)

// WithChromeLogger sets the logger used for diagnostics.
func WithChromeLogger(logger *slog.Logger) ChromeOption {
	return func(h *ChromeHost) {
		h.logger = logger
	}
}

// NewChromeHost creates a host for the browser at devtoolsURL
// (e.g. "http://127.0.0.1:9222"). The browser is contacted lazily.
func NewChromeHost(devtoolsURL string, opts ...ChromeOption) *ChromeHost {
	h := &ChromeHost{devtoolsURL: devtoolsURL}
	for _, opt := range opts {
		opt(h)
	}
	if h.logger == nil {
		h.logger = slog.Default()
	}
	return h
}

// ActiveTab returns the page tab the user is looking at: the first page
// target whose document is visible. When no document reports visible, the
// first page target is used.
func (h *ChromeHost) ActiveTab(ctx context.Context) (Tab, error) {
	allocCtx, cancelAlloc := chromedp.NewRemoteAllocator(ctx, h.devtoolsURL)
	defer cancelAlloc()

	// Targets allocates the browser connection without opening a new tab.
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	infos, err := chromedp.Targets(browserCtx)
	if err != nil {
		return Tab{}, fmt.Errorf("%w at %s: %w", ErrBrowserUnavailable, h.devtoolsURL, err)
	}

	tab, err := selectActiveTab(pageTabs(infos), func(tab Tab) (bool, error) {
		var state string
		if err := h.evaluate(ctx, tab, visibilityScript, &state); err != nil {
			return false, err
		}
		return state == visibleState, nil
	})
	if err != nil {
		return Tab{}, err
	}
	h.logger.Debug("active tab selected", "id", tab.ID, "url", tab.URL, "title", tab.Title)
	return tab, nil
}

// Extract evaluates the extraction routine inside the tab.
func (h *ChromeHost) Extract(ctx context.Context, tab Tab) (*Page, error) {
	var raw extraction
	if err := h.evaluate(ctx, tab, extractionScript, &raw); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExtractionFailed, err)
	}

	page := &Page{
		Content: raw.Content,
		Scripts: make([]model.Script, 0, len(raw.Scripts)),
	}
	for _, s := range raw.Scripts {
		page.Scripts = append(page.Scripts, model.NewScript(s.Content, s.Src))
	}

	h.logger.Debug("page content extracted",
		"url", tab.URL,
		"content", page.Content,
		"scripts", len(page.Scripts),
	)
	return page, nil
}

// evaluate runs script in the tab and stores its result in res.
func (h *ChromeHost) evaluate(ctx context.Context, tab Tab, script string, res any) error {
	allocCtx, cancelAlloc := chromedp.NewRemoteAllocator(ctx, h.devtoolsURL)
	defer cancelAlloc()

	// Attach as the first context: cancelling it detaches from the tab
	// instead of closing it.
	tabCtx, cancelTab := chromedp.NewContext(allocCtx, chromedp.WithTargetID(target.ID(tab.ID)))
	defer cancelTab()

	return chromedp.Run(tabCtx, chromedp.Evaluate(script, res))
}

// pageTabs returns the regular browser tabs among the targets, in order.
func pageTabs(infos []*target.Info) []Tab {
	var tabs []Tab
	for _, info := range infos {
		if info == nil || info.Type != pageTargetType {
			continue
		}
		tabs = append(tabs, Tab{
			ID:    string(info.TargetID),
			URL:   info.URL,
			Title: info.Title,
		})
	}
	return tabs
}

// selectActiveTab returns the first visible tab, or the first tab when none
// is visible. Tabs whose visibility cannot be read count as hidden.
func selectActiveTab(tabs []Tab, visible func(Tab) (bool, error)) (Tab, error) {
	if len(tabs) == 0 {
		return Tab{}, ErrNoActiveTab
	}
	for _, tab := range tabs {
		if ok, err := visible(tab); err == nil && ok {
			return tab, nil
		}
	}
	return tabs[0], nil
}
