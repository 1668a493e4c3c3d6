package popup

import (
	"context"
	"errors"

	"github.com/nao1215/trustscan/internal/backend"
	"github.com/nao1215/trustscan/internal/browser"
	"github.com/nao1215/trustscan/internal/model"
	"github.com/nao1215/trustscan/internal/pipeline"
)

// scanRun carries the values produced by the steps of one scan.
type scanRun struct {
	tab    browser.Tab
	page   *browser.Page
	result *model.ScanResult
}

// newChain builds the scan chain in execution order.
func (c *Controller) newChain() *pipeline.Pipeline[*scanRun] {
	chain := pipeline.New[*scanRun](pipeline.WithLogger(c.logger))
	chain.AddSteps(
		pipeline.NewStep("probe-backend", c.probeBackend),
		pipeline.NewStep("show-progress", c.showProgress),
		pipeline.NewStep("query-active-tab", c.queryActiveTab),
		pipeline.NewStep("check-scheme", c.checkScheme),
		pipeline.NewStep("extract-content", c.extractContent),
		pipeline.NewStep("submit", c.submit),
	)
	return chain
}

func (c *Controller) probeBackend(ctx context.Context, _ *scanRun) error {
	if !c.CheckBackend(ctx) {
		return &ScanError{Kind: KindBackendUnavailable}
	}
	return nil
}

func (c *Controller) showProgress(_ context.Context, _ *scanRun) error {
	c.renderScanning()
	return nil
}

func (c *Controller) queryActiveTab(ctx context.Context, run *scanRun) error {
	tab, err := c.host.ActiveTab(ctx)
	if err != nil {
		return &ScanError{Kind: KindUnknown, Err: err}
	}
	run.tab = tab
	return nil
}

func (c *Controller) checkScheme(_ context.Context, run *scanRun) error {
	if browser.IsRestricted(run.tab.URL, c.restrictedSchemes) {
		return &ScanError{Kind: KindUnscannableTarget}
	}
	return nil
}

func (c *Controller) extractContent(ctx context.Context, run *scanRun) error {
	page, err := c.host.Extract(ctx, run.tab)
	if err != nil {
		return &ScanError{Kind: KindUnknown, Err: err}
	}
	run.page = page
	return nil
}

func (c *Controller) submit(ctx context.Context, run *scanRun) error {
	c.logger.Info("making request for URL", "url", run.tab.URL)

	req := model.NewScanRequest(run.tab.URL, run.page.Content, run.page.Scripts)
	result, err := c.backend.Scan(ctx, req)
	if err != nil {
		return classifySubmitError(err)
	}
	run.result = result
	return nil
}

// classifySubmitError tags a backend error with its kind.
func classifySubmitError(err error) *ScanError {
	var statusErr *backend.StatusError
	switch {
	case errors.As(err, &statusErr):
		return &ScanError{Kind: KindRemoteRequestFailed, Status: statusErr.Code, Err: err}
	case errors.Is(err, backend.ErrTransport):
		return &ScanError{Kind: KindTransportFailure, Err: err}
	default:
		return &ScanError{Kind: KindUnknown, Err: err}
	}
}
