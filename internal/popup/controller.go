package popup

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/nao1215/trustscan/internal/browser"
	"github.com/nao1215/trustscan/internal/model"
	"github.com/nao1215/trustscan/internal/pipeline"
)

// Identifiers of the required UI elements.
const (
	ScoreElementID   = "trustScore"
	AlertsElementID  = "alertList"
	TriggerElementID = "scanButton"
)

// DefaultStartHint is the command suggested when the backend cannot be reached.
const DefaultStartHint = "python app.py"

// scanFlightKey is the singleflight key shared by all trigger activations.
const scanFlightKey = "scan"

// Status texts of the score display and findings list.
const (
	textReady      = "..."
	textReadyEntry = "Ready to scan..."
	textScanning   = "Scanning..."
	textProgress   = "Analysis in progress..."
	textError      = "Error"
)

// ScoreDisplay shows the trust score or a status text.
type ScoreDisplay interface {
	// SetText replaces the displayed text.
	SetText(text string)

	// SetTone changes the display colour.
	SetTone(tone model.Tone)
}

// AlertList shows findings or status lines.
type AlertList interface {
	// SetEntries replaces the whole list.
	SetEntries(entries []model.Entry)
}

// Trigger is the control that starts a scan.
type Trigger interface {
	// OnActivate registers the handler run on each activation.
	OnActivate(handler func(ctx context.Context))
}

// Backend is the analysis service used by the controller.
type Backend interface {
	// Healthy probes the service.
	Healthy(ctx context.Context) bool

	// Scan submits a page snapshot.
	Scan(ctx context.Context, req *model.ScanRequest) (*model.ScanResult, error)

	// BaseURL returns the service address shown in hints.
	BaseURL() string
}

// Surfaces are the three UI elements the controller binds to.
type Surfaces struct {
	Score   ScoreDisplay
	Alerts  AlertList
	Trigger Trigger
}

// missing returns the identifiers of absent surfaces, in declaration order.
func (s Surfaces) missing() []string {
	var ids []string
	if s.Score == nil {
		ids = append(ids, ScoreElementID)
	}
	if s.Alerts == nil {
		ids = append(ids, AlertsElementID)
	}
	if s.Trigger == nil {
		ids = append(ids, TriggerElementID)
	}
	return ids
}

// Controller drives the popup.
type Controller struct {
	score   ScoreDisplay
	alerts  AlertList
	host    browser.Host
	backend Backend
	logger  *slog.Logger

	// restrictedSchemes are address prefixes that are never scanned.
	restrictedSchemes []string

	// startHint is the backend start command shown on transport failures.
	startHint string

	// chain is the sequence of steps run by each scan.
	chain *pipeline.Pipeline[*scanRun]

	// flight coalesces overlapping scans.
	flight singleflight.Group

	// registered, when set, is called once a Scan call has started or
	// joined the in-flight scan.
	registered func()

	mu    sync.Mutex
	state model.State
	last  *model.Report
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the logger used by the controller.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) {
		c.logger = logger
	}
}

// WithRestrictedSchemes replaces the default restricted address prefixes.
func WithRestrictedSchemes(schemes []string) Option {
	return func(c *Controller) {
		c.restrictedSchemes = schemes
	}
}

// WithStartHint sets the backend start command shown on transport failures.
func WithStartHint(hint string) Option {
	return func(c *Controller) {
		c.startHint = hint
	}
}

// New binds a controller to the surfaces.
//
// When any surface is missing, an error is logged for each one and a
// *MissingElementsError is returned; nothing is rendered and no handler
// is attached. Otherwise the surfaces are set to the ready state and the
// scan handler is registered on the trigger.
func New(surfaces Surfaces, host browser.Host, backend Backend, opts ...Option) (*Controller, error) {
	c := &Controller{
		host:              host,
		backend:           backend,
		restrictedSchemes: browser.DefaultRestrictedSchemes,
		startHint:         DefaultStartHint,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}

	c.logger.Debug("binding popup elements",
		ScoreElementID, surfaces.Score != nil,
		AlertsElementID, surfaces.Alerts != nil,
		TriggerElementID, surfaces.Trigger != nil,
	)

	if ids := surfaces.missing(); len(ids) > 0 {
		for _, id := range ids {
			c.logger.Error("could not find required element", "id", id)
		}
		return nil, &MissingElementsError{IDs: ids}
	}

	c.score = surfaces.Score
	c.alerts = surfaces.Alerts
	c.chain = c.newChain()
	c.renderReady()

	surfaces.Trigger.OnActivate(func(ctx context.Context) {
		c.Scan(ctx)
	})
	return c, nil
}

// State returns the current UI state.
func (c *Controller) State() model.State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// LastReport returns the report of the most recent finished scan, or nil.
func (c *Controller) LastReport() *model.Report {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.last
}

// CheckBackend probes the analysis service. Failures are logged by the
// backend client and surface here only as false.
func (c *Controller) CheckBackend(ctx context.Context) bool {
	return c.backend.Healthy(ctx)
}

// Scan runs one scan cycle and returns its report.
//
// If a scan is already in flight the call waits for it and returns the same
// report instead of starting a second chain. The in-flight scan keeps the
// context of the activation that started it.
func (c *Controller) Scan(ctx context.Context) *model.Report {
	ch := c.flight.DoChan(scanFlightKey, func() (any, error) {
		return c.scan(ctx), nil
	})
	if c.registered != nil {
		c.registered()
	}
	res := <-ch
	if res.Shared {
		c.logger.Debug("joined in-flight scan")
	}
	report, ok := res.Val.(*model.Report)
	if !ok {
		return nil
	}
	return report
}

// scan executes the chain and renders its outcome.
func (c *Controller) scan(ctx context.Context) *model.Report {
	run := &scanRun{}
	var report *model.Report

	if err := c.chain.Execute(ctx, run); err != nil {
		report = c.renderError(run.tab.URL, err)
	} else {
		report = c.renderResult(run.tab.URL, run.result)
	}

	c.mu.Lock()
	c.last = report
	c.mu.Unlock()
	return report
}

// setState records the UI state.
func (c *Controller) setState(state model.State) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = state
}

// renderReady shows the neutral ready state.
func (c *Controller) renderReady() {
	c.setState(model.StateIdle)
	c.score.SetText(textReady)
	c.score.SetTone(model.ToneNeutral)
	c.alerts.SetEntries([]model.Entry{{Text: textReadyEntry}})
}

// renderScanning shows the progress state. The score colour is left as is.
func (c *Controller) renderScanning() {
	c.setState(model.StateScanning)
	c.score.SetText(textScanning)
	c.alerts.SetEntries([]model.Entry{{Text: textProgress}})
}

// renderResult shows the backend verdict.
func (c *Controller) renderResult(url string, result *model.ScanResult) *model.Report {
	report := model.NewSuccessReport(url, result)

	c.setState(model.StateSuccess)
	c.score.SetText(strconv.Itoa(report.TrustScore))
	c.score.SetTone(report.Tone)
	c.alerts.SetEntries(model.AlertEntries(report.Alerts))

	c.logger.Info("scan completed",
		"url", url,
		"trustScore", report.TrustScore,
		"tone", report.Tone.String(),
		"alerts", len(report.Alerts),
	)
	return report
}

// renderError shows a failed scan.
func (c *Controller) renderError(url string, err error) *model.Report {
	var scanErr *ScanError
	if !errors.As(err, &scanErr) {
		scanErr = &ScanError{Kind: KindUnknown, Err: err}
	}

	c.logger.Error("error during scan", "kind", scanErr.Kind.String(), "error", err)

	c.setState(model.StateError)
	c.score.SetText(textError)
	c.score.SetTone(model.ToneRed)
	c.alerts.SetEntries(c.errorEntries(scanErr))

	return model.NewErrorReport(url, &model.ReportError{
		Kind:    scanErr.Kind.String(),
		Message: scanErr.Error(),
		Status:  scanErr.Status,
	})
}

// errorEntries builds the findings list for a failure.
func (c *Controller) errorEntries(scanErr *ScanError) []model.Entry {
	msg := scanErr.Error()

	switch scanErr.Kind {
	case KindUnscannableTarget:
		return []model.Entry{
			{Icon: model.IconInfo, Text: msg},
			{Icon: model.IconSearch, Text: "Try scanning a regular website instead"},
		}
	case KindTransportFailure:
		return []model.Entry{
			{Icon: model.IconFailure, Text: orDefault(msg, msgConnectFallback)},
			{Icon: model.IconInfo, Text: "Make sure the backend server is running at " + c.backend.BaseURL()},
			{Icon: model.IconInfo, Text: fmt.Sprintf("Run '%s' in the backend directory", c.startHint)},
		}
	default:
		return []model.Entry{
			{Icon: model.IconFailure, Text: orDefault(msg, msgGenericFallback)},
		}
	}
}

// orDefault returns s, or fallback when s is empty.
func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
