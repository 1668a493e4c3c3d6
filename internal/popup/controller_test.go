package popup

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/nao1215/trustscan/internal/backend"
	"github.com/nao1215/trustscan/internal/browser"
	"github.com/nao1215/trustscan/internal/model"
)

// fakeScore records what the controller renders on the score display.
type fakeScore struct {
	mu   sync.Mutex
	text string
	tone model.Tone
}

func (f *fakeScore) SetText(text string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.text = text
}

func (f *fakeScore) SetTone(tone model.Tone) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tone = tone
}

func (f *fakeScore) snapshot() (string, model.Tone) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.text, f.tone
}

// fakeAlerts records the findings list.
type fakeAlerts struct {
	mu      sync.Mutex
	entries []model.Entry
}

func (f *fakeAlerts) SetEntries(entries []model.Entry) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries = entries
}

func (f *fakeAlerts) lines() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	lines := make([]string, 0, len(f.entries))
	for _, e := range f.entries {
		lines = append(lines, e.String())
	}
	return lines
}

// fakeTrigger stores the registered handler.
type fakeTrigger struct {
	handler func(ctx context.Context)
}

func (f *fakeTrigger) OnActivate(handler func(ctx context.Context)) {
	f.handler = handler
}

// fakeHost serves a fixed tab and page.
type fakeHost struct {
	tab        browser.Tab
	page       *browser.Page
	tabErr     error
	tabCalls   atomic.Int32
	extracts   atomic.Int32
	extractErr error
}

func (h *fakeHost) ActiveTab(_ context.Context) (browser.Tab, error) {
	h.tabCalls.Add(1)
	return h.tab, h.tabErr
}

func (h *fakeHost) Extract(_ context.Context, _ browser.Tab) (*browser.Page, error) {
	h.extracts.Add(1)
	if h.extractErr != nil {
		return nil, h.extractErr
	}
	return h.page, nil
}

// discardLogger returns a logger that drops all output.
func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newExampleHost returns a host whose active tab is https://example.com.
func newExampleHost() *fakeHost {
	return &fakeHost{
		tab: browser.Tab{ID: "tab-1", URL: "https://example.com"},
		page: &browser.Page{
			Content: "<html><body><script>x</script><script>  </script></body></html>",
			Scripts: []model.Script{
				model.NewScript("x", ""),
				model.NewScript("  ", ""),
			},
		},
	}
}

// newBackendServer serves /health with healthStatus and /extension/scan with handler.
func newBackendServer(t *testing.T, healthStatus int, scan http.HandlerFunc) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc(backend.HealthPath, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(healthStatus)
	})
	mux.HandleFunc(backend.ScanPath, scan)
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

// jsonResult returns a handler answering with the given body.
func jsonResult(body string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body)) //nolint:errcheck // test server
	}
}

type testPopup struct {
	controller *Controller
	score      *fakeScore
	alerts     *fakeAlerts
	trigger    *fakeTrigger
}

// newTestPopup wires a controller to fakes and a client for baseURL.
func newTestPopup(t *testing.T, host browser.Host, baseURL string, opts ...Option) *testPopup {
	t.Helper()
	client, err := backend.NewClient(baseURL, 5*time.Second, backend.WithLogger(discardLogger()))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	p := &testPopup{score: &fakeScore{}, alerts: &fakeAlerts{}, trigger: &fakeTrigger{}}
	opts = append([]Option{WithLogger(discardLogger())}, opts...)
	p.controller, err = New(Surfaces{Score: p.score, Alerts: p.alerts, Trigger: p.trigger}, host, client, opts...)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return p
}

func assertLines(t *testing.T, got, expected []string) {
	t.Helper()
	if len(got) != len(expected) {
		t.Fatalf("entries = %q, expected %q", got, expected)
	}
	for i := range expected {
		if got[i] != expected[i] {
			t.Errorf("entry %d = %q, expected %q", i, got[i], expected[i])
		}
	}
}

// TestNew tests controller initialization.
func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("renders ready state and registers the handler", func(t *testing.T) {
		t.Parallel()
		p := newTestPopup(t, newExampleHost(), "http://localhost:8000")

		text, tone := p.score.snapshot()
		if text != "..." || tone != model.ToneNeutral {
			t.Errorf("score = (%q, %s), expected (\"...\", neutral)", text, tone)
		}
		assertLines(t, p.alerts.lines(), []string{"Ready to scan..."})
		if p.trigger.handler == nil {
			t.Error("expected handler to be registered")
		}
		if p.controller.State() != model.StateIdle {
			t.Errorf("state = %s, expected idle", p.controller.State())
		}
	})

	t.Run("missing elements are logged and returned", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		client, err := backend.NewClient("http://localhost:8000", 0)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		trigger := &fakeTrigger{}

		c, err := New(Surfaces{Trigger: trigger}, newExampleHost(), client, WithLogger(logger))
		if c != nil {
			t.Error("expected nil controller")
		}
		var missing *MissingElementsError
		if !errors.As(err, &missing) {
			t.Fatalf("expected *MissingElementsError, got %v", err)
		}
		if len(missing.IDs) != 2 || missing.IDs[0] != ScoreElementID || missing.IDs[1] != AlertsElementID {
			t.Errorf("IDs = %v", missing.IDs)
		}
		if got := strings.Count(buf.String(), "could not find required element"); got != 2 {
			t.Errorf("logged %d missing-element errors, expected 2", got)
		}
		if trigger.handler != nil {
			t.Error("handler must not be registered")
		}
	})
}

// TestScanSuccess tests the full scan chain against a healthy backend.
func TestScanSuccess(t *testing.T) {
	t.Parallel()

	var submitted model.ScanRequest
	server := newBackendServer(t, http.StatusOK, func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&submitted); err != nil {
			t.Errorf("failed to decode request: %v", err)
		}
		jsonResult(`{"trustScore":92,"alerts":[]}`)(w, r)
	})
	host := newExampleHost()
	p := newTestPopup(t, host, server.URL)

	report := p.controller.Scan(context.Background())

	text, tone := p.score.snapshot()
	if text != "92" || tone != model.ToneGreen {
		t.Errorf("score = (%q, %s), expected (\"92\", green)", text, tone)
	}
	assertLines(t, p.alerts.lines(), []string{"✅ No threats detected"})

	if submitted.URL != "https://example.com" {
		t.Errorf("submitted URL = %q", submitted.URL)
	}
	if len(submitted.Scripts) != 1 || submitted.Scripts[0].Content != "x" || submitted.Scripts[0].Src != model.InlineSource {
		t.Errorf("submitted scripts = %+v", submitted.Scripts)
	}
	if report == nil || report.Failed() || report.TrustScore != 92 {
		t.Errorf("unexpected report %+v", report)
	}
	if p.controller.State() != model.StateSuccess {
		t.Errorf("state = %s, expected success", p.controller.State())
	}
	if p.controller.LastReport() != report {
		t.Error("LastReport should return the latest report")
	}
}

// TestScanFloatScores tests that scores encoded as JSON floats render as
// whole numbers in the band of the raw value.
func TestScanFloatScores(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		body     string
		wantText string
		wantTone model.Tone
	}{
		{`{"trustScore":85.0,"alerts":[]}`, "85", model.ToneGreen},
		{`{"trustScore":72.5,"alerts":[]}`, "72", model.ToneAmber},
		{`{"trustScore":59.9}`, "59", model.ToneRed},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.body, func(t *testing.T) {
			t.Parallel()
			server := newBackendServer(t, http.StatusOK, jsonResult(tc.body))
			p := newTestPopup(t, newExampleHost(), server.URL)

			report := p.controller.Scan(context.Background())

			if report.Failed() {
				t.Fatalf("unexpected failure %+v", report.Error)
			}
			text, tone := p.score.snapshot()
			if text != tc.wantText || tone != tc.wantTone {
				t.Errorf("score = (%q, %s), expected (%q, %s)", text, tone, tc.wantText, tc.wantTone)
			}
		})
	}
}

// TestScanAlerts tests icon and tone rendering of alerts.
func TestScanAlerts(t *testing.T) {
	t.Parallel()

	server := newBackendServer(t, http.StatusOK,
		jsonResult(`{"trustScore":65,"alerts":["Critical: phishing form","Low risk tracker","Unusual redirect"]}`))
	p := newTestPopup(t, newExampleHost(), server.URL)

	p.controller.Scan(context.Background())

	text, tone := p.score.snapshot()
	if text != "65" || tone != model.ToneAmber {
		t.Errorf("score = (%q, %s), expected (\"65\", amber)", text, tone)
	}
	assertLines(t, p.alerts.lines(), []string{
		"🚨 Critical: phishing form",
		"ℹ️ Low risk tracker",
		"⚠️ Unusual redirect",
	})
}

// TestScanMissingScore tests that an absent trustScore renders as 0.
func TestScanMissingScore(t *testing.T) {
	t.Parallel()

	server := newBackendServer(t, http.StatusOK, jsonResult(`{}`))
	p := newTestPopup(t, newExampleHost(), server.URL)

	p.controller.Scan(context.Background())

	text, tone := p.score.snapshot()
	if text != "0" || tone != model.ToneRed {
		t.Errorf("score = (%q, %s), expected (\"0\", red)", text, tone)
	}
	assertLines(t, p.alerts.lines(), []string{"✅ No threats detected"})
}

// TestScanErrors tests error rendering per failure kind.
func TestScanErrors(t *testing.T) {
	t.Parallel()

	t.Run("unhealthy backend aborts before the host query", func(t *testing.T) {
		t.Parallel()
		var scans atomic.Int32
		server := newBackendServer(t, http.StatusServiceUnavailable, func(w http.ResponseWriter, _ *http.Request) {
			scans.Add(1)
			w.WriteHeader(http.StatusOK)
		})
		host := newExampleHost()
		p := newTestPopup(t, host, server.URL)

		report := p.controller.Scan(context.Background())

		if text, tone := p.score.snapshot(); text != "Error" || tone != model.ToneRed {
			t.Errorf("score = (%q, %s), expected (\"Error\", red)", text, tone)
		}
		assertLines(t, p.alerts.lines(), []string{"🔴 " + msgBackendUnavailable})
		if host.tabCalls.Load() != 0 || scans.Load() != 0 {
			t.Error("scan must stop after a failed probe")
		}
		if report.Error == nil || report.Error.Kind != "backend_unavailable" {
			t.Errorf("unexpected report error %+v", report.Error)
		}
	})

	t.Run("unreachable backend aborts before the host query", func(t *testing.T) {
		t.Parallel()
		server := newBackendServer(t, http.StatusOK, jsonResult(`{"trustScore":50}`))
		baseURL := server.URL
		server.Close()
		host := newExampleHost()
		p := newTestPopup(t, host, baseURL)

		report := p.controller.Scan(context.Background())

		if text, tone := p.score.snapshot(); text != "Error" || tone != model.ToneRed {
			t.Errorf("score = (%q, %s), expected (\"Error\", red)", text, tone)
		}
		assertLines(t, p.alerts.lines(), []string{"🔴 " + msgBackendUnavailable})
		if host.tabCalls.Load() != 0 || host.extracts.Load() != 0 {
			t.Error("host must not be queried when the backend is unreachable")
		}
		if report.Error == nil || report.Error.Kind != "backend_unavailable" {
			t.Errorf("unexpected report error %+v", report.Error)
		}
	})

	t.Run("restricted page is not extracted", func(t *testing.T) {
		t.Parallel()
		server := newBackendServer(t, http.StatusOK, jsonResult(`{"trustScore":50}`))
		host := newExampleHost()
		host.tab.URL = "chrome://settings"
		p := newTestPopup(t, host, server.URL)

		p.controller.Scan(context.Background())

		assertLines(t, p.alerts.lines(), []string{
			"ℹ️ " + msgUnscannableTarget,
			"🔍 Try scanning a regular website instead",
		})
		if host.extracts.Load() != 0 {
			t.Error("restricted page must not be extracted")
		}
	})

	t.Run("non-2xx scan response", func(t *testing.T) {
		t.Parallel()
		server := newBackendServer(t, http.StatusOK, func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		})
		p := newTestPopup(t, newExampleHost(), server.URL)

		report := p.controller.Scan(context.Background())

		assertLines(t, p.alerts.lines(), []string{"🔴 HTTP error! status: 500"})
		if report.Error == nil || report.Error.Status != http.StatusInternalServerError {
			t.Errorf("unexpected report error %+v", report.Error)
		}
		if p.controller.State() != model.StateError {
			t.Errorf("state = %s, expected error", p.controller.State())
		}
	})

	t.Run("transport failure shows hints", func(t *testing.T) {
		t.Parallel()
		server := newBackendServer(t, http.StatusOK, func(_ http.ResponseWriter, _ *http.Request) {
			panic(http.ErrAbortHandler)
		})
		p := newTestPopup(t, newExampleHost(), server.URL, WithStartHint("uvicorn main:app"))

		p.controller.Scan(context.Background())

		assertLines(t, p.alerts.lines(), []string{
			"🔴 Failed to fetch",
			"ℹ️ Make sure the backend server is running at " + server.URL,
			"ℹ️ Run 'uvicorn main:app' in the backend directory",
		})
	})

	t.Run("host failure", func(t *testing.T) {
		t.Parallel()
		server := newBackendServer(t, http.StatusOK, jsonResult(`{"trustScore":50}`))
		host := newExampleHost()
		host.tabErr = browser.ErrNoActiveTab
		p := newTestPopup(t, host, server.URL)

		report := p.controller.Scan(context.Background())

		assertLines(t, p.alerts.lines(), []string{"🔴 " + browser.ErrNoActiveTab.Error()})
		if report.Error == nil || report.Error.Kind != "unknown" {
			t.Errorf("unexpected report error %+v", report.Error)
		}
	})
}

// TestScanCancelled tests that a cancelled context renders an error without contacting the host.
func TestScanCancelled(t *testing.T) {
	t.Parallel()

	host := newExampleHost()
	p := newTestPopup(t, host, "http://localhost:8000")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report := p.controller.Scan(ctx)

	if !report.Failed() {
		t.Error("expected failed report")
	}
	if host.tabCalls.Load() != 0 {
		t.Error("host must not be queried after cancellation")
	}
}

// TestTriggerCoalescing tests that overlapping activations share one scan.
func TestTriggerCoalescing(t *testing.T) {
	t.Parallel()

	entered := make(chan struct{}, 4)
	release := make(chan struct{})
	var hits atomic.Int32
	server := newBackendServer(t, http.StatusOK, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		entered <- struct{}{}
		<-release
		jsonResult(`{"trustScore":77,"alerts":["High risk script"]}`)(w, r)
	})
	p := newTestPopup(t, newExampleHost(), server.URL)
	joined := make(chan struct{}, 2)
	p.controller.registered = func() { joined <- struct{}{} }

	reports := make([]*model.Report, 2)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		reports[0] = p.controller.Scan(context.Background())
	}()
	<-entered
	<-joined

	wg.Add(1)
	go func() {
		defer wg.Done()
		reports[1] = p.controller.Scan(context.Background())
	}()
	<-joined
	close(release)
	wg.Wait()

	if hits.Load() != 1 {
		t.Errorf("backend hit %d times, expected one shared scan", hits.Load())
	}
	for i, r := range reports {
		if r == nil || r.TrustScore != 77 {
			t.Errorf("report %d = %+v", i, r)
		}
	}
	assertLines(t, p.alerts.lines(), []string{"⛔ High risk script"})
}

// TestClassifySubmitError tests error kind tagging of backend failures.
func TestClassifySubmitError(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		err      error
		expected ErrorKind
	}{
		{"status", &backend.StatusError{Code: 404}, KindRemoteRequestFailed},
		{"transport", errors.Join(backend.ErrTransport, errors.New("dial tcp")), KindTransportFailure},
		{"decode", backend.ErrDecode, KindUnknown},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := classifySubmitError(tc.err).Kind; got != tc.expected {
				t.Errorf("kind = %s, expected %s", got, tc.expected)
			}
		})
	}
}

// TestScanChainOrder tests that the scan steps run in the documented order.
func TestScanChainOrder(t *testing.T) {
	t.Parallel()

	p := newTestPopup(t, newExampleHost(), "http://localhost:8000")
	expected := []string{
		"probe-backend",
		"show-progress",
		"query-active-tab",
		"check-scheme",
		"extract-content",
		"submit",
	}
	assertLines(t, p.controller.chain.StepNames(), expected)
}
