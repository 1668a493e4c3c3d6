package config

import (
	"net/url"
	"path/filepath"
	"slices"
	"time"

	"github.com/adrg/xdg"

	"github.com/nao1215/trustscan/internal/browser"
	"github.com/nao1215/trustscan/internal/popup"
)

// Default configuration values.
const (
	// DefaultBackendURL is the address of a locally started analysis service.
	DefaultBackendURL = "http://localhost:8000"

	// DefaultDevToolsURL is the DevTools endpoint of a browser started with
	// --remote-debugging-port=9222.
	DefaultDevToolsURL = "http://127.0.0.1:9222"

	// DefaultTimeout of zero leaves backend requests unbounded.
	// Cancellation through Ctrl-C still applies.
	DefaultTimeout time.Duration = 0

	// DefaultStartHint is the command suggested when the backend cannot be reached.
	DefaultStartHint = popup.DefaultStartHint

	// DefaultLogMaxSizeMB is the size at which the log file is rotated.
	DefaultLogMaxSizeMB = 10

	// DefaultLogMaxBackups is the number of rotated log files kept.
	DefaultLogMaxBackups = 3

	// DefaultLogMaxAgeDays is the number of days rotated log files are kept.
	DefaultLogMaxAgeDays = 28

	// AppName is the application name used for XDG directory paths.
	AppName = "trustscan"
)

// Config holds all configuration options for trustscan.
// It is populated from defaults, the config file, the environment and CLI
// flags, and passed to the components that need it.
type Config struct {
	// BackendURL is the base address of the analysis service.
	BackendURL string

	// DevToolsURL is the DevTools endpoint of the browser whose active tab is scanned.
	DevToolsURL string

	// Timeout bounds each backend request. Zero means no timeout.
	Timeout time.Duration

	// StartHint is the backend start command shown when the backend is unreachable.
	StartHint string

	// RestrictedSchemes are address prefixes that are never scanned.
	RestrictedSchemes []string

	// PageFile is a saved HTML page scanned instead of the browser's active tab.
	PageFile string

	// PageURL is the address reported for PageFile. Required with PageFile.
	PageURL string

	// Interactive keeps the popup open and scans on every Enter key press.
	Interactive bool

	// Verbose enables detailed log output using slog.LevelDebug.
	Verbose bool

	// JSONReport writes the result of the scan as JSON.
	// Mutually exclusive with MarkdownReport.
	JSONReport bool

	// MarkdownReport writes the result of the scan as Markdown.
	// Mutually exclusive with JSONReport.
	MarkdownReport bool

	// ReportFile is the output file path for the report.
	// When empty, JSON and Markdown reports go to stdout.
	ReportFile string

	// ConfigFilePath is the path to the configuration file.
	// If empty, FindConfigFile searches the default locations.
	ConfigFilePath string

	// EnvFile is the dotenv file loaded before reading the environment.
	EnvFile string

	// LogFile is a file receiving the logs instead of stderr. Empty means stderr.
	LogFile string

	// LogMaxSizeMB, LogMaxBackups and LogMaxAgeDays bound the rotation of LogFile.
	LogMaxSizeMB  int
	LogMaxBackups int
	LogMaxAgeDays int

	// LogCompress gzips rotated log files.
	LogCompress bool
}

// NewConfig creates a new Config with default values.
func NewConfig() *Config {
	return &Config{
		BackendURL:        DefaultBackendURL,
		DevToolsURL:       DefaultDevToolsURL,
		Timeout:           DefaultTimeout,
		StartHint:         DefaultStartHint,
		RestrictedSchemes: append([]string(nil), browser.DefaultRestrictedSchemes...),
		EnvFile:           DefaultEnvFile,
		LogMaxSizeMB:      DefaultLogMaxSizeMB,
		LogMaxBackups:     DefaultLogMaxBackups,
		LogMaxAgeDays:     DefaultLogMaxAgeDays,
	}
}

// XDGConfigDir returns the XDG config directory for trustscan.
// On Linux: ~/.config/trustscan
// On macOS: ~/Library/Application Support/trustscan
// On Windows: %APPDATA%\trustscan
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// UsesBrowser reports whether the active tab comes from a running browser
// rather than a saved page.
func (c *Config) UsesBrowser() bool {
	return c.PageFile == ""
}

// Validate checks if the configuration is valid.
// It returns the first problem found as one of the package's sentinel errors.
func (c *Config) Validate() error {
	if !hasScheme(c.BackendURL, "http", "https") {
		return ErrInvalidBackendURL
	}

	if c.UsesBrowser() && !hasScheme(c.DevToolsURL, "http", "https", "ws", "wss") {
		return ErrInvalidDevToolsURL
	}

	if c.Timeout < 0 {
		return ErrInvalidTimeout
	}

	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}

	if c.PageFile != "" && c.PageURL == "" {
		return ErrMissingPageURL
	}

	if c.PageFile == "" && c.PageURL != "" {
		return ErrPageURLWithoutFile
	}

	if c.LogMaxSizeMB <= 0 || c.LogMaxBackups < 0 || c.LogMaxAgeDays < 0 {
		return ErrInvalidLogRotation
	}

	return nil
}

// hasScheme reports whether raw is an absolute URL with a host and one of
// the given schemes.
func hasScheme(raw string, schemes ...string) bool {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return false
	}
	return slices.Contains(schemes, u.Scheme)
}
