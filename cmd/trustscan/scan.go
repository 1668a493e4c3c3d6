package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nao1215/trustscan/internal/backend"
	"github.com/nao1215/trustscan/internal/browser"
	"github.com/nao1215/trustscan/internal/config"
	seclog "github.com/nao1215/trustscan/internal/log"
	"github.com/nao1215/trustscan/internal/model"
	"github.com/nao1215/trustscan/internal/popup"
	"github.com/nao1215/trustscan/internal/report"
	"github.com/nao1215/trustscan/internal/terminal"
)

// Log formats accepted by --log-format.
const (
	logFormatText = "text"
	logFormatJSON = "json"
)

// errScanFailed is returned after a failed scan has been rendered,
// so that the process exits with status 1.
var errScanFailed = errors.New("scan failed")

// errUnknownLogFormat is returned for an unsupported --log-format value.
var errUnknownLogFormat = errors.New("unknown log format: use text or json")

// NewScanCmd creates the scan command.
func NewScanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Scan the browser's active tab",
		Long: `Scan sends the page open in the browser's active tab to the analysis
service and shows the trust score and alerts it returns.

Browser-internal pages (chrome://, chrome-extension://) are never scanned.

Examples:
  # Scan the active tab once
  trustscan scan

  # Keep the popup open and scan on every Enter key press
  trustscan scan -i

  # Use another analysis service
  trustscan scan -b http://127.0.0.1:5000

  # Scan a saved page without a browser and print a JSON report
  trustscan scan --file page.html --url https://example.com -j

  # Write a Markdown report to a file
  trustscan scan -m -o reports/scan.md`,
		Args: cobra.NoArgs,
		RunE: runScanCmd,
	}

	cmd.Flags().StringP("backend", "b", config.DefaultBackendURL,
		"Base URL of the analysis service")
	cmd.Flags().String("devtools", config.DefaultDevToolsURL,
		"DevTools endpoint of the browser (http or ws URL)")
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout,
		"Timeout of each request to the analysis service (0 for none)")
	cmd.Flags().String("start-hint", config.DefaultStartHint,
		"Backend start command shown when the service is unreachable")

	cmd.Flags().String("file", "",
		"Scan a saved HTML page instead of the browser's active tab")
	cmd.Flags().String("url", "",
		"Address of the page given with --file")

	cmd.Flags().BoolP("interactive", "i", false,
		"Keep running and scan on every Enter key press")

	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .trustscan in current or home directory)")
	cmd.Flags().String("env-file", config.DefaultEnvFile,
		"dotenv file with TRUSTSCAN_* variables")

	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report (mutually exclusive with --json)")
	cmd.Flags().StringP("output", "o", "",
		"Write report to specified file path (creates directories if needed)")
	cmd.Flags().String("log-file", "",
		"Write logs to a rotated file instead of stderr")

	return cmd
}

// runScanCmd executes the scan command.
func runScanCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logOut := cmd.ErrOrStderr()
	if cfg.LogFile != "" {
		fw, err := seclog.NewFileWriter(cfg.LogFile, seclog.Rotation{
			MaxSizeMB:  cfg.LogMaxSizeMB,
			MaxBackups: cfg.LogMaxBackups,
			MaxAgeDays: cfg.LogMaxAgeDays,
			Compress:   cfg.LogCompress,
		})
		if err != nil {
			return err
		}
		defer fw.Close()
		logOut = fw
	}

	logger, err := setupLogger(logOut, cfg.Verbose, getLogFormatFlag(cmd))
	if err != nil {
		return err
	}
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return runScan(ctx, cfg, streams{
		in:  cmd.InOrStdin(),
		out: cmd.OutOrStdout(),
		err: cmd.ErrOrStderr(),
	}, logger)
}

// buildConfig layers defaults, the config file, the environment and the
// flags the user set explicitly.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.NewConfig()

	var err error
	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}
	cfg.EnvFile, err = cmd.Flags().GetString("env-file")
	if err != nil {
		return nil, err
	}

	if _, err := cfg.Load(); err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("backend") {
		if cfg.BackendURL, err = flags.GetString("backend"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("devtools") {
		if cfg.DevToolsURL, err = flags.GetString("devtools"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("timeout") {
		if cfg.Timeout, err = flags.GetDuration("timeout"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("start-hint") {
		if cfg.StartHint, err = flags.GetString("start-hint"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("log-file") {
		if cfg.LogFile, err = flags.GetString("log-file"); err != nil {
			return nil, err
		}
	}

	if cfg.PageFile, err = flags.GetString("file"); err != nil {
		return nil, err
	}
	if cfg.PageURL, err = flags.GetString("url"); err != nil {
		return nil, err
	}
	if cfg.Interactive, err = flags.GetBool("interactive"); err != nil {
		return nil, err
	}
	if cfg.JSONReport, err = flags.GetBool("json"); err != nil {
		return nil, err
	}
	if cfg.MarkdownReport, err = flags.GetBool("markdown"); err != nil {
		return nil, err
	}
	if cfg.ReportFile, err = flags.GetString("output"); err != nil {
		return nil, err
	}

	cfg.Verbose = getVerboseFlag(cmd)
	return cfg, nil
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// getLogFormatFlag retrieves the log format from the command or its parent.
func getLogFormatFlag(cmd *cobra.Command) string {
	format, err := cmd.Flags().GetString("log-format")
	if err != nil {
		format, err = cmd.Root().PersistentFlags().GetString("log-format")
		if err != nil {
			return logFormatText
		}
	}
	return format
}

// setupLogger creates the sanitizing logger for the requested format.
func setupLogger(w io.Writer, verbose bool, format string) (*slog.Logger, error) {
	switch format {
	case logFormatText, "":
		return seclog.NewSecureLogger(w, verbose), nil
	case logFormatJSON:
		return seclog.NewSecureJSONLogger(w, verbose), nil
	default:
		return nil, fmt.Errorf("%w: %q", errUnknownLogFormat, format)
	}
}

// streams are the standard streams of the command.
type streams struct {
	in  io.Reader
	out io.Writer
	err io.Writer
}

// trigger is a popup trigger the command can drive.
type trigger interface {
	popup.Trigger
	terminal.Runner
}

// runScan wires the popup to the terminal and runs it until the trigger is exhausted.
func runScan(ctx context.Context, cfg *config.Config, s streams, logger *slog.Logger) error {
	client, err := backend.NewClient(cfg.BackendURL, cfg.Timeout, backend.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("failed to create backend client: %w", err)
	}

	// The panel moves to stderr when stdout carries the report.
	panelOut := s.out
	if writesReportToStdout(cfg) {
		panelOut = s.err
	}
	screen := terminal.NewScreen(panelOut)

	var trig trigger = terminal.NewOnceTrigger()
	if cfg.Interactive {
		trig = terminal.NewKeyTrigger(s.in, panelOut)
	}

	controller, err := popup.New(
		popup.Surfaces{Score: screen.Score(), Alerts: screen.Alerts(), Trigger: trig},
		newHost(cfg, logger),
		client,
		popup.WithLogger(logger),
		popup.WithRestrictedSchemes(cfg.RestrictedSchemes),
		popup.WithStartHint(cfg.StartHint),
	)
	if err != nil {
		return err
	}

	logger.Info("starting popup",
		"backend", client.BaseURL(),
		"interactive", cfg.Interactive,
		"source", sourceName(cfg),
	)

	if err := trig.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	last := controller.LastReport()
	if last == nil {
		return nil
	}
	if err := outputReport(cfg, last, s.out); err != nil {
		return err
	}
	if last.Failed() {
		return errScanFailed
	}
	return nil
}

// newHost returns the saved page host or the Chrome host.
func newHost(cfg *config.Config, logger *slog.Logger) browser.Host {
	if !cfg.UsesBrowser() {
		return browser.NewFileHost(cfg.PageFile, cfg.PageURL)
	}
	return browser.NewChromeHost(cfg.DevToolsURL, browser.WithChromeLogger(logger))
}

// sourceName describes where the active tab comes from, for logs.
func sourceName(cfg *config.Config) string {
	if cfg.UsesBrowser() {
		return cfg.DevToolsURL
	}
	return cfg.PageFile
}

// writesReportToStdout reports whether a JSON or Markdown report goes to stdout.
func writesReportToStdout(cfg *config.Config) bool {
	return cfg.ReportFile == "" && (cfg.JSONReport || cfg.MarkdownReport)
}

// outputReport writes the report in the requested format. Nothing is written
// when neither a format nor a report file was requested.
func outputReport(cfg *config.Config, scanReport *model.Report, stdout io.Writer) error {
	if cfg.ReportFile == "" && !cfg.JSONReport && !cfg.MarkdownReport {
		return nil
	}

	output := stdout
	if cfg.ReportFile != "" {
		dir := filepath.Dir(cfg.ReportFile)
		if dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
		}

		f, err := os.OpenFile(cfg.ReportFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		output = f
	}

	var writer report.Writer
	switch {
	case cfg.JSONReport:
		writer = report.NewJSONWriter(output, report.WithPrettyPrint(), report.WithVersion(getVersion()))
	case cfg.MarkdownReport:
		writer = report.NewMarkdownWriter(output)
	default:
		writer = report.NewTextWriter(output)
	}

	if _, err := writer.Write(scanReport); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}
