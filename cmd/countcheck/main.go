package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"

	"github.com/alexanderjulianmartinez/countcheck/internal/config"
	"github.com/alexanderjulianmartinez/countcheck/internal/ctxlog"
	"github.com/alexanderjulianmartinez/countcheck/internal/drift"
	"github.com/alexanderjulianmartinez/countcheck/internal/logging"
	"github.com/alexanderjulianmartinez/countcheck/internal/publish"
	kafkapub "github.com/alexanderjulianmartinez/countcheck/internal/publish/kafka"
	"github.com/alexanderjulianmartinez/countcheck/internal/report"
	"github.com/alexanderjulianmartinez/countcheck/internal/source"
	"github.com/alexanderjulianmartinez/countcheck/internal/source/csvfile"
)

// ExitError carries the process exit code. An empty Message prints nothing.
type ExitError struct {
	Code    int
	Message string
}

func (e *ExitError) Error() string {
	return e.Message
}

// errMismatch signals a completed run with at least one FAIL row.
var errMismatch = &ExitError{Code: 1}

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			if exitErr.Message != "" {
				fmt.Fprintf(os.Stderr, "countcheck error: %s\n", exitErr.Message)
			}
			os.Exit(exitErr.Code)
		}
		fmt.Fprintf(os.Stderr, "countcheck error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	if len(args) < 1 {
		printUsage(stdout)
		return nil
	}

	switch args[0] {
	case "compare":
		return runCompare(args[1:], stdout, stderr)
	case "help", "--help", "-h":
		printUsage(stdout)
		return nil
	default:
		printUsage(stderr)
		return &ExitError{Code: 2, Message: fmt.Sprintf("unknown command: %s", args[0])}
	}
}

func runCompare(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("compare", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "Path to config.yaml")
	teradataPath := fs.String("teradata", config.DefaultTeradataPath, "Teradata counts CSV")
	databricksPath := fs.String("databricks", config.DefaultDatabricksPath, "Databricks counts CSV")
	threshold := fs.Float64("threshold", config.DefaultThreshold, "Maximum absolute diff percentage that still passes (exclusive)")
	format := fs.String("format", "text", "Report format: text or json")
	noColor := fs.Bool("no-color", false, "Disable coloured output")
	logLevel := fs.String("log-level", "info", "Log level: debug, info, warn or error")
	logFormat := fs.String("log-format", "text", "Log format: text or json")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return &ExitError{Code: 2, Message: err.Error()}
	}

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.LoadConfig(*configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}

	// explicit flags win over the config file
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "teradata":
			cfg.Teradata.Path = *teradataPath
		case "databricks":
			cfg.Databricks.Path = *databricksPath
		case "threshold":
			cfg.Threshold = *threshold
		case "format":
			cfg.Output.Format = *format
		case "no-color":
			cfg.Output.NoColor = *noColor
		case "log-level":
			cfg.Log.Level = *logLevel
		case "log-format":
			cfg.Log.Format = *logFormat
		}
	})
	if err := cfg.Validate(); err != nil {
		return &ExitError{Code: 2, Message: err.Error()}
	}

	logger := logging.New(cfg.Log.Level, cfg.Log.Format, stderr)
	ctx := ctxlog.WithLogger(context.Background(), logger)

	rep, err := compare(ctx, csvfile.New("teradata", cfg.Teradata.Path), csvfile.New("databricks", cfg.Databricks.Path), cfg.Threshold)
	if err != nil {
		return err
	}

	useColor := !cfg.Output.NoColor && !color.NoColor && stdout == os.Stdout
	if err := report.Render(stdout, rep, report.Options{Format: cfg.Output.Format, Color: useColor}); err != nil {
		return fmt.Errorf("render report: %w", err)
	}

	if cfg.Publish.Kafka.Enabled() {
		if err := publishReport(ctx, kafkapub.New(cfg.Publish.Kafka), rep); err != nil {
			return err
		}
	}

	if !rep.Passed() {
		return errMismatch
	}
	return nil
}

func compare(ctx context.Context, teradata, databricks source.Inspector, threshold float64) (*drift.Report, error) {
	td, err := teradata.Inspect(ctx)
	if err != nil {
		return nil, err
	}
	dbx, err := databricks.Inspect(ctx)
	if err != nil {
		return nil, err
	}

	rep := drift.Validate(td, dbx, threshold)
	logger := ctxlog.FromContext(ctx)
	for _, name := range rep.Unmatched {
		logger.Debug("Table missing from one side, excluded from comparison.", "table", name)
	}
	logger.Debug("Comparison complete.", "rows", len(rep.Rows), "failures", len(rep.Failures))
	return rep, nil
}

func publishReport(ctx context.Context, p publish.Publisher, rep *drift.Report) error {
	defer p.Close()
	if err := p.Publish(ctx, rep); err != nil {
		ctxlog.FromContext(ctx).Error("Publishing failed.", "publisher", p.Name(), "error", err)
		return err
	}
	return nil
}

func printUsage(w io.Writer) {
	fmt.Fprint(w, `CountCheck - migration record count comparison

Usage:
  countcheck compare [--config <path>] [--teradata <csv>] [--databricks <csv>]
                     [--threshold <pct>] [--format text|json] [--no-color]
                     [--log-level <level>] [--log-format text|json]

Commands:
  compare   Compare per-table record counts between Teradata and Databricks
  help      Show this help message

Exit status is 0 when every table passes and 1 on any mismatch or error.
`)
}
