package cmd

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/narrative-risk/riskview/internal/client"
	"github.com/narrative-risk/riskview/internal/config"
	"github.com/narrative-risk/riskview/internal/history"
	"github.com/narrative-risk/riskview/internal/logging"
	"github.com/narrative-risk/riskview/internal/report"
	"github.com/narrative-risk/riskview/internal/tui"
)

// newLogger creates a logger writing to w. --quiet keeps only errors.
func newLogger(w io.Writer) *logging.Logger {
	level := cfg.Log.Level
	if quiet {
		level = "error"
	}
	return logging.New(logging.Config{
		Level:   level,
		Format:  cfg.Log.Format,
		Output:  w,
		NoColor: cfg.UI.NoColor,
	})
}

// newFileLogger logs to the configured log file. The full-screen UI owns the
// terminal, so nothing may be written to stderr while it runs.
func newFileLogger() (*logging.Logger, func(), error) {
	f, err := logging.OpenFile(cfg.Log.File)
	if err != nil {
		return nil, nil, fmt.Errorf("opening log file: %w", err)
	}
	format := cfg.Log.Format
	if format == "" || format == "auto" {
		format = "json"
	}
	logger := logging.New(logging.Config{Level: cfg.Log.Level, Format: format, Output: f})
	return logger, func() { _ = f.Close() }, nil
}

func validateConfig() error {
	if err := config.ValidateConfig(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

func newAnalyzer(logger *logging.Logger) (*client.Client, error) {
	ua := cfg.Analyzer.UserAgent
	if appVersion != "" && !strings.Contains(ua, "/") {
		ua += "/" + appVersion
	}
	return client.New(client.Config{
		BaseURL:   cfg.Analyzer.BaseURL,
		Timeout:   cfg.Analyzer.Timeout,
		UserAgent: ua,
		Logger:    logger,
	})
}

// openHistory opens the history store, or returns nil when history is disabled.
func openHistory() (*history.Store, error) {
	if !cfg.History.Enabled {
		return nil, nil
	}
	return history.Open(cfg.History.Path, history.WithLimit(cfg.History.Limit))
}

// recorderFor hides a nil store behind a nil interface.
func recorderFor(store *history.Store) tui.Recorder {
	if store == nil {
		return nil
	}
	return store
}

func useColor(w io.Writer) bool {
	return tui.NewDetector().ForWriter(w).NoColor(cfg.UI.NoColor).ShouldUseColor()
}

// textOptions styles plain report output for w.
func textOptions(w io.Writer) report.Options {
	opts := report.Options{ExpandAll: true}
	if !useColor(w) {
		return opts
	}
	opts.Styles = tui.NewTheme(cfg.UI.Theme, false).ReportStyles()
	width, _ := tui.TerminalSize()
	style := cfg.UI.GlamourStyle
	if style == "" || style == "auto" {
		style = cfg.UI.Theme
	}
	if md, err := report.NewMarkdownRenderer(style, width); err == nil {
		opts.Markdown = md
	}
	return opts
}

// outputFormat resolves --format, falling back to ui.output. Interactive and
// automatic modes print plain text.
func outputFormat(flag string) (report.Format, error) {
	if flag != "" {
		return report.ParseFormat(flag)
	}
	switch strings.ToLower(cfg.UI.Output) {
	case "", "auto", "tui":
		return report.FormatPlain, nil
	default:
		return report.ParseFormat(cfg.UI.Output)
	}
}

// formatForPath picks the export encoding from a file extension.
func formatForPath(path string) report.Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return report.FormatYAML
	default:
		return report.FormatJSON
	}
}
