package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/narrative-risk/riskview/internal/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui [input]",
	Short: "Start the interactive analysis session",
	Long: `Start the interactive analysis session.

Type a URL or a claim and press enter. While an analysis runs, esc abandons
it; a result arriving afterwards is ignored. When stdout is not a terminal,
each line read from stdin is analyzed and its report printed instead.

Examples:
  riskview tui
  riskview tui "https://example.com/story"
  echo "the bridge collapsed" | riskview tui`,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, args []string) error {
	if err := validateConfig(); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	mode, err := tui.ResolveOutputMode(cfg.UI.Output, tui.NewDetector().ForWriter(out))
	if err != nil {
		return err
	}
	initial := strings.TrimSpace(strings.Join(args, " "))

	if mode != tui.ModeTUI {
		return runLineMode(cmd, initial)
	}

	logger, closeLog, err := newFileLogger()
	if err != nil {
		return err
	}
	defer closeLog()

	analyzer, err := newAnalyzer(logger)
	if err != nil {
		return err
	}
	defer analyzer.Close()

	store, err := openHistory()
	if err != nil {
		logger.Warn("history disabled", "error", err)
	}
	if store != nil {
		defer store.Close()
	}

	logger.Info("starting interactive session", "analyzer", analyzer.BaseURL(), "version", appVersion)
	return tui.Run(tui.Options{
		Context:      cmd.Context(),
		Analyzer:     analyzer,
		Logger:       logger,
		Theme:        cfg.UI.Theme,
		NoColor:      cfg.UI.NoColor,
		GlamourStyle: cfg.UI.GlamourStyle,
		Recorder:     recorderFor(store),
		InitialInput: initial,
	})
}

func runLineMode(cmd *cobra.Command, initial string) error {
	logger := newLogger(cmd.ErrOrStderr())
	analyzer, err := newAnalyzer(logger)
	if err != nil {
		return err
	}
	defer analyzer.Close()

	store, err := openHistory()
	if err != nil {
		logger.Warn("history disabled", "error", err)
	}
	if store != nil {
		defer store.Close()
	}

	in := cmd.InOrStdin()
	if initial != "" {
		in = io.MultiReader(strings.NewReader(initial+"\n"), in)
	}

	out := cmd.OutOrStdout()
	lines := tui.NewLineMode(analyzer, out).
		WithStyles(textOptions(out).Styles).
		WithRecorder(recorderFor(store)).
		WithLogger(logger)

	failures, err := lines.Run(cmd.Context(), in)
	if err != nil {
		return err
	}
	if failures > 0 {
		return fmt.Errorf("%d analyses failed", failures)
	}
	return nil
}
