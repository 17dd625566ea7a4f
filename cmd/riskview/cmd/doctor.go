package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/narrative-risk/riskview/internal/config"
	"github.com/narrative-risk/riskview/internal/core"
	"github.com/narrative-risk/riskview/internal/logging"
)

const doctorPingTimeout = 5 * time.Second

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check configuration and analyzer connectivity",
	Long: `Verify the configuration, check that the analyzer answers, and check
that the history and log locations are writable.`,
	Args: cobra.NoArgs,
	RunE: runDoctor,
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}

// check is one doctor line. Optional failures are reported but do not fail
// the command.
type check struct {
	name     string
	optional bool
	run      func(ctx context.Context) (string, error)
}

func runDoctor(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()
	logger := logging.NewNop()

	checks := []check{
		{name: "configuration", run: func(context.Context) (string, error) {
			source := "defaults"
			if f := viper.ConfigFileUsed(); f != "" {
				source = f
			}
			return source, config.ValidateConfig(cfg)
		}},
		{name: "analyzer", run: func(ctx context.Context) (string, error) {
			analyzer, err := newAnalyzer(logger)
			if err != nil {
				return cfg.Analyzer.BaseURL, err
			}
			defer analyzer.Close()
			pingCtx, cancel := context.WithTimeout(ctx, doctorPingTimeout)
			defer cancel()
			return analyzer.BaseURL(), analyzer.Ping(pingCtx)
		}},
		{name: "history", optional: true, run: func(context.Context) (string, error) {
			if !cfg.History.Enabled {
				return "disabled", nil
			}
			store, err := openHistory()
			if err != nil {
				return cfg.History.Path, err
			}
			return store.Path(), store.Close()
		}},
		{name: "log file", optional: true, run: func(context.Context) (string, error) {
			return cfg.Log.File, checkWritableDir(filepath.Dir(cfg.Log.File))
		}},
	}

	fmt.Fprintln(out, "Checking riskview...")
	fmt.Fprintln(out)

	failed := 0
	for _, c := range checks {
		detail, err := c.run(cmd.Context())
		printCheck(out, c, detail, err)
		if err != nil && !c.optional {
			failed++
		}
	}
	fmt.Fprintln(out)

	if failed > 0 {
		return fmt.Errorf("%d required checks failed", failed)
	}
	fmt.Fprintln(out, "All required checks passed.")
	return nil
}

func printCheck(w io.Writer, c check, detail string, err error) {
	switch {
	case err == nil:
		fmt.Fprintf(w, "  ✓ %s: %s\n", c.name, detail)
	case c.optional:
		fmt.Fprintf(w, "  ○ %s: %s (%s)\n", c.name, detail, core.UserMessage(err))
	default:
		fmt.Fprintf(w, "  ✗ %s: %s (%s)\n", c.name, detail, core.UserMessage(err))
	}
}

func checkWritableDir(dir string) error {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return err
	}
	f, err := os.CreateTemp(dir, ".riskview-doctor-*")
	if err != nil {
		return err
	}
	name := f.Name()
	_ = f.Close()
	return os.Remove(name)
}
