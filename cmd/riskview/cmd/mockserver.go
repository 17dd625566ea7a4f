package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/narrative-risk/riskview/internal/mockserver"
)

var mockServerCmd = &cobra.Command{
	Use:   "mock-server",
	Short: "Run a local demo analyzer",
	Long: `Run a local analyzer that answers POST /analyze with deterministic
heuristic reports. It never fetches the submitted URL; the words in the URL
path stand in for the page text. Hosts ending in .invalid simulate a page
that cannot be extracted.

Examples:
  riskview mock-server
  riskview mock-server --addr 127.0.0.1:9000 --latency 0 --metrics`,
	Args: cobra.NoArgs,
	RunE: runMockServer,
}

func init() {
	rootCmd.AddCommand(mockServerCmd)

	mockServerCmd.Flags().String("addr", "", "listen address (default: mock.addr)")
	mockServerCmd.Flags().Duration("latency", 0, "simulated analysis latency (default: mock.latency)")
	mockServerCmd.Flags().Bool("metrics", false, "serve Prometheus metrics on /metrics (default: mock.metrics)")
}

func runMockServer(cmd *cobra.Command, _ []string) error {
	if err := validateConfig(); err != nil {
		return err
	}
	flags := cmd.Flags()
	opts := cfg.Mock
	if flags.Changed("addr") {
		opts.Addr, _ = flags.GetString("addr")
	}
	if flags.Changed("latency") {
		opts.Latency, _ = flags.GetDuration("latency")
	}
	if flags.Changed("metrics") {
		opts.Metrics, _ = flags.GetBool("metrics")
	}
	if opts.Latency < 0 {
		return fmt.Errorf("--latency must not be negative")
	}

	logger := newLogger(cmd.ErrOrStderr())
	srv := mockserver.New(mockserver.Options{
		Latency: opts.Latency,
		Metrics: opts.Metrics,
		Logger:  logger,
	})
	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "Mock analyzer on http://%s (Ctrl+C to stop)\n", opts.Addr)
	}
	return srv.ListenAndServe(cmd.Context(), opts.Addr)
}
