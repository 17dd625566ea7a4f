package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/narrative-risk/riskview/internal/core"
	"github.com/narrative-risk/riskview/internal/fsutil"
	"github.com/narrative-risk/riskview/internal/history"
	"github.com/narrative-risk/riskview/internal/logging"
	"github.com/narrative-risk/riskview/internal/report"
	"github.com/narrative-risk/riskview/internal/session"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <input>...",
	Short: "Analyze URLs or topics and print the reports",
	Long: `Analyze one or more URLs or free-text topics and print each report.

Inputs are analyzed concurrently, each in its own session. The command exits
with an error when any analysis failed.

Examples:
  riskview analyze "https://example.com/story"
  riskview analyze --format json "vaccines cause autism" > report.json
  riskview analyze --save report.yaml "https://example.com/story"
  riskview analyze --concurrency 2 url1 url2 url3`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAnalyze,
}

var (
	analyzeFormat      string
	analyzeSave        string
	analyzeConcurrency int
)

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().StringVarP(&analyzeFormat, "format", "f", "",
		"output format: plain, json or yaml (default: ui.output, plain when auto)")
	analyzeCmd.Flags().StringVar(&analyzeSave, "save", "",
		"also write the report to this file (.json, .yaml); single input only")
	analyzeCmd.Flags().IntVarP(&analyzeConcurrency, "concurrency", "c", 0,
		"maximum analyses in flight (default: analyze.concurrency)")
}

// outcome is the final session state of one input.
type outcome struct {
	input  string
	report *core.AnalysisReport
	err    string
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	if err := validateConfig(); err != nil {
		return err
	}
	if analyzeSave != "" && len(args) > 1 {
		return core.ErrValidation("SAVE_MULTIPLE", "--save takes a single input")
	}
	format, err := outputFormat(analyzeFormat)
	if err != nil {
		return err
	}

	logger := newLogger(cmd.ErrOrStderr())
	analyzer, err := newAnalyzer(logger)
	if err != nil {
		return err
	}
	defer analyzer.Close()

	limit := analyzeConcurrency
	if limit <= 0 {
		limit = cfg.Analyze.Concurrency
	}

	outcomes := analyzeAll(cmd.Context(), analyzer, args, limit, logger)

	store, err := openHistory()
	if err != nil {
		logger.Warn("history disabled", "error", err)
	}
	if store != nil {
		defer store.Close()
		recordAll(cmd.Context(), store, outcomes, logger)
	}

	failed := 0
	for _, o := range outcomes {
		if o.report == nil {
			failed++
			fmt.Fprintf(cmd.ErrOrStderr(), "error: %s: %s\n", o.input, o.err)
		}
	}

	if err := printOutcomes(cmd.OutOrStdout(), outcomes, format); err != nil {
		return err
	}

	if analyzeSave != "" && outcomes[0].report != nil {
		data, err := report.Encode(outcomes[0].report, formatForPath(analyzeSave))
		if err != nil {
			return err
		}
		if err := fsutil.WriteFileAtomic(analyzeSave, data, 0o644); err != nil {
			return fmt.Errorf("saving report: %w", err)
		}
		if !quiet {
			fmt.Fprintf(cmd.ErrOrStderr(), "report saved to %s\n", analyzeSave)
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d analyses failed", failed, len(outcomes))
	}
	return nil
}

// analyzeAll runs every input through its own session, at most limit at a
// time, and returns the outcomes in input order.
func analyzeAll(ctx context.Context, a session.Analyzer, inputs []string, limit int, logger *logging.Logger) []outcome {
	outcomes := make([]outcome, len(inputs))

	var g errgroup.Group
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i, input := range inputs {
		g.Go(func() error {
			s := session.New(session.WithLogger(logger))
			state, ok := s.Analyze(ctx, a, input)
			o := outcome{input: input}
			switch st := state.(type) {
			case session.Succeeded:
				o.input = st.Input
				o.report = st.Report
			case session.Failed:
				o.err = st.Message
			default:
				if !ok {
					o.err = "input is empty"
				}
			}
			outcomes[i] = o
			return nil
		})
	}
	_ = g.Wait()
	return outcomes
}

func recordAll(ctx context.Context, store *history.Store, outcomes []outcome, logger *logging.Logger) {
	for _, o := range outcomes {
		if o.report == nil {
			continue
		}
		if err := store.Record(ctx, o.input, o.report); err != nil {
			logger.Warn("history not saved", "input", logger.Sanitize(o.input), "error", err)
		}
	}
}

func printOutcomes(w io.Writer, outcomes []outcome, format report.Format) error {
	var reports []*core.AnalysisReport
	for _, o := range outcomes {
		if o.report != nil {
			reports = append(reports, o.report)
		}
	}
	if len(reports) == 0 {
		return nil
	}

	switch {
	case format == report.FormatPlain:
		opts := textOptions(w)
		for i, o := range outcomes {
			if o.report == nil {
				continue
			}
			if len(outcomes) > 1 {
				if i > 0 {
					fmt.Fprintln(w)
				}
				fmt.Fprintf(w, "== %s ==\n", o.input)
			}
			if err := report.Write(w, o.report, format, opts); err != nil {
				return err
			}
		}
		return nil
	case len(outcomes) == 1:
		return report.Write(w, reports[0], format, report.Options{})
	case format == report.FormatJSON:
		out, err := json.MarshalIndent(reports, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding reports: %w", err)
		}
		_, err = fmt.Fprintf(w, "%s\n", out)
		return err
	default:
		enc := yaml.NewEncoder(w)
		defer enc.Close()
		for _, r := range reports {
			doc, err := r.Document()
			if err != nil {
				return fmt.Errorf("encoding report: %w", err)
			}
			if err := enc.Encode(doc); err != nil {
				return fmt.Errorf("encoding report as yaml: %w", err)
			}
		}
		return nil
	}
}
