package cmd

import (
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"github.com/narrative-risk/riskview/internal/core"
	"github.com/narrative-risk/riskview/internal/history"
	"github.com/narrative-risk/riskview/internal/report"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List and inspect past analyses",
	Long: `List, show and clear the locally stored analysis history.

Every successful analysis is recorded unless history.enabled is false.`,
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent analyses, newest first",
	Args:  cobra.NoArgs,
	RunE:  runHistoryList,
}

var historyShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Render a stored report",
	Long: `Render a stored report. Any unique prefix of the ID is accepted.

Examples:
  riskview history show 01J9Z4
  riskview history show --format json 01J9Z4QX8M > report.json`,
	Args: cobra.ExactArgs(1),
	RunE: runHistoryShow,
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every stored analysis",
	Args:  cobra.NoArgs,
	RunE:  runHistoryClear,
}

var (
	historyLimit  int
	historyFormat string
	historyYes    bool
)

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.AddCommand(historyListCmd, historyShowCmd, historyClearCmd)

	historyListCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "maximum entries to list")
	historyShowCmd.Flags().StringVarP(&historyFormat, "format", "f", "",
		"output format: plain, json or yaml (default: ui.output, plain when auto)")
	historyClearCmd.Flags().BoolVarP(&historyYes, "yes", "y", false, "confirm deletion")
}

func openHistoryRequired() (*history.Store, error) {
	store, err := openHistory()
	if err != nil {
		return nil, err
	}
	if store == nil {
		return nil, core.ErrValidation(core.CodeHistoryUnavailable,
			"history is disabled (set history.enabled: true)")
	}
	return store, nil
}

func runHistoryList(cmd *cobra.Command, _ []string) error {
	store, err := openHistoryRequired()
	if err != nil {
		return err
	}
	defer store.Close()

	entries, err := store.List(cmd.Context(), historyLimit)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(entries) == 0 {
		fmt.Fprintln(out, "No analyses recorded yet.")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tCREATED\tRISK\tSCORE\tINPUT")
	fmt.Fprintln(w, "--\t-------\t----\t-----\t-----")
	for _, e := range entries {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			e.ShortID(),
			e.CreatedAt.Local().Format("2006-01-02 15:04"),
			e.RiskLevel,
			strconv.Itoa(e.MisinformationScore),
			truncate(e.Input, 60),
		)
	}
	return w.Flush()
}

func runHistoryShow(cmd *cobra.Command, args []string) error {
	format, err := outputFormat(historyFormat)
	if err != nil {
		return err
	}
	store, err := openHistoryRequired()
	if err != nil {
		return err
	}
	defer store.Close()

	entry, err := store.Get(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if format == report.FormatPlain && !quiet {
		fmt.Fprintf(out, "%s  %s\n\n", entry.ID, entry.CreatedAt.Local().Format("2006-01-02 15:04:05"))
	}
	return report.Write(out, entry.Report, format, textOptions(out))
}

func runHistoryClear(cmd *cobra.Command, _ []string) error {
	if !historyYes {
		return core.ErrValidation("CONFIRMATION_REQUIRED", "refusing to clear history without --yes")
	}
	store, err := openHistoryRequired()
	if err != nil {
		return err
	}
	defer store.Close()

	n, err := store.Clear(cmd.Context())
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d analyses.\n", n)
	return nil
}

func truncate(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n-1]) + "…"
}
