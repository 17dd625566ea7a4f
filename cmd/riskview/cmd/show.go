package cmd

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/narrative-risk/riskview/internal/fsutil"
	"github.com/narrative-risk/riskview/internal/logging"
	"github.com/narrative-risk/riskview/internal/report"
)

// reloadDebounce coalesces the burst of events editors emit for one save.
const reloadDebounce = 100 * time.Millisecond

var showCmd = &cobra.Command{
	Use:   "show <file>",
	Short: "Render a saved report",
	Long: `Render a report saved with 'analyze --save' or the session's export key.

With --watch the report is rendered again every time the file changes,
until interrupted.

Examples:
  riskview show report.json
  riskview show --format yaml report.json
  riskview show --watch report.yaml`,
	Args: cobra.ExactArgs(1),
	RunE: runShow,
}

var (
	showFormat string
	showWatch  bool
)

func init() {
	rootCmd.AddCommand(showCmd)

	showCmd.Flags().StringVarP(&showFormat, "format", "f", "",
		"output format: plain, json or yaml (default: ui.output, plain when auto)")
	showCmd.Flags().BoolVarP(&showWatch, "watch", "w", false,
		"render again whenever the file changes")
}

func runShow(cmd *cobra.Command, args []string) error {
	format, err := outputFormat(showFormat)
	if err != nil {
		return err
	}
	path := args[0]
	out := cmd.OutOrStdout()

	if err := renderFile(out, path, format); err != nil {
		return err
	}
	if !showWatch {
		return nil
	}

	logger := newLogger(cmd.ErrOrStderr()).WithComponent("watch")
	ready := func() {
		if !quiet {
			fmt.Fprintf(cmd.ErrOrStderr(), "Watching %s for changes (Ctrl+C to stop)\n", path)
		}
	}
	return watchFile(cmd.Context(), path, logger, ready, func() {
		fmt.Fprintln(out)
		if err := renderFile(out, path, format); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "error: %v\n", err)
		}
	})
}

func renderFile(w io.Writer, path string, format report.Format) error {
	data, err := fsutil.ReadFileScoped(path)
	if err != nil {
		return fmt.Errorf("reading report: %w", err)
	}
	r, err := report.Decode(data)
	if err != nil {
		return err
	}
	return report.Write(w, r, format, textOptions(w))
}

// watchFile calls onChange after path is written, created or renamed into
// place, until ctx is done. The parent directory is watched so atomic
// replacements are seen. onReady runs once the watch is registered.
func watchFile(ctx context.Context, path string, logger *logging.Logger, onReady, onChange func()) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watching %s: %w", filepath.Dir(abs), err)
	}
	logger.Debug("watching report", "path", abs)
	onReady()

	timer := time.NewTimer(reloadDebounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != abs {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			timer.Reset(reloadDebounce)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher error", "error", err)
		case <-timer.C:
			onChange()
		}
	}
}
