package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/narrative-risk/riskview/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write a default configuration file",
	Long: `Write a commented default configuration to ./riskview.yaml, or to path.

Examples:
  riskview init
  riskview init ~/.config/riskview/riskview.yaml`,
	Args: cobra.MaximumNArgs(1),
	// The file being written may not exist or parse yet.
	PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
	RunE:              runInit,
}

var initForce bool

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().BoolVar(&initForce, "force", false, "overwrite an existing file")
}

func runInit(cmd *cobra.Command, args []string) error {
	path := "riskview.yaml"
	if len(args) == 1 {
		path = args[0]
	}

	if _, err := os.Stat(path); err == nil && !initForce {
		return fmt.Errorf("%s already exists, use --force to overwrite", path)
	}
	if err := config.AtomicWrite(path, []byte(config.DefaultConfigYAML)); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
	return nil
}
