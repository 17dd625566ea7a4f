package main

import (
	"fmt"
	"os"

	"github.com/narrative-risk/riskview/cmd/riskview/cmd"
	"github.com/narrative-risk/riskview/internal/core"
)

// Version information, set at build time with -ldflags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	cmd.SetVersion(version, commit, date)

	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", core.UserMessage(err))
		os.Exit(1)
	}
}
