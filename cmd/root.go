package cmd

import (
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/ingo-eichhorst/echolysis/pkg/types"
	"github.com/ingo-eichhorst/echolysis/pkg/version"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:     "echolysis",
	Short:   "Detect structurally duplicated code across a codebase",
	Long:    "echolysis indexes source files into Merkle-style structural fingerprints\nand reports every maximal group of duplicated code, insensitive to\nrenaming, as a one-shot CLI report or a live LSP diagnostic stream.",
	Version: version.Version,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.SilenceErrors = true
}

// Execute runs the root command and exits with code 1 on error.
// ExitError is handled specially: its Code is used as the exit code.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		var exitErr *types.ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		os.Exit(1)
	}
}
