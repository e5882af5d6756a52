package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/ingo-eichhorst/echolysis/internal/config"
	"github.com/ingo-eichhorst/echolysis/internal/engine"
	"github.com/ingo-eichhorst/echolysis/internal/lang"
	"github.com/ingo-eichhorst/echolysis/internal/pipeline"
)

const groupSeparator = "======================================================="
const memberSeparator = "-------------------------------------------------------"
const summarySeparator = "#######################################################"

var (
	detectLanguage string
	detectConfig   string
	detectLimit    int
)

var detectCmd = &cobra.Command{
	Use:   "detect <file>...",
	Short: "Report duplicated code across the given files",
	Long: `Detect indexes the given files and reports every maximal group of
structurally duplicated code, renaming-insensitive.

Supported languages: Rust, Python`,
	Args:         cobra.MinimumNArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		profile, ok := lang.Get(detectLanguage)
		if !ok {
			return fmt.Errorf("unsupported language %q (supported: %s)", detectLanguage, strings.Join(lang.Supported(), ", "))
		}

		if projectCfg, err := config.LoadProjectConfig(".", detectConfig); err == nil && projectCfg != nil {
			if threshold, ok := projectCfg.ComplexityThreshold(detectLanguage); ok {
				profile = lang.WithThreshold(profile, threshold)
			}
		}

		sources := make([]engine.FileSource, 0, len(args))
		for _, path := range args {
			content, err := os.ReadFile(path)
			if err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "skipping %s: %v\n", path, err)
				continue
			}
			sources = append(sources, engine.FileSource{Path: path, Source: content})
		}

		e := engine.New(profile)

		spinner := pipeline.NewSpinner(os.Stderr)
		spinner.Start(fmt.Sprintf("indexing %d files...", len(sources)))
		start := time.Now()
		e.InsertMany(sources)
		indexed := time.Now()
		spinner.Update("detecting duplicates...")

		duplicates := e.DetectDuplicates(detectLimit)
		detected := time.Now()
		spinner.Stop("")

		out := cmd.OutOrStdout()
		for _, group := range duplicates {
			fmt.Fprintln(out, groupSeparator)
			for i, node := range group.Members {
				startPoint := node.StartPoint()
				endPoint := node.EndPoint()
				fmt.Fprintf(out, "%s:%d %d lines long\n", node.Path(), startPoint.Row+1, endPoint.Row-startPoint.Row+1)
				fmt.Fprintf(out, "%s%s\n", strings.Repeat(" ", startPoint.Column), node.Text())
				if i != len(group.Members)-1 {
					fmt.Fprintln(out, memberSeparator)
				}
			}
		}

		fmt.Fprintln(out, summarySeparator)
		summary := fmt.Sprintf("duplicates: %d", len(duplicates))
		if isatty.IsTerminal(os.Stdout.Fd()) {
			summary = color.New(color.Bold).Sprint(summary)
		}
		fmt.Fprintln(out, summary)
		fmt.Fprintf(out, "indexing cost: %d ms\n", indexed.Sub(start).Milliseconds())
		fmt.Fprintf(out, "detecting cost: %d ms\n", detected.Sub(indexed).Milliseconds())

		return nil
	},
}

func init() {
	detectCmd.Flags().StringVar(&detectLanguage, "lang", "rust", "language profile to index files with")
	detectCmd.Flags().StringVar(&detectConfig, "config", "", "path to .echolysisrc.yml project config file")
	detectCmd.Flags().IntVar(&detectLimit, "limit", 0, "maximum number of clone groups to report (0 = unlimited)")
	rootCmd.AddCommand(detectCmd)
}
