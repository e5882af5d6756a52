package cmd

import (
	"bytes"
	"strings"
	"testing"
)

func TestDetectCommandReportsDuplicates(t *testing.T) {
	out := &bytes.Buffer{}
	rootCmd.SetOut(out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs([]string{"detect", "--lang", "python", "../testdata/duplication/dup_a.py"})

	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}

	report := out.String()
	if !strings.Contains(report, groupSeparator) {
		t.Error("expected a group separator in the report")
	}
	if !strings.Contains(report, "duplicates: ") {
		t.Error("expected a duplicates summary line")
	}
	if !strings.Contains(report, "indexing cost:") || !strings.Contains(report, "detecting cost:") {
		t.Error("expected timing lines in the summary")
	}
}

func TestDetectCommandUnsupportedLanguage(t *testing.T) {
	rootCmd.SetOut(&bytes.Buffer{})
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs([]string{"detect", "--lang", "cobol", "../testdata/duplication/dup_a.py"})

	if err := rootCmd.Execute(); err == nil {
		t.Error("expected an error for an unsupported language")
	}
}

func TestDetectCommandRequiresAtLeastOneFile(t *testing.T) {
	rootCmd.SetOut(&bytes.Buffer{})
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs([]string{"detect"})

	if err := rootCmd.Execute(); err == nil {
		t.Error("expected an error when no files are given")
	}
}
