package discovery

import (
	"bufio"
	"os"
	"regexp"
	"strings"

	"github.com/ingo-eichhorst/echolysis/pkg/types"
)

// generatedPattern matches the standard "generated code, do not edit" marker
// emitted by a wide range of code generators (protoc, bindgen, stringer,
// etc.) regardless of source language, since the convention of a single
// marker comment near the top of the file is shared across ecosystems.
var generatedPattern = regexp.MustCompile(`(?i)(code generated .* do not edit|@generated)`)

// classifyPythonFile classifies a Python file by its filename. Test files
// match test_*.py or *_test.py patterns.
func classifyPythonFile(name string) types.FileClass {
	base := strings.TrimSuffix(name, ".py")
	if strings.HasPrefix(base, "test_") || strings.HasSuffix(base, "_test") {
		return types.ClassTest
	}
	if strings.HasPrefix(name, "_") || strings.HasPrefix(name, ".") {
		return types.ClassExcluded
	}
	return types.ClassSource
}

// classifyRustFile classifies a Rust file by its path. Rust convention
// keeps unit tests inline (#[cfg(test)] modules within the same file), so
// the only filename-level test signal is the integration-test convention
// of living under a tests/ directory, which the caller detects
// from relPath before falling back to this by-name check.
func classifyRustFile(name string) types.FileClass {
	base := strings.TrimSuffix(name, ".rs")
	if strings.HasSuffix(base, "_test") || strings.HasSuffix(base, "_tests") {
		return types.ClassTest
	}
	if strings.HasPrefix(name, ".") {
		return types.ClassExcluded
	}
	return types.ClassSource
}

// isGeneratedFile checks whether a source file carries a generated-code
// marker within its first few lines.
func isGeneratedFile(path string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer f.Close()

	const maxLinesChecked = 20
	scanner := bufio.NewScanner(f)
	for i := 0; i < maxLinesChecked && scanner.Scan(); i++ {
		if generatedPattern.MatchString(scanner.Text()) {
			return true, nil
		}
	}
	if err := scanner.Err(); err != nil {
		return false, err
	}
	return false, nil
}
