// Package discovery walks a workspace directory, classifies every file
// tree-sitter can parse for, and reports per-language counts (§6's file
// discovery, ahead of indexing).
package discovery

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	ignore "github.com/sabhiram/go-gitignore"

	"github.com/ingo-eichhorst/echolysis/internal/lang"
	"github.com/ingo-eichhorst/echolysis/pkg/types"
)

// skipDirs lists directory names that are never walked into: VCS metadata,
// dependency caches, and build output that would otherwise dwarf a
// project's own source with noise.
var skipDirs = map[string]bool{
	".git":         true,
	"node_modules": true,
	"target":       true, // Rust build output
	"venv":         true,
	".venv":        true,
	"__pycache__":  true,
	"dist":         true,
	"build":        true,
}

// Walker discovers and classifies source files in a directory tree.
type Walker struct{}

// NewWalker creates a new Walker instance.
func NewWalker() *Walker {
	return &Walker{}
}

// Discover walks rootDir recursively, finds every file with a registered
// language profile, classifies it, and returns a ScanResult with file
// lists and counts.
func (w *Walker) Discover(rootDir string) (*types.ScanResult, error) {
	info, err := os.Stat(rootDir)
	if err != nil {
		return nil, fmt.Errorf("cannot access root directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", rootDir)
	}

	var gitIgnore *ignore.GitIgnore
	gitignorePath := filepath.Join(rootDir, ".gitignore")
	if _, err := os.Stat(gitignorePath); err == nil {
		gitIgnore, err = ignore.CompileIgnoreFile(gitignorePath)
		if err != nil {
			return nil, fmt.Errorf("failed to parse .gitignore: %w", err)
		}
	}

	result := &types.ScanResult{
		RootDir:     rootDir,
		PerLanguage: make(map[string]int),
	}

	err = filepath.WalkDir(rootDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			result.SkippedCount++
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}

		if d.Type()&fs.ModeSymlink != 0 {
			result.SymlinkCount++
			return nil
		}

		name := d.Name()

		if d.IsDir() {
			if strings.HasPrefix(name, ".") && name != "." {
				return fs.SkipDir
			}
			if skipDirs[name] {
				return fs.SkipDir
			}
			// vendor isn't skipped outright -- its files are walked and
			// recorded as excluded, the same treatment gitignore matches get.
			return nil
		}

		languageID := lang.IDForPath(path)
		if !lang.IsSupported(languageID) {
			return nil
		}

		relPath, err := filepath.Rel(rootDir, path)
		if err != nil {
			result.SkippedCount++
			return nil
		}

		file := types.DiscoveredFile{
			Path:       path,
			RelPath:    relPath,
			LanguageID: languageID,
		}

		if isVendorPath(relPath) {
			file.Class = types.ClassExcluded
			file.ExcludeReason = "vendor"
			result.Files = append(result.Files, file)
			result.VendorCount++
			result.TotalFiles++
			return nil
		}

		if gitIgnore != nil && gitIgnore.MatchesPath(relPath) {
			file.Class = types.ClassExcluded
			file.ExcludeReason = "gitignore"
			result.Files = append(result.Files, file)
			result.GitignoreCount++
			result.TotalFiles++
			return nil
		}

		generated, genErr := isGeneratedFile(path)
		if genErr != nil {
			result.SkippedCount++
			return nil
		}
		if generated {
			file.Class = types.ClassGenerated
			result.Files = append(result.Files, file)
			result.GeneratedCount++
			result.TotalFiles++
			return nil
		}

		switch languageID {
		case "python":
			file.Class = classifyPythonFile(name)
		case "rust":
			file.Class = classifyRustFile(name)
			if isUnderTestsDir(relPath) {
				file.Class = types.ClassTest
			}
		default:
			file.Class = types.ClassSource
		}

		result.Files = append(result.Files, file)
		result.TotalFiles++

		switch file.Class {
		case types.ClassSource:
			result.SourceCount++
			result.PerLanguage[languageID]++
		case types.ClassTest:
			result.TestCount++
		}

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk error: %w", err)
	}

	return result, nil
}

// isVendorPath reports whether relPath has a "vendor" path component.
func isVendorPath(relPath string) bool {
	for _, part := range strings.Split(filepath.ToSlash(relPath), "/") {
		if part == "vendor" {
			return true
		}
	}
	return false
}

// isUnderTestsDir reports whether relPath has a "tests" path component at
// any depth (tests/ or crates/foo/tests/), Rust's integration-test convention.
func isUnderTestsDir(relPath string) bool {
	for _, part := range strings.Split(filepath.ToSlash(relPath), "/") {
		if part == "tests" {
			return true
		}
	}
	return false
}
