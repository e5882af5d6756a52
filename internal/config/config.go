// Package config handles .echolysisrc.yml project-level configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ProjectConfig represents the .echolysisrc.yml configuration file.
type ProjectConfig struct {
	Version    int                        `yaml:"version"`
	Languages  []string                   `yaml:"languages"`
	IgnorePaths []string                  `yaml:"ignorePaths"`
	Complexity map[string]complexityOverride `yaml:"complexity"`
}

// complexityOverride lets a project raise or lower one language's
// cognitive-complexity registration threshold (§4.2) without recompiling.
type complexityOverride struct {
	Threshold float64 `yaml:"threshold"`
}

// LoadProjectConfig loads project configuration from .echolysisrc.yml or
// .echolysisrc.yaml. If explicitPath is provided (from --config), that
// file is loaded instead. Returns nil (no error) if no config file is
// found -- echolysis runs with sensible defaults against any workspace.
func LoadProjectConfig(dir string, explicitPath string) (*ProjectConfig, error) {
	var configPath string

	if explicitPath != "" {
		configPath = explicitPath
	} else {
		ymlPath := filepath.Join(dir, ".echolysisrc.yml")
		yamlPath := filepath.Join(dir, ".echolysisrc.yaml")

		if _, err := os.Stat(ymlPath); err == nil {
			configPath = ymlPath
		} else if _, err := os.Stat(yamlPath); err == nil {
			configPath = yamlPath
		} else {
			return nil, nil
		}
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("read project config %s: %w", configPath, err)
	}

	cfg := &ProjectConfig{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse project config %s: %w", configPath, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid project config %s: %w", configPath, err)
	}

	return cfg, nil
}

// Validate checks that the ProjectConfig values are usable.
func (c *ProjectConfig) Validate() error {
	if c.Version != 0 && c.Version != 1 {
		return fmt.Errorf("unsupported config version %d (expected 1)", c.Version)
	}
	for languageID, override := range c.Complexity {
		if override.Threshold < 0 {
			return fmt.Errorf("complexity threshold for %q must be >= 0, got %f", languageID, override.Threshold)
		}
	}
	return nil
}

// ComplexityThreshold returns the configured override for languageID, and
// whether one was set at all.
func (c *ProjectConfig) ComplexityThreshold(languageID string) (float64, bool) {
	if c == nil {
		return 0, false
	}
	override, ok := c.Complexity[languageID]
	if !ok {
		return 0, false
	}
	return override.Threshold, true
}

// LanguagesOrDefault returns the configured language allowlist, or every
// registered language if the project didn't restrict it.
func (c *ProjectConfig) LanguagesOrDefault(registered []string) []string {
	if c == nil || len(c.Languages) == 0 {
		return registered
	}
	return c.Languages
}
