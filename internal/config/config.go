// Package config loads riskview settings from defaults, a YAML file,
// RISKVIEW_* environment variables and command-line flags.
package config

import (
	"os"
	"path/filepath"
	"time"
)

// Config is the complete riskview configuration.
type Config struct {
	Analyzer AnalyzerConfig `mapstructure:"analyzer" yaml:"analyzer"`
	Log      LogConfig      `mapstructure:"log" yaml:"log"`
	UI       UIConfig       `mapstructure:"ui" yaml:"ui"`
	History  HistoryConfig  `mapstructure:"history" yaml:"history"`
	Mock     MockConfig     `mapstructure:"mock" yaml:"mock"`
	Analyze  AnalyzeConfig  `mapstructure:"analyze" yaml:"analyze"`
}

// AnalyzerConfig points at the remote analysis service.
type AnalyzerConfig struct {
	BaseURL   string        `mapstructure:"base_url" yaml:"base_url"`
	Timeout   time.Duration `mapstructure:"timeout" yaml:"timeout"`
	UserAgent string        `mapstructure:"user_agent" yaml:"user_agent"`
}

// LogConfig configures logging. File is used by the interactive UI, which
// cannot share the terminal with log output.
type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
	File   string `mapstructure:"file" yaml:"file"`
}

// UIConfig configures presentation.
type UIConfig struct {
	Theme        string `mapstructure:"theme" yaml:"theme"`
	NoColor      bool   `mapstructure:"no_color" yaml:"no_color"`
	Output       string `mapstructure:"output" yaml:"output"`
	GlamourStyle string `mapstructure:"glamour_style" yaml:"glamour_style"`
}

// HistoryConfig configures the local analysis history.
type HistoryConfig struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
	Path    string `mapstructure:"path" yaml:"path"`
	Limit   int    `mapstructure:"limit" yaml:"limit"`
}

// MockConfig configures the bundled demo analyzer.
type MockConfig struct {
	Addr    string        `mapstructure:"addr" yaml:"addr"`
	Latency time.Duration `mapstructure:"latency" yaml:"latency"`
	Metrics bool          `mapstructure:"metrics" yaml:"metrics"`
}

// AnalyzeConfig configures batch analysis from the command line.
type AnalyzeConfig struct {
	Concurrency int `mapstructure:"concurrency" yaml:"concurrency"`
}

// StateDir returns the per-user directory for logs and history:
// $XDG_STATE_HOME/riskview, falling back to ~/.local/state/riskview.
func StateDir() string {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return filepath.Join(dir, "riskview")
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".local", "state", "riskview")
	}
	return filepath.Join(os.TempDir(), "riskview")
}

// UserConfigDir returns ~/.config/riskview, or "" when the home directory is unknown.
func UserConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "riskview")
}
