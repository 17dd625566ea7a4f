package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/narrative-risk/riskview/internal/logging"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("config validation: %s: %s (got: %v)", e.Field, e.Message, e.Value)
}

// ValidationErrors collects multiple validation errors.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	msgs := make([]string, 0, len(e))
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// HasErrors returns true if there are any validation errors.
func (e ValidationErrors) HasErrors() bool {
	return len(e) > 0
}

// Validator validates configuration.
type Validator struct {
	errors ValidationErrors
}

// NewValidator creates a new validator.
func NewValidator() *Validator {
	return &Validator{errors: make(ValidationErrors, 0)}
}

// Validate checks every section and returns all problems at once.
func (v *Validator) Validate(cfg *Config) error {
	v.validateAnalyzer(&cfg.Analyzer)
	v.validateLog(&cfg.Log)
	v.validateUI(&cfg.UI)
	v.validateHistory(&cfg.History)
	v.validateMock(&cfg.Mock)
	v.validateAnalyze(&cfg.Analyze)

	if len(v.errors) > 0 {
		return v.errors
	}
	return nil
}

// Errors returns the collected validation errors.
func (v *Validator) Errors() ValidationErrors {
	return v.errors
}

func (v *Validator) addError(field string, value interface{}, msg string) {
	v.errors = append(v.errors, ValidationError{Field: field, Value: value, Message: msg})
}

func oneOf(value string, allowed ...string) bool {
	for _, a := range allowed {
		if value == a {
			return true
		}
	}
	return false
}

func (v *Validator) validateAnalyzer(cfg *AnalyzerConfig) {
	u, err := url.Parse(strings.TrimSpace(cfg.BaseURL))
	switch {
	case cfg.BaseURL == "":
		v.addError("analyzer.base_url", cfg.BaseURL, "required")
	case err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "":
		v.addError("analyzer.base_url", cfg.BaseURL, "must be an absolute http(s) URL")
	}

	if cfg.Timeout <= 0 {
		v.addError("analyzer.timeout", cfg.Timeout, "must be positive")
	}
}

func (v *Validator) validateLog(cfg *LogConfig) {
	if !logging.ValidLevel(cfg.Level) {
		v.addError("log.level", cfg.Level, "must be one of: debug, info, warn, error")
	}
	if !oneOf(cfg.Format, "auto", "text", "json") {
		v.addError("log.format", cfg.Format, "must be one of: auto, text, json")
	}
}

func (v *Validator) validateUI(cfg *UIConfig) {
	if !oneOf(cfg.Theme, "dark", "light") {
		v.addError("ui.theme", cfg.Theme, "must be one of: dark, light")
	}
	if !oneOf(cfg.Output, "auto", "tui", "plain", "json", "yaml") {
		v.addError("ui.output", cfg.Output, "must be one of: auto, tui, plain, json, yaml")
	}
	if !oneOf(cfg.GlamourStyle, "auto", "dark", "light", "dracula", "notty", "ascii") {
		v.addError("ui.glamour_style", cfg.GlamourStyle, "must be one of: auto, dark, light, dracula, notty, ascii")
	}
}

func (v *Validator) validateHistory(cfg *HistoryConfig) {
	if cfg.Enabled && strings.TrimSpace(cfg.Path) == "" {
		v.addError("history.path", cfg.Path, "required when history is enabled")
	}
	if cfg.Limit < 0 {
		v.addError("history.limit", cfg.Limit, "must not be negative")
	}
}

func (v *Validator) validateMock(cfg *MockConfig) {
	if strings.TrimSpace(cfg.Addr) == "" {
		v.addError("mock.addr", cfg.Addr, "required")
	}
	if cfg.Latency < 0 {
		v.addError("mock.latency", cfg.Latency, "must not be negative")
	}
}

func (v *Validator) validateAnalyze(cfg *AnalyzeConfig) {
	if cfg.Concurrency < 1 || cfg.Concurrency > 32 {
		v.addError("analyze.concurrency", cfg.Concurrency, "must be between 1 and 32")
	}
}

// ValidateConfig is a convenience function to validate a config.
func ValidateConfig(cfg *Config) error {
	return NewValidator().Validate(cfg)
}
