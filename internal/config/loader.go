package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

const (
	// ConfigName is the base name of the config file, without extension.
	ConfigName = "riskview"
	// EnvPrefix prefixes environment overrides, e.g. RISKVIEW_ANALYZER_BASE_URL.
	EnvPrefix = "RISKVIEW"
)

// Loader handles configuration loading from multiple sources.
type Loader struct {
	v          *viper.Viper
	configFile string
	envPrefix  string
}

// NewLoader creates a new configuration loader.
func NewLoader() *Loader {
	return NewLoaderWithViper(viper.New())
}

// NewLoaderWithViper creates a loader using an existing viper instance so that
// flags bound on it take precedence.
func NewLoaderWithViper(v *viper.Viper) *Loader {
	return &Loader{v: v, envPrefix: EnvPrefix}
}

// WithConfigFile sets an explicit config file path.
func (l *Loader) WithConfigFile(path string) *Loader {
	l.configFile = path
	return l
}

// WithEnvPrefix sets the environment variable prefix.
func (l *Loader) WithEnvPrefix(prefix string) *Loader {
	l.envPrefix = prefix
	return l
}

// Viper returns the underlying viper instance for flag binding.
func (l *Loader) Viper() *viper.Viper {
	return l.v
}

// Load loads configuration from all sources.
// Precedence (highest to lowest):
// 1. CLI flags (set via viper.BindPFlag)
// 2. Environment variables (RISKVIEW_*)
// 3. riskview.yaml in the current directory
// 4. ~/.config/riskview/riskview.yaml
// 5. Defaults
func (l *Loader) Load() (*Config, error) {
	l.setDefaults()

	l.v.SetEnvPrefix(l.envPrefix)
	l.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	l.v.AutomaticEnv()

	if l.configFile != "" {
		l.v.SetConfigFile(l.configFile)
	} else {
		l.v.SetConfigName(ConfigName)
		l.v.SetConfigType("yaml")
		l.v.AddConfigPath(".")
		if dir := UserConfigDir(); dir != "" {
			l.v.AddConfigPath(dir)
		}
	}

	if err := l.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := l.v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	return &cfg, nil
}

func (l *Loader) setDefaults() {
	state := StateDir()

	l.v.SetDefault("analyzer.base_url", "http://localhost:8000")
	l.v.SetDefault("analyzer.timeout", "90s")
	l.v.SetDefault("analyzer.user_agent", "riskview")

	l.v.SetDefault("log.level", "info")
	l.v.SetDefault("log.format", "auto")
	l.v.SetDefault("log.file", filepath.Join(state, "riskview.log"))

	l.v.SetDefault("ui.theme", "dark")
	l.v.SetDefault("ui.no_color", false)
	l.v.SetDefault("ui.output", "auto")
	l.v.SetDefault("ui.glamour_style", "auto")

	l.v.SetDefault("history.enabled", true)
	l.v.SetDefault("history.path", filepath.Join(state, "history.db"))
	l.v.SetDefault("history.limit", 200)

	l.v.SetDefault("mock.addr", "127.0.0.1:8000")
	l.v.SetDefault("mock.latency", "750ms")
	l.v.SetDefault("mock.metrics", true)

	l.v.SetDefault("analyze.concurrency", 4)
}

// ConfigFile returns the config file path if one was used.
func (l *Loader) ConfigFile() string {
	return l.v.ConfigFileUsed()
}
