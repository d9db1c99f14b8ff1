// Package config loads service configuration from YAML with environment
// variable expansion and optional .env loading.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Listen    string          `yaml:"listen"`
	MaxBody   int64           `yaml:"max_body_bytes"`
	Workspace WorkspaceConfig `yaml:"workspace"`
	Tools     ToolsConfig     `yaml:"tools"`
	Timeouts  TimeoutsConfig  `yaml:"timeouts"`
	Defaults  DefaultsConfig  `yaml:"defaults"`
	History   HistoryConfig   `yaml:"history"`
}

// WorkspaceConfig controls the per-job workspace root and the reaping of
// failed-job workspaces retained for postmortem inspection. Durations are
// Go duration strings ("24h", "90m").
type WorkspaceConfig struct {
	Root            string `yaml:"root"`
	RetainFailedFor string `yaml:"retain_failed_for"`
	ReapInterval    string `yaml:"reap_interval"`

	retainFailedFor time.Duration
	reapInterval    time.Duration
}

// RetainFailedDuration returns the parsed failed-workspace retention window.
func (w WorkspaceConfig) RetainFailedDuration() time.Duration { return w.retainFailedFor }

// ReapIntervalDuration returns the parsed sweep interval.
func (w WorkspaceConfig) ReapIntervalDuration() time.Duration { return w.reapInterval }

// ToolsConfig names the external toolchain binaries.
type ToolsConfig struct {
	Latexmk  string `yaml:"latexmk"`
	Pdflatex string `yaml:"pdflatex"`
	Convert  string `yaml:"convert"`
}

// TimeoutsConfig bounds each external invocation, as Go duration strings.
// "0" disables the deadline.
type TimeoutsConfig struct {
	Compile string `yaml:"compile"`
	Convert string `yaml:"convert"`

	compile time.Duration
	convert time.Duration
}

// CompileTimeout returns the parsed per-attempt compile deadline.
func (t TimeoutsConfig) CompileTimeout() time.Duration { return t.compile }

// ConvertTimeout returns the parsed conversion deadline.
func (t TimeoutsConfig) ConvertTimeout() time.Duration { return t.convert }

// DefaultsConfig holds per-request fallbacks.
type DefaultsConfig struct {
	Name string `yaml:"name"`
	DPI  int    `yaml:"dpi"`
}

// HistoryConfig controls the SQLite job history store. Setting path to
// "off" disables history entirely.
type HistoryConfig struct {
	Path string `yaml:"path"`
}

// Enabled reports whether the history store should be opened.
func (h HistoryConfig) Enabled() bool { return h.Path != "off" }

// Load loads configuration from the specified file. An empty path yields the
// built-in defaults so the service can start without a config file.
func Load(configPath string) (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "Note: .env file couldn't be loaded: %v\n", err)
	}

	config := &Config{}
	if configPath != "" {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		// Expand environment variables in the YAML content
		expanded := os.ExpandEnv(string(data))
		if err := yaml.Unmarshal([]byte(expanded), config); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config: %w", err)
		}
	}

	config.applyDefaults()
	if err := config.parseDurations(); err != nil {
		return nil, err
	}
	return config, nil
}

func (c *Config) applyDefaults() {
	if c.Listen == "" {
		c.Listen = ":8080"
	}
	if c.MaxBody == 0 {
		c.MaxBody = 16 << 20 // 16 MiB, matching the historical request cap
	}
	if c.Workspace.Root == "" {
		c.Workspace.Root = filepath.Join(os.TempDir(), "latexsvc")
	}
	if c.Workspace.RetainFailedFor == "" {
		c.Workspace.RetainFailedFor = "24h"
	}
	if c.Workspace.ReapInterval == "" {
		c.Workspace.ReapInterval = "1h"
	}
	if c.Tools.Latexmk == "" {
		c.Tools.Latexmk = "latexmk"
	}
	if c.Tools.Pdflatex == "" {
		c.Tools.Pdflatex = "pdflatex"
	}
	if c.Tools.Convert == "" {
		c.Tools.Convert = "convert"
	}
	if c.Timeouts.Compile == "" {
		c.Timeouts.Compile = "2m"
	}
	if c.Timeouts.Convert == "" {
		c.Timeouts.Convert = "1m"
	}
	if c.Defaults.Name == "" {
		c.Defaults.Name = "resume"
	}
	if c.Defaults.DPI == 0 {
		c.Defaults.DPI = 300
	}
	if c.History.Path == "" {
		c.History.Path = filepath.Join(c.Workspace.Root, "history.db")
	}
}

func (c *Config) parseDurations() error {
	parse := func(field, value string, dst *time.Duration) error {
		d, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid %s duration %q: %w", field, value, err)
		}
		*dst = d
		return nil
	}
	if err := parse("workspace.retain_failed_for", c.Workspace.RetainFailedFor, &c.Workspace.retainFailedFor); err != nil {
		return err
	}
	if err := parse("workspace.reap_interval", c.Workspace.ReapInterval, &c.Workspace.reapInterval); err != nil {
		return err
	}
	if err := parse("timeouts.compile", c.Timeouts.Compile, &c.Timeouts.compile); err != nil {
		return err
	}
	return parse("timeouts.convert", c.Timeouts.Convert, &c.Timeouts.convert)
}
