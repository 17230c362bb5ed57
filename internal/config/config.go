// Package config loads and saves uvwizard configuration.
//
// The global file lives at $UVWIZARD_HOME/config.yaml (default
// ~/.uvwizard/config.yaml). A project-local .uvwizard/config.yaml is
// shallow-merged on top of it: every top-level section present in the
// project file replaces the global section.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/rshade/uvwizard/internal/unwrap"
)

// Default values.
const (
	DefaultLogLevel      = "info"
	DefaultLogFormat     = "console"
	DefaultTitle         = "UV Map Creation Wizard"
	DefaultCreateButton  = "Create UV Map"
	DefaultUnwrapTimeout = 5 * time.Minute
)

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config is the full configuration file.
type Config struct {
	Logging LoggingConfig `yaml:"logging"`
	Unwrap  UnwrapConfig  `yaml:"unwrap"`
	Wizard  WizardConfig  `yaml:"wizard"`

	configPath string
}

// LoggingConfig controls log output.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	// File, when set, receives logs instead of stderr. The wizard TUI always
	// writes logs here (or discards them) to keep the screen clean.
	File string `yaml:"file,omitempty"`
}

// UnwrapConfig describes the external unwrap tool.
type UnwrapConfig struct {
	Command string            `yaml:"command"`
	Args    []string          `yaml:"args,omitempty"`
	Env     map[string]string `yaml:"env,omitempty"`
	Timeout time.Duration     `yaml:"timeout"`
	Params  unwrap.Params     `yaml:"params"`
}

// WizardConfig holds wizard window settings.
type WizardConfig struct {
	Title         string `yaml:"title"`
	CreateButton  string `yaml:"create_button"`
	SelectionFile string `yaml:"selection_file,omitempty"`
}

// Default returns a configuration with every default applied and no file
// loaded.
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
		Unwrap: UnwrapConfig{
			Timeout: DefaultUnwrapTimeout,
			Params:  unwrap.Defaults(),
		},
		Wizard: WizardConfig{
			Title:        DefaultTitle,
			CreateButton: DefaultCreateButton,
		},
	}
}

// New loads the global configuration file, falling back to defaults when it
// is missing or unreadable.
func New() *Config {
	path, err := DefaultConfigPath()
	if err != nil {
		return Default()
	}
	cfg, err := Load(path)
	if err != nil {
		cfg = Default()
		cfg.configPath = path
	}
	return cfg
}

// Load reads the configuration at path on top of the defaults. A missing
// file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	cfg.configPath = path

	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("cannot access config path %s: %w", path, err)
	}

	if err := ShallowMergeYAML(cfg, path); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ConfigPath returns the file this configuration is saved to.
func (c *Config) ConfigPath() string {
	return c.configPath
}

// SetConfigPath changes the file Save writes to.
func (c *Config) SetConfigPath(path string) {
	c.configPath = path
}

// Save writes the configuration as YAML, creating the directory if needed.
func (c *Config) Save() error {
	if c.configPath == "" {
		return errors.New("config path not set")
	}
	if err := os.MkdirAll(filepath.Dir(c.configPath), 0o700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err = os.WriteFile(c.configPath, data, 0o600); err != nil {
		return fmt.Errorf("writing config %s: %w", c.configPath, err)
	}
	return nil
}

// ApplyEnv applies UVWIZARD_* environment overrides.
func (c *Config) ApplyEnv(lookupEnv func(string) (string, bool)) {
	if v, ok := lookupEnv("UVWIZARD_LOG_LEVEL"); ok && v != "" {
		c.Logging.Level = v
	}
	if v, ok := lookupEnv("UVWIZARD_LOG_FORMAT"); ok && v != "" {
		c.Logging.Format = v
	}
	if v, ok := lookupEnv("UVWIZARD_LOG_FILE"); ok {
		c.Logging.File = v
	}
	if v, ok := lookupEnv("UVWIZARD_UNWRAP_COMMAND"); ok && v != "" {
		c.Unwrap.Command = v
	}
}

// Validate checks the configuration for values the program cannot use.
// A missing unwrap command is not an error here; it only matters once a
// batch actually runs.
func (c *Config) Validate() error {
	if _, err := zerolog.ParseLevel(strings.ToLower(c.Logging.Level)); err != nil || c.Logging.Level == "" {
		return fmt.Errorf("%w: unknown log level %q", ErrInvalidConfig, c.Logging.Level)
	}
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("%w: log format must be console or json, got %q", ErrInvalidConfig, c.Logging.Format)
	}
	if c.Unwrap.Timeout < 0 {
		return fmt.Errorf("%w: unwrap timeout must be >= 0, got %s", ErrInvalidConfig, c.Unwrap.Timeout)
	}
	if err := c.Unwrap.Params.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

// Unwrapper builds the command unwrapper described by the unwrap section.
func (c *Config) Unwrapper() *unwrap.CommandUnwrapper {
	return &unwrap.CommandUnwrapper{
		Command: c.Unwrap.Command,
		Args:    append([]string(nil), c.Unwrap.Args...),
		Env:     c.Unwrap.Env,
		Timeout: c.Unwrap.Timeout,
	}
}
