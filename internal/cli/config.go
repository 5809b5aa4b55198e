package cli

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config holds defaults for command flags. Flags set on the command line
// override values loaded from a file.
type Config struct {
	Strict    bool          `yaml:"strict" toml:"strict"`
	Framed    bool          `yaml:"framed" toml:"framed"`
	AllTables bool          `yaml:"all_tables" toml:"all_tables"`
	LogLevel  string        `yaml:"log_level" toml:"log_level"`
	Dataset   DatasetConfig `yaml:"dataset" toml:"dataset"`
}

// DatasetConfig configures the dataset command.
type DatasetConfig struct {
	Split      string `yaml:"split" toml:"split"`
	Limit      int    `yaml:"limit" toml:"limit"`
	SkipErrors bool   `yaml:"skip_errors" toml:"skip_errors"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		LogLevel: "info",
	}
}

// LoadConfig reads a YAML or TOML config file, chosen by extension, over
// DefaultConfig and validates the result.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read config %s", path)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, errors.Wrapf(err, "parse config %s", path)
		}
	case ".toml":
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return nil, errors.Wrapf(err, "parse config %s", path)
		}
	default:
		return nil, errors.Errorf("unsupported config format %q (use .yaml, .yml or .toml)", ext)
	}

	return cfg, cfg.Validate()
}

// Validate checks that values are usable.
func (c *Config) Validate() error {
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return errors.Errorf("log_level %q is not a valid level", c.LogLevel)
	}
	if c.Dataset.Limit < 0 {
		return errors.New("dataset.limit must be >= 0")
	}
	return nil
}

// Level returns the configured log level, or info if unset or invalid.
func (c *Config) Level() log.Level {
	level, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return log.InfoLevel
	}
	return level
}
