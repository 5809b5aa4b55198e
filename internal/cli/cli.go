// Package cli implements the otsl command-line interface.
//
// convert and inspect work on single HTML documents, dataset on batches of
// annotation records. serve exposes both over HTTP. Commands are built on
// cobra and log with charmbracelet/log. All commands accept --verbose (-v)
// for debug output and --config to load defaults from a YAML or TOML file.
package cli

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

const appName = "otsl"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

var (
	version = "dev" // semantic version
	commit  string  // git commit SHA
	date    string  // build timestamp
)

// SetVersion sets the version information reported by the version command.
// It is normally called from main with values injected via ldflags.
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	verbose    bool
	config     *Config
}

// New creates a CLI that logs to w at the given level.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		config: DefaultConfig(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           appName,
		Short:         "Convert HTML tables to OTSL token sequences",
		Long:          `otsl converts HTML tables into OTSL, a compact token sequence that describes a table's logical grid, merged cells included.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := c.loadConfig(); err != nil {
				return err
			}
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(versionString() + "\n")
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (.yaml, .yml or .toml)")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(c.convertCommand())
	root.AddCommand(c.datasetCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.versionCommand())

	return root
}

// loadConfig reads the config file, if any, and applies its log level.
// The --verbose flag wins over the file.
func (c *CLI) loadConfig() error {
	cfg := DefaultConfig()
	if c.configPath != "" {
		loaded, err := LoadConfig(c.configPath)
		if err != nil {
			return err
		}
		cfg = loaded
		c.Logger.Debug("loaded config", "path", c.configPath)
	}
	c.config = cfg

	level := cfg.Level()
	if c.verbose {
		level = LogDebug
	}
	c.SetLogLevel(level)
	return nil
}

func versionString() string {
	s := fmt.Sprintf("%s %s", appName, version)
	if commit != "" {
		s += "\ncommit: " + commit
	}
	if date != "" {
		s += "\nbuilt: " + date
	}
	return s
}
