// Package cli implements the wikicollage command-line interface.
//
// # Commands
//
//   - serve: run the collage web page and JSON API
//   - fetch: run one batch and print what was placed
//   - tui: drive a collage session from the terminal
//   - config: show where configuration is read from and its effective values
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging, which also
// logs every upstream API request. Loggers are passed through
// context.Context.
package cli

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/wikicollage/internal/config"
	"github.com/matzehuels/wikicollage/pkg/board"
	"github.com/matzehuels/wikicollage/pkg/buildinfo"
	"github.com/matzehuels/wikicollage/pkg/controls"
	"github.com/matzehuels/wikicollage/pkg/integrations/wikipedia"
	"github.com/matzehuels/wikicollage/pkg/observability"
	"github.com/matzehuels/wikicollage/pkg/pipeline"
)

const appName = "wikicollage"

// Log levels accepted by New and SetLogLevel.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
	LogError = log.ErrorLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	verbose    bool
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level. At debug level upstream requests
// are logged as well.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
	if level <= log.DebugLevel {
		observability.SetHTTPHooks(&requestLogHooks{logger: c.Logger})
	}
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "wikicollage scatters images from random Wikipedia articles",
		Long:         `wikicollage fetches random Wikipedia articles, picks a few of their images and lays them out at random positions, scales and rotations. Every image links back to its article.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if c.verbose {
				c.SetLogLevel(LogDebug)
			}
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default ./wikicollage.toml or $XDG_CONFIG_HOME/wikicollage/config.toml)")

	root.AddCommand(c.serveCommand())
	root.AddCommand(c.fetchCommand())
	root.AddCommand(c.tuiCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadConfig resolves the effective configuration for a command.
func (c *CLI) loadConfig() (*config.Config, error) {
	cfg, path, err := config.Load(c.configPath)
	if err != nil {
		return nil, err
	}
	if path != "" {
		c.Logger.Debug("config loaded", "path", path)
	}
	return cfg, nil
}

// newSource creates the Wikipedia client described by cfg.
func newSource(cfg *config.Config) *wikipedia.Client {
	return wikipedia.NewClient(cfg.Wikipedia())
}

// newSession creates a single-process session backed by an in-memory board.
func (c *CLI) newSession(src pipeline.Source, opts controls.Options) (*controls.Session, error) {
	runner := pipeline.NewRunner(src, nil, c.Logger)
	return controls.New(runner, board.NewMemory(), opts)
}
