// Package commands implements the gtmdocs subcommands.
package commands

import (
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/gtmdocs/internal/config"
	ferrors "git.home.luguber.info/inful/gtmdocs/internal/foundation/errors"
)

// Global is passed to every subcommand.
type Global struct {
	Logger *slog.Logger
	// Out receives user-facing output. Logs go to stderr.
	Out io.Writer
}

func (g *Global) out() io.Writer {
	if g == nil || g.Out == nil {
		return os.Stdout
	}
	return g.Out
}

// CLI definition & global flags.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path" default:"gtmdocs.yaml"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Export   ExportCmd   `cmd:"" help:"Export the container documentation once"`
	Schedule ScheduleCmd `cmd:"" help:"Export on a cron schedule until interrupted"`
	Watch    WatchCmd    `cmd:"" help:"Re-export whenever the container export file changes"`
	Init     InitCmd     `cmd:"" help:"Initialize a new configuration file"`
	History  HistoryCmd  `cmd:"" help:"List recent export runs"`
}

// AfterApply runs after flag parsing; setup logging once.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply() error {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return nil
}

// loadConfig reads the configuration, lets the caller apply flag overrides
// and validates the result.
func loadConfig(path string, override func(*config.Config)) (*config.Config, error) {
	cfg, err := loadConfigUnvalidated(path)
	if err != nil {
		return nil, err
	}
	if override != nil {
		override(cfg)
	}
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadConfigUnvalidated is used by commands that only read local state.
func loadConfigUnvalidated(path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, ferrors.ConfigError("load configuration").WithCause(err).
			WithContext("path", path).
			Build()
	}
	return cfg, nil
}
