package commands

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"git.home.luguber.info/inful/gtmdocs/internal/config"
	"git.home.luguber.info/inful/gtmdocs/internal/daemon"
	ferrors "git.home.luguber.info/inful/gtmdocs/internal/foundation/errors"
)

// WatchCmd implements the 'watch' command. It only works with the file source.
type WatchCmd struct {
	Debounce time.Duration `help:"Quiet period after a change before exporting" default:"2s"`
	Initial  bool          `help:"Export once on start" default:"true" negatable:""`
}

func (w *WatchCmd) Run(_ *Global, root *CLI) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	return w.run(ctx, root.Config)
}

func (w *WatchCmd) run(ctx context.Context, configPath string) error {
	cfg, err := loadConfig(configPath, nil)
	if err != nil {
		return err
	}
	if cfg.Source.Type != config.SourceTypeFile {
		return ferrors.ValidationError("watch requires source.type: file").
			WithContext("type", string(cfg.Source.Type)).
			Build()
	}

	r, err := newRunner(ctx, cfg)
	if err != nil {
		return err
	}
	defer r.Close()

	fw, err := daemon.NewFileWatcher(cfg.Source.ExportFile, w.Debounce, func(ctx context.Context) { runLogged(ctx, r) })
	if err != nil {
		return ferrors.ConfigError("watch export file").WithCause(err).
			WithContext("path", cfg.Source.ExportFile).
			Build()
	}
	if w.Initial {
		runLogged(ctx, r)
	}
	return fw.Run(ctx)
}
