package commands

import (
	"context"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"git.home.luguber.info/inful/gtmdocs/internal/config"
	"git.home.luguber.info/inful/gtmdocs/internal/daemon"
	ferrors "git.home.luguber.info/inful/gtmdocs/internal/foundation/errors"
	"git.home.luguber.info/inful/gtmdocs/internal/logfields"
)

const exportJob = "export"

// ScheduleCmd implements the 'schedule' command.
type ScheduleCmd struct {
	Cron   string `help:"Cron expression (overrides schedule.cron)"`
	RunNow bool   `name:"run-now" help:"Run one export immediately after starting"`
}

func (s *ScheduleCmd) Run(_ *Global, root *CLI) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := loadConfig(root.Config, func(cfg *config.Config) {
		if s.Cron != "" {
			cfg.Schedule.Cron = s.Cron
		}
	})
	if err != nil {
		return err
	}
	if err := config.ValidateCron(cfg.Schedule.Cron); err != nil {
		return err
	}

	r, err := newRunner(ctx, cfg)
	if err != nil {
		return err
	}
	defer r.Close()

	sched, err := daemon.NewScheduler()
	if err != nil {
		return ferrors.InternalError("create scheduler").WithCause(err).Build()
	}
	if _, err := sched.ScheduleCron(exportJob, cfg.Schedule.Cron, func() { runLogged(ctx, r) }); err != nil {
		return ferrors.ConfigError("schedule export").WithCause(err).
			WithContext("cron", cfg.Schedule.Cron).
			Build()
	}
	sched.Start()
	if s.RunNow {
		sched.RunNow()
	}
	if next, ok := sched.NextRun(exportJob); ok {
		slog.Info("Export scheduled", slog.String("cron", cfg.Schedule.Cron), slog.Time("next_run", next))
	}

	<-ctx.Done()
	slog.Info("Shutdown signal received, stopping scheduler...")

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer stopCancel()
	if err := sched.Stop(stopCtx); err != nil {
		return ferrors.InternalError("stop scheduler").WithCause(err).Build()
	}
	slog.Info("Scheduler stopped")
	return nil
}

// runLogged runs one export for a long-running command. Errors are logged
// and the command keeps going.
func runLogged(ctx context.Context, r *runner) {
	if ctx.Err() != nil {
		return
	}
	if _, err := r.runOnce(ctx); err != nil {
		slog.Error("Export run failed", logfields.Error(err))
	}
}
