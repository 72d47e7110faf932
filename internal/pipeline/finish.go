package pipeline

import (
	"context"
	"log/slog"

	ferrors "git.home.luguber.info/inful/gtmdocs/internal/foundation/errors"
	"git.home.luguber.info/inful/gtmdocs/internal/history"
	"git.home.luguber.info/inful/gtmdocs/internal/logfields"
	"git.home.luguber.info/inful/gtmdocs/internal/metrics"
	"git.home.luguber.info/inful/gtmdocs/internal/notify"
	"git.home.luguber.info/inful/gtmdocs/internal/observability"
)

// finish records the run. Failures here are logged and never change the
// report.
func (d *Driver) finish(ctx context.Context, report *Report) {
	outcome := report.Outcome()
	d.recorder.ObserveRunDuration(report.Duration())
	d.recorder.IncRunOutcome(outcome)
	if outcome == metrics.RunOutcomeSuccess {
		d.recorder.SetLastSuccess(report.FinishedAt)
	}

	if d.history != nil {
		if err := d.history.Record(ctx, historyRun(report)); err != nil {
			observability.WarnContext(ctx, "Failed to record run history", logfields.Error(err))
		}
	}
	if d.notifier != nil {
		if err := d.notifier.Publish(ctx, d.event(report)); err != nil {
			observability.WarnContext(ctx, "Failed to publish export event", logfields.Error(err))
		}
	}
	if d.pusher.Enabled() {
		if err := d.pusher.Push(ctx, d.settings.ContainerPath()); err != nil {
			observability.WarnContext(ctx, "Failed to push metrics", logfields.Error(err))
		}
	}

	attrs := []slog.Attr{
		slog.String("outcome", string(outcome)),
		logfields.Count(len(report.Documents)),
		slog.Int("failed", len(report.Failed())),
		slog.Int("warnings", len(report.Warnings)),
		logfields.DurationMS(msec(report.Duration())),
	}
	if report.Err != nil {
		attrs = append(attrs,
			slog.String("category", string(ferrors.GetCategory(report.Err))),
			logfields.Error(report.Err))
		observability.ErrorContext(ctx, "Export aborted", attrs...)
		return
	}
	observability.InfoContext(ctx, "Export finished", attrs...)
}

func historyRun(report *Report) history.Run {
	run := history.Run{
		ID:         report.RunID,
		Container:  report.Container,
		StartedAt:  report.StartedAt,
		FinishedAt: report.FinishedAt,
		Outcome:    string(report.Outcome()),
		Warnings:   len(report.Warnings),
	}
	if report.Err != nil {
		run.Error = report.Err.Error()
	}
	for _, doc := range report.Documents {
		hd := history.Document{Name: doc.Name, Bytes: doc.Bytes, Fingerprint: doc.Fingerprint}
		if doc.Err != nil {
			hd.Error = doc.Err.Error()
		}
		run.Documents = append(run.Documents, hd)
	}
	return run
}

func (d *Driver) event(report *Report) *notify.ExportCompletedEvent {
	ev := &notify.ExportCompletedEvent{
		RunID:       report.RunID,
		AccountID:   d.settings.AccountID,
		ContainerID: d.settings.ContainerID,
		WorkspaceID: report.Workspace,
		Outcome:     string(report.Outcome()),
		Warnings:    len(report.Warnings),
		StartedAt:   report.StartedAt,
		FinishedAt:  report.FinishedAt,
	}
	if report.Err != nil {
		ev.Error = report.Err.Error()
	}
	for _, doc := range report.Documents {
		de := notify.DocumentEvent{Name: doc.Name, Bytes: doc.Bytes, Fingerprint: doc.Fingerprint}
		if doc.Err != nil {
			de.Error = doc.Err.Error()
		}
		ev.Documents = append(ev.Documents, de)
	}
	return ev
}
