package commands

import (
	"context"
	"log/slog"

	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/gtmdocs/internal/config"
	ferrors "git.home.luguber.info/inful/gtmdocs/internal/foundation/errors"
	"git.home.luguber.info/inful/gtmdocs/internal/gtm"
	"git.home.luguber.info/inful/gtmdocs/internal/history"
	"git.home.luguber.info/inful/gtmdocs/internal/logfields"
	"git.home.luguber.info/inful/gtmdocs/internal/metrics"
	"git.home.luguber.info/inful/gtmdocs/internal/notify"
	"git.home.luguber.info/inful/gtmdocs/internal/pipeline"
	"git.home.luguber.info/inful/gtmdocs/internal/storage"
)

// runner holds the collaborators that live across runs. The sink is created
// per run because backends such as git commit on Close.
type runner struct {
	cfg      *config.Config
	source   gtm.Source
	newSink  func(context.Context) (storage.Sink, error)
	options  []pipeline.Option
	closers  []func() error
	settings pipeline.Settings
}

func newRunner(ctx context.Context, cfg *config.Config) (*runner, error) {
	source, err := newSource(cfg)
	if err != nil {
		return nil, err
	}

	r := &runner{
		cfg:    cfg,
		source: source,
		newSink: func(ctx context.Context) (storage.Sink, error) {
			return storage.New(ctx, cfg.Storage)
		},
		settings: pipeline.Settings{
			AccountID:        cfg.AccountID,
			ContainerID:      cfg.ContainerID,
			WorkspaceID:      cfg.WorkspaceID,
			StrictReferences: cfg.Render.StrictReferences,
			SanitizeNotes:    cfg.Render.SanitizeNotes,
		},
	}

	reg := prom.NewRegistry()
	r.options = append(r.options, pipeline.WithRecorder(metrics.NewPrometheusRecorder(reg)))
	if cfg.Metrics.PushgatewayURL != "" {
		r.options = append(r.options, pipeline.WithPusher(metrics.NewPusher(cfg.Metrics.PushgatewayURL, cfg.Metrics.Job, reg)))
	}

	if cfg.History.Path != "" {
		store, err := history.Open(cfg.History.Path)
		if err != nil {
			r.Close()
			return nil, ferrors.StorageError("open run history").WithCause(err).
				WithContext("path", cfg.History.Path).
				Build()
		}
		r.options = append(r.options, pipeline.WithHistory(store))
		r.closers = append(r.closers, store.Close)
	}

	if cfg.Notify.NATSURL != "" {
		pub, err := notify.NewNATSPublisher(cfg.Notify)
		if err != nil {
			// Events are best effort; exports run without them.
			slog.Warn("Completion events disabled", logfields.URL(cfg.Notify.NATSURL), logfields.Error(err))
		} else {
			r.options = append(r.options, pipeline.WithNotifier(pub))
			r.closers = append(r.closers, pub.Close)
		}
	}
	return r, nil
}

func newSource(cfg *config.Config) (gtm.Source, error) {
	switch cfg.Source.Type {
	case config.SourceTypeFile:
		return &gtm.FileSource{
			ExportPath:   cfg.Source.ExportFile,
			VersionsPath: cfg.Source.VersionsFile,
			WorkspaceID:  cfg.WorkspaceID,
		}, nil
	case config.SourceTypeAPI:
		return &gtm.LazySource{Open: func(ctx context.Context) (gtm.Source, error) {
			return gtm.NewAPISource(ctx, cfg.ContainerPath(), cfg.Source.CredentialsFile)
		}}, nil
	default:
		return nil, ferrors.ConfigError("unsupported source type").
			WithContext("type", string(cfg.Source.Type)).
			Build()
	}
}

// runOnce performs one export and always returns its report. The returned
// error covers sink setup and flush; both are logged here, and a sink that
// cannot be opened is recorded as an aborted run.
func (r *runner) runOnce(ctx context.Context) (*pipeline.Report, error) {
	sink, err := r.newSink(ctx)
	if err != nil {
		return pipeline.NewDriver(r.settings, r.source, nil, r.options...).Abort(ctx, err), err
	}
	report := pipeline.NewDriver(r.settings, r.source, sink, r.options...).Run(ctx)
	if err := sink.Close(); err != nil {
		slog.Error("Failed to flush storage", logfields.Backend(string(r.cfg.Storage.Type)), logfields.Error(err))
		return report, err
	}
	return report, nil
}

// Close releases history and notification resources.
func (r *runner) Close() {
	for _, c := range r.closers {
		if err := c(); err != nil {
			slog.Warn("Failed to close resource", logfields.Error(err))
		}
	}
	r.closers = nil
}
