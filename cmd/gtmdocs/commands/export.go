package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os/signal"
	"syscall"

	"git.home.luguber.info/inful/gtmdocs/internal/config"
	ferrors "git.home.luguber.info/inful/gtmdocs/internal/foundation/errors"
	"git.home.luguber.info/inful/gtmdocs/internal/logfields"
	"git.home.luguber.info/inful/gtmdocs/internal/pipeline"
	"git.home.luguber.info/inful/gtmdocs/internal/render"
	"git.home.luguber.info/inful/gtmdocs/internal/storage"
)

// ExportCmd implements the 'export' command.
type ExportCmd struct {
	DryRun      bool   `name:"dry-run" help:"Render documents to stdout instead of writing them to storage"`
	FailOnError bool   `name:"fail-on-error" help:"Exit non-zero when the export aborts or a document could not be written"`
	Workspace   string `short:"w" help:"Workspace id used in editor links (overrides the first workspace)"`
}

func (e *ExportCmd) Run(g *Global, root *CLI) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	return e.run(ctx, g, root.Config)
}

func (e *ExportCmd) run(ctx context.Context, g *Global, configPath string) error {
	cfg, err := loadConfig(configPath, func(cfg *config.Config) {
		if e.Workspace != "" {
			cfg.WorkspaceID = e.Workspace
		}
		if e.DryRun {
			cfg.Storage.Type = config.StorageTypeMemory
		}
	})
	if err != nil {
		return err
	}

	r, err := newRunner(ctx, cfg)
	if err != nil {
		if ferrors.HasCategory(err, ferrors.CategoryConfig) {
			return err
		}
		slog.Error("Export aborted", slog.String("category", string(ferrors.GetCategory(err))), logfields.Error(err))
		return e.runError(err)
	}
	defer r.Close()

	var mem *storage.MemorySink
	if e.DryRun {
		mem = storage.NewMemorySink()
		r.newSink = func(context.Context) (storage.Sink, error) { return mem, nil }
	}

	report, err := r.runOnce(ctx)
	if mem != nil && report != nil && report.Err == nil {
		printDocuments(g.out(), mem)
	}
	if err != nil {
		return e.runError(err)
	}
	return e.runError(reportError(report))
}

// runError applies the fire and forget contract: run failures are already
// logged and only fail the command with --fail-on-error.
func (e *ExportCmd) runError(err error) error {
	if !e.FailOnError {
		return nil
	}
	return err
}

// reportError turns a finished report into the command's error.
func reportError(report *pipeline.Report) error {
	if report.Err != nil {
		return report.Err
	}
	if failed := report.Failed(); len(failed) > 0 {
		return ferrors.StorageError("documents could not be written").WithCause(failed[0].Err).
			WithContext("failed", len(failed)).
			WithContext("first", failed[0].Name).
			Build()
	}
	return nil
}

func printDocuments(w io.Writer, mem *storage.MemorySink) {
	for _, name := range render.Names() {
		body, ok := mem.Get(name)
		if !ok {
			continue
		}
		_, _ = fmt.Fprintf(w, "==> %s <==\n%s\n", name, body)
	}
}
