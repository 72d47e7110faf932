package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/inful/mdfp"
	"golang.org/x/sync/errgroup"

	ferrors "git.home.luguber.info/inful/gtmdocs/internal/foundation/errors"
	"git.home.luguber.info/inful/gtmdocs/internal/gtm"
	"git.home.luguber.info/inful/gtmdocs/internal/logfields"
	"git.home.luguber.info/inful/gtmdocs/internal/metrics"
	"git.home.luguber.info/inful/gtmdocs/internal/observability"
	"git.home.luguber.info/inful/gtmdocs/internal/projection"
	"git.home.luguber.info/inful/gtmdocs/internal/render"
	"git.home.luguber.info/inful/gtmdocs/internal/verify"
)

// Stage names used in logs and metrics.
const (
	StageFetch   = "fetch"
	StageProject = "project"
	StageVerify  = "verify"
	StagePersist = "persist"
)

type snapshot struct {
	version   *gtm.ContainerVersion
	workspace string
	headers   []gtm.VersionHeader
}

// Run performs one export. It always returns a report; the report's Err
// is set when the run aborted before any document was written.
func (d *Driver) Run(ctx context.Context) *Report {
	ctx, report := d.begin(ctx)
	observability.InfoContext(ctx, "Starting export")

	docs, err := d.prepare(ctx, report)
	if err != nil {
		report.Err = err
	} else {
		report.Documents = d.persist(observability.WithStage(ctx, StagePersist), docs)
	}

	report.FinishedAt = d.now()
	d.finish(ctx, report)
	return report
}

// Abort records a run that failed before it could start, for example
// because the storage backend could not be opened. History, events and
// metrics see it like any other failed run.
func (d *Driver) Abort(ctx context.Context, cause error) *Report {
	ctx, report := d.begin(ctx)
	report.Err = cause
	report.FinishedAt = d.now()
	d.finish(ctx, report)
	return report
}

func (d *Driver) begin(ctx context.Context) (context.Context, *Report) {
	report := &Report{
		RunID:     uuid.NewString(),
		Container: d.settings.ContainerPath(),
		StartedAt: d.now(),
	}
	ctx = observability.WithRunID(ctx, report.RunID)
	ctx = observability.WithContainer(ctx, report.Container)
	return ctx, report
}

// prepare fetches, projects, renders and verifies. Nothing is written.
func (d *Driver) prepare(ctx context.Context, report *Report) ([]render.Document, error) {
	var snap *snapshot
	err := d.stage(ctx, StageFetch, func(ctx context.Context) error {
		var err error
		snap, err = d.fetch(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	report.Workspace = snap.workspace

	links := projection.Links{
		AccountID:   d.settings.AccountID,
		ContainerID: d.settings.ContainerID,
		WorkspaceID: snap.workspace,
	}

	var docs []render.Document
	err = d.stage(ctx, StageProject, func(ctx context.Context) error {
		res, err := projection.Project(snap.version, links, projection.Options{SanitizeNotes: d.settings.SanitizeNotes})
		if err != nil {
			return err
		}
		d.recorder.SetEntityCount(string(projection.KindTrigger), len(res.Triggers))
		d.recorder.SetEntityCount(string(projection.KindTag), len(res.Tags))
		d.recorder.SetEntityCount(string(projection.KindVariable), len(res.Variables))
		d.recorder.SetEntityCount("version", len(snap.headers))

		for _, w := range res.Warnings {
			observability.WarnContext(ctx, "Unresolved reference",
				logfields.Kind(string(w.Kind)),
				logfields.EntityID(w.EntityID),
				slog.String("reference", w.Reference),
				slog.String("missing_id", w.MissingID))
			report.Warnings = append(report.Warnings, w.String())
		}
		if d.settings.StrictReferences && len(res.Warnings) > 0 {
			return ferrors.ValidationError("container has unresolved references").
				WithContext("count", len(res.Warnings)).
				WithContext("first", res.Warnings[0].String()).
				Build()
		}
		docs = render.All(res, snap.headers, links)
		return nil
	})
	if err != nil {
		return nil, err
	}

	_ = d.stage(ctx, StageVerify, func(ctx context.Context) error {
		for _, f := range verify.Check(docs) {
			observability.WarnContext(ctx, "Dangling cross reference",
				logfields.Document(f.Document),
				slog.String("link", f.Link),
				slog.String("anchor", f.Anchor))
			report.Warnings = append(report.Warnings, f.String())
		}
		return nil
	})
	return docs, nil
}

func (d *Driver) fetch(ctx context.Context) (*snapshot, error) {
	version, err := d.source.LiveVersion(ctx)
	if err != nil {
		return nil, err
	}
	workspaces, err := d.source.Workspaces(ctx)
	if err != nil {
		return nil, err
	}
	headers, err := d.source.VersionHeaders(ctx)
	if err != nil {
		return nil, err
	}

	workspace := d.settings.WorkspaceID
	if workspace == "" {
		workspace = workspaces.Primary()
	}
	if workspace == "" {
		return nil, ferrors.ValidationError("container has no workspace for editor links").
			WithContext("container", d.settings.ContainerPath()).
			Build()
	}
	if version == nil {
		version = &gtm.ContainerVersion{}
	}

	observability.InfoContext(ctx, "Fetched container",
		logfields.Workspace(workspace),
		slog.Int("triggers", len(version.Trigger)),
		slog.Int("tags", len(version.Tag)),
		slog.Int("variables", len(version.Variable)),
		slog.Int("versions", len(headers)))
	return &snapshot{version: version, workspace: workspace, headers: headers}, nil
}

// stage times fn and records its result.
func (d *Driver) stage(ctx context.Context, name string, fn func(context.Context) error) error {
	ctx = observability.WithStage(ctx, name)
	start := d.now()
	err := fn(ctx)
	elapsed := d.now().Sub(start)
	d.recorder.ObserveStageDuration(name, elapsed)

	if err != nil {
		d.recorder.IncStageResult(name, metrics.ResultFailed)
		observability.ErrorContext(ctx, "Stage failed", logfields.Error(err), logfields.DurationMS(msec(elapsed)))
		return err
	}
	d.recorder.IncStageResult(name, metrics.ResultSuccess)
	observability.DebugContext(ctx, "Stage complete", logfields.DurationMS(msec(elapsed)))
	return nil
}

// persist writes all documents concurrently. A failed write is logged and
// recorded; it neither cancels nor retries the others.
func (d *Driver) persist(ctx context.Context, docs []render.Document) []DocumentResult {
	start := d.now()
	previous := d.previousFingerprints(ctx)

	results := make([]DocumentResult, len(docs))
	var g errgroup.Group
	for i, doc := range docs {
		g.Go(func() error {
			body := []byte(doc.Body)
			fp := mdfp.CalculateFingerprintFromParts("", doc.Body)
			res := DocumentResult{
				Name:        doc.Name,
				Bytes:       len(body),
				Fingerprint: fp,
				Unchanged:   previous[doc.Name] == fp,
			}
			res.Err = d.sink.Save(ctx, doc.Name, body)
			d.recorder.IncDocumentWrite(doc.Name, res.Err == nil)
			if res.Err != nil {
				observability.ErrorContext(ctx, "Failed to save document",
					logfields.Document(doc.Name),
					logfields.Error(res.Err))
			} else {
				observability.InfoContext(ctx, "Saved document",
					logfields.Document(doc.Name),
					logfields.Bytes(res.Bytes),
					slog.String("fingerprint", fp),
					slog.Bool("unchanged", res.Unchanged))
			}
			results[i] = res
			return nil
		})
	}
	_ = g.Wait()

	elapsed := d.now().Sub(start)
	d.recorder.ObserveStageDuration(StagePersist, elapsed)
	result := metrics.ResultSuccess
	for _, r := range results {
		if r.Err != nil {
			result = metrics.ResultWarning
			break
		}
	}
	d.recorder.IncStageResult(StagePersist, result)
	return results
}

func (d *Driver) previousFingerprints(ctx context.Context) map[string]string {
	if d.history == nil {
		return nil
	}
	fps, err := d.history.LastFingerprints(ctx, d.settings.ContainerPath())
	if err != nil {
		observability.WarnContext(ctx, "Failed to read previous fingerprints", logfields.Error(err))
		return nil
	}
	return fps
}

func msec(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
