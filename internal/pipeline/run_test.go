package pipeline

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ferrors "git.home.luguber.info/inful/gtmdocs/internal/foundation/errors"
	"git.home.luguber.info/inful/gtmdocs/internal/gtm"
	"git.home.luguber.info/inful/gtmdocs/internal/history"
	"git.home.luguber.info/inful/gtmdocs/internal/metrics"
	"git.home.luguber.info/inful/gtmdocs/internal/notify"
	"git.home.luguber.info/inful/gtmdocs/internal/render"
	"git.home.luguber.info/inful/gtmdocs/internal/storage"
)

var settings = Settings{AccountID: "100", ContainerID: "200"}

func fixtureSource(t *testing.T) *gtm.StaticSource {
	t.Helper()
	data, err := os.ReadFile("../gtm/testdata/export.json")
	require.NoError(t, err)
	cv, err := gtm.DecodeExport(data)
	require.NoError(t, err)
	headers, err := (&gtm.FileSource{VersionsPath: "../gtm/testdata/versions.json"}).VersionHeaders(context.Background())
	require.NoError(t, err)
	return &gtm.StaticSource{
		Version: cv,
		List:    &gtm.WorkspaceList{Workspace: []gtm.Workspace{{WorkspaceID: "4"}, {WorkspaceID: "9"}}},
		Headers: headers,
	}
}

type fakeHistory struct {
	mu   sync.Mutex
	runs []history.Run
}

func (f *fakeHistory) Record(_ context.Context, run history.Run) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.runs = append(f.runs, run)
	return nil
}

func (f *fakeHistory) LastFingerprints(_ context.Context, _ string) (map[string]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := map[string]string{}
	for _, r := range f.runs {
		for _, d := range r.Documents {
			if d.Error == "" {
				out[d.Name] = d.Fingerprint
			}
		}
	}
	return out, nil
}

type fakeNotifier struct {
	events []*notify.ExportCompletedEvent
}

func (f *fakeNotifier) Publish(_ context.Context, ev *notify.ExportCompletedEvent) error {
	f.events = append(f.events, ev)
	return nil
}

type countingRecorder struct {
	metrics.NoopRecorder
	mu       sync.Mutex
	outcomes []metrics.RunOutcomeLabel
	writes   map[string]bool
	entities map[string]int
}

func newCountingRecorder() *countingRecorder {
	return &countingRecorder{writes: map[string]bool{}, entities: map[string]int{}}
}

func (c *countingRecorder) IncRunOutcome(o metrics.RunOutcomeLabel) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.outcomes = append(c.outcomes, o)
}

func (c *countingRecorder) IncDocumentWrite(doc string, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.writes[doc] = ok
}

func (c *countingRecorder) SetEntityCount(kind string, n int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entities[kind] = n
}

func TestRun_WritesAllDocuments(t *testing.T) {
	sink := storage.NewMemorySink()
	rec := newCountingRecorder()
	notifier := &fakeNotifier{}

	report := NewDriver(settings, fixtureSource(t), sink, WithRecorder(rec), WithNotifier(notifier)).Run(context.Background())
	require.NoError(t, report.Err)

	assert.ElementsMatch(t, render.Names(), sink.Names())
	assert.Equal(t, "4", report.Workspace, "first workspace is used")
	assert.Equal(t, metrics.RunOutcomeSuccess, report.Outcome())
	assert.NotEmpty(t, report.RunID)
	assert.Empty(t, report.Warnings)

	triggers, _ := sink.Get(render.TriggersDocument)
	assert.Contains(t, string(triggers), "## Page View :id=trigger-1")
	assert.Contains(t, string(triggers), "- [(9) GA4 Tag](tag/?id=tag-9)")
	assert.Contains(t, string(triggers), "workspaces/4/triggers/1")

	variables, _ := sink.Get(render.VariablesDocument)
	assert.Contains(t, string(variables), "```javascript\nfunction(){return 1;}\n```")

	versions, _ := sink.Get(render.VersionsDocument)
	assert.Contains(t, string(versions), "|[12](https://tagmanager.google.com/#/versions/accounts/100/containers/200/versions/12)|v12|3|2|1|0|0|")

	for _, d := range report.Documents {
		assert.NotEmpty(t, d.Fingerprint)
		assert.True(t, rec.writes[d.Name])
	}
	assert.Equal(t, []metrics.RunOutcomeLabel{metrics.RunOutcomeSuccess}, rec.outcomes)
	assert.Equal(t, 2, rec.entities["trigger"])
	assert.Equal(t, 2, rec.entities["version"])

	require.Len(t, notifier.events, 1)
	assert.Equal(t, report.RunID, notifier.events[0].RunID)
	assert.Equal(t, "4", notifier.events[0].WorkspaceID)
	assert.Len(t, notifier.events[0].Documents, 4)
}

func TestRun_WorkspaceOverride(t *testing.T) {
	s := settings
	s.WorkspaceID = "77"
	sink := storage.NewMemorySink()
	report := NewDriver(s, fixtureSource(t), sink).Run(context.Background())
	require.NoError(t, report.Err)

	tags, _ := sink.Get(render.TagsDocument)
	assert.Contains(t, string(tags), "workspaces/77/tags/9")
}

func TestRun_Idempotent(t *testing.T) {
	hist := &fakeHistory{}
	src := fixtureSource(t)

	first := storage.NewMemorySink()
	r1 := NewDriver(settings, src, first, WithHistory(hist)).Run(context.Background())
	second := storage.NewMemorySink()
	r2 := NewDriver(settings, src, second, WithHistory(hist)).Run(context.Background())
	require.NoError(t, r1.Err)
	require.NoError(t, r2.Err)

	for _, name := range render.Names() {
		a, _ := first.Get(name)
		b, _ := second.Get(name)
		if diff := cmp.Diff(string(a), string(b)); diff != "" {
			t.Fatalf("%s differs between runs:\n%s", name, diff)
		}
	}
	assert.NotEqual(t, r1.RunID, r2.RunID)
	for i := range r1.Documents {
		assert.Equal(t, r1.Documents[i].Fingerprint, r2.Documents[i].Fingerprint)
		assert.False(t, r1.Documents[i].Unchanged)
		assert.True(t, r2.Documents[i].Unchanged)
	}
	assert.Len(t, hist.runs, 2)
}

func TestRun_OneFailingWriteDoesNotBlockOthers(t *testing.T) {
	sink := storage.NewMemorySink()
	sink.FailOn(render.TagsDocument, errors.New("permission denied"))
	hist := &fakeHistory{}

	report := NewDriver(settings, fixtureSource(t), sink, WithHistory(hist)).Run(context.Background())
	require.NoError(t, report.Err)

	assert.Equal(t, 4, sink.Saves())
	assert.ElementsMatch(t, []string{render.TriggersDocument, render.VariablesDocument, render.VersionsDocument}, sink.Names())
	require.Len(t, report.Failed(), 1)
	assert.Equal(t, render.TagsDocument, report.Failed()[0].Name)
	assert.Equal(t, metrics.RunOutcomePartial, report.Outcome())

	require.Len(t, hist.runs, 1)
	assert.Equal(t, "partial", hist.runs[0].Outcome)
}

func TestRun_FetchFailureWritesNothing(t *testing.T) {
	sink := storage.NewMemorySink()
	hist := &fakeHistory{}
	src := &gtm.StaticSource{FetchErr: ferrors.NetworkError("tag manager unavailable").Build()}

	report := NewDriver(settings, src, sink, WithHistory(hist)).Run(context.Background())
	require.Error(t, report.Err)
	assert.True(t, ferrors.HasCategory(report.Err, ferrors.CategoryNetwork))
	assert.Zero(t, sink.Saves())
	assert.Empty(t, report.Documents)
	assert.Equal(t, metrics.RunOutcomeFailed, report.Outcome())

	require.Len(t, hist.runs, 1)
	assert.Equal(t, "failed", hist.runs[0].Outcome)
	assert.Contains(t, hist.runs[0].Error, "tag manager unavailable")
}

func TestAbort_RecordsFailedRun(t *testing.T) {
	hist := &fakeHistory{}
	notifier := &fakeNotifier{}
	rec := newCountingRecorder()
	cause := ferrors.StorageError("clone docs repository").WithCause(errors.New("repository not found")).Build()

	report := NewDriver(settings, fixtureSource(t), nil,
		WithHistory(hist), WithNotifier(notifier), WithRecorder(rec)).Abort(context.Background(), cause)

	require.ErrorIs(t, report.Err, cause)
	assert.NotEmpty(t, report.RunID)
	assert.Empty(t, report.Documents)
	assert.Equal(t, metrics.RunOutcomeFailed, report.Outcome())
	assert.Equal(t, []metrics.RunOutcomeLabel{metrics.RunOutcomeFailed}, rec.outcomes)

	require.Len(t, hist.runs, 1)
	assert.Equal(t, "failed", hist.runs[0].Outcome)
	assert.Contains(t, hist.runs[0].Error, "clone docs repository")
	require.Len(t, notifier.events, 1)
	assert.Equal(t, report.RunID, notifier.events[0].RunID)
}

func TestRun_JavaScriptVariableWithoutScriptWritesNothing(t *testing.T) {
	src := fixtureSource(t)
	src.Version.Variable = append(src.Version.Variable, gtm.Variable{VariableID: "99", Name: "Broken", Type: "jsm"})
	sink := storage.NewMemorySink()

	report := NewDriver(settings, src, sink).Run(context.Background())
	require.Error(t, report.Err)
	assert.True(t, ferrors.HasCategory(report.Err, ferrors.CategoryDataIntegrity))
	assert.Zero(t, sink.Saves())
}

func TestRun_UnresolvedReferences(t *testing.T) {
	src := fixtureSource(t)
	src.Version.Tag[0].FiringTriggerID = append(src.Version.Tag[0].FiringTriggerID, "404")

	lenient := storage.NewMemorySink()
	report := NewDriver(settings, src, lenient).Run(context.Background())
	require.NoError(t, report.Err)
	assert.NotEmpty(t, report.Warnings)
	tags, _ := lenient.Get(render.TagsDocument)
	assert.Contains(t, string(tags), "- [(404) undefined](trigger/?id=trigger-404)")

	strict := settings
	strict.StrictReferences = true
	sink := storage.NewMemorySink()
	report = NewDriver(strict, src, sink).Run(context.Background())
	require.Error(t, report.Err)
	assert.True(t, ferrors.HasCategory(report.Err, ferrors.CategoryValidation))
	assert.Zero(t, sink.Saves())
}

func TestRun_NoWorkspace(t *testing.T) {
	src := fixtureSource(t)
	src.List = &gtm.WorkspaceList{}
	sink := storage.NewMemorySink()

	report := NewDriver(settings, src, sink).Run(context.Background())
	require.Error(t, report.Err)
	assert.Zero(t, sink.Saves())
}

func TestRun_EmptyContainer(t *testing.T) {
	src := &gtm.StaticSource{List: &gtm.WorkspaceList{Workspace: []gtm.Workspace{{WorkspaceID: "1"}}}}
	sink := storage.NewMemorySink()

	report := NewDriver(settings, src, sink).Run(context.Background())
	require.NoError(t, report.Err)
	body, ok := sink.Get(render.TriggersDocument)
	require.True(t, ok)
	assert.Empty(t, body)
	versions, _ := sink.Get(render.VersionsDocument)
	assert.Contains(t, string(versions), "## Versions")
}

func TestRun_UsesClockForTimings(t *testing.T) {
	base := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	var mu sync.Mutex
	tick := 0
	clock := func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		tick++
		return base.Add(time.Duration(tick) * time.Second)
	}

	report := NewDriver(settings, fixtureSource(t), storage.NewMemorySink(), withClock(clock)).Run(context.Background())
	require.NoError(t, report.Err)
	assert.True(t, report.FinishedAt.After(report.StartedAt))
	assert.Positive(t, report.Duration())
}
