package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func run(id string, started time.Time, docs ...Document) Run {
	return Run{
		ID:         id,
		Container:  "accounts/1/containers/2",
		StartedAt:  started,
		FinishedAt: started.Add(2 * time.Second),
		Outcome:    "success",
		Documents:  docs,
	}
}

func TestRecordAndGet(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()
	started := time.UnixMilli(1_700_000_000_123)

	r := run("run-1", started,
		Document{Name: "versions.md", Bytes: 120, Fingerprint: "abc"},
		Document{Name: "tag/README.md", Bytes: 0, Fingerprint: "def", Error: "upload failed"},
	)
	r.Outcome = "partial"
	r.Warnings = 2
	require.NoError(t, store.Record(ctx, r))

	got, err := store.Get(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, "partial", got.Outcome)
	assert.Equal(t, 2, got.Warnings)
	assert.True(t, got.StartedAt.Equal(started))
	require.Len(t, got.Documents, 2)
	assert.Equal(t, "tag/README.md", got.Documents[0].Name, "documents are sorted by name")
	assert.Equal(t, "upload failed", got.Documents[0].Error)

	_, err = store.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRecordDuplicateIDFails(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()
	require.NoError(t, store.Record(ctx, run("dup", time.Now())))
	assert.Error(t, store.Record(ctx, run("dup", time.Now())))
}

func TestRecentNewestFirst(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()
	base := time.Now().Add(-time.Hour)
	for i, id := range []string{"a", "b", "c"} {
		require.NoError(t, store.Record(ctx, run(id, base.Add(time.Duration(i)*time.Minute))))
	}

	runs, err := store.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "c", runs[0].ID)
	assert.Equal(t, "b", runs[1].ID)
}

func TestLastFingerprints(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()
	base := time.Now().Add(-time.Hour)

	require.NoError(t, store.Record(ctx, run("1", base,
		Document{Name: "versions.md", Fingerprint: "v1"},
		Document{Name: "tag/README.md", Fingerprint: "t1"},
	)))
	require.NoError(t, store.Record(ctx, run("2", base.Add(time.Minute),
		Document{Name: "versions.md", Fingerprint: "v2"},
		Document{Name: "tag/README.md", Fingerprint: "t2", Error: "boom"},
	)))

	fps, err := store.LastFingerprints(ctx, "accounts/1/containers/2")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"versions.md": "v2", "tag/README.md": "t1"}, fps)

	other, err := store.LastFingerprints(ctx, "accounts/9/containers/9")
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestOpenInMemory(t *testing.T) {
	store, err := Open(":memory:")
	require.NoError(t, err)
	defer func() { _ = store.Close() }()
	require.NoError(t, store.Record(context.Background(), run("m", time.Now())))
}
