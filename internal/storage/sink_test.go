package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/gtmdocs/internal/config"
	ferrors "git.home.luguber.info/inful/gtmdocs/internal/foundation/errors"
)

func TestCleanName(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "trigger/README.md", want: "trigger/README.md"},
		{in: "./versions.md", want: "versions.md"},
		{in: "tag//README.md", want: "tag/README.md"},
		{in: "", wantErr: true},
		{in: "/etc/passwd", wantErr: true},
		{in: "../escape.md", wantErr: true},
		{in: "a/../../escape.md", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := cleanName(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, ferrors.HasCategory(err, ferrors.CategoryValidation))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNew_SelectsBackend(t *testing.T) {
	ctx := context.Background()

	s, err := New(ctx, config.StorageConfig{Type: config.StorageTypeMemory})
	require.NoError(t, err)
	assert.IsType(t, &MemorySink{}, s)

	s, err = New(ctx, config.StorageConfig{Type: config.StorageTypeFS, Directory: t.TempDir()})
	require.NoError(t, err)
	assert.IsType(t, &FSSink{}, s)

	s, err = New(ctx, config.StorageConfig{
		Type:      config.StorageTypeGCS,
		Endpoint:  "storage.googleapis.com",
		Bucket:    "gtm-doctags",
		AccessKey: "GOOG1EXAMPLE",
		SecretKey: "secret",
	})
	require.NoError(t, err)
	assert.IsType(t, &ObjectSink{}, s)

	_, err = New(ctx, config.StorageConfig{
		Type:            config.StorageTypeGCS,
		Bucket:          "gtm-doctags",
		CredentialsFile: filepath.Join(t.TempDir(), "missing-key.json"),
	})
	require.Error(t, err, "gcs without hmac keys uses google credentials")
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryAuth))

	_, err = New(ctx, config.StorageConfig{Type: "ftp"})
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryConfig))
}

func TestFSSink_SaveCreatesDirectoriesAndReplaces(t *testing.T) {
	root := filepath.Join(t.TempDir(), "docs")
	sink, err := NewFSSink(root)
	require.NoError(t, err)
	defer func() { _ = sink.Close() }()

	ctx := context.Background()
	require.NoError(t, sink.Save(ctx, "trigger/README.md", []byte("first")))
	require.NoError(t, sink.Save(ctx, "trigger/README.md", []byte("second")))

	got, err := os.ReadFile(filepath.Join(root, "trigger", "README.md"))
	require.NoError(t, err)
	assert.Equal(t, "second", string(got))

	entries, err := os.ReadDir(filepath.Join(root, "trigger"))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary files are removed")
}

func TestFSSink_RejectsEscapingNames(t *testing.T) {
	sink, err := NewFSSink(t.TempDir())
	require.NoError(t, err)
	assert.Error(t, sink.Save(context.Background(), "../outside.md", []byte("x")))
}

func TestFSSink_CancelledContext(t *testing.T) {
	sink, err := NewFSSink(t.TempDir())
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, sink.Save(ctx, "versions.md", nil), context.Canceled)
}

func TestMemorySink(t *testing.T) {
	sink := NewMemorySink()
	ctx := context.Background()
	boom := errors.New("boom")
	sink.FailOn("tag/README.md", boom)

	body := []byte("hello")
	require.NoError(t, sink.Save(ctx, "versions.md", body))
	body[0] = 'j'
	assert.ErrorIs(t, sink.Save(ctx, "tag/README.md", []byte("x")), boom)

	got, ok := sink.Get("versions.md")
	require.True(t, ok)
	assert.Equal(t, "hello", string(got), "stored bodies are copies")
	assert.Equal(t, []string{"versions.md"}, sink.Names())
	assert.Equal(t, 2, sink.Saves())

	require.NoError(t, sink.Close())
	assert.True(t, sink.Closed())
}

func TestObjectSink_ConfigErrors(t *testing.T) {
	_, err := NewObjectSink(ObjectConfig{Bucket: "b", AccessKey: "a", SecretKey: "s"})
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryConfig))

	_, err = NewObjectSink(ObjectConfig{Endpoint: "minio:9000", Bucket: "b"})
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryConfig))

	_, err = NewObjectSink(ObjectConfig{Endpoint: "minio:9000", AccessKey: "a", SecretKey: "s"})
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryConfig))
}

func TestObjectSink_Keys(t *testing.T) {
	s, err := NewObjectSink(ObjectConfig{Endpoint: "minio:9000", Bucket: "b", AccessKey: "a", SecretKey: "s", Prefix: "/gtm/200/"})
	require.NoError(t, err)
	assert.Equal(t, "gtm/200", s.prefix)
	assert.Equal(t, "gtm/200/tag/README.md", joinKey(s.prefix, "tag/README.md"))
	assert.Equal(t, "versions.md", joinKey("", "versions.md"))

	assert.Equal(t, "text/markdown; charset=utf-8", contentType("versions.md"))
	assert.Equal(t, "application/octet-stream", contentType("data.bin"))
}
