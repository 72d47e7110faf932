package storage

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"

	ferrors "git.home.luguber.info/inful/gtmdocs/internal/foundation/errors"
)

type gcsUpload struct {
	path       string
	uploadType string
	body       string
}

func fakeGCS(t *testing.T, status int) (*httptest.Server, func() []gcsUpload) {
	t.Helper()
	var (
		mu      sync.Mutex
		uploads []gcsUpload
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		mu.Lock()
		uploads = append(uploads, gcsUpload{path: r.URL.Path, uploadType: r.URL.Query().Get("uploadType"), body: string(body)})
		mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if status >= 300 {
			_, _ = io.WriteString(w, `{"error":{"code":403,"message":"forbidden"}}`)
			return
		}
		_, _ = io.WriteString(w, `{"bucket":"gtm-doctags","name":"uploaded"}`)
	}))
	t.Cleanup(srv.Close)
	return srv, func() []gcsUpload {
		mu.Lock()
		defer mu.Unlock()
		return append([]gcsUpload(nil), uploads...)
	}
}

func testGCSSink(t *testing.T, url string, prefix string) *GCSSink {
	t.Helper()
	sink, err := newGCSSink(context.Background(), GCSConfig{Bucket: "gtm-doctags", Prefix: prefix},
		option.WithEndpoint(url+"/storage/v1/"),
		option.WithoutAuthentication(),
	)
	require.NoError(t, err)
	return sink
}

func TestGCSSink_UploadsUnderPrefix(t *testing.T) {
	srv, uploads := fakeGCS(t, http.StatusOK)
	sink := testGCSSink(t, srv.URL, "/gtm/")

	require.NoError(t, sink.Save(context.Background(), "trigger/README.md", []byte("## Page View :id=trigger-1\n")))
	require.NoError(t, sink.Close())

	got := uploads()
	require.Len(t, got, 1)
	assert.Equal(t, "/upload/storage/v1/b/gtm-doctags/o", got[0].path)
	assert.Equal(t, "multipart", got[0].uploadType)
	assert.Contains(t, got[0].body, `"name":"gtm/trigger/README.md"`)
	assert.Contains(t, got[0].body, "## Page View :id=trigger-1")
}

func TestGCSSink_UploadFailureIsStorageError(t *testing.T) {
	srv, _ := fakeGCS(t, http.StatusForbidden)
	sink := testGCSSink(t, srv.URL, "")

	err := sink.Save(context.Background(), "versions.md", []byte("|v|"))
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryStorage))
}

func TestGCSSink_RejectsBadInput(t *testing.T) {
	_, err := newGCSSink(context.Background(), GCSConfig{}, option.WithoutAuthentication())
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryConfig))

	sink := testGCSSink(t, "http://127.0.0.1:0", "")
	err = sink.Save(context.Background(), "../escape.md", []byte("x"))
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryValidation))
}
