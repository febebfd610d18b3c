package blob_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"

	"github.com/absmach/fastflow/pkg/blob"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeS3 serves path-style PUT and GET object requests from memory.
type fakeS3 struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func (f *fakeS3) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch r.Method {
	case http.MethodPut:
		data, err := io.ReadAll(r.Body)
		if err != nil {
			w.WriteHeader(http.StatusInternalServerError)

			return
		}
		f.objects[r.URL.Path] = data
		w.Header().Set("ETag", `"etag"`)
		w.WriteHeader(http.StatusOK)
	case http.MethodGet:
		data, ok := f.objects[r.URL.Path]
		if !ok {
			w.Header().Set("Content-Type", "application/xml")
			w.WriteHeader(http.StatusNotFound)
			_, _ = io.WriteString(w, `<Error><Code>NoSuchKey</Code><Message>missing</Message></Error>`)

			return
		}
		w.Header().Set("Content-Length", strconv.Itoa(len(data)))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func newStore(t *testing.T) (blob.Store, *fakeS3) {
	t.Helper()

	fake := &fakeS3{objects: map[string][]byte{}}
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	store, err := blob.NewS3(blob.Config{
		Bucket:    "results",
		Region:    "us-east-1",
		Endpoint:  srv.URL,
		AccessKey: "key",
		SecretKey: "secret",
		Prefix:    "estimates/",
	})
	require.NoError(t, err)

	return store, fake
}

func TestUploadDownload(t *testing.T) {
	t.Parallel()

	store, fake := newStore(t)
	ctx := context.Background()

	doc := []byte(`{"pi_estimate":3.14}`)
	require.NoError(t, store.Upload(ctx, "run-1.json", doc))

	fake.mu.Lock()
	assert.Equal(t, doc, fake.objects["/results/estimates/run-1.json"])
	fake.mu.Unlock()

	got, err := store.Download(ctx, "run-1.json")
	require.NoError(t, err)
	assert.Equal(t, doc, got)

	_, err = store.Download(ctx, "missing.json")
	assert.Error(t, err)
}

func TestEmptyArguments(t *testing.T) {
	t.Parallel()

	_, err := blob.NewS3(blob.Config{})
	require.ErrorIs(t, err, blob.ErrEmptyBucket)

	store, _ := newStore(t)
	require.ErrorIs(t, store.Upload(context.Background(), "", nil), blob.ErrEmptyKey)
	_, err = store.Download(context.Background(), "")
	require.ErrorIs(t, err, blob.ErrEmptyKey)
}
