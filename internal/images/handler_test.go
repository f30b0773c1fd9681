package images

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reviewboard/service/internal/storage"
)

type fakeFetcher struct {
	objects     map[string][]byte
	contentType string
}

func (f *fakeFetcher) Fetch(ctx context.Context, key string) (io.ReadCloser, string, int64, error) {
	data, ok := f.objects[key]
	if !ok {
		return nil, "", 0, errors.New("no such object")
	}
	return io.NopCloser(bytes.NewReader(data)), f.contentType, int64(len(data)), nil
}

func newProxyServer(f *fakeFetcher) *httptest.Server {
	r := chi.NewRouter()
	r.Get("/images/{key}", NewHandler(f).Serve)
	return httptest.NewServer(r)
}

func TestServe_StreamsObject(t *testing.T) {
	fetcher := &fakeFetcher{
		objects:     map[string][]byte{"abc.png": []byte("png bytes")},
		contentType: "image/png",
	}
	srv := newProxyServer(fetcher)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/images/abc.png")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/png", resp.Header.Get("Content-Type"))
	assert.Equal(t, "9", resp.Header.Get("Content-Length"))
	assert.Equal(t, `inline; filename="abc.png"`, resp.Header.Get("Content-Disposition"))
	assert.Equal(t, "max-age=3600", resp.Header.Get("Cache-Control"))

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, []byte("png bytes"), body)
}

func TestServe_AnyFailureIs404(t *testing.T) {
	srv := newProxyServer(&fakeFetcher{objects: map[string][]byte{}})
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/images/missing.png")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestLocalDir_ServesWithCaching(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "pic.jpg"), []byte("jpeg bytes"), 0o644))

	srv := httptest.NewServer(http.StripPrefix("/images", LocalDir(root)))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/images/pic.jpg")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "max-age=3600", resp.Header.Get("Cache-Control"))

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, []byte("jpeg bytes"), body)
}

// Store through the local backend, then fetch through its public surface:
// the served bytes and content type must match what was uploaded.
func TestLocalDir_StoreFetchRoundTrip(t *testing.T) {
	local, err := storage.NewLocal(t.TempDir(), "/images")
	require.NoError(t, err)

	content := []byte("\x89PNG fake image bytes")
	key, err := local.Store(context.Background(), &storage.Upload{
		Filename:    "shot.png",
		ContentType: "image/png",
		Size:        int64(len(content)),
		Data:        content,
	})
	require.NoError(t, err)

	srv := httptest.NewServer(http.StripPrefix("/images", LocalDir(local.Root())))
	defer srv.Close()

	resp, err := http.Get(srv.URL + local.URL(key))
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/png", resp.Header.Get("Content-Type"))

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, content, body)
}

func TestLocalDir_NoDirectoryListing(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "secret-key.jpg"), []byte("jpeg"), 0o644))

	srv := httptest.NewServer(http.StripPrefix("/images", LocalDir(root)))
	defer srv.Close()

	for _, path := range []string{"/images/", "/images"} {
		resp, err := http.Get(srv.URL + path)
		require.NoError(t, err)

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		require.NoError(t, err)

		assert.Equal(t, http.StatusNotFound, resp.StatusCode, "GET %s", path)
		assert.NotContains(t, string(body), "secret-key.jpg", "GET %s must not enumerate keys", path)
	}
}

func TestLocalDir_MissingFileIs404(t *testing.T) {
	srv := httptest.NewServer(http.StripPrefix("/images", LocalDir(t.TempDir())))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/images/nope.jpg")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
