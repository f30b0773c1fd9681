// Package images exposes stored objects at the public image prefix. The
// local backend is served straight from disk with HTTP caching; the remote
// backend is not browser-reachable, so a proxy handler streams object bytes
// back on demand.
package images

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
)

// cacheSeconds is how long browsers may reuse a served image. Keys are
// unique per object and objects are never mutated in place, so caching is
// always safe.
const cacheSeconds = 3600

// Fetcher opens a stored object for streaming. Implemented by the MinIO
// backend.
type Fetcher interface {
	Fetch(ctx context.Context, key string) (io.ReadCloser, string, int64, error)
}

// Handler streams remote objects back to browsers.
type Handler struct {
	fetcher Fetcher
}

// NewHandler creates a proxy Handler over the given fetcher.
func NewHandler(fetcher Fetcher) *Handler {
	return &Handler{fetcher: fetcher}
}

// Serve streams the object named by the key path parameter. Any fetch
// failure is answered with 404: a missing object and a transient store error
// look the same to the person waiting for an image.
func (h *Handler) Serve(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")

	rc, contentType, size, err := h.fetcher.Fetch(r.Context(), key)
	if err != nil {
		log.Printf("images: fetch %q: %v", key, err)
		http.NotFound(w, r)
		return
	}
	defer rc.Close()

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", strconv.FormatInt(size, 10))
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", key))
	w.Header().Set("Cache-Control", fmt.Sprintf("max-age=%d", cacheSeconds))

	if _, err := io.Copy(w, rc); err != nil {
		log.Printf("images: stream %q: %v", key, err)
	}
}

// LocalDir serves the local backend's root directory with browser caching.
// Mount it under the public prefix with http.StripPrefix. Only single keys
// are served; directory paths answer 404 so the stored keys cannot be
// enumerated through a file-server listing.
func LocalDir(root string) http.Handler {
	fs := http.FileServer(http.Dir(root))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "" || strings.HasSuffix(r.URL.Path, "/") {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Cache-Control", fmt.Sprintf("max-age=%d", cacheSeconds))
		fs.ServeHTTP(w, r)
	})
}
