package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Local stores objects as files under a root directory on the local disk.
// Objects are served statically at the public prefix by the HTTP layer.
type Local struct {
	root      string
	urlPrefix string
}

// NewLocal resolves root to an absolute, cleaned path and creates it if
// needed. Failure to create the root is a construction-time error; the
// process should not start without a writable upload directory.
func NewLocal(root, urlPrefix string) (*Local, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve upload dir %q: %w", root, err)
	}
	abs = filepath.Clean(abs)
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir %q: %w", abs, err)
	}
	return &Local{root: abs, urlPrefix: strings.TrimRight(urlPrefix, "/")}, nil
}

// Root returns the absolute upload directory, for mounting the static file
// server.
func (l *Local) Root() string {
	return l.root
}

// Store validates the upload and writes its bytes to a new file named
// <uuid><extension> under the root.
func (l *Local) Store(ctx context.Context, u *Upload) (string, error) {
	if err := u.Validate(); err != nil {
		return "", err
	}

	key, err := newObjectKey(u)
	if err != nil {
		return "", err
	}

	target := filepath.Join(l.root, key)
	if _, err := os.Stat(target); err == nil {
		return "", ErrKeyConflict
	}

	if err := os.WriteFile(target, u.Data, 0o644); err != nil {
		return "", &StorageError{Op: "store", Key: key, Err: err}
	}
	return key, nil
}

// Delete removes the object's file. A missing file is success.
func (l *Local) Delete(ctx context.Context, key string) error {
	if key == "" || strings.Contains(key, "..") {
		return nil
	}
	err := os.Remove(filepath.Join(l.root, key))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return &StorageError{Op: "delete", Key: key, Err: err}
	}
	return nil
}

// URL returns the static-serving path for a key, e.g. "/images/abc.jpg".
func (l *Local) URL(key string) string {
	return l.urlPrefix + "/" + key
}
