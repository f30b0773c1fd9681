// Package storage provides the pluggable image storage backend: one contract
// with a local-disk and an S3-compatible (MinIO) implementation. Exactly one
// variant is constructed at startup based on configuration; there is no
// runtime switching.
package storage

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
)

// Storage is the capability contract every backend implements.
type Storage interface {
	// Store validates the upload, persists its bytes under a freshly
	// generated key, and returns that key.
	Store(ctx context.Context, u *Upload) (string, error)
	// Delete removes the object identified by key. Deleting an absent key is
	// not an error.
	Delete(ctx context.Context, key string) error
	// URL returns the public locator for a key. Pure, no I/O.
	URL(key string) string
}

var errUnsafeKey = errors.New("object key contains a path traversal sequence or separator")

// newObjectKey generates a unique object key as <uuid><extension>. The
// extension comes from a caller-controlled filename, so the assembled key is
// rejected if it carries a parent-directory sequence or a path separator.
// Accepted keys are always a single path segment, which keeps them
// addressable by the /{key} proxy route and lets callers recover the key
// from a locator's final segment.
func newObjectKey(u *Upload) (string, error) {
	key := uuid.New().String() + u.Extension()
	if strings.Contains(key, "..") || strings.ContainsAny(key, `/\`) {
		return "", &StorageError{Op: "store", Key: key, Err: errUnsafeKey}
	}
	return key, nil
}
