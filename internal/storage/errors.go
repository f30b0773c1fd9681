package storage

import (
	"errors"
	"fmt"
)

// ErrEmptyUpload is returned when an upload is absent or has no content.
var ErrEmptyUpload = errors.New("empty upload")

// ErrUnsupportedType is returned when the declared content type is not an
// allowed image type.
var ErrUnsupportedType = errors.New("unsupported file type")

// ErrKeyConflict is returned when a freshly generated object key already
// exists in the backend. Keys are UUID-based, so hitting this means something
// is seriously wrong.
var ErrKeyConflict = errors.New("object key already exists")

// ErrObjectNotFound is returned when a stored object cannot be fetched.
var ErrObjectNotFound = errors.New("object not found")

// StorageError wraps an I/O or network failure during a storage operation.
type StorageError struct {
	Op  string // "store", "delete", "fetch"
	Key string
	Err error
}

func (e *StorageError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("storage: %s %q failed", e.Op, e.Key)
	}
	return fmt.Sprintf("storage: %s %q: %v", e.Op, e.Key, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
