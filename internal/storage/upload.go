package storage

import "strings"

// allowedTypes are the declared content types accepted for image uploads.
var allowedTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// Upload is a fully buffered inbound file. The bytes are materialized before
// any backend is involved, so a failed store never leaves a half-written
// object behind a reader.
type Upload struct {
	Filename    string
	ContentType string
	Size        int64
	Data        []byte
}

// Empty reports whether the upload is absent or has no content.
func (u *Upload) Empty() bool {
	return u == nil || u.Size == 0 || len(u.Data) == 0
}

// Validate checks the upload against the shared security rules: it must be
// non-empty and declare one of the allowed image content types. A missing or
// unknown content type counts as unsupported. Size limits are enforced at the
// HTTP boundary, not here.
func (u *Upload) Validate() error {
	if u.Empty() {
		return ErrEmptyUpload
	}
	if !allowedTypes[u.ContentType] {
		return ErrUnsupportedType
	}
	return nil
}

// Extension returns the filename's extension including the leading dot
// ("photo.jpg" -> ".jpg"), or "" when the filename has no dot. This is a pure
// string operation; the declared content type is what gets validated.
func (u *Upload) Extension() string {
	if u == nil {
		return ""
	}
	i := strings.LastIndex(u.Filename, ".")
	if i < 0 {
		return ""
	}
	return u.Filename[i:]
}
