package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUploadValidate_AllowedTypes(t *testing.T) {
	for _, ct := range []string{"image/jpeg", "image/png", "image/gif", "image/webp"} {
		u := &Upload{Filename: "photo.jpg", ContentType: ct, Size: 4, Data: []byte("data")}
		assert.NoError(t, u.Validate(), "content type %s should be allowed", ct)
	}
}

func TestUploadValidate_RejectedTypes(t *testing.T) {
	for _, ct := range []string{"application/pdf", "text/html", "image/svg+xml", "video/mp4", ""} {
		u := &Upload{Filename: "file.bin", ContentType: ct, Size: 4, Data: []byte("data")}
		err := u.Validate()
		require.Error(t, err, "content type %q should be rejected", ct)
		assert.ErrorIs(t, err, ErrUnsupportedType)
	}
}

func TestUploadValidate_Empty(t *testing.T) {
	tests := []struct {
		name   string
		upload *Upload
	}{
		{"nil upload", nil},
		{"zero size", &Upload{Filename: "a.png", ContentType: "image/png", Size: 0, Data: []byte("x")}},
		{"no bytes", &Upload{Filename: "a.png", ContentType: "image/png", Size: 5, Data: nil}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, tt.upload.Empty())
			assert.ErrorIs(t, tt.upload.Validate(), ErrEmptyUpload)
		})
	}
}

func TestUploadExtension(t *testing.T) {
	tests := []struct {
		filename string
		want     string
	}{
		{"photo.jpg", ".jpg"},
		{"archive.tar.gz", ".gz"},
		{"noextension", ""},
		{"", ""},
		{"trailingdot.", "."},
		{".hidden", ".hidden"},
		{"weird..name.png", ".png"},
	}
	for _, tt := range tests {
		u := &Upload{Filename: tt.filename}
		assert.Equal(t, tt.want, u.Extension(), "filename %q", tt.filename)
	}

	var nilUpload *Upload
	assert.Equal(t, "", nilUpload.Extension())
}
