package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Minio stores objects in an S3-compatible bucket (MinIO, ArvanCloud, AWS
// S3). The bucket is private; objects are streamed back to browsers through
// the image proxy handler rather than fetched from the store directly.
type Minio struct {
	client    *minio.Client
	bucket    string
	urlPrefix string
}

// NewMinio creates the client, ensures the bucket exists, and returns a
// ready-to-use backend. Credentials and bucket are fixed for the process
// lifetime.
func NewMinio(endpoint, accessKey, secretKey, bucket, urlPrefix string, useSSL bool) (*Minio, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	ctx := context.Background()

	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket existence: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket %q: %w", bucket, err)
		}
		log.Printf("storage: created bucket %q", bucket)
	}

	return &Minio{
		client:    client,
		bucket:    bucket,
		urlPrefix: strings.TrimRight(urlPrefix, "/"),
	}, nil
}

// Store validates the upload and uploads its bytes in a single PutObject with
// the declared content type and exact length. No multipart chunking, no
// retry: one failed attempt surfaces as an error.
func (m *Minio) Store(ctx context.Context, u *Upload) (string, error) {
	if err := u.Validate(); err != nil {
		return "", err
	}

	key, err := newObjectKey(u)
	if err != nil {
		return "", err
	}

	if _, err := m.client.StatObject(ctx, m.bucket, key, minio.StatObjectOptions{}); err == nil {
		return "", ErrKeyConflict
	}

	_, err = m.client.PutObject(ctx, m.bucket, key, bytes.NewReader(u.Data), u.Size, minio.PutObjectOptions{
		ContentType: u.ContentType,
	})
	if err != nil {
		return "", &StorageError{Op: "store", Key: key, Err: err}
	}
	return key, nil
}

// Delete issues a single RemoveObject. S3 remove of an absent key succeeds,
// which gives us idempotency for free.
func (m *Minio) Delete(ctx context.Context, key string) error {
	if key == "" {
		return nil
	}
	if err := m.client.RemoveObject(ctx, m.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return &StorageError{Op: "delete", Key: key, Err: err}
	}
	return nil
}

// URL returns the proxy path for a key. The bucket is not browser-reachable,
// so the locator points at the retrieval endpoint instead.
func (m *Minio) URL(key string) string {
	return m.urlPrefix + "/" + key
}

// Fetch opens the object for streaming back to a caller, returning the
// reader, the store-reported content type, and the byte length. Every failure
// mode (missing object, network, auth) surfaces as ErrObjectNotFound: they
// all present identically to the end user as an unavailable image.
func (m *Minio) Fetch(ctx context.Context, key string) (io.ReadCloser, string, int64, error) {
	info, err := m.client.StatObject(ctx, m.bucket, key, minio.StatObjectOptions{})
	if err != nil {
		return nil, "", 0, fmt.Errorf("stat object %q: %w", key, ErrObjectNotFound)
	}

	obj, err := m.client.GetObject(ctx, m.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, "", 0, fmt.Errorf("get object %q: %w", key, ErrObjectNotFound)
	}
	return obj, info.ContentType, info.Size, nil
}
