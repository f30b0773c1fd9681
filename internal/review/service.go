package review

import (
	"context"
	"fmt"
	"log"
	"path"

	"github.com/reviewboard/service/internal/storage"
)

// Records is the keyed record store the coordinator works against. The pgx
// Repository implements it; tests substitute an in-memory fake. Each call is
// assumed durable and atomic on its own; nothing here spans a record call
// and a storage call transactionally.
type Records interface {
	Create(ctx context.Context, rev *Review) (*Review, error)
	GetByID(ctx context.Context, id string) (*Review, error)
	List(ctx context.Context) ([]*Review, error)
	Update(ctx context.Context, rev *Review) (*Review, error)
	Delete(ctx context.Context, id string) error
}

// Service coordinates review records with their stored images. It owns the
// ordering rules that keep a record's image reference pointing at an object
// that actually exists in the backend.
type Service struct {
	records Records
	objects storage.Storage
}

// NewService creates a new review Service.
func NewService(records Records, objects storage.Storage) *Service {
	return &Service{records: records, objects: objects}
}

// Create stores the optional image first and persists the record second. Any
// validation or storage failure aborts before anything is persisted, so a
// record is never saved with a half-set image reference. If the insert
// itself fails after a successful store, the object is orphaned; no
// compensating delete is attempted.
func (s *Service) Create(ctx context.Context, in Input, upload *storage.Upload) (*Review, error) {
	rev := &Review{
		Title:   in.Title,
		Content: in.Content,
		Rating:  in.Rating,
	}

	if !upload.Empty() {
		key, err := s.objects.Store(ctx, upload)
		if err != nil {
			return nil, fmt.Errorf("store image: %w", err)
		}
		url := s.objects.URL(key)
		rev.ImageURL = &url
	}

	return s.records.Create(ctx, rev)
}

// Update applies the scalar fields unconditionally and, when a new image is
// supplied, replaces the old one with delete-before-store ordering. A failed
// delete of the old object is logged and ignored; a failed store of the new
// one propagates the error and leaves the record without an image reference
// rather than pointing at the already-removed key. Callers are expected to
// retry the upload.
func (s *Service) Update(ctx context.Context, id string, in Input, upload *storage.Upload) (*Review, error) {
	rev, err := s.records.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	rev.Title = in.Title
	rev.Content = in.Content
	rev.Rating = in.Rating

	if !upload.Empty() {
		hadImage := rev.ImageURL != nil
		if hadImage {
			s.deleteObject(ctx, *rev.ImageURL)
			rev.ImageURL = nil
		}

		key, err := s.objects.Store(ctx, upload)
		if err != nil {
			if hadImage {
				// The old object is already gone; persist the cleared
				// reference so the record never points at a deleted key.
				if _, uerr := s.records.Update(ctx, rev); uerr != nil {
					log.Printf("review: clear image reference for %s: %v", rev.ID, uerr)
				}
			}
			return nil, fmt.Errorf("store image: %w", err)
		}
		url := s.objects.URL(key)
		rev.ImageURL = &url
	}

	return s.records.Update(ctx, rev)
}

// Delete removes the review's stored image (best effort) and then the record.
func (s *Service) Delete(ctx context.Context, id string) error {
	rev, err := s.records.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if rev.ImageURL != nil {
		s.deleteObject(ctx, *rev.ImageURL)
	}

	return s.records.Delete(ctx, id)
}

// List returns all reviews, newest created first.
func (s *Service) List(ctx context.Context) ([]*Review, error) {
	return s.records.List(ctx)
}

// GetByID returns a single review.
func (s *Service) GetByID(ctx context.Context, id string) (*Review, error) {
	return s.records.GetByID(ctx, id)
}

// deleteObject removes the stored object behind an image URL. Failures are
// logged and swallowed: a stray unreferenced object is less harmful than a
// cleanup error blocking a user-visible mutation.
func (s *Service) deleteObject(ctx context.Context, imageURL string) {
	// Backends refuse to generate keys containing a path separator, so the
	// final path segment of the locator is always the full key.
	key := path.Base(imageURL)
	if key == "" || key == "." || key == "/" {
		return
	}
	if err := s.objects.Delete(ctx, key); err != nil {
		log.Printf("review: delete stored object %q: %v", key, err)
	}
}
