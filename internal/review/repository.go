// Package review manages review records and coordinates their image uploads
// with the storage backend.
package review

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Review is a persisted review record. ImageURL, when set, is the public
// locator of the stored image and always refers to an object present in the
// active storage backend.
type Review struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Rating    int       `json:"rating"`
	ImageURL  *string   `json:"imageUrl,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ErrNotFound is returned when a review does not exist.
var ErrNotFound = errors.New("review not found")

// Repository handles all review database operations.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new Repository with the given connection pool.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// Create inserts a new review and returns the created record with its
// assigned id and timestamps.
func (r *Repository) Create(ctx context.Context, rev *Review) (*Review, error) {
	created := &Review{}
	err := r.db.QueryRow(ctx,
		`INSERT INTO reviews (title, content, rating, image_url)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, title, content, rating, image_url, created_at, updated_at`,
		rev.Title, rev.Content, rev.Rating, rev.ImageURL,
	).Scan(&created.ID, &created.Title, &created.Content, &created.Rating,
		&created.ImageURL, &created.CreatedAt, &created.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("create review: %w", err)
	}
	return created, nil
}

// GetByID fetches a review by its UUID.
func (r *Repository) GetByID(ctx context.Context, id string) (*Review, error) {
	rev := &Review{}
	err := r.db.QueryRow(ctx,
		`SELECT id, title, content, rating, image_url, created_at, updated_at
		 FROM reviews WHERE id = $1`,
		id,
	).Scan(&rev.ID, &rev.Title, &rev.Content, &rev.Rating,
		&rev.ImageURL, &rev.CreatedAt, &rev.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get review by id: %w", err)
	}
	return rev, nil
}

// List returns all reviews, newest created first.
func (r *Repository) List(ctx context.Context) ([]*Review, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, title, content, rating, image_url, created_at, updated_at
		 FROM reviews ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	defer rows.Close()

	var reviews []*Review
	for rows.Next() {
		rev := &Review{}
		if err := rows.Scan(&rev.ID, &rev.Title, &rev.Content, &rev.Rating,
			&rev.ImageURL, &rev.CreatedAt, &rev.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan review: %w", err)
		}
		reviews = append(reviews, rev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	return reviews, nil
}

// Update persists the review's mutable fields and returns the stored record.
func (r *Repository) Update(ctx context.Context, rev *Review) (*Review, error) {
	updated := &Review{}
	err := r.db.QueryRow(ctx,
		`UPDATE reviews
		 SET title = $2, content = $3, rating = $4, image_url = $5, updated_at = now()
		 WHERE id = $1
		 RETURNING id, title, content, rating, image_url, created_at, updated_at`,
		rev.ID, rev.Title, rev.Content, rev.Rating, rev.ImageURL,
	).Scan(&updated.ID, &updated.Title, &updated.Content, &updated.Rating,
		&updated.ImageURL, &updated.CreatedAt, &updated.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update review: %w", err)
	}
	return updated, nil
}

// Delete removes a review by id.
func (r *Repository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM reviews WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete review: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
