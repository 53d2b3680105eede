package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"book-review/internal/domain"
	"book-review/internal/repository"
)

const createReviewsTable = `
CREATE TABLE IF NOT EXISTS reviews (
	id TEXT PRIMARY KEY,
	rating INTEGER NOT NULL,
	text TEXT NOT NULL DEFAULT '',
	user_id TEXT NOT NULL,
	book_id TEXT NOT NULL,
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL
);
`

type ReviewRepository struct {
	db *sql.DB
}

func NewReviewRepository(db *sql.DB) repository.ReviewRepository {
	return &ReviewRepository{db: db}
}

func (r *ReviewRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createReviewsTable); err != nil {
		return fmt.Errorf("create reviews table: %w", err)
	}
	return nil
}

func (r *ReviewRepository) Create(ctx context.Context, review *domain.Review) (string, error) {
	now := time.Now().UTC()
	review.ID = uuid.NewString()
	review.CreatedAt = now
	review.UpdatedAt = now

	_, err := r.db.ExecContext(ctx, `
INSERT INTO reviews (id, rating, text, user_id, book_id, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?)`,
		review.ID,
		review.Rating,
		review.Text,
		review.UserID,
		review.BookID,
		review.CreatedAt,
		review.UpdatedAt,
	)
	if err != nil {
		return "", fmt.Errorf("insert review: %w", err)
	}
	return review.ID, nil
}

func (r *ReviewRepository) Get(ctx context.Context, id string) (*domain.Review, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, rating, text, user_id, book_id, created_at, updated_at
FROM reviews
WHERE id = ?`,
		id,
	)
	return scanReview(row)
}

func (r *ReviewRepository) Update(ctx context.Context, review *domain.Review) error {
	review.UpdatedAt = time.Now().UTC()

	res, err := r.db.ExecContext(ctx, `
UPDATE reviews
SET rating = ?, text = ?, updated_at = ?
WHERE id = ?`,
		review.Rating,
		review.Text,
		review.UpdatedAt,
		review.ID,
	)
	if err != nil {
		return fmt.Errorf("update review: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update review rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("review %s: %w", review.ID, domain.ErrNotFound)
	}
	return nil
}

func (r *ReviewRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM reviews WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete review: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete review rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("review %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// ListModerated left-joins users and books so reviews survive the
// deletion of their referents; missing names render as empty strings.
func (r *ReviewRepository) ListModerated(ctx context.Context) ([]domain.ModeratedReview, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT COALESCE(users.username, ''), COALESCE(books.title, ''), reviews.rating, reviews.text
FROM reviews
LEFT JOIN users ON users.id = reviews.user_id
LEFT JOIN books ON books.id = reviews.book_id
ORDER BY reviews.created_at`)
	if err != nil {
		return nil, fmt.Errorf("list moderated reviews: %w", err)
	}
	defer rows.Close()

	var reviews []domain.ModeratedReview
	for rows.Next() {
		var m domain.ModeratedReview
		if err := rows.Scan(&m.Username, &m.BookTitle, &m.Rating, &m.Text); err != nil {
			return nil, fmt.Errorf("scan moderated review: %w", err)
		}
		reviews = append(reviews, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate moderated reviews: %w", err)
	}
	return reviews, nil
}

func scanReview(row interface {
	Scan(dest ...any) error
}) (*domain.Review, error) {
	var review domain.Review
	if err := row.Scan(
		&review.ID,
		&review.Rating,
		&review.Text,
		&review.UserID,
		&review.BookID,
		&review.CreatedAt,
		&review.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("review: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("scan review: %w", err)
	}
	return &review, nil
}
