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

const createCommentsTable = `
CREATE TABLE IF NOT EXISTS comments (
	id TEXT PRIMARY KEY,
	text TEXT NOT NULL DEFAULT '',
	user_id TEXT NOT NULL,
	review_id TEXT NOT NULL,
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL
);
`

type CommentRepository struct {
	db *sql.DB
}

func NewCommentRepository(db *sql.DB) repository.CommentRepository {
	return &CommentRepository{db: db}
}

func (r *CommentRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createCommentsTable); err != nil {
		return fmt.Errorf("create comments table: %w", err)
	}
	return nil
}

func (r *CommentRepository) Create(ctx context.Context, comment *domain.Comment) (string, error) {
	now := time.Now().UTC()
	comment.ID = uuid.NewString()
	comment.CreatedAt = now
	comment.UpdatedAt = now

	_, err := r.db.ExecContext(ctx, `
INSERT INTO comments (id, text, user_id, review_id, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?)`,
		comment.ID,
		comment.Text,
		comment.UserID,
		comment.ReviewID,
		comment.CreatedAt,
		comment.UpdatedAt,
	)
	if err != nil {
		return "", fmt.Errorf("insert comment: %w", err)
	}
	return comment.ID, nil
}

func (r *CommentRepository) Get(ctx context.Context, id string) (*domain.Comment, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, text, user_id, review_id, created_at, updated_at
FROM comments
WHERE id = ?`,
		id,
	)
	return scanComment(row)
}

func (r *CommentRepository) Update(ctx context.Context, comment *domain.Comment) error {
	comment.UpdatedAt = time.Now().UTC()

	res, err := r.db.ExecContext(ctx, `
UPDATE comments
SET text = ?, updated_at = ?
WHERE id = ?`,
		comment.Text,
		comment.UpdatedAt,
		comment.ID,
	)
	if err != nil {
		return fmt.Errorf("update comment: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update comment rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("comment %s: %w", comment.ID, domain.ErrNotFound)
	}
	return nil
}

func (r *CommentRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM comments WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete comment rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("comment %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

func (r *CommentRepository) ListModerated(ctx context.Context) ([]domain.ModeratedComment, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT COALESCE(users.username, ''), comments.review_id, comments.text
FROM comments
LEFT JOIN users ON users.id = comments.user_id
ORDER BY comments.created_at`)
	if err != nil {
		return nil, fmt.Errorf("list moderated comments: %w", err)
	}
	defer rows.Close()

	var comments []domain.ModeratedComment
	for rows.Next() {
		var m domain.ModeratedComment
		if err := rows.Scan(&m.Username, &m.ReviewID, &m.Text); err != nil {
			return nil, fmt.Errorf("scan moderated comment: %w", err)
		}
		comments = append(comments, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate moderated comments: %w", err)
	}
	return comments, nil
}

func scanComment(row interface {
	Scan(dest ...any) error
}) (*domain.Comment, error) {
	var comment domain.Comment
	if err := row.Scan(
		&comment.ID,
		&comment.Text,
		&comment.UserID,
		&comment.ReviewID,
		&comment.CreatedAt,
		&comment.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("comment: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("scan comment: %w", err)
	}
	return &comment, nil
}
