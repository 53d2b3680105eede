package repository

import (
	"context"

	"book-review/internal/domain"
)

// CommentRepository exposes persistence operations for Comment entities.
type CommentRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, comment *domain.Comment) (string, error)
	Get(ctx context.Context, id string) (*domain.Comment, error)
	Update(ctx context.Context, comment *domain.Comment) error
	Delete(ctx context.Context, id string) error
	// ListModerated returns all comments joined with the commenter's
	// username for the admin moderation view.
	ListModerated(ctx context.Context) ([]domain.ModeratedComment, error)
}
