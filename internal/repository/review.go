package repository

import (
	"context"

	"book-review/internal/domain"
)

// ReviewRepository exposes persistence operations for Review entities.
type ReviewRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, review *domain.Review) (string, error)
	Get(ctx context.Context, id string) (*domain.Review, error)
	Update(ctx context.Context, review *domain.Review) error
	Delete(ctx context.Context, id string) error
	// ListModerated returns all reviews joined with the reviewer's
	// username and the book title for the admin moderation view.
	ListModerated(ctx context.Context) ([]domain.ModeratedReview, error)
}
