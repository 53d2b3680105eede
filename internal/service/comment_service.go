package service

import (
	"context"
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"book-review/internal/auth"
	"book-review/internal/domain"
	"book-review/internal/repository"
)

// CommentService manages comments on reviews and enforces ownership on edits.
type CommentService interface {
	Post(ctx context.Context, principal auth.Principal, reviewID, text string) (*domain.Comment, error)
	Update(ctx context.Context, principal auth.Principal, id string, update domain.CommentUpdate) (*domain.Comment, error)
	Delete(ctx context.Context, principal auth.Principal, id string) error
	ListModerated(ctx context.Context) ([]domain.ModeratedComment, error)
}

type commentService struct {
	comments repository.CommentRepository
	reviews  repository.ReviewRepository
	policy   auth.Policy
}

func NewCommentService(comments repository.CommentRepository, reviews repository.ReviewRepository, policy auth.Policy) CommentService {
	return &commentService{
		comments: comments,
		reviews:  reviews,
		policy:   policy,
	}
}

func (s *commentService) Post(ctx context.Context, principal auth.Principal, reviewID, text string) (*domain.Comment, error) {
	if err := validation.Validate(text, validation.Required, validation.Length(1, 2000)); err != nil {
		return nil, fmt.Errorf("%w: text: %v", domain.ErrValidation, err)
	}

	if _, err := s.reviews.Get(ctx, reviewID); err != nil {
		return nil, err
	}

	comment := &domain.Comment{
		Text:     text,
		UserID:   principal.ID,
		ReviewID: reviewID,
	}
	if _, err := s.comments.Create(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

func (s *commentService) Update(ctx context.Context, principal auth.Principal, id string, update domain.CommentUpdate) (*domain.Comment, error) {
	comment, err := s.comments.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !s.policy.CanModify(principal, comment) {
		return nil, fmt.Errorf("comment %s: %w", id, domain.ErrForbidden)
	}

	if update.Text != nil {
		comment.Text = *update.Text
	}

	if err := s.comments.Update(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

func (s *commentService) Delete(ctx context.Context, principal auth.Principal, id string) error {
	comment, err := s.comments.Get(ctx, id)
	if err != nil {
		return err
	}
	if !s.policy.CanModify(principal, comment) {
		return fmt.Errorf("comment %s: %w", id, domain.ErrForbidden)
	}
	return s.comments.Delete(ctx, id)
}

func (s *commentService) ListModerated(ctx context.Context) ([]domain.ModeratedComment, error) {
	return s.comments.ListModerated(ctx)
}
