package service

import (
	"context"
	"fmt"

	"book-review/internal/auth"
	"book-review/internal/domain"
	"book-review/internal/repository"
)

// ReviewService manages reviews and enforces ownership on edits.
// Ratings are stored as given; the 1-5 range is a client convention.
type ReviewService interface {
	Post(ctx context.Context, principal auth.Principal, bookID string, rating int, text string) (*domain.Review, error)
	Update(ctx context.Context, principal auth.Principal, id string, update domain.ReviewUpdate) (*domain.Review, error)
	Delete(ctx context.Context, principal auth.Principal, id string) error
	ListModerated(ctx context.Context) ([]domain.ModeratedReview, error)
}

type reviewService struct {
	reviews repository.ReviewRepository
	books   repository.BookRepository
	policy  auth.Policy
}

func NewReviewService(reviews repository.ReviewRepository, books repository.BookRepository, policy auth.Policy) ReviewService {
	return &reviewService{
		reviews: reviews,
		books:   books,
		policy:  policy,
	}
}

func (s *reviewService) Post(ctx context.Context, principal auth.Principal, bookID string, rating int, text string) (*domain.Review, error) {
	if _, err := s.books.Get(ctx, bookID); err != nil {
		return nil, err
	}

	review := &domain.Review{
		Rating: rating,
		Text:   text,
		UserID: principal.ID,
		BookID: bookID,
	}
	if _, err := s.reviews.Create(ctx, review); err != nil {
		return nil, err
	}
	return review, nil
}

func (s *reviewService) Update(ctx context.Context, principal auth.Principal, id string, update domain.ReviewUpdate) (*domain.Review, error) {
	review, err := s.reviews.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !s.policy.CanModify(principal, review) {
		return nil, fmt.Errorf("review %s: %w", id, domain.ErrForbidden)
	}

	if update.Rating != nil {
		review.Rating = *update.Rating
	}
	if update.Text != nil {
		review.Text = *update.Text
	}

	if err := s.reviews.Update(ctx, review); err != nil {
		return nil, err
	}
	return review, nil
}

func (s *reviewService) Delete(ctx context.Context, principal auth.Principal, id string) error {
	review, err := s.reviews.Get(ctx, id)
	if err != nil {
		return err
	}
	if !s.policy.CanModify(principal, review) {
		return fmt.Errorf("review %s: %w", id, domain.ErrForbidden)
	}
	return s.reviews.Delete(ctx, id)
}

func (s *reviewService) ListModerated(ctx context.Context) ([]domain.ModeratedReview, error) {
	return s.reviews.ListModerated(ctx)
}
