package repository

import (
	"context"

	"book-review/internal/domain"
)

// BookRepository exposes persistence operations for Book entities.
type BookRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, book *domain.Book) (string, error)
	Get(ctx context.Context, id string) (*domain.Book, error)
	List(ctx context.Context, filter domain.BookFilter) ([]domain.Book, error)
}
