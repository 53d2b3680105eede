package service

import (
	"context"
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"book-review/internal/domain"
	"book-review/internal/repository"
)

// AddBookInput carries a validated add-book request. The publication
// year has already been coerced to an integer by the transport layer.
type AddBookInput struct {
	Title           string
	Author          string
	Genre           string
	PublicationYear int
}

func (in AddBookInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Title, validation.Required, validation.Length(1, 500)),
		validation.Field(&in.Author, validation.Required, validation.Length(1, 200)),
		validation.Field(&in.Genre, validation.Required, validation.Length(1, 100)),
	)
}

// BookService manages the public book catalog.
type BookService interface {
	Add(ctx context.Context, input AddBookInput) (*domain.Book, error)
	Filter(ctx context.Context, filter domain.BookFilter) ([]domain.Book, error)
}

type bookService struct {
	books repository.BookRepository
}

func NewBookService(books repository.BookRepository) BookService {
	return &bookService{books: books}
}

func (s *bookService) Add(ctx context.Context, input AddBookInput) (*domain.Book, error) {
	if err := input.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	book := &domain.Book{
		Title:           input.Title,
		Author:          input.Author,
		Genre:           input.Genre,
		PublicationYear: input.PublicationYear,
	}
	if _, err := s.books.Create(ctx, book); err != nil {
		return nil, err
	}
	return book, nil
}

func (s *bookService) Filter(ctx context.Context, filter domain.BookFilter) ([]domain.Book, error) {
	return s.books.List(ctx, filter)
}
