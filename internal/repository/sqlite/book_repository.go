package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"book-review/internal/domain"
	"book-review/internal/repository"
)

const createBooksTable = `
CREATE TABLE IF NOT EXISTS books (
	id TEXT PRIMARY KEY,
	title TEXT NOT NULL,
	author TEXT NOT NULL,
	genre TEXT NOT NULL,
	publication_year INTEGER NOT NULL,
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL
);
`

type BookRepository struct {
	db *sql.DB
}

func NewBookRepository(db *sql.DB) repository.BookRepository {
	return &BookRepository{db: db}
}

func (r *BookRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createBooksTable); err != nil {
		return fmt.Errorf("create books table: %w", err)
	}
	return nil
}

func (r *BookRepository) Create(ctx context.Context, book *domain.Book) (string, error) {
	now := time.Now().UTC()
	book.ID = uuid.NewString()
	book.CreatedAt = now
	book.UpdatedAt = now

	_, err := r.db.ExecContext(ctx, `
INSERT INTO books (id, title, author, genre, publication_year, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?)`,
		book.ID,
		book.Title,
		book.Author,
		book.Genre,
		book.PublicationYear,
		book.CreatedAt,
		book.UpdatedAt,
	)
	if err != nil {
		return "", fmt.Errorf("insert book: %w", err)
	}
	return book.ID, nil
}

func (r *BookRepository) Get(ctx context.Context, id string) (*domain.Book, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, title, author, genre, publication_year, created_at, updated_at
FROM books
WHERE id = ?`,
		id,
	)
	return scanBook(row)
}

func (r *BookRepository) List(ctx context.Context, filter domain.BookFilter) ([]domain.Book, error) {
	var (
		conditions []string
		args       []any
	)
	if filter.PublicationYear != nil {
		conditions = append(conditions, "publication_year = ?")
		args = append(args, *filter.PublicationYear)
	}
	if filter.Rating != nil {
		conditions = append(conditions, "EXISTS (SELECT 1 FROM reviews WHERE reviews.book_id = books.id AND reviews.rating = ?)")
		args = append(args, *filter.Rating)
	}

	query := `
SELECT id, title, author, genre, publication_year, created_at, updated_at
FROM books`
	if len(conditions) > 0 {
		query += "\nWHERE " + strings.Join(conditions, " AND ")
	}
	query += "\nORDER BY created_at"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	defer rows.Close()

	var books []domain.Book
	for rows.Next() {
		book, err := scanBook(rows)
		if err != nil {
			return nil, err
		}
		books = append(books, *book)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate books: %w", err)
	}
	return books, nil
}

func scanBook(row interface {
	Scan(dest ...any) error
}) (*domain.Book, error) {
	var book domain.Book
	if err := row.Scan(
		&book.ID,
		&book.Title,
		&book.Author,
		&book.Genre,
		&book.PublicationYear,
		&book.CreatedAt,
		&book.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("book: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("scan book: %w", err)
	}
	return &book, nil
}
