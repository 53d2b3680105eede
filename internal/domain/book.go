package domain

import "time"

// Book represents a book on the platform. Books are public: any
// authenticated user may add one and anyone may list them.
type Book struct {
	ID              string
	Title           string
	Author          string
	Genre           string
	PublicationYear int
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// BookFilter narrows a book listing. Nil fields apply no filtering.
// Rating matches books that have at least one review with exactly
// that rating.
type BookFilter struct {
	Rating          *int
	PublicationYear *int
}
