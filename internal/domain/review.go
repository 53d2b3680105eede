package domain

import "time"

// Review represents a user's review of a book.
type Review struct {
	ID        string
	Rating    int
	Text      string
	UserID    string
	BookID    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (r *Review) OwnerID() string { return r.UserID }

// ReviewUpdate carries the fields a client may change on a review.
type ReviewUpdate struct {
	Rating *int
	Text   *string
}

// ModeratedReview is a review enriched with the referenced username and
// book title for the admin moderation listing. References left dangling
// by deletes render as empty strings.
type ModeratedReview struct {
	Username  string
	BookTitle string
	Rating    int
	Text      string
}
