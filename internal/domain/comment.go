package domain

import "time"

// Comment represents a user's comment on a review.
type Comment struct {
	ID        string
	Text      string
	UserID    string
	ReviewID  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (c *Comment) OwnerID() string { return c.UserID }

// CommentUpdate carries the fields a client may change on a comment.
type CommentUpdate struct {
	Text *string
}

// ModeratedComment is a comment enriched with the referenced username
// for the admin moderation listing.
type ModeratedComment struct {
	Username string
	ReviewID string
	Text     string
}
