package domain

import "time"

// Task represents a personal to-do item owned by a single user.
type Task struct {
	ID          string
	Title       string
	Description string
	Completed   bool
	UserID      string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// OwnerID identifies the user allowed to mutate the task.
func (t *Task) OwnerID() string { return t.UserID }

// TaskUpdate carries the fields a client may change on a task.
// Nil fields are left untouched.
type TaskUpdate struct {
	Title       *string
	Description *string
	Completed   *bool
}
