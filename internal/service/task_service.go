package service

import (
	"context"
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"book-review/internal/auth"
	"book-review/internal/domain"
	"book-review/internal/repository"
)

// TaskService coordinates task operations for the owning user.
type TaskService interface {
	List(ctx context.Context, principal auth.Principal) ([]domain.Task, error)
	Create(ctx context.Context, principal auth.Principal, title, description string) (*domain.Task, error)
	Update(ctx context.Context, principal auth.Principal, id string, update domain.TaskUpdate) (*domain.Task, error)
	Delete(ctx context.Context, principal auth.Principal, id string) error
}

type taskService struct {
	tasks  repository.TaskRepository
	policy auth.Policy
}

func NewTaskService(tasks repository.TaskRepository, policy auth.Policy) TaskService {
	return &taskService{
		tasks:  tasks,
		policy: policy,
	}
}

func (s *taskService) List(ctx context.Context, principal auth.Principal) ([]domain.Task, error) {
	return s.tasks.ListByUser(ctx, principal.ID)
}

func (s *taskService) Create(ctx context.Context, principal auth.Principal, title, description string) (*domain.Task, error) {
	if err := validation.Validate(title, validation.Required, validation.Length(1, 200)); err != nil {
		return nil, fmt.Errorf("%w: title: %v", domain.ErrValidation, err)
	}

	task := &domain.Task{
		Title:       title,
		Description: description,
		UserID:      principal.ID,
	}
	if _, err := s.tasks.Create(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

func (s *taskService) Update(ctx context.Context, principal auth.Principal, id string, update domain.TaskUpdate) (*domain.Task, error) {
	task, err := s.tasks.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !s.policy.CanModify(principal, task) {
		return nil, fmt.Errorf("task %s: %w", id, domain.ErrForbidden)
	}

	if update.Title != nil {
		task.Title = *update.Title
	}
	if update.Description != nil {
		task.Description = *update.Description
	}
	if update.Completed != nil {
		task.Completed = *update.Completed
	}

	if err := s.tasks.Update(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

func (s *taskService) Delete(ctx context.Context, principal auth.Principal, id string) error {
	task, err := s.tasks.Get(ctx, id)
	if err != nil {
		return err
	}
	if !s.policy.CanModify(principal, task) {
		return fmt.Errorf("task %s: %w", id, domain.ErrForbidden)
	}
	return s.tasks.Delete(ctx, id)
}
