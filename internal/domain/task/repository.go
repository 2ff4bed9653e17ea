package task

import (
	"context"
	"errors"
)

// ErrNotFound is returned when no task has the requested ID.
var ErrNotFound = errors.New("task not found")

// Repository defines operations on task definitions.
type Repository interface {
	ListAll(ctx context.Context) ([]Task, error)
	// Create stores t and sets t.ID.
	Create(ctx context.Context, t *Task) error
	// Update returns ErrNotFound when no task has t.ID.
	Update(ctx context.Context, t Task) error
	// Delete returns ErrNotFound when no task has id.
	Delete(ctx context.Context, id int64) error
}
