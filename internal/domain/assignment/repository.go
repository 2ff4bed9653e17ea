package assignment

import (
	"context"
	"errors"
)

// ErrNotFound is returned when no assignment has the requested ID.
var ErrNotFound = errors.New("assignment not found")

// Repository defines operations for persisting and retrieving assignments.
type Repository interface {
	ListAll(ctx context.Context) ([]Assignment, error)
	// Upsert inserts or replaces the assignment with the same ID.
	Upsert(ctx context.Context, a Assignment) error
	// Delete returns ErrNotFound when no assignment has id.
	Delete(ctx context.Context, id int64) error
}
