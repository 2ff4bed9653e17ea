package member

import (
	"context"
	"errors"
)

// ErrNotFound is returned when no member has the requested ID.
var ErrNotFound = errors.New("member not found")

// Repository defines operations on the member roster.
type Repository interface {
	ListAll(ctx context.Context) ([]Member, error)
	// Create stores m and sets m.ID. IDs are never reused, so a new member joins the end of the rotation.
	Create(ctx context.Context, m *Member) error
	// Update returns ErrNotFound when no member has m.ID.
	Update(ctx context.Context, m Member) error
	// Delete returns ErrNotFound when no member has id.
	Delete(ctx context.Context, id int64) error
}
