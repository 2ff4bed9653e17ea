package sysconfig

import "context"

// Repository defines operations on system settings.
type Repository interface {
	// Get returns ErrNotFound when the key is absent.
	Get(ctx context.Context, key string) (*Entry, error)
	ListAll(ctx context.Context) ([]Entry, error)
	Save(ctx context.Context, e Entry) error
}
