package directory

import (
	"context"
	"errors"
)

// Repository defines the interface for Client persistence.
type Repository interface {
	// List returns every client row.
	List(ctx context.Context) ([]Client, error)

	// Create inserts a client and returns the generated id.
	Create(ctx context.Context, name, email string) (int64, error)
}

// ErrNotConfigured is returned by UnconfiguredRepository.
var ErrNotConfigured = errors.New("clients database is not configured")

// UnconfiguredRepository fails every call with ErrNotConfigured. It backs
// the directory when no database URL is set, so /api/clients still answers
// with a remote failure.
type UnconfiguredRepository struct{}

func (UnconfiguredRepository) List(context.Context) ([]Client, error) {
	return nil, ErrNotConfigured
}

func (UnconfiguredRepository) Create(context.Context, string, string) (int64, error) {
	return 0, ErrNotConfigured
}
