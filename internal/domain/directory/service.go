package directory

import (
	"context"

	"invoicedesk/internal/core/apperror"
	"invoicedesk/pkg/logger"
)

// Service passes directory operations through to the repository.
// Failures surface as REMOTE_REQUEST_FAILED; nothing is retried.
type Service struct {
	repo Repository
}

// NewService creates a new directory service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// List returns all clients. An empty table yields an empty, non-nil slice.
func (s *Service) List(ctx context.Context) ([]Client, error) {
	clients, err := s.repo.List(ctx)
	if err != nil {
		logger.Error(ctx, "list clients failed", "error", err)
		return nil, apperror.NewRemoteRequestFailed(err)
	}
	if clients == nil {
		clients = []Client{}
	}
	return clients, nil
}

// Create inserts a client with the given name and email.
// The fields are stored as received.
func (s *Service) Create(ctx context.Context, name, email string) (*Client, error) {
	newID, err := s.repo.Create(ctx, name, email)
	if err != nil {
		logger.Error(ctx, "create client failed", "error", err)
		return nil, apperror.NewRemoteRequestFailed(err)
	}
	return &Client{ID: newID, Name: name, Email: email}, nil
}
