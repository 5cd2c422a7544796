package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/fintrack/internal/client/repositories/metadata"
)

// Authenticator is the part of the remote client a device session needs.
type Authenticator interface {
	Login(ctx context.Context, deviceID string) error
	Ping(ctx context.Context) error
	Close() error
}

// SessionService signs the device in to the backend.
//
// The device id is generated on first use and kept in the metadata table;
// the backend issues its tokens for that id, so every record written on
// this installation is owned by it.
type SessionService struct {
	client   Authenticator
	metadata metadata.Repository
}

func NewSessionService(client Authenticator, metadata metadata.Repository) *SessionService {
	return &SessionService{client: client, metadata: metadata}
}

// Login authenticates the device and returns its id.
func (s *SessionService) Login(ctx context.Context) (string, error) {
	id, err := s.metadata.DeviceID(ctx)
	if err != nil {
		return "", fmt.Errorf("device id: %w", err)
	}
	if err := s.client.Login(ctx, id); err != nil {
		return id, fmt.Errorf("login error: %w", err)
	}
	return id, nil
}

// Ping proxies a liveness check to the underlying client.
func (s *SessionService) Ping(ctx context.Context) error {
	return s.client.Ping(ctx)
}

// Close releases resources held by the underlying client.
func (s *SessionService) Close() error {
	return s.client.Close()
}
