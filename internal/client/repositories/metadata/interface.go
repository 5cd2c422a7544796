package metadata

import (
	"context"
	"time"
)

// Well-known metadata keys.
const (
	KeyDeviceID   = "device_id"
	KeyLastSyncAt = "last_sync_at"
)

// Repository is a small key/value table for client bookkeeping.
type Repository interface {
	// Get returns (nil, nil) when the key is absent.
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	List(ctx context.Context) (map[string][]byte, error)
	Clear(ctx context.Context) error

	// DeviceID returns the installation id, generating and storing one on
	// first use.
	DeviceID(ctx context.Context) (string, error)

	// LastSyncAt returns nil if no pass has completed yet.
	LastSyncAt(ctx context.Context) (*time.Time, error)
	SetLastSyncAt(ctx context.Context, t time.Time) error
}
