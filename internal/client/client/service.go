package client

import (
	"context"

	"github.com/dmitrijs2005/fintrack/internal/client/models"
)

// Client is the backend API as seen from the device.
type Client interface {
	Close() error
	Ping(ctx context.Context) error
	Login(ctx context.Context, deviceID string) error

	Create(ctx context.Context, rec models.Record) (models.Record, error)
	Update(ctx context.Context, kind models.EntityKind, id models.ID, patch models.Patch) (models.Record, error)
	Delete(ctx context.Context, kind models.EntityKind, id models.ID) error
	List(ctx context.Context, kind models.EntityKind) ([]models.Record, error)
	// BulkCreate returns the stored records in input order.
	BulkCreate(ctx context.Context, kind models.EntityKind, recs []models.Record) ([]models.Record, error)
}

var _ Client = (*GRPCClient)(nil)
