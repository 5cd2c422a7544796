package queue

import (
	"context"

	"github.com/dmitrijs2005/fintrack/internal/client/models"
)

// Repository is the durable operation queue.
type Repository interface {
	// Add appends an item and returns its assigned id.
	Add(ctx context.Context, item *models.QueueItem) (int64, error)
	BulkAdd(ctx context.Context, items []*models.QueueItem) error

	// GetAll returns every item in creation order.
	GetAll(ctx context.Context) ([]*models.QueueItem, error)
	Count(ctx context.Context) (int, error)

	// Update persists payload, retry counters and last error of an item.
	Update(ctx context.Context, item *models.QueueItem) error

	// Delete removes an item and reports whether it still existed.
	Delete(ctx context.Context, id int64) (bool, error)

	// DeleteByRecordID removes every item addressing the given record.
	DeleteByRecordID(ctx context.Context, kind models.EntityKind, recordID models.ID) (int64, error)
	Clear(ctx context.Context) error

	// FindCreate returns the queued create of a record or common.ErrNotFound.
	FindCreate(ctx context.Context, kind models.EntityKind, recordID models.ID) (*models.QueueItem, error)
	HasCreate(ctx context.Context, kind models.EntityKind, recordID models.ID) (bool, error)

	// RemapReference rewrites a relational field equal to oldID to newID in
	// every queued payload.
	RemapReference(ctx context.Context, field models.RefField, oldID, newID models.ID) (int64, error)
}
