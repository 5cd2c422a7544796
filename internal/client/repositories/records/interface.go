package records

import (
	"context"

	"github.com/dmitrijs2005/fintrack/internal/client/models"
)

// Repository describes the local store operations used by the façade and the
// sync engine.
type Repository interface {
	// Get returns one record or common.ErrNotFound.
	Get(ctx context.Context, kind models.EntityKind, id models.ID) (models.Record, error)

	// List returns all records of a kind ordered by sort key.
	List(ctx context.Context, kind models.EntityKind) ([]models.Record, error)

	// Recent returns at most limit records of a kind, newest sort key first.
	Recent(ctx context.Context, kind models.EntityKind, limit int) ([]models.Record, error)

	// Range returns records whose sort key lies in [from, to], newest first.
	Range(ctx context.Context, kind models.EntityKind, from, to string) ([]models.Record, error)

	// FindByRef returns records of a kind whose relational field equals id.
	FindByRef(ctx context.Context, kind models.EntityKind, field models.RefField, id models.ID) ([]models.Record, error)

	Count(ctx context.Context, kind models.EntityKind) (int, error)

	// Put inserts or replaces a record.
	Put(ctx context.Context, rec models.Record) error
	PutAll(ctx context.Context, recs []models.Record) error

	// Delete removes a record; deleting a missing record is not an error.
	Delete(ctx context.Context, kind models.EntityKind, id models.ID) error
	Clear(ctx context.Context, kind models.EntityKind) error
	ClearAll(ctx context.Context) error

	// TrimToLimit keeps the newest limit records of a kind plus every
	// provisional one and returns the number of rows removed.
	TrimToLimit(ctx context.Context, kind models.EntityKind, limit int) (int64, error)

	// RemapReference rewrites a relational field equal to oldID to newID in
	// every record and returns the number of rows changed.
	RemapReference(ctx context.Context, field models.RefField, oldID, newID models.ID) (int64, error)
}
