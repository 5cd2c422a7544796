// Package records stores ledger records on the backend, one row per record
// keyed by owner, kind and a server-assigned numeric id.
package records

import (
	"context"

	"github.com/dmitrijs2005/fintrack/internal/server/models"
)

type Repository interface {
	// Create stores rec and fills in its ID.
	Create(ctx context.Context, rec *models.Record) (*models.Record, error)
	Get(ctx context.Context, userID, kind string, id int64) (*models.Record, error)
	// List returns the records of a kind in id order.
	List(ctx context.Context, userID, kind string) ([]*models.Record, error)
	// Update replaces body and updated_at of an existing record.
	Update(ctx context.Context, rec *models.Record) error
	Delete(ctx context.Context, userID, kind string, id int64) error
}
