package backup

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/fintrack/internal/client/models"
)

// Importer is the part of the ledger an import writes through.
type Importer interface {
	Clear(ctx context.Context) error
	ImportBulk(ctx context.Context, recs []models.Record) error
}

// Import replaces the local ledger with the snapshot content and returns the
// number of records queued for upload.
func Import(ctx context.Context, dst Importer, s *Snapshot) (int, error) {
	recs := Reassign(s.Records())

	if err := dst.Clear(ctx); err != nil {
		return 0, fmt.Errorf("clear ledger: %w", err)
	}
	if len(recs) == 0 {
		return 0, nil
	}
	if err := dst.ImportBulk(ctx, recs); err != nil {
		return 0, fmt.Errorf("import: %w", err)
	}
	return len(recs), nil
}

// Reassign gives every record a fresh provisional id and rewrites relational
// fields to the new ids. recs must be in dependency order. References to
// records missing from the set are cleared. The owner is reset so the
// importing device stamps its own id.
func Reassign(recs []models.Record) []models.Record {
	ids := make(map[models.EntityKind]map[models.ID]models.ID)

	for _, r := range recs {
		for f, old := range r.Refs() {
			if old.IsZero() {
				continue
			}
			if id, ok := ids[f.Target()][old]; ok {
				r.SetRef(f, id)
			} else {
				r.SetRef(f, "")
			}
		}

		fresh := models.NewProvisionalID()
		if ids[r.Kind()] == nil {
			ids[r.Kind()] = make(map[models.ID]models.ID)
		}
		ids[r.Kind()][r.RecordID()] = fresh
		r.SetRecordID(fresh)
		r.ResetOwner()
	}
	return recs
}
