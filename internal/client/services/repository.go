package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dmitrijs2005/fintrack/internal/client/models"
	"github.com/dmitrijs2005/fintrack/internal/client/storage"
)

// Repository is the per-kind façade. Writes go to the local store and the
// operation queue in one transaction and then nudge the sync engine; reads
// never leave the device.
type Repository[T models.Record] struct {
	l    *Ledger
	kind models.EntityKind
}

func newRepository[T models.Record](l *Ledger, kind models.EntityKind) *Repository[T] {
	return &Repository[T]{l: l, kind: kind}
}

func (r *Repository[T]) Kind() models.EntityKind { return r.kind }

// Create stores rec under a fresh provisional id, queues its create and
// returns the id without waiting for the network.
func (r *Repository[T]) Create(ctx context.Context, rec T) (models.ID, error) {
	ids, err := r.l.enqueueCreates(ctx, []models.Record{rec})
	if err != nil {
		return "", err
	}
	return ids[0], nil
}

// Update merges patch into the local row. For a durable id an update is
// queued; for a provisional id the patch is folded into the queued create so
// only one create, carrying the latest data, is ever delivered.
func (r *Repository[T]) Update(ctx context.Context, id models.ID, patch models.Patch) error {
	if patch.Kind() != r.kind {
		return fmt.Errorf("%s patch for %s: %w", patch.Kind(), r.kind, ErrKindMismatch)
	}

	err := r.l.store.InTx(ctx, func(ctx context.Context, s storage.Repos) error {
		row, err := s.Records.Get(ctx, r.kind, id)
		if err != nil {
			return err
		}
		if err := patch.Apply(row); err != nil {
			return err
		}
		row.Touch(r.l.clock.Now())
		if err := s.Records.Put(ctx, row); err != nil {
			return err
		}

		if id.IsProvisional() {
			return r.l.foldIntoCreate(ctx, s, row)
		}

		data, err := json.Marshal(patch)
		if err != nil {
			return fmt.Errorf("encode %s patch: %w", r.kind, err)
		}
		_, err = s.Queue.Add(ctx, &models.QueueItem{
			Operation: models.OpUpdate,
			Entity:    r.kind,
			RecordID:  id,
			Data:      data,
			CreatedAt: r.l.clock.Now(),
		})
		return err
	})
	if err != nil {
		return err
	}

	r.l.changed(ctx)
	return nil
}

// Delete removes the local row. A record that never reached the backend
// just loses its queued operations; otherwise a delete is queued.
func (r *Repository[T]) Delete(ctx context.Context, id models.ID) error {
	err := r.l.store.InTx(ctx, func(ctx context.Context, s storage.Repos) error {
		if err := s.Records.Delete(ctx, r.kind, id); err != nil {
			return err
		}
		if id.IsProvisional() {
			_, err := s.Queue.DeleteByRecordID(ctx, r.kind, id)
			return err
		}
		_, err := s.Queue.Add(ctx, &models.QueueItem{
			Operation: models.OpDelete,
			Entity:    r.kind,
			RecordID:  id,
			CreatedAt: r.l.clock.Now(),
		})
		return err
	})
	if err != nil {
		return err
	}

	r.l.changed(ctx)
	return nil
}

func (r *Repository[T]) GetByID(ctx context.Context, id models.ID) (T, error) {
	var zero T
	rec, err := r.l.store.Records.Get(ctx, r.kind, id)
	if err != nil {
		return zero, err
	}
	return cast[T](rec)
}

// GetAll returns every row of the kind ordered by its sort key.
func (r *Repository[T]) GetAll(ctx context.Context) ([]T, error) {
	recs, err := r.l.store.Records.List(ctx, r.kind)
	if err != nil {
		return nil, err
	}
	return castAll[T](recs)
}

func cast[T models.Record](rec models.Record) (T, error) {
	v, ok := rec.(T)
	if !ok {
		var zero T
		return zero, fmt.Errorf("unexpected %T in %s: %w", rec, rec.Kind(), ErrKindMismatch)
	}
	return v, nil
}

func castAll[T models.Record](recs []models.Record) ([]T, error) {
	out := make([]T, 0, len(recs))
	for _, rec := range recs {
		v, err := cast[T](rec)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// filter keeps the elements keep returns true for.
func filter[T any](in []T, keep func(T) bool) []T {
	out := in[:0]
	for _, v := range in {
		if keep(v) {
			out = append(out, v)
		}
	}
	return out
}
