package engine

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/fintrack/internal/client/client"
	"github.com/dmitrijs2005/fintrack/internal/client/models"
	"github.com/dmitrijs2005/fintrack/internal/client/storage"
)

// PullFromRemote replaces the local store with the backend's records. It
// refuses to run while local changes are queued so unsent work is never
// discarded.
func (e *Engine) PullFromRemote(ctx context.Context) error {
	if !e.online() {
		return client.ErrUnavailable
	}
	if !e.running.CompareAndSwap(false, true) {
		return ErrSyncInProgress
	}
	defer e.running.Store(false)

	if err := e.ensureEmptyQueue(ctx, e.store.Repos); err != nil {
		return err
	}

	fetched := make(map[models.EntityKind][]models.Record, len(models.Kinds))
	for _, k := range models.Kinds {
		recs, err := e.remote.List(ctx, k)
		if err != nil {
			return fmt.Errorf("list %s: %w", k, err)
		}
		fetched[k] = recs
	}

	err := e.store.InTx(ctx, func(ctx context.Context, r storage.Repos) error {
		if err := e.ensureEmptyQueue(ctx, r); err != nil {
			return err
		}
		for _, k := range models.Kinds {
			if err := r.Records.Clear(ctx, k); err != nil {
				return err
			}
			if err := r.Records.PutAll(ctx, fetched[k]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	n := 0
	touched := make(map[models.EntityKind]bool, len(models.Kinds))
	for k, recs := range fetched {
		n += len(recs)
		touched[k] = true
	}
	e.log.Info(ctx, "pulled records from backend", "records", n)
	e.notifyRefetch(touched)
	return nil
}

func (e *Engine) ensureEmptyQueue(ctx context.Context, r storage.Repos) error {
	n, err := r.Queue.Count(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		return fmt.Errorf("%d queued: %w", n, ErrPendingChanges)
	}
	return nil
}
