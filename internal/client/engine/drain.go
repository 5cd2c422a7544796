package engine

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/fintrack/internal/client/client"
	"github.com/dmitrijs2005/fintrack/internal/client/models"
	"github.com/dmitrijs2005/fintrack/internal/client/storage"
	"github.com/dmitrijs2005/fintrack/internal/common"
)

// pass is the bookkeeping of one drain pass.
type pass struct {
	failed   int
	deferred int
	lastErr  error
	aborted  bool
	touched  map[models.EntityKind]bool
}

func (p *pass) touch(kinds ...models.EntityKind) {
	for _, k := range kinds {
		p.touched[k] = true
	}
}

// SyncAll runs one drain pass now. If a pass is already running the call is
// a no-op returning the current state.
func (e *Engine) SyncAll(ctx context.Context) (models.SyncState, error) {
	if !e.running.CompareAndSwap(false, true) {
		return e.State(), nil
	}
	defer e.running.Store(false)

	e.setStatus(models.SyncSyncing)

	p := &pass{touched: make(map[models.EntityKind]bool)}
	err := e.drain(ctx, p)
	return e.finish(ctx, p, err), err
}

func (e *Engine) drain(ctx context.Context, p *pass) error {
	items, err := e.store.Queue.GetAll(ctx)
	if err != nil {
		return err
	}

	var bulk, rest []*models.QueueItem
	for _, it := range items {
		if it.Operation == models.OpCreate && it.Entity == models.KindTransaction {
			bulk = append(bulk, it)
		} else {
			rest = append(rest, it)
		}
	}

	if err := e.bulkCreate(ctx, p, models.KindTransaction, bulk); err != nil {
		return err
	}

	for _, it := range rest {
		if p.aborted || ctx.Err() != nil {
			break
		}
		var err error
		switch it.Operation {
		case models.OpCreate:
			err = e.syncCreate(ctx, p, it)
		case models.OpUpdate:
			err = e.syncUpdate(ctx, p, it)
		case models.OpDelete:
			err = e.syncDelete(ctx, p, it)
		default:
			e.log.Warn(ctx, "dropping queue item with unknown operation", "id", it.ID, "operation", it.Operation)
			_, err = e.store.Queue.Delete(ctx, it.ID)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (e *Engine) finish(ctx context.Context, p *pass, passErr error) models.SyncState {
	now := e.clock.Now()
	st := models.SyncState{Status: models.SyncSuccess, LastSyncAt: &now}

	if err := e.store.Metadata.SetLastSyncAt(ctx, now); err != nil {
		e.log.Error(ctx, "failed to save last sync time", "error", err)
	}
	if n, err := e.store.Queue.Count(ctx); err == nil {
		st.PendingCount = n
	} else {
		e.log.Error(ctx, "failed to count queue", "error", err)
		st.PendingCount = e.State().PendingCount
	}

	switch {
	case passErr != nil:
		st.Status = models.SyncError
		st.Error = passErr.Error()
	case p.failed > 0:
		st.Status = models.SyncError
		st.Error = p.lastErr.Error()
	}

	e.log.Info(ctx, "drain pass finished",
		"status", st.Status, "pending", st.PendingCount, "failed", p.failed, "deferred", p.deferred)

	e.publish(st)
	e.notifyRefetch(p.touched)
	return st
}

// resolveCreate returns the record to send for a queued create: the current
// local row, or the queued payload if the row is gone.
func (e *Engine) resolveCreate(ctx context.Context, it *models.QueueItem) (models.Record, error) {
	rec, err := e.store.Records.Get(ctx, it.Entity, it.RecordID)
	if errors.Is(err, common.ErrNotFound) {
		rec, err = models.DecodeRecord(it.Entity, it.Data)
	}
	if err != nil {
		return nil, err
	}
	if err := e.checkRefs(ctx, rec.Refs()); err != nil {
		return rec, err
	}
	return rec, nil
}

// resolveUpdate refreshes the relational fields a queued patch assigns from
// the current local row.
func (e *Engine) resolveUpdate(ctx context.Context, it *models.QueueItem) (models.Patch, error) {
	patch, err := models.DecodePatch(it.Entity, it.Data)
	if err != nil {
		return nil, err
	}

	row, err := e.store.Records.Get(ctx, it.Entity, it.RecordID)
	switch {
	case err == nil:
		current := row.Refs()
		for f := range patch.Refs() {
			patch.SetRef(f, current[f])
		}
	case !errors.Is(err, common.ErrNotFound):
		return nil, err
	}

	if err := e.checkRefs(ctx, patch.Refs()); err != nil {
		return patch, err
	}
	return patch, nil
}

// checkRefs fails with ErrDependencyNotReady when a reference waits for a
// queued create and with ErrOrphanedReference when nothing will resolve it.
func (e *Engine) checkRefs(ctx context.Context, refs map[models.RefField]models.ID) error {
	for f, id := range models.ProvisionalRefs(refs) {
		queued, err := e.store.Queue.HasCreate(ctx, f.Target(), id)
		if err != nil {
			return err
		}
		if queued {
			return fmt.Errorf("%s %s: %w", f, id, ErrDependencyNotReady)
		}
		return fmt.Errorf("%s %s: %w", f, id, ErrOrphanedReference)
	}
	return nil
}

// isLocal reports whether err came from the local store rather than from
// reference checks.
func isLocal(err error) bool {
	return !errors.Is(err, ErrDependencyNotReady) && !errors.Is(err, ErrOrphanedReference)
}

func outgoing(rec models.Record) (models.Record, error) {
	out, err := models.CloneRecord(rec)
	if err != nil {
		return nil, err
	}
	// the backend assigns the id
	if out.RecordID().IsProvisional() {
		out.SetRecordID("")
	}
	return out, nil
}

func (e *Engine) bulkCreate(ctx context.Context, p *pass, kind models.EntityKind, items []*models.QueueItem) error {
	if len(items) == 0 {
		return nil
	}

	batch := make([]*models.QueueItem, 0, len(items))
	sent := make([]models.Record, 0, len(items))
	payload := make([]models.Record, 0, len(items))

	for i, it := range items {
		rec, err := e.resolveCreate(ctx, it)
		switch {
		case err == nil:
		case errors.Is(err, ErrDependencyNotReady):
			e.log.Debug(ctx, "bulk create waits for a dependency", "kind", kind, "id", it.RecordID, "reason", err)
			return e.deferBatch(ctx, p, it, append(batch, items[i+1:]...), err)
		case errors.Is(err, ErrOrphanedReference):
			if err := e.fail(ctx, p, it, err); err != nil {
				return err
			}
			continue
		default:
			return err
		}

		out, err := outgoing(rec)
		if err != nil {
			return err
		}
		batch = append(batch, it)
		sent = append(sent, rec)
		payload = append(payload, out)
	}
	if len(batch) == 0 {
		return nil
	}

	created, err := e.remote.BulkCreate(ctx, kind, payload)
	if err == nil && len(created) != len(batch) {
		err = fmt.Errorf("bulk create returned %d records for %d", len(created), len(batch))
	}
	if err != nil {
		for _, it := range batch {
			if ferr := e.fail(ctx, p, it, err); ferr != nil {
				return ferr
			}
		}
		return nil
	}

	for i, it := range batch {
		if err := e.commitCreate(ctx, p, it, sent[i], created[i]); err != nil {
			return err
		}
	}
	return nil
}

// deferBatch postpones the item that waits for a dependency and stamps the
// rest of its batch, so the whole batch backs off together instead of being
// due again at once.
func (e *Engine) deferBatch(ctx context.Context, p *pass, blocked *models.QueueItem, rest []*models.QueueItem, cause error) error {
	if err := e.postpone(ctx, p, blocked, cause); err != nil {
		return err
	}
	now := e.clock.Now()
	for _, it := range rest {
		it.Deferrals++
		it.LastAttemptAt = &now
		it.Error = cause.Error()
		p.deferred++
		if err := e.store.Queue.Update(ctx, it); err != nil {
			return err
		}
	}
	return nil
}

func (e *Engine) syncCreate(ctx context.Context, p *pass, it *models.QueueItem) error {
	rec, err := e.resolveCreate(ctx, it)
	if err != nil {
		if isLocal(err) {
			return err
		}
		return e.postpone(ctx, p, it, err)
	}

	out, err := outgoing(rec)
	if err != nil {
		return err
	}
	created, err := e.remote.Create(ctx, out)
	if err != nil {
		return e.fail(ctx, p, it, err)
	}
	return e.commitCreate(ctx, p, it, rec, created)
}

// commitCreate stores the durable row of a delivered create, retires the
// provisional id everywhere and removes the queue item in one transaction.
func (e *Engine) commitCreate(ctx context.Context, p *pass, it *models.QueueItem, sent, created models.Record) error {
	kind := it.Entity
	oldID, newID := it.RecordID, created.RecordID()
	if newID.IsZero() {
		return e.fail(ctx, p, it, fmt.Errorf("backend returned %s without id", kind))
	}

	var vanished bool
	err := e.store.InTx(ctx, func(ctx context.Context, r storage.Repos) error {
		existed, err := r.Queue.Delete(ctx, it.ID)
		if err != nil {
			return err
		}
		if !existed {
			vanished = true
			return nil
		}

		final := created
		var followUp models.Patch
		local, err := r.Records.Get(ctx, kind, oldID)
		switch {
		case err == nil && local.LastUpdated().After(sent.LastUpdated()):
			// edited locally while the create was in flight
			local.SetRecordID(newID)
			final = local
			if followUp, err = models.FullPatch(local); err != nil {
				return err
			}
		case err != nil && !errors.Is(err, common.ErrNotFound):
			return err
		}

		if kind == models.KindSettings {
			if err := r.Records.Clear(ctx, kind); err != nil {
				return err
			}
		} else if oldID != newID {
			if err := r.Records.Delete(ctx, kind, oldID); err != nil {
				return err
			}
		}

		if oldID.IsProvisional() {
			for _, f := range models.RefFieldsTo(kind) {
				n, err := r.Records.RemapReference(ctx, f, oldID, newID)
				if err != nil {
					return err
				}
				if n > 0 {
					p.touch(models.KindsWithRef(f)...)
				}
				if _, err := r.Queue.RemapReference(ctx, f, oldID, newID); err != nil {
					return err
				}
			}
		}

		if err := r.Records.Put(ctx, final); err != nil {
			return err
		}

		if followUp != nil {
			data, err := json.Marshal(followUp)
			if err != nil {
				return fmt.Errorf("encode follow-up patch: %w", err)
			}
			if _, err := r.Queue.Add(ctx, &models.QueueItem{
				Operation: models.OpUpdate,
				Entity:    kind,
				RecordID:  newID,
				Data:      data,
				CreatedAt: e.clock.Now(),
			}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	if vanished {
		// deleted locally while the create was in flight
		e.log.Info(ctx, "record deleted during create, removing it remotely", "kind", kind, "id", newID)
		if err := e.remote.Delete(ctx, kind, newID); err != nil && !errors.Is(err, client.ErrNotFound) {
			e.log.Warn(ctx, "compensating delete failed", "kind", kind, "id", newID, "error", err)
		}
		return nil
	}

	e.log.Debug(ctx, "create delivered", "kind", kind, "provisional", oldID, "id", newID)
	p.touch(kind)
	return nil
}

func (e *Engine) syncUpdate(ctx context.Context, p *pass, it *models.QueueItem) error {
	if it.RecordID.IsProvisional() {
		queued, err := e.store.Queue.HasCreate(ctx, it.Entity, it.RecordID)
		if err != nil {
			return err
		}
		cause := ErrOrphanedReference
		if queued {
			cause = ErrDependencyNotReady
		}
		return e.postpone(ctx, p, it, fmt.Errorf("%s %s: %w", it.Entity, it.RecordID, cause))
	}

	patch, err := e.resolveUpdate(ctx, it)
	if err != nil {
		if isLocal(err) {
			return err
		}
		return e.postpone(ctx, p, it, err)
	}

	if _, err := e.remote.Update(ctx, it.Entity, it.RecordID, patch); err != nil {
		if errors.Is(err, client.ErrNotFound) {
			// retrying cannot bring the record back
			e.log.Warn(ctx, "dropping update of a record missing on the backend", "kind", it.Entity, "id", it.RecordID)
			p.failed++
			p.lastErr = err
			_, derr := e.store.Queue.Delete(ctx, it.ID)
			return derr
		}
		return e.fail(ctx, p, it, err)
	}

	if _, err := e.store.Queue.Delete(ctx, it.ID); err != nil {
		return err
	}
	p.touch(it.Entity)
	return nil
}

func (e *Engine) syncDelete(ctx context.Context, p *pass, it *models.QueueItem) error {
	if !it.RecordID.IsProvisional() {
		err := e.remote.Delete(ctx, it.Entity, it.RecordID)
		if err != nil && !errors.Is(err, client.ErrNotFound) {
			return e.fail(ctx, p, it, err)
		}
		p.touch(it.Entity)
	}
	_, err := e.store.Queue.Delete(ctx, it.ID)
	return err
}

// fail charges a remote failure to the item and drops it at the ceiling.
func (e *Engine) fail(ctx context.Context, p *pass, it *models.QueueItem, cause error) error {
	now := e.clock.Now()
	it.Attempts++
	it.LastAttemptAt = &now
	it.Error = cause.Error()

	p.failed++
	p.lastErr = cause
	if errors.Is(cause, client.ErrUnavailable) {
		p.aborted = true
	}

	if it.Attempts >= e.maxRetries {
		e.log.Warn(ctx, "giving up on queue item",
			"operation", it.Operation, "kind", it.Entity, "id", it.RecordID, "attempts", it.Attempts, "error", cause)
		_, err := e.store.Queue.Delete(ctx, it.ID)
		return err
	}

	e.log.Debug(ctx, "queue item failed",
		"operation", it.Operation, "kind", it.Entity, "id", it.RecordID, "attempts", it.Attempts, "error", cause)
	return e.store.Queue.Update(ctx, it)
}

// postpone records a deferral, or charges a failure for an orphan.
func (e *Engine) postpone(ctx context.Context, p *pass, it *models.QueueItem, cause error) error {
	if errors.Is(cause, ErrOrphanedReference) {
		return e.fail(ctx, p, it, cause)
	}

	now := e.clock.Now()
	it.Deferrals++
	it.LastAttemptAt = &now
	it.Error = cause.Error()

	if e.maxDeferrals > 0 && it.Deferrals >= e.maxDeferrals {
		e.log.Warn(ctx, "giving up on queue item waiting for a dependency",
			"operation", it.Operation, "kind", it.Entity, "id", it.RecordID, "deferrals", it.Deferrals)
		p.failed++
		p.lastErr = cause
		_, err := e.store.Queue.Delete(ctx, it.ID)
		return err
	}

	p.deferred++
	e.log.Debug(ctx, "queue item deferred", "kind", it.Entity, "id", it.RecordID, "reason", cause)
	return e.store.Queue.Update(ctx, it)
}
