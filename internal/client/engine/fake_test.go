package engine

import (
	"context"
	"errors"
	"sync"

	"github.com/dmitrijs2005/fintrack/internal/client/client"
	"github.com/dmitrijs2005/fintrack/internal/client/models"
)

// fakeRemote is an in-memory backend. It assigns sequential durable ids and
// records every call.
type fakeRemote struct {
	mu     sync.Mutex
	nextID int64
	rows   map[models.EntityKind]map[models.ID]models.Record

	calls      []string
	violations []string

	fail     map[models.EntityKind]error
	onCreate func()
	updates  []models.Patch
}

func newFakeRemote(firstID int64) *fakeRemote {
	return &fakeRemote{
		nextID: firstID - 1,
		rows:   make(map[models.EntityKind]map[models.ID]models.Record),
		fail:   make(map[models.EntityKind]error),
	}
}

func (f *fakeRemote) checkRefs(op string, refs map[models.RefField]models.ID) {
	if len(models.ProvisionalRefs(refs)) > 0 {
		f.violations = append(f.violations, op)
	}
}

func (f *fakeRemote) store(rec models.Record) models.Record {
	f.nextID++
	out, _ := models.CloneRecord(rec)
	out.SetRecordID(models.DurableID(f.nextID))
	if f.rows[out.Kind()] == nil {
		f.rows[out.Kind()] = make(map[models.ID]models.Record)
	}
	f.rows[out.Kind()][out.RecordID()] = out
	res, _ := models.CloneRecord(out)
	return res
}

func (f *fakeRemote) Create(ctx context.Context, rec models.Record) (models.Record, error) {
	f.mu.Lock()
	f.calls = append(f.calls, "create "+rec.Kind().String())
	hook := f.onCreate
	f.mu.Unlock()

	if hook != nil {
		hook()
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail[rec.Kind()]; err != nil {
		return nil, err
	}
	if !rec.RecordID().IsZero() {
		f.violations = append(f.violations, "create with id "+rec.RecordID().String())
	}
	f.checkRefs("create "+rec.Kind().String(), rec.Refs())
	return f.store(rec), nil
}

func (f *fakeRemote) Update(ctx context.Context, kind models.EntityKind, id models.ID, patch models.Patch) (models.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "update "+kind.String()+" "+id.String())
	f.updates = append(f.updates, patch)
	if err := f.fail[kind]; err != nil {
		return nil, err
	}
	if id.IsProvisional() {
		f.violations = append(f.violations, "update "+id.String())
	}
	f.checkRefs("update "+kind.String(), patch.Refs())

	rec, ok := f.rows[kind][id]
	if !ok {
		return nil, client.ErrNotFound
	}
	if err := patch.Apply(rec); err != nil {
		return nil, err
	}
	return models.CloneRecord(rec)
}

func (f *fakeRemote) Delete(ctx context.Context, kind models.EntityKind, id models.ID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "delete "+kind.String()+" "+id.String())
	if err := f.fail[kind]; err != nil {
		return err
	}
	if id.IsProvisional() {
		f.violations = append(f.violations, "delete "+id.String())
	}
	if _, ok := f.rows[kind][id]; !ok {
		return client.ErrNotFound
	}
	delete(f.rows[kind], id)
	return nil
}

func (f *fakeRemote) List(ctx context.Context, kind models.EntityKind) ([]models.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail[kind]; err != nil {
		return nil, err
	}
	var out []models.Record
	for _, r := range f.rows[kind] {
		c, _ := models.CloneRecord(r)
		out = append(out, c)
	}
	return out, nil
}

func (f *fakeRemote) BulkCreate(ctx context.Context, kind models.EntityKind, recs []models.Record) ([]models.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "bulk "+kind.String())
	if err := f.fail[kind]; err != nil {
		return nil, err
	}
	out := make([]models.Record, 0, len(recs))
	for _, r := range recs {
		f.checkRefs("bulk "+kind.String(), r.Refs())
		out = append(out, f.store(r))
	}
	return out, nil
}

func (f *fakeRemote) callLog() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeRemote) setFail(kind models.EntityKind, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fail[kind] = err
}

var errRejected = errors.New("rejected by backend")
