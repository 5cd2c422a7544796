package services

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/fintrack/internal/client/client"
	"github.com/dmitrijs2005/fintrack/internal/client/models"
)

// memRemote is a minimal backend keeping rows in memory.
type memRemote struct {
	mu     sync.Mutex
	nextID int64
	rows   map[models.EntityKind]map[models.ID]models.Record
	calls  []string
}

func newMemRemote() *memRemote {
	return &memRemote{nextID: 100, rows: make(map[models.EntityKind]map[models.ID]models.Record)}
}

func (m *memRemote) put(rec models.Record) models.Record {
	m.nextID++
	out, _ := models.CloneRecord(rec)
	out.SetRecordID(models.DurableID(m.nextID))
	if m.rows[out.Kind()] == nil {
		m.rows[out.Kind()] = make(map[models.ID]models.Record)
	}
	m.rows[out.Kind()][out.RecordID()] = out
	res, _ := models.CloneRecord(out)
	return res
}

func (m *memRemote) Create(ctx context.Context, rec models.Record) (models.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, "create "+rec.Kind().String())
	return m.put(rec), nil
}

func (m *memRemote) BulkCreate(ctx context.Context, kind models.EntityKind, recs []models.Record) ([]models.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, "bulk "+kind.String())
	out := make([]models.Record, 0, len(recs))
	for _, r := range recs {
		out = append(out, m.put(r))
	}
	return out, nil
}

func (m *memRemote) Update(ctx context.Context, kind models.EntityKind, id models.ID, patch models.Patch) (models.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, "update "+kind.String())
	rec, ok := m.rows[kind][id]
	if !ok {
		return nil, client.ErrNotFound
	}
	if err := patch.Apply(rec); err != nil {
		return nil, err
	}
	return models.CloneRecord(rec)
}

func (m *memRemote) Delete(ctx context.Context, kind models.EntityKind, id models.ID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, "delete "+kind.String())
	if _, ok := m.rows[kind][id]; !ok {
		return client.ErrNotFound
	}
	delete(m.rows[kind], id)
	return nil
}

func (m *memRemote) List(ctx context.Context, kind models.EntityKind) ([]models.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Record
	for _, r := range m.rows[kind] {
		c, _ := models.CloneRecord(r)
		out = append(out, c)
	}
	return out, nil
}

func (m *memRemote) callLog() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

// countingTrigger counts notifications instead of draining.
type countingTrigger struct {
	mu    sync.Mutex
	kicks int
}

func (c *countingTrigger) Changed(ctx context.Context) {
	c.mu.Lock()
	c.kicks++
	c.mu.Unlock()
}

func (c *countingTrigger) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.kicks
}
