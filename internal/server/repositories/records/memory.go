package records

import (
	"context"
	"sort"
	"sync"

	"github.com/dmitrijs2005/fintrack/internal/common"
	"github.com/dmitrijs2005/fintrack/internal/server/models"
)

type recordKey struct {
	userID string
	kind   string
	id     int64
}

// MemoryRepository keeps records in process memory. It backs the server when
// no database DSN is configured.
type MemoryRepository struct {
	mu     sync.RWMutex
	nextID int64
	data   map[recordKey]*models.Record
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{data: make(map[recordKey]*models.Record)}
}

func (r *MemoryRepository) Create(_ context.Context, rec *models.Record) (*models.Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	rec.ID = r.nextID
	r.data[recordKey{rec.UserID, rec.Kind, rec.ID}] = rec.Clone()
	return rec, nil
}

func (r *MemoryRepository) Get(_ context.Context, userID, kind string, id int64) (*models.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.data[recordKey{userID, kind, id}]
	if !ok {
		return nil, common.ErrNotFound
	}
	return rec.Clone(), nil
}

func (r *MemoryRepository) List(_ context.Context, userID, kind string) ([]*models.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*models.Record, 0)
	for k, rec := range r.data {
		if k.userID == userID && k.kind == kind {
			result = append(result, rec.Clone())
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (r *MemoryRepository) Update(_ context.Context, rec *models.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	k := recordKey{rec.UserID, rec.Kind, rec.ID}
	cur, ok := r.data[k]
	if !ok {
		return common.ErrNotFound
	}
	upd := rec.Clone()
	upd.CreatedAt = cur.CreatedAt
	r.data[k] = upd
	return nil
}

func (r *MemoryRepository) Delete(_ context.Context, userID, kind string, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	k := recordKey{userID, kind, id}
	if _, ok := r.data[k]; !ok {
		return common.ErrNotFound
	}
	delete(r.data, k)
	return nil
}

// Snapshot returns an independent copy used to run a transaction.
func (r *MemoryRepository) Snapshot() *MemoryRepository {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c := &MemoryRepository{nextID: r.nextID, data: make(map[recordKey]*models.Record, len(r.data))}
	for k, rec := range r.data {
		c.data[k] = rec.Clone()
	}
	return c
}

// Restore replaces the contents with those of a committed snapshot.
func (r *MemoryRepository) Restore(from *MemoryRepository) {
	from.mu.RLock()
	defer from.mu.RUnlock()
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID = from.nextID
	r.data = from.data
}
