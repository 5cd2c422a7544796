package repomanager

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/fintrack/internal/server/repositories/records"
)

// InMemoryRepositoryManager keeps everything in process memory. Transactions
// run one at a time on a snapshot that replaces the live data on success.
type InMemoryRepositoryManager struct {
	txMu    sync.Mutex
	records *records.MemoryRepository
}

func NewInMemoryRepositoryManager() *InMemoryRepositoryManager {
	return &InMemoryRepositoryManager{records: records.NewMemoryRepository()}
}

func (m *InMemoryRepositoryManager) RunMigrations(context.Context) error { return nil }
func (m *InMemoryRepositoryManager) Records() records.Repository         { return m.records }
func (m *InMemoryRepositoryManager) Close() error                        { return nil }

func (m *InMemoryRepositoryManager) InTx(ctx context.Context, fn func(ctx context.Context, repo records.Repository) error) error {
	m.txMu.Lock()
	defer m.txMu.Unlock()

	snap := m.records.Snapshot()
	if err := fn(ctx, snap); err != nil {
		return err
	}
	m.records.Restore(snap)
	return nil
}
