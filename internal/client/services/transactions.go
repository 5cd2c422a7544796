package services

import (
	"context"
	"slices"
	"time"

	"github.com/dmitrijs2005/fintrack/internal/client/models"
)

type Transactions struct {
	*Repository[*models.Transaction]
}

// Recent returns the newest transactions; limit <= 0 means CacheLimit.
func (t *Transactions) Recent(ctx context.Context, limit int) ([]*models.Transaction, error) {
	if limit <= 0 {
		limit = CacheLimit
	}
	recs, err := t.l.store.Records.Recent(ctx, t.kind, limit)
	if err != nil {
		return nil, err
	}
	return castAll[*models.Transaction](recs)
}

// TrimToLimit drops cached transactions beyond the recent window. Rows that
// still wait for their create are kept.
func (t *Transactions) TrimToLimit(ctx context.Context) (int64, error) {
	return t.l.store.Records.TrimToLimit(ctx, t.kind, CacheLimit)
}

// ByDateRange returns transactions dated within [from, to], newest first.
func (t *Transactions) ByDateRange(ctx context.Context, from, to time.Time) ([]*models.Transaction, error) {
	recs, err := t.l.store.Records.Range(ctx, t.kind, models.SortTime(from), models.SortTime(to))
	if err != nil {
		return nil, err
	}
	return castAll[*models.Transaction](recs)
}

// ByAccount returns transactions moving money from or to the account.
func (t *Transactions) ByAccount(ctx context.Context, accountID models.ID) ([]*models.Transaction, error) {
	from, err := t.byRef(ctx, models.RefAccount, accountID)
	if err != nil {
		return nil, err
	}
	to, err := t.byRef(ctx, models.RefToAccount, accountID)
	if err != nil {
		return nil, err
	}

	seen := make(map[models.ID]bool, len(from))
	for _, tx := range from {
		seen[tx.ID] = true
	}
	for _, tx := range to {
		if !seen[tx.ID] {
			from = append(from, tx)
		}
	}
	sortNewestFirst(from)
	return from, nil
}

func (t *Transactions) ByCategory(ctx context.Context, categoryID models.ID) ([]*models.Transaction, error) {
	return t.byRef(ctx, models.RefCategory, categoryID)
}

func (t *Transactions) byRef(ctx context.Context, f models.RefField, id models.ID) ([]*models.Transaction, error) {
	recs, err := t.l.store.Records.FindByRef(ctx, t.kind, f, id)
	if err != nil {
		return nil, err
	}
	return castAll[*models.Transaction](recs)
}

func sortNewestFirst(txs []*models.Transaction) {
	slices.SortStableFunc(txs, func(a, b *models.Transaction) int {
		return b.Date.Compare(a.Date)
	})
}
