// Package records is the client's local store: the best known state of every
// ledger record, keyed by entity kind and identifier.
//
// # Data Model
//
// All kinds share one SQLite table. A row holds the record JSON (body) and a
// per-kind sort key (name for accounts, date for transactions, creation time
// for loans, ...). Relational fields live inside the JSON body and are
// queried and rewritten with SQLite's JSON functions, which is how
// RemapReference swaps a provisional id for a durable one across the store.
//
// # Recent window
//
// Transactions are the high-volume kind. Recent returns the newest rows and
// TrimToLimit drops everything beyond a window, except rows that still hold
// a provisional id (their create has not been delivered yet).
//
// Typical Usage
//
//	repo := records.NewSQLiteRepository(db)
//	_ = repo.Put(ctx, account)
//	rec, _ := repo.Get(ctx, models.KindAccount, id)
//	n, _ := repo.RemapReference(ctx, models.RefAccount, "temp_x", "7")
package records
