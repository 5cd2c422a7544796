package records

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/fintrack/internal/client/models"
	"github.com/dmitrijs2005/fintrack/internal/common"

	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE records (
  kind     TEXT NOT NULL,
  id       TEXT NOT NULL,
  body     TEXT NOT NULL,
  sort_key TEXT NOT NULL DEFAULT '',
  PRIMARY KEY (kind, id)
);`)
	require.NoError(t, err)
	return db
}

func account(id models.ID, name string) *models.Account {
	return &models.Account{
		Meta:     models.Meta{ID: id},
		Name:     name,
		Type:     models.AccountCash,
		Currency: "EUR",
		Balance:  decimal.RequireFromString("10.50"),
	}
}

func tx(id models.ID, day int, accountID models.ID) *models.Transaction {
	return &models.Transaction{
		Meta:      models.Meta{ID: id},
		Type:      models.TxExpense,
		Amount:    decimal.NewFromInt(int64(day)),
		Currency:  "EUR",
		Date:      time.Date(2024, 3, day, 12, 0, 0, 0, time.UTC),
		AccountID: accountID,
	}
}

func ids(recs []models.Record) []models.ID {
	out := make([]models.ID, 0, len(recs))
	for _, r := range recs {
		out = append(out, r.RecordID())
	}
	return out
}

func TestPutAndGet_RoundTrip(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, r.Put(ctx, account("1", "Wallet")))

	got, err := r.Get(ctx, models.KindAccount, "1")
	require.NoError(t, err)
	a, ok := got.(*models.Account)
	require.True(t, ok)
	assert.Equal(t, "Wallet", a.Name)
	assert.True(t, a.Balance.Equal(decimal.RequireFromString("10.5")))
}

func TestGet_Missing_ReturnsErrNotFound(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))

	_, err := r.Get(context.Background(), models.KindAccount, "404")
	require.ErrorIs(t, err, common.ErrNotFound)
}

func TestGet_KindsAreSeparate(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, r.Put(ctx, account("1", "Wallet")))

	_, err := r.Get(ctx, models.KindCategory, "1")
	require.ErrorIs(t, err, common.ErrNotFound)
}

func TestPut_EmptyID_Fails(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	require.Error(t, r.Put(context.Background(), account("", "x")))
}

func TestPut_UpsertReplacesBodyAndSortKey(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, r.PutAll(ctx, []models.Record{account("1", "Zeta"), account("2", "Beta")}))
	require.NoError(t, r.Put(ctx, account("1", "Alpha")))

	list, err := r.List(ctx, models.KindAccount)
	require.NoError(t, err)
	assert.Equal(t, []models.ID{"1", "2"}, ids(list))
	assert.Equal(t, "Alpha", list[0].(*models.Account).Name)
}

func TestDelete_IsIdempotent(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, r.Put(ctx, account("1", "Wallet")))
	require.NoError(t, r.Delete(ctx, models.KindAccount, "1"))
	require.NoError(t, r.Delete(ctx, models.KindAccount, "1"))

	n, err := r.Count(ctx, models.KindAccount)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestClear_OnlyTouchesOneKind(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, r.Put(ctx, account("1", "Wallet")))
	require.NoError(t, r.Put(ctx, tx("2", 1, "1")))
	require.NoError(t, r.Clear(ctx, models.KindTransaction))

	n, err := r.Count(ctx, models.KindAccount)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	require.NoError(t, r.ClearAll(ctx))
	n, err = r.Count(ctx, models.KindAccount)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestRecentAndRange_NewestFirst(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	for d := 1; d <= 5; d++ {
		require.NoError(t, r.Put(ctx, tx(models.DurableID(int64(d)), d, "1")))
	}

	recent, err := r.Recent(ctx, models.KindTransaction, 2)
	require.NoError(t, err)
	assert.Equal(t, []models.ID{"5", "4"}, ids(recent))

	from := models.SortTime(time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC))
	to := models.SortTime(time.Date(2024, 3, 3, 23, 59, 59, 0, time.UTC))
	inRange, err := r.Range(ctx, models.KindTransaction, from, to)
	require.NoError(t, err)
	assert.Equal(t, []models.ID{"3", "2"}, ids(inRange))
}

func TestFindByRef(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, r.Put(ctx, tx("1", 1, "10")))
	require.NoError(t, r.Put(ctx, tx("2", 2, "11")))
	require.NoError(t, r.Put(ctx, tx("3", 3, "10")))

	got, err := r.FindByRef(ctx, models.KindTransaction, models.RefAccount, "10")
	require.NoError(t, err)
	assert.Equal(t, []models.ID{"3", "1"}, ids(got))
}

func TestTrimToLimit_KeepsNewestAndProvisional(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	for d := 1; d <= 5; d++ {
		require.NoError(t, r.Put(ctx, tx(models.DurableID(int64(d)), d+10, "1")))
	}
	// oldest row, but not yet delivered
	require.NoError(t, r.Put(ctx, tx("temp_a", 1, "1")))

	removed, err := r.TrimToLimit(ctx, models.KindTransaction, 2)
	require.NoError(t, err)
	assert.EqualValues(t, 3, removed)

	list, err := r.List(ctx, models.KindTransaction)
	require.NoError(t, err)
	assert.ElementsMatch(t, []models.ID{"temp_a", "4", "5"}, ids(list))
}

func TestRemapReference_RewritesMatchingField(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	a := tx("1", 1, "temp_acc")
	a.ToAccountID = "temp_acc"
	require.NoError(t, r.Put(ctx, a))
	require.NoError(t, r.Put(ctx, tx("2", 2, "9")))
	require.NoError(t, r.Put(ctx, &models.Loan{Meta: models.Meta{ID: "3"}, AccountID: "temp_acc"}))

	n, err := r.RemapReference(ctx, models.RefAccount, "temp_acc", "42")
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	got, err := r.Get(ctx, models.KindTransaction, "1")
	require.NoError(t, err)
	moved := got.(*models.Transaction)
	assert.Equal(t, models.ID("42"), moved.AccountID)
	assert.Equal(t, models.ID("temp_acc"), moved.ToAccountID)

	loan, err := r.Get(ctx, models.KindLoan, "3")
	require.NoError(t, err)
	assert.Equal(t, models.ID("42"), loan.(*models.Loan).AccountID)

	n, err = r.RemapReference(ctx, models.RefToAccount, "temp_acc", "42")
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}
