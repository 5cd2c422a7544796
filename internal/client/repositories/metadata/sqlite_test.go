package metadata

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

const schema = `CREATE TABLE metadata (key TEXT PRIMARY KEY, value BLOB NOT NULL);`

func openRepo(t *testing.T) (*SQLiteRepository, *sql.DB) {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(schema)
	require.NoError(t, err)
	return NewSQLiteRepository(db), db
}

func TestKeyValue_Lifecycle(t *testing.T) {
	r, _ := openRepo(t)
	ctx := context.Background()

	v, err := r.Get(ctx, KeyDeviceID)
	require.NoError(t, err)
	assert.Nil(t, v, "absent key reads as nil")

	require.NoError(t, r.Set(ctx, "cursor", []byte("41")))
	require.NoError(t, r.Set(ctx, "cursor", []byte("42")))
	require.NoError(t, r.Set(ctx, "theme", []byte{0x01}))

	v, err = r.Get(ctx, "cursor")
	require.NoError(t, err)
	assert.Equal(t, []byte("42"), v)

	all, err := r.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string][]byte{"cursor": []byte("42"), "theme": {0x01}}, all)

	require.NoError(t, r.Delete(ctx, "cursor"))
	require.NoError(t, r.Delete(ctx, "cursor"))
	v, err = r.Get(ctx, "cursor")
	require.NoError(t, err)
	assert.Nil(t, v)

	require.NoError(t, r.Clear(ctx))
	all, err = r.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestClosedDatabase_ErrorsAreWrapped(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name string
		call func(r *SQLiteRepository) error
		want string
	}{
		{"get", func(r *SQLiteRepository) error { _, err := r.Get(ctx, "k"); return err }, "failed to get metadata[k]"},
		{"set", func(r *SQLiteRepository) error { return r.Set(ctx, "k", []byte("v")) }, "failed to set metadata[k]"},
		{"delete", func(r *SQLiteRepository) error { return r.Delete(ctx, "k") }, "failed to delete metadata[k]"},
		{"clear", func(r *SQLiteRepository) error { return r.Clear(ctx) }, "failed to clear metadata"},
		{"list", func(r *SQLiteRepository) error { _, err := r.List(ctx); return err }, "failed to list metadata"},
		{"device id", func(r *SQLiteRepository) error { _, err := r.DeviceID(ctx); return err }, "failed to get metadata[device_id]"},
		{"last sync", func(r *SQLiteRepository) error { return r.SetLastSyncAt(ctx, time.Now()) }, "failed to set metadata[last_sync_at]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, db := openRepo(t)
			require.NoError(t, db.Close())

			err := tt.call(r)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestDeviceID_GeneratedOnceThenStable(t *testing.T) {
	r, _ := openRepo(t)
	ctx := context.Background()

	first, err := r.DeviceID(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, first)

	second, err := r.DeviceID(ctx)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	raw, err := r.Get(ctx, KeyDeviceID)
	require.NoError(t, err)
	assert.Equal(t, first, string(raw))
}

func TestDeviceID_RegeneratedAfterClear(t *testing.T) {
	r, _ := openRepo(t)
	ctx := context.Background()

	first, err := r.DeviceID(ctx)
	require.NoError(t, err)
	require.NoError(t, r.Clear(ctx))

	second, err := r.DeviceID(ctx)
	require.NoError(t, err)
	assert.NotEqual(t, first, second, "a cleared table yields a new installation id")
}

func TestLastSyncAt(t *testing.T) {
	r, _ := openRepo(t)
	ctx := context.Background()

	got, err := r.LastSyncAt(ctx)
	require.NoError(t, err)
	assert.Nil(t, got, "no pass completed yet")

	local := time.FixedZone("UTC+3", 3*60*60)
	at := time.Date(2024, 2, 29, 11, 30, 15, 123, local)
	require.NoError(t, r.SetLastSyncAt(ctx, at))

	raw, err := r.Get(ctx, KeyLastSyncAt)
	require.NoError(t, err)
	assert.Equal(t, "2024-02-29T08:30:15.000000123Z", string(raw), "stored in UTC")

	got, err = r.LastSyncAt(ctx)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, at.Equal(*got))

	require.NoError(t, r.Set(ctx, KeyLastSyncAt, []byte("yesterday")))
	_, err = r.LastSyncAt(ctx)
	require.Error(t, err)
}
