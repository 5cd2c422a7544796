package queue

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/fintrack/internal/client/models"
	"github.com/dmitrijs2005/fintrack/internal/common"
	"github.com/dmitrijs2005/fintrack/internal/dbx"
)

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

const selectItem = `
	SELECT id, operation, entity, record_id, data, created_at,
	       attempts, deferrals, last_attempt_at, error
	FROM sync_queue`

func formatTime(t time.Time) string {
	return t.UTC().Format(models.TimeLayout)
}

func nullData(data []byte) sql.NullString {
	if data == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: string(data), Valid: true}
}

func (r *SQLiteRepository) Add(ctx context.Context, item *models.QueueItem) (int64, error) {
	if item.CreatedAt.IsZero() {
		item.CreatedAt = time.Now().UTC()
	}

	var lastAttempt sql.NullString
	if item.LastAttemptAt != nil {
		lastAttempt = sql.NullString{String: formatTime(*item.LastAttemptAt), Valid: true}
	}

	res, err := r.db.ExecContext(ctx, `
		INSERT INTO sync_queue
		  (operation, entity, record_id, data, created_at, attempts, deferrals, last_attempt_at, error)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		string(item.Operation), item.Entity.String(), string(item.RecordID), nullData(item.Data),
		formatTime(item.CreatedAt), item.Attempts, item.Deferrals, lastAttempt, item.Error)
	if err != nil {
		return 0, fmt.Errorf("failed to enqueue %s %s: %w", item.Operation, item.Entity, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read queue id: %w", err)
	}
	item.ID = id
	return id, nil
}

func (r *SQLiteRepository) BulkAdd(ctx context.Context, items []*models.QueueItem) error {
	for _, it := range items {
		if _, err := r.Add(ctx, it); err != nil {
			return err
		}
	}
	return nil
}

func (r *SQLiteRepository) GetAll(ctx context.Context) ([]*models.QueueItem, error) {
	return r.query(ctx, selectItem+` ORDER BY created_at, id`)
}

func (r *SQLiteRepository) query(ctx context.Context, q string, args ...any) ([]*models.QueueItem, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query queue: %w", err)
	}
	defer rows.Close()

	var result []*models.QueueItem
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, it)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate queue rows: %w", err)
	}
	return result, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanItem(s scanner) (*models.QueueItem, error) {
	var (
		it          models.QueueItem
		op, entity  string
		recordID    string
		data        sql.NullString
		createdAt   string
		lastAttempt sql.NullString
	)
	if err := s.Scan(&it.ID, &op, &entity, &recordID, &data, &createdAt,
		&it.Attempts, &it.Deferrals, &lastAttempt, &it.Error); err != nil {
		return nil, fmt.Errorf("failed to scan queue row: %w", err)
	}

	kind, err := models.ParseEntityKind(entity)
	if err != nil {
		return nil, fmt.Errorf("queue item %d: %w", it.ID, err)
	}
	it.Operation = models.Operation(op)
	it.Entity = kind
	it.RecordID = models.ID(recordID)
	if data.Valid {
		it.Data = []byte(data.String)
	}

	if it.CreatedAt, err = time.Parse(models.TimeLayout, createdAt); err != nil {
		return nil, fmt.Errorf("queue item %d created_at: %w", it.ID, err)
	}
	if lastAttempt.Valid {
		t, err := time.Parse(models.TimeLayout, lastAttempt.String)
		if err != nil {
			return nil, fmt.Errorf("queue item %d last_attempt_at: %w", it.ID, err)
		}
		it.LastAttemptAt = &t
	}
	return &it, nil
}

func (r *SQLiteRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM sync_queue`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count queue: %w", err)
	}
	return n, nil
}

func (r *SQLiteRepository) Update(ctx context.Context, item *models.QueueItem) error {
	var lastAttempt sql.NullString
	if item.LastAttemptAt != nil {
		lastAttempt = sql.NullString{String: formatTime(*item.LastAttemptAt), Valid: true}
	}

	_, err := r.db.ExecContext(ctx, `
		UPDATE sync_queue
		SET data = ?, attempts = ?, deferrals = ?, last_attempt_at = ?, error = ?
		WHERE id = ?`,
		nullData(item.Data), item.Attempts, item.Deferrals, lastAttempt, item.Error, item.ID)
	if err != nil {
		return fmt.Errorf("failed to update queue item %d: %w", item.ID, err)
	}
	return nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM sync_queue WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete queue item %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *SQLiteRepository) DeleteByRecordID(ctx context.Context, kind models.EntityKind, recordID models.ID) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM sync_queue WHERE entity = ? AND record_id = ?`, kind.String(), string(recordID))
	if err != nil {
		return 0, fmt.Errorf("failed to drop queued %s %s: %w", kind, recordID, err)
	}
	return res.RowsAffected()
}

func (r *SQLiteRepository) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM sync_queue`); err != nil {
		return fmt.Errorf("failed to clear queue: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) FindCreate(ctx context.Context, kind models.EntityKind, recordID models.ID) (*models.QueueItem, error) {
	row := r.db.QueryRowContext(ctx, selectItem+`
		WHERE entity = ? AND record_id = ? AND operation = ?
		ORDER BY id LIMIT 1`, kind.String(), string(recordID), string(models.OpCreate))

	it, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("queued create %s %s: %w", kind, recordID, common.ErrNotFound)
	}
	return it, err
}

func (r *SQLiteRepository) HasCreate(ctx context.Context, kind models.EntityKind, recordID models.ID) (bool, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM sync_queue
		WHERE entity = ? AND record_id = ? AND operation = ?`,
		kind.String(), string(recordID), string(models.OpCreate)).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("failed to look up queued create %s %s: %w", kind, recordID, err)
	}
	return n > 0, nil
}

func (r *SQLiteRepository) RemapReference(ctx context.Context, field models.RefField, oldID, newID models.ID) (int64, error) {
	path := "$." + string(field)
	res, err := r.db.ExecContext(ctx, `
		UPDATE sync_queue SET data = json_set(data, ?, ?)
		WHERE data IS NOT NULL AND json_extract(data, ?) = ?`,
		path, string(newID), path, string(oldID))
	if err != nil {
		return 0, fmt.Errorf("failed to remap queued %s %s: %w", field, oldID, err)
	}
	return res.RowsAffected()
}
