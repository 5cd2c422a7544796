package records

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/fintrack/internal/client/models"
	"github.com/dmitrijs2005/fintrack/internal/common"
	"github.com/dmitrijs2005/fintrack/internal/dbx"
)

// SQLiteRepository implements Repository over a DBTX (either *sql.DB or *sql.Tx).
type SQLiteRepository struct {
	db dbx.DBTX
}

// NewSQLiteRepository returns a new SQLiteRepository bound to the given DBTX.
func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func jsonPath(field models.RefField) string {
	return "$." + string(field)
}

func (r *SQLiteRepository) Get(ctx context.Context, kind models.EntityKind, id models.ID) (models.Record, error) {
	var body string
	err := r.db.QueryRowContext(ctx,
		`SELECT body FROM records WHERE kind = ? AND id = ?`, kind.String(), string(id)).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s %s: %w", kind, id, common.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get %s %s: %w", kind, id, err)
	}
	return models.DecodeRecord(kind, []byte(body))
}

func (r *SQLiteRepository) List(ctx context.Context, kind models.EntityKind) ([]models.Record, error) {
	return r.query(ctx, kind,
		`SELECT body FROM records WHERE kind = ? ORDER BY sort_key, id`, kind.String())
}

func (r *SQLiteRepository) Recent(ctx context.Context, kind models.EntityKind, limit int) ([]models.Record, error) {
	return r.query(ctx, kind,
		`SELECT body FROM records WHERE kind = ? ORDER BY sort_key DESC, id DESC LIMIT ?`, kind.String(), limit)
}

func (r *SQLiteRepository) Range(ctx context.Context, kind models.EntityKind, from, to string) ([]models.Record, error) {
	return r.query(ctx, kind, `
		SELECT body FROM records
		WHERE kind = ? AND sort_key BETWEEN ? AND ?
		ORDER BY sort_key DESC, id DESC`, kind.String(), from, to)
}

func (r *SQLiteRepository) FindByRef(ctx context.Context, kind models.EntityKind, field models.RefField, id models.ID) ([]models.Record, error) {
	return r.query(ctx, kind, `
		SELECT body FROM records
		WHERE kind = ? AND json_extract(body, ?) = ?
		ORDER BY sort_key DESC, id DESC`, kind.String(), jsonPath(field), string(id))
}

func (r *SQLiteRepository) query(ctx context.Context, kind models.EntityKind, q string, args ...any) ([]models.Record, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", kind, err)
	}
	defer rows.Close()

	var result []models.Record
	for rows.Next() {
		var body string
		if err := rows.Scan(&body); err != nil {
			return nil, fmt.Errorf("failed to scan %s row: %w", kind, err)
		}
		rec, err := models.DecodeRecord(kind, []byte(body))
		if err != nil {
			return nil, err
		}
		result = append(result, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate %s rows: %w", kind, err)
	}

	return result, nil
}

func (r *SQLiteRepository) Count(ctx context.Context, kind models.EntityKind) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM records WHERE kind = ?`, kind.String()).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", kind, err)
	}
	return n, nil
}

func (r *SQLiteRepository) Put(ctx context.Context, rec models.Record) error {
	if rec.RecordID().IsZero() {
		return fmt.Errorf("put %s: empty id", rec.Kind())
	}
	body, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", rec.Kind(), err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO records (kind, id, body, sort_key) VALUES (?, ?, ?, ?)
		ON CONFLICT(kind, id) DO UPDATE SET body = excluded.body, sort_key = excluded.sort_key
	`, rec.Kind().String(), string(rec.RecordID()), string(body), rec.SortKey())
	if err != nil {
		return fmt.Errorf("failed to put %s %s: %w", rec.Kind(), rec.RecordID(), err)
	}
	return nil
}

func (r *SQLiteRepository) PutAll(ctx context.Context, recs []models.Record) error {
	for _, rec := range recs {
		if err := r.Put(ctx, rec); err != nil {
			return err
		}
	}
	return nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, kind models.EntityKind, id models.ID) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM records WHERE kind = ? AND id = ?`, kind.String(), string(id))
	if err != nil {
		return fmt.Errorf("failed to delete %s %s: %w", kind, id, err)
	}
	return nil
}

func (r *SQLiteRepository) Clear(ctx context.Context, kind models.EntityKind) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM records WHERE kind = ?`, kind.String()); err != nil {
		return fmt.Errorf("failed to clear %s: %w", kind, err)
	}
	return nil
}

func (r *SQLiteRepository) ClearAll(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM records`); err != nil {
		return fmt.Errorf("failed to clear records: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) TrimToLimit(ctx context.Context, kind models.EntityKind, limit int) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM records
		WHERE kind = ?
		  AND substr(id, 1, length(?)) <> ?
		  AND id NOT IN (
		    SELECT id FROM records WHERE kind = ? ORDER BY sort_key DESC, id DESC LIMIT ?
		  )`,
		kind.String(), common.ProvisionalIDPrefix, common.ProvisionalIDPrefix, kind.String(), limit)
	if err != nil {
		return 0, fmt.Errorf("failed to trim %s: %w", kind, err)
	}
	return res.RowsAffected()
}

func (r *SQLiteRepository) RemapReference(ctx context.Context, field models.RefField, oldID, newID models.ID) (int64, error) {
	path := jsonPath(field)
	res, err := r.db.ExecContext(ctx,
		`UPDATE records SET body = json_set(body, ?, ?) WHERE json_extract(body, ?) = ?`,
		path, string(newID), path, string(oldID))
	if err != nil {
		return 0, fmt.Errorf("failed to remap %s %s: %w", field, oldID, err)
	}
	return res.RowsAffected()
}
