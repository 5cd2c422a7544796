package records

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/fintrack/internal/common"
	"github.com/dmitrijs2005/fintrack/internal/dbx"
	"github.com/dmitrijs2005/fintrack/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, rec *models.Record) (*models.Record, error) {
	body, err := json.Marshal(rec.Body)
	if err != nil {
		return nil, fmt.Errorf("encode body: %w", err)
	}

	query :=
		`INSERT INTO records (user_id, kind, body, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id
		 `

	err = r.db.QueryRowContext(ctx, query,
		rec.UserID, rec.Kind, string(body), rec.CreatedAt, rec.UpdatedAt).Scan(&rec.ID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return rec, nil
}

func (r *PostgresRepository) Get(ctx context.Context, userID, kind string, id int64) (*models.Record, error) {
	query :=
		`SELECT id, user_id, kind, body, created_at, updated_at FROM records
		 WHERE user_id = $1 AND kind = $2 AND id = $3
		 `

	rec, err := scanRecord(r.db.QueryRowContext(ctx, query, userID, kind, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return rec, nil
}

func (r *PostgresRepository) List(ctx context.Context, userID, kind string) ([]*models.Record, error) {
	query :=
		`SELECT id, user_id, kind, body, created_at, updated_at FROM records
		 WHERE user_id = $1 AND kind = $2
		 ORDER BY id
		 `

	rows, err := r.db.QueryContext(ctx, query, userID, kind)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]*models.Record, 0)
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

func (r *PostgresRepository) Update(ctx context.Context, rec *models.Record) error {
	body, err := json.Marshal(rec.Body)
	if err != nil {
		return fmt.Errorf("encode body: %w", err)
	}

	query :=
		`UPDATE records SET body = $1, updated_at = $2
		 WHERE user_id = $3 AND kind = $4 AND id = $5
		 `

	res, err := r.db.ExecContext(ctx, query, string(body), rec.UpdatedAt, rec.UserID, rec.Kind, rec.ID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return affectedOne(res)
}

func (r *PostgresRepository) Delete(ctx context.Context, userID, kind string, id int64) error {
	query :=
		`DELETE FROM records
		 WHERE user_id = $1 AND kind = $2 AND id = $3
		 `

	res, err := r.db.ExecContext(ctx, query, userID, kind, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return affectedOne(res)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(s scanner) (*models.Record, error) {
	rec := &models.Record{}
	var body []byte
	if err := s.Scan(&rec.ID, &rec.UserID, &rec.Kind, &body, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
		return nil, err
	}
	b, err := models.DecodeBody(body)
	if err != nil {
		return nil, err
	}
	rec.Body = b
	return rec, nil
}

func affectedOne(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrNotFound
	}
	return nil
}
