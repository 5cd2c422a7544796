package records

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/fintrack/internal/common"
	"github.com/dmitrijs2005/fintrack/internal/server/models"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

var (
	ts      = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	cols    = []string{"id", "user_id", "kind", "body", "created_at", "updated_at"}
	insertQ = `(?s)^INSERT\s+INTO\s+records\s*\(user_id,\s*kind,\s*body,\s*created_at,\s*updated_at\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3,\s*\$4,\s*\$5\)\s*RETURNING\s+id\s*$`
	getQ    = `(?s)^SELECT\s+id,\s*user_id,\s*kind,\s*body,\s*created_at,\s*updated_at\s+FROM\s+records\s+WHERE\s+user_id\s*=\s*\$1\s+AND\s+kind\s*=\s*\$2\s+AND\s+id\s*=\s*\$3\s*$`
	listQ   = `(?s)^SELECT\s+id,\s*user_id,\s*kind,\s*body,\s*created_at,\s*updated_at\s+FROM\s+records\s+WHERE\s+user_id\s*=\s*\$1\s+AND\s+kind\s*=\s*\$2\s+ORDER\s+BY\s+id\s*$`
	updateQ = `(?s)^UPDATE\s+records\s+SET\s+body\s*=\s*\$1,\s*updated_at\s*=\s*\$2\s+WHERE\s+user_id\s*=\s*\$3\s+AND\s+kind\s*=\s*\$4\s+AND\s+id\s*=\s*\$5\s*$`
	deleteQ = `(?s)^DELETE\s+FROM\s+records\s+WHERE\s+user_id\s*=\s*\$1\s+AND\s+kind\s*=\s*\$2\s+AND\s+id\s*=\s*\$3\s*$`
)

func TestCreate_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(insertQ).
		WithArgs("dev-1", "accounts", `{"name":"Cash"}`, ts, ts).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(7)))

	rec := &models.Record{UserID: "dev-1", Kind: "accounts", Body: map[string]any{"name": "Cash"}, CreatedAt: ts, UpdatedAt: ts}
	got, err := repo.Create(context.Background(), rec)
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if got.ID != 7 {
		t.Fatalf("unexpected id: %d", got.ID)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestCreate_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(insertQ).WillReturnError(errors.New("db down"))

	_, err := repo.Create(context.Background(), &models.Record{UserID: "u", Kind: "loans", Body: map[string]any{}})
	if err == nil || !regexp.MustCompile(`db error: .*db down`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}

func TestGet_Found(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(getQ).
		WithArgs("dev-1", "accounts", int64(3)).
		WillReturnRows(sqlmock.NewRows(cols).AddRow(int64(3), "dev-1", "accounts", []byte(`{"name":"Bank"}`), ts, ts))

	got, err := repo.Get(context.Background(), "dev-1", "accounts", 3)
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if got.ID != 3 || got.Body["name"] != "Bank" || !got.CreatedAt.Equal(ts) {
		t.Fatalf("unexpected record: %+v", got)
	}
}

func TestGet_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(getQ).WithArgs("dev-1", "accounts", int64(3)).WillReturnError(sql.ErrNoRows)

	_, err := repo.Get(context.Background(), "dev-1", "accounts", 3)
	if !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestList_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(listQ).
		WithArgs("dev-1", "categories").
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow(int64(1), "dev-1", "categories", []byte(`{"name":"Food"}`), ts, ts).
			AddRow(int64(2), "dev-1", "categories", []byte(`{"name":"Rent"}`), ts, ts))

	got, err := repo.List(context.Background(), "dev-1", "categories")
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(got) != 2 || got[0].Body["name"] != "Food" || got[1].ID != 2 {
		t.Fatalf("unexpected list: %+v", got)
	}
}

func TestList_Empty(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(listQ).WithArgs("dev-1", "loans").WillReturnRows(sqlmock.NewRows(cols))

	got, err := repo.List(context.Background(), "dev-1", "loans")
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", got)
	}
}

func TestList_QueryError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(listQ).WillReturnError(errors.New("boom"))

	if _, err := repo.List(context.Background(), "dev-1", "loans"); err == nil {
		t.Fatal("expected error")
	}
}

func TestList_BadBody(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(listQ).
		WillReturnRows(sqlmock.NewRows(cols).AddRow(int64(1), "dev-1", "loans", []byte(`[1]`), ts, ts))

	_, err := repo.List(context.Background(), "dev-1", "loans")
	if !errors.Is(err, common.ErrInvalidPayload) {
		t.Fatalf("expected ErrInvalidPayload, got %v", err)
	}
}

func TestUpdate(t *testing.T) {
	tests := []struct {
		name     string
		affected int64
		wantErr  error
	}{
		{"updated", 1, nil},
		{"missing", 0, common.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock, db := newRepoWithMock(t)
			defer db.Close()

			mock.ExpectExec(updateQ).
				WithArgs(`{"hidden":true}`, ts, "dev-1", "accounts", int64(5)).
				WillReturnResult(sqlmock.NewResult(0, tt.affected))

			err := repo.Update(context.Background(), &models.Record{ID: 5, UserID: "dev-1", Kind: "accounts", Body: map[string]any{"hidden": true}, UpdatedAt: ts})
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("want %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestDelete(t *testing.T) {
	tests := []struct {
		name     string
		affected int64
		execErr  error
		check    func(error) bool
	}{
		{"deleted", 1, nil, func(err error) bool { return err == nil }},
		{"missing", 0, nil, func(err error) bool { return errors.Is(err, common.ErrNotFound) }},
		{"db error", 0, errors.New("db down"), func(err error) bool {
			return err != nil && regexp.MustCompile(`db error: .*db down`).MatchString(err.Error())
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock, db := newRepoWithMock(t)
			defer db.Close()

			exp := mock.ExpectExec(deleteQ).WithArgs("dev-1", "transactions", int64(9))
			if tt.execErr != nil {
				exp.WillReturnError(tt.execErr)
			} else {
				exp.WillReturnResult(sqlmock.NewResult(0, tt.affected))
			}

			err := repo.Delete(context.Background(), "dev-1", "transactions", 9)
			if !tt.check(err) {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}
