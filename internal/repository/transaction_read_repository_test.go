package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/fintrack/fintrack/internal/models"
	"github.com/go-redis/redismock/v9"
	"github.com/rs/zerolog"
)

var txViewColumns = []string{"id", "user_id", "category", "amount", "description", "date", "created_at"}

func newReadRepoTest(t *testing.T) (*TransactionReadRepository, sqlmock.Sqlmock, redismock.ClientMock) {
	t.Helper()
	db, dbMock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to open sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	rdb, redisMock := redismock.NewClientMock()
	return NewTransactionReadRepository(db, rdb, zerolog.Nop()), dbMock, redisMock
}

func TestListByUserOrdering(t *testing.T) {
	repo, dbMock, redisMock := newReadRepoTest(t)

	newest := time.Date(2025, 8, 1, 12, 0, 0, 0, time.UTC)
	older := newest.Add(-24 * time.Hour)
	rows := sqlmock.NewRows(txViewColumns).
		AddRow(int64(3), "usr-001", "GROCERIES", 12.5, "milk", newest, newest).
		AddRow(int64(2), "usr-001", "CASH", 20.0, "atm", older, older.Add(2*time.Hour)).
		AddRow(int64(1), "usr-001", "TRAVEL", 99.0, "train", older, older.Add(time.Hour))
	dbMock.ExpectQuery(`ORDER BY date DESC, created_at DESC`).
		WithArgs("usr-001").
		WillReturnRows(rows)

	views, err := repo.ListByUser(context.Background(), "usr-001")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(views) != 3 {
		t.Fatalf("expected 3 views got %d", len(views))
	}
	for i := 0; i < len(views)-1; i++ {
		if views[i].Date.Before(views[i+1].Date) {
			t.Errorf("dates out of order at %d: %v before %v", i, views[i].Date, views[i+1].Date)
		}
		if views[i].Date.Equal(views[i+1].Date) && views[i].CreatedAt.Before(views[i+1].CreatedAt) {
			t.Errorf("created_at tie-break violated at %d", i)
		}
	}

	if err := dbMock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet db expectations: %v", err)
	}
	if err := redisMock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet redis expectations: %v", err)
	}
}

func TestGetByIDCacheHitRestoresOwner(t *testing.T) {
	repo, _, redisMock := newReadRepoTest(t)
	redisMock.ExpectGet("transaction:view:usr-001:42").
		SetVal(`{"id":42,"category":"GROCERIES","amount":12.5,"description":"milk"}`)

	view, err := repo.GetByID(context.Background(), 42, "usr-001")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if view == nil || view.ID != 42 {
		t.Fatalf("unexpected view: %+v", view)
	}
	if view.UserID != "usr-001" {
		t.Errorf("cache hit must carry the owner, got %q", view.UserID)
	}

	if err := redisMock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet redis expectations: %v", err)
	}
}

func TestGetByIDCacheMissFallsBack(t *testing.T) {
	repo, dbMock, redisMock := newReadRepoTest(t)

	date := time.Date(2025, 8, 1, 12, 0, 0, 0, time.UTC)
	created := date.Add(time.Minute)
	redisMock.ExpectGet("transaction:view:usr-001:42").RedisNil()
	dbMock.ExpectQuery(`WHERE id = \$1 AND user_id = \$2`).
		WithArgs(int64(42), "usr-001").
		WillReturnRows(sqlmock.NewRows(txViewColumns).
			AddRow(int64(42), "usr-001", "GROCERIES", 12.5, "milk", date, created))

	expected := models.TransactionView{
		ID: 42, UserID: "usr-001",
		Category: models.CategoryGroceries, Amount: 12.5, Description: "milk",
		Date: date, CreatedAt: created,
	}
	warmed, _ := json.Marshal(&expected)
	redisMock.ExpectSet("transaction:view:usr-001:42", warmed, 0).SetVal("OK")

	view, err := repo.GetByID(context.Background(), 42, "usr-001")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if view == nil || view.ID != 42 || view.UserID != "usr-001" {
		t.Fatalf("unexpected view: %+v", view)
	}

	if err := dbMock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet db expectations: %v", err)
	}
	if err := redisMock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet redis expectations: %v", err)
	}
}

func TestGetByIDAbsent(t *testing.T) {
	repo, dbMock, redisMock := newReadRepoTest(t)

	redisMock.ExpectGet("transaction:view:usr-001:999").RedisNil()
	dbMock.ExpectQuery(`WHERE id = \$1 AND user_id = \$2`).
		WithArgs(int64(999), "usr-001").
		WillReturnError(sql.ErrNoRows)

	view, err := repo.GetByID(context.Background(), 999, "usr-001")
	if err != nil {
		t.Fatalf("absence must not be an error, got %v", err)
	}
	if view != nil {
		t.Errorf("expected nil view, got %+v", view)
	}
}
