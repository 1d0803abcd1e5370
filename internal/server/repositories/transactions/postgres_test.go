package transactions

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/budgetkeeper/internal/common"
	"github.com/dmitrijs2005/budgetkeeper/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var txCols = []string{"id", "user_id", "account_id", "subcategory_id", "description", "amount", "currency", "date", "notes", "receipt_key", "created_at", "updated_at"}

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewPostgresRepository(db), mock
}

func row(id string, date time.Time) []driver.Value {
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	return []driver.Value{id, "u1", "acc-1", nil, "coffee", "3.50", "EUR", date, nil, nil, now, now}
}

func addRows(rows *sqlmock.Rows, vals ...[]driver.Value) *sqlmock.Rows {
	for _, v := range vals {
		rows.AddRow(v...)
	}
	return rows
}

func TestList_NoFilters(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	d1 := time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC)
	d2 := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	q := `(?s)^SELECT\s+.*FROM\s+transactions\s+WHERE\s+user_id\s*=\s*\$1\s+ORDER\s+BY\s+date\s+DESC,\s*created_at\s+DESC\s+LIMIT\s+\$2$`
	mock.ExpectQuery(q).
		WithArgs("u1", 100).
		WillReturnRows(addRows(sqlmock.NewRows(txCols), row("t1", d1), row("t2", d2)))

	got, err := repo.List(context.Background(), "u1", models.TransactionFilter{Limit: 100})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "t1", got[0].ID)
	assert.Equal(t, "3.50", got[0].Amount)
	assert.Nil(t, got[0].SubcategoryID)
	require.NotNil(t, got[0].Description)
	assert.Equal(t, "coffee", *got[0].Description)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestList_AllFilters(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	from := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	sub := "sc-1"

	q := `(?s)WHERE\s+user_id\s*=\s*\$1\s+AND\s+date\s*>=\s*\$2\s+AND\s+date\s*<\s*\$3\s+AND\s+subcategory_id\s*=\s*\$4\s+ORDER\s+BY.*LIMIT\s+\$5$`
	mock.ExpectQuery(q).
		WithArgs("u1", from, to, sub, 10).
		WillReturnRows(sqlmock.NewRows(txCols))

	got, err := repo.List(context.Background(), "u1", models.TransactionFilter{From: &from, To: &to, SubcategoryID: &sub, Limit: 10})
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestList_DBError(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`SELECT`).WillReturnError(errors.New("db down"))

	_, err := repo.List(context.Background(), "u1", models.TransactionFilter{Limit: 1})
	require.Error(t, err)
	assert.Regexp(t, regexp.MustCompile(`db error: .*db down`), err.Error())
}

func TestCreate_Success(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	d := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	in := &models.Transaction{UserID: "u1", AccountID: "acc-1", Amount: "3.5", Currency: "EUR", Date: d}

	q := `(?s)^INSERT\s+INTO\s+transactions\s*\(user_id,.*VALUES\s*\(\$1,\s*\$2,\s*\$3,\s*\$4,\s*\$5,\s*\$6,\s*\$7,\s*\$8\)\s*RETURNING\s+id,`
	mock.ExpectQuery(q).
		WithArgs("u1", "acc-1", nil, nil, "3.5", "EUR", d, nil).
		WillReturnRows(addRows(sqlmock.NewRows(txCols), row("t1", d)))

	got, err := repo.Create(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, "t1", got.ID)
	assert.Equal(t, "3.50", got.Amount)
}

func TestGet_NotFound(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`(?s)FROM\s+transactions\s+WHERE\s+id\s*=\s*\$1\s+AND\s+user_id\s*=\s*\$2`).
		WithArgs("t1", "u1").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.Get(context.Background(), "u1", "t1")
	require.ErrorIs(t, err, common.ErrorNotFound)
}

func TestGet_Found(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	d := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	vals := row("t1", d)
	vals[9] = "receipts/u1/t1/abc"
	mock.ExpectQuery(`(?s)FROM\s+transactions\s+WHERE\s+id\s*=\s*\$1\s+AND\s+user_id\s*=\s*\$2`).
		WithArgs("t1", "u1").
		WillReturnRows(addRows(sqlmock.NewRows(txCols), vals))

	got, err := repo.Get(context.Background(), "u1", "t1")
	require.NoError(t, err)
	require.NotNil(t, got.ReceiptKey)
	assert.Equal(t, "receipts/u1/t1/abc", *got.ReceiptKey)
}

func TestDelete(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	q := `^DELETE\s+FROM\s+transactions\s+WHERE\s+id\s*=\s*\$1\s+AND\s+user_id\s*=\s*\$2$`

	mock.ExpectExec(q).WithArgs("t1", "u1").WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.Delete(context.Background(), "u1", "t1"))

	mock.ExpectExec(q).WithArgs("t1", "u2").WillReturnResult(sqlmock.NewResult(0, 0))
	require.ErrorIs(t, repo.Delete(context.Background(), "u2", "t1"), common.ErrorNotFound)

	mock.ExpectExec(q).WithArgs("t1", "u1").WillReturnError(errors.New("db down"))
	err := repo.Delete(context.Background(), "u1", "t1")
	require.Error(t, err)
	assert.NotErrorIs(t, err, common.ErrorNotFound)
}

func TestSetReceiptKey(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectExec(`^UPDATE\s+transactions\s+SET\s+receipt_key\s*=\s*\$3`).
		WithArgs("t1", "u1", "receipts/k").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.SetReceiptKey(context.Background(), "u1", "t1", "receipts/k"))
	require.NoError(t, mock.ExpectationsWereMet())
}
