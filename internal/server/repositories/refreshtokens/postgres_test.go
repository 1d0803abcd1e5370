package refreshtokens

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/budgetkeeper/internal/common"
	"github.com/dmitrijs2005/budgetkeeper/internal/server/models"
)

const (
	insertQ     = `(?s)^\s*INSERT\s+INTO\s+refresh_tokens\s*\(user_id,\s*token_hash,\s*expires_at\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3\)\s*RETURNING\s+id,\s*created_at\s*$`
	findQ       = `(?s)^\s*SELECT\s+id,\s*user_id,\s*token_hash,\s*revoked,\s*expires_at,\s*created_at\s+FROM\s+refresh_tokens\s+WHERE\s+token_hash\s*=\s*\$1\s*$`
	revokeQ     = `(?s)^\s*UPDATE\s+refresh_tokens\s+SET\s+revoked\s*=\s*TRUE\s+WHERE\s+id\s*=\s*\$1\s+AND\s+revoked\s*=\s*FALSE\s*$`
	revokeAllQ  = `(?s)^\s*UPDATE\s+refresh_tokens\s+SET\s+revoked\s*=\s*TRUE\s+WHERE\s+user_id\s*=\s*\$1\s+AND\s+revoked\s*=\s*FALSE\s*$`
	tokenHashAB = "ab12"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

func TestCreate_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	exp := time.Now().Add(14 * 24 * time.Hour)
	created := time.Now()
	mock.ExpectQuery(insertQ).
		WithArgs("u1", tokenHashAB, exp).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow("rt-1", created))

	rec := &models.RefreshToken{UserID: "u1", TokenHash: tokenHashAB, ExpiresAt: exp}
	if err := repo.Create(context.Background(), rec); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.ID != "rt-1" || !rec.CreatedAt.Equal(created) {
		t.Fatalf("generated fields not filled: %+v", rec)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCreate_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(insertQ).
		WithArgs("u1", tokenHashAB, sqlmock.AnyArg()).
		WillReturnError(errors.New("db down"))

	err := repo.Create(context.Background(), &models.RefreshToken{UserID: "u1", TokenHash: tokenHashAB, ExpiresAt: time.Now()})
	if err == nil || !regexp.MustCompile(`db error: .*db down`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}

func TestFindByHash_Found(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	expires := time.Now().Add(10 * time.Minute)
	created := time.Now()
	rows := sqlmock.NewRows([]string{"id", "user_id", "token_hash", "revoked", "expires_at", "created_at"}).
		AddRow("rt-1", "u1", tokenHashAB, true, expires, created)

	mock.ExpectQuery(findQ).
		WithArgs(tokenHashAB).
		WillReturnRows(rows)

	got, err := repo.FindByHash(context.Background(), tokenHashAB)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID != "rt-1" || got.UserID != "u1" || !got.Revoked || !got.ExpiresAt.Equal(expires) {
		t.Fatalf("unexpected row: %+v", got)
	}
}

func TestFindByHash_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(findQ).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByHash(context.Background(), "missing")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}
}

func TestFindByHash_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(findQ).
		WithArgs(tokenHashAB).
		WillReturnError(errors.New("timeout"))

	_, err := repo.FindByHash(context.Background(), tokenHashAB)
	if err == nil || errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("expected db error, got %v", err)
	}
}

func TestRevoke(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(revokeQ).WithArgs("rt-1").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(revokeQ).WithArgs("rt-1").WillReturnResult(sqlmock.NewResult(0, 0))

	ok, err := repo.Revoke(context.Background(), "rt-1")
	if err != nil || !ok {
		t.Fatalf("first revoke: ok=%v err=%v", ok, err)
	}
	ok, err = repo.Revoke(context.Background(), "rt-1")
	if err != nil || ok {
		t.Fatalf("second revoke must report false: ok=%v err=%v", ok, err)
	}
}

func TestRevoke_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(revokeQ).WithArgs("rt-1").WillReturnError(errors.New("db down"))

	if _, err := repo.Revoke(context.Background(), "rt-1"); err == nil {
		t.Fatal("expected error")
	}
}

func TestRevokeAllForUser(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(revokeAllQ).WithArgs("u1").WillReturnResult(sqlmock.NewResult(0, 3))

	n, err := repo.RevokeAllForUser(context.Background(), "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 3 {
		t.Fatalf("want 3 revoked, got %d", n)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
