// Package transactions stores user transactions in PostgreSQL.
package transactions

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/budgetkeeper/internal/common"
	"github.com/dmitrijs2005/budgetkeeper/internal/dbx"
	"github.com/dmitrijs2005/budgetkeeper/internal/server/models"
)

const columns = `id, user_id, account_id, subcategory_id, description, amount::text, currency, date, notes, receipt_key, created_at, updated_at`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTransaction(s scanner) (*models.Transaction, error) {
	t := &models.Transaction{}
	err := s.Scan(&t.ID, &t.UserID, &t.AccountID, &t.SubcategoryID, &t.Description,
		&t.Amount, &t.Currency, &t.Date, &t.Notes, &t.ReceiptKey, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return t, nil
}

// List returns the user's transactions, newest first.
func (r *PostgresRepository) List(ctx context.Context, userID string, f models.TransactionFilter) ([]models.Transaction, error) {
	var sb strings.Builder
	args := []any{userID}

	sb.WriteString(`SELECT ` + columns + ` FROM transactions WHERE user_id = $1`)
	if f.From != nil {
		args = append(args, *f.From)
		fmt.Fprintf(&sb, ` AND date >= $%d`, len(args))
	}
	if f.To != nil {
		args = append(args, *f.To)
		fmt.Fprintf(&sb, ` AND date < $%d`, len(args))
	}
	if f.SubcategoryID != nil {
		args = append(args, *f.SubcategoryID)
		fmt.Fprintf(&sb, ` AND subcategory_id = $%d`, len(args))
	}
	args = append(args, f.Limit)
	fmt.Fprintf(&sb, ` ORDER BY date DESC, created_at DESC LIMIT $%d`, len(args))

	rows, err := r.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]models.Transaction, 0)
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

func (r *PostgresRepository) Create(ctx context.Context, t *models.Transaction) (*models.Transaction, error) {
	query :=
		`INSERT INTO transactions (user_id, account_id, subcategory_id, description, amount, currency, date, notes)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING ` + columns

	row := r.db.QueryRowContext(ctx, query,
		t.UserID, t.AccountID, t.SubcategoryID, t.Description, t.Amount, t.Currency, t.Date, t.Notes)
	created, err := scanTransaction(row)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return created, nil
}

func (r *PostgresRepository) Get(ctx context.Context, userID, id string) (*models.Transaction, error) {
	query := `SELECT ` + columns + ` FROM transactions WHERE id = $1 AND user_id = $2`

	t, err := scanTransaction(r.db.QueryRowContext(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return t, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, userID, id string) error {
	query := `DELETE FROM transactions WHERE id = $1 AND user_id = $2`
	return r.execOne(ctx, query, id, userID)
}

func (r *PostgresRepository) SetReceiptKey(ctx context.Context, userID, id, key string) error {
	query := `UPDATE transactions SET receipt_key = $3, updated_at = now() WHERE id = $1 AND user_id = $2`
	return r.execOne(ctx, query, id, userID, key)
}

// execOne runs a statement that must touch exactly one owned row.
func (r *PostgresRepository) execOne(ctx context.Context, query string, args ...any) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
